package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PasswordEnv is read before prompting, for non-interactive use.
const PasswordEnv = "OCD_DTL_PASSWORD"

// Adapter handles credential input from the terminal.
type Adapter struct {
	stdin  io.Reader
	stderr io.Writer
	lines  *bufio.Reader
}

// NewAdapter creates a new terminal adapter.
func NewAdapter(stdin io.Reader, stderr io.Writer) *Adapter {
	return &Adapter{
		stdin:  stdin,
		stderr: stderr,
		lines:  bufio.NewReader(stdin),
	}
}

// ReadPassword reads a password from the terminal with echo disabled.
func (a *Adapter) ReadPassword(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if envPassword := os.Getenv(PasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	if !a.IsInteractive() {
		return "", fmt.Errorf("cannot read password: non-interactive terminal, set %s", PasswordEnv)
	}

	fmt.Fprint(a.stderr, prompt)

	file, ok := a.stdin.(*os.File)
	if !ok {
		return "", errors.New("cannot read password from non-terminal input")
	}
	password, err := term.ReadPassword(int(file.Fd()))
	fmt.Fprintln(a.stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

// ReadLine prompts and reads one line with echo on.
func (a *Adapter) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprint(a.stderr, prompt)

	line, err := a.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// IsInteractive returns true if the terminal is interactive.
func (a *Adapter) IsInteractive() bool {
	if file, ok := a.stdin.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
