package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"datalake/internal/app"
	"datalake/internal/commands"
	"datalake/internal/domain"
)

func requireApp() (*app.App, error) {
	a := GetApp()
	if a == nil {
		return nil, errors.New("application not initialized")
	}
	return a, nil
}

// addOutputFlags registers --format and --output, offering the given outputs.
func addOutputFlags(cmd *cobra.Command, supported domain.Outputs) {
	cmd.Flags().StringP("format", "f", domain.OutputJSON.String(), "Output format ("+supported.String()+")")
	cmd.Flags().StringP("output", "o", "", "Write the result to this file instead of stdout")
}

func outputFlags(cmd *cobra.Command) (domain.Output, string, error) {
	format, _ := cmd.Flags().GetString("format")
	path, _ := cmd.Flags().GetString("output")

	output, err := domain.ParseOutput(format)
	if err != nil {
		return domain.OutputJSON, "", err
	}
	return output, path, nil
}

// addAtomFlags registers the atom type and the atom input flags.
func addAtomFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", "", "Atom type ("+domain.JoinAtomTypes(domain.AtomTypes())+")")
	cmd.Flags().String("file", "", "Read atoms from this file, one per line")
	cmd.Flags().StringSlice("exclude", nil, "Drop atoms matching these regular expressions")
}

func atomFlags(cmd *cobra.Command, args []string) (domain.AtomType, commands.AtomInput) {
	atomType, _ := cmd.Flags().GetString("type")
	file, _ := cmd.Flags().GetString("file")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")

	return domain.AtomType(strings.ToLower(atomType)), commands.AtomInput{
		Values:  args,
		File:    file,
		Exclude: exclude,
	}
}

// writeResult writes result even when err is set, so partial results are kept, then returns err.
func writeResult(cmd *cobra.Command, a *app.App, result *domain.Result, path string, err error) error {
	if result != nil {
		writer := commands.NewResultWriter(a.FileSystem, cmd.OutOrStdout(), a.Logger)
		if writeErr := writer.Write(result, path); writeErr != nil {
			return errors.Join(err, writeErr)
		}
	}
	return err
}

func newSession(cmd *cobra.Command, a *app.App) (*app.Session, error) {
	session, err := a.ClientFactory.Create(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to create datalake session: %w", err)
	}
	return session, nil
}
