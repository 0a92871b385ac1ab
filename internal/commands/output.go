package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"datalake/internal/domain"
)

const outputPermissions = 0o600

// ResultWriter writes operation results to stdout or to a file.
type ResultWriter struct {
	fs     domain.FileSystemAdapter
	stdout io.Writer
	logger *slog.Logger
}

// NewResultWriter creates a result writer.
func NewResultWriter(fs domain.FileSystemAdapter, stdout io.Writer, logger *slog.Logger) *ResultWriter {
	return &ResultWriter{
		fs:     fs,
		stdout: stdout,
		logger: logger,
	}
}

// Write renders result as its raw text (CSV) or indented JSON. An empty path means stdout.
func (w *ResultWriter) Write(result *domain.Result, path string) error {
	var data []byte
	if result.Text != "" {
		data = []byte(result.Text)
	} else {
		body := result.Body
		if body == nil {
			body = map[string]any{}
		}
		encoded, err := json.MarshalIndent(body, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		data = append(encoded, '\n')
	}

	if path == "" {
		_, err := w.stdout.Write(data)
		return err
	}

	if err := w.fs.WriteFile(path, data, outputPermissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.logger.Info("Result written", "path", path, "bytes", len(data))
	return nil
}
