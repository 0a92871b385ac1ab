package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"datalake/internal/config"
	"datalake/internal/domain"
	"datalake/internal/services/endpoints"
)

// ConfigCommand initialises and shows the configuration.
type ConfigCommand struct {
	configRepo domain.ConfigRepository
	logger     *slog.Logger
}

// NewConfigCommand creates a new config command.
func NewConfigCommand(configRepo domain.ConfigRepository, logger *slog.Logger) *ConfigCommand {
	return &ConfigCommand{
		configRepo: configRepo,
		logger:     logger,
	}
}

// Init writes the default configuration file and returns its path.
func (c *ConfigCommand) Init(ctx context.Context, overwrite bool) (string, error) {
	if err := c.configRepo.Init(ctx, overwrite); err != nil {
		return "", fmt.Errorf("failed to initialise configuration: %w", err)
	}
	return c.configRepo.Path(), nil
}

// Show writes the effective settings, secrets masked.
func (c *ConfigCommand) Show(_ context.Context, settings *config.Settings, w io.Writer) error {
	data, err := config.Render(settings.Masked())
	if err != nil {
		return err
	}

	source := "defaults and environment only"
	if c.configRepo.Exists() {
		source = c.configRepo.Path()
	}
	if _, err := fmt.Fprintf(w, "# source: %s\n", source); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Check authenticates against apiRoot and lists the atom types the platform knows.
func (c *ConfigCommand) Check(ctx context.Context, client *endpoints.Client, apiRoot string, w io.Writer) error {
	result, err := client.Atoms.Types(ctx)
	if err != nil {
		return fmt.Errorf("connectivity check failed: %w", err)
	}
	if err := checkExhausted("connectivity check", result); err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "Connectivity check passed", "apiRoot", apiRoot)

	if types, ok := result.Body["results"].([]any); ok {
		_, err = fmt.Fprintf(w, "Connected to %s (%d atom types)\n", apiRoot, len(types))
		return err
	}
	_, err = fmt.Fprintf(w, "Connected to %s\n", apiRoot)
	return err
}
