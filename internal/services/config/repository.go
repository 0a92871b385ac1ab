package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"datalake/internal/config"
	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
)

const (
	dirPermissions  = 0o700 // Owner-only access for security
	filePermissions = 0o600 // The file may hold credentials
)

// Repository handles configuration file persistence.
type Repository struct {
	fs         domain.FileSystemAdapter
	configPath string
	logger     *slog.Logger
}

// NewRepository creates a new configuration repository.
func NewRepository(fs domain.FileSystemAdapter, configPath string, logger *slog.Logger) *Repository {
	return &Repository{
		fs:         fs,
		configPath: configPath,
		logger:     logger,
	}
}

// Path returns the configuration file path.
func (r *Repository) Path() string {
	return r.configPath
}

// Exists reports whether the configuration file is present.
func (r *Repository) Exists() bool {
	_, err := r.fs.Stat(r.configPath)
	return err == nil
}

// Init writes a commented configuration file holding the defaults. An existing
// file is only replaced when overwrite is set.
func (r *Repository) Init(ctx context.Context, overwrite bool) error {
	if r.Exists() && !overwrite {
		return apperrors.NewConfigurationError("config_file", r.configPath,
			"configuration file already exists, use --force to overwrite it", nil)
	}

	data, err := config.Render(config.Defaults())
	if err != nil {
		return err
	}

	if err := r.fs.MkdirAll(filepath.Dir(r.configPath), dirPermissions); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := r.fs.WriteFile(r.configPath, data, filePermissions); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	r.logger.InfoContext(ctx, "Configuration file written", "path", r.configPath)
	return nil
}
