package config

import (
	"fmt"
	"path/filepath"

	"datalake/internal/config"
	"datalake/internal/domain"
)

// Provider provides configuration paths.
type Provider struct {
	fs domain.FileSystemAdapter
}

// NewProvider creates a new configuration provider.
func NewProvider(fs domain.FileSystemAdapter) *Provider {
	return &Provider{
		fs: fs,
	}
}

// GetConfigDir returns the directory holding the datalake configuration.
func (p *Provider) GetConfigDir() (string, error) {
	homeDir, err := p.fs.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return config.DefaultDir(homeDir), nil
}

// GetConfigPath returns the path to the datalake configuration file.
func (p *Provider) GetConfigPath() (string, error) {
	dir, err := p.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
