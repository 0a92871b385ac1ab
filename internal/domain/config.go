package domain

import "context"

// ConfigProvider provides configuration paths.
type ConfigProvider interface {
	GetConfigPath() (string, error)
	GetConfigDir() (string, error)
}

// ConfigRepository persists the configuration file.
type ConfigRepository interface {
	Path() string
	Exists() bool
	Init(ctx context.Context, overwrite bool) error
}
