package app

import (
	"context"
	"log/slog"

	"github.com/spf13/viper"

	"datalake/internal/config"
	"datalake/internal/domain"
)

// App contains all application dependencies.
type App struct {
	// Core configuration dependencies (always needed)
	ConfigRepo     domain.ConfigRepository
	ConfigProvider domain.ConfigProvider
	Settings       *config.Settings

	// Factory for creating authenticated Datalake clients on demand
	ClientFactory *ClientFactory

	// File operations (needed by multiple commands)
	FileSystem domain.FileSystemAdapter

	// I/O dependencies
	PasswordReader domain.PasswordReader

	// Logging
	Logger *slog.Logger

	// Configuration
	Config *Config
}

// Config holds application configuration.
type Config struct {
	LogLevel string
	Verbose  bool

	// Viper is the settings source, already bound to flags. A nil Viper reads
	// the default config file and OCD_DTL_ variables.
	Viper *viper.Viper
}

// Option is a functional option for configuring the App.
type Option func(*Config)

// WithLogLevel sets the logging level, overriding log_level.
func WithLogLevel(level string) Option {
	return func(cfg *Config) {
		cfg.LogLevel = level
	}
}

// WithVerbose enables verbose logging.
func WithVerbose(verbose bool) Option {
	return func(cfg *Config) {
		cfg.Verbose = verbose
		if verbose {
			cfg.LogLevel = "debug"
		}
	}
}

// WithViper sets the settings source.
func WithViper(v *viper.Viper) Option {
	return func(cfg *Config) {
		cfg.Viper = v
	}
}

// NewApp creates a new App with the given options.
func NewApp(ctx context.Context, opts ...Option) (*App, error) {
	cfg := &Config{}

	// Apply options.
	for _, opt := range opts {
		opt(cfg)
	}

	return NewAppWithConfig(ctx, cfg)
}
