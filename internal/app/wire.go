package app

import (
	"context"
	"os"

	"datalake/internal/adapters/filesystem"
	"datalake/internal/adapters/terminal"
	"datalake/internal/config"
	"datalake/internal/logging"
	configsvc "datalake/internal/services/config"
)

// NewAppWithConfig creates a new App with the given configuration, wiring all dependencies.
func NewAppWithConfig(ctx context.Context, cfg *Config) (*App, error) {
	// Create filesystem adapter.
	fs := filesystem.New()

	configProvider := configsvc.NewProvider(fs)
	configPath, err := configProvider.GetConfigPath()
	if err != nil {
		return nil, err
	}

	v := cfg.Viper
	if v == nil {
		home, _ := fs.UserHomeDir()
		v = config.New("", home)
	}
	if err := config.Read(v); err != nil {
		return nil, err
	}
	if used := v.ConfigFileUsed(); used != "" {
		configPath = used
	}

	settings, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	level := settings.LogLevel
	if cfg.LogLevel != "" {
		level = cfg.LogLevel
	}
	logger := logging.NewLogger(logging.Config{
		Level:  logging.ParseLevel(level),
		Format: settings.LogFormat,
		Output: os.Stderr,
	})

	// Create password reader with environment variable support.
	passwordReader := terminal.NewAdapter(os.Stdin, os.Stderr)

	configRepo := configsvc.NewRepository(fs, configPath, logger)

	logger.DebugContext(ctx, "Initializing datalake with configuration",
		"logLevel", level,
		"verbose", cfg.Verbose,
		"configPath", configPath,
		"apiRoot", settings.APIRoot())

	return &App{
		ConfigRepo:     configRepo,
		ConfigProvider: configProvider,
		Settings:       settings,
		ClientFactory:  NewClientFactory(settings, passwordReader, logger),
		PasswordReader: passwordReader,
		FileSystem:     fs,
		Logger:         logger,
		Config:         cfg,
	}, nil
}
