package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"datalake/internal/app"
	"datalake/internal/config"
)

//nolint:gochecknoglobals // Cobra CLI pattern for persistent flag variables
var (
	cfgFile string
	verbose bool

	application *app.App
)

// VersionInfo holds build information.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
	BuiltBy string
}

//nolint:gochecknoglobals // Package-level version info for CLI commands
var versionInfo = VersionInfo{
	Version: "dev",
	Commit:  "none",
	Date:    "unknown",
	BuiltBy: "unknown",
}

// SetVersionInfo updates the build information.
func SetVersionInfo(v, c, d, b string) {
	versionInfo.Version = v
	versionInfo.Commit = c
	versionInfo.Date = d
	versionInfo.BuiltBy = b
}

// GetVersionInfo returns the current version information.
func GetVersionInfo() VersionInfo {
	return versionInfo
}

// GetApp returns the initialized application instance.
func GetApp() *app.App {
	return application
}

//nolint:gochecknoglobals // Cobra CLI pattern for root command
var rootCmd = &cobra.Command{
	Use:   "datalake",
	Short: "A CLI client for the Orange Cyberdefense Datalake threat intelligence API",
	Long: `datalake looks up, searches, creates and annotates threats on the
Orange Cyberdefense Datalake platform. Credentials come from the config file,
OCD_DTL_ environment variables or an interactive prompt.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Annotations[skipAppAnnotation] == "true" {
			return nil
		}
		return initApp(cmd)
	},
}

// skipAppAnnotation marks commands that run without settings.
const skipAppAnnotation = "datalake/skip-app"

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra CLI pattern for flag initialization
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/datalake/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.String("env", config.EnvProd, "Datalake environment (prod or preprod)")
	flags.String("base-url", "", "API root overriding the environment")
	flags.String("longterm-token", "", "Long-term token used instead of username and password")
	flags.Bool("insecure", false, "Skip TLS certificate verification")
}

// boundFlags maps setting keys to the persistent flags overriding them.
//
//nolint:gochecknoglobals // static flag table
var boundFlags = map[string]string{
	config.KeyEnv:           "env",
	config.KeyBaseURL:       "base-url",
	config.KeyLongTermToken: "longterm-token",
	config.KeyInsecure:      "insecure",
}

// newViper builds the settings source for cmd: defaults, config file, environment and flags.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	home, err := os.UserHomeDir()
	if err != nil && cfgFile == "" {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	v := config.New(cfgFile, home)
	for key, name := range boundFlags {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
			return nil, fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return v, nil
}

func initApp(cmd *cobra.Command) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}

	opts := []app.Option{app.WithViper(v)}
	if verbose {
		opts = append(opts, app.WithVerbose(true))
	}

	application, err = app.NewApp(cmd.Context(), opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return nil
}
