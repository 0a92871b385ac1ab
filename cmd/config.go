package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"datalake/internal/commands"
)

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the datalake configuration",
}

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented configuration file holding the defaults",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		path, err := commands.NewConfigCommand(a.ConfigRepo, a.Logger).Init(cmd.Context(), force)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
		return nil
	},
}

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings with secrets masked",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		return commands.NewConfigCommand(a.ConfigRepo, a.Logger).Show(cmd.Context(), a.Settings, cmd.OutOrStdout())
	},
}

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Authenticate and list atom types to verify credentials and connectivity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		session, err := newSession(cmd, a)
		if err != nil {
			return err
		}
		return commands.NewConfigCommand(a.ConfigRepo, a.Logger).
			Check(cmd.Context(), session.Client, a.Settings.APIRoot(), cmd.OutOrStdout())
	},
}

//nolint:gochecknoinits // Cobra CLI pattern for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configCheckCmd)

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
}
