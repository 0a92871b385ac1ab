package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"datalake/internal/commands"
	"datalake/internal/domain"
)

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var lookupCmd = &cobra.Command{
	Use:   "lookup <atom>",
	Short: "Look up the threat record of one atom",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var bulkLookupCmd = &cobra.Command{
	Use:   "bulk-lookup [atoms...]",
	Short: "Look up many atoms of one type",
	Long:  `Look up atoms given as arguments and/or read from --file, one per line.`,
	RunE:  runBulkLookup,
}

//nolint:gochecknoinits // Cobra CLI pattern for command registration
func init() {
	rootCmd.AddCommand(lookupCmd, bulkLookupCmd)

	lookupCmd.Flags().StringP("type", "t", "", "Atom type ("+domain.JoinAtomTypes(domain.AtomTypes())+")")
	lookupCmd.Flags().Bool("hashkey-only", false, "Return only the hashkey")
	addOutputFlags(lookupCmd, domain.AllOutputs)
	_ = lookupCmd.MarkFlagRequired("type")

	addAtomFlags(bulkLookupCmd)
	bulkLookupCmd.Flags().Bool("hashkey-only", false, "Return only hashkeys")
	addOutputFlags(bulkLookupCmd, domain.Outputs{domain.OutputJSON, domain.OutputCSV})
	_ = bulkLookupCmd.MarkFlagRequired("type")
}

func runLookup(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	output, path, err := outputFlags(cmd)
	if err != nil {
		return err
	}
	atomType, _ := cmd.Flags().GetString("type")
	hashkeyOnly, _ := cmd.Flags().GetBool("hashkey-only")

	session, err := newSession(cmd, a)
	if err != nil {
		return err
	}

	result, err := commands.NewLookupCommand(a.Logger).Execute(cmd.Context(), commands.LookupRequest{
		AtomType:    domain.AtomType(strings.ToLower(atomType)),
		Value:       args[0],
		HashkeyOnly: hashkeyOnly,
		Output:      output,
	}, session.Client)
	return writeResult(cmd, a, result, path, err)
}

func runBulkLookup(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	output, path, err := outputFlags(cmd)
	if err != nil {
		return err
	}
	atomType, input := atomFlags(cmd, args)
	hashkeyOnly, _ := cmd.Flags().GetBool("hashkey-only")

	session, err := newSession(cmd, a)
	if err != nil {
		return err
	}

	result, err := commands.NewBulkLookupCommand(a.FileSystem, a.Logger).Execute(cmd.Context(), commands.BulkLookupRequest{
		AtomType:    atomType,
		Input:       input,
		HashkeyOnly: hashkeyOnly,
		Output:      output,
	}, session.Client)
	return writeResult(cmd, a, result, path, err)
}
