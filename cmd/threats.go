package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"datalake/internal/commands"
	"datalake/internal/domain"
)

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var addThreatsCmd = &cobra.Command{
	Use:   "add-threats [atoms...]",
	Short: "Create threats from atoms",
	Long: `Create or update threats for atoms of one type, in chunks of 100.
Scores are given as threat_type=score, e.g. --score malware=60 --score phishing=20.
--whitelist scores every threat type 0 instead.`,
	RunE: runAddThreats,
}

//nolint:gochecknoinits // Cobra CLI pattern for command registration
func init() {
	rootCmd.AddCommand(addThreatsCmd)

	addAtomFlags(addThreatsCmd)
	addThreatsCmd.Flags().StringSlice("score", nil, "Threat score as threat_type=score ("+threatTypeList()+")")
	addThreatsCmd.Flags().StringSlice("tag", nil, "Tags to attach")
	addThreatsCmd.Flags().Bool("public", false, "Make the threats public")
	addThreatsCmd.Flags().Bool("whitelist", false, "Score every threat type 0")
	addThreatsCmd.Flags().String("override", "temporary", "Override type (permanent, lock or temporary)")
	addThreatsCmd.Flags().StringP("output", "o", "", "Write the result to this file instead of stdout")
	_ = addThreatsCmd.MarkFlagRequired("type")
}

func threatTypeList() string {
	names := make([]string, 0, len(domain.ThreatTypes()))
	for _, t := range domain.ThreatTypes() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func runAddThreats(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	atomType, input := atomFlags(cmd, args)
	scores, _ := cmd.Flags().GetStringSlice("score")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	public, _ := cmd.Flags().GetBool("public")
	whitelist, _ := cmd.Flags().GetBool("whitelist")
	override, _ := cmd.Flags().GetString("override")
	path, _ := cmd.Flags().GetString("output")

	session, err := newSession(cmd, a)
	if err != nil {
		return err
	}

	result, err := commands.NewAddThreatsCommand(a.FileSystem, a.Logger).Execute(cmd.Context(), commands.AddThreatsRequest{
		AtomType:     atomType,
		Input:        input,
		Scores:       scores,
		Tags:         tags,
		Public:       public,
		Whitelist:    whitelist,
		OverrideType: override,
	}, session.Client)
	return writeResult(cmd, a, result, path, err)
}
