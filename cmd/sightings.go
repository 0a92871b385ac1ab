package cmd

import (
	"github.com/spf13/cobra"

	"datalake/internal/app"
	"datalake/internal/commands"
)

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var sightingsCmd = &cobra.Command{
	Use:   "sightings [atoms...]",
	Short: "Report atoms or threats seen in the field",
	Long: `Submit a sighting for atoms (with --type) or for existing threats (with --hashkey).
Positive and negative sightings need at least one --threat-type; neutral ones take none.
With --filtered, list the sightings matching the JSON filter in that file instead.`,
	RunE: runSightings,
}

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var tagCmd = &cobra.Command{
	Use:   "tag <hashkey>",
	Short: "Attach tags to a threat",
	Args:  cobra.ExactArgs(1),
	RunE:  runTag,
}

//nolint:gochecknoinits // Cobra CLI pattern for command registration
func init() {
	rootCmd.AddCommand(sightingsCmd, tagCmd)

	addAtomFlags(sightingsCmd)
	sightingsCmd.Flags().StringSlice("hashkey", nil, "Hashkeys of existing threats")
	sightingsCmd.Flags().String("sighting-type", "positive", "positive, negative or neutral")
	sightingsCmd.Flags().String("visibility", "ORGANIZATION", "PUBLIC or ORGANIZATION")
	sightingsCmd.Flags().Int("count", 1, "Number of times the atoms were seen")
	sightingsCmd.Flags().StringSlice("threat-type", nil, "Threat types the sighting relates to")
	sightingsCmd.Flags().String("description", "", "Free text description")
	sightingsCmd.Flags().String("start", "", "First seen, RFC 3339 (default now)")
	sightingsCmd.Flags().String("end", "", "Last seen, RFC 3339 (default now)")
	sightingsCmd.Flags().String("filtered", "", "JSON file holding a sighting filter; lists matching sightings")
	sightingsCmd.Flags().StringP("output", "o", "", "Write the result to this file instead of stdout")
	sightingsCmd.MarkFlagsMutuallyExclusive("filtered", "hashkey")
	sightingsCmd.MarkFlagsMutuallyExclusive("filtered", "file")

	tagCmd.Flags().StringSlice("tag", nil, "Tags to attach")
	tagCmd.Flags().String("visibility", "ORGANIZATION", "PUBLIC or ORGANIZATION")
	tagCmd.Flags().StringP("output", "o", "", "Write the result to this file instead of stdout")
	_ = tagCmd.MarkFlagRequired("tag")
}

func runSightings(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	filterFile, _ := cmd.Flags().GetString("filtered")
	if filterFile != "" {
		return runFilteredSightings(cmd, a, filterFile)
	}

	atomType, input := atomFlags(cmd, args)
	hashkeys, _ := cmd.Flags().GetStringSlice("hashkey")
	sightingType, _ := cmd.Flags().GetString("sighting-type")
	visibility, _ := cmd.Flags().GetString("visibility")
	count, _ := cmd.Flags().GetInt("count")
	threatTypes, _ := cmd.Flags().GetStringSlice("threat-type")
	description, _ := cmd.Flags().GetString("description")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	path, _ := cmd.Flags().GetString("output")

	session, err := newSession(cmd, a)
	if err != nil {
		return err
	}

	result, err := commands.NewSightingsCommand(a.FileSystem, a.Logger).Execute(cmd.Context(), commands.SightingsRequest{
		AtomType:    atomType,
		Input:       input,
		Hashkeys:    hashkeys,
		Type:        sightingType,
		Visibility:  visibility,
		Count:       count,
		ThreatTypes: threatTypes,
		Description: description,
		Start:       start,
		End:         end,
	}, session.Client)
	return writeResult(cmd, a, result, path, err)
}

func runFilteredSightings(cmd *cobra.Command, a *app.App, filterFile string) error {
	path, _ := cmd.Flags().GetString("output")

	session, err := newSession(cmd, a)
	if err != nil {
		return err
	}

	result, err := commands.NewFilteredSightingsCommand(a.FileSystem, a.Logger).
		Execute(cmd.Context(), filterFile, session.Client)
	return writeResult(cmd, a, result, path, err)
}

func runTag(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	tags, _ := cmd.Flags().GetStringSlice("tag")
	visibility, _ := cmd.Flags().GetString("visibility")
	path, _ := cmd.Flags().GetString("output")

	session, err := newSession(cmd, a)
	if err != nil {
		return err
	}

	result, err := commands.NewTagCommand(a.Logger).Execute(cmd.Context(), commands.TagRequest{
		Hashkey:    args[0],
		Tags:       tags,
		Visibility: visibility,
	}, session.Client)
	return writeResult(cmd, a, result, path, err)
}
