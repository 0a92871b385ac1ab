package cmd

import (
	"github.com/spf13/cobra"

	"datalake/internal/commands"
	"datalake/internal/domain"
)

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run an advanced search and print one page of threats",
	RunE:  runSearch,
}

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var bulkSearchCmd = &cobra.Command{
	Use:   "bulk-search",
	Short: "Export every threat matching a query",
	Long: `Create a bulk search task, wait for it to finish and download its result.
Waiting is bounded by max_bulk_search_time.`,
	RunE: runBulkSearch,
}

//nolint:gochecknoinits // Cobra CLI pattern for command registration
func init() {
	rootCmd.AddCommand(searchCmd, bulkSearchCmd)

	for _, c := range []*cobra.Command{searchCmd, bulkSearchCmd} {
		c.Flags().String("query-hash", "", "Hash of a saved query")
		c.Flags().String("query-body", "", "JSON file holding the query body")
		c.MarkFlagsOneRequired("query-hash", "query-body")
		c.MarkFlagsMutuallyExclusive("query-hash", "query-body")
		addOutputFlags(c, domain.AllOutputs)
	}

	searchCmd.Flags().Int("limit", 20, "Page size")
	searchCmd.Flags().Int("offset", 0, "Page offset")
	searchCmd.Flags().StringSlice("ordering", nil, "Fields to order by, prefixed with - for descending")

	bulkSearchCmd.Flags().StringSlice("fields", nil, "Fields to export")
}

func queryFlags(cmd *cobra.Command) commands.QueryInput {
	hash, _ := cmd.Flags().GetString("query-hash")
	bodyFile, _ := cmd.Flags().GetString("query-body")
	return commands.QueryInput{Hash: hash, BodyFile: bodyFile}
}

func runSearch(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	output, path, err := outputFlags(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	ordering, _ := cmd.Flags().GetStringSlice("ordering")

	session, err := newSession(cmd, a)
	if err != nil {
		return err
	}

	result, err := commands.NewSearchCommand(a.FileSystem, a.Logger).Execute(cmd.Context(), commands.SearchRequest{
		Query:    queryFlags(cmd),
		Limit:    limit,
		Offset:   offset,
		Ordering: ordering,
		Output:   output,
	}, session.Client)
	return writeResult(cmd, a, result, path, err)
}

func runBulkSearch(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	output, path, err := outputFlags(cmd)
	if err != nil {
		return err
	}
	fields, _ := cmd.Flags().GetStringSlice("fields")

	session, err := newSession(cmd, a)
	if err != nil {
		return err
	}

	result, err := commands.NewBulkSearchCommand(a.FileSystem, a.Logger).Execute(cmd.Context(), commands.BulkSearchRequest{
		Query:  queryFlags(cmd),
		Fields: fields,
		Output: output,
	}, session.Client)
	return writeResult(cmd, a, result, path, err)
}
