package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"datalake/internal/domain"
	"datalake/internal/services/endpoints"
)

// QueryInput selects a query by hash or by a JSON query body file.
type QueryInput struct {
	Hash     string
	BodyFile string
}

func readQuery(fs domain.FileSystemAdapter, in QueryInput) (endpoints.Query, error) {
	if in.BodyFile == "" {
		return endpoints.Query{Hash: in.Hash}, nil
	}

	data, err := fs.ReadFile(in.BodyFile)
	if err != nil {
		return endpoints.Query{}, fmt.Errorf("failed to read query body %s: %w", in.BodyFile, err)
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return endpoints.Query{}, fmt.Errorf("query body %s is not a JSON object: %w", in.BodyFile, err)
	}
	// A file may hold a whole advanced search payload rather than the bare body.
	if inner, ok := body["query_body"].(map[string]any); ok {
		body = inner
	}
	return endpoints.Query{Body: body, Hash: in.Hash}, nil
}

// SearchCommand runs an advanced search.
type SearchCommand struct {
	fs     domain.FileSystemAdapter
	logger *slog.Logger
}

// NewSearchCommand creates a new search command.
func NewSearchCommand(fs domain.FileSystemAdapter, logger *slog.Logger) *SearchCommand {
	return &SearchCommand{
		fs:     fs,
		logger: logger,
	}
}

// SearchRequest contains the parameters for the search command.
type SearchRequest struct {
	Query    QueryInput
	Limit    int
	Offset   int
	Ordering []string
	Output   domain.Output
}

// Execute runs the search command.
func (c *SearchCommand) Execute(ctx context.Context, req SearchRequest, client *endpoints.Client) (*domain.Result, error) {
	query, err := readQuery(c.fs, req.Query)
	if err != nil {
		return nil, err
	}

	result, err := client.AdvancedSearch.Search(ctx, endpoints.SearchRequest{
		Query:    query,
		Limit:    req.Limit,
		Offset:   req.Offset,
		Ordering: req.Ordering,
	}, req.Output)
	if err != nil {
		return nil, fmt.Errorf("advanced search failed: %w", err)
	}
	return result, checkExhausted("advanced search", result)
}

// BulkSearchCommand runs a bulk search to completion and downloads its result.
type BulkSearchCommand struct {
	fs     domain.FileSystemAdapter
	logger *slog.Logger
}

// NewBulkSearchCommand creates a new bulk search command.
func NewBulkSearchCommand(fs domain.FileSystemAdapter, logger *slog.Logger) *BulkSearchCommand {
	return &BulkSearchCommand{
		fs:     fs,
		logger: logger,
	}
}

// BulkSearchRequest contains the parameters for the bulk search command.
type BulkSearchRequest struct {
	Query  QueryInput
	Fields []string
	Output domain.Output
}

// Execute runs the bulk search command.
func (c *BulkSearchCommand) Execute(
	ctx context.Context,
	req BulkSearchRequest,
	client *endpoints.Client,
) (*domain.Result, error) {
	query, err := readQuery(c.fs, req.Query)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "Starting bulk search", "output", req.Output)

	result, err := client.BulkSearch.Run(ctx, endpoints.BulkSearchRequest{Query: query, Fields: req.Fields}, req.Output)
	if err != nil {
		return nil, fmt.Errorf("bulk search failed: %w", err)
	}
	return result, checkExhausted("bulk search download", result)
}
