package commands

import (
	"context"
	"fmt"
	"log/slog"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
	"datalake/internal/services/endpoints"
	"datalake/internal/services/filter"
)

// checkExhausted turns a retry-exhausted empty result into an error so the CLI exits non-zero.
func checkExhausted(operation string, result *domain.Result) error {
	if result != nil && result.Exhausted {
		return fmt.Errorf("%s: %w", operation, apperrors.ErrRetryExhausted)
	}
	return nil
}

// LookupCommand looks up a single atom.
type LookupCommand struct {
	logger *slog.Logger
}

// NewLookupCommand creates a new lookup command.
func NewLookupCommand(logger *slog.Logger) *LookupCommand {
	return &LookupCommand{logger: logger}
}

// LookupRequest contains the parameters for the lookup command.
type LookupRequest struct {
	AtomType    domain.AtomType
	Value       string
	HashkeyOnly bool
	Output      domain.Output
}

// Execute runs the lookup command.
func (c *LookupCommand) Execute(ctx context.Context, req LookupRequest, client *endpoints.Client) (*domain.Result, error) {
	c.logger.InfoContext(ctx, "Looking up atom", "type", req.AtomType, "value", req.Value)

	result, err := client.Threats.Lookup(ctx, req.AtomType, req.Value, req.HashkeyOnly, req.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", req.Value, err)
	}
	return result, checkExhausted("lookup", result)
}

// BulkLookupCommand looks up many atoms of one type.
type BulkLookupCommand struct {
	fs     domain.FileSystemAdapter
	logger *slog.Logger
}

// NewBulkLookupCommand creates a new bulk lookup command.
func NewBulkLookupCommand(fs domain.FileSystemAdapter, logger *slog.Logger) *BulkLookupCommand {
	return &BulkLookupCommand{
		fs:     fs,
		logger: logger,
	}
}

// BulkLookupRequest contains the parameters for the bulk lookup command.
type BulkLookupRequest struct {
	AtomType    domain.AtomType
	Input       AtomInput
	HashkeyOnly bool
	Output      domain.Output
}

// Execute runs the bulk lookup command.
func (c *BulkLookupCommand) Execute(
	ctx context.Context,
	req BulkLookupRequest,
	client *endpoints.Client,
) (*domain.Result, error) {
	atomFilter, err := filter.New(req.Input.Exclude, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create exclude filter: %w", err)
	}

	atoms, err := readAtoms(c.fs, req.Input, atomFilter)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "Bulk lookup", "type", req.AtomType, "atoms", len(atoms))

	result, err := client.Threats.BulkLookup(ctx,
		map[domain.AtomType][]string{req.AtomType: atoms}, req.HashkeyOnly, req.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk look up atoms: %w", err)
	}
	return result, checkExhausted("bulk lookup", result)
}
