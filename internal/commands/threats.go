package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
	"datalake/internal/services/endpoints"
	"datalake/internal/services/filter"
)

// ParseScores parses "threat_type=score" pairs.
func ParseScores(pairs []string) ([]endpoints.ThreatScore, error) {
	scores := make([]endpoints.ThreatScore, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, apperrors.NewValidationError("score", pair, "format", "scores must look like malware=60")
		}
		score, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, apperrors.NewValidationError("score", pair, "format", "score must be an integer")
		}
		scores = append(scores, endpoints.ThreatScore{
			ThreatType: domain.ThreatType(strings.ToLower(strings.TrimSpace(name))),
			Score:      score,
		})
	}
	return scores, nil
}

// AddThreatsCommand creates threats from atoms.
type AddThreatsCommand struct {
	fs     domain.FileSystemAdapter
	logger *slog.Logger
}

// NewAddThreatsCommand creates a new add-threats command.
func NewAddThreatsCommand(fs domain.FileSystemAdapter, logger *slog.Logger) *AddThreatsCommand {
	return &AddThreatsCommand{
		fs:     fs,
		logger: logger,
	}
}

// AddThreatsRequest contains the parameters for the add-threats command.
type AddThreatsRequest struct {
	AtomType     domain.AtomType
	Input        AtomInput
	Scores       []string
	Tags         []string
	Public       bool
	Whitelist    bool
	OverrideType string
}

// Execute runs the add-threats command. The returned result summarises every
// chunk; failed chunks also produce an error.
func (c *AddThreatsCommand) Execute(
	ctx context.Context,
	req AddThreatsRequest,
	client *endpoints.Client,
) (*domain.Result, error) {
	scores, err := ParseScores(req.Scores)
	if err != nil {
		return nil, err
	}

	atomFilter, err := filter.New(req.Input.Exclude, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create exclude filter: %w", err)
	}
	atoms, err := readAtoms(c.fs, req.Input, atomFilter)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "Adding threats", "type", req.AtomType, "atoms", len(atoms), "whitelist", req.Whitelist)

	added, err := client.Threats.AddThreats(ctx, endpoints.AddThreatsRequest{
		AtomType:     req.AtomType,
		AtomValues:   atoms,
		Scores:       scores,
		Tags:         req.Tags,
		Public:       req.Public,
		Whitelist:    req.Whitelist,
		OverrideType: endpoints.OverrideType(req.OverrideType),
	})
	if err != nil && added == nil {
		return nil, fmt.Errorf("failed to add threats: %w", err)
	}

	result := &domain.Result{StatusCode: 200, Body: summarize(added)}
	if err == nil {
		err = added.Err()
	}
	if err != nil {
		return result, fmt.Errorf("some threats were not added: %w", err)
	}

	c.logger.InfoContext(ctx, "Threats added", "chunks", len(added.Chunks), "hashkeys", len(added.Hashkeys()))
	return result, nil
}

func summarize(added *endpoints.AddThreatsResult) map[string]any {
	chunks := make([]any, 0, len(added.Chunks))
	for _, chunk := range added.Chunks {
		entry := map[string]any{
			"index":       chunk.Index,
			"task_uuid":   chunk.TaskUUID,
			"state":       string(chunk.State),
			"hashkeys":    chunk.Hashkeys,
			"atom_values": chunk.AtomValues,
		}
		if chunk.Err != nil {
			entry["error"] = chunk.Err.Error()
		}
		chunks = append(chunks, entry)
	}
	return map[string]any{
		"hashkeys": added.Hashkeys(),
		"chunks":   chunks,
	}
}
