package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
	"datalake/internal/services/endpoints"
	"datalake/internal/services/filter"
)

// SightingsCommand submits a sighting.
type SightingsCommand struct {
	fs     domain.FileSystemAdapter
	logger *slog.Logger
	now    func() time.Time
}

// NewSightingsCommand creates a new sightings command.
func NewSightingsCommand(fs domain.FileSystemAdapter, logger *slog.Logger) *SightingsCommand {
	return &SightingsCommand{
		fs:     fs,
		logger: logger,
		now:    time.Now,
	}
}

// SightingsRequest contains the parameters for the sightings command. Start and
// End are RFC 3339 timestamps and default to now.
type SightingsRequest struct {
	AtomType    domain.AtomType
	Input       AtomInput
	Hashkeys    []string
	Type        string
	Visibility  string
	Count       int
	ThreatTypes []string
	Description string
	Start       string
	End         string
}

// Execute runs the sightings command.
func (c *SightingsCommand) Execute(
	ctx context.Context,
	req SightingsRequest,
	client *endpoints.Client,
) (*domain.Result, error) {
	now := c.now().UTC()
	start, err := parseTimestamp("start", req.Start, now)
	if err != nil {
		return nil, err
	}
	end, err := parseTimestamp("end", req.End, now)
	if err != nil {
		return nil, err
	}

	sighting := endpoints.SightingRequest{
		Hashkeys:    req.Hashkeys,
		Type:        endpoints.SightingType(strings.ToLower(req.Type)),
		Visibility:  endpoints.Visibility(strings.ToUpper(req.Visibility)),
		Count:       req.Count,
		Description: req.Description,
		Start:       start,
		End:         end,
	}
	for _, threatType := range req.ThreatTypes {
		sighting.ThreatTypes = append(sighting.ThreatTypes, domain.ThreatType(strings.ToLower(threatType)))
	}

	if len(req.Input.Values) > 0 || req.Input.File != "" {
		atomFilter, filterErr := filter.New(req.Input.Exclude, c.logger)
		if filterErr != nil {
			return nil, fmt.Errorf("failed to create exclude filter: %w", filterErr)
		}
		atoms, readErr := readAtoms(c.fs, req.Input, atomFilter)
		if readErr != nil {
			return nil, readErr
		}
		if len(atoms) > 0 {
			sighting.Atoms = map[domain.AtomType][]string{req.AtomType: atoms}
		}
	}

	c.logger.InfoContext(ctx, "Submitting sighting", "type", sighting.Type, "count", sighting.Count)

	result, err := client.Sightings.Submit(ctx, sighting)
	if err != nil {
		return nil, fmt.Errorf("failed to submit sighting: %w", err)
	}
	return result, checkExhausted("sighting", result)
}

func parseTimestamp(field, value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(field, value, "rfc3339", field+" must be an RFC 3339 timestamp")
	}
	return t, nil
}

// FilteredSightingsCommand lists sightings matching a JSON filter.
type FilteredSightingsCommand struct {
	fs     domain.FileSystemAdapter
	logger *slog.Logger
}

// NewFilteredSightingsCommand creates a new filtered sightings command.
func NewFilteredSightingsCommand(fs domain.FileSystemAdapter, logger *slog.Logger) *FilteredSightingsCommand {
	return &FilteredSightingsCommand{
		fs:     fs,
		logger: logger,
	}
}

// Execute sends the JSON object in filterFile as the sighting filter.
func (c *FilteredSightingsCommand) Execute(
	ctx context.Context,
	filterFile string,
	client *endpoints.Client,
) (*domain.Result, error) {
	data, err := c.fs.ReadFile(filterFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read sighting filter %s: %w", filterFile, err)
	}

	var sightingFilter map[string]any
	if err := json.Unmarshal(data, &sightingFilter); err != nil {
		return nil, fmt.Errorf("sighting filter %s is not a JSON object: %w", filterFile, err)
	}

	c.logger.InfoContext(ctx, "Listing sightings", "filter", filterFile)

	result, err := client.Sightings.Filtered(ctx, sightingFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sightings: %w", err)
	}
	return result, checkExhausted("filtered sightings", result)
}

// TagCommand tags a threat.
type TagCommand struct {
	logger *slog.Logger
}

// NewTagCommand creates a new tag command.
func NewTagCommand(logger *slog.Logger) *TagCommand {
	return &TagCommand{logger: logger}
}

// TagRequest contains the parameters for the tag command.
type TagRequest struct {
	Hashkey    string
	Tags       []string
	Visibility string
}

// Execute runs the tag command.
func (c *TagCommand) Execute(ctx context.Context, req TagRequest, client *endpoints.Client) (*domain.Result, error) {
	c.logger.InfoContext(ctx, "Tagging threat", "hashkey", req.Hashkey, "tags", len(req.Tags))

	result, err := client.Tags.Add(ctx, req.Hashkey, req.Tags, endpoints.Visibility(strings.ToUpper(req.Visibility)))
	if err != nil {
		return nil, fmt.Errorf("failed to tag %s: %w", req.Hashkey, err)
	}
	return result, checkExhausted("tag", result)
}
