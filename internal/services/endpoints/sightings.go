package endpoints

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
)

const (
	sightingPath         = "mrti/threats/sighting/"
	filteredSightingPath = "mrti/threats/sighting/filtered/"
)

// SightingType tells whether a sighting confirms, refutes or merely records a threat.
type SightingType string

const (
	SightingPositive SightingType = "positive"
	SightingNegative SightingType = "negative"
	SightingNeutral  SightingType = "neutral"
)

// Visibility scopes who can see a sighting or a tag.
type Visibility string

const (
	VisibilityPublic       Visibility = "PUBLIC"
	VisibilityOrganization Visibility = "ORGANIZATION"
)

func (v Visibility) valid() bool {
	return v == VisibilityPublic || v == VisibilityOrganization
}

// SightingRequest reports atoms, or existing threats by hashkey, seen in the field.
type SightingRequest struct {
	Atoms       map[domain.AtomType][]string
	Hashkeys    []string
	Type        SightingType
	Visibility  Visibility
	Count       int
	ThreatTypes []domain.ThreatType
	Description string
	Start       time.Time
	End         time.Time
}

func (r SightingRequest) validate() error {
	if len(r.Atoms) == 0 && len(r.Hashkeys) == 0 {
		return apperrors.NewValidationError("atoms", "", "required", "atoms or hashkeys are required")
	}
	for atomType := range r.Atoms {
		if err := checkAtomType(atomType); err != nil {
			return err
		}
	}

	switch r.Type {
	case SightingPositive, SightingNegative:
		if len(r.ThreatTypes) == 0 {
			return apperrors.NewValidationError("threat_types", "", "required",
				"positive and negative sightings need at least one threat type")
		}
	case SightingNeutral:
		if len(r.ThreatTypes) > 0 {
			return apperrors.NewValidationError("threat_types", "", "forbidden",
				"neutral sightings must not carry threat types")
		}
	default:
		return apperrors.NewValidationError("type", string(r.Type), "sighting_types",
			"sighting type must be positive, negative or neutral")
	}

	for _, threatType := range r.ThreatTypes {
		if !threatType.Valid() {
			return apperrors.NewValidationError("threat_type", string(threatType), "threat_types", "unknown threat type")
		}
	}
	if !r.Visibility.valid() {
		return apperrors.NewValidationError("visibility", string(r.Visibility), "visibilities",
			"visibility must be PUBLIC or ORGANIZATION")
	}
	if r.Count < 1 {
		return apperrors.NewValidationError("count", strconv.Itoa(r.Count), "minimum", "count must be at least 1")
	}
	if r.Start.IsZero() || r.End.IsZero() || r.End.Before(r.Start) {
		return apperrors.NewValidationError("end_timestamp", r.End.String(), "range",
			"start and end are required and end must not precede start")
	}
	return nil
}

func (r SightingRequest) body() map[string]any {
	body := map[string]any{
		"type":            string(r.Type),
		"visibility":      string(r.Visibility),
		"count":           r.Count,
		"start_timestamp": r.Start.UTC().Format(time.RFC3339),
		"end_timestamp":   r.End.UTC().Format(time.RFC3339),
	}
	if len(r.ThreatTypes) > 0 {
		body["threat_types"] = r.ThreatTypes
	}
	if r.Description != "" {
		body["description"] = r.Description
	}
	if len(r.Hashkeys) > 0 {
		body["hashkeys"] = r.Hashkeys
	}
	if len(r.Atoms) > 0 {
		atoms := make(map[string][]string, len(r.Atoms))
		for atomType, values := range r.Atoms {
			atoms[string(atomType)] = values
		}
		body["atoms"] = atoms
	}
	return body
}

// Sightings submits and lists threat sightings.
type Sightings struct {
	endpoint
}

// NewSightings creates the sightings operation family.
func NewSightings(baseURL string, newExecutor ExecutorFactory, logger *slog.Logger) *Sightings {
	return &Sightings{endpoint: newEndpoint("sightings", baseURL, newExecutor, logger)}
}

// Submit records a sighting.
func (s *Sightings) Submit(ctx context.Context, req SightingRequest) (*domain.Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	return s.executor.Execute(ctx, s.request(http.MethodPost, sightingPath, nil, req.body(), domain.OutputJSON))
}

// Filtered lists sightings matching filter, passed through as the request body.
func (s *Sightings) Filtered(ctx context.Context, filter map[string]any) (*domain.Result, error) {
	if filter == nil {
		filter = map[string]any{}
	}
	return s.executor.Execute(ctx, s.request(http.MethodPost, filteredSightingPath, nil, filter, domain.OutputJSON))
}
