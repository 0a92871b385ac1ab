// Package endpoints implements the typed Datalake operations on top of the
// request executor, the task poller and the batch orchestrator.
package endpoints

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
)

// Settings carries the bulk task limits of a client.
type Settings struct {
	MaxBulkSearchTime  time.Duration
	MaxBulkThreatsTime time.Duration
	MaxBackOffTime     time.Duration
	MaxInFlight        int
}

// DefaultSettings returns the limits used when no configuration overrides them.
func DefaultSettings() Settings {
	return Settings{
		MaxBulkSearchTime:  time.Hour,
		MaxBulkThreatsTime: 10 * time.Minute,
		MaxBackOffTime:     2 * time.Minute,
		MaxInFlight:        10,
	}
}

// ExecutorFactory returns the executor an endpoint family sends its requests through.
// The name keys the rate limiter, so each family gets its own call budget.
type ExecutorFactory func(name string) domain.RequestExecutor

// endpoint holds what every operation family shares.
type endpoint struct {
	name     string
	baseURL  string
	executor domain.RequestExecutor
	logger   *slog.Logger
}

func newEndpoint(name, baseURL string, newExecutor ExecutorFactory, logger *slog.Logger) endpoint {
	return endpoint{
		name:     name,
		baseURL:  strings.TrimRight(baseURL, "/") + "/",
		executor: newExecutor(name),
		logger:   logger.With("endpoint", name),
	}
}

func (e endpoint) url(path string, query url.Values) string {
	u := e.baseURL + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (e endpoint) request(method, path string, query url.Values, body any, output domain.Output) *domain.Request {
	headers := make(http.Header)
	headers.Set("Accept", output.ContentType())
	return &domain.Request{
		Method:  method,
		URL:     e.url(path, query),
		Headers: headers,
		Body:    body,
	}
}

// submitTask posts body and returns the task_uuid of the created bulk task.
func (e endpoint) submitTask(ctx context.Context, path string, body any) (string, error) {
	result, err := e.executor.ExecuteStrict(ctx, e.request(http.MethodPost, path, nil, body, domain.OutputJSON))
	if err != nil {
		return "", err
	}

	taskUUID, _ := result.Body["task_uuid"].(string)
	if taskUUID == "" {
		return "", fmt.Errorf("%s: response has no task_uuid", path)
	}
	return taskUUID, nil
}

func checkOutput(operation string, supported domain.Outputs, output domain.Output) error {
	if !supported.Supports(output) {
		return apperrors.NewValidationError("output", output.String(), "supported_outputs",
			fmt.Sprintf("%s supports only: %s", operation, supported))
	}
	return nil
}

func checkAtomType(atomType domain.AtomType) error {
	if !atomType.Valid() {
		return apperrors.NewValidationError("atom_type", string(atomType), "atom_types",
			"atom type must be one of: "+domain.JoinAtomTypes(domain.AtomTypes()))
	}
	return nil
}

// Client groups every operation family of one Datalake session.
type Client struct {
	Threats        *Threats
	AdvancedSearch *AdvancedSearch
	BulkSearch     *BulkSearch
	Sightings      *Sightings
	Tags           *Tags
	Atoms          *Atoms
}

// NewClient wires every operation family.
func NewClient(
	baseURL string,
	newExecutor ExecutorFactory,
	poller domain.TaskPoller,
	settings Settings,
	logger *slog.Logger,
) *Client {
	return &Client{
		Threats:        NewThreats(baseURL, newExecutor, poller, settings, logger),
		AdvancedSearch: NewAdvancedSearch(baseURL, newExecutor, logger),
		BulkSearch:     NewBulkSearch(baseURL, newExecutor, poller, settings, logger),
		Sightings:      NewSightings(baseURL, newExecutor, logger),
		Tags:           NewTags(baseURL, newExecutor, logger),
		Atoms:          NewAtoms(baseURL, newExecutor, logger),
	}
}
