package endpoints

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
	"datalake/internal/services/poller"
)

const (
	advancedSearchPath = "mrti/threats/advanced-search/"
	bulkSearchPath     = "mrti/bulk-search/"
	bulkSearchStatus   = "mrti/bulk-search/tasks/" + poller.TaskUUIDPlaceholder + "/"
	bulkSearchDownload = "mrti/bulk-search/task/" + poller.TaskUUIDPlaceholder + "/"

	// MaxSearchLimit is the largest page the advanced search endpoint serves.
	MaxSearchLimit = 5000
)

//nolint:gochecknoglobals // per-operation output capabilities
var searchOutputs = domain.Outputs{domain.OutputJSON, domain.OutputCSV, domain.OutputSTIX, domain.OutputMISP}

// Query selects threats either by a full query body or by the hash of a saved query.
type Query struct {
	Body map[string]any
	Hash string
}

func (q Query) validate() error {
	switch {
	case q.Body == nil && q.Hash == "":
		return apperrors.NewValidationError("query", "", "required", "a query body or a query hash is required")
	case q.Body != nil && q.Hash != "":
		return apperrors.NewValidationError("query", q.Hash, "exclusive", "use either a query body or a query hash, not both")
	}
	return nil
}

// SearchRequest is one page of an advanced search.
type SearchRequest struct {
	Query    Query
	Limit    int
	Offset   int
	Ordering []string
}

// AdvancedSearch runs synchronous threat queries.
type AdvancedSearch struct {
	endpoint
}

// NewAdvancedSearch creates the advanced search operation family.
func NewAdvancedSearch(baseURL string, newExecutor ExecutorFactory, logger *slog.Logger) *AdvancedSearch {
	return &AdvancedSearch{endpoint: newEndpoint("advanced-search", baseURL, newExecutor, logger)}
}

// Search returns one page of threats matching the query.
func (a *AdvancedSearch) Search(ctx context.Context, req SearchRequest, output domain.Output) (*domain.Result, error) {
	if err := checkOutput("advanced search", searchOutputs, output); err != nil {
		return nil, err
	}
	if err := req.Query.validate(); err != nil {
		return nil, err
	}
	if req.Limit < 0 || req.Limit > MaxSearchLimit || req.Offset < 0 {
		return nil, apperrors.NewValidationError("limit", strconv.Itoa(req.Limit), "range",
			fmt.Sprintf("limit must be between 0 and %d and offset must not be negative", MaxSearchLimit))
	}

	if req.Query.Hash != "" {
		query := url.Values{}
		if req.Limit > 0 {
			query.Set("limit", strconv.Itoa(req.Limit))
		}
		query.Set("offset", strconv.Itoa(req.Offset))
		if len(req.Ordering) > 0 {
			query.Set("ordering", strings.Join(req.Ordering, ","))
		}
		path := advancedSearchPath + url.PathEscape(req.Query.Hash) + "/"
		return a.executor.Execute(ctx, a.request(http.MethodGet, path, query, nil, output))
	}

	body := map[string]any{
		"query_body": req.Query.Body,
		"offset":     req.Offset,
	}
	if req.Limit > 0 {
		body["limit"] = req.Limit
	}
	if len(req.Ordering) > 0 {
		body["ordering"] = req.Ordering
	}
	return a.executor.Execute(ctx, a.request(http.MethodPost, advancedSearchPath, nil, body, output))
}

// BulkSearchRequest describes a server-side export of every threat matching a query.
type BulkSearchRequest struct {
	Query  Query
	Fields []string
}

// BulkSearch creates, polls and downloads bulk search tasks.
type BulkSearch struct {
	endpoint
	poller   domain.TaskPoller
	settings Settings
}

// NewBulkSearch creates the bulk search operation family.
func NewBulkSearch(
	baseURL string,
	newExecutor ExecutorFactory,
	taskPoller domain.TaskPoller,
	settings Settings,
	logger *slog.Logger,
) *BulkSearch {
	return &BulkSearch{
		endpoint: newEndpoint("bulk-search", baseURL, newExecutor, logger),
		poller:   taskPoller,
		settings: settings,
	}
}

// Create submits the bulk search and returns its task uuid.
func (b *BulkSearch) Create(ctx context.Context, req BulkSearchRequest) (string, error) {
	if err := req.Query.validate(); err != nil {
		return "", err
	}

	body := map[string]any{}
	if req.Query.Hash != "" {
		body["query_hash"] = req.Query.Hash
	} else {
		body["query_body"] = req.Query.Body
	}
	if len(req.Fields) > 0 {
		body["query_fields"] = req.Fields
	}

	taskUUID, err := b.submitTask(ctx, bulkSearchPath, body)
	if err != nil {
		return "", fmt.Errorf("failed to create bulk search: %w", err)
	}
	b.logger.InfoContext(ctx, "Bulk search created", "task_uuid", taskUUID)
	return taskUUID, nil
}

// Wait polls the task until it is DONE. A cancelled task yields an ErrTaskCancelled error.
func (b *BulkSearch) Wait(ctx context.Context, taskUUID string) (*domain.TaskResult, error) {
	task, err := b.poller.Poll(ctx, domain.PollRequest{
		TaskUUID:          taskUUID,
		StatusURLTemplate: b.url(bulkSearchStatus, nil),
		Timeout:           b.settings.MaxBulkSearchTime,
		Backoff:           poller.BulkSearchBackoff(b.settings.MaxBackOffTime),
	})
	if err != nil {
		return nil, err
	}
	if !task.Succeeded() {
		return task, fmt.Errorf("%w: %s ended in state %s", apperrors.ErrTaskCancelled, taskUUID, task.State)
	}
	return task, nil
}

// Download fetches the result of a finished task in the requested output.
func (b *BulkSearch) Download(ctx context.Context, taskUUID string, output domain.Output) (*domain.Result, error) {
	if err := checkOutput("bulk search", searchOutputs, output); err != nil {
		return nil, err
	}
	path := strings.ReplaceAll(bulkSearchDownload, poller.TaskUUIDPlaceholder, url.PathEscape(taskUUID))
	return b.executor.Execute(ctx, b.request(http.MethodGet, path, nil, nil, output))
}

// Run creates the bulk search, waits for it and downloads the result.
func (b *BulkSearch) Run(ctx context.Context, req BulkSearchRequest, output domain.Output) (*domain.Result, error) {
	if err := checkOutput("bulk search", searchOutputs, output); err != nil {
		return nil, err
	}

	taskUUID, err := b.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if _, err := b.Wait(ctx, taskUUID); err != nil {
		return nil, err
	}
	return b.Download(ctx, taskUUID, output)
}
