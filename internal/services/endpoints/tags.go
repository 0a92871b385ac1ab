package endpoints

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
)

const atomTypesPath = "mrti/atom-types/"

// Tags attaches tags to existing threats.
type Tags struct {
	endpoint
}

// NewTags creates the tags operation family.
func NewTags(baseURL string, newExecutor ExecutorFactory, logger *slog.Logger) *Tags {
	return &Tags{endpoint: newEndpoint("tags", baseURL, newExecutor, logger)}
}

type tag struct {
	Name       string     `json:"name"`
	Visibility Visibility `json:"visibility"`
}

// Add tags the threat identified by hashkey.
func (t *Tags) Add(ctx context.Context, hashkey string, tags []string, visibility Visibility) (*domain.Result, error) {
	if strings.TrimSpace(hashkey) == "" {
		return nil, apperrors.NewValidationError("hashkey", hashkey, "required", "hashkey is required")
	}
	if len(tags) == 0 {
		return nil, apperrors.NewValidationError("tags", "", "required", "at least one tag is required")
	}
	if !visibility.valid() {
		return nil, apperrors.NewValidationError("visibility", string(visibility), "visibilities",
			"visibility must be PUBLIC or ORGANIZATION")
	}

	body := make([]tag, 0, len(tags))
	for _, name := range tags {
		body = append(body, tag{Name: name, Visibility: visibility})
	}

	path := "mrti/threats/" + url.PathEscape(hashkey) + "/tags/"
	return t.executor.Execute(ctx, t.request(http.MethodPost, path, nil, map[string]any{"tags": body}, domain.OutputJSON))
}

// Atoms exposes atom metadata.
type Atoms struct {
	endpoint
}

// NewAtoms creates the atoms operation family.
func NewAtoms(baseURL string, newExecutor ExecutorFactory, logger *slog.Logger) *Atoms {
	return &Atoms{endpoint: newEndpoint("atoms", baseURL, newExecutor, logger)}
}

// Types lists the atom types the platform knows. It also serves as a cheap
// authenticated connectivity check.
func (a *Atoms) Types(ctx context.Context) (*domain.Result, error) {
	return a.executor.Execute(ctx, a.request(http.MethodGet, atomTypesPath, nil, nil, domain.OutputJSON))
}
