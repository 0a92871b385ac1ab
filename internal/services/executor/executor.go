// Package executor sends Datalake API requests: it paces them through the rate
// limiter, attaches and repairs authorization, retries transient failures and
// decodes response bodies.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
)

const (
	DefaultRetryBudget = 3
	DefaultName        = "datalake"

	// ResponseLengthKey holds the byte length of top-level JSON array bodies.
	ResponseLengthKey = "response_length"

	maxLoggedBody = 512
)

var allowedMethods = map[string]bool{ //nolint:gochecknoglobals // fixed method set
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// Executor implements domain.RequestExecutor.
type Executor struct {
	name        string
	httpAdapter domain.HTTPAdapter
	tokens      domain.TokenProvider
	limiter     domain.RateLimiter
	retryBudget int
	logger      *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithName sets the rate limiter key. Executors sharing a name share a call budget.
func WithName(name string) Option {
	return func(e *Executor) {
		e.name = name
	}
}

// WithRetryBudget sets the maximum number of attempts per request.
func WithRetryBudget(budget int) Option {
	return func(e *Executor) {
		if budget > 0 {
			e.retryBudget = budget
		}
	}
}

// NewExecutor creates a request executor.
func NewExecutor(
	httpAdapter domain.HTTPAdapter,
	tokens domain.TokenProvider,
	limiter domain.RateLimiter,
	logger *slog.Logger,
	opts ...Option,
) *Executor {
	e := &Executor{
		name:        DefaultName,
		httpAdapter: httpAdapter,
		tokens:      tokens,
		limiter:     limiter,
		retryBudget: DefaultRetryBudget,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("executor", e.name)
	return e
}

// Name returns the rate limiter key of this executor.
func (e *Executor) Name() string {
	return e.name
}

// Execute sends req, retrying transient failures. When the retry budget runs out the
// failure is logged and an empty result flagged Exhausted is returned without error.
// Auth-layer errors are always returned.
func (e *Executor) Execute(ctx context.Context, req *domain.Request) (*domain.Result, error) {
	result, err := e.ExecuteStrict(ctx, req)
	if err == nil {
		return result, nil
	}

	var exhausted *apperrors.RetryBudgetExhaustedError
	if errors.As(err, &exhausted) {
		e.logger.ErrorContext(ctx, "Retry budget exhausted, returning empty result",
			"method", req.Method,
			"url", req.URL,
			"attempts", exhausted.Attempts,
			"error", exhausted.Err)
		return &domain.Result{Body: map[string]any{}, Exhausted: true}, nil
	}

	return nil, err
}

// ExecuteStrict is Execute returning RetryBudgetExhaustedError instead of degrading.
func (e *Executor) ExecuteStrict(ctx context.Context, req *domain.Request) (*domain.Result, error) {
	if err := validateMethod(req.Method); err != nil {
		return nil, err
	}

	var lastErr error
	attempt := 0
	recoveries := 0

	for attempt < e.retryBudget {
		resp, err := e.send(ctx, req)
		if err != nil {
			if ctx.Err() != nil || apperrors.IsFatalAuth(err) {
				return nil, err
			}
			attempt++
			lastErr = e.transient(ctx, req, attempt, "request failed", err)
			continue
		}

		if isAuthFailure(resp.StatusCode) {
			if recoveries >= e.retryBudget {
				message, _ := resp.ErrorMessage()
				return nil, fmt.Errorf("authorization still rejected after %d recoveries: %w",
					recoveries, apperrors.NewUnexpectedAuthError(resp.StatusCode, message))
			}
			if err := e.RecoverAuth(ctx, resp); err != nil {
				return nil, err
			}
			recoveries++
			req = withoutAuthorization(req)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			attempt++
			lastErr = e.transient(ctx, req, attempt, "unexpected status",
				apperrors.NewHTTPError(resp.StatusCode, req.Method, req.URL, truncate(resp.Body)))
			continue
		}

		result, err := Decode(resp)
		if err != nil {
			attempt++
			lastErr = e.transient(ctx, req, attempt, "failed to decode response", err)
			continue
		}

		if attempt > 0 {
			e.logger.InfoContext(ctx, "Request succeeded after retry", "url", req.URL, "attempt", attempt+1)
		}
		return result, nil
	}

	return nil, apperrors.NewRetryBudgetExhaustedError(req.Method, req.URL, attempt, lastErr)
}

// Send performs exactly one attempt: it acquires a rate limit slot, fills in headers
// and returns the raw response, whatever its status.
func (e *Executor) Send(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	if err := validateMethod(req.Method); err != nil {
		return nil, err
	}
	return e.send(ctx, req)
}

// RecoverAuth extracts the error message of a 401/422 response and lets the token
// provider repair the credentials the request was sent with.
func (e *Executor) RecoverAuth(ctx context.Context, resp *domain.Response) error {
	message, err := resp.ErrorMessage()
	if err != nil {
		return err
	}

	var url, staleHeader string
	if resp.Request != nil {
		url = resp.Request.URL
		staleHeader = resp.Request.Headers.Get("Authorization")
	}

	e.logger.DebugContext(ctx, "Authorization rejected",
		"url", url,
		"status", resp.StatusCode,
		"message", message)

	return e.tokens.ProcessAuthFailure(ctx, resp.StatusCode, message, staleHeader)
}

func (e *Executor) send(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	if err := e.limiter.Acquire(ctx, e.name); err != nil {
		return nil, err
	}

	prepared, err := e.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := e.httpAdapter.Do(ctx, prepared)
	if err != nil {
		return nil, err
	}
	resp.Request = prepared
	return resp, nil
}

func (e *Executor) prepare(ctx context.Context, req *domain.Request) (*domain.Request, error) {
	prepared := req.Clone()

	if prepared.Headers.Get("Authorization") == "" {
		header, err := e.tokens.AuthHeader(ctx)
		if err != nil {
			return nil, err
		}
		prepared.Headers.Set("Authorization", header)
	}

	if prepared.Headers.Get("Accept") == "" {
		prepared.Headers.Set("Accept", domain.OutputJSON.ContentType())
	}

	switch prepared.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		prepared.Headers.Set("Content-Type", domain.OutputJSON.ContentType())
	}

	return prepared, nil
}

func (e *Executor) transient(ctx context.Context, req *domain.Request, attempt int, reason string, err error) error {
	e.logger.WarnContext(ctx, "Request failed, retrying",
		"method", req.Method,
		"url", req.URL,
		"attempt", attempt,
		"retry_budget", e.retryBudget,
		"reason", reason,
		"error", err)
	return apperrors.NewTransientRequestError(attempt, reason, err)
}

// Decode turns a 2xx response into a Result. CSV bodies are kept as text; a
// top-level JSON array is reported by its byte length under ResponseLengthKey.
func Decode(resp *domain.Response) (*domain.Result, error) {
	result := &domain.Result{StatusCode: resp.StatusCode, Body: map[string]any{}}

	if resp.ContentType() == domain.OutputCSV.ContentType() {
		result.Text = string(resp.Body)
		return result, nil
	}

	trimmed := bytes.TrimSpace(resp.Body)
	if len(trimmed) == 0 {
		return result, nil
	}

	if trimmed[0] == '[' && trimmed[len(trimmed)-1] == ']' {
		result.Body[ResponseLengthKey] = len(resp.Body)
		return result, nil
	}

	var body map[string]any
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return nil, fmt.Errorf("failed to decode JSON body: %w", err)
	}
	if body != nil {
		result.Body = body
	}

	return result, nil
}

func validateMethod(method string) error {
	if !allowedMethods[method] {
		return apperrors.NewValidationError("method", method, "allowed_methods",
			"method must be one of GET, POST, PUT, PATCH, DELETE")
	}
	return nil
}

func isAuthFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusUnprocessableEntity
}

func withoutAuthorization(req *domain.Request) *domain.Request {
	if req.Headers.Get("Authorization") == "" {
		return req
	}
	clone := req.Clone()
	clone.Headers.Del("Authorization")
	return clone
}

func truncate(body []byte) string {
	if len(body) > maxLoggedBody {
		return string(body[:maxLoggedBody]) + "..."
	}
	return string(body)
}
