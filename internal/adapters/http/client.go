package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
)

const (
	// Transport-level rate limiting, independent of the per-endpoint quota limiter.
	defaultRequestsPerSecond = 10
	defaultBurst             = 20

	userAgent = "datalake-go/1.0"
)

// Adapter is an HTTP client adapter using resty with rate limiting.
// Retries are owned by the request executor, so resty's own retry is disabled.
type Adapter struct {
	client  *resty.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewAdapter creates a new HTTP adapter with rate limiting.
// Rate limit: 10 requests per second with burst of 20.
func NewAdapter(timeout time.Duration, insecureSkipVerify bool, logger *slog.Logger) *Adapter {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent).
		SetTLSClientConfig(&tls.Config{
			InsecureSkipVerify: insecureSkipVerify, //nolint:gosec // User-configurable for test environments
		})

	a := &Adapter{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurst),
		logger:  logger,
	}

	// Add rate limiting middleware
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return a.limiter.Wait(req.Context())
	})

	// Add logging middleware
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		logger.DebugContext(req.Context(), "HTTP request",
			"method", req.Method,
			"url", req.URL,
		)
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.DebugContext(resp.Request.Context(), "HTTP response",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"duration", resp.Time(),
		)
		return nil
	})

	return a
}

// Do performs one HTTP exchange. Non-2xx statuses are returned as responses, not errors;
// only transport failures produce an error.
func (a *Adapter) Do(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	request := a.client.R().SetContext(ctx)

	for key, values := range req.Headers {
		for _, value := range values {
			request.Header.Add(key, value)
		}
	}

	if req.Body != nil {
		if request.Header.Get("Content-Type") == "" {
			request.SetHeader("Content-Type", domain.OutputJSON.ContentType())
		}
		request.SetBody(req.Body)
	}

	resp, err := request.Execute(req.Method, req.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute %s %s: %w", apperrors.ErrNetwork, req.Method, req.URL, err)
	}

	return &domain.Response{
		StatusCode: resp.StatusCode(),
		Headers:    resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// SetRateLimit allows configuring the rate limiter after creation.
func (a *Adapter) SetRateLimit(requestsPerSecond float64, burst int) {
	a.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}
