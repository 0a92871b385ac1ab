package domain

import "context"

// Result is a decoded API response.
type Result struct {
	StatusCode int
	// Body holds decoded JSON. It is empty, never nil, on degraded results.
	Body map[string]any
	// Text holds raw text for CSV responses.
	Text string
	// Exhausted is set when every attempt failed and Body is the empty degradation value.
	Exhausted bool
}

// Empty reports whether the result carries no data.
func (r *Result) Empty() bool {
	return r == nil || (len(r.Body) == 0 && r.Text == "")
}

// RequestExecutor sends API requests with auth repair and retries.
type RequestExecutor interface {
	// Execute degrades to an Exhausted result when the retry budget runs out.
	Execute(ctx context.Context, req *Request) (*Result, error)
	// ExecuteStrict returns an error instead of degrading.
	ExecuteStrict(ctx context.Context, req *Request) (*Result, error)
	// Send performs exactly one attempt and returns the raw response.
	Send(ctx context.Context, req *Request) (*Response, error)
	// RecoverAuth repairs the token after a 401/422 raw response.
	RecoverAuth(ctx context.Context, resp *Response) error
}

// RateLimiter delays callers so each key stays within its call budget.
type RateLimiter interface {
	Acquire(ctx context.Context, key string) error
}
