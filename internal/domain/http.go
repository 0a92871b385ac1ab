package domain

import (
	"context"
	"net/http"
)

// Request is a single outbound API call. It is built per call and never retained.
type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    any
}

// Clone returns a copy with its own header map so retries can replace Authorization.
func (r *Request) Clone() *Request {
	clone := *r
	if r.Headers != nil {
		clone.Headers = r.Headers.Clone()
	} else {
		clone.Headers = make(http.Header)
	}
	return &clone
}

// Response is the raw outcome of one HTTP exchange.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte

	// Request is the request as sent, including the Authorization header it carried.
	Request *Request
}

// ContentType returns the response media type without parameters.
func (r *Response) ContentType() string {
	return mediaType(r.Headers.Get("Content-Type"))
}

// HTTPAdapter defines the interface for HTTP operations.
type HTTPAdapter interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}
