// Package testutil provides test utilities and constructors with pre-injected dependencies.
package testutil

import (
	"log/slog"
	"net/http"

	"datalake/internal/domain"
	"datalake/internal/logging"
)

// Logger returns a test logger for use in tests.
func Logger() *slog.Logger {
	return logging.NewTestLogger()
}

// JSONResponse builds a raw API response with a JSON content type.
func JSONResponse(status int, body string) *domain.Response {
	return Response(status, "application/json", body)
}

// CSVResponse builds a raw API response with a CSV content type.
func CSVResponse(status int, body string) *domain.Response {
	return Response(status, "text/csv", body)
}

// Response builds a raw API response.
func Response(status int, contentType, body string) *domain.Response {
	headers := make(http.Header)
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}
	return &domain.Response{StatusCode: status, Headers: headers, Body: []byte(body)}
}
