package http

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
	"datalake/internal/logging"
)

func TestAdapter_Do_PostJSON(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Token A", r.Header.Get("Authorization"))
		assert.Equal(t, "text/csv", r.Header.Get("Accept"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "8.8.8.8", body["atom_value"])

		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(nethttp.StatusCreated)
		_, _ = w.Write([]byte("hashkey\nabc\n"))
	}))
	defer server.Close()

	adapter := NewAdapter(5*time.Second, false, logging.NewTestLogger())
	headers := nethttp.Header{}
	headers.Set("Authorization", "Token A")
	headers.Set("Accept", "text/csv")

	resp, err := adapter.Do(context.Background(), &domain.Request{
		Method:  nethttp.MethodPost,
		URL:     server.URL + "/mrti/threats/lookup/",
		Headers: headers,
		Body:    map[string]string{"atom_value": "8.8.8.8"},
	})

	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.ContentType())
	assert.Equal(t, "hashkey\nabc\n", string(resp.Body))
}

func TestAdapter_Do_ErrorStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		w.WriteHeader(nethttp.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"msg":"Token has expired"}`))
	}))
	defer server.Close()

	adapter := NewAdapter(5*time.Second, false, logging.NewTestLogger())
	resp, err := adapter.Do(context.Background(), &domain.Request{Method: nethttp.MethodGet, URL: server.URL})

	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"msg":"Token has expired"}`, string(resp.Body))
}

func TestAdapter_Do_NetworkError(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(nethttp.ResponseWriter, *nethttp.Request) {}))
	url := server.URL
	server.Close()

	adapter := NewAdapter(time.Second, false, logging.NewTestLogger())
	_, err := adapter.Do(context.Background(), &domain.Request{Method: nethttp.MethodGet, URL: url})

	require.Error(t, err)
	assert.True(t, apperrors.IsNetwork(err))
}

func TestAdapter_Do_CancelledContext(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
	}))
	defer server.Close()

	adapter := NewAdapter(time.Second, false, logging.NewTestLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adapter.Do(ctx, &domain.Request{Method: nethttp.MethodGet, URL: server.URL})
	require.Error(t, err)
}

func TestAdapter_SetRateLimit(t *testing.T) {
	adapter := NewAdapter(time.Second, false, logging.NewTestLogger())
	adapter.SetRateLimit(1, 1)

	assert.InDelta(t, 1.0, float64(adapter.limiter.Limit()), 0.0001)
	assert.Equal(t, 1, adapter.limiter.Burst())
}
