package executor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "datalake/internal/adapters/http"
	"datalake/internal/domain"
	"datalake/internal/services/auth"
	"datalake/internal/services/executor"
	"datalake/internal/services/ratelimit"
	"datalake/internal/testutil"
)

// fakeDatalake serves the token endpoints and a lookup endpoint whose first call
// reports an expired access token.
type fakeDatalake struct {
	mu             sync.Mutex
	tokenCalls     int
	refreshHeaders []string
	lookupHeaders  []string
}

func (f *fakeDatalake) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/v2/auth/token/":
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["email"] != "analyst@example.com" || creds["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Wrong credentials provided"}`))
			return
		}
		f.tokenCalls++
		_, _ = w.Write([]byte(`{"access_token":"A","refresh_token":"R"}`))

	case "/api/v2/auth/refresh-token/":
		f.refreshHeaders = append(f.refreshHeaders, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"access_token":"A2"}`))

	case "/api/v2/mrti/threats/lookup/":
		f.lookupHeaders = append(f.lookupHeaders, r.Header.Get("Authorization"))
		if r.Header.Get("Authorization") != "Token A2" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"Token has expired"}`))
			return
		}
		_, _ = w.Write([]byte(`{"hashkey":"abc"}`))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestScenario_ExpiredAccessTokenIsRefreshedAndRetried(t *testing.T) {
	fake := &fakeDatalake{}
	server := httptest.NewServer(fake)
	defer server.Close()

	baseURL := server.URL + "/api/v2/"
	logger := testutil.Logger()
	adapter := httpadapter.NewAdapter(5*time.Second, false, logger)
	tokens := auth.NewManager(adapter, baseURL,
		domain.Credentials{Username: "analyst@example.com", Password: "secret"}, logger)
	limiter := ratelimit.NewLimiter(time.Second, 5, logger)
	exec := executor.NewExecutor(adapter, tokens, limiter, logger)

	ctx := context.Background()
	require.NoError(t, tokens.Authenticate(ctx))

	result, err := exec.Execute(ctx, &domain.Request{Method: http.MethodGet, URL: baseURL + "mrti/threats/lookup/"})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"hashkey": "abc"}, result.Body)
	assert.False(t, result.Exhausted)
	assert.Equal(t, 1, fake.tokenCalls)
	assert.Equal(t, []string{"Token R"}, fake.refreshHeaders)
	assert.Equal(t, []string{"Token A", "Token A2"}, fake.lookupHeaders)

	access, refresh := tokens.Tokens()
	assert.Equal(t, "A2", access)
	assert.Equal(t, "R", refresh)
}
