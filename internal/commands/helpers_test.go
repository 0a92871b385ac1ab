package commands

import (
	"testing"

	"datalake/internal/domain"
	"datalake/internal/mocks"
	"datalake/internal/services/endpoints"
	"datalake/internal/testutil"
)

const testBaseURL = "https://datalake.example.com/api/v2/"

// newTestClient builds a client whose every endpoint family sends through executor.
func newTestClient(t *testing.T) (*endpoints.Client, *mocks.MockRequestExecutor, *mocks.MockTaskPoller) {
	t.Helper()
	executor := mocks.NewMockRequestExecutor(t)
	poller := mocks.NewMockTaskPoller(t)
	client := endpoints.NewClient(testBaseURL,
		func(string) domain.RequestExecutor { return executor },
		poller, endpoints.DefaultSettings(), testutil.Logger())
	return client, executor, poller
}
