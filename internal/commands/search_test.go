package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"datalake/internal/domain"
	"datalake/internal/mocks"
	"datalake/internal/testutil"
)

func TestReadQuery(t *testing.T) {
	fs := mocks.NewMockFileSystemAdapter(t)
	fs.EXPECT().ReadFile("bare.json").Return([]byte(`{"AND":[{"field":"atom_type","value":"ip"}]}`), nil)
	fs.EXPECT().ReadFile("wrapped.json").Return([]byte(`{"query_body":{"OR":[]},"limit":10}`), nil)
	fs.EXPECT().ReadFile("list.json").Return([]byte(`[1,2]`), nil)

	hashOnly, err := readQuery(fs, QueryInput{Hash: "8a2c7b"})
	require.NoError(t, err)
	assert.Equal(t, "8a2c7b", hashOnly.Hash)
	assert.Nil(t, hashOnly.Body)

	bare, err := readQuery(fs, QueryInput{BodyFile: "bare.json"})
	require.NoError(t, err)
	assert.Contains(t, bare.Body, "AND")

	wrapped, err := readQuery(fs, QueryInput{BodyFile: "wrapped.json"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"OR": []any{}}, wrapped.Body)

	_, err = readQuery(fs, QueryInput{BodyFile: "list.json"})
	require.Error(t, err)
}

func TestSearchCommand_Execute(t *testing.T) {
	client, executor, _ := newTestClient(t)
	executor.EXPECT().Execute(mock.Anything, mock.MatchedBy(func(req *domain.Request) bool {
		return req.URL == testBaseURL+"mrti/threats/advanced-search/8a2c7b/?limit=50&offset=100"
	})).Return(&domain.Result{StatusCode: 200, Body: map[string]any{"count": 1.0}}, nil)

	result, err := NewSearchCommand(mocks.NewMockFileSystemAdapter(t), testutil.Logger()).
		Execute(context.Background(), SearchRequest{
			Query:  QueryInput{Hash: "8a2c7b"},
			Limit:  50,
			Offset: 100,
			Output: domain.OutputJSON,
		}, client)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.Body["count"], 0)
}

func TestBulkSearchCommand_Execute(t *testing.T) {
	client, executor, poller := newTestClient(t)
	taskUUID := "7c4f1a4e-0000-4000-8000-000000000001"
	executor.EXPECT().ExecuteStrict(mock.Anything, mock.Anything).
		Return(&domain.Result{StatusCode: 200, Body: map[string]any{"task_uuid": taskUUID}}, nil)
	poller.EXPECT().Poll(mock.Anything, mock.Anything).
		Return(&domain.TaskResult{UUID: taskUUID, State: domain.TaskDone}, nil)
	executor.EXPECT().Execute(mock.Anything, mock.Anything).
		Return(&domain.Result{StatusCode: 200, Text: "atom_value\n8.8.8.8\n"}, nil)

	result, err := NewBulkSearchCommand(mocks.NewMockFileSystemAdapter(t), testutil.Logger()).
		Execute(context.Background(), BulkSearchRequest{
			Query:  QueryInput{Hash: "8a2c7b"},
			Fields: []string{"atom_value"},
			Output: domain.OutputCSV,
		}, client)

	require.NoError(t, err)
	assert.Equal(t, "atom_value\n8.8.8.8\n", result.Text)
}
