package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
	"datalake/internal/mocks"
	"datalake/internal/services/endpoints"
	"datalake/internal/testutil"
)

func TestParseScores(t *testing.T) {
	scores, err := ParseScores([]string{"malware=60", " Phishing = 25 "})

	require.NoError(t, err)
	assert.Equal(t, []endpoints.ThreatScore{
		{ThreatType: domain.ThreatMalware, Score: 60},
		{ThreatType: domain.ThreatPhishing, Score: 25},
	}, scores)

	_, err = ParseScores([]string{"malware"})
	assert.True(t, apperrors.IsValidation(err))
	_, err = ParseScores([]string{"malware=high"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestAddThreatsCommand_Execute(t *testing.T) {
	client, executor, poller := newTestClient(t)
	taskUUID := "7c4f1a4e-0000-4000-8000-000000000001"
	executor.EXPECT().ExecuteStrict(mock.Anything, mock.Anything).
		Run(func(_ context.Context, req *domain.Request) {
			body := req.Body.(map[string]any)
			assert.Equal(t, "evil.example\nbad.example", body["atom_values"])
			assert.Equal(t, []string{"campaign-x"}, body["tags"])
		}).
		Return(&domain.Result{StatusCode: 200, Body: map[string]any{"task_uuid": taskUUID}}, nil)
	poller.EXPECT().Poll(mock.Anything, mock.Anything).Return(&domain.TaskResult{
		UUID:  taskUUID,
		State: domain.TaskDone,
		Body: map[string]any{
			"hashkeys":    []any{"h1", "h2"},
			"atom_values": []any{"evil.example", "bad.example"},
		},
	}, nil)

	result, err := NewAddThreatsCommand(mocks.NewMockFileSystemAdapter(t), testutil.Logger()).
		Execute(context.Background(), AddThreatsRequest{
			AtomType: domain.AtomDomain,
			Input:    AtomInput{Values: []string{"evil.example", "bad.example"}},
			Scores:   []string{"phishing=80"},
			Tags:     []string{"campaign-x"},
		}, client)

	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h2"}, result.Body["hashkeys"])
	chunks := result.Body["chunks"].([]any)
	require.Len(t, chunks, 1)
	assert.Equal(t, "DONE", chunks[0].(map[string]any)["state"])
}

func TestAddThreatsCommand_PartialFailure(t *testing.T) {
	client, executor, poller := newTestClient(t)
	taskUUID := "7c4f1a4e-0000-4000-8000-000000000002"
	executor.EXPECT().ExecuteStrict(mock.Anything, mock.Anything).
		Return(&domain.Result{StatusCode: 200, Body: map[string]any{"task_uuid": taskUUID}}, nil)
	poller.EXPECT().Poll(mock.Anything, mock.Anything).Return(&domain.TaskResult{
		UUID:  taskUUID,
		State: domain.TaskCancelled,
	}, nil)

	result, err := NewAddThreatsCommand(mocks.NewMockFileSystemAdapter(t), testutil.Logger()).
		Execute(context.Background(), AddThreatsRequest{
			AtomType:  domain.AtomIP,
			Input:     AtomInput{Values: []string{"203.0.113.7"}},
			Whitelist: true,
		}, client)

	require.ErrorIs(t, err, apperrors.ErrTaskCancelled)
	require.NotNil(t, result)
	assert.Equal(t, []string{endpoints.UnknownValue}, result.Body["hashkeys"])
	chunk := result.Body["chunks"].([]any)[0].(map[string]any)
	assert.Contains(t, chunk["error"], "cancelled")
}

func TestAddThreatsCommand_ValidationError(t *testing.T) {
	client, _, _ := newTestClient(t)

	result, err := NewAddThreatsCommand(mocks.NewMockFileSystemAdapter(t), testutil.Logger()).
		Execute(context.Background(), AddThreatsRequest{
			AtomType: domain.AtomIP,
			Input:    AtomInput{Values: []string{"203.0.113.7"}},
		}, client)

	assert.True(t, apperrors.IsValidation(err))
	assert.Nil(t, result)
}
