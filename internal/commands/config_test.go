package commands

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"datalake/internal/config"
	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
	"datalake/internal/mocks"
	"datalake/internal/testutil"
)

func TestConfigCommand_Init(t *testing.T) {
	repo := mocks.NewMockConfigRepository(t)
	repo.EXPECT().Init(context.Background(), true).Return(nil)
	repo.EXPECT().Path().Return("/home/analyst/.config/datalake/config.yaml")

	path, err := NewConfigCommand(repo, testutil.Logger()).Init(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, "/home/analyst/.config/datalake/config.yaml", path)
}

func TestConfigCommand_InitError(t *testing.T) {
	repo := mocks.NewMockConfigRepository(t)
	repo.EXPECT().Init(context.Background(), false).Return(errors.New("exists"))

	_, err := NewConfigCommand(repo, testutil.Logger()).Init(context.Background(), false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialise configuration")
}

func TestConfigCommand_ShowMasksSecrets(t *testing.T) {
	repo := mocks.NewMockConfigRepository(t)
	repo.EXPECT().Exists().Return(true)
	repo.EXPECT().Path().Return("/etc/datalake.yaml")

	settings := config.Defaults()
	settings.Username = "analyst@example.com"
	settings.Password = "hunter2"
	out := &bytes.Buffer{}

	err := NewConfigCommand(repo, testutil.Logger()).Show(context.Background(), &settings, out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "# source: /etc/datalake.yaml")
	assert.Contains(t, out.String(), "username: analyst@example.com")
	assert.NotContains(t, out.String(), "hunter2")
}

func TestConfigCommand_Check(t *testing.T) {
	client, executor, _ := newTestClient(t)
	executor.EXPECT().Execute(mock.Anything, mock.Anything).
		Run(func(_ context.Context, req *domain.Request) {
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, testBaseURL+"mrti/atom-types/", req.URL)
		}).
		Return(&domain.Result{StatusCode: 200, Body: map[string]any{
			"results": []any{map[string]any{"name": "ip"}, map[string]any{"name": "domain"}},
		}}, nil).Once()
	out := &bytes.Buffer{}

	err := NewConfigCommand(mocks.NewMockConfigRepository(t), testutil.Logger()).
		Check(context.Background(), client, testBaseURL, out)

	require.NoError(t, err)
	assert.Equal(t, "Connected to "+testBaseURL+" (2 atom types)\n", out.String())
}

func TestConfigCommand_CheckExhausted(t *testing.T) {
	client, executor, _ := newTestClient(t)
	executor.EXPECT().Execute(mock.Anything, mock.Anything).
		Return(&domain.Result{StatusCode: 0, Body: map[string]any{}, Exhausted: true}, nil).Once()

	err := NewConfigCommand(mocks.NewMockConfigRepository(t), testutil.Logger()).
		Check(context.Background(), client, testBaseURL, &bytes.Buffer{})

	assert.ErrorIs(t, err, apperrors.ErrRetryExhausted)
}

func TestConfigCommand_CheckAuthFailure(t *testing.T) {
	client, executor, _ := newTestClient(t)
	executor.EXPECT().Execute(mock.Anything, mock.Anything).
		Return(nil, apperrors.NewUnexpectedAuthError(401, "User is disabled")).Once()

	err := NewConfigCommand(mocks.NewMockConfigRepository(t), testutil.Logger()).
		Check(context.Background(), client, testBaseURL, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connectivity check failed")
	assert.ErrorIs(t, err, apperrors.ErrUnexpectedAuth)
}
