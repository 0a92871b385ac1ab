package commands

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalake/internal/domain"
	"datalake/internal/mocks"
	"datalake/internal/testutil"
)

func TestResultWriter_JSONToStdout(t *testing.T) {
	stdout := &bytes.Buffer{}
	writer := NewResultWriter(mocks.NewMockFileSystemAdapter(t), stdout, testutil.Logger())

	err := writer.Write(&domain.Result{Body: map[string]any{"hashkey": "abc"}}, "")

	require.NoError(t, err)
	assert.Equal(t, "{\n  \"hashkey\": \"abc\"\n}\n", stdout.String())
}

func TestResultWriter_EmptyBody(t *testing.T) {
	stdout := &bytes.Buffer{}
	writer := NewResultWriter(mocks.NewMockFileSystemAdapter(t), stdout, testutil.Logger())

	require.NoError(t, writer.Write(&domain.Result{}, ""))
	assert.Equal(t, "{}\n", stdout.String())
}

func TestResultWriter_TextToFile(t *testing.T) {
	fs := mocks.NewMockFileSystemAdapter(t)
	fs.EXPECT().WriteFile("out.csv", []byte("hashkey\nabc\n"), os.FileMode(0o600)).Return(nil)
	stdout := &bytes.Buffer{}
	writer := NewResultWriter(fs, stdout, testutil.Logger())

	err := writer.Write(&domain.Result{Text: "hashkey\nabc\n"}, "out.csv")

	require.NoError(t, err)
	assert.Empty(t, stdout.String())
}

func TestResultWriter_FileError(t *testing.T) {
	fs := mocks.NewMockFileSystemAdapter(t)
	fs.EXPECT().WriteFile("out.json", []byte("{}\n"), os.FileMode(0o600)).Return(errors.New("read-only"))

	err := NewResultWriter(fs, &bytes.Buffer{}, testutil.Logger()).Write(&domain.Result{Body: map[string]any{}}, "out.json")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "out.json")
}
