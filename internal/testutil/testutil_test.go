package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	logger := Logger()
	require.NotNil(t, logger)
}

func TestResponses(t *testing.T) {
	assert.Equal(t, "application/json", JSONResponse(200, `{}`).ContentType())
	assert.Equal(t, "text/csv", CSVResponse(200, "a,b").ContentType())
	assert.Empty(t, Response(204, "", "").ContentType())
}
