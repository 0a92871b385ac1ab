package errors

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPError(t *testing.T) {
	err := NewHTTPError(404, "GET", "/mrti/threats/lookup/", "threat not found")

	assert.Equal(t, "HTTP 404 GET /mrti/threats/lookup/: threat not found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPErrorWithCause(t *testing.T) {
	cause := errors.New("network timeout")
	err := NewHTTPErrorWithCause(500, "POST", "/auth/token/", "server error", cause)

	assert.ErrorIs(t, err, cause)
}

func TestHTTPErrorStatusMapping(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusBadRequest, ErrInvalidInput},
	}

	for _, test := range tests {
		err := NewHTTPError(test.statusCode, "GET", "/test", "test error")
		assert.ErrorIs(t, err, test.expected, "status %d", test.statusCode)
	}
}

func TestAuthenticationError(t *testing.T) {
	cause := errors.New("invalid credentials")
	err := NewAuthenticationError("https://datalake.example.com/api/v2/auth/token/", "analyst@example.com",
		401, `{"message":"Wrong credentials provided"}`, cause)

	assert.Contains(t, err.Error(), "analyst@example.com")
	assert.Contains(t, err.Error(), "Wrong credentials provided")
	assert.True(t, IsAuthentication(err))
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsFatalAuth(err))
}

func TestLongTermTokenError_Reasons(t *testing.T) {
	tests := []struct {
		reason   LongTermReason
		contains string
	}{
		{LongTermExpired, "expired"},
		{LongTermRevoked, "revoked"},
		{LongTermFreshTokenRequired, "does not accept long-term tokens"},
		{LongTermInvalid, "rejected: bad signature"},
	}

	for _, tt := range tests {
		t.Run(tt.reason.String(), func(t *testing.T) {
			err := NewLongTermTokenError(tt.reason, "bad signature")

			assert.Contains(t, err.Error(), tt.contains)
			assert.ErrorIs(t, err, ErrLongTermToken)

			reason, ok := LongTermReasonOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestLongTermReasonOf_NotLongTerm(t *testing.T) {
	_, ok := LongTermReasonOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestTokenRefreshError(t *testing.T) {
	err := NewTokenRefreshError(500, "boom", nil)

	assert.Equal(t, "token refresh failed with status 500: boom", err.Error())
	assert.ErrorIs(t, err, ErrTokenRefresh)
	assert.True(t, IsFatalAuth(err))

	cause := errors.New("connection reset")
	wrapped := NewTokenRefreshError(0, "", cause)
	assert.Contains(t, wrapped.Error(), "connection reset")
	assert.ErrorIs(t, wrapped, cause)
}

func TestUnexpectedAuthError(t *testing.T) {
	err := NewUnexpectedAuthError(401, "Signature verification failed")

	assert.Contains(t, err.Error(), "Signature verification failed")
	assert.ErrorIs(t, err, ErrUnexpectedAuth)
	assert.True(t, IsFatalAuth(err))
}

func TestMalformedErrorResponseError(t *testing.T) {
	err := NewMalformedErrorResponseError(422, `{"detail":"?"}`)

	assert.ErrorIs(t, err, ErrMalformedErrorResponse)
	assert.True(t, IsFatalAuth(err))
}

func TestTransientAndExhausted(t *testing.T) {
	httpErr := NewHTTPError(503, "GET", "/x", "unavailable")
	transient := NewTransientRequestError(3, "unexpected status", httpErr)
	exhausted := NewRetryBudgetExhaustedError("GET", "/x", 3, transient)

	assert.Equal(t, "attempt 3: unexpected status: HTTP 503 GET /x: unavailable", transient.Error())
	assert.ErrorIs(t, exhausted, ErrRetryExhausted)
	assert.ErrorIs(t, exhausted, ErrTransient)
	assert.True(t, IsHTTPStatus(exhausted, 503))
	assert.False(t, IsFatalAuth(exhausted))
}

func TestBulkTaskTimeoutError(t *testing.T) {
	err := NewBulkTaskTimeoutError("7c4f1a4e-0000-4000-8000-000000000001", 6*time.Second, 5*time.Second)

	assert.Contains(t, err.Error(), "7c4f1a4e-0000-4000-8000-000000000001")
	assert.Contains(t, err.Error(), "6s elapsed")
	assert.ErrorIs(t, err, ErrBulkTaskTimeout)

	var timeoutErr *BulkTaskTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 6*time.Second, timeoutErr.Elapsed)
}

func TestConfigurationError(t *testing.T) {
	cause := errors.New("file not found")
	err := NewConfigurationError("quota_time", "-1", "must be positive", cause)

	assert.Equal(t, "configuration error in field 'quota_time': must be positive", err.Error())
	assert.True(t, IsConfiguration(err))
	assert.ErrorIs(t, err, cause)

	bare := NewConfigurationError("", "", "generic configuration error", nil)
	assert.Equal(t, "configuration error: generic configuration error", bare.Error())
	assert.NoError(t, bare.Unwrap())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("output", "stix", "supported_values", "output must be one of: json, csv")

	assert.Equal(t, "validation error in field 'output': output must be one of: json, csv", err.Error())
	assert.True(t, IsValidation(err))

	bare := NewValidationError("", "value", "rule", "generic validation error")
	assert.Equal(t, "validation error: generic validation error", bare.Error())
}

func TestMultiError(t *testing.T) {
	err1 := errors.New("first error")
	err2 := errors.New("second error")
	err3 := errors.New("third error")

	multiErr := NewMultiError([]error{err1, nil, err2, err3})

	assert.Equal(t, "first error (and 2 more errors)", multiErr.Error())
	assert.ErrorIs(t, multiErr, err2)
	assert.Len(t, multiErr.Unwrap(), 3)
	assert.False(t, errors.Is(multiErr, errors.New("not contained")))

	assert.Equal(t, "only error", NewMultiError([]error{errors.New("only error")}).Error())
	assert.Equal(t, "no errors", NewMultiError(nil).Error())
}

func TestMultiError_As(t *testing.T) {
	timeoutErr := NewBulkTaskTimeoutError("uuid", time.Second, time.Second)
	multiErr := NewMultiError([]error{errors.New("plain"), timeoutErr})

	var extracted *BulkTaskTimeoutError
	require.ErrorAs(t, multiErr, &extracted)
	assert.Equal(t, "uuid", extracted.TaskUUID)

	var httpErr *HTTPError
	assert.False(t, errors.As(multiErr, &httpErr))
}

func TestJoin(t *testing.T) {
	err1 := errors.New("error 1")
	err2 := errors.New("error 2")

	var multiErr *MultiError
	require.ErrorAs(t, Join(err1, nil, err2, nil), &multiErr)
	assert.Len(t, multiErr.Errors, 2)

	assert.Equal(t, err1, Join(err1))
	assert.NoError(t, Join(nil, nil))
}

func TestIsNetwork(t *testing.T) {
	networkErr := NewHTTPErrorWithCause(502, "GET", "/test", "network error", ErrNetwork)

	assert.True(t, IsNetwork(networkErr))
	assert.False(t, IsNetwork(errors.New("not a network error")))
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(NewHTTPError(401, "GET", "/", "")))
	assert.True(t, IsUnauthorized(NewHTTPError(403, "GET", "/", "")))
	assert.False(t, IsUnauthorized(NewHTTPError(500, "GET", "/", "")))
	assert.False(t, IsHTTPStatus(errors.New("plain"), 404))
}
