// Package errors provides the error taxonomy for datalake.
//
// Errors fall into three groups:
// - Auth-layer errors (authentication, refresh, long-term token, unexpected auth) are fatal
// - Transport-layer errors (non-2xx, decode failures) are transient and retried up to a budget
// - Bulk task timeouts and malformed error bodies are fatal and surfaced untouched
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error categories for datalake operations.
var (
	ErrNotFound               = errors.New("resource not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInvalidInput           = errors.New("invalid input")
	ErrNetwork                = errors.New("network error")
	ErrConfiguration          = errors.New("configuration error")
	ErrAuthentication         = errors.New("authentication error")
	ErrTokenRefresh           = errors.New("token refresh error")
	ErrLongTermToken          = errors.New("long-term token error")
	ErrUnexpectedAuth         = errors.New("unexpected auth error")
	ErrTransient              = errors.New("transient request error")
	ErrRetryExhausted         = errors.New("retry budget exhausted")
	ErrBulkTaskTimeout        = errors.New("bulk task timeout")
	ErrTaskCancelled          = errors.New("bulk task cancelled")
	ErrMalformedErrorResponse = errors.New("malformed error response")
)

// AuthenticationError is returned when the token endpoint rejects the credentials.
type AuthenticationError struct {
	URL        string
	Username   string
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed for user '%s' on '%s' (status %d): %s",
			e.Username, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("authentication failed for user '%s' on '%s'", e.Username, e.URL)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

func (e *AuthenticationError) Is(target error) bool {
	return errors.Is(target, ErrAuthentication)
}

// NewAuthenticationError creates a new authentication error.
func NewAuthenticationError(url, username string, statusCode int, body string, err error) *AuthenticationError {
	return &AuthenticationError{
		URL:        url,
		Username:   username,
		StatusCode: statusCode,
		Body:       body,
		Err:        err,
	}
}

// IsAuthentication checks if an error is authentication-related.
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// TokenRefreshError is returned when the refresh endpoint fails for a reason other than expiry.
type TokenRefreshError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TokenRefreshError) Error() string {
	if e.Err != nil && e.StatusCode == 0 {
		return fmt.Sprintf("token refresh failed: %v", e.Err)
	}
	return fmt.Sprintf("token refresh failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *TokenRefreshError) Unwrap() error {
	return e.Err
}

func (e *TokenRefreshError) Is(target error) bool {
	return errors.Is(target, ErrTokenRefresh)
}

// NewTokenRefreshError creates a new token refresh error.
func NewTokenRefreshError(statusCode int, body string, err error) *TokenRefreshError {
	return &TokenRefreshError{
		StatusCode: statusCode,
		Body:       body,
		Err:        err,
	}
}

// LongTermReason classifies a server rejection of a long-term token.
type LongTermReason int

const (
	LongTermInvalid LongTermReason = iota
	LongTermExpired
	LongTermRevoked
	LongTermFreshTokenRequired
)

func (r LongTermReason) String() string {
	switch r {
	case LongTermExpired:
		return "expired"
	case LongTermRevoked:
		return "revoked"
	case LongTermFreshTokenRequired:
		return "fresh token required"
	default:
		return "invalid"
	}
}

// LongTermTokenError is returned when the server rejects a long-term token.
// Long-term tokens have no refresh mechanism, so every reason is fatal.
type LongTermTokenError struct {
	Reason  LongTermReason
	Message string
}

func (e *LongTermTokenError) Error() string {
	switch e.Reason {
	case LongTermExpired:
		return "long-term token has expired, generate a new one from the web interface"
	case LongTermRevoked:
		return "long-term token has been revoked, generate a new one from the web interface"
	case LongTermFreshTokenRequired:
		return "this endpoint does not accept long-term tokens, authenticate with username and password"
	default:
		return fmt.Sprintf("long-term token rejected: %s", e.Message)
	}
}

func (e *LongTermTokenError) Is(target error) bool {
	return errors.Is(target, ErrLongTermToken)
}

// NewLongTermTokenError creates a new long-term token error.
func NewLongTermTokenError(reason LongTermReason, message string) *LongTermTokenError {
	return &LongTermTokenError{
		Reason:  reason,
		Message: message,
	}
}

// LongTermReasonOf extracts the long-term rejection reason from an error chain.
func LongTermReasonOf(err error) (LongTermReason, bool) {
	var ltErr *LongTermTokenError
	if errors.As(err, &ltErr) {
		return ltErr.Reason, true
	}
	return LongTermInvalid, false
}

// UnexpectedAuthError wraps a 401/422 whose message matches no known remediation.
type UnexpectedAuthError struct {
	StatusCode int
	Message    string
}

func (e *UnexpectedAuthError) Error() string {
	return fmt.Sprintf("unexpected auth error (status %d): %s", e.StatusCode, e.Message)
}

func (e *UnexpectedAuthError) Is(target error) bool {
	return errors.Is(target, ErrUnexpectedAuth)
}

// NewUnexpectedAuthError creates a new unexpected auth error.
func NewUnexpectedAuthError(statusCode int, message string) *UnexpectedAuthError {
	return &UnexpectedAuthError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// MalformedErrorResponseError is returned when an error body carries none of the known message keys.
type MalformedErrorResponseError struct {
	StatusCode int
	Body       string
}

func (e *MalformedErrorResponseError) Error() string {
	return fmt.Sprintf("malformed error response (status %d): %s", e.StatusCode, e.Body)
}

func (e *MalformedErrorResponseError) Is(target error) bool {
	return errors.Is(target, ErrMalformedErrorResponse)
}

// NewMalformedErrorResponseError creates a new malformed error response error.
func NewMalformedErrorResponseError(statusCode int, body string) *MalformedErrorResponseError {
	return &MalformedErrorResponseError{
		StatusCode: statusCode,
		Body:       body,
	}
}

// TransientRequestError is a failure recovered locally by retrying.
type TransientRequestError struct {
	Attempt int
	Reason  string
	Err     error
}

func (e *TransientRequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("attempt %d: %s: %v", e.Attempt, e.Reason, e.Err)
	}
	return fmt.Sprintf("attempt %d: %s", e.Attempt, e.Reason)
}

func (e *TransientRequestError) Unwrap() error {
	return e.Err
}

func (e *TransientRequestError) Is(target error) bool {
	return errors.Is(target, ErrTransient)
}

// NewTransientRequestError creates a new transient request error.
func NewTransientRequestError(attempt int, reason string, err error) *TransientRequestError {
	return &TransientRequestError{
		Attempt: attempt,
		Reason:  reason,
		Err:     err,
	}
}

// RetryBudgetExhaustedError is returned by strict callers once every attempt has failed.
type RetryBudgetExhaustedError struct {
	Method   string
	URL      string
	Attempts int
	Err      error
}

func (e *RetryBudgetExhaustedError) Error() string {
	return fmt.Sprintf("%s %s failed after %d attempts: %v", e.Method, e.URL, e.Attempts, e.Err)
}

func (e *RetryBudgetExhaustedError) Unwrap() error {
	return e.Err
}

func (e *RetryBudgetExhaustedError) Is(target error) bool {
	return errors.Is(target, ErrRetryExhausted)
}

// NewRetryBudgetExhaustedError creates a new retry exhaustion error.
func NewRetryBudgetExhaustedError(method, url string, attempts int, err error) *RetryBudgetExhaustedError {
	return &RetryBudgetExhaustedError{
		Method:   method,
		URL:      url,
		Attempts: attempts,
		Err:      err,
	}
}

// BulkTaskTimeoutError is returned when a bulk task does not finish before its deadline.
type BulkTaskTimeoutError struct {
	TaskUUID string
	Elapsed  time.Duration
	Timeout  time.Duration
}

func (e *BulkTaskTimeoutError) Error() string {
	return fmt.Sprintf("bulk task %s did not complete: %s elapsed, timeout is %s",
		e.TaskUUID, e.Elapsed.Round(time.Millisecond), e.Timeout)
}

func (e *BulkTaskTimeoutError) Is(target error) bool {
	return errors.Is(target, ErrBulkTaskTimeout)
}

// NewBulkTaskTimeoutError creates a new bulk task timeout error.
func NewBulkTaskTimeoutError(taskUUID string, elapsed, timeout time.Duration) *BulkTaskTimeoutError {
	return &BulkTaskTimeoutError{
		TaskUUID: taskUUID,
		Elapsed:  elapsed,
		Timeout:  timeout,
	}
}

// ConfigurationError represents configuration-related errors.
type ConfigurationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ConfigurationError) Is(target error) bool {
	return errors.Is(target, ErrConfiguration)
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(field, value, message string, err error) *ConfigurationError {
	return &ConfigurationError{
		Field:   field,
		Value:   value,
		Message: message,
		Err:     err,
	}
}

// IsConfiguration checks if an error is configuration-related.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// ValidationError represents input validation errors.
type ValidationError struct {
	Field   string
	Value   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return errors.Is(target, ErrInvalidInput)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, value, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}

// IsValidation checks if an error is validation-related.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// HTTPError represents an HTTP-related error.
type HTTPError struct {
	StatusCode int
	Method     string
	URL        string
	Message    string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d %s %s: %s", e.StatusCode, e.Method, e.URL, e.Message)
	}
	return fmt.Sprintf("HTTP %d %s %s", e.StatusCode, e.Method, e.URL)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusNotFound:
		return errors.Is(target, ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Is(target, ErrUnauthorized)
	case http.StatusBadRequest:
		return errors.Is(target, ErrInvalidInput)
	default:
		return false
	}
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, method, url, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Method:     method,
		URL:        url,
		Message:    message,
	}
}

// NewHTTPErrorWithCause creates a new HTTP error with an underlying cause.
func NewHTTPErrorWithCause(statusCode int, method, url, message string, err error) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Method:     method,
		URL:        url,
		Message:    message,
		Err:        err,
	}
}

// IsHTTPStatus checks if an error represents a specific HTTP status.
func IsHTTPStatus(err error, statusCode int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == statusCode
	}
	return false
}

// MultiError represents multiple errors that occurred together.
type MultiError struct {
	Errors []error
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e.Errors[0].Error(), len(e.Errors)-1)
}

func (e *MultiError) Unwrap() []error {
	return e.Errors
}

func (e *MultiError) Is(target error) bool {
	for _, err := range e.Errors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (e *MultiError) As(target any) bool {
	for _, err := range e.Errors {
		if errors.As(err, target) {
			return true
		}
	}
	return false
}

// NewMultiError creates a new multi-error from a slice of errors.
func NewMultiError(errs []error) *MultiError {
	var filteredErrors []error
	for _, err := range errs {
		if err != nil {
			filteredErrors = append(filteredErrors, err)
		}
	}
	return &MultiError{Errors: filteredErrors}
}

// Join creates a MultiError from multiple errors, filtering out nils.
func Join(errs ...error) error {
	var nonNilErrors []error
	for _, err := range errs {
		if err != nil {
			nonNilErrors = append(nonNilErrors, err)
		}
	}

	if len(nonNilErrors) == 0 {
		return nil
	}
	if len(nonNilErrors) == 1 {
		return nonNilErrors[0]
	}

	return NewMultiError(nonNilErrors)
}

// IsNotFound checks if an error represents a "not found" condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || IsHTTPStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if an error represents an authorization failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		IsHTTPStatus(err, http.StatusUnauthorized) ||
		IsHTTPStatus(err, http.StatusForbidden)
}

// IsNetwork checks if an error is network-related.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsFatalAuth reports whether err belongs to the auth layer, which is never retried blindly.
func IsFatalAuth(err error) bool {
	return errors.Is(err, ErrAuthentication) ||
		errors.Is(err, ErrTokenRefresh) ||
		errors.Is(err, ErrLongTermToken) ||
		errors.Is(err, ErrUnexpectedAuth) ||
		errors.Is(err, ErrMalformedErrorResponse)
}
