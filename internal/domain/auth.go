package domain

import (
	"context"
	"time"
)

// Credentials identify the caller. Exactly one of the two forms is used.
type Credentials struct {
	Username      string
	Password      string
	LongTermToken string
}

// IsLongTerm reports whether the credentials carry a long-term token.
func (c Credentials) IsLongTerm() bool {
	return c.LongTermToken != ""
}

// HasPassword reports whether username and password are both set.
func (c Credentials) HasPassword() bool {
	return c.Username != "" && c.Password != ""
}

// TokenState is the token manager's lifecycle state.
type TokenState int

const (
	StateUnauthenticated TokenState = iota
	StateAuthenticated
	StateRefreshing
	StateLongTerm
)

func (s TokenState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshing:
		return "refreshing"
	case StateLongTerm:
		return "longterm"
	default:
		return "unauthenticated"
	}
}

// TokenProvider hands out Authorization header values and repairs them after auth failures.
type TokenProvider interface {
	// AuthHeader returns the current Authorization value, authenticating first if needed.
	AuthHeader(ctx context.Context) (string, error)

	// ProcessAuthFailure applies the remediation matching a 401/422 error message.
	// staleHeader is the header value the failed request was sent with.
	ProcessAuthFailure(ctx context.Context, statusCode int, message, staleHeader string) error
}

// TokenInspector exposes read-only token state for diagnostics.
type TokenInspector interface {
	State() TokenState
	ExpiresAt() time.Time
}

// PasswordReader handles secure credential input from users.
type PasswordReader interface {
	ReadPassword(ctx context.Context, prompt string) (string, error)
	ReadLine(ctx context.Context, prompt string) (string, error)
	IsInteractive() bool
}
