// Package auth owns the Datalake credential state: it acquires, refreshes and
// classifies failures of access tokens, or serves a long-term token as-is.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
	"k8s.io/utils/clock"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
)

const (
	TokenPath   = "auth/token/"
	RefreshPath = "auth/refresh-token/"

	headerPrefix = "Token "

	// Access tokens are refreshed this long before their exp claim.
	expirySkew = 10 * time.Second
)

// Server messages recognized in 401/422 bodies, matched case-insensitively.
const (
	msgMissingHeader   = "missing authorization header"
	msgBadHeader       = "bad authorization header"
	msgMalformedHeader = "malformed authorization header"
	msgExpired         = "token has expired"
	msgRevoked         = "token has been revoked"
	msgFreshRequired   = "fresh token required"
	msgSignature       = "signature verification failed"
	msgInvalidToken    = "invalid token"
	msgNotEnoughParts  = "not enough segments"
)

type failureKind int

const (
	failureUnknown failureKind = iota
	failureMissingHeader
	failureExpired
	failureRevoked
	failureFreshRequired
	failureInvalid
)

func classify(message string) failureKind {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, msgMissingHeader),
		strings.Contains(m, msgBadHeader),
		strings.Contains(m, msgMalformedHeader):
		return failureMissingHeader
	case strings.Contains(m, msgExpired):
		return failureExpired
	case strings.Contains(m, msgRevoked):
		return failureRevoked
	case strings.Contains(m, msgFreshRequired):
		return failureFreshRequired
	case strings.Contains(m, msgSignature),
		strings.Contains(m, msgInvalidToken),
		strings.Contains(m, msgNotEnoughParts):
		return failureInvalid
	default:
		return failureUnknown
	}
}

// Manager holds the token state of one client session.
type Manager struct {
	httpAdapter domain.HTTPAdapter
	baseURL     string
	credentials domain.Credentials
	clock       clock.PassiveClock
	logger      *slog.Logger

	mu        sync.RWMutex
	access    string
	refresh   string
	expiresAt time.Time
	state     domain.TokenState

	group singleflight.Group
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used to judge access token expiry.
func WithClock(c clock.PassiveClock) Option {
	return func(m *Manager) {
		m.clock = c
	}
}

// NewManager creates a token manager for baseURL. A long-term token in credentials
// switches the manager to long-term mode, where authenticate and refresh are never called.
func NewManager(
	httpAdapter domain.HTTPAdapter,
	baseURL string,
	credentials domain.Credentials,
	logger *slog.Logger,
	opts ...Option,
) *Manager {
	m := &Manager{
		httpAdapter: httpAdapter,
		baseURL:     strings.TrimRight(baseURL, "/") + "/",
		credentials: credentials,
		clock:       clock.RealClock{},
		logger:      logger.With("component", "token_manager"),
		state:       domain.StateUnauthenticated,
	}
	for _, opt := range opts {
		opt(m)
	}

	if credentials.IsLongTerm() {
		m.state = domain.StateLongTerm
	}

	return m
}

// IsLongTerm reports whether the manager serves a long-term token.
func (m *Manager) IsLongTerm() bool {
	return m.credentials.IsLongTerm()
}

// State returns the current lifecycle state.
func (m *Manager) State() domain.TokenState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// ExpiresAt returns the access token's exp claim, or the zero time when unknown.
func (m *Manager) ExpiresAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expiresAt
}

// Tokens returns the current access and refresh tokens.
func (m *Manager) Tokens() (string, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access, m.refresh
}

// AuthHeader returns the Authorization header value, authenticating on first use and
// refreshing an access token whose exp claim has passed.
func (m *Manager) AuthHeader(ctx context.Context) (string, error) {
	if m.IsLongTerm() {
		return headerPrefix + m.credentials.LongTermToken, nil
	}

	m.mu.RLock()
	access, expiresAt := m.access, m.expiresAt
	m.mu.RUnlock()

	switch {
	case access == "":
		err := m.runOnce(ctx, "authenticate", func() bool { return m.currentHeader() == "" }, m.authenticate)
		if err != nil {
			return "", err
		}
	case !expiresAt.IsZero() && !m.clock.Now().Before(expiresAt.Add(-expirySkew)):
		m.logger.DebugContext(ctx, "Access token about to expire, refreshing", "expires_at", expiresAt)
		if err := m.runOnce(ctx, "refresh", m.stale(headerPrefix+access), m.refreshTokens); err != nil {
			return "", err
		}
	}

	return m.currentHeader(), nil
}

func (m *Manager) currentHeader() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.access == "" {
		return ""
	}
	return headerPrefix + m.access
}

// stale reports whether the token is still the one a failed request was sent with.
func (m *Manager) stale(header string) func() bool {
	return func() bool {
		current := m.currentHeader()
		return header == "" || current == "" || current == header
	}
}

// runOnce deduplicates concurrent token operations. needed is re-checked inside the
// flight so a caller arriving after another caller's repair does not repeat it.
func (m *Manager) runOnce(ctx context.Context, key string, needed func() bool, fn func(context.Context) error) error {
	_, err, _ := m.group.Do(key, func() (any, error) {
		if needed != nil && !needed() {
			return nil, nil
		}
		return nil, fn(ctx)
	})
	return err
}

// Authenticate exchanges username and password for an access/refresh token pair.
// Failures are returned as AuthenticationError and never retried.
func (m *Manager) Authenticate(ctx context.Context) error {
	if m.IsLongTerm() {
		return nil
	}
	return m.runOnce(ctx, "authenticate", nil, m.authenticate)
}

func (m *Manager) authenticate(ctx context.Context) error {
	url := m.baseURL + TokenPath
	username := m.credentials.Username

	if !m.credentials.HasPassword() {
		return apperrors.NewAuthenticationError(url, username, 0, "",
			errors.New("username and password are required"))
	}

	m.logger.DebugContext(ctx, "Authenticating", "url", url, "username", username)

	resp, err := m.httpAdapter.Do(ctx, &domain.Request{
		Method:  http.MethodPost,
		URL:     url,
		Headers: jsonHeaders(),
		Body: map[string]string{
			"email":    username,
			"password": m.credentials.Password,
		},
	})
	if err != nil {
		return apperrors.NewAuthenticationError(url, username, 0, "", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewAuthenticationError(url, username, resp.StatusCode, string(resp.Body), nil)
	}

	tokens, err := decodeTokens(resp.Body)
	if err != nil {
		return apperrors.NewAuthenticationError(url, username, resp.StatusCode, string(resp.Body), err)
	}

	m.store(tokens)
	m.logger.InfoContext(ctx, "Authenticated", "username", username, "expires_at", m.ExpiresAt())
	return nil
}

// Refresh mints a new access token from the refresh token. An expired refresh token
// triggers exactly one full authentication.
func (m *Manager) Refresh(ctx context.Context) error {
	if m.IsLongTerm() {
		return apperrors.NewLongTermTokenError(apperrors.LongTermInvalid, "long-term tokens cannot be refreshed")
	}
	return m.runOnce(ctx, "refresh", nil, m.refreshTokens)
}

func (m *Manager) refreshTokens(ctx context.Context) error {
	m.mu.Lock()
	refresh := m.refresh
	previous := m.state
	if refresh != "" {
		m.state = domain.StateRefreshing
	}
	m.mu.Unlock()

	if refresh == "" {
		m.logger.DebugContext(ctx, "No refresh token, authenticating")
		return m.authenticate(ctx)
	}

	headers := jsonHeaders()
	headers.Set("Authorization", headerPrefix+refresh)

	resp, err := m.httpAdapter.Do(ctx, &domain.Request{
		Method:  http.MethodPost,
		URL:     m.baseURL + RefreshPath,
		Headers: headers,
	})
	if err != nil {
		m.setState(previous)
		return apperrors.NewTokenRefreshError(0, "", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		tokens, decodeErr := decodeTokens(resp.Body)
		if decodeErr != nil {
			m.setState(previous)
			return apperrors.NewTokenRefreshError(resp.StatusCode, string(resp.Body), decodeErr)
		}
		m.store(tokens)
		m.logger.InfoContext(ctx, "Access token refreshed", "expires_at", m.ExpiresAt())
		return nil

	case resp.StatusCode == http.StatusUnauthorized && refreshExpired(resp):
		m.logger.InfoContext(ctx, "Refresh token expired, authenticating again")
		m.clear()
		return m.authenticate(ctx)

	default:
		m.setState(previous)
		return apperrors.NewTokenRefreshError(resp.StatusCode, string(resp.Body), nil)
	}
}

func refreshExpired(resp *domain.Response) bool {
	message, err := resp.ErrorMessage()
	return err == nil && classify(message) == failureExpired
}

// ProcessAuthFailure applies the remediation matching a 401/422 error message.
// staleHeader is the Authorization value the failed request carried; when the
// current header already differs, another caller repaired the token and nothing is done.
func (m *Manager) ProcessAuthFailure(ctx context.Context, statusCode int, message, staleHeader string) error {
	kind := classify(message)

	if m.IsLongTerm() {
		return m.longTermFailure(kind, statusCode, message)
	}

	needed := m.stale(staleHeader)

	switch kind {
	case failureMissingHeader:
		m.logger.InfoContext(ctx, "Authorization header rejected, authenticating", "message", message)
		return m.runOnce(ctx, "authenticate", needed, m.authenticate)
	case failureExpired:
		m.logger.InfoContext(ctx, "Access token expired, refreshing")
		return m.runOnce(ctx, "refresh", needed, m.refreshTokens)
	case failureFreshRequired:
		m.logger.InfoContext(ctx, "Endpoint requires a fresh token, authenticating")
		return m.runOnce(ctx, "authenticate", needed, func(ctx context.Context) error {
			m.clear()
			return m.authenticate(ctx)
		})
	default:
		return apperrors.NewUnexpectedAuthError(statusCode, message)
	}
}

func (m *Manager) longTermFailure(kind failureKind, statusCode int, message string) error {
	switch kind {
	case failureExpired:
		return apperrors.NewLongTermTokenError(apperrors.LongTermExpired, message)
	case failureRevoked:
		return apperrors.NewLongTermTokenError(apperrors.LongTermRevoked, message)
	case failureFreshRequired:
		return apperrors.NewLongTermTokenError(apperrors.LongTermFreshTokenRequired, message)
	case failureInvalid, failureMissingHeader:
		return apperrors.NewLongTermTokenError(apperrors.LongTermInvalid, message)
	default:
		return apperrors.NewUnexpectedAuthError(statusCode, message)
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func decodeTokens(body []byte) (tokenResponse, error) {
	var tokens tokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return tokens, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokens.AccessToken == "" {
		return tokens, errors.New("response has no access_token")
	}
	return tokens, nil
}

func (m *Manager) store(tokens tokenResponse) {
	expiresAt := tokenExpiry(tokens.AccessToken)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.access = tokens.AccessToken
	if tokens.RefreshToken != "" {
		m.refresh = tokens.RefreshToken
	}
	m.expiresAt = expiresAt
	m.state = domain.StateAuthenticated
}

func (m *Manager) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.access = ""
	m.refresh = ""
	m.expiresAt = time.Time{}
	m.state = domain.StateUnauthenticated
}

func (m *Manager) setState(state domain.TokenState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

// tokenExpiry reads the exp claim without verifying the signature. Non-JWT tokens have no known expiry.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func jsonHeaders() http.Header {
	headers := make(http.Header)
	headers.Set("Accept", domain.OutputJSON.ContentType())
	return headers
}
