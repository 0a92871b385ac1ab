package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	clocktesting "k8s.io/utils/clock/testing"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
	"datalake/internal/mocks"
	"datalake/internal/testutil"
)

const baseURL = "https://datalake.example.com/api/v2/"

func toURL(path string) interface{} {
	return mock.MatchedBy(func(r *domain.Request) bool { return r.URL == baseURL+path })
}

type ManagerTestSuite struct {
	suite.Suite
	httpAdapter *mocks.MockHTTPAdapter
	manager     *Manager
	ctx         context.Context
}

func (s *ManagerTestSuite) SetupTest() {
	s.httpAdapter = mocks.NewMockHTTPAdapter(s.T())
	s.manager = NewManager(s.httpAdapter, baseURL,
		domain.Credentials{Username: "analyst@example.com", Password: "secret"}, testutil.Logger())
	s.ctx = context.Background()
}

func (s *ManagerTestSuite) authenticated(access, refresh string) {
	s.manager.store(tokenResponse{AccessToken: access, RefreshToken: refresh})
}

func (s *ManagerTestSuite) TestAuthenticate_Success() {
	s.httpAdapter.EXPECT().Do(s.ctx, mock.Anything).
		Run(func(_ context.Context, req *domain.Request) {
			s.Equal(http.MethodPost, req.Method)
			s.Equal(baseURL+TokenPath, req.URL)
			s.Equal(map[string]string{"email": "analyst@example.com", "password": "secret"}, req.Body)
		}).
		Return(testutil.JSONResponse(200, `{"access_token":"A","refresh_token":"R"}`), nil).Once()

	s.Require().NoError(s.manager.Authenticate(s.ctx))

	access, refresh := s.manager.Tokens()
	s.Equal("A", access)
	s.Equal("R", refresh)
	s.Equal(domain.StateAuthenticated, s.manager.State())
	s.True(s.manager.ExpiresAt().IsZero())
}

func (s *ManagerTestSuite) TestAuthenticate_RejectedIsFatal() {
	s.httpAdapter.EXPECT().Do(s.ctx, toURL(TokenPath)).
		Return(testutil.JSONResponse(401, `{"message":"Wrong credentials provided"}`), nil).Once()

	err := s.manager.Authenticate(s.ctx)

	var authErr *apperrors.AuthenticationError
	s.Require().ErrorAs(err, &authErr)
	s.Equal(401, authErr.StatusCode)
	s.Contains(authErr.Body, "Wrong credentials provided")
	s.Equal(domain.StateUnauthenticated, s.manager.State())
}

func (s *ManagerTestSuite) TestAuthenticate_MissingAccessToken() {
	s.httpAdapter.EXPECT().Do(s.ctx, toURL(TokenPath)).
		Return(testutil.JSONResponse(200, `{"refresh_token":"R"}`), nil).Once()

	err := s.manager.Authenticate(s.ctx)

	s.ErrorIs(err, apperrors.ErrAuthentication)
	access, _ := s.manager.Tokens()
	s.Empty(access)
}

func (s *ManagerTestSuite) TestAuthenticate_TransportError() {
	s.httpAdapter.EXPECT().Do(s.ctx, toURL(TokenPath)).Return(nil, apperrors.ErrNetwork).Once()

	err := s.manager.Authenticate(s.ctx)

	s.ErrorIs(err, apperrors.ErrAuthentication)
	s.ErrorIs(err, apperrors.ErrNetwork)
}

func (s *ManagerTestSuite) TestAuthenticate_NoCredentials() {
	manager := NewManager(s.httpAdapter, baseURL, domain.Credentials{Username: "analyst@example.com"}, testutil.Logger())

	err := manager.Authenticate(s.ctx)

	s.ErrorIs(err, apperrors.ErrAuthentication)
	s.httpAdapter.AssertNotCalled(s.T(), "Do", mock.Anything, mock.Anything)
}

func (s *ManagerTestSuite) TestRefresh_Success() {
	s.authenticated("A", "R")
	s.httpAdapter.EXPECT().Do(s.ctx, toURL(RefreshPath)).
		Run(func(_ context.Context, req *domain.Request) {
			s.Equal("Token R", req.Headers.Get("Authorization"))
			s.Nil(req.Body)
		}).
		Return(testutil.JSONResponse(200, `{"access_token":"A2"}`), nil).Once()

	s.Require().NoError(s.manager.Refresh(s.ctx))

	access, refresh := s.manager.Tokens()
	s.Equal("A2", access)
	s.Equal("R", refresh, "refresh token is kept when the server does not issue a new one")
	s.Equal(domain.StateAuthenticated, s.manager.State())
}

func (s *ManagerTestSuite) TestRefresh_ReplacesRefreshToken() {
	s.authenticated("A", "R")
	s.httpAdapter.EXPECT().Do(s.ctx, toURL(RefreshPath)).
		Return(testutil.JSONResponse(200, `{"access_token":"A2","refresh_token":"R2"}`), nil).Once()

	s.Require().NoError(s.manager.Refresh(s.ctx))

	_, refresh := s.manager.Tokens()
	s.Equal("R2", refresh)
}

func (s *ManagerTestSuite) TestRefresh_ExpiredRefreshTokenAuthenticatesOnce() {
	s.authenticated("A", "R")
	s.httpAdapter.EXPECT().Do(s.ctx, toURL(RefreshPath)).
		Return(testutil.JSONResponse(401, `{"msg":"Token has expired"}`), nil).Once()
	s.httpAdapter.EXPECT().Do(s.ctx, toURL(TokenPath)).
		Return(testutil.JSONResponse(200, `{"access_token":"A3","refresh_token":"R3"}`), nil).Once()

	s.Require().NoError(s.manager.Refresh(s.ctx))

	access, refresh := s.manager.Tokens()
	s.Equal("A3", access)
	s.Equal("R3", refresh)
}

func (s *ManagerTestSuite) TestRefresh_ExpiredThenBadCredentialsDoesNotLoop() {
	s.authenticated("A", "R")
	s.httpAdapter.EXPECT().Do(s.ctx, toURL(RefreshPath)).
		Return(testutil.JSONResponse(401, `{"msg":"Token has expired"}`), nil).Once()
	s.httpAdapter.EXPECT().Do(s.ctx, toURL(TokenPath)).
		Return(testutil.JSONResponse(401, `{"message":"Wrong credentials provided"}`), nil).Once()

	err := s.manager.Refresh(s.ctx)

	s.ErrorIs(err, apperrors.ErrAuthentication)
}

func (s *ManagerTestSuite) TestRefresh_OtherFailure() {
	s.authenticated("A", "R")
	s.httpAdapter.EXPECT().Do(s.ctx, toURL(RefreshPath)).
		Return(testutil.JSONResponse(500, `internal error`), nil).Once()

	err := s.manager.Refresh(s.ctx)

	var refreshErr *apperrors.TokenRefreshError
	s.Require().ErrorAs(err, &refreshErr)
	s.Equal(500, refreshErr.StatusCode)
	s.Equal(domain.StateAuthenticated, s.manager.State())
}

func (s *ManagerTestSuite) TestRefresh_UnauthorizedWithOtherMessage() {
	s.authenticated("A", "R")
	s.httpAdapter.EXPECT().Do(s.ctx, toURL(RefreshPath)).
		Return(testutil.JSONResponse(401, `{"msg":"Token has been revoked"}`), nil).Once()

	err := s.manager.Refresh(s.ctx)

	s.ErrorIs(err, apperrors.ErrTokenRefresh)
}

func (s *ManagerTestSuite) TestAuthHeader_Bootstraps() {
	s.httpAdapter.EXPECT().Do(s.ctx, toURL(TokenPath)).
		Return(testutil.JSONResponse(200, `{"access_token":"A","refresh_token":"R"}`), nil).Once()

	header, err := s.manager.AuthHeader(s.ctx)
	s.Require().NoError(err)
	s.Equal("Token A", header)

	// Second call reuses the stored token.
	header, err = s.manager.AuthHeader(s.ctx)
	s.Require().NoError(err)
	s.Equal("Token A", header)
}

func (s *ManagerTestSuite) TestProcessAuthFailure_MissingHeaderAuthenticates() {
	s.httpAdapter.EXPECT().Do(s.ctx, toURL(TokenPath)).
		Return(testutil.JSONResponse(200, `{"access_token":"A","refresh_token":"R"}`), nil).Once()

	err := s.manager.ProcessAuthFailure(s.ctx, 401, "Missing Authorization Header", "")

	s.Require().NoError(err)
	s.Equal(domain.StateAuthenticated, s.manager.State())
}

func (s *ManagerTestSuite) TestProcessAuthFailure_ExpiredRefreshes() {
	s.authenticated("A", "R")
	s.httpAdapter.EXPECT().Do(s.ctx, toURL(RefreshPath)).
		Return(testutil.JSONResponse(200, `{"access_token":"A2"}`), nil).Once()

	err := s.manager.ProcessAuthFailure(s.ctx, 401, "Token has expired", "Token A")

	s.Require().NoError(err)
	access, _ := s.manager.Tokens()
	s.Equal("A2", access)
}

func (s *ManagerTestSuite) TestProcessAuthFailure_AlreadyRepaired() {
	s.authenticated("A2", "R")

	err := s.manager.ProcessAuthFailure(s.ctx, 401, "Token has expired", "Token A")

	s.Require().NoError(err)
	s.httpAdapter.AssertNotCalled(s.T(), "Do", mock.Anything, mock.Anything)
}

func (s *ManagerTestSuite) TestProcessAuthFailure_FreshRequiredAuthenticates() {
	s.authenticated("A", "R")
	s.httpAdapter.EXPECT().Do(s.ctx, toURL(TokenPath)).
		Return(testutil.JSONResponse(200, `{"access_token":"F","refresh_token":"R2"}`), nil).Once()

	err := s.manager.ProcessAuthFailure(s.ctx, 401, "Fresh token required", "Token A")

	s.Require().NoError(err)
	access, _ := s.manager.Tokens()
	s.Equal("F", access)
}

func (s *ManagerTestSuite) TestProcessAuthFailure_Unrecognized() {
	s.authenticated("A", "R")

	err := s.manager.ProcessAuthFailure(s.ctx, 422, "Signature verification failed", "Token A")

	var unexpected *apperrors.UnexpectedAuthError
	s.Require().ErrorAs(err, &unexpected)
	s.Equal("Signature verification failed", unexpected.Message)
	s.Equal(422, unexpected.StatusCode)
}

func TestManagerTestSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func TestManager_LongTermMode(t *testing.T) {
	httpAdapter := mocks.NewMockHTTPAdapter(t)
	manager := NewManager(httpAdapter, baseURL, domain.Credentials{LongTermToken: "LT"}, testutil.Logger())

	header, err := manager.AuthHeader(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Token LT", header)
	assert.Equal(t, domain.StateLongTerm, manager.State())
	assert.True(t, manager.IsLongTerm())

	require.NoError(t, manager.Authenticate(context.Background()))
	assert.ErrorIs(t, manager.Refresh(context.Background()), apperrors.ErrLongTermToken)
	httpAdapter.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
}

func TestManager_LongTermFailureClassification(t *testing.T) {
	tests := []struct {
		message string
		reason  apperrors.LongTermReason
	}{
		{"Token has expired", apperrors.LongTermExpired},
		{"Token has been revoked", apperrors.LongTermRevoked},
		{"Fresh token required", apperrors.LongTermFreshTokenRequired},
		{"Signature verification failed", apperrors.LongTermInvalid},
		{"Missing Authorization Header", apperrors.LongTermInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			httpAdapter := mocks.NewMockHTTPAdapter(t)
			manager := NewManager(httpAdapter, baseURL, domain.Credentials{LongTermToken: "LT"}, testutil.Logger())

			err := manager.ProcessAuthFailure(context.Background(), 401, tt.message, "Token LT")

			reason, ok := apperrors.LongTermReasonOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.reason, reason)
			assert.True(t, apperrors.IsFatalAuth(err))
		})
	}
}

func TestManager_LongTermFreshRequiredFailsWithPasswordConfigured(t *testing.T) {
	httpAdapter := mocks.NewMockHTTPAdapter(t)
	manager := NewManager(httpAdapter, baseURL, domain.Credentials{
		Username:      "analyst@example.com",
		Password:      "secret",
		LongTermToken: "LT",
	}, testutil.Logger())

	err := manager.ProcessAuthFailure(context.Background(), 401, "Fresh token required", "Token LT")

	reason, ok := apperrors.LongTermReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.LongTermFreshTokenRequired, reason)
	assert.Equal(t, domain.StateLongTerm, manager.State())
	httpAdapter.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
}

func TestManager_LongTermUnrecognizedFailure(t *testing.T) {
	manager := NewManager(mocks.NewMockHTTPAdapter(t), baseURL, domain.Credentials{LongTermToken: "LT"}, testutil.Logger())

	err := manager.ProcessAuthFailure(context.Background(), 401, "User is disabled", "Token LT")

	assert.ErrorIs(t, err, apperrors.ErrUnexpectedAuth)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "analyst@example.com",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestManager_ExpiryFromJWT(t *testing.T) {
	exp := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	access := signedToken(t, exp)
	httpAdapter := mocks.NewMockHTTPAdapter(t)
	httpAdapter.EXPECT().Do(mock.Anything, toURL(TokenPath)).
		Return(testutil.JSONResponse(200, `{"access_token":"`+access+`","refresh_token":"R"}`), nil).Once()

	manager := NewManager(httpAdapter, baseURL,
		domain.Credentials{Username: "analyst@example.com", Password: "secret"}, testutil.Logger())
	require.NoError(t, manager.Authenticate(context.Background()))

	assert.True(t, exp.Equal(manager.ExpiresAt()))
}

func TestManager_AuthHeaderRefreshesExpiredToken(t *testing.T) {
	start := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	fc := clocktesting.NewFakePassiveClock(start)
	expired := signedToken(t, start.Add(5*time.Second))
	fresh := signedToken(t, start.Add(time.Hour))

	httpAdapter := mocks.NewMockHTTPAdapter(t)
	httpAdapter.EXPECT().Do(mock.Anything, toURL(RefreshPath)).
		Return(testutil.JSONResponse(200, `{"access_token":"`+fresh+`"}`), nil).Once()

	manager := NewManager(httpAdapter, baseURL,
		domain.Credentials{Username: "analyst@example.com", Password: "secret"}, testutil.Logger(), WithClock(fc))
	manager.store(tokenResponse{AccessToken: expired, RefreshToken: "R"})

	header, err := manager.AuthHeader(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Token "+fresh, header)
}

func TestManager_ConcurrentFailuresRefreshOnce(t *testing.T) {
	httpAdapter := mocks.NewMockHTTPAdapter(t)
	release := make(chan struct{})
	httpAdapter.EXPECT().Do(mock.Anything, toURL(RefreshPath)).
		RunAndReturn(func(context.Context, *domain.Request) (*domain.Response, error) {
			<-release
			return testutil.JSONResponse(200, `{"access_token":"A2"}`), nil
		}).Once()

	manager := NewManager(httpAdapter, baseURL,
		domain.Credentials{Username: "analyst@example.com", Password: "secret"}, testutil.Logger())
	manager.store(tokenResponse{AccessToken: "A", RefreshToken: "R"})

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- manager.ProcessAuthFailure(context.Background(), 401, "Token has expired", "Token A")
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	access, _ := manager.Tokens()
	assert.Equal(t, "A2", access)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, failureMissingHeader, classify("Bad Authorization header. Expected value 'Token <JWT>'"))
	assert.Equal(t, failureExpired, classify("Token has expired"))
	assert.Equal(t, failureUnknown, classify(""))
	assert.Equal(t, failureUnknown, classify(errors.New("something else").Error()))
}
