package app

import (
	"context"
	"fmt"
	"log/slog"

	"datalake/internal/adapters/http"
	"datalake/internal/config"
	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
	"datalake/internal/services/auth"
	"datalake/internal/services/endpoints"
	"datalake/internal/services/executor"
	"datalake/internal/services/poller"
	"datalake/internal/services/ratelimit"
)

// TaskExecutorName keys the rate limiter window shared by every task status poll.
const TaskExecutorName = "tasks"

// Session is one authenticated Datalake client and the token manager behind it.
type Session struct {
	Client *endpoints.Client
	Tokens *auth.Manager
}

// ClientFactory builds sessions from settings, prompting for missing credentials.
type ClientFactory struct {
	settings  *config.Settings
	passwords domain.PasswordReader
	logger    *slog.Logger
}

// NewClientFactory creates a new client factory.
func NewClientFactory(settings *config.Settings, passwords domain.PasswordReader, logger *slog.Logger) *ClientFactory {
	return &ClientFactory{
		settings:  settings,
		passwords: passwords,
		logger:    logger,
	}
}

// Credentials returns the configured credentials, prompting for whatever is missing.
func (f *ClientFactory) Credentials(ctx context.Context) (domain.Credentials, error) {
	creds := f.settings.Credentials()
	if creds.IsLongTerm() || creds.HasPassword() {
		return creds, nil
	}

	if creds.Username == "" {
		if !f.passwords.IsInteractive() {
			return creds, apperrors.NewConfigurationError(config.KeyUsername, "",
				"no credentials configured: set OCD_DTL_USERNAME and OCD_DTL_PASSWORD or OCD_DTL_LONGTERM_TOKEN", nil)
		}
		username, err := f.passwords.ReadLine(ctx, "Datalake email: ")
		if err != nil {
			return creds, fmt.Errorf("failed to read username: %w", err)
		}
		creds.Username = username
	}

	password, err := f.passwords.ReadPassword(ctx, fmt.Sprintf("Password for %s: ", creds.Username))
	if err != nil {
		return creds, fmt.Errorf("failed to read password: %w", err)
	}
	creds.Password = password

	return creds, nil
}

// Create wires a session: one HTTP adapter, one token manager and one rate limiter
// shared by an executor per endpoint family.
func (f *ClientFactory) Create(ctx context.Context) (*Session, error) {
	creds, err := f.Credentials(ctx)
	if err != nil {
		return nil, err
	}
	return f.CreateWithCredentials(creds), nil
}

// CreateWithCredentials wires a session without prompting.
func (f *ClientFactory) CreateWithCredentials(creds domain.Credentials) *Session {
	s := f.settings
	apiRoot := s.APIRoot()

	httpAdapter := http.NewAdapter(s.HTTPTimeout, s.Insecure, f.logger)
	httpAdapter.SetRateLimit(s.HTTPRequestsPerSecond, s.HTTPBurst)

	tokens := auth.NewManager(httpAdapter, apiRoot, creds, f.logger)
	limiter := ratelimit.NewLimiter(s.QuotaPeriod(), s.RequestsPerQuotaTime, f.logger)

	newExecutor := func(name string) domain.RequestExecutor {
		return executor.NewExecutor(httpAdapter, tokens, limiter, f.logger,
			executor.WithName(name),
			executor.WithRetryBudget(s.RetryBudget))
	}

	taskPoller := poller.NewPoller(newExecutor(TaskExecutorName), f.logger)

	client := endpoints.NewClient(apiRoot, newExecutor, taskPoller, endpoints.Settings{
		MaxBulkSearchTime:  s.BulkSearchTimeout(),
		MaxBulkThreatsTime: s.BulkThreatsTimeout(),
		MaxBackOffTime:     s.BackOffCeiling(),
		MaxInFlight:        s.MaxBulkThreatsInFlight,
	}, f.logger)

	f.logger.Debug("Datalake session created", "apiRoot", apiRoot, "longTerm", creds.IsLongTerm())
	return &Session{Client: client, Tokens: tokens}
}
