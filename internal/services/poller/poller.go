// Package poller drives server-side bulk tasks to a terminal state.
package poller

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"k8s.io/utils/clock"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
	"datalake/internal/logging"
)

// TaskUUIDPlaceholder is substituted in status URL templates.
const TaskUUIDPlaceholder = "{task_uuid}"

// Consecutive auth repairs allowed before a 401 is treated as unrecoverable.
const maxAuthRecoveries = 3

// BulkSearchBackoff is the backoff class of bulk search tasks.
func BulkSearchBackoff(ceiling time.Duration) domain.Backoff {
	return domain.Backoff{Base: 10 * time.Second, Max: ceiling, Multiplier: 2}
}

// BulkThreatsBackoff is the backoff class of bulk threat creation tasks.
func BulkThreatsBackoff(ceiling time.Duration) domain.Backoff {
	return domain.Backoff{Base: time.Second, Max: ceiling, Multiplier: 2}
}

// Poller implements domain.TaskPoller on top of the executor's single-attempt send.
type Poller struct {
	executor domain.RequestExecutor
	clock    clock.Clock
	logger   *slog.Logger
}

// Option configures a Poller.
type Option func(*Poller)

// WithClock sets the clock used for deadlines and sleeps.
func WithClock(c clock.Clock) Option {
	return func(p *Poller) {
		p.clock = c
	}
}

// NewPoller creates a task poller.
func NewPoller(executor domain.RequestExecutor, logger *slog.Logger, opts ...Option) *Poller {
	p := &Poller{
		executor: executor,
		clock:    clock.RealClock{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Poll issues status requests until the task is DONE (and passes every check) or
// CANCELLED. Failed polls back off exponentially; when the next delay would cross
// the timeout a BulkTaskTimeoutError is returned.
func (p *Poller) Poll(ctx context.Context, req domain.PollRequest) (*domain.TaskResult, error) {
	if _, err := uuid.Parse(req.TaskUUID); err != nil {
		return nil, apperrors.NewValidationError("task_uuid", req.TaskUUID, "uuid", "task uuid is not a valid UUID")
	}

	statusURL := strings.ReplaceAll(req.StatusURLTemplate, TaskUUIDPlaceholder, req.TaskUUID)
	logger := logging.WithTask(p.logger, req.TaskUUID)
	start := p.clock.Now()
	attempt := 0
	recoveries := 0

	for {
		resp, err := p.executor.Send(ctx, &domain.Request{Method: http.MethodGet, URL: statusURL})
		if err != nil && (ctx.Err() != nil || apperrors.IsFatalAuth(err) || apperrors.IsValidation(err)) {
			return nil, err
		}

		if err == nil && isAuthFailure(resp.StatusCode) {
			if recoveries >= maxAuthRecoveries {
				message, _ := resp.ErrorMessage()
				return nil, apperrors.NewUnexpectedAuthError(resp.StatusCode, message)
			}
			if recoverErr := p.executor.RecoverAuth(ctx, resp); recoverErr != nil {
				return nil, recoverErr
			}
			recoveries++
			continue
		}
		recoveries = 0

		if err == nil && resp.StatusCode == http.StatusOK {
			body, state := decodeStatus(resp.Body)
			if state.Terminal() {
				if state == domain.TaskDone && !passes(req.Checks, body) {
					logger.DebugContext(ctx, "Task done but not ready yet")
					if waitErr := p.wait(ctx, req, start, req.Backoff.Base); waitErr != nil {
						return nil, waitErr
					}
					continue
				}

				elapsed := p.clock.Since(start)
				logger.InfoContext(ctx, "Task finished", "state", state, "elapsed", elapsed)
				return &domain.TaskResult{UUID: req.TaskUUID, State: state, Body: body, Elapsed: elapsed}, nil
			}
			logger.DebugContext(ctx, "Task not finished", "state", state)
		} else {
			logger.WarnContext(ctx, "Task status request failed", "error", statusError(statusURL, resp, err))
		}

		attempt++
		if waitErr := p.wait(ctx, req, start, req.Backoff.Delay(attempt)); waitErr != nil {
			return nil, waitErr
		}
	}
}

// wait sleeps for delay unless that would end past the poll deadline.
func (p *Poller) wait(ctx context.Context, req domain.PollRequest, start time.Time, delay time.Duration) error {
	elapsed := p.clock.Since(start)
	if elapsed+delay > req.Timeout {
		return apperrors.NewBulkTaskTimeoutError(req.TaskUUID, elapsed, req.Timeout)
	}

	timer := p.clock.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C():
		return nil
	}
}

func decodeStatus(raw []byte) (map[string]any, domain.TaskState) {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return map[string]any{}, domain.TaskUnknown
	}

	state, _ := body["state"].(string)
	return body, domain.ParseTaskState(state)
}

func passes(checks []domain.AcceptanceCheck, body map[string]any) bool {
	for _, check := range checks {
		if !check(body) {
			return false
		}
	}
	return true
}

func isAuthFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusUnprocessableEntity
}

func statusError(url string, resp *domain.Response, err error) error {
	if err != nil {
		return err
	}
	return apperrors.NewHTTPError(resp.StatusCode, http.MethodGet, url, string(resp.Body))
}
