package service

import (
	"context"
	"time"

	"promptly/internal/models"
	"promptly/internal/observability"
	"promptly/internal/repository"

	"github.com/avast/retry-go/v4"
)

const defaultMaxAttempts = 3

// withConflictRetry replays fn while it fails with a transient storage conflict. A
// conflict that outlasts every attempt surfaces as CONFLICT; other errors pass through.
func withConflictRetry(ctx context.Context, attempts uint, action, resource string, fn func() error) error {
	if attempts == 0 {
		attempts = defaultMaxAttempts
	}
	err := retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.RetryIf(repository.IsRetryable),
		retry.Delay(10*time.Millisecond),
		retry.MaxJitter(15*time.Millisecond),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(uint, error) {
			observability.InteractionRetries.WithLabelValues(action).Inc()
		}),
	)
	if err != nil && repository.IsRetryable(err) {
		return models.NewConflictError(resource, err)
	}
	return err
}
