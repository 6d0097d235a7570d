package service

import (
	"context"
	"errors"
	"testing"

	"promptly/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWithConflictRetry(t *testing.T) {
	t.Parallel()
	serialization := models.NewInternalError(&pgconn.PgError{Code: "40001"})

	t.Run("succeeds after transient conflict", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := withConflictRetry(context.Background(), 3, "like", "Prompt", func() error {
			calls++
			if calls < 2 {
				return serialization
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("persistent conflict becomes CONFLICT", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := withConflictRetry(context.Background(), 3, "like", "Prompt", func() error {
			calls++
			return serialization
		})
		assertAppCode(t, err, models.CodeConflict)
		assert.Equal(t, 3, calls)
		assert.ErrorIs(t, err, serialization)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		t.Parallel()
		calls := 0
		notFound := models.NewNotFoundError("Prompt", 9)
		err := withConflictRetry(context.Background(), 3, "like", "Prompt", func() error {
			calls++
			return notFound
		})
		assert.Equal(t, 1, calls)
		assert.True(t, errors.Is(err, notFound))
	})
}
