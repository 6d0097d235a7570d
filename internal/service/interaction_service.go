package service

import (
	"context"
	"time"

	"promptly/internal/events"
	"promptly/internal/models"
	"promptly/internal/observability"
	"promptly/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// InteractionService applies like, vote and bookmark toggles. Mutations on one record
// are serialized in-process and inside a locking transaction; different records run in
// parallel.
type InteractionService struct {
	repo        repository.InteractionRepository
	events      events.Publisher
	locks       *KeyedMutex
	maxAttempts uint
	log         *observability.InteractionLogger
}

func NewInteractionService(repo repository.InteractionRepository, publisher events.Publisher, maxAttempts int) *InteractionService {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &InteractionService{
		repo:        repo,
		events:      publisher,
		locks:       NewKeyedMutex(),
		maxAttempts: uint(maxAttempts),
		log:         observability.NewInteractionLogger("interaction"),
	}
}

// Like toggles userID in the prompt's like set.
func (s *InteractionService) Like(ctx context.Context, promptID, userID uint) (*models.LikeResult, error) {
	var res *models.LikeResult
	err := s.mutate(ctx, "like", promptKey(promptID), promptID, userID, func(ctx context.Context) error {
		var err error
		res, err = s.repo.ToggleLike(ctx, promptID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	evt := events.PromptLiked
	if !res.IsLiked {
		evt = events.PromptUnliked
	}
	s.publish(ctx, evt, promptID, userID, res)
	return res, nil
}

// Upvote moves the user's vote toward up: None or Down becomes Up, Up becomes None.
func (s *InteractionService) Upvote(ctx context.Context, promptID, userID uint) (*models.VoteResult, error) {
	return s.vote(ctx, "upvote", promptID, userID, models.VoteUp)
}

// Downvote is the mirror of Upvote.
func (s *InteractionService) Downvote(ctx context.Context, promptID, userID uint) (*models.VoteResult, error) {
	return s.vote(ctx, "downvote", promptID, userID, models.VoteDown)
}

func (s *InteractionService) vote(ctx context.Context, action string, promptID, userID uint, requested models.VoteValue) (*models.VoteResult, error) {
	var res *models.VoteResult
	err := s.mutate(ctx, action, promptKey(promptID), promptID, userID, func(ctx context.Context) error {
		var err error
		res, err = s.repo.ApplyVote(ctx, promptID, userID, requested)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.PromptVoted, promptID, userID, res)
	return res, nil
}

// Bookmark toggles the prompt in the user's bookmark set.
func (s *InteractionService) Bookmark(ctx context.Context, promptID, userID uint) (*models.BookmarkResult, error) {
	var res *models.BookmarkResult
	err := s.mutate(ctx, "bookmark", userKey(userID), promptID, userID, func(ctx context.Context) error {
		var err error
		res, err = s.repo.ToggleBookmark(ctx, userID, promptID)
		return err
	})
	if err != nil {
		return nil, err
	}

	evt := events.PromptBookmarked
	if !res.IsBookmarked {
		evt = events.PromptUnbookmarked
	}
	s.publish(ctx, evt, promptID, userID, res)
	return res, nil
}

// mutate runs fn under the record lock with conflict retries, then records the outcome.
func (s *InteractionService) mutate(ctx context.Context, action, key string, promptID, userID uint, fn func(context.Context) error) (err error) {
	ctx, span := observability.StartSpan(ctx, "service", "InteractionService."+action,
		attribute.Int64("prompt.id", int64(promptID)),
		attribute.Int64("user.id", int64(userID)),
	)
	start := time.Now()
	defer func() {
		observability.EndSpan(span, err)
		observability.InteractionsTotal.WithLabelValues(action, observability.Result(err)).Inc()
		s.log.LogMutation(ctx, action, promptID, userID, time.Since(start), err)
	}()

	if promptID == 0 {
		return models.NewValidationError("Invalid prompt ID")
	}
	if userID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}

	unlock := s.locks.Lock(key)
	defer unlock()

	return withConflictRetry(ctx, s.maxAttempts, action, "Prompt", func() error {
		return fn(ctx)
	})
}

func (s *InteractionService) publish(ctx context.Context, eventType string, promptID, userID uint, data any) {
	if s.events != nil {
		s.events.Publish(ctx, eventType, promptID, userID, data)
	}
}
