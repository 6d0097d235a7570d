package service

import (
	"context"

	"promptly/internal/models"
	"promptly/internal/repository"
)

// UserService composes profile and bookmark views.
type UserService struct {
	users        repository.UserRepository
	prompts      repository.PromptRepository
	interactions repository.InteractionRepository
	views        *ViewComposer
}

func NewUserService(
	users repository.UserRepository,
	prompts repository.PromptRepository,
	interactions repository.InteractionRepository,
	views *ViewComposer,
) *UserService {
	return &UserService{
		users:        users,
		prompts:      prompts,
		interactions: interactions,
		views:        views,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetProfile returns the user with their prompts, newest first, annotated for the user.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	prompts, err := s.prompts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts, err := s.views.Annotate(ctx, prompts, userID)
	if err != nil {
		return nil, err
	}

	return &models.Profile{User: *user, Posts: posts}, nil
}

// Bookmarks returns the prompts the user bookmarked, annotated for the user.
func (s *UserService) Bookmarks(ctx context.Context, userID uint) ([]models.PromptView, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	ids, err := s.interactions.BookmarkedPromptIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	prompts, err := s.prompts.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return annotate(prompts, userID, ids), nil
}
