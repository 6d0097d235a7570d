package service

import (
	"context"

	"promptly/internal/models"
	"promptly/internal/repository"
)

// RankingService orders contributors by their live total_prompts counter.
type RankingService struct {
	users        repository.UserRepository
	defaultLimit int
}

func NewRankingService(users repository.UserRepository, defaultLimit int) *RankingService {
	if defaultLimit <= 0 {
		defaultLimit = 3
	}
	return &RankingService{users: users, defaultLimit: defaultLimit}
}

// TopContributors returns up to n users, most prompts first. Ties keep creation order.
// n <= 0 uses the default; n is capped at repository.MaxLeaderboardSize.
func (s *RankingService) TopContributors(ctx context.Context, n int) ([]models.User, error) {
	if n <= 0 {
		n = s.defaultLimit
	}
	if n > repository.MaxLeaderboardSize {
		n = repository.MaxLeaderboardSize
	}
	users, err := s.users.TopByTotalPrompts(ctx, n)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
