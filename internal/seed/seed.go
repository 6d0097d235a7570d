package seed

import (
	"context"
	"fmt"
	"log"

	"promptly/internal/identity"
	"promptly/internal/models"
	"promptly/internal/repository"

	"gorm.io/gorm"
)

// DefaultPassword is the password given to every seeded account.
const DefaultPassword = "Promptly!Seed2024"

// Options configures a seeding run. Rates are percentages applied per user and prompt.
type Options struct {
	NumUsers     int
	NumPrompts   int
	LikeRate     int
	VoteRate     int
	BookmarkRate int
	RandSeed     int64
}

// DefaultOptions returns the sizes used by cmd/seed.
func DefaultOptions() Options {
	return Options{
		NumUsers:     25,
		NumPrompts:   120,
		LikeRate:     30,
		VoteRate:     40,
		BookmarkRate: 10,
	}
}

// Summary counts what a run wrote.
type Summary struct {
	Users     int
	Prompts   int
	Likes     int
	Votes     int
	Bookmarks int
}

// Seeder writes fixture data through the repositories.
type Seeder struct {
	db           *gorm.DB
	users        repository.UserRepository
	prompts      repository.PromptRepository
	interactions repository.InteractionRepository
	factory      *Factory
	opts         Options
}

// NewSeeder loads the embedded fixtures and returns a seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) (*Seeder, error) {
	fixtures, err := LoadFixtures()
	if err != nil {
		return nil, err
	}
	return &Seeder{
		db:           db,
		users:        repository.NewUserRepository(db),
		prompts:      repository.NewPromptRepository(db),
		interactions: repository.NewInteractionRepository(db),
		factory:      NewFactory(fixtures, opts.RandSeed),
		opts:         opts,
	}, nil
}

// ClearAll deletes every seeded table, relations first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.Bookmark{}, &models.Vote{}, &models.Like{}, &models.Prompt{}, &models.User{}} {
		if err := db.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	log.Println("existing data cleared")
	return nil
}

// Run creates users, then prompts spread across them, then engagement on those prompts.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	if s.opts.NumUsers <= 0 {
		return nil, fmt.Errorf("seed: need at least one user, got %d", s.opts.NumUsers)
	}

	summary := &Summary{}
	users, err := s.seedUsers(ctx)
	if err != nil {
		return summary, err
	}
	summary.Users = len(users)
	log.Printf("%d users created", len(users))

	prompts, err := s.seedPrompts(ctx, users)
	if err != nil {
		return summary, err
	}
	summary.Prompts = len(prompts)
	log.Printf("%d prompts created", len(prompts))

	if err := s.seedEngagement(ctx, users, prompts, summary); err != nil {
		return summary, err
	}
	log.Printf("%d likes, %d votes, %d bookmarks", summary.Likes, summary.Votes, summary.Bookmarks)
	return summary, nil
}

func (s *Seeder) seedUsers(ctx context.Context) ([]*models.User, error) {
	hash, err := identity.HashPassword(DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 1; i <= s.opts.NumUsers; i++ {
		u := s.factory.BuildUser(i, hash)
		if err := s.users.Create(ctx, u); err != nil {
			return users, fmt.Errorf("create user %s: %w", u.Username, err)
		}
		users = append(users, u)
	}
	return users, nil
}

// seedPrompts skews authorship so the leaderboard has a visible order: the first third
// of the users write most prompts.
func (s *Seeder) seedPrompts(ctx context.Context, users []*models.User) ([]*models.Prompt, error) {
	prolific := len(users)/3 + 1
	prompts := make([]*models.Prompt, 0, s.opts.NumPrompts)
	for i := 0; i < s.opts.NumPrompts; i++ {
		author := users[s.factory.Pick(len(users))]
		if s.factory.Chance(60) {
			author = users[s.factory.Pick(prolific)]
		}
		p := s.factory.BuildPrompt(author)
		if err := s.prompts.CreateWithAuthorCount(ctx, p); err != nil {
			return prompts, fmt.Errorf("create prompt for user %d: %w", author.ID, err)
		}
		prompts = append(prompts, p)
	}
	return prompts, nil
}

func (s *Seeder) seedEngagement(ctx context.Context, users []*models.User, prompts []*models.Prompt, summary *Summary) error {
	for _, p := range prompts {
		for _, u := range users {
			if s.factory.Chance(s.opts.LikeRate) {
				if _, err := s.interactions.ToggleLike(ctx, p.ID, u.ID); err != nil {
					return fmt.Errorf("like prompt %d: %w", p.ID, err)
				}
				summary.Likes++
			}
			if s.factory.Chance(s.opts.VoteRate) {
				value := models.VoteUp
				if s.factory.Chance(25) {
					value = models.VoteDown
				}
				if _, err := s.interactions.ApplyVote(ctx, p.ID, u.ID, value); err != nil {
					return fmt.Errorf("vote on prompt %d: %w", p.ID, err)
				}
				summary.Votes++
			}
			if s.factory.Chance(s.opts.BookmarkRate) {
				if _, err := s.interactions.ToggleBookmark(ctx, u.ID, p.ID); err != nil {
					return fmt.Errorf("bookmark prompt %d: %w", p.ID, err)
				}
				summary.Bookmarks++
			}
		}
	}
	return nil
}
