package repository

import (
	"context"
	"errors"

	"promptly/internal/cache"
	"promptly/internal/models"
	"promptly/internal/observability"

	"gorm.io/gorm"
)

// PromptRepository defines persistence operations for prompts. Every read returns
// prompts with author, like set and vote sets filled in.
type PromptRepository interface {
	// CreateWithAuthorCount inserts the prompt and increments its author's total_prompts
	// in one transaction. A missing author fails with NotFound and nothing is written.
	CreateWithAuthorCount(ctx context.Context, prompt *models.Prompt) error
	GetByID(ctx context.Context, id uint) (*models.Prompt, error)
	List(ctx context.Context, limit, offset int) ([]models.Prompt, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Prompt, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Prompt, error)
	UpdateOutput(ctx context.Context, id uint, output string) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type promptRepository struct {
	db *gorm.DB
}

// NewPromptRepository creates a new prompt repository
func NewPromptRepository(db *gorm.DB) PromptRepository {
	return &promptRepository{db: db}
}

func (r *promptRepository) CreateWithAuthorCount(ctx context.Context, prompt *models.Prompt) error {
	defer observability.TrackQuery("create", "prompts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", prompt.UserID).
			UpdateColumn("total_prompts", gorm.Expr("total_prompts + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User", prompt.UserID)
		}

		prompt.LikeCount, prompt.UpvoteCount, prompt.DownvoteCount = 0, 0, 0
		return tx.Omit("User").Create(prompt).Error
	})
	if err != nil {
		return wrapDBError(err)
	}

	cache.InvalidateUser(ctx, prompt.UserID)
	prompt.LikedBy, prompt.UpvotedBy, prompt.DownvotedBy = []uint{}, []uint{}, []uint{}
	return nil
}

func (r *promptRepository) GetByID(ctx context.Context, id uint) (*models.Prompt, error) {
	var prompt models.Prompt
	db := r.db.WithContext(ctx)
	if err := db.Preload("User").First(&prompt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Prompt", id)
		}
		return nil, models.NewInternalError(err)
	}

	prompts := []models.Prompt{prompt}
	if err := hydrate(db, prompts); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &prompts[0], nil
}

func (r *promptRepository) List(ctx context.Context, limit, offset int) ([]models.Prompt, error) {
	defer observability.TrackQuery("list", "prompts")()
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Limit(limit).Offset(offset)
	})
}

func (r *promptRepository) ListByUser(ctx context.Context, userID uint) ([]models.Prompt, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

func (r *promptRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Prompt, error) {
	if len(ids) == 0 {
		return []models.Prompt{}, nil
	}
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("id IN ?", ids)
	})
}

func (r *promptRepository) find(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]models.Prompt, error) {
	db := r.db.WithContext(ctx)
	prompts := []models.Prompt{}
	err := scope(db.Model(&models.Prompt{})).
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Find(&prompts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := hydrate(db, prompts); err != nil {
		return nil, models.NewInternalError(err)
	}
	return prompts, nil
}

func (r *promptRepository) UpdateOutput(ctx context.Context, id uint, output string) error {
	res := r.db.WithContext(ctx).Model(&models.Prompt{}).Where("id = ?", id).Update("output", output)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Prompt", id)
	}
	return nil
}

func (r *promptRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Prompt{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

type engagementRow struct {
	PromptID uint
	UserID   uint
	Value    models.VoteValue
}

// hydrate fills author, like set and vote sets with one query per relation.
func hydrate(db *gorm.DB, prompts []models.Prompt) error {
	if len(prompts) == 0 {
		return nil
	}

	ids := make([]uint, len(prompts))
	index := make(map[uint]*models.Prompt, len(prompts))
	for i := range prompts {
		p := &prompts[i]
		ids[i] = p.ID
		index[p.ID] = p
		p.LikedBy, p.UpvotedBy, p.DownvotedBy = []uint{}, []uint{}, []uint{}
		if p.User.ID != 0 {
			author := models.AuthorOf(p.User)
			p.Author = &author
		}
	}

	var likes []engagementRow
	if err := db.Model(&models.Like{}).
		Select("prompt_id", "user_id").
		Where("prompt_id IN ?", ids).
		Order("id ASC").
		Scan(&likes).Error; err != nil {
		return err
	}
	for _, l := range likes {
		p := index[l.PromptID]
		p.LikedBy = append(p.LikedBy, l.UserID)
	}

	var votes []engagementRow
	if err := db.Model(&models.Vote{}).
		Select("prompt_id", "user_id", "value").
		Where("prompt_id IN ?", ids).
		Order("id ASC").
		Scan(&votes).Error; err != nil {
		return err
	}
	for _, v := range votes {
		p := index[v.PromptID]
		switch v.Value {
		case models.VoteUp:
			p.UpvotedBy = append(p.UpvotedBy, v.UserID)
		case models.VoteDown:
			p.DownvotedBy = append(p.DownvotedBy, v.UserID)
		}
	}
	return nil
}
