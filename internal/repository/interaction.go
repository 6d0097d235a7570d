package repository

import (
	"context"
	"errors"

	"promptly/internal/models"
	"promptly/internal/observability"

	"gorm.io/gorm"
)

// InteractionRepository applies engagement toggles. Each method is one transaction that
// locks the owning record first, so its relation rows and counters change together.
type InteractionRepository interface {
	ToggleLike(ctx context.Context, promptID, userID uint) (*models.LikeResult, error)
	ApplyVote(ctx context.Context, promptID, userID uint, requested models.VoteValue) (*models.VoteResult, error)
	ToggleBookmark(ctx context.Context, userID, promptID uint) (*models.BookmarkResult, error)
	BookmarkedPromptIDs(ctx context.Context, userID uint) ([]uint, error)
	FindCounterDrift(ctx context.Context) ([]CounterDrift, error)
}

// CounterDrift is a maintained counter whose value differs from its source relation.
type CounterDrift struct {
	Table    string `json:"table"`
	ID       uint   `json:"id"`
	Column   string `json:"column"`
	Stored   int64  `json:"stored"`
	Expected int64  `json:"expected"`
}

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository returns the GORM-backed interaction repository.
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) ToggleLike(ctx context.Context, promptID, userID uint) (*models.LikeResult, error) {
	defer observability.TrackQuery("toggle_like", "likes")()

	result := &models.LikeResult{PromptID: promptID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPrompt(tx, promptID); err != nil {
			return err
		}

		del := tx.Where("prompt_id = ? AND user_id = ?", promptID, userID).Delete(&models.Like{})
		if del.Error != nil {
			return del.Error
		}

		delta := -1
		if del.RowsAffected == 0 {
			if err := tx.Create(&models.Like{PromptID: promptID, UserID: userID}).Error; err != nil {
				return err
			}
			delta = 1
		}
		result.IsLiked = delta > 0

		if err := bumpCounter(tx, promptID, "like_count", delta); err != nil {
			return err
		}

		likedBy := []uint{}
		if err := tx.Model(&models.Like{}).
			Where("prompt_id = ?", promptID).
			Order("id ASC").
			Pluck("user_id", &likedBy).Error; err != nil {
			return err
		}
		result.LikedBy = likedBy

		var p models.Prompt
		if err := tx.Select("like_count").First(&p, promptID).Error; err != nil {
			return err
		}
		result.LikeCount = p.LikeCount
		return nil
	})
	if err != nil {
		return nil, wrapDBError(err)
	}
	return result, nil
}

func (r *interactionRepository) ApplyVote(ctx context.Context, promptID, userID uint, requested models.VoteValue) (*models.VoteResult, error) {
	if requested != models.VoteUp && requested != models.VoteDown {
		return nil, models.NewValidationError("vote must be up or down")
	}
	defer observability.TrackQuery("apply_vote", "prompt_votes")()

	result := &models.VoteResult{PromptID: promptID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPrompt(tx, promptID); err != nil {
			return err
		}

		var existing models.Vote
		held := models.VoteNone
		err := tx.Where("prompt_id = ? AND user_id = ?", promptID, userID).First(&existing).Error
		switch {
		case err == nil:
			held = existing.Value
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		next := held.Apply(requested)
		switch {
		case next == models.VoteNone:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		case held == models.VoteNone:
			if err := tx.Create(&models.Vote{PromptID: promptID, UserID: userID, Value: next}).Error; err != nil {
				return err
			}
		default:
			if err := tx.Model(&existing).Update("value", next).Error; err != nil {
				return err
			}
		}

		upDelta, downDelta := held.CountDeltas(next)
		if err := bumpCounter(tx, promptID, "upvote_count", upDelta); err != nil {
			return err
		}
		if err := bumpCounter(tx, promptID, "downvote_count", downDelta); err != nil {
			return err
		}

		var p models.Prompt
		if err := tx.Select("upvote_count", "downvote_count").First(&p, promptID).Error; err != nil {
			return err
		}
		result.UpvoteCount = p.UpvoteCount
		result.DownvoteCount = p.DownvoteCount
		result.Vote = next
		return nil
	})
	if err != nil {
		return nil, wrapDBError(err)
	}
	return result, nil
}

func (r *interactionRepository) ToggleBookmark(ctx context.Context, userID, promptID uint) (*models.BookmarkResult, error) {
	defer observability.TrackQuery("toggle_bookmark", "bookmarks")()

	result := &models.BookmarkResult{PromptID: promptID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The bookmark set belongs to the user, so the user row is the lock.
		if err := lockUser(tx, userID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.Prompt{}).Where("id = ?", promptID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return models.NewNotFoundError("Prompt", promptID)
		}

		del := tx.Where("user_id = ? AND prompt_id = ?", userID, promptID).Delete(&models.Bookmark{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected > 0 {
			result.IsBookmarked = false
			return nil
		}
		if err := tx.Create(&models.Bookmark{UserID: userID, PromptID: promptID}).Error; err != nil {
			return err
		}
		result.IsBookmarked = true
		return nil
	})
	if err != nil {
		return nil, wrapDBError(err)
	}
	return result, nil
}

// BookmarkedPromptIDs returns the user's bookmark set, oldest first. A user without
// bookmarks, or without a record at all, yields an empty set.
func (r *interactionRepository) BookmarkedPromptIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	if err := r.db.WithContext(ctx).Model(&models.Bookmark{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("prompt_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// FindCounterDrift compares every maintained counter against its relation.
func (r *interactionRepository) FindCounterDrift(ctx context.Context) ([]CounterDrift, error) {
	db := r.db.WithContext(ctx)
	checks := []struct {
		table, column, query string
	}{
		{"users", "total_prompts", `SELECT u.id AS id, u.total_prompts AS stored, COUNT(p.id) AS expected
			FROM users u LEFT JOIN prompts p ON p.user_id = u.id
			GROUP BY u.id, u.total_prompts HAVING u.total_prompts <> COUNT(p.id)`},
		{"prompts", "like_count", `SELECT p.id AS id, p.like_count AS stored, COUNT(l.id) AS expected
			FROM prompts p LEFT JOIN likes l ON l.prompt_id = p.id
			GROUP BY p.id, p.like_count HAVING p.like_count <> COUNT(l.id)`},
		{"prompts", "upvote_count", `SELECT p.id AS id, p.upvote_count AS stored, COUNT(v.id) AS expected
			FROM prompts p LEFT JOIN prompt_votes v ON v.prompt_id = p.id AND v.value = 1
			GROUP BY p.id, p.upvote_count HAVING p.upvote_count <> COUNT(v.id)`},
		{"prompts", "downvote_count", `SELECT p.id AS id, p.downvote_count AS stored, COUNT(v.id) AS expected
			FROM prompts p LEFT JOIN prompt_votes v ON v.prompt_id = p.id AND v.value = -1
			GROUP BY p.id, p.downvote_count HAVING p.downvote_count <> COUNT(v.id)`},
	}

	drifts := []CounterDrift{}
	for _, c := range checks {
		var rows []CounterDrift
		if err := db.Raw(c.query).Scan(&rows).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
		for _, row := range rows {
			row.Table, row.Column = c.table, c.column
			drifts = append(drifts, row)
		}
	}
	return drifts, nil
}

func bumpCounter(tx *gorm.DB, promptID uint, column string, delta int) error {
	if delta == 0 {
		return nil
	}
	return tx.Model(&models.Prompt{}).
		Where("id = ?", promptID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}
