package repository

import (
	"context"
	"errors"

	"promptly/internal/cache"
	"promptly/internal/models"
	"promptly/internal/observability"

	"gorm.io/gorm"
)

// MaxLeaderboardSize caps TopByTotalPrompts.
const MaxLeaderboardSize = 100

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfilePicture(ctx context.Context, id uint, url string) error
	TopByTotalPrompts(ctx context.Context, limit int) ([]models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID serves the profile fields from the user cache. total_prompts is always read
// from the row, since a cached copy can predate a create that committed meanwhile.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	fetched := false
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		defer observability.TrackQuery("get_by_id", "users")()
		fetched = true
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if fetched {
		return &user, nil
	}

	total, err := r.totalPrompts(ctx, id)
	if err != nil {
		return nil, err
	}
	user.TotalPrompts = total
	return &user, nil
}

func (r *userRepository) totalPrompts(ctx context.Context, id uint) (int, error) {
	defer observability.TrackQuery("total_prompts", "users")()
	var totals []int
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Pluck("total_prompts", &totals).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	if len(totals) == 0 {
		cache.InvalidateUser(ctx, id)
		return 0, models.NewNotFoundError("User", id)
	}
	return totals[0], nil
}

// GetByEmail returns nil, nil when no user has the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByUsername returns nil, nil when no user has the username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	// New accounts always start with no authored prompts.
	user.TotalPrompts = 0
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) UpdateProfilePicture(ctx context.Context, id uint, url string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("profile_picture", url)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// TopByTotalPrompts reads the live counter, highest first. Ties keep account creation
// order so the ranking is stable.
func (r *userRepository) TopByTotalPrompts(ctx context.Context, limit int) ([]models.User, error) {
	defer observability.TrackQuery("top_by_total_prompts", "users")()
	var users []models.User
	err := r.db.WithContext(ctx).
		Order("total_prompts DESC").
		Order("id ASC").
		Limit(clampLimit(limit, 3, MaxLeaderboardSize)).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
