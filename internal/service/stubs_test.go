package service

import (
	"context"
	"testing"

	"promptly/internal/models"
	"promptly/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// interactionRepoStub is a stub for repository.InteractionRepository.
type interactionRepoStub struct {
	toggleLikeFn     func(context.Context, uint, uint) (*models.LikeResult, error)
	applyVoteFn      func(context.Context, uint, uint, models.VoteValue) (*models.VoteResult, error)
	toggleBookmarkFn func(context.Context, uint, uint) (*models.BookmarkResult, error)
	bookmarkedIDsFn  func(context.Context, uint) ([]uint, error)
}

func (s *interactionRepoStub) ToggleLike(ctx context.Context, promptID, userID uint) (*models.LikeResult, error) {
	return s.toggleLikeFn(ctx, promptID, userID)
}
func (s *interactionRepoStub) ApplyVote(ctx context.Context, promptID, userID uint, v models.VoteValue) (*models.VoteResult, error) {
	return s.applyVoteFn(ctx, promptID, userID, v)
}
func (s *interactionRepoStub) ToggleBookmark(ctx context.Context, userID, promptID uint) (*models.BookmarkResult, error) {
	return s.toggleBookmarkFn(ctx, userID, promptID)
}
func (s *interactionRepoStub) BookmarkedPromptIDs(ctx context.Context, userID uint) ([]uint, error) {
	if s.bookmarkedIDsFn == nil {
		return []uint{}, nil
	}
	return s.bookmarkedIDsFn(ctx, userID)
}
func (s *interactionRepoStub) FindCounterDrift(context.Context) ([]repository.CounterDrift, error) {
	return nil, nil
}

// promptRepoStub is a stub for repository.PromptRepository.
type promptRepoStub struct {
	createFn       func(context.Context, *models.Prompt) error
	getByIDFn      func(context.Context, uint) (*models.Prompt, error)
	listFn         func(context.Context, int, int) ([]models.Prompt, error)
	listByUserFn   func(context.Context, uint) ([]models.Prompt, error)
	listByIDsFn    func(context.Context, []uint) ([]models.Prompt, error)
	updateOutputFn func(context.Context, uint, string) error
}

func (s *promptRepoStub) CreateWithAuthorCount(ctx context.Context, p *models.Prompt) error {
	return s.createFn(ctx, p)
}
func (s *promptRepoStub) GetByID(ctx context.Context, id uint) (*models.Prompt, error) {
	return s.getByIDFn(ctx, id)
}
func (s *promptRepoStub) List(ctx context.Context, limit, offset int) ([]models.Prompt, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *promptRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Prompt, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *promptRepoStub) ListByIDs(ctx context.Context, ids []uint) ([]models.Prompt, error) {
	return s.listByIDsFn(ctx, ids)
}
func (s *promptRepoStub) UpdateOutput(ctx context.Context, id uint, output string) error {
	return s.updateOutputFn(ctx, id, output)
}
func (s *promptRepoStub) CountByUser(context.Context, uint) (int64, error) { return 0, nil }

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	topFn        func(context.Context, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(context.Context, string) (*models.User, error) {
	return nil, nil
}
func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) UpdateProfilePicture(context.Context, uint, string) error { return nil }
func (s *userRepoStub) TopByTotalPrompts(ctx context.Context, limit int) ([]models.User, error) {
	return s.topFn(ctx, limit)
}
func (s *userRepoStub) List(context.Context, int, int) ([]models.User, error) { return nil, nil }

// assetStub is a stub for AssetUploader.
type assetStub struct {
	uploadFn func(context.Context, string, uint, AssetUpload) (*StoredAsset, error)
	deleted  []string
}

func (s *assetStub) Upload(ctx context.Context, folder string, userID uint, in AssetUpload) (*StoredAsset, error) {
	return s.uploadFn(ctx, folder, userID, in)
}
func (s *assetStub) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func assertAppCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.IsCode(err, code), "expected %s, got %v", code, err)
}
