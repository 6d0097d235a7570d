package service

import (
	"context"
	"testing"

	"promptly/internal/models"
	"promptly/internal/repository"
	"promptly/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEngagementWalkthrough creates a prompt, votes on it from another account and checks
// the author's bookmark shows on their own profile.
func TestEngagementWalkthrough(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	usersRepo := repository.NewUserRepository(db)
	promptsRepo := repository.NewPromptRepository(db)
	interactionsRepo := repository.NewInteractionRepository(db)
	views := NewViewComposer(interactionsRepo)

	prompts := NewPromptService(promptsRepo, nil, views, nil, 3)
	interactions := NewInteractionService(interactionsRepo, nil, 3)
	users := NewUserService(usersRepo, promptsRepo, interactionsRepo, views)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")

	in := validPromptInput(a.ID)
	in.Title = "Test"
	in.Tags = []string{"AI"}
	p1, err := prompts.CreatePrompt(ctx, in)
	require.NoError(t, err)

	author, err := usersRepo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, author.TotalPrompts)

	up, err := interactions.Upvote(ctx, p1.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, up.UpvoteCount)
	assert.Equal(t, 0, up.DownvoteCount)
	assert.Equal(t, models.VoteUp, up.Vote)

	down, err := interactions.Downvote(ctx, p1.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, down.UpvoteCount)
	assert.Equal(t, 1, down.DownvoteCount)
	assert.Equal(t, models.VoteDown, down.Vote)

	mark, err := interactions.Bookmark(ctx, p1.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, mark.IsBookmarked)

	profile, err := users.GetProfile(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, profile.Posts, 1)
	assert.Equal(t, p1.ID, profile.Posts[0].ID)
	assert.True(t, profile.Posts[0].IsBookmarked)
	assert.Equal(t, []uint{b.ID}, profile.Posts[0].DownvotedBy)
	assert.Empty(t, profile.Posts[0].UpvotedBy)

	// The bookmark is per viewer.
	view, err := prompts.GetPrompt(ctx, p1.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, view.IsBookmarked)

	_, err = users.GetProfile(ctx, 12345)
	assertAppCode(t, err, models.CodeNotFound)
}
