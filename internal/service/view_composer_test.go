package service

import (
	"context"
	"errors"
	"testing"

	"promptly/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotate(t *testing.T) {
	t.Parallel()
	prompts := []models.Prompt{
		{ID: 1, LikedBy: []uint{7, 8}},
		{ID: 2, LikedBy: []uint{}},
		{ID: 3, LikedBy: []uint{7}},
	}

	views := annotate(prompts, 7, []uint{2, 3})
	require.Len(t, views, 3)
	assert.True(t, views[0].IsLiked)
	assert.False(t, views[0].IsBookmarked)
	assert.False(t, views[1].IsLiked)
	assert.True(t, views[1].IsBookmarked)
	assert.True(t, views[2].IsLiked)
	assert.True(t, views[2].IsBookmarked)

	assert.Equal(t, []uint{7, 8}, prompts[0].LikedBy, "input is not mutated")
}

func TestViewComposer_FetchesBookmarksOnce(t *testing.T) {
	t.Parallel()
	calls := 0
	repo := &interactionRepoStub{
		bookmarkedIDsFn: func(_ context.Context, userID uint) ([]uint, error) {
			calls++
			assert.Equal(t, uint(7), userID)
			return []uint{1}, nil
		},
	}
	v := NewViewComposer(repo)

	views, err := v.Annotate(context.Background(), []models.Prompt{{ID: 1}, {ID: 2}, {ID: 3}}, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, views[0].IsBookmarked)
	assert.False(t, views[1].IsBookmarked)
}

func TestViewComposer_AnonymousViewer(t *testing.T) {
	t.Parallel()
	repo := &interactionRepoStub{
		bookmarkedIDsFn: func(context.Context, uint) ([]uint, error) {
			t.Fatal("no lookup for an anonymous viewer")
			return nil, nil
		},
	}
	v := NewViewComposer(repo)

	views, err := v.Annotate(context.Background(), []models.Prompt{{ID: 1, LikedBy: []uint{0}}}, 0)
	require.NoError(t, err)
	assert.False(t, views[0].IsLiked)
	assert.False(t, views[0].IsBookmarked)
}

func TestViewComposer_PropagatesStoreErrors(t *testing.T) {
	t.Parallel()
	boom := errors.New("db down")
	v := NewViewComposer(&interactionRepoStub{
		bookmarkedIDsFn: func(context.Context, uint) ([]uint, error) { return nil, boom },
	})

	_, err := v.Annotate(context.Background(), []models.Prompt{{ID: 1}}, 3)
	assert.ErrorIs(t, err, boom)
}
