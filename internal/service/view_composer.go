package service

import (
	"context"

	"promptly/internal/models"
)

// BookmarkReader loads a user's bookmark set.
type BookmarkReader interface {
	BookmarkedPromptIDs(ctx context.Context, userID uint) ([]uint, error)
}

// ViewComposer annotates prompts for a viewer. It never writes.
type ViewComposer struct {
	bookmarks BookmarkReader
}

func NewViewComposer(bookmarks BookmarkReader) *ViewComposer {
	return &ViewComposer{bookmarks: bookmarks}
}

// Annotate loads the viewer's bookmarks once and flags each prompt. A zero viewer, or one
// without bookmarks, sees every prompt unbookmarked.
func (v *ViewComposer) Annotate(ctx context.Context, prompts []models.Prompt, viewerID uint) ([]models.PromptView, error) {
	var ids []uint
	if viewerID != 0 && len(prompts) > 0 {
		var err error
		ids, err = v.bookmarks.BookmarkedPromptIDs(ctx, viewerID)
		if err != nil {
			return nil, err
		}
	}
	return annotate(prompts, viewerID, ids), nil
}

// AnnotateOne is Annotate for a single prompt.
func (v *ViewComposer) AnnotateOne(ctx context.Context, prompt models.Prompt, viewerID uint) (*models.PromptView, error) {
	views, err := v.Annotate(ctx, []models.Prompt{prompt}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func annotate(prompts []models.Prompt, viewerID uint, bookmarked []uint) []models.PromptView {
	set := make(map[uint]struct{}, len(bookmarked))
	for _, id := range bookmarked {
		set[id] = struct{}{}
	}

	views := make([]models.PromptView, len(prompts))
	for i := range prompts {
		_, isBookmarked := set[prompts[i].ID]
		views[i] = models.PromptView{
			Prompt:       prompts[i],
			IsLiked:      viewerID != 0 && prompts[i].HasLike(viewerID),
			IsBookmarked: isBookmarked,
		}
	}
	return views
}
