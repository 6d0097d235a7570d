package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewNotFoundError("Prompt", 1), http.StatusNotFound},
		{NewValidationError("bad"), http.StatusBadRequest},
		{NewUnauthorizedError("no"), http.StatusUnauthorized},
		{NewForbiddenError("no"), http.StatusForbidden},
		{NewExternalServiceError("asset host", errors.New("timeout")), http.StatusBadGateway},
		{NewConflictError("Prompt", errors.New("deadlock")), http.StatusServiceUnavailable},
		{NewInternalError(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NewNotFoundError("User", 7)), http.StatusNotFound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NewNotFoundError("Prompt", 42)
	assert.Equal(t, "Prompt with ID 42 not found", err.Error())
	assert.True(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(err, CodeValidation))
}

func TestVoteValueJSON(t *testing.T) {
	out, err := json.Marshal(VoteResult{PromptID: 1, UpvoteCount: 1, Vote: VoteUp})
	require.NoError(t, err)
	assert.JSONEq(t, `{"prompt_id":1,"upvote_count":1,"downvote_count":0,"vote":"up"}`, string(out))

	var v VoteValue
	require.NoError(t, json.Unmarshal([]byte(`"down"`), &v))
	assert.Equal(t, VoteDown, v)
	assert.Error(t, json.Unmarshal([]byte(`"sideways"`), &v))
}

func TestPromptViewFlattensPrompt(t *testing.T) {
	view := PromptView{
		Prompt:       Prompt{ID: 3, Title: "Haiku", Tags: []string{"poetry"}, LikedBy: []uint{9}},
		IsLiked:      true,
		IsBookmarked: false,
	}
	out, err := json.Marshal(view)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, float64(3), decoded["id"])
	assert.Equal(t, true, decoded["is_liked"])
	assert.Equal(t, false, decoded["is_bookmarked"])
	assert.Equal(t, []any{float64(9)}, decoded["liked_by"])
}

func TestUserPasswordNeverSerialized(t *testing.T) {
	out, err := json.Marshal(User{ID: 1, Username: "ada", Password: "hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hash")
}

func TestVoteTransitions(t *testing.T) {
	tests := []struct {
		name        string
		held, press VoteValue
		want        VoteValue
		upD, downD  int
	}{
		{"none to up", VoteNone, VoteUp, VoteUp, 1, 0},
		{"up to none", VoteUp, VoteUp, VoteNone, -1, 0},
		{"down to up", VoteDown, VoteUp, VoteUp, 1, -1},
		{"none to down", VoteNone, VoteDown, VoteDown, 0, 1},
		{"down to none", VoteDown, VoteDown, VoteNone, 0, -1},
		{"up to down", VoteUp, VoteDown, VoteDown, -1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := tt.held.Apply(tt.press)
			assert.Equal(t, tt.want, next)
			up, down := tt.held.CountDeltas(next)
			assert.Equal(t, tt.upD, up)
			assert.Equal(t, tt.downD, down)
		})
	}
}
