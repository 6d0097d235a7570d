package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Like is one user's like on one prompt.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_prompt" json:"user_id"`
	PromptID  uint      `gorm:"not null;uniqueIndex:idx_likes_user_prompt;index" json:"prompt_id"`
	CreatedAt time.Time `json:"created_at"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Prompt Prompt `gorm:"foreignKey:PromptID;constraint:OnDelete:CASCADE" json:"-"`
}

// VoteValue is a user's vote on a prompt. The zero value means no vote and is never stored.
type VoteValue int

const (
	VoteNone VoteValue = 0
	VoteUp   VoteValue = 1
	VoteDown VoteValue = -1
)

func (v VoteValue) String() string {
	switch v {
	case VoteUp:
		return "up"
	case VoteDown:
		return "down"
	default:
		return "none"
	}
}

// Apply returns the vote held after the user presses requested while holding v:
// pressing the held direction clears it, anything else switches to requested.
func (v VoteValue) Apply(requested VoteValue) VoteValue {
	if v == requested {
		return VoteNone
	}
	return requested
}

// CountDeltas is the change to (upvote_count, downvote_count) when moving from v to next.
func (v VoteValue) CountDeltas(next VoteValue) (up, down int) {
	return indicator(next, VoteUp) - indicator(v, VoteUp), indicator(next, VoteDown) - indicator(v, VoteDown)
}

func indicator(v, want VoteValue) int {
	if v == want {
		return 1
	}
	return 0
}

// MarshalJSON encodes the vote as "up", "down" or "none".
func (v VoteValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON accepts the string form produced by MarshalJSON.
func (v *VoteValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "up":
		*v = VoteUp
	case "down":
		*v = VoteDown
	case "none", "":
		*v = VoteNone
	default:
		return fmt.Errorf("unknown vote %q", s)
	}
	return nil
}

// Vote is the single vote a user holds on a prompt. A user is either an upvoter, a
// downvoter or absent, so the up and down sets can never overlap.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_votes_user_prompt" json:"user_id"`
	PromptID  uint      `gorm:"not null;uniqueIndex:idx_votes_user_prompt;index" json:"prompt_id"`
	Value     VoteValue `gorm:"type:smallint;not null;check:chk_vote_value,value IN (-1, 1)" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Prompt Prompt `gorm:"foreignKey:PromptID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps votes scoped to prompts.
func (Vote) TableName() string { return "prompt_votes" }

// Bookmark is a prompt saved by a user.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmarks_user_prompt" json:"user_id"`
	PromptID  uint      `gorm:"not null;uniqueIndex:idx_bookmarks_user_prompt;index" json:"prompt_id"`
	CreatedAt time.Time `json:"created_at"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Prompt Prompt `gorm:"foreignKey:PromptID;constraint:OnDelete:CASCADE" json:"-"`
}

// LikeResult is the engagement summary returned by a like toggle.
type LikeResult struct {
	PromptID  uint   `json:"prompt_id"`
	LikedBy   []uint `json:"liked_by"`
	LikeCount int    `json:"like_count"`
	IsLiked   bool   `json:"is_liked"`
}

// VoteResult is the engagement summary returned by a vote change.
type VoteResult struct {
	PromptID      uint      `json:"prompt_id"`
	UpvoteCount   int       `json:"upvote_count"`
	DownvoteCount int       `json:"downvote_count"`
	Vote          VoteValue `json:"vote"`
}

// BookmarkResult reports the bookmark state after a toggle.
type BookmarkResult struct {
	PromptID     uint `json:"prompt_id"`
	IsBookmarked bool `json:"is_bookmarked"`
}

// Profile is a user together with the prompts they authored.
type Profile struct {
	User  User         `json:"user"`
	Posts []PromptView `json:"posts"`
}
