package models

import "time"

// Prompt is a shared AI prompt with its recorded output.
//
// LikeCount, UpvoteCount and DownvoteCount are maintained counters kept equal to the
// size of their source relations. LikedBy, UpvotedBy and DownvotedBy are filled on read
// from those relations and are never written through this struct.
type Prompt struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	User          User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title         string    `gorm:"size:300;not null" json:"title"`
	Input         string    `gorm:"type:text;not null" json:"input"`
	Tags          []string  `gorm:"serializer:json;type:text;not null" json:"tags"`
	AIModel       string    `gorm:"column:ai_model;size:100;not null" json:"ai_model"`
	Output        string    `gorm:"type:text;not null" json:"output"`
	ImageURL      string    `json:"image_url,omitempty"`
	LikeCount     int       `gorm:"not null;default:0" json:"like_count"`
	UpvoteCount   int       `gorm:"not null;default:0" json:"upvote_count"`
	DownvoteCount int       `gorm:"not null;default:0" json:"downvote_count"`
	CreatedAt     time.Time `gorm:"autoCreateTime;<-:create" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Author      *Author `gorm:"-" json:"user,omitempty"`
	LikedBy     []uint  `gorm:"-" json:"liked_by"`
	UpvotedBy   []uint  `gorm:"-" json:"upvoted_by"`
	DownvotedBy []uint  `gorm:"-" json:"downvoted_by"`
}

// HasLike reports whether userID is in the prompt's like set.
func (p *Prompt) HasLike(userID uint) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// PromptView is a prompt annotated for one viewer.
type PromptView struct {
	Prompt
	IsLiked      bool `json:"is_liked"`
	IsBookmarked bool `json:"is_bookmarked"`
}
