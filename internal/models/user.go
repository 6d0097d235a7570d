// Package models contains the persisted records and response shapes of the application.
package models

import "time"

// User is a registered account. TotalPrompts is a maintained counter and always equals
// the number of prompts the user has authored.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	TotalPrompts   int       `gorm:"not null;default:0" json:"total_prompts"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Author is the subset of a user embedded in prompt listings.
type Author struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	TotalPrompts   int    `json:"total_prompts"`
}

// AuthorOf projects a user onto the listing shape.
func AuthorOf(u User) Author {
	return Author{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
		TotalPrompts:   u.TotalPrompts,
	}
}
