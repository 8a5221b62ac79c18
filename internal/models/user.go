// Package models contains data structures for the application's domain models.
package models

import "time"

// User is an account created on first Google login.
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Email              string    `gorm:"uniqueIndex;not null" json:"email"`
	Nickname           string    `gorm:"size:30;not null" json:"nickname"`
	Name               *string   `json:"name,omitempty"`
	Image              *string   `json:"image,omitempty"`
	TotalLikesReceived int       `gorm:"not null;default:0" json:"totalLikesReceived"`
	TotalCommentsSent  int       `gorm:"not null;default:0" json:"totalCommentsSent"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Author is the public projection of a User attached to stories and comments.
type Author struct {
	ID       uint   `json:"id"`
	Nickname string `json:"nickname"`
}

// AuthorOf projects a user for public output.
func AuthorOf(u *User) *Author {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &Author{ID: u.ID, Nickname: u.Nickname}
}
