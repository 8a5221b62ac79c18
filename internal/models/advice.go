package models

import "time"

// Advice is seeded read-only content users can bookmark.
type Advice struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	Content string  `gorm:"type:text;not null" json:"content"`
	Author  *string `json:"author,omitempty"`

	Bookmarked bool `gorm:"-" json:"bookmarked"`
}

// Bookmark links a user to a saved advice.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmarks_user_advice" json:"userId"`
	AdviceID  uint      `gorm:"not null;uniqueIndex:idx_bookmarks_user_advice" json:"adviceId"`
	Advice    *Advice   `gorm:"foreignKey:AdviceID" json:"advice,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}
