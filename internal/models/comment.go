package models

import "time"

// Comment is a reply to a story. At most one comment per story has IsBest set.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StoryID   uint      `gorm:"not null;index" json:"storyId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsBest    bool      `gorm:"not null;default:false" json:"isBest"`
	LikeCount int       `gorm:"not null;default:0" json:"likeCount"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	// Author is the public projection of User, filled for responses.
	Author *Author `gorm:"-" json:"author,omitempty"`
	// StoryOwnerID is read with the adoption lookup and never persisted.
	StoryOwnerID uint `gorm:"->;-:migration" json:"-"`
}
