package models

import "time"

// StoryLike records that a user likes a story.
type StoryLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_story_likes_user_story" json:"userId"`
	StoryID   uint      `gorm:"not null;uniqueIndex:idx_story_likes_user_story;index" json:"storyId"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentLike records that a user likes a comment.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_likes_user_comment" json:"userId"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_likes_user_comment;index" json:"commentId"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeResult is the state after a toggle.
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}
