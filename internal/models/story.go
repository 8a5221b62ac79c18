package models

import (
	"math/rand/v2"
	"time"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions is the width of the story embedding column.
const EmbeddingDimensions = 384

// Emotion tags the mood of a story.
type Emotion string

const (
	EmotionHappy   Emotion = "HAPPY"
	EmotionSad     Emotion = "SAD"
	EmotionAngry   Emotion = "ANGRY"
	EmotionAnxious Emotion = "ANXIOUS"
	EmotionCalm    Emotion = "CALM"
	EmotionTired   Emotion = "TIRED"
)

// Emotions lists every accepted emotion.
var Emotions = []Emotion{EmotionHappy, EmotionSad, EmotionAngry, EmotionAnxious, EmotionCalm, EmotionTired}

// Valid reports whether e is a known emotion.
func (e Emotion) Valid() bool {
	for _, known := range Emotions {
		if e == known {
			return true
		}
	}
	return false
}

// RandomEmotion picks an emotion for stories submitted without one.
func RandomEmotion() Emotion {
	return Emotions[rand.IntN(len(Emotions))]
}

// Story is an anonymous submission.
type Story struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"userId"`
	User      *User            `gorm:"foreignKey:UserID" json:"-"`
	Author    *Author          `gorm:"-" json:"author,omitempty"`
	Title     string           `gorm:"size:100;not null" json:"title"`
	Content   string           `gorm:"type:text;not null" json:"content"`
	IsPublic  bool             `gorm:"not null;default:false;index" json:"isPublic"`
	Emotion   Emotion          `gorm:"size:16;not null" json:"emotion"`
	LikeCount int              `gorm:"not null;default:0" json:"likeCount"`
	Embedding *pgvector.Vector `gorm:"type:vector(384)" json:"-"`
	CreatedAt time.Time        `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`

	Comments []*Comment `gorm:"foreignKey:StoryID" json:"comments,omitempty"`
	// Liked indicates whether the requesting user liked this story (computed)
	Liked bool `gorm:"-" json:"liked"`
}
