package repository

import (
	"context"

	"reso/internal/models"
	"reso/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository toggles likes and keeps the denormalized counters in step.
type LikeRepository interface {
	ToggleStoryLike(ctx context.Context, userID, storyID uint) (*models.LikeResult, error)
	ToggleCommentLike(ctx context.Context, userID, commentID uint) (*models.LikeResult, error)
}

// likeTarget describes one likeable table pair.
type likeTarget struct {
	label       string
	resource    string
	parentTable string
	likeTable   string
	fkColumn    string
	// parentQuery selects author_id, is_public and owner_id for one parent id.
	parentQuery string
	newLike     func(userID, parentID uint) interface{}
}

var (
	storyLikes = likeTarget{
		label:       "story",
		resource:    "Story",
		parentTable: "stories",
		likeTable:   "story_likes",
		fkColumn:    "story_id",
		parentQuery: `SELECT user_id AS author_id, is_public, user_id AS owner_id FROM stories WHERE id = ?`,
		newLike: func(userID, parentID uint) interface{} {
			return &models.StoryLike{UserID: userID, StoryID: parentID}
		},
	}
	commentLikes = likeTarget{
		label:       "comment",
		resource:    "Comment",
		parentTable: "comments",
		likeTable:   "comment_likes",
		fkColumn:    "comment_id",
		parentQuery: `SELECT comments.user_id AS author_id, stories.is_public, stories.user_id AS owner_id
			FROM comments JOIN stories ON stories.id = comments.story_id WHERE comments.id = ?`,
		newLike: func(userID, parentID uint) interface{} {
			return &models.CommentLike{UserID: userID, CommentID: parentID}
		},
	}
)

type likeParent struct {
	AuthorID uint
	IsPublic bool
	OwnerID  uint
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) ToggleStoryLike(ctx context.Context, userID, storyID uint) (*models.LikeResult, error) {
	return r.toggle(ctx, storyLikes, userID, storyID)
}

func (r *likeRepository) ToggleCommentLike(ctx context.Context, userID, commentID uint) (*models.LikeResult, error) {
	return r.toggle(ctx, commentLikes, userID, commentID)
}

// toggle flips the like of userID on parentID. A concurrent request that
// already made the same change leaves the counters untouched and still
// reports the requested state.
func (r *likeRepository) toggle(ctx context.Context, t likeTarget, userID, parentID uint) (*models.LikeResult, error) {
	var result models.LikeResult
	err := inTx(ctx, r.db, t.label+"_like_toggle", func(tx *gorm.DB) error {
		result = models.LikeResult{}

		var parent likeParent
		res := tx.Raw(t.parentQuery, parentID).Scan(&parent)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 || (!parent.IsPublic && parent.OwnerID != userID) {
			return models.NewNotFoundError(t.resource, parentID)
		}

		var existing int64
		if err := tx.Table(t.likeTable).
			Where("user_id = ? AND "+t.fkColumn+" = ?", userID, parentID).
			Count(&existing).Error; err != nil {
			return err
		}

		delta := 0
		if existing > 0 {
			res := tx.Exec("DELETE FROM "+t.likeTable+" WHERE user_id = ? AND "+t.fkColumn+" = ?", userID, parentID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				delta = -1
			}
		} else {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(t.newLike(userID, parentID))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				delta = 1
			}
			result.Liked = true
		}

		if delta != 0 {
			counter := gorm.Expr("like_count + 1")
			received := gorm.Expr("total_likes_received + 1")
			if delta < 0 {
				counter = decrementFloor("like_count", 1)
				received = decrementFloor("total_likes_received", 1)
			}
			if err := tx.Table(t.parentTable).Where("id = ?", parentID).
				UpdateColumn("like_count", counter).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.User{}).Where("id = ?", parent.AuthorID).
				UpdateColumn("total_likes_received", received).Error; err != nil {
				return err
			}
		}

		return tx.Raw("SELECT like_count FROM "+t.parentTable+" WHERE id = ?", parentID).
			Scan(&result.LikeCount).Error
	})

	if err != nil {
		observability.LikeToggles.WithLabelValues(t.label, "error").Inc()
		return nil, err
	}
	outcome := "unliked"
	if result.Liked {
		outcome = "liked"
	}
	observability.LikeToggles.WithLabelValues(t.label, outcome).Inc()
	return &result, nil
}
