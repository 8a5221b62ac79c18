package repository

import (
	"context"
	"errors"

	"reso/internal/models"
	"reso/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	// Create stores the comment and counts it for its author.
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByStory(ctx context.Context, storyID uint) ([]*models.Comment, error)
	// Adopt marks the comment as the story's best answer on behalf of userID.
	Adopt(ctx context.Context, userID, commentID uint) (*models.Comment, error)
	// Remove deletes the comment on behalf of its author or the story owner.
	Remove(ctx context.Context, userID, commentID uint) (*models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", comment.UserID).
			UpdateColumn("total_comments_sent", gorm.Expr("total_comments_sent + 1")).Error
	})
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, err
	}
	comment.Author = models.AuthorOf(comment.User)
	return &comment, nil
}

func (r *commentRepository) ListByStory(ctx context.Context, storyID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("story_id = ?", storyID).
		Order("created_at desc, id desc").
		Find(&comments).Error
	for _, c := range comments {
		c.Author = models.AuthorOf(c.User)
	}
	return comments, err
}

// loadWithOwner reads the comment together with the owner of its story.
func loadWithOwner(tx *gorm.DB, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := tx.Model(&models.Comment{}).
		Select("comments.*, stories.user_id AS story_owner_id").
		Joins("JOIN stories ON stories.id = comments.story_id").
		Where("comments.id = ?", commentID).
		Take(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Adopt(ctx context.Context, userID, commentID uint) (*models.Comment, error) {
	var adopted *models.Comment
	err := inTx(ctx, r.db, "comment_adopt", func(tx *gorm.DB) error {
		adopted = nil

		comment, err := loadWithOwner(tx, commentID)
		if err != nil {
			return err
		}
		if comment.StoryOwnerID != userID {
			return models.NewForbiddenError("Only the story owner can adopt a comment")
		}
		if comment.IsBest {
			adopted = comment
			return nil
		}

		var others int64
		if err := tx.Model(&models.Comment{}).
			Where("story_id = ? AND is_best = ? AND id <> ?", comment.StoryID, true, comment.ID).
			Count(&others).Error; err != nil {
			return err
		}
		if others > 0 {
			return models.NewConflictError("This story already has an adopted comment", nil)
		}

		res := tx.Model(&models.Comment{}).
			Where("id = ? AND is_best = ?", comment.ID, false).
			UpdateColumn("is_best", true)
		if res.Error != nil {
			if isUniqueViolation(res.Error) {
				return models.NewConflictError("This story already has an adopted comment", res.Error)
			}
			return res.Error
		}

		comment.IsBest = true
		adopted = comment
		return nil
	})

	observability.Adoptions.WithLabelValues(adoptResult(err)).Inc()
	if err != nil {
		return nil, err
	}
	return adopted, nil
}

func adoptResult(err error) string {
	switch models.ErrorCode(err) {
	case "":
		if err == nil {
			return "adopted"
		}
		return "error"
	case models.CodeConflict:
		return "conflict"
	case models.CodeForbidden:
		return "forbidden"
	case models.CodeNotFound:
		return "not_found"
	}
	return "error"
}

func (r *commentRepository) Remove(ctx context.Context, userID, commentID uint) (*models.Comment, error) {
	var removed *models.Comment
	err := inTx(ctx, r.db, "comment_remove", func(tx *gorm.DB) error {
		removed = nil

		comment, err := loadWithOwner(tx, commentID)
		if err != nil {
			return err
		}
		if comment.UserID != userID && comment.StoryOwnerID != userID {
			return models.NewForbiddenError("You can only delete your own comments or comments on your story")
		}

		if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Comment{}, comment.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Comment", commentID)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", comment.UserID).UpdateColumns(map[string]interface{}{
			"total_comments_sent":  decrementFloor("total_comments_sent", 1),
			"total_likes_received": decrementFloor("total_likes_received", comment.LikeCount),
		}).Error; err != nil {
			return err
		}

		removed = comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
