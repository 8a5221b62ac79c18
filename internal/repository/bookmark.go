package repository

import (
	"context"
	"errors"

	"reso/internal/models"

	"gorm.io/gorm"
)

// BookmarkRepository defines interface for advice bookmarks
type BookmarkRepository interface {
	Create(ctx context.Context, userID, adviceID uint) (*models.Bookmark, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Bookmark, error)
	Delete(ctx context.Context, userID, adviceID uint) error
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new BookmarkRepository
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Create(ctx context.Context, userID, adviceID uint) (*models.Bookmark, error) {
	var advice models.Advice
	if err := r.db.WithContext(ctx).First(&advice, adviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Advice", adviceID)
		}
		return nil, err
	}

	bookmark := &models.Bookmark{UserID: userID, AdviceID: adviceID}
	if err := r.db.WithContext(ctx).Create(bookmark).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, models.NewConflictError("Advice already bookmarked", nil)
		}
		return nil, err
	}
	bookmark.Advice = &advice
	return bookmark, nil
}

func (r *bookmarkRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Bookmark, error) {
	var bookmarks []*models.Bookmark
	err := r.db.WithContext(ctx).
		Preload("Advice").
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&bookmarks).Error
	return bookmarks, err
}

func (r *bookmarkRepository) Delete(ctx context.Context, userID, adviceID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND advice_id = ?", userID, adviceID).
		Delete(&models.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Bookmark", adviceID)
	}
	return nil
}
