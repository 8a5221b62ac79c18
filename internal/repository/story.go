package repository

import (
	"context"
	"errors"

	"reso/internal/models"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoryRepository defines interface for story operations
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id uint) (*models.Story, error)
	// GetVisible loads a story with its comments for viewerID. Private stories
	// of other users are reported as not found.
	GetVisible(ctx context.Context, id, viewerID uint) (*models.Story, error)
	ListPublic(ctx context.Context, limit, offset int) ([]*models.Story, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Story, error)
	Update(ctx context.Context, story *models.Story) error
	// Delete removes the story with its comments and likes in one transaction.
	Delete(ctx context.Context, id uint) error
	SetEmbedding(ctx context.Context, id uint, embedding pgvector.Vector) error
	// NearestPublic orders public embedded stories by cosine distance to embedding.
	NearestPublic(ctx context.Context, embedding pgvector.Vector, excludeID uint, limit int) ([]*models.Story, error)
	RecentPublic(ctx context.Context, excludeID uint, limit int) ([]*models.Story, error)
}

type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new StoryRepository
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	return r.db.WithContext(ctx).Omit("Embedding").Create(story).Error
}

func (r *storyRepository) GetByID(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	if err := r.db.WithContext(ctx).Omit("embedding").First(&story, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Story", id)
		}
		return nil, err
	}
	return &story, nil
}

func (r *storyRepository) GetVisible(ctx context.Context, id, viewerID uint) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).
		Omit("embedding").
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at desc, id desc")
		}).
		Preload("Comments.User").
		First(&story, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Story", id)
		}
		return nil, err
	}
	if !story.IsPublic && story.UserID != viewerID {
		return nil, models.NewNotFoundError("Story", id)
	}
	story.Author = models.AuthorOf(story.User)

	for _, c := range story.Comments {
		c.Author = models.AuthorOf(c.User)
	}

	if viewerID != 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&models.StoryLike{}).
			Where("story_id = ? AND user_id = ?", id, viewerID).
			Count(&n).Error; err != nil {
			return nil, err
		}
		story.Liked = n > 0
	}
	return &story, nil
}

func (r *storyRepository) ListPublic(ctx context.Context, limit, offset int) ([]*models.Story, error) {
	var stories []*models.Story
	err := r.db.WithContext(ctx).
		Omit("embedding").
		Preload("User").
		Where("is_public = ?", true).
		Order("created_at desc, id desc").
		Limit(limit).Offset(offset).
		Find(&stories).Error
	fillAuthors(stories)
	return stories, err
}

func (r *storyRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Story, error) {
	var stories []*models.Story
	err := r.db.WithContext(ctx).
		Omit("embedding").
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Limit(limit).Offset(offset).
		Find(&stories).Error
	fillAuthors(stories)
	return stories, err
}

func (r *storyRepository) Update(ctx context.Context, story *models.Story) error {
	return r.db.WithContext(ctx).Model(story).
		Select("title", "content", "is_public", "emotion", "updated_at").
		Updates(story).Error
}

func (r *storyRepository) Delete(ctx context.Context, id uint) error {
	return inTx(ctx, r.db, "story_delete", func(tx *gorm.DB) error {
		var story models.Story
		if err := tx.Select("id", "user_id", "like_count").First(&story, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Story", id)
			}
			return err
		}

		// Per-author totals for the comments going away.
		var authors []struct {
			UserID uint
			N      int
			Likes  int
		}
		if err := tx.Model(&models.Comment{}).
			Select("user_id, COUNT(*) AS n, COALESCE(SUM(like_count), 0) AS likes").
			Where("story_id = ?", id).
			Group("user_id").
			Scan(&authors).Error; err != nil {
			return err
		}

		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("story_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("story_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("story_id = ?", id).Delete(&models.StoryLike{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Story{}, id).Error; err != nil {
			return err
		}

		for _, a := range authors {
			if err := tx.Model(&models.User{}).Where("id = ?", a.UserID).UpdateColumns(map[string]interface{}{
				"total_comments_sent":  decrementFloor("total_comments_sent", a.N),
				"total_likes_received": decrementFloor("total_likes_received", a.Likes),
			}).Error; err != nil {
				return err
			}
		}
		if story.LikeCount > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", story.UserID).
				UpdateColumn("total_likes_received", decrementFloor("total_likes_received", story.LikeCount)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *storyRepository) SetEmbedding(ctx context.Context, id uint, embedding pgvector.Vector) error {
	return r.db.WithContext(ctx).Model(&models.Story{}).
		Where("id = ?", id).
		UpdateColumn("embedding", embedding).Error
}

func (r *storyRepository) NearestPublic(ctx context.Context, embedding pgvector.Vector, excludeID uint, limit int) ([]*models.Story, error) {
	var stories []*models.Story
	err := r.db.WithContext(ctx).
		Omit("embedding").
		Where("is_public = ? AND embedding IS NOT NULL AND id <> ?", true, excludeID).
		Order(clause.OrderBy{Expression: clause.Expr{SQL: "embedding <=> ?", Vars: []interface{}{embedding}}}).
		Limit(limit).
		Find(&stories).Error
	return stories, err
}

func (r *storyRepository) RecentPublic(ctx context.Context, excludeID uint, limit int) ([]*models.Story, error) {
	var stories []*models.Story
	err := r.db.WithContext(ctx).
		Omit("embedding").
		Where("is_public = ? AND id <> ?", true, excludeID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&stories).Error
	return stories, err
}

func fillAuthors(stories []*models.Story) {
	for _, st := range stories {
		st.Author = models.AuthorOf(st.User)
	}
}
