package repository

import (
	"context"
	"math/rand/v2"

	"reso/internal/cache"
	"reso/internal/models"

	"gorm.io/gorm"
)

// AdviceRepository reads the seeded advice catalogue.
type AdviceRepository interface {
	List(ctx context.Context) ([]*models.Advice, error)
	// Random picks one advice from the cached list.
	Random(ctx context.Context) (*models.Advice, error)
	// Seed inserts items and drops the cached list.
	Seed(ctx context.Context, items []*models.Advice) error
	Count(ctx context.Context) (int64, error)
}

type adviceRepository struct {
	db *gorm.DB
}

// NewAdviceRepository creates a new AdviceRepository
func NewAdviceRepository(db *gorm.DB) AdviceRepository {
	return &adviceRepository{db: db}
}

func (r *adviceRepository) List(ctx context.Context) ([]*models.Advice, error) {
	var items []*models.Advice
	err := cache.Aside(ctx, cache.AdviceListKey, &items, cache.AdviceTTL, func() error {
		return r.db.WithContext(ctx).Order("id asc").Find(&items).Error
	})
	return items, err
}

func (r *adviceRepository) Random(ctx context.Context) (*models.Advice, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &models.AppError{Code: models.CodeNotFound, Message: "No advice available"}
	}
	return items[rand.IntN(len(items))], nil
}

func (r *adviceRepository) Seed(ctx context.Context, items []*models.Advice) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(items, 100).Error; err != nil {
		return err
	}
	cache.InvalidateAdvice(ctx)
	return nil
}

func (r *adviceRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Advice{}).Count(&n).Error
	return n, err
}
