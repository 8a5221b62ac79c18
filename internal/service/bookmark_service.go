package service

import (
	"context"

	"reso/internal/models"
	"reso/internal/repository"
)

type BookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	adviceRepo   repository.AdviceRepository
}

func NewBookmarkService(bookmarkRepo repository.BookmarkRepository, adviceRepo repository.AdviceRepository) *BookmarkService {
	return &BookmarkService{bookmarkRepo: bookmarkRepo, adviceRepo: adviceRepo}
}

// ListAdvice returns every advice. A known viewer gets their bookmarks flagged.
func (s *BookmarkService) ListAdvice(ctx context.Context, viewerID uint) ([]*models.Advice, error) {
	items, err := s.adviceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.markBookmarked(ctx, viewerID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// RandomAdvice returns one advice, flagged for a known viewer.
func (s *BookmarkService) RandomAdvice(ctx context.Context, viewerID uint) (*models.Advice, error) {
	item, err := s.adviceRepo.Random(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.markBookmarked(ctx, viewerID, []*models.Advice{item}); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *BookmarkService) markBookmarked(ctx context.Context, viewerID uint, items []*models.Advice) error {
	if viewerID == 0 || len(items) == 0 {
		return nil
	}
	saved, err := s.bookmarkRepo.ListByUser(ctx, viewerID)
	if err != nil {
		return err
	}
	marked := make(map[uint]bool, len(saved))
	for _, b := range saved {
		marked[b.AdviceID] = true
	}
	for _, a := range items {
		a.Bookmarked = marked[a.ID]
	}
	return nil
}

func (s *BookmarkService) AddBookmark(ctx context.Context, userID, adviceID uint) (*models.Bookmark, error) {
	if adviceID == 0 {
		return nil, models.NewValidationError("adviceId is required")
	}
	return s.bookmarkRepo.Create(ctx, userID, adviceID)
}

func (s *BookmarkService) ListBookmarks(ctx context.Context, userID uint) ([]*models.Bookmark, error) {
	return s.bookmarkRepo.ListByUser(ctx, userID)
}

func (s *BookmarkService) RemoveBookmark(ctx context.Context, userID, adviceID uint) error {
	return s.bookmarkRepo.Delete(ctx, userID, adviceID)
}
