package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"reso/internal/models"
	"reso/internal/repository"
)

const maxCommentLen = 1000

type CommentService struct {
	commentRepo repository.CommentRepository
	storyRepo   repository.StoryRepository
	likeRepo    repository.LikeRepository
}

type CreateCommentInput struct {
	UserID  uint
	StoryID uint
	Content string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	storyRepo repository.StoryRepository,
	likeRepo repository.LikeRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		storyRepo:   storyRepo,
		likeRepo:    likeRepo,
	}
}

// visibleStory loads the story or reports it missing when userID may not see it.
func (s *CommentService) visibleStory(ctx context.Context, storyID, userID uint) (*models.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if !story.IsPublic && story.UserID != userID {
		return nil, models.NewNotFoundError("Story", storyID)
	}
	return story, nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 1000 characters)")
	}

	if _, err := s.visibleStory(ctx, in.StoryID, in.UserID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		StoryID: in.StoryID,
		UserID:  in.UserID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, storyID, userID uint) ([]*models.Comment, error) {
	if _, err := s.visibleStory(ctx, storyID, userID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByStory(ctx, storyID)
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID uint) (*models.Comment, error) {
	return s.commentRepo.Remove(ctx, userID, commentID)
}

func (s *CommentService) ToggleLike(ctx context.Context, commentID, userID uint) (*models.LikeResult, error) {
	return s.likeRepo.ToggleCommentLike(ctx, userID, commentID)
}

// AdoptComment marks the comment as its story's best answer. Only the story
// owner may adopt, and only one comment per story.
func (s *CommentService) AdoptComment(ctx context.Context, commentID, userID uint) (*models.Comment, error) {
	return s.commentRepo.Adopt(ctx, userID, commentID)
}
