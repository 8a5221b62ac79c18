package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"reso/internal/models"
	"reso/internal/repository"
)

const (
	maxTitleLen   = 100
	maxContentLen = 5000
)

type StoryService struct {
	storyRepo   repository.StoryRepository
	likeRepo    repository.LikeRepository
	recommender *Recommender
}

type CreateStoryInput struct {
	UserID   uint
	Title    string
	Content  string
	IsPublic bool
	Emotion  string
}

type UpdateStoryInput struct {
	UserID   uint
	StoryID  uint
	Title    *string
	Content  *string
	IsPublic *bool
	Emotion  *string
}

type ListStoriesInput struct {
	UserID uint
	Mine   bool
	Limit  int
	Offset int
}

// CreateStoryResult is the new story plus its recommendations.
type CreateStoryResult struct {
	MyStory        *models.Story   `json:"myStory"`
	SimilarStories []*models.Story `json:"similarStories"`
	SimilarSource  string          `json:"similarSource"`
}

func NewStoryService(
	storyRepo repository.StoryRepository,
	likeRepo repository.LikeRepository,
	recommender *Recommender,
) *StoryService {
	return &StoryService{
		storyRepo:   storyRepo,
		likeRepo:    likeRepo,
		recommender: recommender,
	}
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", models.NewValidationError("Title too long (max 100 characters)")
	}
	return title, nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "", models.NewValidationError("Content too long (max 5000 characters)")
	}
	return content, nil
}

func parseEmotion(raw string) (models.Emotion, error) {
	e := models.Emotion(strings.ToUpper(strings.TrimSpace(raw)))
	if !e.Valid() {
		return "", models.NewValidationError("Unknown emotion " + raw)
	}
	return e, nil
}

// CreateStory stores the story, then asks the recommender for similar ones.
// Only the insert can fail the call.
func (s *StoryService) CreateStory(ctx context.Context, in CreateStoryInput) (*CreateStoryResult, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	content, err := validateContent(in.Content)
	if err != nil {
		return nil, err
	}

	emotion := models.RandomEmotion()
	if strings.TrimSpace(in.Emotion) != "" {
		if emotion, err = parseEmotion(in.Emotion); err != nil {
			return nil, err
		}
	}

	story := &models.Story{
		UserID:   in.UserID,
		Title:    title,
		Content:  content,
		IsPublic: in.IsPublic,
		Emotion:  emotion,
	}
	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}

	result := &CreateStoryResult{MyStory: story, SimilarStories: []*models.Story{}, SimilarSource: SourceRecency}
	if s.recommender == nil {
		return result, nil
	}

	similar, source, err := s.recommender.Similar(ctx, story)
	if err == nil {
		result.SimilarStories = similar
		result.SimilarSource = source
	}
	if result.SimilarStories == nil {
		result.SimilarStories = []*models.Story{}
	}
	return result, nil
}

func (s *StoryService) ListStories(ctx context.Context, in ListStoriesInput) ([]*models.Story, error) {
	if in.Mine {
		return s.storyRepo.ListByUser(ctx, in.UserID, in.Limit, in.Offset)
	}
	return s.storyRepo.ListPublic(ctx, in.Limit, in.Offset)
}

func (s *StoryService) GetStory(ctx context.Context, storyID, viewerID uint) (*models.Story, error) {
	return s.storyRepo.GetVisible(ctx, storyID, viewerID)
}

func (s *StoryService) UpdateStory(ctx context.Context, in UpdateStoryInput) (*models.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, in.StoryID)
	if err != nil {
		return nil, err
	}
	if story.UserID != in.UserID {
		if !story.IsPublic {
			return nil, models.NewNotFoundError("Story", in.StoryID)
		}
		return nil, models.NewForbiddenError("You can only update your own stories")
	}

	if in.Title != nil {
		if story.Title, err = validateTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Content != nil {
		if story.Content, err = validateContent(*in.Content); err != nil {
			return nil, err
		}
	}
	if in.IsPublic != nil {
		story.IsPublic = *in.IsPublic
	}
	if in.Emotion != nil {
		if story.Emotion, err = parseEmotion(*in.Emotion); err != nil {
			return nil, err
		}
	}

	if err := s.storyRepo.Update(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

func (s *StoryService) DeleteStory(ctx context.Context, storyID, userID uint) error {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return err
	}
	if story.UserID != userID {
		if !story.IsPublic {
			return models.NewNotFoundError("Story", storyID)
		}
		return models.NewForbiddenError("You can only delete your own stories")
	}
	return s.storyRepo.Delete(ctx, storyID)
}

func (s *StoryService) ToggleLike(ctx context.Context, storyID, userID uint) (*models.LikeResult, error) {
	return s.likeRepo.ToggleStoryLike(ctx, userID, storyID)
}
