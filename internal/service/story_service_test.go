package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reso/internal/embedding"
	"reso/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestStoryService_CreateStory_Validation(t *testing.T) {
	t.Parallel()

	svc := NewStoryService(noopStoryRepo(), nil, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateStoryInput
	}{
		{"empty title", CreateStoryInput{UserID: 1, Content: "body"}},
		{"blank title", CreateStoryInput{UserID: 1, Title: "   ", Content: "body"}},
		{"title too long", CreateStoryInput{UserID: 1, Title: strings.Repeat("t", 101), Content: "body"}},
		{"empty content", CreateStoryInput{UserID: 1, Title: "title"}},
		{"content too long", CreateStoryInput{UserID: 1, Title: "title", Content: strings.Repeat("c", 5001)}},
		{"unknown emotion", CreateStoryInput{UserID: 1, Title: "title", Content: "body", Emotion: "bored"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreateStory(ctx, tt.in)
			assertValidationError(t, err)
		})
	}
}

func TestStoryService_CreateStory_Emotion(t *testing.T) {
	t.Parallel()

	svc := NewStoryService(noopStoryRepo(), nil, nil)
	ctx := context.Background()

	res, err := svc.CreateStory(ctx, CreateStoryInput{UserID: 1, Title: "t", Content: "c", Emotion: "calm"})
	require.NoError(t, err)
	assert.Equal(t, models.EmotionCalm, res.MyStory.Emotion)

	res, err = svc.CreateStory(ctx, CreateStoryInput{UserID: 1, Title: "t", Content: "c"})
	require.NoError(t, err)
	assert.True(t, res.MyStory.Emotion.Valid(), "missing emotion gets a random valid one")
}

func TestStoryService_CreateStory_Similar(t *testing.T) {
	t.Parallel()

	t.Run("embedding down degrades to recency", func(t *testing.T) {
		t.Parallel()
		stories := noopStoryRepo()
		stories.recentPublicFn = func(context.Context, uint, int) ([]*models.Story, error) {
			return []*models.Story{{ID: 2}}, nil
		}
		embedder := &embedderStub{embedFn: func(context.Context, string) ([]float32, error) {
			return nil, embedding.ErrUnavailable
		}}
		svc := NewStoryService(stories, nil, NewRecommender(embedder, stories, 5))

		res, err := svc.CreateStory(context.Background(), CreateStoryInput{UserID: 1, Title: "t", Content: "c", IsPublic: true})
		require.NoError(t, err)
		assert.Equal(t, uint(1), res.MyStory.ID)
		assert.True(t, res.MyStory.IsPublic)
		assert.Equal(t, SourceRecency, res.SimilarSource)
		assert.Len(t, res.SimilarStories, 1)
	})

	t.Run("recency failure still creates", func(t *testing.T) {
		t.Parallel()
		stories := noopStoryRepo()
		stories.recentPublicFn = func(context.Context, uint, int) ([]*models.Story, error) {
			return nil, errors.New("db down")
		}
		svc := NewStoryService(stories, nil, NewRecommender(nil, stories, 5))

		res, err := svc.CreateStory(context.Background(), CreateStoryInput{UserID: 1, Title: "t", Content: "c"})
		require.NoError(t, err)
		assert.NotNil(t, res.SimilarStories)
		assert.Empty(t, res.SimilarStories)
	})

	t.Run("insert failure fails the call", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("insert failed")
		stories := noopStoryRepo()
		stories.createFn = func(context.Context, *models.Story) error { return boom }
		svc := NewStoryService(stories, nil, NewRecommender(nil, stories, 5))

		_, err := svc.CreateStory(context.Background(), CreateStoryInput{UserID: 1, Title: "t", Content: "c"})
		assert.ErrorIs(t, err, boom)
	})
}

func TestStoryService_ListStories(t *testing.T) {
	t.Parallel()

	var called string
	stories := noopStoryRepo()
	stories.listPublicFn = func(context.Context, int, int) ([]*models.Story, error) {
		called = "public"
		return nil, nil
	}
	stories.listByUserFn = func(_ context.Context, userID uint, _, _ int) ([]*models.Story, error) {
		called = "mine"
		assert.Equal(t, uint(4), userID)
		return nil, nil
	}
	svc := NewStoryService(stories, nil, nil)

	_, err := svc.ListStories(context.Background(), ListStoriesInput{UserID: 4})
	require.NoError(t, err)
	assert.Equal(t, "public", called)

	_, err = svc.ListStories(context.Background(), ListStoriesInput{UserID: 4, Mine: true})
	require.NoError(t, err)
	assert.Equal(t, "mine", called)
}

func TestStoryService_UpdateStory_Ownership(t *testing.T) {
	t.Parallel()

	repoWith := func(story models.Story) *storyRepoStub {
		stories := noopStoryRepo()
		stories.getByIDFn = func(context.Context, uint) (*models.Story, error) {
			s := story
			return &s, nil
		}
		return stories
	}

	t.Run("private story of another user is not found", func(t *testing.T) {
		t.Parallel()
		svc := NewStoryService(repoWith(models.Story{ID: 1, UserID: 10}), nil, nil)
		_, err := svc.UpdateStory(context.Background(), UpdateStoryInput{UserID: 1, StoryID: 1, Title: ptr("x")})
		assertCode(t, err, models.CodeNotFound)
	})

	t.Run("public story of another user is forbidden", func(t *testing.T) {
		t.Parallel()
		svc := NewStoryService(repoWith(models.Story{ID: 1, UserID: 10, IsPublic: true}), nil, nil)
		_, err := svc.UpdateStory(context.Background(), UpdateStoryInput{UserID: 1, StoryID: 1, Title: ptr("x")})
		assertCode(t, err, models.CodeForbidden)
	})

	t.Run("owner updates selected fields", func(t *testing.T) {
		t.Parallel()
		stories := repoWith(models.Story{ID: 1, UserID: 1, Title: "old", Content: "body", Emotion: models.EmotionSad})
		var saved *models.Story
		stories.updateFn = func(_ context.Context, s *models.Story) error {
			saved = s
			return nil
		}
		svc := NewStoryService(stories, nil, nil)

		story, err := svc.UpdateStory(context.Background(), UpdateStoryInput{
			UserID: 1, StoryID: 1, Title: ptr(" new "), IsPublic: ptr(true), Emotion: ptr("happy"),
		})
		require.NoError(t, err)
		assert.Same(t, saved, story)
		assert.Equal(t, "new", story.Title)
		assert.Equal(t, "body", story.Content)
		assert.True(t, story.IsPublic)
		assert.Equal(t, models.EmotionHappy, story.Emotion)
	})

	t.Run("owner update is validated", func(t *testing.T) {
		t.Parallel()
		svc := NewStoryService(repoWith(models.Story{ID: 1, UserID: 1}), nil, nil)
		_, err := svc.UpdateStory(context.Background(), UpdateStoryInput{UserID: 1, StoryID: 1, Content: ptr("")})
		assertValidationError(t, err)
	})
}

func TestStoryService_DeleteStory_Ownership(t *testing.T) {
	t.Parallel()

	var deleted uint
	stories := noopStoryRepo()
	stories.getByIDFn = func(_ context.Context, id uint) (*models.Story, error) {
		return &models.Story{ID: id, UserID: id, IsPublic: id%2 == 0}, nil
	}
	stories.deleteFn = func(_ context.Context, id uint) error {
		deleted = id
		return nil
	}
	svc := NewStoryService(stories, nil, nil)
	ctx := context.Background()

	assertCode(t, svc.DeleteStory(ctx, 3, 1), models.CodeNotFound)
	assertCode(t, svc.DeleteStory(ctx, 4, 1), models.CodeForbidden)
	assert.Zero(t, deleted)

	require.NoError(t, svc.DeleteStory(ctx, 3, 3))
	assert.Equal(t, uint(3), deleted)
}

func TestStoryService_ToggleLike(t *testing.T) {
	t.Parallel()

	likes := &likeRepoStub{toggleStoryFn: func(_ context.Context, userID, storyID uint) (*models.LikeResult, error) {
		assert.Equal(t, uint(2), userID)
		assert.Equal(t, uint(9), storyID)
		return &models.LikeResult{Liked: true, LikeCount: 1}, nil
	}}
	res, err := NewStoryService(noopStoryRepo(), likes, nil).ToggleLike(context.Background(), 9, 2)
	require.NoError(t, err)
	assert.Equal(t, &models.LikeResult{Liked: true, LikeCount: 1}, res)
}
