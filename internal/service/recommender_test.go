package service

import (
	"context"
	"errors"
	"testing"

	"reso/internal/embedding"
	"reso/internal/models"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitVector() []float32 {
	v := make([]float32, models.EmbeddingDimensions)
	v[0] = 1
	return v
}

func TestRecommender_VectorPath(t *testing.T) {
	t.Parallel()

	var embedded string
	var stored pgvector.Vector
	embedder := &embedderStub{embedFn: func(_ context.Context, text string) ([]float32, error) {
		embedded = text
		return unitVector(), nil
	}}
	stories := noopStoryRepo()
	stories.setEmbeddingFn = func(_ context.Context, id uint, v pgvector.Vector) error {
		assert.Equal(t, uint(3), id)
		stored = v
		return nil
	}
	stories.nearestPublicFn = func(_ context.Context, v pgvector.Vector, exclude uint, limit int) ([]*models.Story, error) {
		assert.Equal(t, uint(3), exclude)
		assert.Equal(t, 2, limit)
		return []*models.Story{{ID: 8}, {ID: 9}}, nil
	}
	stories.recentPublicFn = func(context.Context, uint, int) ([]*models.Story, error) {
		t.Fatal("recency must not run when vectors answer")
		return nil, nil
	}

	rec := NewRecommender(embedder, stories, 2)
	similar, source, err := rec.Similar(context.Background(), &models.Story{ID: 3, Title: "rain", Content: "all day"})
	require.NoError(t, err)
	assert.Equal(t, SourceVector, source)
	assert.Len(t, similar, 2)
	assert.Equal(t, "rain\nall day", embedded)
	assert.Len(t, stored.Slice(), models.EmbeddingDimensions)
}

func TestRecommender_FallsBackToRecency(t *testing.T) {
	t.Parallel()

	recent := []*models.Story{{ID: 5}, {ID: 4}}

	tests := []struct {
		name     string
		embedder embedding.Embedder
		mutate   func(*storyRepoStub)
	}{
		{
			name:     "no embedder",
			embedder: nil,
		},
		{
			name: "embedding unavailable",
			embedder: &embedderStub{embedFn: func(context.Context, string) ([]float32, error) {
				return nil, embedding.ErrUnavailable
			}},
		},
		{
			name: "wrong width",
			embedder: &embedderStub{embedFn: func(context.Context, string) ([]float32, error) {
				return []float32{1, 2, 3}, nil
			}},
		},
		{
			name: "storing the vector fails",
			embedder: &embedderStub{embedFn: func(context.Context, string) ([]float32, error) {
				return unitVector(), nil
			}},
			mutate: func(s *storyRepoStub) {
				s.setEmbeddingFn = func(context.Context, uint, pgvector.Vector) error { return errors.New("no vector column") }
			},
		},
		{
			name: "no neighbours yet",
			embedder: &embedderStub{embedFn: func(context.Context, string) ([]float32, error) {
				return unitVector(), nil
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stories := noopStoryRepo()
			stories.recentPublicFn = func(_ context.Context, exclude uint, limit int) ([]*models.Story, error) {
				assert.Equal(t, uint(1), exclude)
				assert.Equal(t, DefaultSimilarLimit, limit)
				return recent, nil
			}
			if tt.mutate != nil {
				tt.mutate(stories)
			}

			rec := NewRecommender(tt.embedder, stories, 0)
			similar, source, err := rec.Similar(context.Background(), &models.Story{ID: 1, Title: "t", Content: "c"})
			require.NoError(t, err)
			assert.Equal(t, SourceRecency, source)
			assert.Equal(t, recent, similar)
		})
	}
}

func TestRecommender_RecencyFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	stories := noopStoryRepo()
	stories.recentPublicFn = func(context.Context, uint, int) ([]*models.Story, error) { return nil, boom }

	_, _, err := NewRecommender(nil, stories, 5).Similar(context.Background(), &models.Story{ID: 1})
	assert.ErrorIs(t, err, boom)
}
