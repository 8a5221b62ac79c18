package service

import (
	"context"
	"errors"
	"log/slog"

	"reso/internal/embedding"
	"reso/internal/middleware"
	"reso/internal/models"
	"reso/internal/observability"
	"reso/internal/repository"

	"github.com/pgvector/pgvector-go"
	"go.opentelemetry.io/otel/attribute"
)

// Sources of a similar-stories list.
const (
	SourceVector  = "vector"
	SourceRecency = "recency"
)

// DefaultSimilarLimit is the number of similar stories returned.
const DefaultSimilarLimit = 5

// Recommender finds stories similar to a freshly created one. Every failure
// on the way degrades to the most recent public stories.
type Recommender struct {
	embedder  embedding.Embedder
	storyRepo repository.StoryRepository
	limit     int
}

func NewRecommender(embedder embedding.Embedder, storyRepo repository.StoryRepository, limit int) *Recommender {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	return &Recommender{embedder: embedder, storyRepo: storyRepo, limit: limit}
}

// Similar embeds story, stores the vector and returns its nearest public
// neighbours with the source that produced them. The error is non-nil only
// when the recency fallback itself fails.
func (r *Recommender) Similar(ctx context.Context, story *models.Story) ([]*models.Story, string, error) {
	ctx, span := observability.StartSpan(ctx, "recommender.similar",
		attribute.Int64("story.id", int64(story.ID)),
	)

	similar, err := r.nearest(ctx, story)
	if err == nil && len(similar) > 0 {
		observability.Recommendations.WithLabelValues(SourceVector).Inc()
		span.SetAttributes(attribute.String("recommender.source", SourceVector))
		observability.EndSpan(span, nil)
		return similar, SourceVector, nil
	}
	if err != nil {
		middleware.Logger.WarnContext(ctx, "similar stories degraded to recency",
			slog.Uint64("story_id", uint64(story.ID)),
			slog.String("error", err.Error()),
		)
	}

	recent, err := r.storyRepo.RecentPublic(ctx, story.ID, r.limit)
	span.SetAttributes(attribute.String("recommender.source", SourceRecency))
	observability.EndSpan(span, err)
	if err != nil {
		return nil, SourceRecency, err
	}
	observability.Recommendations.WithLabelValues(SourceRecency).Inc()
	return recent, SourceRecency, nil
}

func (r *Recommender) nearest(ctx context.Context, story *models.Story) ([]*models.Story, error) {
	if r.embedder == nil {
		return nil, embedding.ErrUnavailable
	}

	vec, err := r.embedder.EmbedOne(ctx, story.Title+"\n"+story.Content)
	if err != nil {
		return nil, err
	}
	if len(vec) != models.EmbeddingDimensions {
		return nil, errors.Join(embedding.ErrUnavailable, errors.New("unexpected embedding width"))
	}

	v := pgvector.NewVector(vec)
	if err := r.storyRepo.SetEmbedding(ctx, story.ID, v); err != nil {
		return nil, err
	}
	return r.storyRepo.NearestPublic(ctx, v, story.ID, r.limit)
}
