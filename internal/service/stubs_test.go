package service

import (
	"context"
	"testing"
	"time"

	"reso/internal/models"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionRepoStub is a stub for repository.SessionRepository.
type sessionRepoStub struct {
	createFn        func(context.Context, *models.Session) error
	findValidFn     func(context.Context, string, time.Time) (*models.Session, error)
	deleteByHashFn  func(context.Context, string) error
	deleteByUserFn  func(context.Context, uint) (int64, error)
	deleteExpiredFn func(context.Context, time.Time) (int64, error)
}

func (s *sessionRepoStub) Create(ctx context.Context, session *models.Session) error {
	return s.createFn(ctx, session)
}
func (s *sessionRepoStub) FindValid(ctx context.Context, hash string, now time.Time) (*models.Session, error) {
	return s.findValidFn(ctx, hash, now)
}
func (s *sessionRepoStub) DeleteByHash(ctx context.Context, hash string) error {
	return s.deleteByHashFn(ctx, hash)
}
func (s *sessionRepoStub) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	return s.deleteByUserFn(ctx, userID)
}
func (s *sessionRepoStub) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.deleteExpiredFn(ctx, now)
}

// memorySessions keeps sessions in a map keyed by token hash.
func memorySessions() (*sessionRepoStub, map[string]*models.Session) {
	store := map[string]*models.Session{}
	return &sessionRepoStub{
		createFn: func(_ context.Context, s *models.Session) error {
			store[s.TokenHash] = s
			return nil
		},
		findValidFn: func(_ context.Context, hash string, now time.Time) (*models.Session, error) {
			s, ok := store[hash]
			if !ok || !s.ExpiresAt.After(now) {
				return nil, nil
			}
			return s, nil
		},
		deleteByHashFn: func(_ context.Context, hash string) error {
			delete(store, hash)
			return nil
		},
		deleteByUserFn: func(_ context.Context, userID uint) (int64, error) {
			var n int64
			for h, s := range store {
				if s.UserID == userID {
					delete(store, h)
					n++
				}
			}
			return n, nil
		},
		deleteExpiredFn: func(_ context.Context, now time.Time) (int64, error) {
			var n int64
			for h, s := range store {
				if !s.ExpiresAt.After(now) {
					delete(store, h)
					n++
				}
			}
			return n, nil
		},
	}, store
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn             func(context.Context, uint) (*models.User, error)
	getByEmailFn          func(context.Context, string) (*models.User, error)
	findOrCreateByEmailFn func(context.Context, *models.User) (*models.User, error)
	updateNicknameFn      func(context.Context, uint, string) (*models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) FindOrCreateByEmail(ctx context.Context, u *models.User) (*models.User, error) {
	return s.findOrCreateByEmailFn(ctx, u)
}
func (s *userRepoStub) UpdateNickname(ctx context.Context, id uint, nickname string) (*models.User, error) {
	return s.updateNicknameFn(ctx, id, nickname)
}

// storyRepoStub is a stub for repository.StoryRepository.
type storyRepoStub struct {
	createFn        func(context.Context, *models.Story) error
	getByIDFn       func(context.Context, uint) (*models.Story, error)
	getVisibleFn    func(context.Context, uint, uint) (*models.Story, error)
	listPublicFn    func(context.Context, int, int) ([]*models.Story, error)
	listByUserFn    func(context.Context, uint, int, int) ([]*models.Story, error)
	updateFn        func(context.Context, *models.Story) error
	deleteFn        func(context.Context, uint) error
	setEmbeddingFn  func(context.Context, uint, pgvector.Vector) error
	nearestPublicFn func(context.Context, pgvector.Vector, uint, int) ([]*models.Story, error)
	recentPublicFn  func(context.Context, uint, int) ([]*models.Story, error)
}

func (s *storyRepoStub) Create(ctx context.Context, story *models.Story) error {
	return s.createFn(ctx, story)
}
func (s *storyRepoStub) GetByID(ctx context.Context, id uint) (*models.Story, error) {
	return s.getByIDFn(ctx, id)
}
func (s *storyRepoStub) GetVisible(ctx context.Context, id, viewerID uint) (*models.Story, error) {
	return s.getVisibleFn(ctx, id, viewerID)
}
func (s *storyRepoStub) ListPublic(ctx context.Context, limit, offset int) ([]*models.Story, error) {
	return s.listPublicFn(ctx, limit, offset)
}
func (s *storyRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Story, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *storyRepoStub) Update(ctx context.Context, story *models.Story) error {
	return s.updateFn(ctx, story)
}
func (s *storyRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *storyRepoStub) SetEmbedding(ctx context.Context, id uint, v pgvector.Vector) error {
	return s.setEmbeddingFn(ctx, id, v)
}
func (s *storyRepoStub) NearestPublic(ctx context.Context, v pgvector.Vector, excludeID uint, limit int) ([]*models.Story, error) {
	return s.nearestPublicFn(ctx, v, excludeID, limit)
}
func (s *storyRepoStub) RecentPublic(ctx context.Context, excludeID uint, limit int) ([]*models.Story, error) {
	return s.recentPublicFn(ctx, excludeID, limit)
}

func noopStoryRepo() *storyRepoStub {
	return &storyRepoStub{
		createFn: func(_ context.Context, s *models.Story) error {
			s.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Story, error) {
			return &models.Story{ID: id, UserID: 1, IsPublic: true}, nil
		},
		getVisibleFn: func(_ context.Context, id, _ uint) (*models.Story, error) {
			return &models.Story{ID: id, IsPublic: true}, nil
		},
		listPublicFn:    func(_ context.Context, _, _ int) ([]*models.Story, error) { return nil, nil },
		listByUserFn:    func(_ context.Context, _ uint, _, _ int) ([]*models.Story, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.Story) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		setEmbeddingFn:  func(_ context.Context, _ uint, _ pgvector.Vector) error { return nil },
		nearestPublicFn: func(_ context.Context, _ pgvector.Vector, _ uint, _ int) ([]*models.Story, error) { return nil, nil },
		recentPublicFn:  func(_ context.Context, _ uint, _ int) ([]*models.Story, error) { return nil, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	listByStoryFn func(context.Context, uint) ([]*models.Comment, error)
	adoptFn       func(context.Context, uint, uint) (*models.Comment, error)
	removeFn      func(context.Context, uint, uint) (*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByStory(ctx context.Context, storyID uint) ([]*models.Comment, error) {
	return s.listByStoryFn(ctx, storyID)
}
func (s *commentRepoStub) Adopt(ctx context.Context, userID, commentID uint) (*models.Comment, error) {
	return s.adoptFn(ctx, userID, commentID)
}
func (s *commentRepoStub) Remove(ctx context.Context, userID, commentID uint) (*models.Comment, error) {
	return s.removeFn(ctx, userID, commentID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listByStoryFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		adoptFn: func(_ context.Context, _, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, IsBest: true}, nil
		},
		removeFn: func(_ context.Context, _, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	toggleStoryFn   func(context.Context, uint, uint) (*models.LikeResult, error)
	toggleCommentFn func(context.Context, uint, uint) (*models.LikeResult, error)
}

func (s *likeRepoStub) ToggleStoryLike(ctx context.Context, userID, storyID uint) (*models.LikeResult, error) {
	return s.toggleStoryFn(ctx, userID, storyID)
}
func (s *likeRepoStub) ToggleCommentLike(ctx context.Context, userID, commentID uint) (*models.LikeResult, error) {
	return s.toggleCommentFn(ctx, userID, commentID)
}

// embedderStub is a stub for embedding.Embedder.
type embedderStub struct {
	embedFn func(context.Context, string) ([]float32, error)
}

func (s *embedderStub) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	return s.embedFn(ctx, text)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, models.ErrorCode(err), "error: %v", err)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}
