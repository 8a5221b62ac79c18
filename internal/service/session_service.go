// Package service holds the application's business rules between HTTP handlers and repositories.
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"reso/internal/models"
	"reso/internal/observability"
	"reso/internal/repository"

	"github.com/google/uuid"
)

// DefaultSessionTTL is used when no TTL is configured.
const DefaultSessionTTL = 7 * 24 * time.Hour

const sessionTokenBytes = 32

// SessionService issues and validates opaque session tokens. Only a SHA-256
// digest of each token reaches the store.
type SessionService struct {
	sessionRepo repository.SessionRepository
	ttl         time.Duration
	now         func() time.Time
}

func NewSessionService(sessionRepo repository.SessionRepository, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		sessionRepo: sessionRepo,
		ttl:         ttl,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// HashToken returns the hex SHA-256 digest stored for token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Issue creates a session for userID and returns the raw token for the cookie.
func (s *SessionService) Issue(ctx context.Context, userID uint) (string, time.Time, error) {
	raw := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", time.Time{}, fmt.Errorf("generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: HashToken(token),
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("store session: %w", err)
	}
	return token, session.ExpiresAt, nil
}

// Validate resolves token to its live session with the user loaded. Unknown,
// revoked and expired tokens all yield (nil, nil); only store failures error.
func (s *SessionService) Validate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		observability.SessionValidations.WithLabelValues("missing").Inc()
		return nil, nil
	}

	session, err := s.sessionRepo.FindValid(ctx, HashToken(token), s.now())
	switch {
	case err != nil:
		observability.SessionValidations.WithLabelValues("error").Inc()
		return nil, err
	case session == nil || session.Expired(s.now()):
		observability.SessionValidations.WithLabelValues("invalid").Inc()
		return nil, nil
	}
	observability.SessionValidations.WithLabelValues("valid").Inc()
	return session, nil
}

// Revoke deletes the session behind token. Unknown tokens are not an error.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessionRepo.DeleteByHash(ctx, HashToken(token))
}

// RevokeAll ends every session of userID.
func (s *SessionService) RevokeAll(ctx context.Context, userID uint) (int64, error) {
	return s.sessionRepo.DeleteByUser(ctx, userID)
}

// PurgeExpired deletes sessions past expiry. Validation never depends on it.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, s.now())
}
