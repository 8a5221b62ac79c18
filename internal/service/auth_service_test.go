package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"reso/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureUserRepo(captured **models.User) *userRepoStub {
	return &userRepoStub{
		findOrCreateByEmailFn: func(_ context.Context, u *models.User) (*models.User, error) {
			*captured = u
			stored := *u
			stored.ID = 11
			return &stored, nil
		},
	}
}

func TestAuthService_GoogleLogin(t *testing.T) {
	t.Parallel()

	var created *models.User
	sessions, store := memorySessions()
	svc := NewAuthService(captureUserRepo(&created), NewSessionService(sessions, time.Hour))

	res, err := svc.GoogleLogin(context.Background(), GoogleLoginInput{
		Email:         "  Mina@Example.COM ",
		EmailVerified: true,
		Name:          "Mina",
		Picture:       "https://example.com/p.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "mina@example.com", created.Email)
	assert.Equal(t, "Mina", created.Nickname)
	require.NotNil(t, created.Image)
	assert.Equal(t, "https://example.com/p.png", *created.Image)

	assert.Equal(t, uint(11), res.User.ID)
	assert.NotEmpty(t, res.Token)
	assert.Contains(t, store, HashToken(res.Token))
}

func TestAuthService_GoogleLogin_Rejects(t *testing.T) {
	t.Parallel()

	sessions, store := memorySessions()
	var created *models.User
	svc := NewAuthService(captureUserRepo(&created), NewSessionService(sessions, time.Hour))

	tests := []struct {
		name string
		in   GoogleLoginInput
	}{
		{"missing email", GoogleLoginInput{EmailVerified: true}},
		{"unverified email", GoogleLoginInput{Email: "a@b.c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GoogleLogin(context.Background(), tt.in)
			assertCode(t, err, models.CodeUnauthenticated)
		})
	}
	assert.Nil(t, created)
	assert.Empty(t, store)
}

func TestAuthService_GoogleLogin_RepoError(t *testing.T) {
	t.Parallel()

	boom := errors.New("insert failed")
	users := &userRepoStub{
		findOrCreateByEmailFn: func(context.Context, *models.User) (*models.User, error) { return nil, boom },
	}
	sessions, store := memorySessions()
	svc := NewAuthService(users, NewSessionService(sessions, time.Hour))

	_, err := svc.GoogleLogin(context.Background(), GoogleLoginInput{Email: "a@b.c", EmailVerified: true})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store)
}

func TestDefaultNickname(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, display, email, want string
	}{
		{"display name", "  Jun ", "jun@x.io", "Jun"},
		{"email local part", "", "night.owl@x.io", "night.owl"},
		{"truncated", strings.Repeat("가", 40), "a@x.io", strings.Repeat("가", 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, defaultNickname(tt.display, tt.email))
		})
	}
}
