package service

import (
	"context"
	"strings"
	"time"

	"reso/internal/models"
	"reso/internal/repository"
)

type AuthService struct {
	userRepo repository.UserRepository
	sessions *SessionService
}

// GoogleLoginInput is the verified identity returned by Google.
type GoogleLoginInput struct {
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// LoginResult carries the session token to set as a cookie.
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func NewAuthService(userRepo repository.UserRepository, sessions *SessionService) *AuthService {
	return &AuthService{userRepo: userRepo, sessions: sessions}
}

// GoogleLogin finds or creates the user for a Google identity and opens a session.
func (s *AuthService) GoogleLogin(ctx context.Context, in GoogleLoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, models.NewUnauthenticatedError("Google account has no email")
	}
	if !in.EmailVerified {
		return nil, models.NewUnauthenticatedError("Google email is not verified")
	}

	user := &models.User{
		Email:    email,
		Nickname: defaultNickname(in.Name, email),
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = &name
	}
	if in.Picture != "" {
		picture := in.Picture
		user.Image = &picture
	}

	stored, err := s.userRepo.FindOrCreateByEmail(ctx, user)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.sessions.Issue(ctx, stored.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: stored, Token: token, ExpiresAt: expiresAt}, nil
}

// defaultNickname uses the display name, else the local part of the email.
func defaultNickname(name, email string) string {
	nick := strings.TrimSpace(name)
	if nick == "" {
		nick, _, _ = strings.Cut(email, "@")
	}
	return truncateRunes(nick, maxNicknameLen)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
