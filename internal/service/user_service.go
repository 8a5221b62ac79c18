package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"reso/internal/models"
	"reso/internal/repository"
)

const maxNicknameLen = 30

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetMe(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) UpdateNickname(ctx context.Context, userID uint, nickname string) (*models.User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, models.NewValidationError("Nickname is required")
	}
	if utf8.RuneCountInString(nickname) > maxNicknameLen {
		return nil, models.NewValidationError("Nickname too long (max 30 characters)")
	}
	return s.userRepo.UpdateNickname(ctx, userID, nickname)
}
