package services

import (
	"context"
	"fmt"
	"time"

	"eventbot/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

func NewUserService(userRepo domain.UserRepository, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *userService) GetOrCreate(ctx context.Context, id int64, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.userRepo.GetOrCreate(ctx, id, username)
}

func (s *userService) SetRole(ctx context.Context, id int64, username, role string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.ValidRole(role) {
		return domain.ErrInvalidInput
	}
	if _, err := s.userRepo.GetOrCreate(ctx, id, username); err != nil {
		return fmt.Errorf("get or create user: %w", err)
	}
	return s.userRepo.SetRole(ctx, id, domain.Role(role))
}
