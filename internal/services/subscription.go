package services

import (
	"context"
	"fmt"
	"time"

	"eventbot/internal/domain"
)

type subscriptionService struct {
	subscriptionRepo domain.SubscriptionRepository
	userRepo         domain.UserRepository
	contextTimeout   time.Duration
}

func NewSubscriptionService(
	subscriptionRepo domain.SubscriptionRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		contextTimeout:   timeout,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, subscriberID int64, subscriberName string, creatorID int64, creatorName string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if subscriberID == creatorID {
		return domain.ErrInvalidInput
	}

	// Both sides must exist as user rows before the pair is stored.
	if _, err := s.userRepo.GetOrCreate(ctx, subscriberID, subscriberName); err != nil {
		return fmt.Errorf("get or create subscriber: %w", err)
	}
	creator, err := s.userRepo.GetOrCreate(ctx, creatorID, creatorName)
	if err != nil {
		return fmt.Errorf("get or create creator: %w", err)
	}
	// The registry stores any pair; holding the creator role is this
	// workflow's requirement.
	if creator.Role != domain.RoleEventCreator {
		return domain.ErrNotEventCreator
	}

	return s.subscriptionRepo.Add(ctx, subscriberID, creatorID)
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, subscriberID, creatorID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.subscriptionRepo.Remove(ctx, subscriberID, creatorID)
}

func (s *subscriptionService) List(ctx context.Context, subscriberID int64) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	creators, err := s.subscriptionRepo.ListCreators(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("list creators: %w", err)
	}
	if creators == nil {
		creators = []*domain.User{}
	}
	return creators, nil
}
