package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/gin-graphql/internal/model"
	"github.com/d60-Lab/gin-graphql/internal/repository"
)

// SubscriptionService 订阅关系服务
type SubscriptionService interface {
	// Subscribe 让 userID 订阅 authorID（幂等），返回订阅者
	Subscribe(ctx context.Context, userID, authorID string) (*model.User, error)
	Unsubscribe(ctx context.Context, userID, authorID string) error
}

type subscriptionService struct {
	subRepo  repository.SubscriptionRepository
	userRepo repository.UserRepository
}

func NewSubscriptionService(subRepo repository.SubscriptionRepository, userRepo repository.UserRepository) SubscriptionService {
	return &subscriptionService{subRepo: subRepo, userRepo: userRepo}
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID, authorID string) (*model.User, error) {
	if userID == authorID {
		return nil, ErrSubscribeSelf
	}
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, notFound(err, "author")
	}
	subscriber, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if err := s.subRepo.Create(ctx, userID, authorID); err != nil {
		return nil, err
	}
	return subscriber, nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, userID, authorID string) error {
	exists, err := s.subRepo.Exists(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("subscription %s -> %s: %w", userID, authorID, ErrNotFound)
	}
	return s.subRepo.Delete(ctx, userID, authorID)
}
