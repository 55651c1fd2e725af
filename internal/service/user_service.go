package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/d60-Lab/gin-graphql/internal/model"
	"github.com/d60-Lab/gin-graphql/internal/repository"
)

type CreateUserInput struct {
	Name    string  `validate:"required,max=255"`
	Balance float64 `validate:"gte=0"`
}

type ChangeUserInput struct {
	Name    *string  `validate:"omitempty,min=1,max=255"`
	Balance *float64 `validate:"omitempty,gte=0"`
}

// UserService 用户写操作
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*model.User, error)
	Change(ctx context.Context, id string, in ChangeUserInput) (*model.User, error)
	// Delete 删除用户及其资料、帖子与订阅关系；用户不存在时返回 ErrNotFound
	Delete(ctx context.Context, id string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	u := &model.User{ID: uuid.New().String(), Name: in.Name, Balance: in.Balance}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Change(ctx context.Context, id string, in ChangeUserInput) (*model.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Balance != nil {
		fields["balance"] = *in.Balance
	}
	if err := s.userRepo.Update(ctx, id, fields); err != nil {
		return nil, notFound(err, "user")
	}
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	found, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}
