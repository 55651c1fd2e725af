package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/d60-Lab/gin-graphql/internal/model"
	"github.com/d60-Lab/gin-graphql/internal/repository"
)

type CreateProfileInput struct {
	UserID       string             `validate:"required,uuid"`
	IsMale       bool
	YearOfBirth  int                `validate:"gte=1900,lte=2100"`
	MemberTypeID model.MemberTypeID `validate:"required"`
}

type ChangeProfileInput struct {
	IsMale       *bool
	YearOfBirth  *int `validate:"omitempty,gte=1900,lte=2100"`
	MemberTypeID *model.MemberTypeID
}

// ProfileService 用户资料写操作（每个用户至多一份资料）
type ProfileService interface {
	Create(ctx context.Context, in CreateProfileInput) (*model.Profile, error)
	Change(ctx context.Context, id string, in ChangeProfileInput) (*model.Profile, error)
	Delete(ctx context.Context, id string) (*model.Profile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
}

func NewProfileService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository) ProfileService {
	return &profileService{profileRepo: profileRepo, userRepo: userRepo}
}

func (s *profileService) Create(ctx context.Context, in CreateProfileInput) (*model.Profile, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !in.MemberTypeID.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMemberType, in.MemberTypeID)
	}
	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, notFound(err, "user")
	}
	exists, err := s.profileRepo.ExistsForUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrProfileExists
	}

	p := &model.Profile{
		ID:           uuid.New().String(),
		UserID:       in.UserID,
		IsMale:       in.IsMale,
		YearOfBirth:  in.YearOfBirth,
		MemberTypeID: in.MemberTypeID,
	}
	if err := s.profileRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileService) Change(ctx context.Context, id string, in ChangeProfileInput) (*model.Profile, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if in.IsMale != nil {
		fields["is_male"] = *in.IsMale
	}
	if in.YearOfBirth != nil {
		fields["year_of_birth"] = *in.YearOfBirth
	}
	if in.MemberTypeID != nil {
		if !in.MemberTypeID.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMemberType, *in.MemberTypeID)
		}
		fields["member_type_id"] = *in.MemberTypeID
	}
	if err := s.profileRepo.Update(ctx, id, fields); err != nil {
		return nil, notFound(err, "profile")
	}
	p, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "profile")
	}
	return p, nil
}

// Delete 返回被删除的资料，调用方据此清理 user 维度的缓存
func (s *profileService) Delete(ctx context.Context, id string) (*model.Profile, error) {
	p, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "profile")
	}
	found, err := s.profileRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return p, nil
}
