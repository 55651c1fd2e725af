package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/gin-graphql/internal/model"
)

type ProfileRepository interface {
	Create(ctx context.Context, p *model.Profile) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	ExistsForUser(ctx context.Context, userID string) (bool, error)
	List(ctx context.Context) ([]*model.Profile, error)
	ListByUserIDs(ctx context.Context, userIDs []string) ([]*model.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository { return &profileRepository{db: db} }

func (r *profileRepository) Create(ctx context.Context, p *model.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *profileRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return updateByID(ctx, r.db, &model.Profile{}, id, fields)
}

func (r *profileRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, &model.Profile{}, id)
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("user_id = ?", userID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *profileRepository) List(ctx context.Context) ([]*model.Profile, error) {
	var res []*model.Profile
	err := r.db.WithContext(ctx).Order("created_at, id").Find(&res).Error
	return res, err
}

func (r *profileRepository) ListByUserIDs(ctx context.Context, userIDs []string) ([]*model.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var res []*model.Profile
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&res).Error
	return res, err
}
