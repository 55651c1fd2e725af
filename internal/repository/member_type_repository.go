package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/gin-graphql/internal/model"
)

type MemberTypeRepository interface {
	GetByID(ctx context.Context, id model.MemberTypeID) (*model.MemberType, error)
	List(ctx context.Context) ([]*model.MemberType, error)
	ListByIDs(ctx context.Context, ids []model.MemberTypeID) ([]*model.MemberType, error)
}

type memberTypeRepository struct {
	db *gorm.DB
}

func NewMemberTypeRepository(db *gorm.DB) MemberTypeRepository {
	return &memberTypeRepository{db: db}
}

func (r *memberTypeRepository) GetByID(ctx context.Context, id model.MemberTypeID) (*model.MemberType, error) {
	var mt model.MemberType
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&mt).Error; err != nil {
		return nil, err
	}
	return &mt, nil
}

func (r *memberTypeRepository) List(ctx context.Context) ([]*model.MemberType, error) {
	var res []*model.MemberType
	err := r.db.WithContext(ctx).Order("id").Find(&res).Error
	return res, err
}

func (r *memberTypeRepository) ListByIDs(ctx context.Context, ids []model.MemberTypeID) ([]*model.MemberType, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var res []*model.MemberType
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&res).Error
	return res, err
}
