package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/gin-graphql/internal/model"
)

// UserPreload 根查询可选预加载的订阅关系
type UserPreload struct {
	Subscriptions bool // 我订阅的作者（含 Author）
	Subscribers   bool // 订阅我的用户（含 Subscriber）
}

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, id string, fields map[string]any) error
	// Delete 在同一事务中删除用户及其资料、帖子与双向订阅关系，返回用户是否存在
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, preload UserPreload) ([]*model.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return updateByID(ctx, r.db, &model.User{}, id, fields)
}

func (r *userRepository) Delete(ctx context.Context, id string) (bool, error) {
	var found bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subscriber_id = ? OR author_id = ?", id, id).Delete(&model.Subscription{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Profile{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.User{})
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		return nil
	})
	return found, err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context, preload UserPreload) ([]*model.User, error) {
	q := r.db.WithContext(ctx).Order("created_at, id")
	if preload.Subscriptions {
		q = q.Preload("Subscriptions", orderSubscriptions("author_id")).Preload("Subscriptions.Author")
	}
	if preload.Subscribers {
		q = q.Preload("Subscribers", orderSubscriptions("subscriber_id")).Preload("Subscribers.Subscriber")
	}
	var res []*model.User
	err := q.Find(&res).Error
	return res, err
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var res []*model.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&res).Error
	return res, err
}
