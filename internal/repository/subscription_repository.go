package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/gin-graphql/internal/model"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscriberID, authorID string) error
	Delete(ctx context.Context, subscriberID, authorID string) error
	Exists(ctx context.Context, subscriberID, authorID string) (bool, error)
	// ListWithAuthors 批量查询多个订阅者的订阅关系，Author 已填充
	ListWithAuthors(ctx context.Context, subscriberIDs []string) ([]*model.Subscription, error)
	// ListWithSubscribers 批量查询多个作者的订阅者，Subscriber 已填充
	ListWithSubscribers(ctx context.Context, authorIDs []string) ([]*model.Subscription, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, subscriberID, authorID string) error {
	s := &model.Subscription{SubscriberID: subscriberID, AuthorID: authorID}
	// 幂等：重复订阅不报错
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(s).Error
}

func (r *subscriptionRepository) Delete(ctx context.Context, subscriberID, authorID string) error {
	return r.db.WithContext(ctx).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Delete(&model.Subscription{}).Error
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, authorID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *subscriptionRepository) ListWithAuthors(ctx context.Context, subscriberIDs []string) ([]*model.Subscription, error) {
	if len(subscriberIDs) == 0 {
		return nil, nil
	}
	var res []*model.Subscription
	err := orderSubscriptions("author_id")(r.db.WithContext(ctx)).
		Preload("Author").
		Where("subscriber_id IN ?", subscriberIDs).
		Find(&res).Error
	return res, err
}

func (r *subscriptionRepository) ListWithSubscribers(ctx context.Context, authorIDs []string) ([]*model.Subscription, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var res []*model.Subscription
	err := orderSubscriptions("subscriber_id")(r.db.WithContext(ctx)).
		Preload("Subscriber").
		Where("author_id IN ?", authorIDs).
		Find(&res).Error
	return res, err
}
