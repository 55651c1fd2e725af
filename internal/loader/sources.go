package loader

import (
	"context"

	"github.com/d60-Lab/gin-graphql/internal/model"
	"github.com/d60-Lab/gin-graphql/internal/repository"
)

// loader 只依赖各仓储的批量读接口
type (
	UserSource interface {
		ListByIDs(ctx context.Context, ids []string) ([]*model.User, error)
		List(ctx context.Context, preload repository.UserPreload) ([]*model.User, error)
	}
	ProfileSource interface {
		ListByUserIDs(ctx context.Context, userIDs []string) ([]*model.Profile, error)
	}
	PostSource interface {
		ListByAuthorIDs(ctx context.Context, authorIDs []string) ([]*model.Post, error)
	}
	MemberTypeSource interface {
		ListByIDs(ctx context.Context, ids []model.MemberTypeID) ([]*model.MemberType, error)
	}
	SubscriptionSource interface {
		ListWithAuthors(ctx context.Context, subscriberIDs []string) ([]*model.Subscription, error)
		ListWithSubscribers(ctx context.Context, authorIDs []string) ([]*model.Subscription, error)
	}
)

// Sources loader 读取的全部仓储
type Sources struct {
	Users         UserSource
	Profiles      ProfileSource
	Posts         PostSource
	MemberTypes   MemberTypeSource
	Subscriptions SubscriptionSource
}
