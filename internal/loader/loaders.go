package loader

import (
	"context"

	"github.com/d60-Lab/gin-graphql/internal/dataloader"
	"github.com/d60-Lab/gin-graphql/internal/model"
)

// loader 名称，用作错误、span 和指标的标签
const (
	NameUserByID        = "user_by_id"
	NameProfileByUserID = "profile_by_user_id"
	NameMemberTypeByID  = "member_type_by_id"
	NamePostsByAuthorID = "posts_by_author_id"
	NameSubscriptionsOf = "subscriptions_of"
	NameSubscribersOf   = "subscribers_of"
)

// Loaders 单个请求的全部实体 loader
type Loaders struct {
	UserByID        *dataloader.Loader[string, *model.User]
	ProfileByUserID *dataloader.Loader[string, *model.Profile]
	MemberTypeByID  *dataloader.Loader[model.MemberTypeID, *model.MemberType]
	PostsByAuthorID *dataloader.Loader[string, []*model.Post]
	// SubscriptionsOf 用户 → 其订阅的作者
	SubscriptionsOf *dataloader.Loader[string, []*model.User]
	// SubscribersOf 用户 → 订阅该用户的人
	SubscribersOf *dataloader.Loader[string, []*model.User]

	users UserSource
	fuse  bool
}

func newLoaders(src Sources, fuse bool, opts []dataloader.Option) *Loaders {
	with := func(name string) []dataloader.Option {
		return append(append([]dataloader.Option{}, opts...), dataloader.WithName(name))
	}

	return &Loaders{
		UserByID: dataloader.New(
			traced(NameUserByID, userByID(src.Users)), with(NameUserByID)...),
		ProfileByUserID: dataloader.New(
			traced(NameProfileByUserID, profileByUserID(src.Profiles)), with(NameProfileByUserID)...),
		MemberTypeByID: dataloader.New(
			traced(NameMemberTypeByID, memberTypeByID(src.MemberTypes)), with(NameMemberTypeByID)...),
		PostsByAuthorID: dataloader.New(
			traced(NamePostsByAuthorID, postsByAuthorID(src.Posts)), with(NamePostsByAuthorID)...),
		SubscriptionsOf: dataloader.New(
			traced(NameSubscriptionsOf, subscriptionsOf(src.Subscriptions)), with(NameSubscriptionsOf)...),
		SubscribersOf: dataloader.New(
			traced(NameSubscribersOf, subscribersOf(src.Subscriptions)), with(NameSubscribersOf)...),
		users: src.Users,
		fuse:  fuse,
	}
}

func userByID(src UserSource) dataloader.BatchFunc[string, *model.User] {
	return func(ctx context.Context, ids []string) ([]*model.User, []error) {
		rows, err := src.ListByIDs(ctx, ids)
		if err != nil {
			return dataloader.Fail[*model.User](err)
		}
		return indexOne(ids, rows, func(u *model.User) string { return u.ID }), nil
	}
}

func profileByUserID(src ProfileSource) dataloader.BatchFunc[string, *model.Profile] {
	return func(ctx context.Context, userIDs []string) ([]*model.Profile, []error) {
		rows, err := src.ListByUserIDs(ctx, userIDs)
		if err != nil {
			return dataloader.Fail[*model.Profile](err)
		}
		return indexOne(userIDs, rows, func(p *model.Profile) string { return p.UserID }), nil
	}
}

// memberTypeByID 只查询封闭集合内的 id；未知 id 或缺少对应行的 id
// 仅让该 key 返回 IntegrityError
func memberTypeByID(src MemberTypeSource) dataloader.BatchFunc[model.MemberTypeID, *model.MemberType] {
	return func(ctx context.Context, ids []model.MemberTypeID) ([]*model.MemberType, []error) {
		valid := make([]model.MemberTypeID, 0, len(ids))
		for _, id := range ids {
			if id.Valid() {
				valid = append(valid, id)
			}
		}

		var rows []*model.MemberType
		if len(valid) > 0 {
			var err error
			if rows, err = src.ListByIDs(ctx, valid); err != nil {
				return dataloader.Fail[*model.MemberType](err)
			}
		}

		values := indexOne(ids, rows, func(mt *model.MemberType) model.MemberTypeID { return mt.ID })
		var errs []error
		for i, id := range ids {
			if values[i] != nil {
				continue
			}
			ie := &IntegrityError{Entity: "MemberType", Key: string(id), Reason: "member type does not exist"}
			if !id.Valid() {
				ie.Reason = "unknown member type id"
			}
			reportIntegrity(ctx, ie)
			if errs == nil {
				errs = make([]error, len(ids))
			}
			errs[i] = ie
		}
		return values, errs
	}
}

func postsByAuthorID(src PostSource) dataloader.BatchFunc[string, []*model.Post] {
	return func(ctx context.Context, authorIDs []string) ([][]*model.Post, []error) {
		rows, err := src.ListByAuthorIDs(ctx, authorIDs)
		if err != nil {
			return dataloader.Fail[[]*model.Post](err)
		}
		return groupMany(authorIDs, rows, func(p *model.Post) string { return p.AuthorID }, identity[*model.Post]), nil
	}
}

func subscriptionsOf(src SubscriptionSource) dataloader.BatchFunc[string, []*model.User] {
	return func(ctx context.Context, subscriberIDs []string) ([][]*model.User, []error) {
		rows, err := src.ListWithAuthors(ctx, subscriberIDs)
		if err != nil {
			return dataloader.Fail[[]*model.User](err)
		}
		return groupMany(subscriberIDs, rows,
			func(s *model.Subscription) string { return s.SubscriberID },
			func(s *model.Subscription) *model.User { return s.Author },
		), nil
	}
}

func subscribersOf(src SubscriptionSource) dataloader.BatchFunc[string, []*model.User] {
	return func(ctx context.Context, authorIDs []string) ([][]*model.User, []error) {
		rows, err := src.ListWithSubscribers(ctx, authorIDs)
		if err != nil {
			return dataloader.Fail[[]*model.User](err)
		}
		return groupMany(authorIDs, rows,
			func(s *model.Subscription) string { return s.AuthorID },
			func(s *model.Subscription) *model.User { return s.Subscriber },
		), nil
	}
}

// Users 列出全部用户。include 指定的关联在同一次查询中取出，并写入
// SubscriptionsOf 与 SubscribersOf 的缓存；关闭融合时由嵌套 resolver 照常批量加载。
// 列出的用户同时写入 UserByID 的缓存。
func (l *Loaders) Users(ctx context.Context, include Include) ([]*model.User, error) {
	if !l.fuse {
		include = 0
	}
	users, err := l.users.List(ctx, include.preload())
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		l.UserByID.Prime(u.ID, u)
		if include.Has(IncludeSubscriptions) {
			authors := make([]*model.User, 0, len(u.Subscriptions))
			for _, s := range u.Subscriptions {
				authors = append(authors, s.Author)
			}
			l.SubscriptionsOf.Prime(u.ID, authors)
		}
		if include.Has(IncludeSubscribers) {
			subscribers := make([]*model.User, 0, len(u.Subscribers))
			for _, s := range u.Subscribers {
				subscribers = append(subscribers, s.Subscriber)
			}
			l.SubscribersOf.Prime(u.ID, subscribers)
		}
	}
	return users, nil
}

// ClearUser 清除该用户 id 下的全部缓存
func (l *Loaders) ClearUser(id string) {
	l.UserByID.Clear(id)
	l.ProfileByUserID.Clear(id)
	l.PostsByAuthorID.Clear(id)
	l.SubscriptionsOf.Clear(id)
	l.SubscribersOf.Clear(id)
}

// ClearSubscription 清除 subscriberID → authorID 订阅关系两个方向的缓存
func (l *Loaders) ClearSubscription(subscriberID, authorID string) {
	l.SubscriptionsOf.Clear(subscriberID)
	l.SubscribersOf.Clear(authorID)
}
