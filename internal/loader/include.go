package loader

import "github.com/d60-Lab/gin-graphql/internal/repository"

// Include 根查询 users 需要与用户一起查出的关联集合
type Include uint8

const (
	IncludeSubscriptions Include = 1 << iota // User.userSubscribedTo
	IncludeSubscribers                       // User.subscribedToUser
)

// Has 判断 f 中的关联是否都包含在 i 中
func (i Include) Has(f Include) bool { return i&f == f }

func (i Include) preload() repository.UserPreload {
	return repository.UserPreload{
		Subscriptions: i.Has(IncludeSubscriptions),
		Subscribers:   i.Has(IncludeSubscribers),
	}
}
