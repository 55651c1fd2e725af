package repository

import "gorm.io/gorm"

// Repositories 汇总全部仓储，便于在入口处一次性构造
type Repositories struct {
	Users         UserRepository
	Profiles      ProfileRepository
	Posts         PostRepository
	MemberTypes   MemberTypeRepository
	Subscriptions SubscriptionRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Profiles:      NewProfileRepository(db),
		Posts:         NewPostRepository(db),
		MemberTypes:   NewMemberTypeRepository(db),
		Subscriptions: NewSubscriptionRepository(db),
	}
}
