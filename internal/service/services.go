package service

import "github.com/d60-Lab/gin-graphql/internal/repository"

// Services 汇总 GraphQL 变更使用的全部服务
type Services struct {
	Users         UserService
	Posts         PostService
	Profiles      ProfileService
	Subscriptions SubscriptionService
}

func New(repos *repository.Repositories) *Services {
	return &Services{
		Users:         NewUserService(repos.Users),
		Posts:         NewPostService(repos.Posts, repos.Users),
		Profiles:      NewProfileService(repos.Profiles, repos.Users),
		Subscriptions: NewSubscriptionService(repos.Subscriptions, repos.Users),
	}
}
