package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-graphql/internal/model"
)

// SeedUsers 创建 n 个用户 u0..u{n-1}，创建时间递增
func SeedUsers(tb testing.TB, db *gorm.DB, n int) []*model.User {
	tb.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	users := make([]*model.User, n)
	for i := range users {
		users[i] = &model.User{
			ID:        uuid.NewString(),
			Name:      fmt.Sprintf("u%d", i),
			Balance:   float64(i) * 10,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
	}
	if n > 0 {
		if err := db.Create(&users).Error; err != nil {
			tb.Fatalf("seed users: %v", err)
		}
	}
	return users
}

// SeedPosts 为 author 创建 n 篇帖子
func SeedPosts(tb testing.TB, db *gorm.DB, author *model.User, n int) []*model.Post {
	tb.Helper()
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	posts := make([]*model.Post, n)
	for i := range posts {
		posts[i] = &model.Post{
			ID:        uuid.NewString(),
			Title:     fmt.Sprintf("%s-post-%d", author.Name, i),
			Content:   "content",
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
	}
	if n > 0 {
		if err := db.Create(&posts).Error; err != nil {
			tb.Fatalf("seed posts: %v", err)
		}
	}
	return posts
}

// SeedProfile 为 user 创建资料
func SeedProfile(tb testing.TB, db *gorm.DB, user *model.User, mt model.MemberTypeID) *model.Profile {
	tb.Helper()
	p := &model.Profile{ID: uuid.NewString(), UserID: user.ID, IsMale: true, YearOfBirth: 1990, MemberTypeID: mt}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

// Subscribe 让 subscriber 订阅 author
func Subscribe(tb testing.TB, db *gorm.DB, subscriber, author *model.User) {
	tb.Helper()
	seq := dbSeq.Add(1)
	s := &model.Subscription{
		SubscriberID: subscriber.ID,
		AuthorID:     author.ID,
		CreatedAt:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(seq) * time.Second),
	}
	if err := db.Create(s).Error; err != nil {
		tb.Fatalf("seed subscription: %v", err)
	}
}
