package model

import "time"

// User 用户（订阅关系双向自引用）
type User struct {
	ID      string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name    string  `json:"name" gorm:"type:varchar(255);not null"`
	Balance float64 `json:"balance" gorm:"not null;default:0"`

	// 仅在显式 Preload 时填充（users 根查询的订阅关系融合）
	Subscriptions []Subscription `json:"-" gorm:"foreignKey:SubscriberID"` // 我订阅的作者
	Subscribers   []Subscription `json:"-" gorm:"foreignKey:AuthorID"`     // 订阅我的用户

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
