package model

import "time"

// Subscription 订阅关系（subscriber 订阅 author）
// 复合主键 (subscriber_id, author_id)，避免重复订阅
type Subscription struct {
	SubscriberID string `gorm:"primaryKey;type:varchar(36)"`
	AuthorID     string `gorm:"primaryKey;type:varchar(36);index:idx_subscription_author"`

	Subscriber *User `gorm:"foreignKey:SubscriberID;references:ID;constraint:OnDelete:CASCADE"`
	Author     *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
}

func (Subscription) TableName() string { return "subscriptions" }
