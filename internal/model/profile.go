package model

import "time"

// Profile 用户资料（与 User 一对一，user_id 唯一）
type Profile struct {
	ID           string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID       string       `json:"user_id" gorm:"type:varchar(36);uniqueIndex:ux_profile_user;not null"`
	IsMale       bool         `json:"is_male"`
	YearOfBirth  int          `json:"year_of_birth"`
	MemberTypeID MemberTypeID `json:"member_type_id" gorm:"type:varchar(16);index:idx_profile_member_type;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Profile) TableName() string { return "profiles" }
