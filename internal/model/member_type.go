package model

// MemberTypeID 会员类型标识（封闭枚举）
type MemberTypeID string

const (
	MemberTypeBasic    MemberTypeID = "BASIC"
	MemberTypeBusiness MemberTypeID = "BUSINESS"
)

// MemberTypeIDs 返回全部合法的会员类型，顺序固定
func MemberTypeIDs() []MemberTypeID {
	return []MemberTypeID{MemberTypeBasic, MemberTypeBusiness}
}

// Valid 判断 id 是否属于封闭集合
func (id MemberTypeID) Valid() bool {
	switch id {
	case MemberTypeBasic, MemberTypeBusiness:
		return true
	}
	return false
}

// MemberType 会员类型（折扣与每月发帖上限）
type MemberType struct {
	ID                 MemberTypeID `json:"id" gorm:"primaryKey;type:varchar(16)"`
	Discount           float64      `json:"discount" gorm:"not null"`
	PostsLimitPerMonth int          `json:"posts_limit_per_month" gorm:"not null"`
}

func (MemberType) TableName() string { return "member_types" }

// DefaultMemberTypes 迁移时写入的种子数据
func DefaultMemberTypes() []MemberType {
	return []MemberType{
		{ID: MemberTypeBasic, Discount: 2.3, PostsLimitPerMonth: 20},
		{ID: MemberTypeBusiness, Discount: 7.7, PostsLimitPerMonth: 100},
	}
}
