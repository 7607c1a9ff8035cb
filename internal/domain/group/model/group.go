package model

import (
	"time"

	postModel "community_hub/internal/domain/post/model"
	userModel "community_hub/internal/domain/user/model"
	baseModel "community_hub/pkg/model"
)

// Group 群组模型
type Group struct {
	baseModel.BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Image       string `json:"image"`
	Description string `gorm:"type:text" json:"description"`
	// Followers 成员数与关注数之和，只在状态真正变化时增减
	Followers   int   `gorm:"not null;default:0" json:"followers"`
	MemberCount int64 `gorm:"->;-:migration" json:"memberCount"`

	Members []userModel.User `gorm:"many2many:group_members" json:"members,omitempty"`
	Posts   []postModel.Post `gorm:"foreignKey:GroupID" json:"posts,omitempty"`
}

// Membership 群组成员关系，group_members 是成员集合的唯一来源
type Membership struct {
	GroupID   string `gorm:"primaryKey;type:uuid"`
	UserID    string `gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time
}

func (Membership) TableName() string {
	return "group_members"
}

// Follow 群组关注关系
type Follow struct {
	GroupID   string `gorm:"primaryKey;type:uuid"`
	UserID    string `gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time
}

func (Follow) TableName() string {
	return "group_followers"
}
