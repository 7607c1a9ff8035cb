package model

import baseModel "community_hub/pkg/model"

// 角色
const (
	RoleUser  = 0
	RoleAdmin = 1
)

// User 用户模型
type User struct {
	baseModel.BaseModel
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // bcrypt 哈希，不返回给前端
	Avatar   string `json:"avatar"`
	Role     int    `gorm:"not null;default:0" json:"role"`
}

// PublicColumns 填充作者等关联时查询的列
var PublicColumns = []string{"id", "name", "email", "avatar"}
