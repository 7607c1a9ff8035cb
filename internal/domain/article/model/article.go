package model

import (
	baseModel "community_hub/pkg/model"

	"gorm.io/datatypes"
)

// ArticleAuthor 文章作者快照，与用户表无关联
type ArticleAuthor struct {
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	Designation string `json:"designation"`
}

// Article 文章模型
type Article struct {
	baseModel.BaseModel
	Type     string                            `gorm:"type:varchar(20)" json:"type"`
	Title    string                            `gorm:"type:varchar(200);not null" json:"title"`
	Content  string                            `gorm:"type:text;not null" json:"content"`
	Image    string                            `json:"image"`
	Author   datatypes.JSONType[ArticleAuthor] `gorm:"type:jsonb" json:"author"`
	Views    int                               `gorm:"not null;default:0" json:"views"`
	Category string                            `gorm:"type:varchar(50);index" json:"category"`
	ReadTime string                            `gorm:"type:varchar(30)" json:"readTime"`
}
