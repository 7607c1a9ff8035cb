package model

import (
	"time"

	userModel "community_hub/internal/domain/user/model"
	baseModel "community_hub/pkg/model"

	"gorm.io/gorm"
)

// PostType 帖子类型
type PostType string

const (
	PostTypeArticle   PostType = "Article"
	PostTypeEducation PostType = "Education"
	PostTypeMeetup    PostType = "Meetup"
	PostTypeJob       PostType = "Job"
)

// Valid 是否为已知类型
func (t PostType) Valid() bool {
	switch t {
	case PostTypeArticle, PostTypeEducation, PostTypeMeetup, PostTypeJob:
		return true
	}
	return false
}

// Post 帖子模型
type Post struct {
	baseModel.BaseModel
	Type     PostType        `gorm:"type:varchar(20);not null" json:"type"`
	Title    string          `gorm:"type:varchar(200);not null" json:"title"`
	Content  string          `gorm:"type:text;not null" json:"content"`
	Image    string          `json:"image,omitempty"`
	AuthorID string          `gorm:"type:uuid;not null;index" json:"authorId"`
	Author   *userModel.User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	GroupID  *string         `gorm:"type:uuid;index" json:"groupId,omitempty"`
	Views    int             `gorm:"not null;default:0" json:"views"`

	// Meetup 字段
	Location string     `json:"location,omitempty"`
	Date     *time.Time `json:"date,omitempty"`

	Reactions []Reaction `gorm:"foreignKey:PostID" json:"-"`
	Comments  []Comment  `gorm:"foreignKey:PostID" json:"comments"`

	// 由 Reactions 派生
	Likes    []string `gorm:"-" json:"likes"`
	Dislikes []string `gorm:"-" json:"dislikes"`
}

// AfterFind 钩子：根据已预加载的 Reactions 填充 Likes/Dislikes
func (p *Post) AfterFind(tx *gorm.DB) error {
	p.Normalize()
	return nil
}

// Normalize 从 Reactions 重新计算 Likes/Dislikes，并保证集合字段不为 nil
func (p *Post) Normalize() {
	p.Likes = make([]string, 0)
	p.Dislikes = make([]string, 0)
	for _, r := range p.Reactions {
		switch r.Kind {
		case ReactionLike:
			p.Likes = append(p.Likes, r.UserID)
		case ReactionDislike:
			p.Dislikes = append(p.Dislikes, r.UserID)
		}
	}
	if p.Comments == nil {
		p.Comments = make([]Comment, 0)
	}
}

// ReactionKind 表态类型
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Reaction 用户对帖子的点赞/点踩，主键 (post_id, user_id, kind) 保证集合语义
type Reaction struct {
	PostID    string       `gorm:"primaryKey;type:uuid" json:"postId"`
	UserID    string       `gorm:"primaryKey;type:uuid" json:"userId"`
	Kind      ReactionKind `gorm:"primaryKey;type:varchar(10)" json:"kind"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (Reaction) TableName() string {
	return "post_reactions"
}

// Comment 评论模型
type Comment struct {
	baseModel.BaseModel
	PostID   string          `gorm:"type:uuid;not null;index" json:"postId"`
	AuthorID string          `gorm:"type:uuid;not null" json:"authorId"`
	Author   *userModel.User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content  string          `gorm:"type:text;not null" json:"content"`
	Likes    int             `gorm:"not null;default:0" json:"likes"`
}
