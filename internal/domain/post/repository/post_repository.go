package repository

import (
	"context"

	"community_hub/internal/domain/post/model"
	userModel "community_hub/internal/domain/user/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	// --- Post ---
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	GetPosts(ctx context.Context, offset, limit int) ([]model.Post, int64, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)

	// --- Reaction ---
	AddReaction(ctx context.Context, postID, userID string, kind model.ReactionKind) error
	RemoveReaction(ctx context.Context, postID, userID string, kind model.ReactionKind) error

	// --- Comment ---
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id string) (*model.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID string) ([]model.Comment, error)
	AdjustCommentLikes(ctx context.Context, id string, delta int) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func publicUser(db *gorm.DB) *gorm.DB {
	return db.Select(userModel.PublicColumns)
}

func oldestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("comments.created_at ASC")
}

// populated 预加载作者、表态与评论
func (r *postRepository) populated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author", publicUser).
		Preload("Reactions").
		Preload("Comments", oldestFirst).
		Preload("Comments.Author", publicUser)
}

// --- Post ---

func (r *postRepository) CreatePost(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

func (r *postRepository) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if err := r.populated(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetPosts(ctx context.Context, offset, limit int) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	if err := r.db.WithContext(ctx).Model(&model.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.populated(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) UpdatePost(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).
		Model(post).
		Select("type", "title", "content", "image", "location", "date").
		Updates(post).Error
}

// DeletePost 在同一事务中删除帖子、表态与评论
func (r *postRepository) DeletePost(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *postRepository) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// --- Reaction ---

func (r *postRepository) AddReaction(ctx context.Context, postID, userID string, kind model.ReactionKind) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Reaction{PostID: postID, UserID: userID, Kind: kind}).Error
}

func (r *postRepository) RemoveReaction(ctx context.Context, postID, userID string, kind model.ReactionKind) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ? AND kind = ?", postID, userID, kind).
		Delete(&model.Reaction{}).Error
}

// --- Comment ---

func (r *postRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

func (r *postRepository) GetCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Preload("Author", publicUser).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *postRepository) GetCommentsByPostID(ctx context.Context, postID string) ([]model.Comment, error) {
	comments := make([]model.Comment, 0)
	err := r.db.WithContext(ctx).
		Preload("Author", publicUser).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// AdjustCommentLikes 调整评论点赞数，不低于 0
func (r *postRepository) AdjustCommentLikes(ctx context.Context, id string, delta int) error {
	res := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("GREATEST(likes + ?, 0)", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
