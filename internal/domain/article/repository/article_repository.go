package repository

import (
	"context"

	"community_hub/internal/domain/article/model"

	"gorm.io/gorm"
)

type ArticleRepository interface {
	Create(ctx context.Context, article *model.Article) error
	// List 按创建时间倒序，category 为空时返回全部
	List(ctx context.Context, category string) ([]model.Article, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *model.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *articleRepository) List(ctx context.Context, category string) ([]model.Article, error) {
	articles := make([]model.Article, 0)
	query := r.db.WithContext(ctx).Model(&model.Article{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("created_at DESC").Find(&articles).Error
	return articles, err
}
