package service

import (
	"context"
	"strings"

	"community_hub/internal/domain/article/model"
	"community_hub/internal/domain/article/repository"
	"community_hub/pkg/apperr"

	"gorm.io/datatypes"
)

// ArticleInput 创建文章输入
type ArticleInput struct {
	Type     string
	Title    string
	Content  string
	Image    string
	Author   model.ArticleAuthor
	Category string
	ReadTime string
}

type ArticleService interface {
	ListArticles(ctx context.Context, category string) ([]model.Article, error)
	CreateArticle(ctx context.Context, input ArticleInput) (*model.Article, error)
}

type articleService struct {
	repo repository.ArticleRepository
}

func NewArticleService(repo repository.ArticleRepository) ArticleService {
	return &articleService{repo: repo}
}

func (s *articleService) ListArticles(ctx context.Context, category string) ([]model.Article, error) {
	articles, err := s.repo.List(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, apperr.Internal(err, "list articles")
	}
	return articles, nil
}

func (s *articleService) CreateArticle(ctx context.Context, input ArticleInput) (*model.Article, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, apperr.Validation("title and content are required")
	}

	article := &model.Article{
		Type:     input.Type,
		Title:    strings.TrimSpace(input.Title),
		Content:  input.Content,
		Image:    input.Image,
		Author:   datatypes.NewJSONType(input.Author),
		Category: strings.TrimSpace(input.Category),
		ReadTime: input.ReadTime,
	}
	if err := s.repo.Create(ctx, article); err != nil {
		return nil, apperr.FromStore(err, "article")
	}
	return article, nil
}
