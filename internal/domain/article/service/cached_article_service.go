package service

import (
	"context"
	"strings"
	"time"

	"community_hub/internal/domain/article/model"
	"community_hub/pkg/cache"
	"community_hub/pkg/logger"
	"community_hub/pkg/metrics"

	"go.uber.org/zap"
)

const articleListTTL = 10 * time.Minute

// CachedArticleService 按分类缓存文章列表
type CachedArticleService struct {
	ArticleService
	cache   cache.CacheService
	metrics *metrics.MetricsCollector
}

func NewCachedArticleService(inner ArticleService, c cache.CacheService, collector *metrics.MetricsCollector) ArticleService {
	return &CachedArticleService{ArticleService: inner, cache: c, metrics: collector}
}

// articleListKey 全部列表与分类列表使用不同前缀，名为 all 的分类不会与全部列表冲突
func articleListKey(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return "articles:list"
	}
	return "articles:category:" + category
}

func (s *CachedArticleService) ListArticles(ctx context.Context, category string) ([]model.Article, error) {
	key := articleListKey(category)

	var articles []model.Article
	if err := s.cache.Get(ctx, key, &articles); err == nil {
		s.metrics.RecordCache("articles", true)
		return articles, nil
	}
	s.metrics.RecordCache("articles", false)

	articles, err := s.ArticleService.ListArticles(ctx, category)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, articles, articleListTTL); err != nil {
		logger.Log.Warn("cache article list failed", zap.String("key", key), zap.Error(err))
	}
	return articles, nil
}

// CreateArticle 新文章会出现在全部列表和所属分类列表中，清空所有文章缓存
func (s *CachedArticleService) CreateArticle(ctx context.Context, input ArticleInput) (*model.Article, error) {
	article, err := s.ArticleService.CreateArticle(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.cache.InvalidatePattern(ctx, "articles:*"); err != nil {
		logger.Log.Warn("invalidate article cache failed", zap.Error(err))
	}
	return article, nil
}
