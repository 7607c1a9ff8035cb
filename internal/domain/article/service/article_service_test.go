package service

import (
	"context"
	"testing"

	"community_hub/internal/domain/article/model"
	"community_hub/pkg/apperr"
	"community_hub/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockArticleRepository is a mock of ArticleRepository
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, article *model.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) List(ctx context.Context, category string) ([]model.Article, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]model.Article), args.Error(1)
}

func TestArticleService(t *testing.T) {
	ctx := context.Background()

	t.Run("Create stores the author snapshot", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleService(repo)
		repo.On("Create", ctx, mock.AnythingOfType("*model.Article")).Return(nil)

		article, err := svc.CreateArticle(ctx, ArticleInput{
			Type:     "Article",
			Title:    "Meet RegulaBrands",
			Content:  "fonts",
			Author:   model.ArticleAuthor{Name: "Sarthak Kamra", Designation: "UX Designer"},
			Category: "Design",
		})
		require.NoError(t, err)
		assert.Equal(t, "Sarthak Kamra", article.Author.Data().Name)
		assert.Equal(t, "Design", article.Category)
	})

	t.Run("Missing title", func(t *testing.T) {
		svc := NewArticleService(new(MockArticleRepository))
		_, err := svc.CreateArticle(ctx, ArticleInput{Content: "x"})
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("List filters by category", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := NewArticleService(repo)
		repo.On("List", ctx, "Finance").Return([]model.Article{{Title: "Tax"}}, nil)

		articles, err := svc.ListArticles(ctx, " Finance ")
		require.NoError(t, err)
		assert.Len(t, articles, 1)
	})
}

func TestCachedArticleService(t *testing.T) {
	ctx := context.Background()
	repo := new(MockArticleRepository)
	repo.On("List", ctx, "Design").Return([]model.Article{{Title: "Fonts"}}, nil)
	repo.On("List", ctx, "").Return([]model.Article{{Title: "Fonts"}}, nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := NewCachedArticleService(NewArticleService(repo), cache.NewMemoryCache(), nil)

	for i := 0; i < 3; i++ {
		_, err := svc.ListArticles(ctx, "Design")
		require.NoError(t, err)
		_, err = svc.ListArticles(ctx, "")
		require.NoError(t, err)
	}
	repo.AssertNumberOfCalls(t, "List", 2)

	_, err := svc.CreateArticle(ctx, ArticleInput{Title: "New", Content: "x", Category: "Design"})
	require.NoError(t, err)

	_, err = svc.ListArticles(ctx, "Design")
	require.NoError(t, err)
	_, err = svc.ListArticles(ctx, "")
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 4)
}

func TestCachedArticleService_AllCategoryDoesNotShareUnfilteredList(t *testing.T) {
	ctx := context.Background()
	repo := new(MockArticleRepository)
	repo.On("List", ctx, "").Return([]model.Article{{Title: "Fonts"}, {Title: "Grids"}}, nil)
	repo.On("List", ctx, "all").Return([]model.Article{{Title: "Grids"}}, nil)

	svc := NewCachedArticleService(NewArticleService(repo), cache.NewMemoryCache(), nil)

	everything, err := svc.ListArticles(ctx, "")
	require.NoError(t, err)
	assert.Len(t, everything, 2)

	named, err := svc.ListArticles(ctx, "all")
	require.NoError(t, err)
	require.Len(t, named, 1)
	assert.Equal(t, "Grids", named[0].Title)

	assert.NotEqual(t, articleListKey(""), articleListKey("all"))
	repo.AssertNumberOfCalls(t, "List", 2)
}
