package article

import (
	"community_hub/internal/domain/article/handler"
	"community_hub/internal/domain/article/repository"
	"community_hub/internal/domain/article/service"
	"community_hub/internal/pkg/middleware"
	"community_hub/internal/pkg/registry"
)

// ArticleModule 文章模块
type ArticleModule struct{}

func init() {
	registry.Register(&ArticleModule{})
}

func (m *ArticleModule) Name() string {
	return "article"
}

func (m *ArticleModule) Priority() int {
	return 20
}

func (m *ArticleModule) Init(ctx *registry.ModuleContext) error {
	articleService := service.NewArticleService(repository.NewArticleRepository(ctx.DB))
	if ctx.Cache != nil {
		articleService = service.NewCachedArticleService(articleService, ctx.Cache, ctx.Metrics)
	}
	h := handler.NewArticleHandler(articleService)

	g := ctx.API.Group("/articles")
	g.GET("", h.ListArticles)
	g.GET("/:category", h.ListArticles)
	g.POST("", middleware.AuthMiddleware(ctx.JWT), h.CreateArticle)
	return nil
}
