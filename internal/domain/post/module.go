package post

import (
	groupRepository "community_hub/internal/domain/group/repository"
	groupService "community_hub/internal/domain/group/service"
	"community_hub/internal/domain/post/handler"
	"community_hub/internal/domain/post/repository"
	"community_hub/internal/domain/post/service"
	"community_hub/internal/pkg/middleware"
	"community_hub/internal/pkg/registry"
)

// PostModule 帖子模块
type PostModule struct{}

func init() {
	registry.Register(&PostModule{})
}

func (m *PostModule) Name() string {
	return "post"
}

func (m *PostModule) Priority() int {
	return 10
}

func (m *PostModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	groups := groupService.NewGroupService(groupRepository.NewGroupRepository(ctx.DB), ctx.Metrics)
	postRepo := repository.NewPostRepository(ctx.DB)

	var images service.ImageOwner
	if ctx.Uploader != nil {
		images = ctx.Uploader
	}
	var cleanup service.CleanupScheduler
	if ctx.Cleanup != nil {
		cleanup = ctx.Cleanup
	}
	postService := service.NewPostService(postRepo, groups, images, cleanup, ctx.Metrics)
	postHandler := handler.NewPostHandler(postService)

	// 2. 路由注册
	setupRoutes(ctx, postHandler)

	return nil
}

func setupRoutes(ctx *registry.ModuleContext, h *handler.PostHandler) {
	auth := middleware.AuthMiddleware(ctx.JWT)

	g := ctx.API.Group("/posts")

	// 公开
	g.GET("", h.ListPosts)
	g.GET("/:id", h.GetPost)
	g.GET("/:id/comments", h.GetComments)

	// 需要登录
	authed := g.Group("", auth)
	{
		authed.POST("", h.CreatePost)
		authed.PUT("/:id", h.UpdatePost)
		authed.DELETE("/:id", h.DeletePost)
		authed.POST("/:id/like", h.Like)
		authed.POST("/:id/unlike", h.Unlike)
		authed.POST("/:id/dislike", h.Dislike)
		authed.POST("/:id/undislike", h.Undislike)
		authed.POST("/:id/comments", h.AddComment)
	}

	comments := ctx.API.Group("/comments", auth)
	{
		comments.POST("/:id/like", h.LikeComment)
		comments.POST("/:id/unlike", h.UnlikeComment)
	}

	ctx.API.POST("/groups/:id/posts", auth, h.CreateGroupPost)
}
