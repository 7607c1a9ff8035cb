package group

import (
	"community_hub/internal/domain/group/handler"
	"community_hub/internal/domain/group/repository"
	"community_hub/internal/domain/group/service"
	"community_hub/internal/pkg/middleware"
	"community_hub/internal/pkg/registry"
)

// GroupModule 群组模块
type GroupModule struct{}

func init() {
	registry.Register(&GroupModule{})
}

func (m *GroupModule) Name() string {
	return "group"
}

func (m *GroupModule) Priority() int {
	return 5
}

func (m *GroupModule) Init(ctx *registry.ModuleContext) error {
	groupRepo := repository.NewGroupRepository(ctx.DB)
	groupService := service.NewGroupService(groupRepo, ctx.Metrics)
	if ctx.Cache != nil {
		groupService = service.NewCachedGroupService(groupService, ctx.Cache, ctx.Metrics)
	}
	groupHandler := handler.NewGroupHandler(groupService)

	setupRoutes(ctx, groupHandler)
	return nil
}

func setupRoutes(ctx *registry.ModuleContext, h *handler.GroupHandler) {
	auth := middleware.AuthMiddleware(ctx.JWT)

	g := ctx.API.Group("/groups")
	g.GET("", h.ListGroups)
	g.GET("/:id", h.GetGroup)
	g.GET("/:id/posts", h.GetGroupPosts)

	member := g.Group("", auth)
	{
		member.POST("/join", h.Join)
		member.POST("/leave", h.Leave)
		member.POST("/follow", h.Follow)
		member.POST("/unfollow", h.Unfollow)
	}

	g.POST("", auth, middleware.AdminMiddleware(), h.CreateGroup)
}
