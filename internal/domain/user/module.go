package user

import (
	groupRepository "community_hub/internal/domain/group/repository"
	"community_hub/internal/domain/user/handler"
	"community_hub/internal/domain/user/repository"
	"community_hub/internal/domain/user/service"
	"community_hub/internal/pkg/middleware"
	"community_hub/internal/pkg/registry"
)

// UserModule 用户模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 用户模块优先级最高，因为其他模块可能依赖它
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	userRepo := repository.NewUserRepository(ctx.DB)
	groupRepo := groupRepository.NewGroupRepository(ctx.DB)
	userService := service.NewUserService(userRepo, groupRepo, ctx.JWT)
	userHandler := handler.NewUserHandler(userService)

	// 2. 路由注册
	setupRoutes(ctx, userHandler)

	return nil
}

func setupRoutes(ctx *registry.ModuleContext, h *handler.UserHandler) {
	// 公开路由
	authGroup := ctx.API.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	// 受保护的路由
	userGroup := ctx.API.Group("/users")
	userGroup.Use(middleware.AuthMiddleware(ctx.JWT))
	{
		userGroup.GET("/me", h.Me)
		userGroup.GET("/email/:email", h.GetUserByEmail)
		userGroup.GET("/:id", h.GetUser)
		userGroup.PUT("/:id", h.UpdateUser)
	}
}
