package common

import (
	commonHandler "community_hub/internal/pkg/common"
	"community_hub/internal/pkg/middleware"
	"community_hub/internal/pkg/registry"
	"community_hub/internal/pkg/uploader"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CommonModule 通用功能模块
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	h := commonHandler.NewCommonHandler(ctx.Uploader, ctx.DB)

	ctx.API.GET("/health", h.Health)
	if ctx.Uploader != nil {
		ctx.API.POST("/upload", middleware.AuthMiddleware(ctx.JWT), h.UploadImage)
	}

	// 本地存储时提供静态访问
	if local, ok := ctx.Uploader.(*uploader.LocalUploader); ok {
		ctx.Router.Static(local.URLPrefix(), local.Dir())
	}

	ctx.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{})))
	return nil
}
