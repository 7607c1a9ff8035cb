package registry

import (
	"sort"

	"community_hub/internal/pkg/config"
	"community_hub/internal/pkg/uploader"
	"community_hub/internal/pkg/worker"
	"community_hub/pkg/cache"
	"community_hub/pkg/logger"
	"community_hub/pkg/metrics"
	"community_hub/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ModuleContext 模块初始化所需的上下文
type ModuleContext struct {
	DB     *gorm.DB
	Redis  *redis.Client // 未配置 Redis 时为 nil
	Cache  cache.CacheService
	Router *gin.Engine
	API    *gin.RouterGroup // /api 路由组
	Config *config.Config

	JWT      *utils.JWTManager
	Uploader uploader.Uploader
	Cleanup  *worker.CleanupPool
	Metrics  *metrics.MetricsCollector
}

// Module 模块接口
type Module interface {
	// Name 返回模块名称
	Name() string

	// Init 初始化模块（依赖注入、路由注册等）
	Init(ctx *ModuleContext) error

	// Priority 返回初始化优先级（数字越小越先初始化）
	Priority() int
}

// Registry 模块注册表
type Registry struct {
	modules map[string]Module
}

func New() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// Register 注册模块，同名模块后注册的覆盖先注册的
func (r *Registry) Register(module Module) {
	r.modules[module.Name()] = module
}

// Modules 按优先级返回模块，优先级相同时按名称排序
func (r *Registry) Modules() []Module {
	modules := make([]Module, 0, len(r.modules))
	for _, m := range r.modules {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Priority() != modules[j].Priority() {
			return modules[i].Priority() < modules[j].Priority()
		}
		return modules[i].Name() < modules[j].Name()
	})
	return modules
}

// InitModules 按优先级初始化所有模块
func (r *Registry) InitModules(ctx *ModuleContext) error {
	for _, module := range r.Modules() {
		if err := module.Init(ctx); err != nil {
			return errors.Wrapf(err, "init module %s", module.Name())
		}
		logger.Log.Info("module initialized", zap.String("module", module.Name()))
	}
	return nil
}

// defaultRegistry 全局模块注册表，各模块在 init() 中注册
var defaultRegistry = New()

// Register 注册模块到全局注册表
func Register(module Module) {
	defaultRegistry.Register(module)
}

// InitModules 初始化全局注册表中的模块
func InitModules(ctx *ModuleContext) error {
	return defaultRegistry.InitModules(ctx)
}
