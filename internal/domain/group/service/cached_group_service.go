package service

import (
	"context"
	"time"

	"community_hub/internal/domain/group/model"
	"community_hub/pkg/cache"
	"community_hub/pkg/logger"
	"community_hub/pkg/metrics"

	"go.uber.org/zap"
)

const (
	groupListKey = "groups:list"
	groupListTTL = 5 * time.Minute
)

// CachedGroupService 带缓存的群组服务，缓存群组列表
type CachedGroupService struct {
	GroupService
	cache   cache.CacheService
	metrics *metrics.MetricsCollector
}

func NewCachedGroupService(inner GroupService, c cache.CacheService, collector *metrics.MetricsCollector) GroupService {
	return &CachedGroupService{GroupService: inner, cache: c, metrics: collector}
}

func (s *CachedGroupService) ListGroups(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	if err := s.cache.Get(ctx, groupListKey, &groups); err == nil {
		s.metrics.RecordCache("groups", true)
		return groups, nil
	}
	s.metrics.RecordCache("groups", false)

	groups, err := s.GroupService.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, groupListKey, groups, groupListTTL); err != nil {
		logger.Log.Warn("cache group list failed", zap.Error(err))
	}
	return groups, nil
}

func (s *CachedGroupService) CreateGroup(ctx context.Context, name, image, description string) (*model.Group, error) {
	group, err := s.GroupService.CreateGroup(ctx, name, image, description)
	if err == nil {
		s.invalidate(ctx)
	}
	return group, err
}

func (s *CachedGroupService) Join(ctx context.Context, userID, groupID string) (*model.Group, error) {
	return s.afterWrite(ctx)(s.GroupService.Join(ctx, userID, groupID))
}

func (s *CachedGroupService) Leave(ctx context.Context, userID, groupID string) (*model.Group, error) {
	return s.afterWrite(ctx)(s.GroupService.Leave(ctx, userID, groupID))
}

func (s *CachedGroupService) Follow(ctx context.Context, userID, groupID string) (*model.Group, error) {
	return s.afterWrite(ctx)(s.GroupService.Follow(ctx, userID, groupID))
}

func (s *CachedGroupService) Unfollow(ctx context.Context, userID, groupID string) (*model.Group, error) {
	return s.afterWrite(ctx)(s.GroupService.Unfollow(ctx, userID, groupID))
}

// afterWrite 列表中的 followers/memberCount 可能已变化
func (s *CachedGroupService) afterWrite(ctx context.Context) func(*model.Group, error) (*model.Group, error) {
	return func(group *model.Group, err error) (*model.Group, error) {
		if err == nil {
			s.invalidate(ctx)
		}
		return group, err
	}
}

func (s *CachedGroupService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, groupListKey); err != nil {
		logger.Log.Warn("invalidate group list failed", zap.Error(err))
	}
}
