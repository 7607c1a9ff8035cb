package service

import (
	"context"
	"strings"

	"community_hub/internal/domain/group/model"
	"community_hub/internal/domain/group/repository"
	"community_hub/pkg/apperr"
	"community_hub/pkg/logger"
	"community_hub/pkg/metrics"
	baseModel "community_hub/pkg/model"

	"go.uber.org/zap"
)

// GroupService 群组服务，负责成员/关注状态与发帖权限
type GroupService interface {
	ListGroups(ctx context.Context) ([]model.Group, error)
	GetGroup(ctx context.Context, id string) (*model.Group, error)
	CreateGroup(ctx context.Context, name, image, description string) (*model.Group, error)

	Join(ctx context.Context, userID, groupID string) (*model.Group, error)
	Leave(ctx context.Context, userID, groupID string) (*model.Group, error)
	Follow(ctx context.Context, userID, groupID string) (*model.Group, error)
	Unfollow(ctx context.Context, userID, groupID string) (*model.Group, error)

	// CanCreatePost 用户是否可以在群组中发帖（必须是成员）
	CanCreatePost(ctx context.Context, userID, groupID string) (bool, error)
}

type groupService struct {
	repo    repository.GroupRepository
	metrics *metrics.MetricsCollector
}

func NewGroupService(repo repository.GroupRepository, collector *metrics.MetricsCollector) GroupService {
	return &groupService{repo: repo, metrics: collector}
}

func (s *groupService) ListGroups(ctx context.Context) ([]model.Group, error) {
	groups, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list groups")
	}
	if groups == nil {
		groups = make([]model.Group, 0)
	}
	return groups, nil
}

func (s *groupService) GetGroup(ctx context.Context, id string) (*model.Group, error) {
	if !baseModel.IsValidID(id) {
		return nil, apperr.Validation("invalid group id")
	}
	group, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "group")
	}
	return group, nil
}

func (s *groupService) CreateGroup(ctx context.Context, name, image, description string) (*model.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("group name is required")
	}

	group := &model.Group{
		Name:        name,
		Image:       image,
		Description: description,
	}
	if err := s.repo.Create(ctx, group); err != nil {
		return nil, apperr.FromStore(err, "group")
	}
	return group, nil
}

// transitionFunc 成员/关注状态变更
type transitionFunc func(ctx context.Context, groupID, userID string) (bool, error)

func (s *groupService) transition(ctx context.Context, action string, fn transitionFunc, userID, groupID string) (*model.Group, error) {
	if !baseModel.IsValidID(groupID) {
		return nil, apperr.Validation("invalid group id")
	}

	changed, err := fn(ctx, groupID, userID)
	if err != nil {
		return nil, apperr.FromStore(err, "group")
	}
	if changed {
		s.metrics.RecordMembership(action)
		logger.Log.Info("group membership changed",
			zap.String("action", action),
			zap.String("group_id", groupID),
			zap.String("user_id", userID),
		)
	}

	return s.GetGroup(ctx, groupID)
}

func (s *groupService) Join(ctx context.Context, userID, groupID string) (*model.Group, error) {
	return s.transition(ctx, "join", s.repo.AddMember, userID, groupID)
}

func (s *groupService) Leave(ctx context.Context, userID, groupID string) (*model.Group, error) {
	return s.transition(ctx, "leave", s.repo.RemoveMember, userID, groupID)
}

func (s *groupService) Follow(ctx context.Context, userID, groupID string) (*model.Group, error) {
	return s.transition(ctx, "follow", s.repo.AddFollower, userID, groupID)
}

func (s *groupService) Unfollow(ctx context.Context, userID, groupID string) (*model.Group, error) {
	return s.transition(ctx, "unfollow", s.repo.RemoveFollower, userID, groupID)
}

func (s *groupService) CanCreatePost(ctx context.Context, userID, groupID string) (bool, error) {
	if !baseModel.IsValidID(groupID) {
		return false, apperr.Validation("invalid group id")
	}
	if _, err := s.repo.GetByID(ctx, groupID); err != nil {
		return false, apperr.FromStore(err, "group")
	}
	ok, err := s.repo.IsMember(ctx, groupID, userID)
	if err != nil {
		return false, apperr.Internal(err, "check membership")
	}
	return ok, nil
}
