package service

import (
	"context"
	"testing"

	"community_hub/internal/domain/group/model"
	"community_hub/pkg/cache"
	baseModel "community_hub/pkg/model"

	"github.com/stretchr/testify/assert"
)

func TestCachedGroupService(t *testing.T) {
	ctx := context.Background()
	groupID := baseModel.NewID()
	userID := baseModel.NewID()
	groups := []model.Group{{BaseModel: baseModel.BaseModel{ID: groupID}, Name: "ATG World"}}

	repo := new(MockGroupRepository)
	repo.On("List", ctx).Return(groups, nil).Twice()
	repo.On("AddMember", ctx, groupID, userID).Return(true, nil)
	repo.On("GetDetail", ctx, groupID).Return(&groups[0], nil)

	svc := NewCachedGroupService(NewGroupService(repo, nil), cache.NewMemoryCache(), nil)

	first, err := svc.ListGroups(ctx)
	assert.NoError(t, err)
	second, err := svc.ListGroups(ctx)
	assert.NoError(t, err)
	assert.Equal(t, first[0].Name, second[0].Name)
	repo.AssertNumberOfCalls(t, "List", 1)

	// 加入后列表缓存失效
	_, err = svc.Join(ctx, userID, groupID)
	assert.NoError(t, err)
	_, err = svc.ListGroups(ctx)
	assert.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 2)
}
