package handler

import (
	"context"
	"net/http"

	"community_hub/internal/domain/group/model"
	"community_hub/internal/domain/group/service"
	"community_hub/internal/pkg/middleware"
	"community_hub/pkg/response"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	service service.GroupService
}

func NewGroupHandler(s service.GroupService) *GroupHandler {
	return &GroupHandler{service: s}
}

// CreateGroupInput 创建群组输入
type CreateGroupInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// MembershipInput 加入/退出/关注/取关输入，userId 可省略，若提供必须与当前用户一致
type MembershipInput struct {
	UserID  string `json:"userId"`
	GroupID string `json:"groupId" binding:"required"`
}

// ListGroups 群组列表
// @Summary 群组列表
// @Tags Group
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Group}
// @Router /api/groups [get]
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.service.ListGroups(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, groups)
}

// GetGroup 群组详情（成员与帖子）
// @Summary 群组详情
// @Tags Group
// @Param id path string true "群组ID"
// @Success 200 {object} response.Response{data=model.Group}
// @Router /api/groups/{id} [get]
func (h *GroupHandler) GetGroup(c *gin.Context) {
	group, err := h.service.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, group)
}

// GetGroupPosts 群组下的帖子
// @Summary 群组帖子（新的在前）
// @Tags Group
// @Param id path string true "群组ID"
// @Success 200 {object} response.Response
// @Router /api/groups/{id}/posts [get]
func (h *GroupHandler) GetGroupPosts(c *gin.Context) {
	group, err := h.service.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, group.Posts)
}

// CreateGroup 创建群组（管理员）
// @Summary 创建群组
// @Tags Group
// @Accept json
// @Param input body CreateGroupInput true "群组信息"
// @Success 200 {object} response.Response{data=model.Group}
// @Router /api/groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var input CreateGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	group, err := h.service.CreateGroup(c.Request.Context(), input.Name, input.Image, input.Description)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, group)
}

// Join 加入群组
// @Summary 加入群组，重复加入无副作用
// @Tags Group
// @Accept json
// @Param input body MembershipInput true "群组ID"
// @Success 200 {object} response.Response{data=model.Group}
// @Router /api/groups/join [post]
func (h *GroupHandler) Join(c *gin.Context) { h.membership(c, h.service.Join) }

// Leave 退出群组
// @Summary 退出群组
// @Tags Group
// @Accept json
// @Param input body MembershipInput true "群组ID"
// @Success 200 {object} response.Response{data=model.Group}
// @Router /api/groups/leave [post]
func (h *GroupHandler) Leave(c *gin.Context) { h.membership(c, h.service.Leave) }

// Follow 关注群组
// @Summary 关注群组，重复关注无副作用
// @Tags Group
// @Accept json
// @Param input body MembershipInput true "群组ID"
// @Success 200 {object} response.Response{data=model.Group}
// @Router /api/groups/follow [post]
func (h *GroupHandler) Follow(c *gin.Context) { h.membership(c, h.service.Follow) }

// Unfollow 取消关注
// @Summary 取消关注群组
// @Tags Group
// @Accept json
// @Param input body MembershipInput true "群组ID"
// @Success 200 {object} response.Response{data=model.Group}
// @Router /api/groups/unfollow [post]
func (h *GroupHandler) Unfollow(c *gin.Context) { h.membership(c, h.service.Unfollow) }

type membershipFunc func(ctx context.Context, userID, groupID string) (*model.Group, error)

func (h *GroupHandler) membership(c *gin.Context, fn membershipFunc) {
	var input MembershipInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.CurrentUserID(c)
	if input.UserID != "" && input.UserID != userID {
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, "cannot act on behalf of another user")
		return
	}

	group, err := fn(c.Request.Context(), userID, input.GroupID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, group)
}
