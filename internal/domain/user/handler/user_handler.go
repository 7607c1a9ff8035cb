package handler

import (
	"community_hub/internal/domain/user/service"
	"community_hub/internal/pkg/middleware"
	"community_hub/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建处理器
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterInput 注册输入
type RegisterInput struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"` // bcrypt 最多 72 字节
}

// LoginInput 登录输入
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateInput 更新资料输入
type UpdateInput struct {
	Name   string `json:"name" binding:"max=100"`
	Avatar string `json:"avatar"`
}

// Register 注册
// @Summary 注册
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body RegisterInput true "注册信息"
// @Success 200 {object} response.Response{data=service.AuthResult}
// @Router /api/auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Register(c.Request.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, result)
}

// Login 登录
// @Summary 登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body LoginInput true "登录信息"
// @Success 200 {object} response.Response{data=service.AuthResult}
// @Router /api/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, result)
}

// Me 当前用户资料
func (h *UserHandler) Me(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, profile)
}

// GetUser 获取用户资料
func (h *UserHandler) GetUser(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, profile)
}

// GetUserByEmail 根据邮箱查找用户
func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	user, err := h.service.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateUser 更新资料，只能修改自己
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var input UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), input.Name, input.Avatar)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, user)
}
