package handler

import (
	"context"
	"time"

	"community_hub/internal/domain/post/model"
	"community_hub/internal/domain/post/service"
	"community_hub/internal/pkg/middleware"
	"community_hub/pkg/response"
	"community_hub/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	service service.PostService
}

func NewPostHandler(s service.PostService) *PostHandler {
	return &PostHandler{service: s}
}

// PostInput 发布/编辑帖子输入
type PostInput struct {
	Type     string     `json:"type" binding:"required,oneof=Article Education Meetup Job"`
	Title    string     `json:"title" binding:"required,max=200"`
	Content  string     `json:"content" binding:"required"`
	Image    string     `json:"image"`
	GroupID  *string    `json:"groupId"`
	Location string     `json:"location"`
	Date     *time.Time `json:"date"`
}

func (in PostInput) toService() service.PostInput {
	return service.PostInput{
		Type:     model.PostType(in.Type),
		Title:    in.Title,
		Content:  in.Content,
		Image:    in.Image,
		GroupID:  in.GroupID,
		Location: in.Location,
		Date:     in.Date,
	}
}

// CommentInput 评论输入
type CommentInput struct {
	Text string `json:"text" binding:"required"`
}

// ListPosts 帖子列表
// @Summary 帖子列表（新的在前）
// @Tags Post
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /api/posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ListPosts(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, result)
}

// GetPost 帖子详情，浏览数 +1
// @Summary 帖子详情
// @Tags Post
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Router /api/posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.service.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, post)
}

// CreatePost 发布帖子
// @Summary 发布帖子，指定 groupId 时必须是群组成员
// @Tags Post
// @Accept json
// @Param input body PostInput true "帖子内容"
// @Success 200 {object} response.Response{data=model.Post}
// @Router /api/posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), middleware.CurrentUserID(c), input.toService())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, post)
}

// CreateGroupPost 在群组内发帖，路径中的群组 ID 优先
// @Summary 在群组内发帖，必须是群组成员
// @Tags Post
// @Accept json
// @Param id path string true "群组ID"
// @Param input body PostInput true "帖子内容"
// @Success 200 {object} response.Response{data=model.Post}
// @Router /api/groups/{id}/posts [post]
func (h *PostHandler) CreateGroupPost(c *gin.Context) {
	var input PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	groupID := c.Param("id")
	input.GroupID = &groupID

	post, err := h.service.CreatePost(c.Request.Context(), middleware.CurrentUserID(c), input.toService())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, post)
}

// UpdatePost 编辑帖子（仅作者）
// @Summary 编辑帖子
// @Tags Post
// @Accept json
// @Param id path string true "帖子ID"
// @Param input body PostInput true "帖子内容"
// @Success 200 {object} response.Response{data=model.Post}
// @Router /api/posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var input PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), input.toService())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost 删除帖子（仅作者）
// @Summary 删除帖子，图片异步清理
// @Tags Post
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Router /api/posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.service.DeletePost(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Post deleted"})
}

// Like 点赞
// @Summary 点赞，重复操作无副作用
// @Tags Post
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Router /api/posts/{id}/like [post]
func (h *PostHandler) Like(c *gin.Context) { h.react(c, h.service.Like) }

// Unlike 取消点赞
// @Summary 取消点赞，重复操作无副作用
// @Tags Post
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Router /api/posts/{id}/unlike [post]
func (h *PostHandler) Unlike(c *gin.Context) { h.react(c, h.service.Unlike) }

// Dislike 点踩
// @Summary 点踩，重复操作无副作用
// @Tags Post
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Router /api/posts/{id}/dislike [post]
func (h *PostHandler) Dislike(c *gin.Context) { h.react(c, h.service.Dislike) }

// Undislike 取消点踩
// @Summary 取消点踩，重复操作无副作用
// @Tags Post
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Router /api/posts/{id}/undislike [post]
func (h *PostHandler) Undislike(c *gin.Context) { h.react(c, h.service.Undislike) }

func (h *PostHandler) react(c *gin.Context, fn func(ctx context.Context, userID, postID string) (*model.Post, error)) {
	post, err := fn(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, post)
}

// AddComment 发表评论
// @Summary 发表评论
// @Tags Comment
// @Accept json
// @Param id path string true "帖子ID"
// @Param input body CommentInput true "评论内容"
// @Success 200 {object} response.Response{data=model.Comment}
// @Router /api/posts/{id}/comments [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), input.Text)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, comment)
}

// GetComments 评论列表（旧的在前）
// @Summary 评论列表
// @Tags Comment
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response{data=[]model.Comment}
// @Router /api/posts/{id}/comments [get]
func (h *PostHandler) GetComments(c *gin.Context) {
	comments, err := h.service.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, comments)
}

// LikeComment 评论点赞
// @Summary 评论点赞
// @Tags Comment
// @Param id path string true "评论ID"
// @Success 200 {object} response.Response{data=model.Comment}
// @Router /api/comments/{id}/like [post]
func (h *PostHandler) LikeComment(c *gin.Context) {
	comment, err := h.service.LikeComment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, comment)
}

// UnlikeComment 取消评论点赞
// @Summary 取消评论点赞，不低于 0
// @Tags Comment
// @Param id path string true "评论ID"
// @Success 200 {object} response.Response{data=model.Comment}
// @Router /api/comments/{id}/unlike [post]
func (h *PostHandler) UnlikeComment(c *gin.Context) {
	comment, err := h.service.UnlikeComment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, comment)
}
