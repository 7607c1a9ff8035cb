package handler

import (
	"community_hub/internal/domain/article/model"
	"community_hub/internal/domain/article/service"
	"community_hub/pkg/response"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	service service.ArticleService
}

func NewArticleHandler(s service.ArticleService) *ArticleHandler {
	return &ArticleHandler{service: s}
}

// CreateArticleInput 创建文章输入
type CreateArticleInput struct {
	Type     string              `json:"type"`
	Title    string              `json:"title" binding:"required,max=200"`
	Content  string              `json:"content" binding:"required"`
	Image    string              `json:"image"`
	Author   model.ArticleAuthor `json:"author"`
	Category string              `json:"category" binding:"max=50"`
	ReadTime string              `json:"readTime"`
}

// ListArticles 文章列表，可按分类过滤
// @Summary 文章列表
// @Tags Article
// @Param category path string false "分类"
// @Success 200 {object} response.Response{data=[]model.Article}
// @Router /api/articles/{category} [get]
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	articles, err := h.service.ListArticles(c.Request.Context(), c.Param("category"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, articles)
}

// CreateArticle 创建文章
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var input CreateArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	article, err := h.service.CreateArticle(c.Request.Context(), service.ArticleInput{
		Type:     input.Type,
		Title:    input.Title,
		Content:  input.Content,
		Image:    input.Image,
		Author:   input.Author,
		Category: input.Category,
		ReadTime: input.ReadTime,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, article)
}
