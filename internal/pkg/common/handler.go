package handler

import (
	"net/http"

	"community_hub/internal/pkg/uploader"
	"community_hub/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CommonHandler 上传与健康检查
type CommonHandler struct {
	uploader uploader.Uploader
	db       *gorm.DB
}

func NewCommonHandler(u uploader.Uploader, db *gorm.DB) *CommonHandler {
	return &CommonHandler{uploader: u, db: db}
}

// UploadImage 上传单张图片
// @Summary 上传图片
// @Tags Common
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image"
// @Success 200 {object} response.Response{data=map[string]string} "imageUrl"
// @Router /api/upload [post]
func (h *CommonHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}

	url, err := h.uploader.Upload(c.Request.Context(), file)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, gin.H{"imageUrl": url})
}

// Health 健康检查，数据库不可用时返回 503
func (h *CommonHandler) Health(c *gin.Context) {
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, response.ErrServerInternal, "database unavailable")
			return
		}
	}
	response.Success(c, gin.H{"status": "ok"})
}
