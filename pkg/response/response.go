package response

import (
	"net/http"

	"community_hub/pkg/apperr"
	"community_hub/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`    // 业务码
	Message string      `json:"message"` // 提示信息
	Data    interface{} `json:"data"`    // 数据
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// HandleError 将服务层错误转换为响应，内部错误只记录日志并返回通用提示
func HandleError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	switch kind {
	case apperr.KindValidation:
		Error(c, http.StatusBadRequest, ErrInvalidParam, err.Error())
	case apperr.KindAuthentication:
		Error(c, http.StatusUnauthorized, ErrAuthFailed, err.Error())
	case apperr.KindAuthorization:
		Error(c, http.StatusForbidden, ErrNoPermission, err.Error())
	case apperr.KindNotFound:
		Error(c, http.StatusNotFound, ErrNotFound, err.Error())
	case apperr.KindConflict:
		Error(c, http.StatusConflict, ErrConflict, err.Error())
	default:
		logger.Log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		Error(c, http.StatusInternalServerError, ErrServerInternal, "internal server error")
	}
}

// BadRequest 参数绑定失败
func BadRequest(c *gin.Context, msg string) {
	Error(c, http.StatusBadRequest, ErrInvalidParam, msg)
}
