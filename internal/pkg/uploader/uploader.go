package uploader

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	"community_hub/internal/pkg/config"
	"community_hub/pkg/apperr"
)

// Uploader 图片存储后端
type Uploader interface {
	// Upload 保存文件并返回可访问的 URL
	Upload(ctx context.Context, file *multipart.FileHeader) (string, error)
	// Delete 删除由本后端管理的 URL，非托管 URL 返回 ErrNotManaged
	Delete(ctx context.Context, url string) error
	// Manages 判断 URL 是否指向本后端
	Manages(url string) bool
}

// ErrNotManaged URL 不属于本上传后端
var ErrNotManaged = apperr.Validation("url is not managed by this uploader")

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// checkFile 校验扩展名与大小，返回小写扩展名
func checkFile(file *multipart.FileHeader, maxSize int64) (string, error) {
	if file == nil {
		return "", apperr.Validation("image file is required")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExt[ext] {
		return "", apperr.Validation("unsupported image type %q", ext)
	}
	if maxSize > 0 && file.Size > maxSize {
		return "", apperr.Validation("image exceeds %d bytes", maxSize)
	}
	return ext, nil
}

// New 根据配置创建上传后端
func New(cfg *config.Config) (Uploader, error) {
	if cfg.Upload.Backend == "oss" {
		return NewAliyunOSSUploader(cfg.OSS, cfg.Upload.MaxSize)
	}
	return NewLocalUploader(cfg.Upload.Dir, cfg.Upload.URLPrefix, cfg.Upload.MaxSize)
}
