package uploader

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"community_hub/internal/pkg/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// AliyunOSSUploader 阿里云 OSS 上传器
type AliyunOSSUploader struct {
	bucket  *oss.Bucket
	baseURL string
	maxSize int64
}

func NewAliyunOSSUploader(cfg config.OSSConfig, maxSize int64) (*AliyunOSSUploader, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, errors.Wrap(err, "create oss client")
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, errors.Wrap(err, "open oss bucket")
	}

	return &AliyunOSSUploader{
		bucket:  bucket,
		baseURL: fmt.Sprintf("https://%s.%s/", cfg.BucketName, cfg.Endpoint),
		maxSize: maxSize,
	}, nil
}

func (u *AliyunOSSUploader) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ext, err := checkFile(file, u.maxSize)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	// 对象名: YYYYMMDD/uuid.ext
	key := fmt.Sprintf("%s/%s%s", time.Now().Format("20060102"), uuid.NewString(), ext)
	if err := u.bucket.PutObject(key, src, oss.WithContext(ctx)); err != nil {
		return "", errors.Wrap(err, "put object")
	}

	// bucket 为公共读
	return u.baseURL + key, nil
}

func (u *AliyunOSSUploader) Manages(url string) bool {
	return strings.HasPrefix(url, u.baseURL)
}

func (u *AliyunOSSUploader) Delete(ctx context.Context, url string) error {
	if !u.Manages(url) {
		return ErrNotManaged
	}
	key := strings.TrimPrefix(url, u.baseURL)
	if err := u.bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		return errors.Wrapf(err, "delete object %s", key)
	}
	return nil
}
