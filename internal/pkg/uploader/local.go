package uploader

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// LocalUploader 保存到本地目录，由 /uploads 静态路由提供访问
type LocalUploader struct {
	dir       string
	urlPrefix string
	maxSize   int64
}

// NewLocalUploader 创建本地上传器，目录不存在时自动创建
func NewLocalUploader(dir, urlPrefix string, maxSize int64) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create upload dir %s", dir)
	}
	return &LocalUploader{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		maxSize:   maxSize,
	}, nil
}

// Dir 返回存储目录
func (u *LocalUploader) Dir() string { return u.dir }

// URLPrefix 返回对外访问前缀
func (u *LocalUploader) URLPrefix() string { return u.urlPrefix }

func (u *LocalUploader) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ext, err := checkFile(file, u.maxSize)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(u.dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "create file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", errors.Wrap(err, "write file")
	}

	return path.Join(u.urlPrefix, name), nil
}

func (u *LocalUploader) Manages(url string) bool {
	return strings.HasPrefix(url, u.urlPrefix+"/")
}

func (u *LocalUploader) Delete(ctx context.Context, url string) error {
	if !u.Manages(url) {
		return ErrNotManaged
	}
	name := path.Base(strings.TrimPrefix(url, u.urlPrefix+"/"))
	if name == "." || name == "/" || name == ".." {
		return ErrNotManaged
	}
	if err := os.Remove(filepath.Join(u.dir, name)); err != nil {
		return errors.Wrapf(err, "remove %s", name)
	}
	return nil
}
