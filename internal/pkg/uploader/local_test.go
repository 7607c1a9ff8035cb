package uploader

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"community_hub/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestLocalUploader(t *testing.T) {
	ctx := context.Background()

	t.Run("Upload and Delete", func(t *testing.T) {
		dir := t.TempDir()
		u, err := NewLocalUploader(dir, "uploads", 1024)
		require.NoError(t, err)

		url, err := u.Upload(ctx, fileHeader(t, "cat.PNG", []byte("png-bytes")))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "/uploads/"))
		assert.True(t, strings.HasSuffix(url, ".png"))
		assert.True(t, u.Manages(url))

		stored := filepath.Join(dir, filepath.Base(url))
		data, err := os.ReadFile(stored)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(data))

		require.NoError(t, u.Delete(ctx, url))
		_, err = os.Stat(stored)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Rejects unsupported type", func(t *testing.T) {
		u, err := NewLocalUploader(t.TempDir(), "/uploads", 1024)
		require.NoError(t, err)

		_, err = u.Upload(ctx, fileHeader(t, "script.sh", []byte("#!/bin/sh")))
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("Rejects oversized file", func(t *testing.T) {
		u, err := NewLocalUploader(t.TempDir(), "/uploads", 4)
		require.NoError(t, err)

		_, err = u.Upload(ctx, fileHeader(t, "big.jpg", []byte("0123456789")))
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("Delete ignores foreign urls", func(t *testing.T) {
		u, err := NewLocalUploader(t.TempDir(), "/uploads", 0)
		require.NoError(t, err)

		assert.False(t, u.Manages("https://cdn.example.com/a.png"))
		assert.ErrorIs(t, u.Delete(ctx, "https://cdn.example.com/a.png"), ErrNotManaged)
	})

	t.Run("Delete missing file fails", func(t *testing.T) {
		u, err := NewLocalUploader(t.TempDir(), "/uploads", 0)
		require.NoError(t, err)

		assert.Error(t, u.Delete(ctx, "/uploads/missing.png"))
	})
}
