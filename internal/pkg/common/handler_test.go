package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"community_hub/internal/pkg/uploader"
	"community_hub/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, field, name string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestCommonHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	u, err := uploader.NewLocalUploader(t.TempDir(), "/uploads", 1<<20)
	require.NoError(t, err)
	h := NewCommonHandler(u, nil)

	r := gin.New()
	r.POST("/api/upload", h.UploadImage)
	r.GET("/api/health", h.Health)

	t.Run("Upload returns imageUrl", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, "image", "photo.jpg", []byte("jpeg")))

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Code int               `json:"code"`
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, response.CodeSuccess, resp.Code)
		assert.True(t, strings.HasPrefix(resp.Data["imageUrl"], "/uploads/"))
	})

	t.Run("Wrong field name", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, "files", "photo.jpg", []byte("jpeg")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unsupported extension", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, "image", "payload.exe", []byte("MZ")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Health", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
	})
}
