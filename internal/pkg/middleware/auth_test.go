package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"community_hub/internal/domain/user/model"
	"community_hub/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(jwtManager *utils.JWTManager) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(jwtManager), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUserID(c))
	})
	r.GET("/admin", AuthMiddleware(jwtManager), AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r *gin.Engine, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager(testSecret, time.Hour)
	r := newRouter(jwtManager)

	token, _, err := jwtManager.GenerateToken("user-42", model.RoleUser)
	require.NoError(t, err)

	t.Run("valid bearer token", func(t *testing.T) {
		w := do(r, "/me", "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-42", w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "Basic "+token).Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "Bearer "+token+"x").Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := utils.NewJWTManager("ffffffffffffffffffffffffffffffff", time.Hour)
		foreign, _, err := other.GenerateToken("user-42", model.RoleUser)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "Bearer "+foreign).Code)
	})
}

func TestAdminMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager(testSecret, time.Hour)
	r := newRouter(jwtManager)

	userToken, _, err := jwtManager.GenerateToken("user-1", model.RoleUser)
	require.NoError(t, err)
	adminToken, _, err := jwtManager.GenerateToken("admin-1", model.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", "Bearer "+userToken).Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/admin", "Bearer "+adminToken).Code)
}
