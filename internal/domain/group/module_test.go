package group

import (
	"net/http"
	"testing"
	"time"

	"community_hub/internal/pkg/registry"
	"community_hub/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupModule_Init(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctx := &registry.ModuleContext{
		Router: r,
		API:    r.Group("/api"),
		JWT:    utils.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour),
	}

	m := &GroupModule{}
	assert.Equal(t, "group", m.Name())
	assert.Equal(t, 5, m.Priority())
	require.NoError(t, m.Init(ctx))

	routes := make(map[string]bool)
	for _, route := range r.Routes() {
		routes[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		http.MethodGet + " /api/groups",
		http.MethodGet + " /api/groups/:id",
		http.MethodGet + " /api/groups/:id/posts",
		http.MethodPost + " /api/groups",
		http.MethodPost + " /api/groups/join",
		http.MethodPost + " /api/groups/leave",
		http.MethodPost + " /api/groups/follow",
		http.MethodPost + " /api/groups/unfollow",
	} {
		assert.True(t, routes[want], want)
	}
}
