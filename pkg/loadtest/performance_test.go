package loadtest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformanceTest_Run(t *testing.T) {
	t.Run("counts successes and failures", func(t *testing.T) {
		var n int64
		pt := NewPerformanceTest("mixed", 4, 200*time.Millisecond)
		pt.AddRequest(func(ctx context.Context) error {
			if atomic.AddInt64(&n, 1)%2 == 0 {
				return errors.New("boom")
			}
			time.Sleep(time.Millisecond)
			return nil
		})

		res := pt.Run(context.Background())

		require.NotNil(t, res)
		assert.Equal(t, "mixed", res.TestName)
		assert.Greater(t, res.TotalRequests, int64(0))
		assert.Equal(t, res.TotalRequests, res.SuccessRequests+res.FailedRequests)
		assert.Greater(t, res.FailedRequests, int64(0))
		assert.LessOrEqual(t, res.MinResponseTime, res.P50)
		assert.LessOrEqual(t, res.P50, res.P99)
		assert.LessOrEqual(t, res.P99, res.MaxResponseTime)
	})

	t.Run("no requests", func(t *testing.T) {
		res := NewPerformanceTest("empty", 2, 10*time.Millisecond).Run(context.Background())
		assert.Zero(t, res.TotalRequests)
		assert.Zero(t, res.QPS)
	})
}

func TestStressTest_StopsAtThreshold(t *testing.T) {
	st := NewStressTest(10, 2, 50*time.Millisecond)
	st.AddRequest(func(ctx context.Context) error { return errors.New("down") })

	results := st.Run(context.Background())

	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Concurrency)
}

func TestAPITest_Requests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/health", "/api/posts", "/api/groups", "/api/articles":
			w.WriteHeader(http.StatusOK)
		case "/api/auth/login":
			w.WriteHeader(http.StatusUnauthorized)
		case "/api/groups/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	at := NewAPITest(srv.URL)
	ctx := context.Background()

	assert.NoError(t, at.HealthCheck()(ctx))
	assert.NoError(t, at.Login("a@b.com", "wrong")(ctx))
	assert.NoError(t, at.GetGroup("missing")(ctx))
	for _, req := range at.ReadMix() {
		assert.NoError(t, req(ctx))
	}
	assert.Error(t, at.ListArticles("Unknown")(ctx))
}
