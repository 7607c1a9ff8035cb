package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// APITest 针对社区接口构造请求
type APITest struct {
	baseURL string
	client  *http.Client
}

func NewAPITest(baseURL string) *APITest {
	return &APITest{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (at *APITest) get(path string, accepted ...int) RequestFunc {
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, at.baseURL+path, nil)
		if err != nil {
			return err
		}
		return at.do(req, accepted)
	}
}

func (at *APITest) do(req *http.Request, accepted []int) error {
	resp, err := at.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if len(accepted) == 0 {
		accepted = []int{http.StatusOK}
	}
	for _, code := range accepted {
		if resp.StatusCode == code {
			return nil
		}
	}
	return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
}

// HealthCheck GET /api/health
func (at *APITest) HealthCheck() RequestFunc {
	return at.get("/api/health")
}

// ListPosts GET /api/posts
func (at *APITest) ListPosts(page, limit int) RequestFunc {
	return at.get(fmt.Sprintf("/api/posts?page=%d&limit=%d", page, limit))
}

// ListGroups GET /api/groups
func (at *APITest) ListGroups() RequestFunc {
	return at.get("/api/groups")
}

// GetGroup GET /api/groups/:id，群组不存在时 404 也算正常
func (at *APITest) GetGroup(id string) RequestFunc {
	return at.get("/api/groups/"+id, http.StatusOK, http.StatusNotFound)
}

// ListArticles GET /api/articles[/:category]
func (at *APITest) ListArticles(category string) RequestFunc {
	path := "/api/articles"
	if category != "" {
		path += "/" + category
	}
	return at.get(path)
}

// Login POST /api/auth/login，凭证错误的 401 视为正常响应
func (at *APITest) Login(email, password string) RequestFunc {
	return func(ctx context.Context) error {
		body, err := json.Marshal(map[string]string{"email": email, "password": password})
		if err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, at.baseURL+"/api/auth/login", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		return at.do(req, []int{http.StatusOK, http.StatusUnauthorized})
	}
}

// ReadMix 首页浏览的读流量
func (at *APITest) ReadMix() []RequestFunc {
	return []RequestFunc{
		at.ListPosts(1, 10),
		at.ListGroups(),
		at.ListArticles(""),
	}
}
