package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// 压测：大量用户并发重复加入/关注同一群组，验证 followers 计数只随真实状态变化
var (
	baseURL    = flag.String("base", "http://localhost:8080", "server base url")
	groupID    = flag.String("group", "", "target group id")
	totalUsers = flag.Int("users", 200, "concurrent users")
	repeats    = flag.Int("repeat", 3, "join/follow calls per user")

	httpClient *http.Client
)

func init() {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 1000
	t.MaxIdleConnsPerHost = 1000
	t.MaxConnsPerHost = 1000
	httpClient = &http.Client{
		Transport: t,
		Timeout:   10 * time.Second,
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type groupView struct {
	Followers   int `json:"followers"`
	MemberCount int `json:"memberCount"`
}

func main() {
	flag.Parse()
	if *groupID == "" {
		fmt.Println("请通过 -group 指定群组 ID (cmd/seed 会创建 ATG World)")
		os.Exit(2)
	}

	before, err := fetchGroup()
	if err != nil {
		fmt.Printf("获取群组失败: %v\n", err)
		os.Exit(1)
	}

	// 1. 注册用户
	fmt.Printf("注册 %d 个用户...\n", *totalUsers)
	tokens := make([]string, *totalUsers)
	var wg sync.WaitGroup
	for i := 0; i < *totalUsers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i] = register()
		}(i)
	}
	wg.Wait()

	// 2. 并发重复加入与关注
	fmt.Printf("开始压测：%d 个用户各加入/关注 %d 次...\n", *totalUsers, *repeats)
	var mu sync.Mutex
	successCount, failCount := 0, 0
	start := time.Now()

	for _, token := range tokens {
		if token == "" {
			continue
		}
		for r := 0; r < *repeats; r++ {
			for _, action := range []string{"join", "follow"} {
				wg.Add(1)
				go func(token, action string) {
					defer wg.Done()
					ok := call(http.MethodPost, "/api/groups/"+action, token, map[string]string{"groupId": *groupID}, nil)
					mu.Lock()
					if ok {
						successCount++
					} else {
						failCount++
					}
					mu.Unlock()
				}(token, action)
			}
		}
	}
	wg.Wait()
	duration := time.Since(start)

	after, err := fetchGroup()
	if err != nil {
		fmt.Printf("获取群组失败: %v\n", err)
		os.Exit(1)
	}

	registered := 0
	for _, token := range tokens {
		if token != "" {
			registered++
		}
	}
	expected := before.Followers + 2*registered

	total := successCount + failCount
	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("总请求数: %d, QPS: %.2f\n", total, float64(total)/duration.Seconds())
	fmt.Printf("成功: %d, 失败: %d\n", successCount, failCount)
	fmt.Printf("followers: %d (预期: %d)\n", after.Followers, expected)
	fmt.Printf("memberCount: %d (预期: %d)\n", after.MemberCount, before.MemberCount+registered)
	fmt.Println("--------------------------------------------------")

	if after.Followers != expected || after.MemberCount != before.MemberCount+registered {
		os.Exit(1)
	}
}

func register() string {
	payload := map[string]string{
		"name":     "stress",
		"email":    fmt.Sprintf("stress-%s@example.com", uuid.NewString()),
		"password": "stress-password",
	}
	var result struct {
		Token string `json:"token"`
	}
	if !call(http.MethodPost, "/api/auth/register", "", payload, &result) {
		return ""
	}
	return result.Token
}

func fetchGroup() (*groupView, error) {
	var g groupView
	if !call(http.MethodGet, "/api/groups/"+*groupID, "", nil, &g) {
		return nil, fmt.Errorf("group %s not available", *groupID)
	}
	return &g, nil
}

// call 发送请求，HTTP 200 且业务码为 0 时返回 true，并解析 data
func call(method, path, token string, payload interface{}, out interface{}) bool {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, *baseURL+path, body)
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		return false
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil || env.Code != 0 {
		return false
	}
	if out != nil {
		return json.Unmarshal(env.Data, out) == nil
	}
	return true
}
