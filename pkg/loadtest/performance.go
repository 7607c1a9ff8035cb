package loadtest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// RequestFunc 单次请求，返回 error 视为失败
type RequestFunc func(ctx context.Context) error

// PerformanceTest 固定并发、固定时长的压测
type PerformanceTest struct {
	name        string
	concurrency int
	duration    time.Duration
	requests    []RequestFunc

	mu        sync.Mutex
	total     int64
	failed    int64
	durations []time.Duration
}

func NewPerformanceTest(name string, concurrency int, duration time.Duration) *PerformanceTest {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &PerformanceTest{
		name:        name,
		concurrency: concurrency,
		duration:    duration,
	}
}

// AddRequest 添加请求，worker 轮流执行
func (pt *PerformanceTest) AddRequest(request RequestFunc) {
	pt.requests = append(pt.requests, request)
}

// Run 运行压测直到 duration 结束
func (pt *PerformanceTest) Run(ctx context.Context) *TestResult {
	ctx, cancel := context.WithTimeout(ctx, pt.duration)
	defer cancel()

	if len(pt.requests) == 0 {
		return pt.result()
	}

	requestChan := make(chan RequestFunc, pt.concurrency*2)
	var wg sync.WaitGroup
	for i := 0; i < pt.concurrency; i++ {
		wg.Add(1)
		go pt.worker(ctx, &wg, requestChan)
	}

	go func() {
		defer close(requestChan)
		for {
			for _, req := range pt.requests {
				select {
				case requestChan <- req:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	wg.Wait()
	return pt.result()
}

func (pt *PerformanceTest) worker(ctx context.Context, wg *sync.WaitGroup, requestChan <-chan RequestFunc) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case request, ok := <-requestChan:
			if !ok {
				return
			}
			pt.execute(ctx, request)
		}
	}
}

func (pt *PerformanceTest) execute(ctx context.Context, request RequestFunc) {
	start := time.Now()
	err := request(ctx)
	elapsed := time.Since(start)

	// 超时被截断的请求不计入
	if ctx.Err() != nil {
		return
	}

	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.total++
	pt.durations = append(pt.durations, elapsed)
	if err != nil {
		pt.failed++
	}
}

func (pt *PerformanceTest) result() *TestResult {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	res := &TestResult{
		TestName:        pt.name,
		Concurrency:     pt.concurrency,
		Duration:        pt.duration,
		TotalRequests:   pt.total,
		SuccessRequests: pt.total - pt.failed,
		FailedRequests:  pt.failed,
	}
	if pt.total == 0 {
		return res
	}
	res.QPS = float64(pt.total) / pt.duration.Seconds()
	res.ErrorRate = float64(pt.failed) / float64(pt.total)

	sorted := make([]time.Duration, len(pt.durations))
	copy(sorted, pt.durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	res.AverageResponseTime = sum / time.Duration(len(sorted))
	res.MinResponseTime = sorted[0]
	res.MaxResponseTime = sorted[len(sorted)-1]
	res.P50 = percentile(sorted, 0.5)
	res.P95 = percentile(sorted, 0.95)
	res.P99 = percentile(sorted, 0.99)
	return res
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

// TestResult 压测结果
type TestResult struct {
	TestName            string        `json:"test_name"`
	Concurrency         int           `json:"concurrency"`
	Duration            time.Duration `json:"duration"`
	TotalRequests       int64         `json:"total_requests"`
	SuccessRequests     int64         `json:"success_requests"`
	FailedRequests      int64         `json:"failed_requests"`
	QPS                 float64       `json:"qps"`
	ErrorRate           float64       `json:"error_rate"`
	AverageResponseTime time.Duration `json:"average_response_time"`
	MinResponseTime     time.Duration `json:"min_response_time"`
	MaxResponseTime     time.Duration `json:"max_response_time"`
	P50                 time.Duration `json:"p50"`
	P95                 time.Duration `json:"p95"`
	P99                 time.Duration `json:"p99"`
}

// Summary 单行摘要
func (tr *TestResult) Summary() string {
	return fmt.Sprintf("%-20s | 并发: %-4d | QPS: %-8.2f | P95: %-10v | 错误率: %.2f%%",
		tr.TestName, tr.Concurrency, tr.QPS, tr.P95, tr.ErrorRate*100)
}

// StressTest 逐步提升并发，直到错误率或 P95 超过阈值
type StressTest struct {
	MaxConcurrency int
	StepSize       int
	StepDuration   time.Duration
	MaxErrorRate   float64
	MaxP95         time.Duration
	requests       []RequestFunc
}

func NewStressTest(maxConcurrency, stepSize int, stepDuration time.Duration) *StressTest {
	return &StressTest{
		MaxConcurrency: maxConcurrency,
		StepSize:       stepSize,
		StepDuration:   stepDuration,
		MaxErrorRate:   0.05,
		MaxP95:         500 * time.Millisecond,
	}
}

func (st *StressTest) AddRequest(request RequestFunc) {
	st.requests = append(st.requests, request)
}

// Run 返回每一步的结果，最后一步为触发阈值的并发
func (st *StressTest) Run(ctx context.Context) []*TestResult {
	var results []*TestResult
	if st.StepSize <= 0 {
		return results
	}
	for concurrency := st.StepSize; concurrency <= st.MaxConcurrency; concurrency += st.StepSize {
		if ctx.Err() != nil {
			break
		}
		pt := NewPerformanceTest(fmt.Sprintf("stress_%d", concurrency), concurrency, st.StepDuration)
		for _, req := range st.requests {
			pt.AddRequest(req)
		}
		res := pt.Run(ctx)
		results = append(results, res)
		if res.ErrorRate > st.MaxErrorRate || res.P95 > st.MaxP95 {
			break
		}
	}
	return results
}
