package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器。nil 收集器上的所有方法都是空操作。
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// 业务指标
	membershipTransitions *prometheus.CounterVec
	postInteractions      *prometheus.CounterVec
	mediaCleanup          *prometheus.CounterVec
	cacheOperations       *prometheus.CounterVec
}

// NewMetricsCollector 创建指标收集器并注册到 reg
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	f := promauto.With(reg)
	return &MetricsCollector{
		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpResponseSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		membershipTransitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membership_transitions_total",
				Help: "Group membership and follow state changes",
			},
			[]string{"action"},
		),

		postInteractions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "post_interactions_total",
				Help: "Post creations, reactions, comments and views",
			},
			[]string{"kind"},
		),

		mediaCleanup: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "media_cleanup_total",
				Help: "Uploaded image removals by result",
			},
			[]string{"result"},
		),

		cacheOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_operations_total",
				Help: "Cache lookups by result",
			},
			[]string{"cache", "result"},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration, responseSize int) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	if responseSize > 0 {
		m.httpResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))
	}
}

// RecordMembership 记录 join/leave/follow/unfollow 状态变化
func (m *MetricsCollector) RecordMembership(action string) {
	if m == nil {
		return
	}
	m.membershipTransitions.WithLabelValues(action).Inc()
}

// RecordPostInteraction 记录帖子交互
func (m *MetricsCollector) RecordPostInteraction(kind string) {
	if m == nil {
		return
	}
	m.postInteractions.WithLabelValues(kind).Inc()
}

// RecordMediaCleanup 记录图片清理结果: removed, retried, dropped
func (m *MetricsCollector) RecordMediaCleanup(result string) {
	if m == nil {
		return
	}
	m.mediaCleanup.WithLabelValues(result).Inc()
}

// RecordCache 记录缓存命中情况
func (m *MetricsCollector) RecordCache(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheOperations.WithLabelValues(cache, result).Inc()
}

var (
	globalCollector *MetricsCollector
	once            sync.Once
)

// GetGlobalCollector 获取注册在默认 Registry 上的收集器
func GetGlobalCollector() *MetricsCollector {
	once.Do(func() {
		globalCollector = NewMetricsCollector(prometheus.DefaultRegisterer)
	})
	return globalCollector
}
