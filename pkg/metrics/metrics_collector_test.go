package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector(t *testing.T) {
	m := NewMetricsCollector(prometheus.NewRegistry())

	m.RecordMembership("join")
	m.RecordMembership("join")
	m.RecordMembership("leave")
	m.RecordPostInteraction("like")
	m.RecordHTTPRequest("GET", "/api/posts", "200", 10*time.Millisecond, 512)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.membershipTransitions.WithLabelValues("join")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.membershipTransitions.WithLabelValues("leave")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.postInteractions.WithLabelValues("like")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/posts", "200")))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var m *MetricsCollector
	assert.NotPanics(t, func() {
		m.RecordMembership("join")
		m.RecordPostInteraction("comment")
		m.RecordMediaCleanup("removed")
		m.RecordCache("groups", true)
		m.RecordHTTPRequest("GET", "/", "200", time.Millisecond, 0)
	})
}
