package gateway

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts upstream calls per resource. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skilltracker_console",
			Name:      "upstream_requests_total",
			Help:      "Requests sent to the remote Skill Tracker API.",
		}, []string{"method", "resource", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "skilltracker_console",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of requests to the remote Skill Tracker API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "resource"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

func (m *Metrics) observe(method, path, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	resource := resourceOf(path)
	m.requests.WithLabelValues(method, resource, status).Inc()
	m.duration.WithLabelValues(method, resource).Observe(elapsed.Seconds())
}

// resourceOf keeps label cardinality bounded: "/employees/5/skills" -> "employees".
func resourceOf(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if trimmed == "" {
		return "root"
	}
	return trimmed
}
