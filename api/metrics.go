// ABOUTME: Prometheus instrumentation for gateway round trips
// ABOUTME: Counts requests by method, templated path and status, and records latency
package api

import (
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "friendlog",
				Subsystem: "gateway",
				Name:      "requests_total",
				Help:      "Total number of backend requests issued.",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "friendlog",
				Subsystem: "gateway",
				Name:      "request_duration_seconds",
				Help:      "Duration of backend requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"method", "path"},
		),
	}
	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return nil, err
			}
			switch existing := already.ExistingCollector.(type) {
			case *prometheus.CounterVec:
				m.requests = existing
			case *prometheus.HistogramVec:
				m.duration = existing
			}
		}
	}
	return m, nil
}

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// templatePath collapses numeric ids so label cardinality stays bounded.
func templatePath(path string) string {
	return numericSegment.ReplaceAllString(path, "/{id}$1")
}

func (m *metrics) observe(method, path string, status int, elapsed time.Duration) {
	p := templatePath(path)
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, p, label).Inc()
	m.duration.WithLabelValues(method, p).Observe(elapsed.Seconds())
}
