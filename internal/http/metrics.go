package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var histogramRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "bollette",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	},
	[]string{"method", "path", "status"},
)

var counterRateLimitHits = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "bollette",
		Subsystem: "http",
		Name:      "rate_limit_hits_total",
	},
)

// metricsPath collapses per-bill URLs into their route pattern so the
// histogram label set stays bounded: bill IDs would otherwise add one
// label value per bill ever touched.
func metricsPath(path string) string {
	if strings.HasPrefix(path, "/bills/") && path != "/bills/totals" {
		return "/bills/{id}"
	}
	return path
}

func observeRequest(method, path string, status int, elapsed time.Duration) {
	histogramRequestDuration.
		WithLabelValues(method, metricsPath(path), strconv.Itoa(status)).
		Observe(elapsed.Seconds())
}
