package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

var (
	once sync.Once

	// RequestsTotal counts analysis requests by operation and outcome.
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fibres",
		Subsystem: "photo_analysis",
		Name:      "requests_total",
		Help:      "Total number of photo analysis requests, labeled by operation and result.",
	}, []string{"operation", "result"})

	// ProviderDurationSeconds is the time spent waiting on the inference provider.
	ProviderDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fibres",
		Subsystem: "photo_analysis",
		Name:      "provider_duration_seconds",
		Help:      "Time spent in a single inference provider call.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"provider", "operation", "result"})

	// ImageBytes is the size of each image sent to the provider.
	ImageBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fibres",
		Subsystem: "photo_analysis",
		Name:      "image_bytes",
		Help:      "Size in bytes of images forwarded to the inference provider.",
		Buckets:   prometheus.ExponentialBuckets(64<<10, 2, 8),
	})

	// ExtractionFailuresTotal counts replies with no recoverable JSON object.
	ExtractionFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fibres",
		Subsystem: "photo_analysis",
		Name:      "extraction_failures_total",
		Help:      "Total number of provider replies that did not contain a parseable JSON object.",
	}, []string{"operation"})

	// RateLimitedTotal counts requests rejected by the rate limiter.
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fibres",
		Subsystem: "photo_analysis",
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected with 429.",
	})
)

// Register registers the service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			ProviderDurationSeconds,
			ImageBytes,
			ExtractionFailuresTotal,
			RateLimitedTotal,
		)
	})
}

// Handler serves the default registry in the Prometheus text format
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
