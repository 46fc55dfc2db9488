package proxy

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	// requests counts handled requests by route and status
	requests *prometheus.CounterVec
	// duration tracks request latency by route
	duration *prometheus.HistogramVec
	// upstreamFailures counts failed upstream calls by reason
	upstreamFailures *prometheus.CounterVec
	// upstreamErrorFrames counts error objects received mid stream
	upstreamErrorFrames prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zai_proxy_requests_total",
			Help: "Total requests by route and status",
		}, []string{"route", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zai_proxy_request_duration_seconds",
			Help:    "Request duration in seconds, including the whole stream",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"route"}),
		upstreamFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zai_proxy_upstream_failures_total",
			Help: "Upstream calls which failed before streaming, by reason",
		}, []string{"reason"}),
		upstreamErrorFrames: factory.NewCounter(prometheus.CounterOpts{
			Name: "zai_proxy_upstream_error_frames_total",
			Help: "Error objects received inside an upstream stream",
		}),
	}
}

func (m *metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
