// Package metrics - коллекторы Prometheus приложения
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "edulearn"

// События реестра кодов сброса
const (
	ResetCodeIssued   = "issued"
	ResetCodeVerified = "verified"
	ResetCodeConsumed = "consumed"
	ResetCodeRejected = "rejected"
	ResetCodePurged   = "purged"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	resetCodeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_code_events_total",
		Help:      "Password reset challenge events.",
	}, []string{"event"})

	emailFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "email_failures_total",
		Help:      "Email delivery failures by kind.",
	}, []string{"kind"})
)

// Middleware считает запросы по шаблону маршрута, а не по сырому пути
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequests.WithLabelValues(c.Request.Method, route, status).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func ResetCodeEvent(event string) {
	resetCodeEvents.WithLabelValues(event).Inc()
}

func ResetCodesPurged(n int) {
	if n > 0 {
		resetCodeEvents.WithLabelValues(ResetCodePurged).Add(float64(n))
	}
}

func EmailFailure(kind string) {
	emailFailures.WithLabelValues(kind).Inc()
}
