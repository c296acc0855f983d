package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studyseat",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "studyseat",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	bookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "studyseat",
			Name:      "bookings_created_total",
			Help:      "Bookings created successfully.",
		},
	)

	checkinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studyseat",
			Name:      "checkins_total",
			Help:      "Check-in attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(
			c.Request.Method, route,
		).Observe(time.Since(start).Seconds())
	}
}

func TrackBookingCreated() {
	bookingsCreated.Inc()
}

func TrackCheckin(outcome string) {
	checkinsTotal.WithLabelValues(outcome).Inc()
}
