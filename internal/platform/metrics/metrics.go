// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the risk-scoring pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	riskScoresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_scores_computed_total",
			Help: "Total number of risk scoring attempts by outcome",
		},
		[]string{"outcome"},
	)

	riskScoreDistribution = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "risk_score_value",
			Help:    "Distribution of computed sepsis risk probabilities",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		riskScoresTotal,
		riskScoreDistribution,
	)
}

// Middleware records request counts and latencies per route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			// Use the route pattern, not the raw path, to bound cardinality.
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			httpRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler returns the Prometheus exposition endpoint.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

// RecordScore records a successfully computed risk probability.
func RecordScore(p float64) {
	riskScoresTotal.WithLabelValues("scored").Inc()
	riskScoreDistribution.Observe(p)
}

// RecordSkipped records a scoring attempt skipped for missing observations.
func RecordSkipped() {
	riskScoresTotal.WithLabelValues("skipped").Inc()
}

// RecordError records a scoring attempt that failed.
func RecordError() {
	riskScoresTotal.WithLabelValues("error").Inc()
}
