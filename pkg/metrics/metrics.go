// Package metrics collects and exposes Prometheus metrics for the HTTP
// surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jelajahid/jelajah/pkg/errx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records request counts and latencies per route.
type Collector struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewCollector creates a Collector backed by its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jelajah_http_requests_total",
			Help: "HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jelajah_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	c.registry.MustRegister(c.requests, c.latency)
	return c
}

// Middleware records every request passing through the app. Route labels use
// the registered pattern, not the raw path, to keep cardinality bounded.
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		route := ctx.Route().Path
		method := ctx.Method()
		// The global error handler has not run yet when an error propagates,
		// so the final status must be derived from the error itself.
		status := ctx.Response().StatusCode()
		if err != nil {
			var e *errx.Error
			if errx.As(err, &e) {
				status = e.HTTPStatus
			} else if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		c.latency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

// HTTPHandler returns the scrape handler for this collector's registry.
func (c *Collector) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
