package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routemap",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "routemap",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "path"})

	// Upstream calls, labelled by outcome: ok, not_found, transport, decode.
	GeocodeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routemap",
		Subsystem: "upstream",
		Name:      "geocode_requests_total",
		Help:      "Geocoding requests by outcome",
	}, []string{"outcome"})

	RouteRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routemap",
		Subsystem: "upstream",
		Name:      "route_requests_total",
		Help:      "Routing requests by outcome",
	}, []string{"outcome"})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "routemap",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency of geocoding and routing calls",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
	}, []string{"service"})

	// Planning cycles
	CyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routemap",
		Subsystem: "planner",
		Name:      "cycles_total",
		Help:      "Finished planning cycles by final state and failure kind",
	}, []string{"state", "failure"})

	StaleCompletions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "routemap",
		Subsystem: "planner",
		Name:      "stale_completions_total",
		Help:      "Successful cycles not drawn because a newer cycle was already on the map",
	})

	PathDecodeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "routemap",
		Subsystem: "planner",
		Name:      "path_decode_errors_total",
		Help:      "Route geometries that could not be decoded",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "routemap",
		Subsystem: "planner",
		Name:      "active_sessions",
		Help:      "Map sessions currently held in memory",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "routemap",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routemap",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routemap",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// ObserveUpstream records the latency of a call started at start.
func ObserveUpstream(service string, start time.Time) {
	UpstreamDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
}

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}
