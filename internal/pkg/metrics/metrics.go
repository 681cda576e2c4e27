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
		Namespace: "recolecta",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "recolecta",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "recolecta",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Domain metrics
	ContactRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recolecta",
		Subsystem: "contact",
		Name:      "requests_total",
		Help:      "Contact requests accepted, by department",
	}, []string{"department"})

	ContactForwardFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recolecta",
		Subsystem: "contact",
		Name:      "forward_failures_total",
		Help:      "Contact requests that could not be forwarded to their department",
	}, []string{"department"})

	GeometryPointsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "recolecta",
		Subsystem: "geometry",
		Name:      "points_dropped_total",
		Help:      "Malformed coordinates discarded while decoding route geometry",
	})

	MapRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recolecta",
		Subsystem: "map",
		Name:      "renders_total",
		Help:      "Map scenes rendered, by channel",
	}, []string{"channel"})

	RouteWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recolecta",
		Subsystem: "routes",
		Name:      "writes_total",
		Help:      "Route writes by operation",
	}, []string{"op"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "recolecta",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recolecta",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recolecta",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "recolecta",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "recolecta",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "recolecta",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})

	DBPoolEmptyAcquires = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "recolecta",
		Subsystem: "db",
		Name:      "pool_empty_acquires",
		Help:      "Cumulative acquires that had to wait for a new connection",
	})

	DBPoolAcquireCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "recolecta",
		Subsystem: "db",
		Name:      "pool_acquires",
		Help:      "Cumulative successful acquires from the database pool",
	})

	DBPoolAcquireSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "recolecta",
		Subsystem: "db",
		Name:      "pool_acquire_seconds",
		Help:      "Cumulative time spent acquiring database connections",
	})
)

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
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// UpdateDBPoolMetrics copies pool gauges from a pgxpool.Stat. The stat is
// taken as an interface so this package does not import pgx.
func UpdateDBPoolMetrics(stat interface{}) {
	type poolStat interface {
		AcquiredConns() int32
		IdleConns() int32
		TotalConns() int32
		EmptyAcquireCount() int64
		AcquireCount() int64
		AcquireDuration() time.Duration
	}

	if s, ok := stat.(poolStat); ok {
		DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
		DBPoolConnsIdle.Set(float64(s.IdleConns()))
		DBPoolConnsOpen.Set(float64(s.TotalConns()))
		DBPoolEmptyAcquires.Set(float64(s.EmptyAcquireCount()))
		DBPoolAcquireCount.Set(float64(s.AcquireCount()))
		DBPoolAcquireSeconds.Set(s.AcquireDuration().Seconds())
	}
}
