package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nutriquest",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutriquest",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nutriquest",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	xpAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutriquest",
			Subsystem: "progression",
			Name:      "xp_awarded_total",
			Help:      "Total XP applied to profiles, by action.",
		},
		[]string{"action"},
	)

	levelUps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nutriquest",
			Subsystem: "progression",
			Name:      "level_ups_total",
			Help:      "Number of awards that moved a profile to a higher level.",
		},
	)

	habitToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutriquest",
			Subsystem: "habits",
			Name:      "toggles_total",
			Help:      "Habit toggles by resulting state.",
		},
		[]string{"state"},
	)

	logCleanups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutriquest",
			Subsystem: "logging",
			Name:      "cleanup_runs_total",
			Help:      "System log retention runs.",
		},
		[]string{"success"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		xpAwarded,
		levelUps,
		habitToggles,
		logCleanups,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency per matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		method := strings.ToUpper(c.Method())
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

// RecordXP counts an applied award and whether it crossed a level boundary.
func RecordXP(action string, amount int64, leveledUp bool) {
	if action == "" {
		action = "manual"
	}
	xpAwarded.WithLabelValues(action).Add(float64(amount))
	if leveledUp {
		levelUps.Inc()
	}
}

// RecordHabitToggle counts a toggle by the state the habit ended in.
func RecordHabitToggle(completed bool) {
	state := "incomplete"
	if completed {
		state = "completed"
	}
	habitToggles.WithLabelValues(state).Inc()
}

func RecordLogCleanup(success bool) {
	logCleanups.WithLabelValues(strconv.FormatBool(success)).Inc()
}
