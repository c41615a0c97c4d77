package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// SwapRequestsCreated counts swap request creations.
	SwapRequestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_swap_requests_created_total",
		Help: "Total number of swap requests created",
	})

	// SwapTransitions counts swap request status transitions by outcome.
	SwapTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_swap_transitions_total",
		Help: "Total number of swap request status transitions",
	}, []string{"status"})

	// SearchQueries counts directory searches.
	SearchQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_search_queries_total",
		Help: "Total number of directory search queries",
	})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-instrumentation handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
