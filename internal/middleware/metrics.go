package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command errors by operation.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crowdfund_redis_errors_total",
		Help: "Total number of Redis errors by operation",
	}, []string{"operation"})

	// DonationsTotal counts accepted donations.
	DonationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crowdfund_donations_total",
		Help: "Total number of accepted donations",
	})

	// DonationAmount observes accepted donation amounts.
	DonationAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crowdfund_donation_amount",
		Help:    "Distribution of accepted donation amounts",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 5000, 10000},
	})

	// RatingsTotal counts submitted ratings by value.
	RatingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crowdfund_ratings_total",
		Help: "Total number of submitted ratings by value",
	}, []string{"value"})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the Fiber handler that records per-request metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
