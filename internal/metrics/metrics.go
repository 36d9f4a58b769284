// Package metrics provides the centralized Prometheus metrics registry for the trade logger.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	TradesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trade_logger",
		Name:      "trades_created_total",
		Help:      "Total number of trades created",
	})
	TradesUpdatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trade_logger",
		Name:      "trades_updated_total",
		Help:      "Total number of trades updated",
	})
	TradesDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trade_logger",
		Name:      "trades_deleted_total",
		Help:      "Total number of trades deleted",
	})
	StrategiesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trade_logger",
		Name:      "strategies_created_total",
		Help:      "Total number of strategies created",
	})
	ValidationFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trade_logger",
		Name:      "validation_failures_total",
		Help:      "Total number of rejected payloads by entity",
	}, []string{"entity"})
	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trade_logger",
		Name:      "logins_total",
		Help:      "Total number of login attempts by result",
	}, []string{"result"})
	EmailsDispatchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trade_logger",
		Name:      "emails_dispatched_total",
		Help:      "Total number of queued emails dispatched by result",
	}, []string{"result"})
)

// Gauge metrics
var (
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trade_logger",
		Name:      "active_sessions",
		Help:      "Number of live login sessions",
	})
	PendingEmails = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trade_logger",
		Name:      "pending_emails",
		Help:      "Number of emails waiting in the queue",
	})
)

// Histogram metrics
var (
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trade_logger",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
	StatsComputationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trade_logger",
		Name:      "stats_computation_duration_seconds",
		Help:      "Duration of statistics aggregation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(TradesCreatedTotal)
		registry.MustRegister(TradesUpdatedTotal)
		registry.MustRegister(TradesDeletedTotal)
		registry.MustRegister(StrategiesCreatedTotal)
		registry.MustRegister(ValidationFailuresTotal)
		registry.MustRegister(LoginsTotal)
		registry.MustRegister(EmailsDispatchedTotal)

		// Register gauge metrics
		registry.MustRegister(ActiveSessions)
		registry.MustRegister(PendingEmails)

		// Register histogram metrics
		registry.MustRegister(HTTPRequestDuration)
		registry.MustRegister(StatsComputationDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordValidationFailure records a rejected payload for the given entity.
func RecordValidationFailure(entity string) {
	ValidationFailuresTotal.WithLabelValues(entity).Inc()
}

// RecordLogin records a login attempt result.
func RecordLogin(success bool) {
	if success {
		LoginsTotal.WithLabelValues("success").Inc()
	} else {
		LoginsTotal.WithLabelValues("failure").Inc()
	}
}
