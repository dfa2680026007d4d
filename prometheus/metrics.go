package prometheus

import (
	"time"

	"storefront/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AdminLoginCounter   prometheus.Counter
	UserLoginCounter    prometheus.Counter
	UserRegisterCounter prometheus.Counter
	AuthErrorsCounter   prometheus.CounterVec

	// Document store metrics
	StoreOperationDuration prometheus.HistogramVec

	// Catalog metrics
	CatalogQueriesCounter prometheus.Counter

	// Product metrics
	ProductOperationsCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	AdminLoginCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_admin_login_attempts_total",
			Help: "Total number of admin login attempts",
		},
	)

	UserLoginCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_user_login_attempts_total",
			Help: "Total number of customer login attempts",
		},
	)

	UserRegisterCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_user_register_attempts_total",
			Help: "Total number of customer registration attempts",
		},
	)

	AuthErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"reason"},
	)

	// Document store operation metrics
	StoreOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Catalog metrics
	CatalogQueriesCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_catalog_queries_total",
			Help: "Total number of public catalog queries",
		},
	)

	// Product metrics
	ProductOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of admin product operations",
		},
		[]string{"operation"},
	)
}

// TrackStoreOperation returns a function that records the duration of a
// document store operation
func TrackStoreOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		StoreOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordAuthError increments the counter for authentication errors
func RecordAuthError(reason string) {
	AuthErrorsCounter.WithLabelValues(reason).Inc()
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	ProductOperationsCounter.WithLabelValues(operation).Inc()
}
