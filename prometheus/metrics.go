package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yuvan-fsdev/billing-system/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Billing metrics
	BillsGeneratedCounter    prometheus.Counter
	BillingFailuresCounter   prometheus.CounterVec
	ChangeRemainderCounter   prometheus.Counter
	ProductOperationsCounter prometheus.CounterVec

	// Inventory metrics
	ProductInventoryGauge prometheus.GaugeVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	// Use metric prefix from configuration
	prefix := cfg.Metrics.Prefix

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
	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Billing metrics
	BillsGeneratedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_bills_generated_total",
			Help: "Total number of bills generated",
		},
	)

	BillingFailuresCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_billing_failures_total",
			Help: "Total number of failed bill generations",
		},
		[]string{"reason"},
	)

	ChangeRemainderCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_change_remainder_total",
			Help: "Total number of bills where exact change could not be dispensed",
		},
	)

	// Product metrics
	ProductOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation"},
	)

	// Product inventory metrics
	ProductInventoryGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_product_inventory",
			Help: "Current inventory level for products",
		},
		[]string{"product_id", "product_code"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordBillGenerated increments the bill counter and the remainder counter
// when exact change could not be made
func RecordBillGenerated(changeRemainder int64) {
	BillsGeneratedCounter.Inc()
	if changeRemainder > 0 {
		ChangeRemainderCounter.Inc()
	}
}

// RecordBillingFailure increments the failure counter for a reason label
func RecordBillingFailure(reason string) {
	BillingFailuresCounter.WithLabelValues(reason).Inc()
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	ProductOperationsCounter.WithLabelValues(operation).Inc()
}

// UpdateProductInventory updates the gauge for product inventory
func UpdateProductInventory(productID string, productCode string, count float64) {
	ProductInventoryGauge.WithLabelValues(productID, productCode).Set(count)
}
