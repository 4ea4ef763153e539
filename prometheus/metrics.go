package prometheus

import (
	"inventory-service/pkg/config"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec
	HttpStatusCategory  *prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Entity mutation metrics
	EntityOperationsCounter *prometheus.CounterVec

	// Change-history metrics
	HistoryAppendsCounter        *prometheus.CounterVec
	HistoryAppendFailuresCounter *prometheus.CounterVec

	// Inventory metrics
	ProductInventoryGauge *prometheus.GaugeVec
)

// InitMetrics initializes Prometheus metrics with configuration.
// Helpers below are no-ops until it has been called.
func InitMetrics(config *config.Config) {
	InitMetricsWith(prometheus.DefaultRegisterer, config.Metrics.Prefix)
}

// InitMetricsWith registers the metrics on reg under prefix
func InitMetricsWith(reg prometheus.Registerer, prefix string) {
	factory := promauto.With(reg)

	HttpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HttpStatusCategory = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"category", "method", "path"},
	)

	DbOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	EntityOperationsCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_entity_operations_total",
			Help: "Total number of entity mutations by kind, operation and outcome",
		},
		[]string{"kind", "operation", "outcome"},
	)

	HistoryAppendsCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_history_appends_total",
			Help: "Total number of change-history entries written",
		},
		[]string{"kind", "action"},
	)

	HistoryAppendFailuresCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_history_append_failures_total",
			Help: "Total number of change-history entries that could not be written",
		},
		[]string{"kind", "action"},
	)

	ProductInventoryGauge = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_product_inventory",
			Help: "Current inventory level for products",
		},
		[]string{"product_id", "sku"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if HttpRequestsTotal == nil {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	if category := statusCategory(status); category != "" {
		HttpStatusCategory.WithLabelValues(category, method, path).Inc()
	}
}

// statusCategory maps a status code to 2xx, 4xx or 5xx; other codes have none
func statusCategory(status string) string {
	if len(status) != 3 {
		return ""
	}
	switch status[0] {
	case '2', '4', '5':
		return status[:1] + "xx"
	}
	return ""
}

// RecordEntityOperation increments the counter for entity mutations
func RecordEntityOperation(kind, operation, outcome string) {
	if EntityOperationsCounter == nil {
		return
	}
	EntityOperationsCounter.WithLabelValues(kind, operation, outcome).Inc()
}

// RecordHistoryAppend counts a history write attempt
func RecordHistoryAppend(kind, action string, err error) {
	if HistoryAppendsCounter == nil {
		return
	}
	if err != nil {
		HistoryAppendFailuresCounter.WithLabelValues(kind, action).Inc()
		return
	}
	HistoryAppendsCounter.WithLabelValues(kind, action).Inc()
}

// UpdateProductInventory updates the gauge for product inventory
func UpdateProductInventory(productID string, sku string, count float64) {
	if ProductInventoryGauge == nil {
		return
	}
	ProductInventoryGauge.WithLabelValues(productID, sku).Set(count)
}

// DeleteProductInventory drops the gauge series of a deleted product
func DeleteProductInventory(productID string, sku string) {
	if ProductInventoryGauge == nil {
		return
	}
	ProductInventoryGauge.DeleteLabelValues(productID, sku)
}
