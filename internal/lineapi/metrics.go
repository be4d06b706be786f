/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package lineapi

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsSubsystem = "line_api"

// Metrics labels.
const (
	metricsLabelOperation = "operation"
	metricsLabelStatus    = "status"
)

// metricsStatusError is the status label value for requests that failed before receiving a response.
const metricsStatusError = "error"

// MetricsCollector is a collector of the LINE Messaging API client metrics.
type MetricsCollector struct {
	RequestDurations *prometheus.HistogramVec
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(namespace string) *MetricsCollector {
	requestDurations := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "request_duration_seconds",
			Help:      "Duration of LINE Messaging API requests.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{metricsLabelOperation, metricsLabelStatus},
	)
	return &MetricsCollector{RequestDurations: requestDurations}
}

// MustRegister does registration of metrics collector in Prometheus and panics if any error occurs.
func (c *MetricsCollector) MustRegister() {
	prometheus.MustRegister(c.RequestDurations)
}

// Unregister cancels registration of metrics collector in Prometheus.
func (c *MetricsCollector) Unregister() {
	prometheus.Unregister(c.RequestDurations)
}

func (c *MetricsCollector) observeRequest(operation string, statusCode int, elapsed time.Duration) {
	if c == nil {
		return
	}
	status := metricsStatusError
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	c.RequestDurations.With(prometheus.Labels{
		metricsLabelOperation: operation,
		metricsLabelStatus:    status,
	}).Observe(elapsed.Seconds())
}
