/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsSubsystem = "webhook"

// Metrics labels.
const (
	metricsLabelEventType = "event_type"
)

// MetricsCollector is a collector of the webhook dispatching metrics.
type MetricsCollector struct {
	EventsTotal         *prometheus.CounterVec
	DispatchErrorsTotal *prometheus.CounterVec
	RepliesSentTotal    prometheus.Counter
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(namespace string) *MetricsCollector {
	eventsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "events_total",
			Help:      "Total number of received webhook events.",
		},
		[]string{metricsLabelEventType},
	)
	dispatchErrorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "dispatch_errors_total",
			Help:      "Total number of webhook events that failed to be processed.",
		},
		[]string{metricsLabelEventType},
	)
	repliesSentTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "replies_sent_total",
			Help:      "Total number of replies delivered to the messaging platform.",
		},
	)
	return &MetricsCollector{
		EventsTotal:         eventsTotal,
		DispatchErrorsTotal: dispatchErrorsTotal,
		RepliesSentTotal:    repliesSentTotal,
	}
}

// MustRegister does registration of metrics collector in Prometheus and panics if any error occurs.
func (c *MetricsCollector) MustRegister() {
	prometheus.MustRegister(
		c.EventsTotal,
		c.DispatchErrorsTotal,
		c.RepliesSentTotal,
	)
}

// Unregister cancels registration of metrics collector in Prometheus.
func (c *MetricsCollector) Unregister() {
	prometheus.Unregister(c.EventsTotal)
	prometheus.Unregister(c.DispatchErrorsTotal)
	prometheus.Unregister(c.RepliesSentTotal)
}

func (c *MetricsCollector) observeEvent(eventType EventType) {
	if c == nil {
		return
	}
	c.EventsTotal.With(prometheus.Labels{metricsLabelEventType: string(eventType)}).Inc()
}

func (c *MetricsCollector) observeDispatchError(eventType EventType) {
	if c == nil {
		return
	}
	c.DispatchErrorsTotal.With(prometheus.Labels{metricsLabelEventType: string(eventType)}).Inc()
}

func (c *MetricsCollector) observeReplySent() {
	if c == nil {
		return
	}
	c.RepliesSentTotal.Inc()
}
