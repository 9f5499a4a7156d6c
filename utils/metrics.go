package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// WebhookEvents counts gateway deliveries by event kind and result.
	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Total number of payment gateway webhook deliveries",
		},
		[]string{"event", "result"},
	)

	// WebhookDuration tracks how long a delivery took to reconcile.
	WebhookDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_processing_seconds",
			Help:    "Duration of payment gateway webhook processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"event"},
	)
)

// InitMetrics registers the collectors with the default registry.
func InitMetrics() {
	prometheus.MustRegister(WebhookEvents, WebhookDuration)
}
