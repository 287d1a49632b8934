package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roomrental_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// LeaseTransitions counts lease status changes by origin and destination status.
	LeaseTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrental_lease_transitions_total",
			Help: "Total number of lease status transitions",
		},
		[]string{"from", "to"},
	)

	// LeaseOperations counts lease mutations by operation and result (success|not_found|error).
	LeaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrental_lease_operations_total",
			Help: "Total number of lease lifecycle operations",
		},
		[]string{"operation", "result"},
	)

	// SweepDuration measures how long a lease status sweep takes.
	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roomrental_sweep_duration_seconds",
			Help:    "Lease status sweep duration",
			Buckets: prometheus.DefBuckets,
		},
	)

	// NotificationsCreated counts notifications emitted by type.
	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomrental_notifications_created_total",
			Help: "Total number of notifications created",
		},
		[]string{"type"},
	)
)
