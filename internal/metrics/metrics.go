package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rumor Store Metrics
var (
	// RumorsCurrent tracks the number of rumors held in the store
	RumorsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rumors_current",
			Help: "Current number of rumors in the store",
		},
	)

	// RumorsCreatedTotal tracks rumor creation by category
	RumorsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rumors_created_total",
			Help: "Total rumors created by category",
		},
		[]string{"category"},
	)

	// RumorsRejectedTotal tracks rumors that could not be inserted (duplicate id, malformed record)
	RumorsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rumors_rejected_total",
			Help: "Total rumors rejected at insertion by reason",
		},
		[]string{"reason"},
	)
)

// Propagation Metrics
var (
	// RumorSpreadsTotal tracks spread attempts by result (spread/already_known/not_found/not_active)
	RumorSpreadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rumor_spreads_total",
			Help: "Total rumor spread attempts by result",
		},
		[]string{"result"},
	)

	// RumorAutoPropagateRolls tracks incidental gossip rolls by outcome (hit/miss)
	RumorAutoPropagateRolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rumor_autopropagate_rolls_total",
			Help: "Total incidental gossip rolls by outcome",
		},
		[]string{"outcome"},
	)
)

// Lifecycle Metrics
var (
	// RumorTransitionsTotal tracks lifecycle transitions by destination state (faded/archived)
	RumorTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rumor_transitions_total",
			Help: "Total rumor lifecycle transitions by destination state",
		},
		[]string{"to"},
	)

	// RumorsEvictedTotal tracks rumors removed by the least-relevant-first evictor
	RumorsEvictedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rumors_evicted_total",
			Help: "Total rumors evicted under capacity pressure",
		},
	)

	// MaintenanceRunsTotal tracks maintenance passes by whether the lifecycle sweep ran
	MaintenanceRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rumor_maintenance_runs_total",
			Help: "Total maintenance passes by whether the lifecycle sweep ran",
		},
		[]string{"sweep"},
	)

	// MaintenanceDuration tracks maintenance pass latency in seconds
	MaintenanceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rumor_maintenance_duration_seconds",
			Help:    "Maintenance pass duration in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
	)
)

// Simulation Metrics
var (
	// SimulationTurn tracks the current simulation turn
	SimulationTurn = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "simulation_turn",
			Help: "Current simulation turn",
		},
	)

	// ObserveRequestsRejected tracks narrative submissions dropped by the API rate limiter
	ObserveRequestsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "observe_requests_rejected_total",
			Help: "Total observe requests rejected by the per-IP rate limiter",
		},
	)
)
