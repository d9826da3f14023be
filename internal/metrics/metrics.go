// Package metrics holds the Prometheus collectors shared by the event core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the registry served on the admin /metrics endpoint.
var Registry = prometheus.NewRegistry()

var (
	EventsEmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hartex_events_emitted_total",
			Help: "Number of custom events emitted, by event name.",
		},
		[]string{"event"},
	)
	EventDeliveriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hartex_event_deliveries_total",
			Help: "Number of per-subscriber event deliveries.",
		},
	)
	Listeners = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hartex_listeners",
			Help: "Subscribers currently held by the event registry, including not yet pruned ones.",
		},
	)
	ListenersPrunedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hartex_listeners_pruned_total",
			Help: "Number of closed subscribers removed by the periodic prune.",
		},
	)

	DispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hartex_dispatch_total",
			Help: "Number of dispatched envelopes by source category, event and outcome.",
		},
		[]string{"category", "event", "outcome"},
	)
	DispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hartex_dispatch_duration_seconds",
			Help:    "Time taken by event handlers.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"category"},
	)

	DeferredTasksStartedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hartex_deferred_tasks_started_total",
			Help: "Number of deferred tasks whose setup ran.",
		},
		[]string{"task"},
	)
	DeferredTasksFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hartex_deferred_tasks_failed_total",
			Help: "Number of deferred task failures by kind.",
		},
		[]string{"task", "kind"},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hartex_worker_queue_depth",
			Help: "Dispatch jobs waiting for a worker.",
		},
	)
	WorkerTasksFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hartex_worker_tasks_failed_total",
			Help: "Dispatch jobs that returned an error or panicked, by event.",
		},
		[]string{"task_type", "event"},
	)
	WorkerTasksRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hartex_worker_tasks_rejected_total",
			Help: "Dispatch jobs rejected because the queue was full or closed.",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		EventsEmittedTotal,
		EventDeliveriesTotal,
		Listeners,
		ListenersPrunedTotal,
		DispatchTotal,
		DispatchDuration,
		DeferredTasksStartedTotal,
		DeferredTasksFailedTotal,
		WorkerQueueDepth,
		WorkerTasksFailedTotal,
		WorkerTasksRejectedTotal,
	)
}
