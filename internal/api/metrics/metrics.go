// Package metrics defines and registers all custom Prometheus metrics for the
// fieldops API. It is the single source of truth for metric names, labels,
// and help strings.
//
// All metrics use promauto, so importing this package registers them with the
// default Prometheus registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fieldops"

// ── Bulk metrics ──────────────────────────────────────────────────────────────

// BulkJobsTotal counts import and export jobs by terminal outcome.
// Labels:
//   - kind: "import" or "export"
//   - entity: the entity the job targets (e.g. "clients")
//   - status: "completed" or "failed"
var BulkJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bulk_jobs_total",
		Help:      "Total number of bulk jobs that reached a terminal status.",
	},
	[]string{"kind", "entity", "status"},
)

// BulkRowsTotal counts individual rows handled during imports.
// Labels:
//   - entity: the entity being imported
//   - result: "created", "updated", "skipped", or "errored"
var BulkRowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bulk_rows_total",
		Help:      "Total number of import rows processed, by result.",
	},
	[]string{"entity", "result"},
)

// BulkDedupTotal counts upload deduplication decisions.
// Label:
//   - result: "hit" (duplicate file, rejected) or "miss" (new file, accepted)
var BulkDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bulk_dedup_total",
		Help:      "Total number of upload deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// BulkJobDuration measures how long a queued job takes from dequeue to
// terminal status.
// Label:
//   - kind: "import" or "export"
var BulkJobDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "bulk_job_duration_seconds",
		Help:      "Duration of bulk job execution from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"kind"},
)

// BulkQueueDepth tracks the current number of jobs waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var BulkQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "bulk_queue_depth",
		Help:      "Current number of jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Work order metrics ────────────────────────────────────────────────────────

// WorkOrdersOpenedTotal counts newly opened work orders.
var WorkOrdersOpenedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "work_orders_opened_total",
		Help:      "Total number of work orders opened.",
	},
)

// WorkOrdersClosedTotal counts work orders that reached a terminal status.
// Label:
//   - status: "closed" or "cancelled"
var WorkOrdersClosedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "work_orders_closed_total",
		Help:      "Total number of work orders that reached a terminal status.",
	},
	[]string{"status"},
)
