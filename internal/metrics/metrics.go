// Package metrics defines Prometheus metrics for the ledger core.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledgerline_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerline_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	EntriesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledgerline_entries_created_total",
			Help: "Ledger entries created as drafts",
		},
	)

	EntriesPosted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledgerline_entries_posted_total",
			Help: "Ledger entries approved to POSTED",
		},
	)

	EntriesVoided = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledgerline_entries_voided_total",
			Help: "Ledger entries voided via reversal",
		},
	)

	ActionsReviewed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerline_actions_reviewed_total",
			Help: "Actions reviewed by outcome",
		},
		[]string{"outcome"},
	)

	ActionsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledgerline_actions_expired_total",
			Help: "Actions flipped to EXPIRED by the stale sweep",
		},
	)

	ExecutorFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerline_executor_failures_total",
			Help: "Executor apply/compensate failures by action type",
		},
		[]string{"type"},
	)
)

// Register adds all collectors to the given registry.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		RequestDuration,
		RequestsTotal,
		EntriesCreated,
		EntriesPosted,
		EntriesVoided,
		ActionsReviewed,
		ActionsExpired,
		ExecutorFailures,
	)
}
