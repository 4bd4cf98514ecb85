package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry         *prometheus.Registry
	syncRuns         *prometheus.CounterVec // total sync passes
	syncDuration     prometheus.Histogram   // time to sync
	resourceOps      *prometheus.CounterVec // converge decisions
	backendRequests  *prometheus.CounterVec // backend api requests
	journalRequests  *prometheus.CounterVec // journal db requests
	managedResources *prometheus.GaugeVec   // resources in the manifest
}

// Public interface for metrics operations
func (m *Metrics) IncSyncRun(success bool) {
	status := boolToResult(success)
	m.syncRuns.WithLabelValues(status).Inc()
}

func (m *Metrics) SetSyncDuration(duration time.Duration) {
	m.syncDuration.Observe(duration.Seconds())
}

func (m *Metrics) IncResourceOperation(operation, kind string) {
	if !isValidOperation(operation) || !isValidKind(kind) {
		return
	}
	m.resourceOps.WithLabelValues(operation, kind).Inc()
}

func (m *Metrics) IncBackendRequest(operation, kind string, success bool) {
	if !isValidOperation(operation) || !isValidKind(kind) {
		return
	}
	status := boolToResult(success)
	m.backendRequests.WithLabelValues(operation, kind, status).Inc()
}

func (m *Metrics) IncJournalRequest(operation string, success bool) {
	if !isValidOperation(operation) {
		return
	}
	status := boolToResult(success)
	m.journalRequests.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) SetManagedResources(kind string, count int) {
	if !isValidKind(kind) {
		return
	}
	m.managedResources.WithLabelValues(kind).Set(float64(count))
}

// Validation helpers
func boolToResult(b bool) string {
	if b {
		return "success"
	}
	return "failure"
}

func isValidOperation(op string) bool {
	switch op {
	case "create", "read", "update", "delete", "noop", "skip":
		return true
	}
	return false
}

func isValidKind(kind string) bool {
	switch kind {
	case "project", "user", "role", "role_assignment", "router":
		return true
	}
	return false
}

func New(register bool) *Metrics {
	registry := prometheus.NewRegistry()
	namespace := "identity_sync"

	m := &Metrics{
		registry: registry,

		syncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_runs_total",
			Help:      "Total number of reconciliation passes",
		}, []string{"status"}),

		syncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Duration of reconciliation passes in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		resourceOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resource_operations_total",
			Help:      "Total converge decisions by operation and resource kind",
		}, []string{"operation", "kind"}),

		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Total backend API requests",
		}, []string{"operation", "kind", "status"}),

		journalRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_requests_total",
			Help:      "Total outcome journal requests",
		}, []string{"operation", "status"}),

		managedResources: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "managed_resources_current",
			Help:      "Current resources declared in the manifest",
		}, []string{"kind"}),
	}

	if register {
		registry.MustRegister(
			m.syncRuns,
			m.syncDuration,
			m.resourceOps,
			m.backendRequests,
			m.journalRequests,
			m.managedResources,
		)
	}
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
