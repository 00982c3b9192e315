package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for domain store operations.
type Metrics struct {
	DomainsMutated    *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	OperationFailures *prometheus.CounterVec
	ListCacheResults  *prometheus.CounterVec
	EventsPublished   *prometheus.CounterVec
}

// New creates the domain metrics registered against reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DomainsMutated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "domainnav_domains_mutated_total",
			Help: "Successful domain mutations by operation (create, update, delete)",
		}, []string{"op"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "domainnav_domain_operation_duration_seconds",
			Help:    "Duration of domain service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"op"}),
		OperationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "domainnav_domain_operation_failures_total",
			Help: "Domain service operations that failed, by operation",
		}, []string{"op"}),
		ListCacheResults: f.NewCounterVec(prometheus.CounterOpts{
			Name: "domainnav_list_cache_results_total",
			Help: "Redis list cache lookups by result (hit, miss, error, bypass)",
		}, []string{"result"}),
		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "domainnav_domain_events_published_total",
			Help: "Domain change events handed to a sink, by sink and outcome",
		}, []string{"sink", "outcome"}),
	}
}

// ObserveOperation records one service operation. Call with time.Now() at
// the start; err decides whether it also counts as a failure.
func (m *Metrics) ObserveOperation(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		m.OperationFailures.WithLabelValues(op).Inc()
	}
}

// IncrementMutated records a successful mutation.
func (m *Metrics) IncrementMutated(op string) {
	if m == nil {
		return
	}
	m.DomainsMutated.WithLabelValues(op).Inc()
}

// RecordCache records a list cache lookup outcome.
func (m *Metrics) RecordCache(result string) {
	if m == nil {
		return
	}
	m.ListCacheResults.WithLabelValues(result).Inc()
}

// RecordPublish records an event delivery attempt to sink.
func (m *Metrics) RecordPublish(sink string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.EventsPublished.WithLabelValues(sink, outcome).Inc()
}
