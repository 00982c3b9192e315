package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers the manager view's side effects.
type Metrics struct {
	Notifications   *prometheus.CounterVec
	IntentsFinished *prometheus.CounterVec
	IntentsInFlight prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "domainnav_view_notifications_total",
			Help: "Notifications surfaced by the manager view, by severity",
		}, []string{"severity"}),
		IntentsFinished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "domainnav_view_store_calls_total",
			Help: "Store calls issued by the manager view, by kind and outcome",
		}, []string{"kind", "outcome"}),
		IntentsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "domainnav_view_store_calls_in_flight",
			Help: "Store calls issued by the manager view that have not completed",
		}),
	}
}

func (m *Metrics) RecordNotification(severity string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(severity).Inc()
}

func (m *Metrics) StartCall() {
	if m == nil {
		return
	}
	m.IntentsInFlight.Inc()
}

func (m *Metrics) FinishCall(kind string, err error) {
	if m == nil {
		return
	}
	m.IntentsInFlight.Dec()
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.IntentsFinished.WithLabelValues(kind, outcome).Inc()
}
