package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lgmartins/triagem/internal/model"
)

// Metrics holds the Prometheus instruments for the serving mode. Each server
// owns a private registry so tests can build servers independently.
type Metrics struct {
	registry *prometheus.Registry

	Notices  *prometheus.CounterVec
	Duration prometheus.Histogram
	Errors   prometheus.Counter
	Urgent   prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Notices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triagem_notices_total",
			Help: "Processed notices by routing decision.",
		}, []string{"routing"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "triagem_processing_seconds",
			Help:    "Wall time to process one notice.",
			Buckets: prometheus.DefBuckets,
		}),
		Errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triagem_errors_total",
			Help: "Requests that failed with an internal error.",
		}),
		Urgent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triagem_urgent_total",
			Help: "Notices flagged urgent (reiterations and explicit urgency).",
		}),
	}
	reg.MustRegister(m.Notices, m.Duration, m.Errors, m.Urgent)
	return m
}

// Observe records one successful run
func (m *Metrics) Observe(res *model.PipelineResult, elapsed time.Duration) {
	m.Notices.WithLabelValues(string(res.Routing)).Inc()
	m.Duration.Observe(elapsed.Seconds())
	if res.Urgent {
		m.Urgent.Inc()
	}
}
