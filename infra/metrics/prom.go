package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/supplymate/core/metrics"
)

// PromSink records allocation results in Prometheus metrics.
type PromSink struct {
	results *prometheus.CounterVec
	score   *prometheus.HistogramVec
	served  *prometheus.GaugeVec
}

// NewPromSink registers allocation metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	results := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_recipient_results_total",
		Help: "Per-recipient allocation outcomes",
	}, []string{"kind", "served"})
	score := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "allocation_score",
		Help:    "Distribution of allocation scores of served recipients",
		Buckets: prometheus.LinearBuckets(0, 10, 10),
	}, []string{"kind"})
	served := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "allocation_last_run_served_ratio",
		Help: "Share of ranked recipients served by the last run",
	}, []string{"kind"})

	var err error
	if results, err = register(reg, results); err != nil {
		return nil, err
	}
	if score, err = register(reg, score); err != nil {
		return nil, err
	}
	if served, err = register(reg, served); err != nil {
		return nil, err
	}
	return &PromSink{results: results, score: score, served: served}, nil
}

// register adds c to reg, reusing an identical collector that is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordAllocationResult counts each per-recipient result.
func (s *PromSink) RecordAllocationResult(res []coremetrics.AllocationResult) error {
	for _, r := range res {
		s.results.WithLabelValues(r.Kind, strconv.FormatBool(r.Served)).Inc()
		if r.Served {
			s.score.WithLabelValues(r.Kind).Observe(r.Score)
		}
	}
	return nil
}

// RecordRun sets the served ratio of the run.
func (s *PromSink) RecordRun(sum coremetrics.RunSummary) error {
	ratio := 0.0
	if sum.Recipients > 0 {
		ratio = float64(sum.Served) / float64(sum.Recipients)
	}
	s.served.WithLabelValues(sum.Kind).Set(ratio)
	return nil
}
