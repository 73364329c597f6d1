package allocation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	runsTotal        *prometheus.CounterVec
	recipientsServed *prometheus.CounterVec
	unitsAllocated   *prometheus.CounterVec
	runDuration      prometheus.Histogram
	inventoryUnits   *prometheus.GaugeVec
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.CounterVec, *prometheus.CounterVec, prometheus.Histogram, *prometheus.GaugeVec) {
	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocation_runs_total",
			Help: "Number of allocation runs",
		},
		[]string{"kind"},
	)
	served := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocation_recipients_served_total",
			Help: "Number of recipients that received at least one supply",
		},
		[]string{"kind"},
	)
	units := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocation_units_total",
			Help: "Units of each supply handed out",
		},
		[]string{"supply"},
	)
	dur := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "allocation_run_duration_seconds",
			Help:    "Duration of allocation runs",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)
	inv := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "inventory_remaining_units",
			Help: "Units left in the inventory after the last run",
		},
		[]string{"supply"},
	)
	return runs, served, units, dur, inv
}

func init() {
	runsTotal, recipientsServed, unitsAllocated, runDuration, inventoryUnits = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers allocation metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(runsTotal, recipientsServed, unitsAllocated, runDuration, inventoryUnits)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	runsTotal, recipientsServed, unitsAllocated, runDuration, inventoryUnits = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
