// Package metrics exposes Prometheus instrumentation for mesh refinement.
// Metrics are registered on the default registry at package init.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefinementsTotal counts refinement passes by split type and mode
	// (uniform or sparse).
	RefinementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subdiv_refinements_total",
			Help: "Total number of refinement passes performed",
		},
		[]string{"split", "mode"},
	)

	// RefinementErrorsTotal counts refinement passes that returned an error.
	RefinementErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subdiv_refinement_errors_total",
			Help: "Total number of failed refinement passes",
		},
		[]string{"split"},
	)

	// RefinementDuration measures the time spent in a single pass.
	RefinementDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "subdiv_refinement_duration_seconds",
			Help:    "Duration of a single refinement pass in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"split", "mode"},
	)

	// ChildComponents records the size of each refined level.
	ChildComponents = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "subdiv_child_components",
			Help:    "Number of components in a refined child level",
			Buckets: prometheus.ExponentialBuckets(4, 4, 10),
		},
		[]string{"component"},
	)

	// LevelsTotal tracks the number of levels held by live refiners.
	LevelsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "subdiv_levels",
			Help: "Number of refinement levels currently held",
		},
	)
)

// Mode labels.
const (
	ModeUniform = "uniform"
	ModeSparse  = "sparse"
)

// ObserveRefinement records a successful pass.
func ObserveRefinement(split, mode string, faces, edges, verts int, d time.Duration) {
	RefinementsTotal.WithLabelValues(split, mode).Inc()
	RefinementDuration.WithLabelValues(split, mode).Observe(d.Seconds())
	ChildComponents.WithLabelValues("face").Observe(float64(faces))
	ChildComponents.WithLabelValues("edge").Observe(float64(edges))
	ChildComponents.WithLabelValues("vertex").Observe(float64(verts))
}

// ObserveFailure records a failed pass.
func ObserveFailure(split string) {
	RefinementErrorsTotal.WithLabelValues(split).Inc()
}
