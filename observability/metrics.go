// Package observability exposes Prometheus metrics for sojourn machines.
package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sojourn-fsm/sojourn"
)

// Metrics holds the Prometheus collectors shared by all instrumented
// machines. Series are partitioned by a caller-chosen machine name.
type Metrics struct {
	transitions  *prometheus.CounterVec
	ticks        *prometheus.CounterVec
	tickDuration *prometheus.HistogramVec
	updatePanics *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sojourn",
			Name:      "transitions_total",
			Help:      "State transitions, by machine and edge.",
		}, []string{"machine", "from", "to"}),
		ticks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sojourn",
			Name:      "ticks_total",
			Help:      "Processed clock ticks, by machine.",
		}, []string{"machine"}),
		tickDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sojourn",
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent evaluating one tick.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"machine"}),
		updatePanics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sojourn",
			Name:      "update_panics_total",
			Help:      "Recovered panics in update callbacks, by machine.",
		}, []string{"machine"}),
	}
}

// Instrument produces the hooks that feed a machine's activity into mx.
// Pass the result to sojourn.WithHooks at construction.
func Instrument[T comparable](mx *Metrics, name string) sojourn.Hooks[T] {
	return sojourn.Hooks[T]{
		OnTick: func(dt, took time.Duration) {
			mx.ticks.WithLabelValues(name).Inc()
			mx.tickDuration.WithLabelValues(name).Observe(took.Seconds())
		},
		OnTransition: func(from, to T, stay time.Duration) {
			mx.transitions.WithLabelValues(name, fmt.Sprint(from), fmt.Sprint(to)).Inc()
		},
		OnUpdatePanic: func(recovered any) {
			mx.updatePanics.WithLabelValues(name).Inc()
		},
	}
}
