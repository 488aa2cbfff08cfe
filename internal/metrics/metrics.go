// Package metrics exposes Prometheus counters for game activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tictactoe"

type Metrics struct {
	registry *prometheus.Registry

	moves           *prometheus.CounterVec
	outcomes        *prometheus.CounterVec
	resets          *prometheus.CounterVec
	sessionsCreated prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		moves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Move attempts by result.",
		}, []string{"result"}),
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Finished games by outcome.",
		}, []string{"status"}),
		resets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Board resets by kind.",
		}, []string{"kind"}),
		sessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Game sessions created.",
		}),
	}
}

func (that *Metrics) Registry() *prometheus.Registry {
	return that.registry
}

func (that *Metrics) MoveApplied() {
	that.moves.WithLabelValues("applied").Inc()
}

func (that *Metrics) MoveRejected() {
	that.moves.WithLabelValues("rejected").Inc()
}

func (that *Metrics) GameFinished(status string) {
	that.outcomes.WithLabelValues(status).Inc()
}

func (that *Metrics) Reset(kind string) {
	that.resets.WithLabelValues(kind).Inc()
}

func (that *Metrics) SessionCreated() {
	that.sessionsCreated.Inc()
}
