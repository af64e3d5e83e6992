// Package metrics exposes scorekeeping activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sink receives scorekeeping activity.
type Sink interface {
	ActionRecorded(kind string)
	ActionUndone(undoType string)
	GameSaved()
	ActionLogSize(n int)
}

// Recorder is a Sink backed by its own Prometheus registry.
type Recorder struct {
	registry   *prometheus.Registry
	actions    *prometheus.CounterVec
	undos      *prometheus.CounterVec
	gamesSaved prometheus.Counter
	logSize    prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courtside",
			Name:      "actions_total",
			Help:      "Operator actions applied, by kind.",
		}, []string{"kind"}),
		undos: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courtside",
			Name:      "undos_total",
			Help:      "Undo operations, by type (global or shot).",
		}, []string{"type"}),
		gamesSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "courtside",
			Name:      "games_saved_total",
			Help:      "Games saved to history.",
		}),
		logSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "courtside",
			Name:      "action_log_size",
			Help:      "Number of actions available for global undo.",
		}),
	}
	r.registry.MustRegister(
		r.actions, r.undos, r.gamesSaved, r.logSize,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ActionRecorded(kind string)   { r.actions.WithLabelValues(kind).Inc() }
func (r *Recorder) ActionUndone(undoType string) { r.undos.WithLabelValues(undoType).Inc() }
func (r *Recorder) GameSaved()                   { r.gamesSaved.Inc() }
func (r *Recorder) ActionLogSize(n int)          { r.logSize.Set(float64(n)) }

// Registry returns the registry the collectors are registered with.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

type noop struct{}

// NewNoop returns a Sink that discards everything.
func NewNoop() Sink { return noop{} }

func (noop) ActionRecorded(string) {}
func (noop) ActionUndone(string)   {}
func (noop) GameSaved()            {}
func (noop) ActionLogSize(int)     {}
