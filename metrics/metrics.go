// Package metrics instruments a Task's lifecycle with Prometheus
// counters/histograms, adapted from the teacher's
// middlewares/prometheus.go: same metric shapes (a counter of outcomes, a
// histogram of durations), wired through threadtask's hook vocabulary
// instead of a middleware chain since threadtask has no request pipeline
// to wrap.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"

	"github.com/matroskin13/threadtask"
)

// Collector tracks run counts and durations for one or more tasks, keyed
// by the name each is registered under.
type Collector struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector builds a Collector with its own counter/histogram pair,
// the same metric names and buckets as the teacher's middlewares.Prometheus.
func NewCollector() *Collector {
	return &Collector{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "threadtask_runs_total",
			Help: "Count of task runs by outcome",
		}, []string{"task", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "threadtask_run_duration_seconds",
			Help:    "Wall time from start to a terminal or stopped state",
			Buckets: []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30},
		}, []string{"task", "outcome"}),
	}
}

// Registry returns a fresh *prometheus.Registry carrying this Collector's
// metrics, ready to be exposed over an HTTP handler by the caller.
func (c *Collector) Registry() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(c.total)
	r.MustRegister(c.duration)
	return r
}

// Instrument returns the on_start/on_final/on_stop hooks needed to track
// name's runs. Wire on_start as WithOnStart, and both on_final and
// on_stop as WithOnFinal/WithOnStop. Each stop cycle is counted as
// stopped and each natural finish as finished, so a run that is stopped
// and later continued to its end is counted once for each; a run that an
// unhandled action error ends fires neither hook and is not counted.
func (c *Collector) Instrument(name string) (start, final, stop threadtask.HookFunc) {
	var startedAt time.Time

	start = func(threadtask.Args, threadtask.Kwargs) {
		startedAt = time.Now()
	}
	record := func(outcome string) {
		d := time.Since(startedAt)
		c.total.WithLabelValues(name, outcome).Inc()
		c.duration.WithLabelValues(name, outcome).Observe(d.Seconds())
	}
	final = func(threadtask.Args, threadtask.Kwargs) {
		record("finished")
	}
	stop = func(threadtask.Args, threadtask.Kwargs) {
		record(lo.Ternary(startedAt.IsZero(), "stopped_early", "stopped"))
	}
	return start, final, stop
}
