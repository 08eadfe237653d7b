// Package status collects live session metrics for the status bar
package status

import (
	"strconv"
	"sync/atomic"
)

// Metric keys published by the session
const (
	KeyTrialStep      = "trial.step"
	KeyTrialReversals = "trial.reversals"
	KeyTrialCorrect   = "trial.correct"
	KeyTrialIncorrect = "trial.incorrect"
	KeyWorldCoherence = "world.coherence"
	KeyWorldFPS       = "world.fps"
)

// Registry groups integer and float metrics. Producers cache the pointer
// returned by Ints.Get or Floats.Get and store into it every tick
type Registry struct {
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

func NewRegistry() *Registry {
	return &Registry{
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// Entry is one formatted metric
type Entry struct {
	Key   string
	Value string
}

// Snapshot formats every metric, ints first, each group in key order
func (r *Registry) Snapshot() []Entry {
	out := make([]Entry, 0, r.Ints.Count()+r.Floats.Count())
	r.Ints.Range(func(key string, v *atomic.Int64) {
		out = append(out, Entry{Key: key, Value: strconv.FormatInt(v.Load(), 10)})
	})
	r.Floats.Range(func(key string, v *AtomicFloat) {
		out = append(out, Entry{Key: key, Value: strconv.FormatFloat(v.Get(), 'f', 1, 64)})
	})
	return out
}

// TotalCount returns the number of registered metrics
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count()
}
