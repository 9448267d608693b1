package sim

import (
	"time"

	"github.com/san-kum/heatsim/internal/heat"
)

// Phase is the lifecycle state of a run.
type Phase int32

const (
	Initialized Phase = iota
	Stepping
	Complete
	Aborted
)

func (p Phase) String() string {
	switch p {
	case Initialized:
		return "initialized"
	case Stepping:
		return "stepping"
	case Complete:
		return "complete"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// Metric accumulates a scalar over the rows of a run. Observe receives
// every completed row, row 0 included. row must not be retained.
type Metric interface {
	Name() string
	Observe(step int, t float64, row []float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, t float64, row []float64)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(step int, t float64, row []float64)

func (f ObserverFunc) OnStep(step int, t float64, row []float64) { f(step, t, row) }

type Result struct {
	Field      *heat.Field
	Params     heat.Params
	Solver     string
	Metrics    map[string]float64
	StepsTaken int
	Elapsed    time.Duration
}
