package sim

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/heatsim/internal/heat"
)

// Simulator marches one conduction run through time with a single solver.
// A Simulator runs one job at a time; use Ensemble for parallel runs.
type Simulator struct {
	solver    heat.Solver
	metrics   []Metric
	observers []Observer
	pool      *RowPool
	phase     atomic.Int32
}

func New(solver heat.Solver) *Simulator {
	return &Simulator{
		solver:    solver,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// UsePool makes the simulator draw its scratch buffer from p when the mesh
// sizes match.
func (s *Simulator) UsePool(p *RowPool) { s.pool = p }

// Phase reports the lifecycle state of the current or last run.
func (s *Simulator) Phase() Phase { return Phase(s.phase.Load()) }

func (s *Simulator) setPhase(p Phase) { s.phase.Store(int32(p)) }

// Run assembles the system for p and fills the temperature field row by row.
// On cancellation or failure the returned result holds every completed row
// together with the error.
func (s *Simulator) Run(ctx context.Context, p heat.Params) (*Result, error) {
	start := time.Now()
	logger := log.WithFields(log.Fields{
		"shape":  p.Shape.String(),
		"solver": s.solver.Name(),
		"nodes":  p.Nodes,
		"steps":  p.TimeSteps,
	})

	sys, err := heat.Assemble(p)
	if err != nil {
		s.setPhase(Aborted)
		return nil, fmt.Errorf("assemble: %w", err)
	}
	if err := s.solver.Prepare(sys); err != nil {
		s.setPhase(Aborted)
		return nil, fmt.Errorf("prepare %s solver: %w", s.solver.Name(), err)
	}
	defer s.closeSolver(logger)

	field := heat.NewField(p)
	result := &Result{
		Field:   field,
		Params:  p,
		Solver:  s.solver.Name(),
		Metrics: make(map[string]float64),
	}
	s.setPhase(Initialized)
	logger.WithFields(log.Fields{"fo": p.Fo, "bi": p.Bi}).Debug("run initialized")

	for _, m := range s.metrics {
		m.Reset()
	}
	s.observe(0, 0, field.Row(0))

	rhs := s.scratch(p.Nodes)
	defer s.release(rhs)

	s.setPhase(Stepping)
	for i := 1; i <= p.TimeSteps; i++ {
		select {
		case <-ctx.Done():
			return s.abort(result, i, start, ctx.Err(), logger)
		default:
		}

		t := field.Times[i]
		sys.UpdateRHS(rhs, field.Row(i-1))
		row := field.Row(i)
		if err := s.solver.Solve(row, rhs); err != nil {
			return s.abort(result, i, start, &heat.StepError{Step: i, Node: -1, Time: t, Wrapped: err}, logger)
		}
		if err := heat.CheckRow(i, t, row); err != nil {
			return s.abort(result, i, start, err, logger)
		}

		result.StepsTaken++
		s.observe(i, t, row)
	}

	s.finish(result, start)
	s.setPhase(Complete)
	logger.WithField("elapsed", result.Elapsed).Debug("run complete")
	return result, nil
}

func (s *Simulator) observe(step int, t float64, row []float64) {
	for _, m := range s.metrics {
		m.Observe(step, t, row)
	}
	for _, o := range s.observers {
		o.OnStep(step, t, row)
	}
}

// abort keeps rows 0..step-1 and marks the run as aborted.
func (s *Simulator) abort(result *Result, step int, start time.Time, err error, logger *log.Entry) (*Result, error) {
	result.Field.Truncate(step)
	s.finish(result, start)
	s.setPhase(Aborted)
	logger.WithFields(log.Fields{"step": step, "error": err}).Debug("run aborted")
	return result, err
}

func (s *Simulator) finish(result *Result, start time.Time) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Elapsed = time.Since(start)
}

// closeSolver releases solvers that hold resources between Prepare and the
// end of a run.
func (s *Simulator) closeSolver(logger *log.Entry) {
	c, ok := s.solver.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		logger.WithError(err).Warn("closing solver failed")
	}
}

func (s *Simulator) scratch(n int) []float64 {
	if s.pool != nil && s.pool.Size() == n {
		return s.pool.Get()
	}
	return make([]float64, n)
}

func (s *Simulator) release(row []float64) {
	if s.pool != nil {
		s.pool.Put(row)
	}
}
