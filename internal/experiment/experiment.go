package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/heatsim/internal/config"
	"github.com/san-kum/heatsim/internal/heat"
	"github.com/san-kum/heatsim/internal/metrics"
	"github.com/san-kum/heatsim/internal/sim"
	"github.com/san-kum/heatsim/internal/solvers"
)

// Experiment binds one configuration record to a solver and a simulator.
type Experiment struct {
	cfg       *config.Config
	params    heat.Params
	strategy  heat.Strategy
	simulator *sim.Simulator
}

// New validates cfg and derives its discretization.
func New(cfg *config.Config) (*Experiment, error) {
	p, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	strategy, err := cfg.Strategy()
	if err != nil {
		return nil, err
	}
	return &Experiment{cfg: cfg.Clone(), params: p, strategy: strategy}, nil
}

// Setup creates the solver and attaches ms. With no metrics the default set
// is used.
func (e *Experiment) Setup(ms ...sim.Metric) error {
	solver, err := solvers.New(e.strategy)
	if err != nil {
		return err
	}
	e.simulator = sim.New(solver)
	if len(ms) == 0 {
		ms = metrics.Defaults(e.params)
	}
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.params)
}

func (e *Experiment) Config() *config.Config  { return e.cfg }
func (e *Experiment) Params() heat.Params     { return e.params }
func (e *Experiment) Strategy() heat.Strategy { return e.strategy }

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
