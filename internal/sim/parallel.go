package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/heatsim/internal/heat"
)

// Job is one independent run of an ensemble.
type Job struct {
	Name     string
	Params   heat.Params
	Strategy heat.Strategy
}

// Ensemble runs independent jobs concurrently. Every job gets its own
// solver, system, and buffers; nothing mutable is shared between them.
type Ensemble struct {
	workers    int
	newSolver  func(heat.Strategy) (heat.Solver, error)
	newMetrics func(p heat.Params) []Metric
}

// NewEnsemble limits concurrency to workers; zero or less means GOMAXPROCS.
func NewEnsemble(workers int, newSolver func(heat.Strategy) (heat.Solver, error)) *Ensemble {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Ensemble{workers: workers, newSolver: newSolver}
}

// WithMetrics attaches a fresh metric set built by fn to every job.
func (e *Ensemble) WithMetrics(fn func(p heat.Params) []Metric) *Ensemble {
	e.newMetrics = fn
	return e
}

// Run executes jobs and returns results in job order. The first failure
// cancels the jobs still running.
func (e *Ensemble) Run(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	pools := rowPools(jobs)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for idx, job := range jobs {
		g.Go(func() error {
			solver, err := e.newSolver(job.Strategy)
			if err != nil {
				return fmt.Errorf("job %s: %w", job.Name, err)
			}

			s := New(solver)
			s.UsePool(pools[job.Params.Nodes])
			if e.newMetrics != nil {
				for _, m := range e.newMetrics(job.Params) {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, job.Params)
			results[idx] = res
			if err != nil {
				return fmt.Errorf("job %s: %w", job.Name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// rowPools builds one RowPool per distinct mesh size so jobs of the same size
// share scratch rows.
func rowPools(jobs []Job) map[int]*RowPool {
	pools := make(map[int]*RowPool)
	for _, job := range jobs {
		if _, ok := pools[job.Params.Nodes]; !ok {
			pools[job.Params.Nodes] = NewRowPool(job.Params.Nodes)
		}
	}
	return pools
}
