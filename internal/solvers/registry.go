package solvers

import (
	"fmt"
	"sort"

	"github.com/san-kum/heatsim/internal/heat"
)

var registry = map[heat.Strategy]func() heat.Solver{
	heat.Dense:  func() heat.Solver { return NewDense() },
	heat.LU:     func() heat.Solver { return NewLU() },
	heat.Banded: func() heat.Solver { return NewBanded() },
}

// New returns a fresh, unprepared solver for s. Solvers hold per-run state
// and must not be shared between concurrent runs.
func New(s heat.Strategy) (heat.Solver, error) {
	fn, ok := registry[s]
	if !ok {
		return nil, fmt.Errorf("%w: unknown solver strategy %q", heat.ErrInvalidParameter, s)
	}
	return fn(), nil
}

// ByName parses name and returns the matching solver.
func ByName(name string) (heat.Solver, error) {
	s, err := heat.ParseStrategy(name)
	if err != nil {
		return nil, err
	}
	return New(s)
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for s := range registry {
		names = append(names, string(s))
	}
	sort.Strings(names)
	return names
}
