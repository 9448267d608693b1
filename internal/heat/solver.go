package heat

import (
	"fmt"
	"strings"
)

// Solver computes the node temperatures of one step from a right-hand side.
// Prepare is called once per run with the assembled system; Solve is then
// called for every step and must not retain dst or rhs.
type Solver interface {
	Name() string
	Prepare(sys *System) error
	Solve(dst, rhs []float64) error
}

// Strategy names a Solver implementation.
type Strategy string

const (
	Dense  Strategy = "dense"
	LU     Strategy = "lu"
	Banded Strategy = "banded"
)

// Strategies lists the available strategies, reference first.
func Strategies() []Strategy {
	return []Strategy{Dense, LU, Banded}
}

func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case Dense, LU, Banded:
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown solver strategy %q (want dense, lu or banded)", ErrInvalidParameter, name)
}

// CheckSystem rejects systems that no strategy can solve.
func CheckSystem(sys *System) error {
	if sys == nil || len(sys.Main) < 2 {
		return fmt.Errorf("%w: system needs at least two nodes", ErrSingularSystem)
	}
	if !(sys.Fo > 0) || !(sys.Bi > 0) {
		return fmt.Errorf("%w: Fo=%g Bi=%g must both be positive", ErrSingularSystem, sys.Fo, sys.Bi)
	}
	m := len(sys.Main)
	if len(sys.Lower) != m || len(sys.Upper) != m {
		return fmt.Errorf("%w: diagonal lengths %d/%d/%d differ", ErrSingularSystem, len(sys.Lower), m, len(sys.Upper))
	}
	return nil
}
