package solvers

import (
	"fmt"
	"math"

	"github.com/san-kum/heatsim/internal/heat"
)

// pivotFloor is the smallest pivot magnitude accepted during factorization.
const pivotFloor = 1e-300

// LU factors the tridiagonal matrix once without pivoting and reuses the
// factors for every step. The system is an M-matrix, so no pivoting is needed.
type LU struct {
	lower []float64 // sub-diagonal of A, the multipliers use it with inv
	inv   []float64 // 1 / pivot of U
	gamma []float64 // super-diagonal of U divided by the pivot
}

func NewLU() *LU {
	return &LU{}
}

func (l *LU) Name() string { return string(heat.LU) }

func (l *LU) Prepare(sys *heat.System) error {
	if err := heat.CheckSystem(sys); err != nil {
		return err
	}
	m := sys.Size()
	l.lower = append(l.lower[:0], sys.Lower...)
	l.inv = make([]float64, m)
	l.gamma = make([]float64, m)

	pivot := sys.Main[0]
	for i := 0; i < m; i++ {
		if i > 0 {
			pivot = sys.Main[i] - sys.Lower[i]*l.gamma[i-1]
		}
		if math.Abs(pivot) < pivotFloor || math.IsNaN(pivot) {
			l.inv = nil
			return heat.SingularError(i, pivot)
		}
		l.inv[i] = 1 / pivot
		if i < m-1 {
			l.gamma[i] = sys.Upper[i] * l.inv[i]
		}
	}
	return nil
}

// Solve runs forward then back substitution. dst may alias rhs.
func (l *LU) Solve(dst, rhs []float64) error {
	m := len(l.inv)
	if m == 0 {
		return fmt.Errorf("lu: solve before prepare")
	}

	dst[0] = rhs[0] * l.inv[0]
	for i := 1; i < m; i++ {
		dst[i] = (rhs[i] - l.lower[i]*dst[i-1]) * l.inv[i]
	}
	for i := m - 2; i >= 0; i-- {
		dst[i] -= l.gamma[i] * dst[i+1]
	}
	return nil
}
