package solvers

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/heatsim/internal/heat"
)

// Dense solves the full m x m system by elimination on every step.
// It ignores the band structure and is kept as the reference path.
type Dense struct {
	a *mat.Dense
	b *mat.VecDense
	x *mat.VecDense

	rhs []float64
}

func NewDense() *Dense {
	return &Dense{}
}

func (d *Dense) Name() string { return string(heat.Dense) }

func (d *Dense) Prepare(sys *heat.System) error {
	if err := heat.CheckSystem(sys); err != nil {
		return err
	}
	m := sys.Size()
	d.a = mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		if i > 0 {
			d.a.Set(i, i-1, sys.Lower[i])
		}
		d.a.Set(i, i, sys.Main[i])
		if i < m-1 {
			d.a.Set(i, i+1, sys.Upper[i])
		}
	}
	d.rhs = make([]float64, m)
	d.b = mat.NewVecDense(m, d.rhs)
	d.x = mat.NewVecDense(m, nil)
	return nil
}

func (d *Dense) Solve(dst, rhs []float64) error {
	if d.a == nil {
		return fmt.Errorf("dense: solve before prepare")
	}
	copy(d.rhs, rhs)
	if err := d.x.SolveVec(d.a, d.b); err != nil {
		return fmt.Errorf("dense: %w: %v", heat.ErrSingularSystem, err)
	}
	copy(dst, d.x.RawVector().Data)
	return nil
}
