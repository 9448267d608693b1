package solvers

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/heatsim/internal/heat"
)

func assembled(t *testing.T, shape heat.Shape, nr int) *heat.System {
	t.Helper()
	p, err := heat.Derive(heat.Input{
		Shape:        shape,
		Density:      700,
		SpecificHeat: 1500,
		Conductivity: 0.105,
		Convection:   375,
		Initial:      300,
		Ambient:      773,
		Radius:       0.000175,
		RadialSteps:  nr,
		TimeSteps:    1000,
		MaxTime:      0.8,
	})
	require.NoError(t, err)
	sys, err := heat.Assemble(p)
	require.NoError(t, err)
	return sys
}

func all(t *testing.T) []heat.Solver {
	t.Helper()
	out := make([]heat.Solver, 0, 3)
	for _, s := range heat.Strategies() {
		solver, err := New(s)
		require.NoError(t, err)
		out = append(out, solver)
	}
	return out
}

func TestResidual(t *testing.T) {
	for _, shape := range heat.Shapes() {
		sys := assembled(t, shape, 40)
		for _, solver := range all(t) {
			t.Run(shape.String()+"/"+solver.Name(), func(t *testing.T) {
				require.NoError(t, solver.Prepare(sys))

				x := make([]float64, sys.Size())
				require.NoError(t, solver.Solve(x, sys.RHS))

				ax := make([]float64, sys.Size())
				sys.MulVec(ax, x)
				for i := range ax {
					assert.InDelta(t, sys.RHS[i], ax[i], 1e-9*math.Abs(sys.RHS[i]), "row %d", i)
				}
			})
		}
	}
}

func TestStrategiesAgreeOverManySteps(t *testing.T) {
	sys := assembled(t, heat.Sphere, 100)
	m := sys.Size()
	solvers := all(t)

	rows := make([][]float64, len(solvers))
	rhs := make([]float64, m)
	for k, solver := range solvers {
		require.NoError(t, solver.Prepare(sys))
		rows[k] = make([]float64, m)
		copy(rows[k], sys.RHS)
	}

	next := make([]float64, m)
	for step := 1; step <= 200; step++ {
		for k, solver := range solvers {
			if step == 1 {
				copy(rhs, sys.RHS)
			} else {
				sys.UpdateRHS(rhs, rows[k])
			}
			require.NoError(t, solver.Solve(next, rhs))
			copy(rows[k], next)
		}
		for k := 1; k < len(solvers); k++ {
			for j := 0; j < m; j++ {
				ref := rows[0][j]
				require.InDelta(t, ref, rows[k][j], 1e-9*math.Abs(ref),
					"step %d node %d: %s vs %s", step, j, solvers[0].Name(), solvers[k].Name())
			}
		}
	}
}

func TestLUAliasedBuffers(t *testing.T) {
	sys := assembled(t, heat.Cylinder, 20)
	lu := NewLU()
	require.NoError(t, lu.Prepare(sys))

	want := make([]float64, sys.Size())
	require.NoError(t, lu.Solve(want, sys.RHS))

	buf := append([]float64(nil), sys.RHS...)
	require.NoError(t, lu.Solve(buf, buf))
	assert.Equal(t, want, buf)
}

func TestSingularPivot(t *testing.T) {
	sys := &heat.System{
		Lower: []float64{0, 1, 1},
		Main:  []float64{0, 2, 2},
		Upper: []float64{1, 1, 0},
		RHS:   []float64{1, 1, 1},
		Fo:    1,
		Bi:    1,
	}

	err := NewLU().Prepare(sys)
	require.Error(t, err)
	assert.True(t, errors.Is(err, heat.ErrSingularSystem))
	assert.Contains(t, err.Error(), "node 0")
}

func TestRejectsNonPositiveNumbers(t *testing.T) {
	sys := assembled(t, heat.Slab, 10)
	sys.Bi = 0
	for _, solver := range all(t) {
		err := solver.Prepare(sys)
		assert.ErrorIs(t, err, heat.ErrSingularSystem, solver.Name())
	}
}

func TestSolveBeforePrepare(t *testing.T) {
	dst := make([]float64, 3)
	for _, solver := range all(t) {
		assert.Error(t, solver.Solve(dst, []float64{1, 2, 3}), solver.Name())
	}
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"banded", "dense", "lu"}, Names())

	s, err := ByName("LU")
	require.NoError(t, err)
	assert.Equal(t, "lu", s.Name())

	_, err = New(heat.Strategy("qr"))
	assert.ErrorIs(t, err, heat.ErrInvalidParameter)
}
