package solvers

import (
	"fmt"

	"github.com/edp1096/sparse"

	"github.com/san-kum/heatsim/internal/heat"
)

// Banded loads the three diagonals into a sparse matrix, factors it once,
// and delegates every step to the library's substitution. The library
// indexes rows and vectors from 1.
type Banded struct {
	matrix *sparse.Matrix
	size   int
	rhs    []float64
}

func NewBanded() *Banded {
	return &Banded{}
}

func (b *Banded) Name() string { return string(heat.Banded) }

func (b *Banded) Prepare(sys *heat.System) error {
	if err := heat.CheckSystem(sys); err != nil {
		return err
	}
	b.release()

	m := sys.Size()
	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 false,
		SeparatedComplexVectors: false,
		Expandable:              false,
		Translate:               false,
		ModifiedNodal:           false,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}
	matrix, err := sparse.Create(int64(m), config)
	if err != nil {
		return fmt.Errorf("banded: create %dx%d: %w", m, m, err)
	}

	for i := 0; i < m; i++ {
		row := int64(i + 1)
		if i > 0 {
			matrix.GetElement(row, row-1).Real = sys.Lower[i]
		}
		matrix.GetElement(row, row).Real = sys.Main[i]
		if i < m-1 {
			matrix.GetElement(row, row+1).Real = sys.Upper[i]
		}
	}

	if err := matrix.Factor(); err != nil {
		matrix.Destroy()
		return fmt.Errorf("banded: %w: factor: %v", heat.ErrSingularSystem, err)
	}

	b.matrix = matrix
	b.size = m
	b.rhs = make([]float64, m+1)
	return nil
}

func (b *Banded) Solve(dst, rhs []float64) error {
	if b.matrix == nil {
		return fmt.Errorf("banded: solve before prepare")
	}
	copy(b.rhs[1:], rhs[:b.size])
	sol, err := b.matrix.Solve(b.rhs)
	if err != nil {
		return fmt.Errorf("banded: %w: %v", heat.ErrSingularSystem, err)
	}
	copy(dst, sol[1:b.size+1])
	return nil
}

// Close releases the factored matrix.
func (b *Banded) Close() error {
	b.release()
	return nil
}

func (b *Banded) release() {
	if b.matrix != nil {
		b.matrix.Destroy()
		b.matrix = nil
	}
}
