package heat

import "fmt"

// System is the implicit update A T(i) = C(i-1) written as three diagonals.
// Lower[0] and Upper[m-1] are always zero.
type System struct {
	Lower []float64
	Main  []float64
	Upper []float64

	// RHS is the right-hand side of the first step.
	RHS []float64

	Fo float64
	Bi float64

	// SurfaceGain is the convective source 2 Fo Bi (1 + b/(2m)) Tinf added
	// to the surface entry of every right-hand side.
	SurfaceGain float64
}

// Assemble builds the tridiagonal system for p. The result is reused for
// every step of the run.
func Assemble(p Params) (*System, error) {
	if !(p.Fo > 0) || !(p.Bi > 0) {
		return nil, fmt.Errorf("%w: Fo=%g Bi=%g must both be positive", ErrSingularSystem, p.Fo, p.Bi)
	}
	m := p.Nodes
	if m < 2 {
		return nil, &ParameterError{Name: "nodes", Value: float64(m), Reason: "need a center and a surface node"}
	}

	coef := p.Shape.coefficients()
	sys := &System{
		Lower: make([]float64, m),
		Main:  make([]float64, m),
		Upper: make([]float64, m),
		RHS:   make([]float64, m),
		Fo:    p.Fo,
		Bi:    p.Bi,
	}

	c := coef.center(p.Fo)
	sys.Main[0] = 1 + c
	sys.Upper[0] = -c
	sys.RHS[0] = p.Initial

	for i := 1; i < m-1; i++ {
		sys.Lower[i], sys.Upper[i] = coef.interior(i, p.Fo)
		sys.Main[i] = 1 + 2*p.Fo
		sys.RHS[i] = p.Initial
	}

	area := coef.surface(m)
	sys.Lower[m-1] = -2 * p.Fo
	sys.Main[m-1] = 1 + 2*p.Fo*(1+p.Bi*area)
	sys.SurfaceGain = 2 * p.Fo * p.Bi * area * p.Ambient
	sys.RHS[m-1] = p.Initial + sys.SurfaceGain

	return sys, nil
}

// Size returns the number of nodes.
func (s *System) Size() int {
	return len(s.Main)
}

// UpdateRHS fills dst with the right-hand side for the step that follows
// prev. dst and prev must not alias.
func (s *System) UpdateRHS(dst, prev []float64) {
	m := len(s.Main)
	copy(dst[:m-1], prev[:m-1])
	dst[m-1] = prev[m-1] + s.SurfaceGain
}

// Row returns the dense coefficients of equation i.
func (s *System) Row(i int) []float64 {
	m := len(s.Main)
	row := make([]float64, m)
	if i > 0 {
		row[i-1] = s.Lower[i]
	}
	row[i] = s.Main[i]
	if i < m-1 {
		row[i+1] = s.Upper[i]
	}
	return row
}

// MulVec computes dst = A x. It is used to check residuals.
func (s *System) MulVec(dst, x []float64) {
	m := len(s.Main)
	for i := 0; i < m; i++ {
		v := s.Main[i] * x[i]
		if i > 0 {
			v += s.Lower[i] * x[i-1]
		}
		if i < m-1 {
			v += s.Upper[i] * x[i+1]
		}
		dst[i] = v
	}
}
