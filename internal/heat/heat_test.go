package heat

import (
	"errors"
	"math"
	"testing"
)

func papadikis(shape Shape) Input {
	return Input{
		Shape:        shape,
		Density:      700,
		SpecificHeat: 1500,
		Conductivity: 0.105,
		Convection:   375,
		Initial:      300,
		Ambient:      773,
		Radius:       0.000175,
		RadialSteps:  100,
		TimeSteps:    1000,
		MaxTime:      0.8,
	}
}

func TestDeriveDimensionless(t *testing.T) {
	p, err := Derive(papadikis(Sphere))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if p.Nodes != 101 {
		t.Errorf("expected 101 nodes, got %d", p.Nodes)
	}

	dr := 0.000175 / 100
	dt := 0.8 / 1000
	alpha := 0.105 / (700 * 1500)
	wantFo := alpha * dt / (dr * dr)
	wantBi := 375 * dr / 0.105

	if math.Abs(p.Fo-wantFo) > 1e-12*wantFo {
		t.Errorf("Fo = %g, want %g", p.Fo, wantFo)
	}
	if math.Abs(p.Bi-wantBi) > 1e-12*wantBi {
		t.Errorf("Bi = %g, want %g", p.Bi, wantBi)
	}
	if p.Fo < 20 || p.Fo > 30 {
		t.Errorf("Fo = %g outside expected magnitude", p.Fo)
	}
}

func TestDeriveRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"zero density", func(in *Input) { in.Density = 0 }},
		{"negative specific heat", func(in *Input) { in.SpecificHeat = -1 }},
		{"zero conductivity", func(in *Input) { in.Conductivity = 0 }},
		{"zero convection", func(in *Input) { in.Convection = 0 }},
		{"zero radius", func(in *Input) { in.Radius = 0 }},
		{"no radial steps", func(in *Input) { in.RadialSteps = 0 }},
		{"no time steps", func(in *Input) { in.TimeSteps = 0 }},
		{"zero max time", func(in *Input) { in.MaxTime = 0 }},
		{"nan ambient", func(in *Input) { in.Ambient = math.NaN() }},
		{"inf initial", func(in *Input) { in.Initial = math.Inf(1) }},
		{"bad shape", func(in *Input) { in.Shape = Shape(7) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := papadikis(Slab)
			tt.mutate(&in)
			_, err := Derive(in)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
			var pe *ParameterError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParameterError, got %T", err)
			}
		})
	}
}

func TestAssembleStructure(t *testing.T) {
	for _, shape := range Shapes() {
		t.Run(shape.String(), func(t *testing.T) {
			in := papadikis(shape)
			in.RadialSteps = 9
			p, err := Derive(in)
			if err != nil {
				t.Fatal(err)
			}
			sys, err := Assemble(p)
			if err != nil {
				t.Fatal(err)
			}
			m := sys.Size()
			if m != 10 {
				t.Fatalf("size = %d, want 10", m)
			}
			if sys.Lower[0] != 0 || sys.Upper[m-1] != 0 {
				t.Errorf("corner entries must be zero")
			}

			b := shape.Exponent()
			if got, want := sys.Main[0], 1+2*(1+b)*p.Fo; math.Abs(got-want) > 1e-12 {
				t.Errorf("center main = %g, want %g", got, want)
			}
			if got, want := sys.Upper[0], -2*(1+b)*p.Fo; math.Abs(got-want) > 1e-12 {
				t.Errorf("center upper = %g, want %g", got, want)
			}

			for i := 1; i < m-1; i++ {
				k := b / (2 * float64(i+1))
				if math.Abs(sys.Lower[i]+p.Fo*(1-k)) > 1e-12 {
					t.Errorf("lower[%d] = %g", i, sys.Lower[i])
				}
				if math.Abs(sys.Upper[i]+p.Fo*(1+k)) > 1e-12 {
					t.Errorf("upper[%d] = %g", i, sys.Upper[i])
				}
				if math.Abs(sys.Main[i]-(1+2*p.Fo)) > 1e-12 {
					t.Errorf("main[%d] = %g", i, sys.Main[i])
				}
				// interior rows conserve a uniform field
				sum := sys.Lower[i] + sys.Main[i] + sys.Upper[i]
				if math.Abs(sum-1) > 1e-9 {
					t.Errorf("row %d sums to %g", i, sum)
				}
			}

			area := 1 + b/(2*float64(m))
			if got, want := sys.Main[m-1], 1+2*p.Fo*(1+p.Bi*area); math.Abs(got-want) > 1e-9 {
				t.Errorf("surface main = %g, want %g", got, want)
			}
			if got, want := sys.SurfaceGain, 2*p.Fo*p.Bi*area*p.Ambient; math.Abs(got-want) > 1e-9 {
				t.Errorf("surface gain = %g, want %g", got, want)
			}
			if got, want := sys.RHS[m-1], p.Initial+sys.SurfaceGain; math.Abs(got-want) > 1e-9 {
				t.Errorf("surface rhs = %g, want %g", got, want)
			}
		})
	}
}

func TestSlabInteriorIsSymmetric(t *testing.T) {
	p, err := Derive(papadikis(Slab))
	if err != nil {
		t.Fatal(err)
	}
	sys, err := Assemble(p)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < sys.Size()-1; i++ {
		if sys.Lower[i] != sys.Upper[i] {
			t.Fatalf("slab row %d: lower %g != upper %g", i, sys.Lower[i], sys.Upper[i])
		}
	}
}

func TestAssembleRejectsDegenerate(t *testing.T) {
	_, err := Assemble(Params{Input: Input{RadialSteps: 1}, Nodes: 2, Fo: 0, Bi: 1})
	if !errors.Is(err, ErrSingularSystem) {
		t.Fatalf("expected ErrSingularSystem, got %v", err)
	}
}

func TestUpdateRHS(t *testing.T) {
	in := papadikis(Cylinder)
	in.RadialSteps = 4
	p, _ := Derive(in)
	sys, _ := Assemble(p)

	prev := []float64{301, 302, 303, 304, 305}
	dst := make([]float64, 5)
	sys.UpdateRHS(dst, prev)

	for i := 0; i < 4; i++ {
		if dst[i] != prev[i] {
			t.Errorf("dst[%d] = %g, want %g", i, dst[i], prev[i])
		}
	}
	if want := 305 + sys.SurfaceGain; dst[4] != want {
		t.Errorf("surface = %g, want %g", dst[4], want)
	}
}

func TestMulVecMatchesRows(t *testing.T) {
	in := papadikis(Sphere)
	in.RadialSteps = 5
	p, _ := Derive(in)
	sys, _ := Assemble(p)

	x := []float64{1, 2, 3, 4, 5, 6}
	got := make([]float64, 6)
	sys.MulVec(got, x)
	for i := range x {
		row := sys.Row(i)
		want := 0.0
		for j := range row {
			want += row[j] * x[j]
		}
		if math.Abs(got[i]-want) > 1e-9 {
			t.Errorf("row %d: %g != %g", i, got[i], want)
		}
	}
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		in   string
		want Shape
		ok   bool
	}{
		{"slab", Slab, true},
		{"Cylinder", Cylinder, true},
		{" SPHERE ", Sphere, true},
		{"cube", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseShape(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseShape(%q) = %v, %v", tt.in, got, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("ParseShape(%q) expected ErrInvalidParameter, got %v", tt.in, err)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range Strategies() {
		got, err := ParseStrategy(string(s))
		if err != nil || got != s {
			t.Errorf("ParseStrategy(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseStrategy("cholesky"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestFieldLayout(t *testing.T) {
	in := papadikis(Slab)
	in.RadialSteps = 3
	in.TimeSteps = 4
	p, _ := Derive(in)

	f := NewField(p)
	if f.Rows() != 5 || f.Nodes() != 4 {
		t.Fatalf("shape %dx%d, want 5x4", f.Rows(), f.Nodes())
	}
	if len(f.Times) != 5 || f.Times[4] != in.MaxTime {
		t.Errorf("times = %v", f.Times)
	}
	if f.Radii[0] != 0 || f.Radii[3] != in.Radius {
		t.Errorf("radii = %v", f.Radii)
	}

	row := f.Row(2)
	row[3] = 500
	if f.At(2, 3) != 500 {
		t.Errorf("row does not alias field")
	}
	if f.Surface()[2] != 500 || f.Center()[2] != in.Initial {
		t.Errorf("node histories wrong")
	}

	f.Truncate(3)
	if f.Rows() != 3 || len(f.Times) != 3 {
		t.Errorf("truncate: rows=%d times=%d", f.Rows(), len(f.Times))
	}
	lo, hi := f.Extent()
	if lo != in.Initial || hi != 500 {
		t.Errorf("extent = %g, %g", lo, hi)
	}
}

func TestCheckRow(t *testing.T) {
	if err := CheckRow(1, 0.1, []float64{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	err := CheckRow(7, 0.7, []float64{1, math.NaN(), 3})
	if !errors.Is(err, ErrNumericalDivergence) {
		t.Fatalf("expected ErrNumericalDivergence, got %v", err)
	}
	var se *StepError
	if !errors.As(err, &se) || se.Step != 7 || se.Node != 1 {
		t.Errorf("step error = %+v", se)
	}
}
