package heat

import "math"

// Input is the physical description of one run in SI units.
type Input struct {
	Shape        Shape
	Density      float64 // kg/m^3
	SpecificHeat float64 // J/(kg K)
	Conductivity float64 // W/(m K)
	Convection   float64 // W/(m^2 K)
	Initial      float64 // K
	Ambient      float64 // K
	Radius       float64 // m, half-thickness for a slab
	RadialSteps  int     // nr, the mesh has nr+1 nodes
	TimeSteps    int     // nt
	MaxTime      float64 // s
}

// Params is an Input together with its mesh and dimensionless numbers.
type Params struct {
	Input

	Nodes int     // m = nr + 1
	Dr    float64 // radial spacing
	Dt    float64 // time step
	Alpha float64 // thermal diffusivity k/(rho c)
	Fo    float64 // Fourier number alpha dt / dr^2
	Bi    float64 // Biot number h dr / k
}

// Derive validates in and computes the discretization. Large Fourier numbers
// are accepted; the implicit scheme stays stable but truncation error grows.
func Derive(in Input) (Params, error) {
	if !in.Shape.Valid() {
		return Params{}, &ParameterError{Name: "shape", Value: float64(in.Shape), Reason: "must be slab, cylinder or sphere"}
	}
	positive := []struct {
		name  string
		value float64
	}{
		{"density", in.Density},
		{"specific_heat", in.SpecificHeat},
		{"conductivity", in.Conductivity},
		{"convection_coefficient", in.Convection},
		{"initial_temperature", in.Initial},
		{"ambient_temperature", in.Ambient},
		{"characteristic_radius", in.Radius},
		{"max_time", in.MaxTime},
	}
	for _, f := range positive {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return Params{}, &ParameterError{Name: f.name, Value: f.value, Reason: "must be finite"}
		}
		if f.value <= 0 {
			return Params{}, &ParameterError{Name: f.name, Value: f.value, Reason: "must be positive"}
		}
	}
	if in.RadialSteps < 1 {
		return Params{}, &ParameterError{Name: "node_count", Value: float64(in.RadialSteps), Reason: "need at least one radial step"}
	}
	if in.TimeSteps < 1 {
		return Params{}, &ParameterError{Name: "step_count", Value: float64(in.TimeSteps), Reason: "need at least one time step"}
	}

	p := Params{Input: in}
	p.Nodes = in.RadialSteps + 1
	p.Dr = in.Radius / float64(in.RadialSteps)
	p.Dt = in.MaxTime / float64(in.TimeSteps)
	p.Alpha = in.Conductivity / (in.Density * in.SpecificHeat)
	p.Fo = p.Alpha * p.Dt / (p.Dr * p.Dr)
	p.Bi = in.Convection * p.Dr / in.Conductivity

	if !(p.Fo > 0) || math.IsInf(p.Fo, 0) {
		return Params{}, &ParameterError{Name: "fourier", Value: p.Fo, Reason: "underflowed or overflowed"}
	}
	if !(p.Bi > 0) || math.IsInf(p.Bi, 0) {
		return Params{}, &ParameterError{Name: "biot", Value: p.Bi, Reason: "underflowed or overflowed"}
	}
	return p, nil
}

// TimeAxis returns TimeSteps+1 evenly spaced instants from 0 to MaxTime.
func (p Params) TimeAxis() []float64 {
	times := make([]float64, p.TimeSteps+1)
	for i := range times {
		times[i] = float64(i) * p.Dt
	}
	times[p.TimeSteps] = p.MaxTime
	return times
}

// Radii returns the position of every node, center first.
func (p Params) Radii() []float64 {
	radii := make([]float64, p.Nodes)
	for i := range radii {
		radii[i] = float64(i) * p.Dr
	}
	radii[p.Nodes-1] = p.Radius
	return radii
}

// Heating reports whether the body warms toward the ambient temperature.
func (p Params) Heating() bool {
	return p.Initial < p.Ambient
}

// Bounds returns the interval every temperature of the run must stay in.
func (p Params) Bounds() (lo, hi float64) {
	return math.Min(p.Initial, p.Ambient), math.Max(p.Initial, p.Ambient)
}
