// Package lumped gives the lumped-capacitance reference solution, where the
// body is treated as having a single uniform temperature. It is accurate
// when the lumped Biot number is small (below about 0.1).
package lumped

import (
	"math"

	"github.com/san-kum/heatsim/internal/heat"
)

// ValidBiot is the usual limit below which the lumped model holds.
const ValidBiot = 0.1

// CharacteristicLength is V/A: r for a slab, r/2 for a cylinder, r/3 for a
// sphere.
func CharacteristicLength(p heat.Params) float64 {
	return p.Radius / (1 + p.Shape.Exponent())
}

// Biot is h Lc / k based on the characteristic length, not the mesh spacing.
func Biot(p heat.Params) float64 {
	return p.Convection * CharacteristicLength(p) / p.Conductivity
}

// Fourier is alpha t / Lc^2.
func Fourier(p heat.Params, t float64) float64 {
	lc := CharacteristicLength(p)
	return p.Alpha * t / (lc * lc)
}

// TimeConstant is rho c Lc / h.
func TimeConstant(p heat.Params) float64 {
	return p.Density * p.SpecificHeat * CharacteristicLength(p) / p.Convection
}

// Valid reports whether the lumped assumption is reasonable for p.
func Valid(p heat.Params) bool {
	return Biot(p) < ValidBiot
}

// Temperature is Tinf + (Ti - Tinf) exp(-Bi Fo).
func Temperature(p heat.Params, t float64) float64 {
	return p.Ambient + (p.Initial-p.Ambient)*math.Exp(-Biot(p)*Fourier(p, t))
}

// Series evaluates Temperature at every instant in times.
func Series(p heat.Params, times []float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = Temperature(p, t)
	}
	return out
}

// Churchill applies the Churchill-Usagi blend T / (1 + (T/Tinf)^n)^(1/n)
// to the lumped curve, a smooth minimum of T and Tinf. While heating
// (T < Tinf) a large n returns the lumped curve; while cooling (T > Tinf) it
// returns Tinf. Small n pulls the result further below both.
func Churchill(p heat.Params, t, n float64) float64 {
	T := Temperature(p, t)
	r := T / p.Ambient
	if r > 1 {
		// same value, written so r^n cannot overflow
		return p.Ambient / math.Pow(1+math.Pow(1/r, n), 1/n)
	}
	return T / math.Pow(1+math.Pow(r, n), 1/n)
}

// ChurchillSeries evaluates Churchill at every instant in times.
func ChurchillSeries(p heat.Params, times []float64, n float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = Churchill(p, t, n)
	}
	return out
}
