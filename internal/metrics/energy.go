package metrics

import (
	"math"

	"github.com/san-kum/heatsim/internal/heat"
)

// shellWeights returns the normalized volume of the control shell around
// every node: [r_i - dr/2, r_i + dr/2] clipped to [0, R], measured as
// r^(b+1) differences.
func shellWeights(p heat.Params) []float64 {
	radii := p.Radii()
	exp := p.Shape.Exponent() + 1
	w := make([]float64, len(radii))
	total := 0.0
	for i, r := range radii {
		lo := math.Max(r-p.Dr/2, 0)
		hi := math.Min(r+p.Dr/2, p.Radius)
		w[i] = math.Pow(hi, exp) - math.Pow(lo, exp)
		total += w[i]
	}
	for i := range w {
		w[i] /= total
	}
	return w
}

// MeanTemperature reports the volume-weighted mean temperature of the
// latest observed row.
type MeanTemperature struct {
	name    string
	weights []float64
	mean    float64
	samples int
}

func NewMeanTemperature(p heat.Params) *MeanTemperature {
	return &MeanTemperature{
		name:    "mean_temperature",
		weights: shellWeights(p),
	}
}

func (m *MeanTemperature) Name() string { return m.name }

func (m *MeanTemperature) Observe(step int, t float64, row []float64) {
	m.mean = weightedMean(m.weights, row)
	m.samples++
}

func (m *MeanTemperature) Value() float64 {
	if m.samples == 0 {
		return math.NaN()
	}
	return m.mean
}

func (m *MeanTemperature) Reset() {
	m.mean = 0
	m.samples = 0
}

// Uptake is the fraction of the heat the body can exchange with the gas
// that has been exchanged by the latest row: 0 at the start, 1 at
// equilibrium.
type Uptake struct {
	name     string
	weights  []float64
	initial  float64
	ambient  float64
	fraction float64
}

func NewUptake(p heat.Params) *Uptake {
	return &Uptake{
		name:    "uptake",
		weights: shellWeights(p),
		initial: p.Initial,
		ambient: p.Ambient,
	}
}

func (u *Uptake) Name() string { return u.name }

func (u *Uptake) Observe(step int, t float64, row []float64) {
	span := u.ambient - u.initial
	if span == 0 {
		u.fraction = 1
		return
	}
	u.fraction = (weightedMean(u.weights, row) - u.initial) / span
}

func (u *Uptake) Value() float64 { return u.fraction }

func (u *Uptake) Reset() { u.fraction = 0 }

func weightedMean(w, row []float64) float64 {
	sum := 0.0
	for i, v := range row {
		sum += w[i] * v
	}
	return sum
}
