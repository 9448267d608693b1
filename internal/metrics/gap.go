package metrics

import "math"

// Gap is the largest surface-center temperature difference seen in a run.
// It measures how far the body is from the lumped limit.
type Gap struct {
	name string
	max  float64
}

func NewGap() *Gap {
	return &Gap{name: "max_gap"}
}

func (g *Gap) Name() string { return g.name }

func (g *Gap) Observe(step int, t float64, row []float64) {
	d := math.Abs(row[len(row)-1] - row[0])
	if d > g.max {
		g.max = d
	}
}

func (g *Gap) Value() float64 { return g.max }

func (g *Gap) Reset() { g.max = 0 }
