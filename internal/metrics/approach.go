package metrics

import (
	"fmt"

	"github.com/san-kum/heatsim/internal/heat"
)

// Approach records the first time the center covers a fraction of the way
// from the initial to the ambient temperature. Value is -1 until then.
type Approach struct {
	name     string
	fraction float64
	initial  float64
	ambient  float64
	reached  float64
}

func NewApproach(p heat.Params, fraction float64) *Approach {
	return &Approach{
		name:     fmt.Sprintf("t%02.0f", fraction*100),
		fraction: fraction,
		initial:  p.Initial,
		ambient:  p.Ambient,
		reached:  -1,
	}
}

func (a *Approach) Name() string { return a.name }

func (a *Approach) Observe(step int, t float64, row []float64) {
	if a.reached >= 0 {
		return
	}
	span := a.ambient - a.initial
	if span == 0 {
		a.reached = t
		return
	}
	if (row[0]-a.initial)/span >= a.fraction {
		a.reached = t
	}
}

func (a *Approach) Value() float64 { return a.reached }

func (a *Approach) Reset() { a.reached = -1 }
