package metrics

import (
	"math"

	"github.com/san-kum/heatsim/internal/heat"
)

// Overshoot is the largest excursion of any node outside
// [min(Ti, Tinf), max(Ti, Tinf)]. A sound run reports zero up to round-off.
type Overshoot struct {
	name   string
	lo, hi float64
	worst  float64
}

func NewOvershoot(p heat.Params) *Overshoot {
	lo, hi := p.Bounds()
	return &Overshoot{name: "overshoot", lo: lo, hi: hi}
}

func (o *Overshoot) Name() string { return o.name }

func (o *Overshoot) Observe(step int, t float64, row []float64) {
	for _, v := range row {
		o.worst = math.Max(o.worst, math.Max(o.lo-v, v-o.hi))
	}
}

func (o *Overshoot) Value() float64 { return o.worst }

func (o *Overshoot) Reset() { o.worst = 0 }
