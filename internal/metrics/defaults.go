package metrics

import (
	"github.com/san-kum/heatsim/internal/heat"
	"github.com/san-kum/heatsim/internal/sim"
)

// Defaults is the metric set attached to CLI and server runs.
func Defaults(p heat.Params) []sim.Metric {
	return []sim.Metric{
		NewMeanTemperature(p),
		NewUptake(p),
		NewGap(),
		NewApproach(p, 0.5),
		NewApproach(p, 0.95),
		NewOvershoot(p),
	}
}
