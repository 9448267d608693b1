package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/heatsim/internal/heat"
)

// Series is one line of a chart.
type Series struct {
	Name  string
	Color string
	X, Y  []float64
}

const (
	padLeft   = 60.0
	padRight  = 20.0
	padTop    = 30.0
	padBottom = 40.0
)

// HistoryToSVG draws the center and surface temperatures against time.
// Extra series (the lumped curve, for example) share the axes.
func HistoryToSVG(f *heat.Field, width, height int, extra ...Series) string {
	series := []Series{
		{Name: "center", Color: "#4fc3f7", X: f.Times, Y: f.Center()},
		{Name: "surface", Color: "#ff7043", X: f.Times, Y: f.Surface()},
	}
	series = append(series, extra...)
	return LineChart(series, width, height, "time (s)", "temperature (K)")
}

// ProfileToSVG draws the radial temperature profile at the given rows.
func ProfileToSVG(f *heat.Field, rows []int, width, height int) string {
	palette := []string{"#4fc3f7", "#81c784", "#ffd54f", "#ff8a65", "#ba68c8", "#e57373"}
	radii := make([]float64, len(f.Radii))
	for i, r := range f.Radii {
		radii[i] = r * 1e6
	}

	series := make([]Series, 0, len(rows))
	for k, i := range rows {
		if i < 0 || i >= f.Rows() {
			continue
		}
		series = append(series, Series{
			Name:  fmt.Sprintf("t=%.3gs", f.Times[i]),
			Color: palette[k%len(palette)],
			X:     radii,
			Y:     f.Row(i),
		})
	}
	return LineChart(series, width, height, "radius (um)", "temperature (K)")
}

// LineChart renders series on shared linear axes.
func LineChart(series []Series, width, height int, xLabel, yLabel string) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for i := range s.X {
			minX, maxX = math.Min(minX, s.X[i]), math.Max(maxX, s.X[i])
			minY, maxY = math.Min(minY, s.Y[i]), math.Max(maxY, s.Y[i])
		}
	}
	if math.IsInf(minX, 0) {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeY = maxY - minY

	plotW := float64(width) - padLeft - padRight
	plotH := float64(height) - padTop - padBottom
	px := func(x float64) float64 { return padLeft + (x-minX)/rangeX*plotW }
	py := func(y float64) float64 { return padTop + plotH - (y-minY)/rangeY*plotH }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	// axes
	sb.WriteString(fmt.Sprintf(`<g stroke="#666" stroke-width="1">
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
</g>
`, padLeft, padTop+plotH, padLeft+plotW, padTop+plotH, padLeft, padTop, padLeft, padTop+plotH))

	sb.WriteString(`<g fill="#aaa" font-family="monospace" font-size="11">` + "\n")
	for k := 0; k <= 4; k++ {
		y := minY + rangeY*float64(k)/4
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="end">%.1f</text>`+"\n", padLeft-6, py(y)+4, y))
		x := minX + rangeX*float64(k)/4
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle">%.3g</text>`+"\n", px(x), padTop+plotH+16, x))
	}
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n", padLeft+plotW/2, float64(height)-6, xLabel))
	sb.WriteString(fmt.Sprintf(`<text x="12" y="%.1f" text-anchor="middle" transform="rotate(-90 12 %.1f)">%s</text>`+"\n", padTop+plotH/2, padTop+plotH/2, yLabel))
	sb.WriteString("</g>\n")

	for k, s := range series {
		if len(s.X) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.Color))
		for i := range s.X {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(s.X[i]), py(s.Y[i])))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(s.X[i]), py(s.Y[i])))
			}
		}
		sb.WriteString(`"/>` + "\n")

		// legend
		ly := padTop + 14*float64(k)
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="11" text-anchor="end">%s</text>`+"\n",
			padLeft+plotW-4, ly, s.Color, s.Name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
