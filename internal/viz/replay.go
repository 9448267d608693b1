package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/heatsim/internal/heat"
)

const (
	defaultWidth = 60
	frameRate    = 30
)

type TickMsg time.Time

// Model replays a computed temperature field row by row.
type Model struct {
	field     *heat.Field
	title     string
	reference []float64
	lo, hi    float64

	row      int
	speed    int
	running  bool
	width    int
	theme    int
	showHelp bool
}

// NewReplay starts paused at row 0 when the field has a single row and
// playing otherwise.
func NewReplay(f *heat.Field, title string) Model {
	lo, hi := f.Extent()
	return Model{
		field:   f,
		title:   title,
		lo:      lo,
		hi:      hi,
		speed:   max(1, f.Rows()/(frameRate*10)),
		running: f.Rows() > 1,
		width:   defaultWidth,
	}
}

// WithReference overlays a center-temperature reference curve (for example
// the lumped solution) on the history chart. It must have one value per row.
func (m Model) WithReference(series []float64) Model {
	if len(series) == m.field.Rows() {
		m.reference = series
	}
	return m
}

// WithTheme selects the theme called name; unknown names select ember.
func (m Model) WithTheme(name string) Model {
	chosen := GetTheme(name)
	for i, t := range Themes {
		if t.Name == chosen.Name {
			m.theme = i
		}
	}
	return m
}

func (m Model) Row() int      { return m.row }
func (m Model) Running() bool { return m.running }
func (m Model) Theme() Theme  { return Themes[m.theme] }

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	last := m.field.Rows() - 1

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
			if m.running && m.row == last {
				m.row = 0
			}
		case "r":
			m.row = 0
			m.running = true
		case "[", "left", "h":
			m.row = max(0, m.row-m.speed)
		case "]", "right", "l":
			m.row = min(last, m.row+m.speed)
		case "home":
			m.row = 0
		case "end":
			m.row = last
		case "+", "=":
			m.speed *= 2
		case "-", "_":
			m.speed = max(1, m.speed/2)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.width = max(20, min(msg.Width-20, 120))
	case TickMsg:
		if m.running {
			m.row += m.speed
			if m.row >= last {
				m.row = last
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	f := m.field
	row := f.Row(m.row)
	theme := Themes[m.theme]

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")

	status := StatusRunning.Render("PLAYING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	progress := 0.0
	if f.Rows() > 1 {
		progress = float64(m.row) / float64(f.Rows()-1)
	}
	s.WriteString(fmt.Sprintf("%s  %s  x%d\n\n", status, ProgressBar(progress, 30), m.speed))

	s.WriteString("center " + ThermalStrip(row, m.lo, m.hi, m.width, theme) + " surface\n")

	if len(row) > 1 {
		profile := asciigraph.Plot(row,
			asciigraph.Height(8),
			asciigraph.Width(m.width),
			asciigraph.LowerBound(m.lo),
			asciigraph.UpperBound(m.hi),
			asciigraph.Caption("radial profile (K)"))
		s.WriteString(graphStyle.Render(profile) + "\n")
	}

	if m.row >= 1 {
		series := [][]float64{f.Center()[:m.row+1], f.Surface()[:m.row+1]}
		colors := []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Red}
		caption := "center (blue) / surface (red)"
		if m.reference != nil {
			series = append(series, m.reference[:m.row+1])
			colors = append(colors, asciigraph.Yellow)
			caption += " / lumped (yellow)"
		}
		history := asciigraph.PlotMany(series,
			asciigraph.Height(8),
			asciigraph.Width(m.width),
			asciigraph.LowerBound(m.lo),
			asciigraph.UpperBound(m.hi),
			asciigraph.SeriesColors(colors...),
			asciigraph.Caption(caption))
		s.WriteString(graphStyle.Render(history) + "\n")
	}

	s.WriteString(Separator(m.width) + "\n")

	stats := strings.Builder{}
	stats.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.4fs", f.Times[m.row])) + "\n")
	stats.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d/%d", m.row, f.Rows()-1)) + "\n")
	stats.WriteString(labelStyle.Render("Center") + valueStyle.Render(fmt.Sprintf("%.2f K", row[0])) + "\n")
	stats.WriteString(labelStyle.Render("Surface") + valueStyle.Render(fmt.Sprintf("%.2f K", row[len(row)-1])) + "\n")
	stats.WriteString(labelStyle.Render("Gap") + valueStyle.Render(fmt.Sprintf("%.3f K", row[len(row)-1]-row[0])))
	s.WriteString(panelStyle.Render(stats.String()) + "\n")

	if m.showHelp {
		s.WriteString(helpStyle.Render("space pause/play  r restart  [/] scrub  home/end jump  +/- speed  t theme (" + theme.Name + ")  q quit"))
	} else {
		s.WriteString(helpStyle.Render("? help  q quit"))
	}
	return s.String()
}
