package viz

import "github.com/charmbracelet/lipgloss"

// Theme is a color scheme; Cold and Hot are the ends of the temperature ramp.
type Theme struct {
	Name   string
	Cold   lipgloss.Color
	Hot    lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeEmber = Theme{
		Name:   "ember",
		Cold:   lipgloss.Color("#1e3a8a"),
		Hot:    lipgloss.Color("#ff5722"),
		Accent: lipgloss.Color("#ffcc00"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666688"),
	}

	ThemeIce = Theme{
		Name:   "ice",
		Cold:   lipgloss.Color("#e0f7ff"),
		Hot:    lipgloss.Color("#0077be"),
		Accent: lipgloss.Color("#00a8cc"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
	}

	ThemeMono = Theme{
		Name:   "mono",
		Cold:   lipgloss.Color("#222222"),
		Hot:    lipgloss.Color("#eeeeee"),
		Accent: lipgloss.Color("#0088ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
	}

	Themes = []Theme{ThemeEmber, ThemeIce, ThemeMono}
)

// GetTheme returns a theme by name, falling back to ember.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeEmber
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Ramp returns the color of v on the theme's cold-to-hot scale over [lo, hi].
func (t Theme) Ramp(v, lo, hi float64) lipgloss.Color {
	frac := 0.5
	if hi > lo {
		frac = (v - lo) / (hi - lo)
	}
	frac = max(0, min(1, frac))

	sr, sg, sb := parseHex(string(t.Cold))
	er, eg, eb := parseHex(string(t.Hot))
	r := int(float64(sr) + frac*float64(er-sr))
	g := int(float64(sg) + frac*float64(eg-sg))
	b := int(float64(sb) + frac*float64(eb-sb))
	return lipgloss.Color(hexColor(r, g, b))
}
