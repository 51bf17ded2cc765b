package plot

import "fmt"

// DefaultFont is the family named by the built-in themes.
const DefaultFont = "Go"

// Built-in theme names.
const (
	ThemeKicad2000 = "kicad_2000"
	ThemeMono      = "mono"
)

func rgb(r, g, b uint8) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: 1}
}

var (
	kicad2000 = newKicad2000()
	mono      = newMono()
)

func newKicad2000() *Theme {
	stroke := func(w float64, c Color) Stroke {
		return Stroke{Width: w, LineType: "default", Cap: CapButt, Color: c}
	}
	effects := func(size float64, c Color) Effects {
		return Effects{Font: DefaultFont, FontSize: size, Color: c, Align: AlignCenter}
	}

	return &Theme{
		name: ThemeKicad2000,
		strokes: map[string]Stroke{
			"wire":       stroke(0.1524, rgb(0, 150, 0)),
			"bus":        stroke(0.3048, rgb(0, 0, 132)),
			"pin":        stroke(0.1524, rgb(132, 0, 0)),
			"symbol":     stroke(0.254, rgb(132, 0, 0)),
			"no_connect": stroke(0.1524, rgb(0, 0, 132)),
			"junction":   stroke(0.1524, rgb(0, 150, 0)),
			"sheet":      stroke(0.1524, rgb(132, 0, 132)),
			"border":     stroke(0.15, rgb(132, 0, 0)),
		},
		effects: map[string]Effects{
			"text":         effects(1.27, rgb(0, 0, 132)),
			"label":        effects(1.27, rgb(0, 0, 0)),
			"global_label": effects(1.27, rgb(132, 0, 0)),
			"pin_name":     effects(1.27, rgb(0, 100, 100)),
			"pin_number":   effects(1.0, rgb(169, 0, 0)),
			"property":     effects(1.27, rgb(0, 100, 100)),
			"symbol":       effects(1.27, rgb(0, 0, 132)),
			"border":       effects(1.5, rgb(132, 0, 0)),
		},
		background: rgb(255, 255, 194),
	}
}

// newMono derives a black-on-white theme from kicad_2000 so both share
// widths and sizes.
func newMono() *Theme {
	t := kicad2000.clone(ThemeMono)
	black := rgb(0, 0, 0)
	for role, s := range t.strokes {
		s.Color = black
		t.strokes[role] = s
	}
	for role, e := range t.effects {
		e.Color = black
		t.effects[role] = e
	}
	t.background = rgb(255, 255, 255)
	return t
}

// Kicad2000 returns the full color theme.
func Kicad2000() *Theme { return kicad2000 }

// Mono returns the black on white theme.
func Mono() *Theme { return mono }

// LookupTheme returns the built-in theme with the given name.
func LookupTheme(name string) (*Theme, error) {
	switch name {
	case ThemeKicad2000:
		return kicad2000, nil
	case ThemeMono:
		return mono, nil
	default:
		return nil, fmt.Errorf("plot: unknown theme %q: %w", name, ErrThemeNotFound)
	}
}

// ResolveTheme is LookupTheme with a fallback: unknown names log a
// warning and give kicad_2000.
func ResolveTheme(name string) *Theme {
	t, err := LookupTheme(name)
	if err != nil {
		Logger().Warn("unknown theme, using kicad_2000", "theme", name)
		return kicad2000
	}
	return t
}
