package plot

import (
	"math"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/schematic"
)

// Transform places library geometry of one symbol instance on the page.
type Transform struct {
	placement schematic.Placement
}

// NewTransform returns the transform of a placed symbol.
func NewTransform(sym *schematic.Symbol) Transform {
	return Transform{placement: sym.Placement()}
}

// Apply maps a single library point.
func (t Transform) Apply(p Point) Point {
	return t.placement.Apply(p)
}

// ApplyAll maps every point into a new slice.
func (t Transform) ApplyAll(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = t.placement.Apply(p)
	}
	return out
}

// direction returns the library space unit vector of a pin angle.
func direction(angle float64) Point {
	rad := angle * math.Pi / 180
	return Point{X: round9(math.Cos(rad)), Y: round9(math.Sin(rad))}
}

func round9(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
