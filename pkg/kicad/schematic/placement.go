package schematic

import "math"

// Placement maps library coordinates (y up) of a symbol instance onto the
// page (y down).
type Placement struct {
	Origin Position
	Angle  Angle  // counter-clockwise on the page, in degrees
	Mirror string // "", "x" or "y"
}

// Placement returns the instance placement of s.
func (s *Symbol) Placement() Placement {
	return Placement{Origin: s.Position, Angle: s.Angle, Mirror: s.Mirror}
}

// Apply computes translate(rotate(reflect(p))).
func (pl Placement) Apply(p Position) Position {
	x, y := p.X, -p.Y
	switch pl.Mirror {
	case "x":
		y = -y
	case "y":
		x = -x
	}

	rad := float64(pl.Angle) * math.Pi / 180
	sin, cos := snap(math.Sin(rad)), snap(math.Cos(rad))
	return Position{
		X: pl.Origin.X + x*cos + y*sin,
		Y: pl.Origin.Y - x*sin + y*cos,
	}
}

// snap removes the float noise sin/cos leave at multiples of 90 degrees.
func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < 1e-12 {
		return r
	}
	return v
}
