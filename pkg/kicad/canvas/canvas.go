// Package canvas provides the 2D drawing surfaces plots are rendered on: a
// streaming SVG writer and a PNG raster built on gogpu/gg. Both expose the
// same cairo-like immediate mode API.
package canvas

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/sexp"
)

// Color is an RGBA color with channels in [0,1].
type Color = sexp.Color

// LineCap selects how open path ends are drawn.
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// Run is a styled text run.
type Run struct {
	Text  string
	Font  string  // family, see Fonts
	Size  float64 // em size in user units
	Color Color
}

// Canvas is a drawing surface with a current path, a current transform
// and a save/restore stack. Coordinates are user units mapped to device
// units by the current transform.
type Canvas interface {
	// Size returns the surface size in device units.
	Size() (w, h float64)

	Save()
	Restore()
	Translate(x, y float64)
	Scale(sx, sy float64)
	Rotate(rad float64)

	// Paint covers the whole surface with c, ignoring the transform.
	Paint(c Color)

	SetColor(c Color)
	SetLineWidth(w float64)
	SetLineCap(c LineCap)

	MoveTo(x, y float64)
	LineTo(x, y float64)
	Rectangle(x, y, w, h float64)
	// Arc adds a clockwise (on a y-down surface) arc from a1 to a2
	// radians, joined to the current point by a line.
	Arc(cx, cy, r, a1, a2 float64)

	Stroke() error
	StrokePreserve() error
	Fill() error
	FillPreserve() error

	// MeasureText returns the advance and line height of a run in user
	// units. The transform does not affect it.
	MeasureText(text, font string, size float64) (w, h float64)
	// DrawText draws r with its top-left corner at (x, y).
	DrawText(x, y float64, r Run) error

	// Close finishes the output. The canvas must not be used afterwards.
	Close() error
}

// state is the graphics state both canvases save and restore.
type state struct {
	matrix gg.Matrix
	color  Color
	width  float64
	cap    LineCap
}

func defaultState() state {
	return state{matrix: gg.Identity(), color: Color{A: 1}, width: 1}
}

// scaleOf is the length scale of m, exact for the uniform scales and
// rotations plots use.
func scaleOf(m gg.Matrix) float64 {
	return math.Sqrt(math.Abs(m.A*m.E - m.B*m.D))
}

// rotationOf is the counter-clockwise on-screen rotation of m in radians.
func rotationOf(m gg.Matrix) float64 {
	return math.Atan2(-m.D, m.A)
}

func apply(m gg.Matrix, x, y float64) (float64, float64) {
	p := m.TransformPoint(gg.Pt(x, y))
	return p.X, p.Y
}
