package plot

import "math"

// Callout geometry of global labels.
const (
	LabelLeft = 0.4
	LabelUp   = 0.1
)

// Measurer reports the extent of a text run in drawing units.
type Measurer interface {
	MeasureText(text, font string, size float64) (w, h float64)
}

// DrawAngle is the rotation text is drawn with: upside down runs are
// turned the right way up.
func DrawAngle(t *Text) float64 {
	if t.Angle >= 180 {
		return t.Angle - 180
	}
	return t.Angle
}

func isAngle(a, want float64) bool {
	return math.Abs(a-want) < 1e-9
}

// TextOrigin returns the point the top-left corner of a w×h run is drawn
// at, before rotation by DrawAngle.
func TextOrigin(t *Text, w, h float64) Point {
	x, y := t.Pos.X, t.Pos.Y

	if t.Label {
		switch {
		case isAngle(t.Angle, 0):
			x += 2 * LabelLeft
			y -= h / 2
		case isAngle(t.Angle, 180):
			x -= 2*LabelLeft + w
			y -= h / 2
		}
		return Point{X: x, Y: y}
	}

	switch {
	case isAngle(t.Angle, 0) || isAngle(t.Angle, 180):
		if t.Align.Has(AlignRight) {
			x -= w
		} else if !t.Align.Has(AlignLeft) {
			x -= w / 2
		}
		if t.Align.Has(AlignBottom) {
			y -= h
		} else if !t.Align.Has(AlignTop) {
			y -= h / 2
		}
	case isAngle(t.Angle, 90) || isAngle(t.Angle, 270):
		if t.Align.Has(AlignRight) {
			y += w
		} else if !t.Align.Has(AlignLeft) {
			y += w / 2
		}
		if t.Align.Has(AlignBottom) {
			x -= h
		} else if !t.Align.Has(AlignTop) {
			x -= h / 2
		}
	default:
		Logger().Warn("text at unsupported angle", "text", t.Text, "angle", t.Angle)
	}
	return Point{X: x, Y: y}
}

// LabelOutline returns the closed callout path around a w×h label run,
// starting and ending at the label anchor.
func LabelOutline(t *Text, w, h float64) []Point {
	contour := []Point{
		{X: 0, Y: 0},
		{X: 2 * LabelLeft, Y: -h/2 - LabelUp},
		{X: 3*LabelLeft + w, Y: -h/2 - LabelUp},
		{X: 3*LabelLeft + w, Y: h/2 + LabelUp},
		{X: 2 * LabelLeft, Y: h/2 + LabelUp},
		{X: 0, Y: 0},
	}
	theta := -t.Angle * math.Pi / 180
	sin, cos := math.Sin(theta), math.Cos(theta)
	out := make([]Point, 0, len(contour)+1)
	out = append(out, t.Pos)
	for _, c := range contour {
		out = append(out, Point{
			X: t.Pos.X + c.X*cos + c.Y*sin,
			Y: t.Pos.Y - c.X*sin + c.Y*cos,
		})
	}
	return out
}

// TextCorners returns the four corners of a w×h run drawn from origin and
// rotated by -angle degrees around it, as a drawing context would.
func TextCorners(origin Point, angle, w, h float64) [4]Point {
	r := -angle * math.Pi / 180
	sin, cos := math.Sin(r), math.Cos(r)
	corner := func(u, v float64) Point {
		return Point{X: origin.X + u*cos - v*sin, Y: origin.Y + u*sin + v*cos}
	}
	return [4]Point{corner(0, 0), corner(w, 0), corner(w, h), corner(0, h)}
}
