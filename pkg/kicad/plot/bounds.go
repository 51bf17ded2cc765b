package plot

import "github.com/OpenTraceLab/kiplot/pkg/kicad/sexp"

// Bounds returns the smallest box covering every item. Text is measured
// with m and placed with the same rules the renderer uses. An empty list
// gives a box for which IsEmpty reports true.
func Bounds(items []Item, m Measurer) sexp.BoundingBox {
	box := sexp.NewBoundingBox()
	add := box.Expand

	for _, it := range items {
		switch v := it.(type) {
		case *Line:
			for _, p := range v.Points {
				add(p)
			}
		case *Polyline:
			for _, p := range v.Points {
				add(p)
			}
		case *Rectangle:
			add(v.Start)
			add(v.End)
		case *Circle:
			add(Point{X: v.Center.X - v.Radius, Y: v.Center.Y - v.Radius})
			add(Point{X: v.Center.X + v.Radius, Y: v.Center.Y + v.Radius})
		case *Arc:
			add(v.Start)
			add(v.End)
		case *Text:
			w, h := m.MeasureText(v.Text, v.Font, v.FontSize)
			for _, p := range TextCorners(TextOrigin(v, w, h), DrawAngle(v), w, h) {
				add(p)
			}
			if v.Label {
				for _, p := range LabelOutline(v, w, h) {
					add(p)
				}
			}
		}
	}
	return box
}
