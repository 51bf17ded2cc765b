package render

import (
	"fmt"
	"math"
	"sort"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/canvas"
	"github.com/OpenTraceLab/kiplot/pkg/kicad/plot"
)

var white = plot.Color{R: 1, G: 1, B: 1, A: 1}

// fullTurn is the sweep used for circles and arcs, a little over 2π.
const fullTurn = 10.0

// labelOutlineWidth is the stroke width of global label callouts.
const labelOutlineWidth = 0.15

// sortItems orders items by z, keeping the input order among equals.
func sortItems(items []plot.Item) []plot.Item {
	sorted := append([]plot.Item(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ZOrder() < sorted[j].ZOrder()
	})
	return sorted
}

func draw(c canvas.Canvas, items []plot.Item) error {
	for _, it := range sortItems(items) {
		if err := drawItem(c, it); err != nil {
			return err
		}
	}
	return nil
}

func setStroke(c canvas.Canvas, s plot.Stroke) {
	c.SetColor(s.Color)
	c.SetLineWidth(s.Width)
	c.SetLineCap(canvas.LineCap(s.Cap))
}

// outline strokes the current path, fills it when fill is set and
// strokes it again so the outline stays on top of the fill.
func outline(c canvas.Canvas, s plot.Stroke, fill *plot.Color) error {
	if err := c.StrokePreserve(); err != nil {
		return err
	}
	if fill != nil {
		c.SetColor(*fill)
		if err := c.FillPreserve(); err != nil {
			return err
		}
		c.SetColor(s.Color)
	}
	return c.Stroke()
}

func path(c canvas.Canvas, pts []plot.Point) {
	for i, p := range pts {
		if i == 0 {
			c.MoveTo(p.X, p.Y)
		} else {
			c.LineTo(p.X, p.Y)
		}
	}
}

func drawItem(c canvas.Canvas, it plot.Item) error {
	switch v := it.(type) {
	case *plot.Line:
		setStroke(c, v.Stroke)
		path(c, v.Points)
		return c.Stroke()
	case *plot.Polyline:
		setStroke(c, v.Stroke)
		path(c, v.Points)
		return outline(c, v.Stroke, v.Fill)
	case *plot.Rectangle:
		setStroke(c, v.Stroke)
		c.Rectangle(v.Start.X, v.Start.Y, v.End.X-v.Start.X, v.End.Y-v.Start.Y)
		return outline(c, v.Stroke, v.Fill)
	case *plot.Circle:
		setStroke(c, v.Stroke)
		c.Arc(v.Center.X, v.Center.Y, v.Radius, 0, fullTurn)
		return outline(c, v.Stroke, v.Fill)
	case *plot.Arc:
		setStroke(c, v.Stroke)
		c.Arc(v.Start.X, v.Start.Y, v.Mid.Y, 0, fullTurn)
		return outline(c, v.Stroke, v.Fill)
	case *plot.Text:
		return drawText(c, v)
	default:
		return fmt.Errorf("unhandled plot item %T", it)
	}
}

func drawText(c canvas.Canvas, t *plot.Text) error {
	w, h := c.MeasureText(t.Text, t.Font, t.FontSize)

	c.Save()
	defer c.Restore()

	if t.Label {
		c.SetColor(t.Color)
		c.SetLineWidth(labelOutlineWidth)
		c.SetLineCap(canvas.CapButt)
		path(c, plot.LabelOutline(t, w, h))
		if err := c.Stroke(); err != nil {
			return err
		}
	}

	origin := plot.TextOrigin(t, w, h)
	c.Translate(origin.X, origin.Y)
	c.Rotate(-plot.DrawAngle(t) * math.Pi / 180)
	return c.DrawText(0, 0, canvas.Run{Text: t.Text, Font: t.Font, Size: t.FontSize, Color: t.Color})
}
