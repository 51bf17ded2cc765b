// Package plot turns schematic pages into styled, z-ordered drawing
// primitives. It knows nothing about output surfaces; see package render.
package plot

import (
	"strings"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/sexp"
)

// Point is a position in drawing units (mm).
type Point = sexp.Position

// Color is an RGBA color with channels in [0,1].
type Color = sexp.Color

// LineCap selects how open path ends are drawn.
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

func (c LineCap) String() string {
	switch c {
	case CapRound:
		return "round"
	case CapSquare:
		return "square"
	default:
		return "butt"
	}
}

// Stroke is a fully resolved line style.
type Stroke struct {
	Width    float64
	LineType string
	Cap      LineCap
	Color    Color
}

// Align is a set of text alignment flags.
type Align uint8

const (
	AlignLeft Align = 1 << iota
	AlignRight
	AlignTop
	AlignBottom
	AlignCenter
)

// Has reports whether every flag in f is set.
func (a Align) Has(f Align) bool { return a&f == f }

var alignNames = []struct {
	flag Align
	name string
}{
	{AlignLeft, "left"},
	{AlignRight, "right"},
	{AlignTop, "top"},
	{AlignBottom, "bottom"},
	{AlignCenter, "center"},
}

// ParseAlign builds an Align from KiCad justify words. Unknown words are
// ignored.
func ParseAlign(words ...string) Align {
	var a Align
	for _, w := range words {
		for _, n := range alignNames {
			if n.name == w {
				a |= n.flag
			}
		}
	}
	return a
}

func (a Align) String() string {
	var words []string
	for _, n := range alignNames {
		if a.Has(n.flag) {
			words = append(words, n.name)
		}
	}
	return strings.Join(words, " ")
}

// Item is one drawing primitive. Lower ZOrder values are drawn first.
// The set of implementations is closed: Line, Polyline, Rectangle,
// Circle, Arc and Text.
type Item interface {
	ZOrder() int
	isItem()
}

// Line is an open path through Points.
type Line struct {
	Z      int
	Points []Point
	Stroke Stroke
}

// Polyline is a path through Points that may be filled.
type Polyline struct {
	Z      int
	Points []Point
	Stroke Stroke
	Fill   *Color
}

// Rectangle is the axis-aligned box spanned by Start and End.
type Rectangle struct {
	Z      int
	Start  Point
	End    Point
	Stroke Stroke
	Fill   *Color
}

// Circle is a circle around Center.
type Circle struct {
	Z      int
	Center Point
	Radius float64
	Stroke Stroke
	Fill   *Color
}

// Arc is a three-point arc. Only Start is placed on the page; Mid and End
// stay in library space and the renderer draws a circle around Start with
// radius Mid.Y.
type Arc struct {
	Z      int
	Start  Point
	Mid    Point
	End    Point
	Stroke Stroke
	Fill   *Color
}

// Text is a run of text. Label marks a global label drawn inside a
// callout outline.
type Text struct {
	Z        int
	Pos      Point
	Angle    float64
	Text     string
	Color    Color
	FontSize float64
	Font     string
	Align    Align
	Label    bool
}

func (l *Line) ZOrder() int      { return l.Z }
func (p *Polyline) ZOrder() int  { return p.Z }
func (r *Rectangle) ZOrder() int { return r.Z }
func (c *Circle) ZOrder() int    { return c.Z }
func (a *Arc) ZOrder() int       { return a.Z }
func (t *Text) ZOrder() int      { return t.Z }

func (*Line) isItem()      {}
func (*Polyline) isItem()  {}
func (*Rectangle) isItem() {}
func (*Circle) isItem()    {}
func (*Arc) isItem()       {}
func (*Text) isItem()      {}
