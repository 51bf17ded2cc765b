package canvas

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

// SVG is a Canvas that streams SVG elements to a writer as they are
// drawn. Paths are kept in device units, so each element carries final
// coordinates and no transform attributes except on text.
type SVG struct {
	w      io.Writer
	width  float64
	height float64
	fonts  *Fonts

	st    state
	stack []state

	path     strings.Builder
	hasPoint bool

	err    error
	closed bool
}

// NewSVG writes the SVG header for a width×height device unit surface
// and returns the canvas. fonts may be nil for the bundled fonts.
func NewSVG(w io.Writer, width, height float64, fonts *Fonts) *SVG {
	if fonts == nil {
		fonts = DefaultFonts()
	}
	s := &SVG{w: w, width: width, height: height, fonts: fonts, st: defaultState()}
	s.printf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	s.printf("<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%s\" height=\"%s\" viewBox=\"0 0 %s %s\">\n",
		num(width), num(height), num(width), num(height))
	return s
}

func (s *SVG) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

// num formats a device coordinate with at most three decimals.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func rgb(c Color) (hex, opacity string) {
	return c.Hex()[:7], num(c.A)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func (s *SVG) Size() (float64, float64) { return s.width, s.height }

func (s *SVG) Save() { s.stack = append(s.stack, s.st) }

func (s *SVG) Restore() {
	if n := len(s.stack); n > 0 {
		s.st = s.stack[n-1]
		s.stack = s.stack[:n-1]
	}
}

func (s *SVG) Translate(x, y float64) { s.st.matrix = s.st.matrix.Multiply(gg.Translate(x, y)) }
func (s *SVG) Scale(sx, sy float64)   { s.st.matrix = s.st.matrix.Multiply(gg.Scale(sx, sy)) }
func (s *SVG) Rotate(rad float64)     { s.st.matrix = s.st.matrix.Multiply(gg.Rotate(rad)) }

func (s *SVG) Paint(c Color) {
	fill, op := rgb(c)
	s.printf("<rect x=\"0\" y=\"0\" width=\"%s\" height=\"%s\" fill=\"%s\" fill-opacity=\"%s\"/>\n",
		num(s.width), num(s.height), fill, op)
}

func (s *SVG) SetColor(c Color)       { s.st.color = c }
func (s *SVG) SetLineWidth(w float64) { s.st.width = w }
func (s *SVG) SetLineCap(c LineCap)   { s.st.cap = c }

func (s *SVG) point(cmd byte, x, y float64) {
	dx, dy := apply(s.st.matrix, x, y)
	fmt.Fprintf(&s.path, "%c%s %s", cmd, num(dx), num(dy))
	s.hasPoint = true
}

func (s *SVG) MoveTo(x, y float64) { s.point('M', x, y) }

func (s *SVG) LineTo(x, y float64) {
	if !s.hasPoint {
		s.MoveTo(x, y)
		return
	}
	s.point('L', x, y)
}

func (s *SVG) Rectangle(x, y, w, h float64) {
	s.point('M', x, y)
	s.point('L', x+w, y)
	s.point('L', x+w, y+h)
	s.point('L', x, y+h)
	s.path.WriteString("Z")
}

func (s *SVG) Arc(cx, cy, r, a1, a2 float64) {
	for a2 < a1 {
		a2 += 2 * math.Pi
	}
	at := func(a float64) (float64, float64) {
		return cx + r*math.Cos(a), cy + r*math.Sin(a)
	}

	x, y := at(a1)
	if s.hasPoint {
		s.point('L', x, y)
	} else {
		s.point('M', x, y)
	}

	rd := num(r * scaleOf(s.st.matrix))
	n := int(math.Ceil((a2 - a1) / (math.Pi / 2)))
	for i := 1; i <= n; i++ {
		x, y := at(a1 + (a2-a1)*float64(i)/float64(n))
		dx, dy := apply(s.st.matrix, x, y)
		fmt.Fprintf(&s.path, "A%s %s 0 0 1 %s %s", rd, rd, num(dx), num(dy))
	}
}

func (s *SVG) stroke() {
	if s.path.Len() == 0 {
		return
	}
	color, op := rgb(s.st.color)
	s.printf("<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-opacity=\"%s\" stroke-width=\"%s\" stroke-linecap=\"%s\"/>\n",
		s.path.String(), color, op, num(s.st.width*scaleOf(s.st.matrix)), capName(s.st.cap))
}

func (s *SVG) fill() {
	if s.path.Len() == 0 {
		return
	}
	color, op := rgb(s.st.color)
	s.printf("<path d=\"%s\" fill=\"%s\" fill-opacity=\"%s\" stroke=\"none\"/>\n", s.path.String(), color, op)
}

func (s *SVG) clearPath() {
	s.path.Reset()
	s.hasPoint = false
}

func (s *SVG) Stroke() error {
	s.stroke()
	s.clearPath()
	return s.err
}

func (s *SVG) StrokePreserve() error {
	s.stroke()
	return s.err
}

func (s *SVG) Fill() error {
	s.fill()
	s.clearPath()
	return s.err
}

func (s *SVG) FillPreserve() error {
	s.fill()
	return s.err
}

func capName(c LineCap) string {
	switch c {
	case CapRound:
		return "round"
	case CapSquare:
		return "square"
	default:
		return "butt"
	}
}

func (s *SVG) MeasureText(text, font string, size float64) (float64, float64) {
	return s.fonts.Measure(text, font, size)
}

func (s *SVG) DrawText(x, y float64, r Run) error {
	if r.Text == "" {
		return s.err
	}
	family := r.Font
	if family == "" {
		family = FallbackFamily
	}
	scale := scaleOf(s.st.matrix)
	dx, dy := apply(s.st.matrix, x, y)
	deg := -rotationOf(s.st.matrix) * 180 / math.Pi
	fill, op := rgb(r.Color)

	s.printf("<text transform=\"translate(%s %s) rotate(%s)\" y=\"%s\" font-family=\"%s\" font-size=\"%s\" fill=\"%s\" fill-opacity=\"%s\" xml:space=\"preserve\">%s</text>\n",
		num(dx), num(dy), num(deg), num(s.fonts.Ascent(r.Font, r.Size)*scale),
		escape(family), num(r.Size*scale), fill, op, escape(r.Text))
	return s.err
}

// Close writes the closing tag. The writer itself is not closed.
func (s *SVG) Close() error {
	if s.closed {
		return s.err
	}
	s.closed = true
	s.printf("</svg>\n")
	return s.err
}
