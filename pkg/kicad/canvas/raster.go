package canvas

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// Raster is a Canvas backed by a gg pixel buffer. Nothing is written
// until Close, which encodes the buffer as PNG.
type Raster struct {
	ctx   *gg.Context
	w     io.Writer
	fonts *Fonts

	st       state
	stack    []state
	hasPoint bool
	closed   bool
}

// NewRaster returns a width×height pixel canvas that encodes to w on
// Close. w may be nil for a canvas that is only measured or read back
// with Image. fonts may be nil for the bundled fonts.
func NewRaster(w io.Writer, width, height int, fonts *Fonts) *Raster {
	if fonts == nil {
		fonts = DefaultFonts()
	}
	return &Raster{
		ctx:   gg.NewContext(max(width, 1), max(height, 1)),
		w:     w,
		fonts: fonts,
		st:    defaultState(),
	}
}

func (r *Raster) Size() (float64, float64) {
	return float64(r.ctx.Width()), float64(r.ctx.Height())
}

func (r *Raster) Save() { r.stack = append(r.stack, r.st) }

func (r *Raster) Restore() {
	if n := len(r.stack); n > 0 {
		r.st = r.stack[n-1]
		r.stack = r.stack[:n-1]
		r.ctx.SetTransform(r.st.matrix)
	}
}

func (r *Raster) transform(m gg.Matrix) {
	r.st.matrix = r.st.matrix.Multiply(m)
	r.ctx.SetTransform(r.st.matrix)
}

func (r *Raster) Translate(x, y float64) { r.transform(gg.Translate(x, y)) }
func (r *Raster) Scale(sx, sy float64)   { r.transform(gg.Scale(sx, sy)) }
func (r *Raster) Rotate(rad float64)     { r.transform(gg.Rotate(rad)) }

func (r *Raster) Paint(c Color) {
	r.ctx.ClearWithColor(gg.RGBA2(c.R, c.G, c.B, c.A))
}

func (r *Raster) SetColor(c Color)       { r.st.color = c }
func (r *Raster) SetLineWidth(w float64) { r.st.width = w }
func (r *Raster) SetLineCap(c LineCap)   { r.st.cap = c }

func (r *Raster) MoveTo(x, y float64) {
	r.ctx.MoveTo(x, y)
	r.hasPoint = true
}

func (r *Raster) LineTo(x, y float64) {
	if !r.hasPoint {
		r.MoveTo(x, y)
		return
	}
	r.ctx.LineTo(x, y)
}

func (r *Raster) Rectangle(x, y, w, h float64) {
	r.ctx.DrawRectangle(x, y, w, h)
	r.hasPoint = true
}

// Arc works around gg transforming the arc center but not its radius or
// start angle.
func (r *Raster) Arc(cx, cy, rad, a1, a2 float64) {
	sx, sy := cx+rad*math.Cos(a1), cy+rad*math.Sin(a1)
	if r.hasPoint {
		r.ctx.LineTo(sx, sy)
	} else {
		r.ctx.MoveTo(sx, sy)
	}
	r.hasPoint = true

	rot := rotationOf(r.st.matrix)
	r.ctx.DrawArc(cx, cy, rad*scaleOf(r.st.matrix), a1-rot, a2-rot)
}

func (r *Raster) prepare() {
	c := r.st.color
	r.ctx.SetRGBA(c.R, c.G, c.B, c.A)
	r.ctx.SetLineWidth(r.st.width * scaleOf(r.st.matrix))
	switch r.st.cap {
	case CapRound:
		r.ctx.SetLineCap(gg.LineCapRound)
	case CapSquare:
		r.ctx.SetLineCap(gg.LineCapSquare)
	default:
		r.ctx.SetLineCap(gg.LineCapButt)
	}
}

func (r *Raster) Stroke() error {
	r.prepare()
	r.hasPoint = false
	return r.ctx.Stroke()
}

func (r *Raster) StrokePreserve() error {
	r.prepare()
	return r.ctx.StrokePreserve()
}

func (r *Raster) Fill() error {
	r.prepare()
	r.hasPoint = false
	return r.ctx.Fill()
}

func (r *Raster) FillPreserve() error {
	r.prepare()
	return r.ctx.FillPreserve()
}

func (r *Raster) MeasureText(s, font string, size float64) (float64, float64) {
	return r.fonts.Measure(s, font, size)
}

// DrawText renders the run unrotated at device resolution into its own
// buffer, turns it with imaging and composites it in device space.
func (r *Raster) DrawText(x, y float64, run Run) error {
	if run.Text == "" {
		return nil
	}
	face, err := r.fonts.Face(run.Font, run.Size*scaleOf(r.st.matrix))
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}
	w, h := text.Measure(run.Text, face)
	iw, ih := int(math.Ceil(w))+1, int(math.Ceil(h))+1

	off := gg.NewContext(iw, ih)
	defer off.Close()
	off.SetFont(face)
	c := run.Color
	off.SetRGBA(c.R, c.G, c.B, c.A)
	off.DrawString(run.Text, 0, face.Metrics().Ascent)

	var img image.Image = off.Image()
	theta := rotationOf(r.st.matrix)
	mx, my := 0.0, 0.0
	if math.Abs(theta) > 1e-9 {
		img = imaging.Rotate(img, theta*180/math.Pi, color.Transparent)
		mx, my = rotatedOffset(float64(iw), float64(ih), theta)
	}

	dx, dy := apply(r.st.matrix, x, y)
	r.ctx.Push()
	r.ctx.Identity()
	r.ctx.DrawImage(gg.ImageBufFromImage(img), math.Round(dx+mx), math.Round(dy+my))
	r.ctx.Pop()
	r.ctx.SetTransform(r.st.matrix)
	return nil
}

// rotatedOffset returns where the top-left corner of a w×h image ends
// up, relative to the top-left of its bounding box, after turning it
// counter-clockwise by theta on screen.
func rotatedOffset(w, h, theta float64) (float64, float64) {
	sin, cos := math.Sin(theta), math.Cos(theta)
	minX, minY := 0.0, 0.0
	for _, p := range [][2]float64{{w, 0}, {w, h}, {0, h}} {
		x := p[0]*cos + p[1]*sin
		y := -p[0]*sin + p[1]*cos
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
	}
	return minX, minY
}

// Image returns the current pixels.
func (r *Raster) Image() image.Image {
	return r.ctx.Image()
}

// Close encodes the buffer as PNG to the writer given to NewRaster.
func (r *Raster) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	defer r.ctx.Close()
	if r.w == nil {
		return nil
	}
	if err := r.ctx.EncodePNG(r.w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
