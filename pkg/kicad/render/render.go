// Package render draws schematic pages onto SVG or PNG surfaces.
package render

import (
	"fmt"
	"io"
	"math"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/canvas"
	"github.com/OpenTraceLab/kiplot/pkg/kicad/plot"
	"github.com/OpenTraceLab/kiplot/pkg/kicad/schematic"
	"github.com/OpenTraceLab/kiplot/pkg/kicad/sexp"
)

// Unit conversions from mm.
const (
	deviceScale  = 96.0 / 25.4 // output surfaces
	measureScale = 72.0 / 25.4 // pre-measurement surface
	boundsMargin = 2.54
)

// Options controls a render.
type Options struct {
	Theme       string      // built-in theme name; unknown names fall back to kicad_2000
	CustomTheme *plot.Theme // takes precedence over Theme when set
	Border      bool        // draw on the full paper with frame and title block
	Scale       float64     // output scale for auto-fit pages; 0 means 1
	Format      Format
	Netlist     bool          // annotate pins with their net names
	Fonts       *canvas.Fonts // nil means the bundled fonts
	TempDir     string        // capture directory; empty means os.TempDir
}

func (o Options) theme() *plot.Theme {
	if o.CustomTheme != nil {
		return o.CustomTheme
	}
	if o.Theme == "" {
		return plot.Kicad2000()
	}
	return plot.ResolveTheme(o.Theme)
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}

func (o Options) fonts() *canvas.Fonts {
	if o.Fonts == nil {
		return canvas.DefaultFonts()
	}
	return o.Fonts
}

func page(doc *schematic.Document, index int) (*schematic.Page, error) {
	p, err := doc.Page(index)
	if err != nil {
		return nil, &plot.DocumentError{Op: "page", Err: err}
	}
	return p, nil
}

// Items builds the plot items of one page without drawing them.
func Items(doc *schematic.Document, pageIndex int, opts Options) ([]plot.Item, error) {
	return items(doc, pageIndex, opts, netlistFor(doc, opts))
}

func items(doc *schematic.Document, pageIndex int, opts Options, nets *schematic.Netlist) ([]plot.Item, error) {
	p, err := page(doc, pageIndex)
	if err != nil {
		return nil, err
	}
	bopts := plot.Options{Theme: opts.theme(), Border: opts.Border}
	if pn := nets.Page(pageIndex); pn != nil {
		bopts.Netlist = pn
	}
	return plot.NewBuilder(p, bopts).Collect()
}

// measurer returns the in-memory A4 surface text is measured on before
// the output surface exists.
func measurer(fonts *canvas.Fonts) *canvas.Raster {
	a4 := schematic.PaperSize("A4")
	r := canvas.NewRaster(nil, int(a4.Width*measureScale), int(a4.Height*measureScale), fonts)
	r.Scale(measureScale, measureScale)
	return r
}

// extent is the drawing area of a page in mm.
func extent(p *schematic.Page, items []plot.Item, opts Options, m plot.Measurer) sexp.BoundingBox {
	if opts.Border {
		paper := schematic.PaperSize(p.Paper())
		return sexp.BoundingBox{Max: sexp.Position{X: paper.Width, Y: paper.Height}}
	}
	box := plot.Bounds(items, m)
	if box.IsEmpty() {
		box = sexp.BoundingBox{}
	}
	return box.Grow(boundsMargin)
}

// PageSize returns the size of a page in mm: the paper in border mode,
// otherwise the item bounds plus a 2.54 margin on every side.
func PageSize(p *schematic.Page, items []plot.Item, opts Options, m plot.Measurer) schematic.Size {
	box := extent(p, items, opts, m)
	return schematic.Size{Width: box.Width(), Height: box.Height()}
}

// Size builds one page and returns its size in mm without drawing it.
func Size(doc *schematic.Document, pageIndex int, opts Options) (schematic.Size, error) {
	p, err := page(doc, pageIndex)
	if err != nil {
		return schematic.Size{}, err
	}
	all, err := Items(doc, pageIndex, opts)
	if err != nil {
		return schematic.Size{}, err
	}
	m := measurer(opts.fonts())
	defer m.Close()
	return PageSize(p, all, opts, m), nil
}

// Render draws one page of doc to w. The whole page is built and sized
// before anything is written.
func Render(doc *schematic.Document, pageIndex int, opts Options, w io.Writer) error {
	return render(doc, pageIndex, opts, netlistFor(doc, opts), w)
}

func render(doc *schematic.Document, pageIndex int, opts Options, nets *schematic.Netlist, w io.Writer) error {
	if err := opts.Format.Supported(); err != nil {
		return err
	}
	p, err := page(doc, pageIndex)
	if err != nil {
		return err
	}
	all, err := items(doc, pageIndex, opts, nets)
	if err != nil {
		return err
	}

	fonts := opts.fonts()
	m := measurer(fonts)
	box := extent(p, all, opts, m)
	_ = m.Close()

	k := deviceScale
	if !opts.Border {
		k *= opts.scale()
	}
	width, height := box.Width()*k, box.Height()*k

	var c canvas.Canvas
	switch opts.Format {
	case FormatPNG:
		c = canvas.NewRaster(w, int(math.Ceil(width)), int(math.Ceil(height)), fonts)
	default:
		c = canvas.NewSVG(w, width, height, fonts)
	}

	c.Paint(white)
	c.Scale(k, k)
	c.Translate(-box.Min.X, -box.Min.Y)
	logger().Debug("drawing page", "page", pageIndex, "items", len(all), "width", width, "height", height)

	if err := draw(c, all); err != nil {
		_ = c.Close()
		return &plot.IOError{Op: "draw", Err: err}
	}
	if err := c.Close(); err != nil {
		return &plot.IOError{Op: fmt.Sprintf("write %s", opts.Format), Err: err}
	}
	return nil
}
