package cmd

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/kiplot/internal/viewer"
	"github.com/OpenTraceLab/kiplot/pkg/kicad/render"
	"github.com/OpenTraceLab/kiplot/pkg/kicad/sexp"
)

var schViewCmd = &cobra.Command{
	Use:   "view <schematic_file>",
	Short: "View a rendered schematic page",
	Long: `Renders one page to a raster image and shows it scaled to fit the window.

Controls:
  Drag              - Pan
  Scroll Wheel      - Zoom in/out
  Space             - Fit page to window
  N / Right Arrow   - Next page
  P / Left Arrow    - Previous page
  R                 - Reload the file
  Q / Escape        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runSchView,
}

var viewPage int

func init() {
	schCmd.AddCommand(schViewCmd)
	addStyleFlags(schViewCmd)
	schViewCmd.Flags().IntVar(&viewPage, "page", 0, "page to show (0 is the root sheet)")
}

// pageViewer holds the rendered page, the camera looking at it and a
// downscaled copy for zoom levels below 1.
type pageViewer struct {
	window   *app.Window
	filename string
	opts     render.Options
	page     int
	pages    int

	img    image.Image
	camera *viewer.Camera
	fitted bool

	scaled     paint.ImageOp
	scaledZoom float64
	full       paint.ImageOp

	dragging bool
	lastPos  f32.Point
}

func (v *pageViewer) load() error {
	doc, err := loadDocument(v.filename)
	if err != nil {
		return err
	}
	v.pages = len(doc.Pages)
	if v.page >= v.pages {
		v.page = v.pages - 1
	}

	var buf bytes.Buffer
	if err := render.Render(doc, v.page, v.opts, &buf); err != nil {
		return err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return fmt.Errorf("failed to decode rendered page: %w", err)
	}
	v.img = img
	v.full = paint.NewImageOp(img)
	v.scaledZoom = 0
	v.fitted = false
	return nil
}

func (v *pageViewer) fit() {
	b := v.img.Bounds()
	v.camera.Fit(float64(b.Dx()), float64(b.Dy()))
}

// imageOp returns the page image for the current zoom and the scale
// still to apply to it. Below zoom 1 the page is resampled once per
// zoom level instead of being minified by the GPU.
func (v *pageViewer) imageOp() (paint.ImageOp, float32) {
	zoom := v.camera.Zoom
	if zoom >= 1 {
		return v.full, float32(zoom)
	}
	if v.scaledZoom != zoom {
		w := int(math.Max(1, math.Round(float64(v.img.Bounds().Dx())*zoom)))
		v.scaled = paint.NewImageOp(imaging.Resize(v.img, w, 0, imaging.Lanczos))
		v.scaledZoom = zoom
	}
	return v.scaled, 1
}

func (v *pageViewer) layout(gtx layout.Context) {
	paint.Fill(gtx.Ops, color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF})
	if v.img == nil {
		return
	}
	v.camera.UpdateScreenSize(gtx.Constraints.Max.X, gtx.Constraints.Max.Y)
	if !v.fitted {
		v.fit()
		v.fitted = true
	}

	img, scale := v.imageOp()
	x, y := v.camera.WorldToScreen(sexp.Position{})
	tr := f32.Affine2D{}.
		Scale(f32.Pt(0, 0), f32.Pt(scale, scale)).
		Offset(f32.Pt(float32(math.Round(x)), float32(math.Round(y))))
	defer op.Affine(tr).Push(gtx.Ops).Pop()
	defer clip.Rect(image.Rectangle{Max: img.Size()}).Push(gtx.Ops).Pop()
	img.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}

// handleKey returns true when the window should close.
func (v *pageViewer) handleKey(name key.Name) (bool, error) {
	switch name {
	case key.NameEscape, "Q":
		return true, nil
	case key.NameSpace:
		v.fit()
	case "N", key.NameRightArrow:
		if v.page+1 < v.pages {
			v.page++
			return false, v.load()
		}
	case "P", key.NameLeftArrow:
		if v.page > 0 {
			v.page--
			return false, v.load()
		}
	case "R":
		return false, v.load()
	}
	return false, nil
}

func (v *pageViewer) handlePointer(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(
			pointer.Filter{
				Kinds: pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll,
			},
		)
		if !ok {
			break
		}

		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch pe.Kind {
		case pointer.Press:
			if pe.Buttons == pointer.ButtonPrimary {
				v.dragging = true
				v.lastPos = pe.Position
			}
		case pointer.Drag:
			if v.dragging && pe.Buttons == pointer.ButtonPrimary {
				v.camera.Pan(float64(pe.Position.X-v.lastPos.X), float64(pe.Position.Y-v.lastPos.Y))
				v.lastPos = pe.Position
				v.window.Invalidate()
			}
		case pointer.Release:
			v.dragging = false
		case pointer.Scroll:
			// Zoom at cursor position
			factor := 1.0 - float64(pe.Scroll.Y)*0.1
			v.camera.ZoomAt(float64(pe.Position.X), float64(pe.Position.Y), factor)
			v.window.Invalidate()
		}
	}
}

func runSchView(cmd *cobra.Command, args []string) error {
	opts, err := renderOptions(render.FormatPNG)
	if err != nil {
		return err
	}
	v := &pageViewer{
		filename: args[0],
		opts:     opts,
		page:     viewPage,
		camera:   viewer.NewCamera(1200, 800),
	}
	if err := v.load(); err != nil {
		return err
	}

	go func() {
		v.window = new(app.Window)
		v.window.Option(app.Title("kiplot - " + v.filename))
		v.window.Option(app.Size(unit.Dp(1200), unit.Dp(800)))

		if err := runViewerWindow(v); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}

func runViewerWindow(v *pageViewer) error {
	var ops op.Ops

	for {
		switch e := v.window.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			ops.Reset()
			gtx := app.NewContext(&ops, e)

			for {
				ev, ok := gtx.Event(key.Filter{})
				if !ok {
					break
				}
				ke, ok := ev.(key.Event)
				if !ok || ke.State != key.Press {
					continue
				}
				quit, err := v.handleKey(ke.Name)
				if err != nil {
					return err
				}
				if quit {
					return nil
				}
				v.window.Option(app.Title(fmt.Sprintf("kiplot - %s [%d/%d]", v.filename, v.page+1, v.pages)))
				v.window.Invalidate()
			}
			v.handlePointer(gtx)

			v.layout(gtx)
			e.Frame(&ops)
		}
	}
}
