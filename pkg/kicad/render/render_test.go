package render

import (
	"bytes"
	"errors"
	"image/png"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/plot"
	"github.com/OpenTraceLab/kiplot/pkg/kicad/schematic"
)

func parseDoc(t *testing.T, body string) *schematic.Document {
	t.Helper()
	sch, err := schematic.Parse(strings.NewReader("(kicad_sch (version 20231120) (paper \"A4\")\n" + body + "\n)"))
	require.NoError(t, err)
	return schematic.NewDocument(sch)
}

func loadTop(t *testing.T) *schematic.Document {
	t.Helper()
	doc, err := schematic.LoadDocument("testdata/top.kicad_sch")
	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)
	return doc
}

const wireBody = `(wire (pts (xy 0 0) (xy 10 0)))`

type fixedMeasurer struct{}

func (fixedMeasurer) MeasureText(text, _ string, size float64) (float64, float64) {
	return float64(len(text)) * size * 0.6, size
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatSVG},
		{"svg", FormatSVG},
		{".SVG", FormatSVG},
		{"png", FormatPNG},
		{"Png", FormatPNG},
		{"pdf", FormatPDF},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseFormat("bmp")
	assert.ErrorIs(t, err, plot.ErrUnsupportedFormat)
	assert.Equal(t, ".png", FormatPNG.Ext())
}

func TestRenderPDFWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	err := Render(parseDoc(t, wireBody), 0, Options{Format: FormatPDF}, &buf)

	var ferr *plot.UnsupportedFormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "pdf", ferr.Format)
	assert.Zero(t, buf.Len())
}

func TestRenderPageOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	err := Render(parseDoc(t, wireBody), 3, Options{}, &buf)

	var derr *plot.DocumentError
	require.ErrorAs(t, err, &derr)
	assert.Zero(t, buf.Len())
}

func TestRenderBorderSVG(t *testing.T) {
	var buf bytes.Buffer
	// Scale has no effect with a border.
	require.NoError(t, Render(parseDoc(t, wireBody), 0, Options{Border: true, Scale: 3}, &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `width="1122.52" height="793.701"`)
	assert.Contains(t, out, `d="M0 0L37.795 0"`)
	assert.Contains(t, out, ">Size: A4</text>")
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestRenderTightSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(parseDoc(t, wireBody), 0, Options{}, &buf))

	out := buf.String()
	assert.Contains(t, out, `width="56.995" height="19.2"`)
	assert.Contains(t, out, `d="M9.6 9.6L47.395 9.6"`)
	assert.NotContains(t, out, "Size: A4")

	buf.Reset()
	require.NoError(t, Render(parseDoc(t, wireBody), 0, Options{Scale: 2}, &buf))
	assert.Contains(t, buf.String(), `width="113.991"`)
}

func TestRenderPaintsWhiteFirst(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(parseDoc(t, wireBody), 0, Options{Theme: plot.ThemeMono}, &buf))

	out := buf.String()
	rect := strings.Index(out, `<rect x="0" y="0"`)
	path := strings.Index(out, "<path")
	require.GreaterOrEqual(t, rect, 0)
	assert.Less(t, rect, path)
	assert.Contains(t, out, `fill="#FFFFFF"`)
	assert.Contains(t, out, `stroke="#000000"`)
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(parseDoc(t, wireBody), 0, Options{Format: FormatPNG}, &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 57, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})

	inked := false
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y && !inked; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			if r, g, b, _ := img.At(x, y).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff {
				inked = true
				break
			}
		}
	}
	assert.True(t, inked, "wire left no pixels")
}

func TestRenderNetNames(t *testing.T) {
	doc := loadTop(t)

	var plain, annotated bytes.Buffer
	require.NoError(t, Render(doc, 0, Options{}, &plain))
	require.NoError(t, Render(doc, 0, Options{Netlist: true}, &annotated))

	// Pin 2 of C1 touches nothing and gets a numbered net.
	assert.NotContains(t, plain.String(), ">Net-1<")
	assert.Contains(t, annotated.String(), ">Net-1<")
	assert.Contains(t, annotated.String(), ">FILT<")
}

func TestPageSize(t *testing.T) {
	page := &schematic.Page{Schematic: &schematic.Schematic{Paper: "A4"}}
	circle := []plot.Item{&plot.Circle{Radius: 5}}

	got := PageSize(page, circle, Options{}, fixedMeasurer{})
	assert.InDelta(t, 15.08, got.Width, 1e-9)
	assert.InDelta(t, 15.08, got.Height, 1e-9)

	got = PageSize(page, nil, Options{}, fixedMeasurer{})
	assert.InDelta(t, 5.08, got.Width, 1e-9)
	assert.InDelta(t, 5.08, got.Height, 1e-9)

	got = PageSize(page, circle, Options{Border: true}, fixedMeasurer{})
	assert.Equal(t, schematic.Size{Width: 297, Height: 210}, got)
}

func TestSize(t *testing.T) {
	doc := loadTop(t)

	full, err := Size(doc, 1, Options{Border: true})
	require.NoError(t, err)
	assert.Equal(t, schematic.PaperSize("A5"), full)

	tight, err := Size(doc, 1, Options{})
	require.NoError(t, err)
	assert.Greater(t, tight.Width, 12.7)
	assert.Less(t, tight.Width, full.Width)
}

func TestItemsUsesCustomTheme(t *testing.T) {
	custom, err := plot.ParseTheme(strings.NewReader(`wire { color = #123456 }`), "custom", plot.Kicad2000())
	require.NoError(t, err)

	items, err := Items(parseDoc(t, wireBody), 0, Options{Theme: plot.ThemeMono, CustomTheme: custom})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "#123456FF", items[0].(*plot.Line).Stroke.Color.Hex())
}

func TestRenderLogs(t *testing.T) {
	var buf bytes.Buffer
	plot.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { plot.SetLogger(nil) })

	var out bytes.Buffer
	require.NoError(t, Render(parseDoc(t, wireBody), 0, Options{Theme: "nope"}, &out))

	assert.Contains(t, buf.String(), "unknown theme")
	assert.Contains(t, buf.String(), "drawing page")
	assert.Contains(t, out.String(), `stroke="#009600"`)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderWriteError(t *testing.T) {
	err := Render(parseDoc(t, wireBody), 0, Options{}, failingWriter{})

	var ioErr *plot.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.ErrorContains(t, err, "disk full")
}
