package canvas

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRasterEncodesPNG(t *testing.T) {
	var buf bytes.Buffer
	r := NewRaster(&buf, 20, 10, nil)
	w, h := r.Size()
	assert.Equal(t, 20.0, w)
	assert.Equal(t, 10.0, h)

	r.Paint(Color{R: 1, G: 1, B: 1, A: 1})
	r.SetColor(Color{R: 1, A: 1})
	r.Rectangle(2, 2, 6, 6)
	require.NoError(t, r.Fill())
	assert.Zero(t, buf.Len(), "nothing is written before Close")

	require.NoError(t, r.Close())
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())

	cr, cg, cb, ca := img.At(0, 0).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0xffff, 0xffff, 0xffff}, [4]uint32{cr, cg, cb, ca})
	cr, cg, _, _ = img.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), cr)
	assert.Equal(t, uint32(0), cg)
}

func TestRasterMeasureIgnoresTransform(t *testing.T) {
	r := NewRaster(nil, 10, 10, nil)
	w1, h1 := r.MeasureText("Hello", "Go", 2)
	r.Scale(5, 5)
	w2, h2 := r.MeasureText("Hello", "Go", 2)
	assert.Equal(t, w1, w2)
	assert.Equal(t, h1, h2)
	assert.Greater(t, w1, 0.0)
	require.NoError(t, r.Close())
}

func TestRasterDrawTextMarksPixels(t *testing.T) {
	r := NewRaster(nil, 60, 60, nil)
	r.Paint(Color{R: 1, G: 1, B: 1, A: 1})
	r.Translate(30, 30)
	r.Rotate(-math.Pi / 2)
	require.NoError(t, r.DrawText(0, 0, Run{Text: "WWW", Size: 12, Color: Color{A: 1}}))

	img := r.Image()
	dark := 0
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			if c, _, _, _ := img.At(x, y).RGBA(); c < 0x8000 {
				dark++
			}
		}
	}
	assert.Greater(t, dark, 0)
	require.NoError(t, r.Close())
}

func TestRotatedOffset(t *testing.T) {
	x, y := rotatedOffset(10, 4, math.Pi/2)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, -10, y, 1e-9)
}
