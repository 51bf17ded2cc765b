package canvas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
)

func TestFontsFallback(t *testing.T) {
	f := NewFonts("")
	w, h := f.Measure("label", "Go", 1.27)
	assert.Greater(t, w, 0.0)
	assert.Greater(t, h, 0.0)

	fw, fh := f.Measure("label", "Comic Sans", 1.27)
	assert.Equal(t, w, fw)
	assert.Equal(t, h, fh)

	a, err := f.Source("Comic Sans")
	require.NoError(t, err)
	b, err := f.Source("Go")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestFontsScaleWithSize(t *testing.T) {
	f := DefaultFonts()
	w1, _ := f.Measure("R1", "Go", 1)
	w2, _ := f.Measure("R1", "Go", 2)
	assert.InDelta(t, 2*w1, w2, 1e-6)
	assert.Greater(t, f.Ascent("Go", 2), 0.0)
}

func TestFontsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Plotter.ttf"), gomono.TTF, 0o644))

	f := NewFonts(dir)
	mono, _ := f.Measure("iiii", "Plotter", 1)
	builtin, _ := f.Measure("iiii", "Go Mono", 1)
	regular, _ := f.Measure("iiii", "Go", 1)
	assert.InDelta(t, builtin, mono, 1e-9)
	assert.NotEqual(t, regular, mono)
}
