package plot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTheme(t *testing.T) {
	src := `
// thicker wires
wire     { width = 0.3; color = #008400; type = "dash" }
pin_name { size = 1.0; font = "Go Mono"; justify = left top; hide = yes }
fill     { background = #FFFFFFFF }
power    { width = 0.2 }
`
	base := Kicad2000()
	th, err := ParseTheme(strings.NewReader(src), "custom", base)
	require.NoError(t, err)
	assert.Equal(t, "custom", th.Name())

	wire, err := th.Stroke("wire")
	require.NoError(t, err)
	assert.Equal(t, 0.3, wire.Width)
	assert.Equal(t, "dash", wire.LineType)
	assert.Equal(t, "#008400FF", wire.Color.Hex())

	name, err := th.Effects("pin_name")
	require.NoError(t, err)
	assert.Equal(t, 1.0, name.FontSize)
	assert.Equal(t, "Go Mono", name.Font)
	assert.Equal(t, AlignLeft|AlignTop, name.Align)
	assert.True(t, name.Hide)

	assert.Equal(t, "#FFFFFFFF", th.FillColor("background").Hex())

	power, err := th.Stroke("power")
	require.NoError(t, err)
	assert.Equal(t, 0.2, power.Width)
	_, err = th.Effects("power")
	assert.ErrorIs(t, err, ErrThemeNotFound)

	// the base theme is untouched
	orig, _ := base.Stroke("wire")
	assert.Equal(t, 0.1524, orig.Width)
}

func TestParseThemeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown key", `wire { thickness = 1 }`},
		{"wrong value type", `wire { width = "thick" }`},
		{"bad justify", `label { justify = left sideways }`},
		{"color only new role", `halo { color = #FF0000 }`},
		{"fill key", `fill { width = 1 }`},
		{"syntax", `wire { width = 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTheme(strings.NewReader(tt.src), "bad", Kicad2000())
			assert.Error(t, err)
		})
	}
}

func TestLoadThemeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "night.theme")
	require.NoError(t, os.WriteFile(path, []byte("label { color = #FFFFFF }\n"), 0o644))

	th, err := LoadThemeFile(path, Mono())
	require.NoError(t, err)
	assert.Equal(t, "night", th.Name())

	label, err := th.Effects("label")
	require.NoError(t, err)
	assert.Equal(t, "#FFFFFFFF", label.Color.Hex())

	_, err = LoadThemeFile(filepath.Join(t.TempDir(), "missing.theme"), Mono())
	assert.Error(t, err)
}
