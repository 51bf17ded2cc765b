package plot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinOrientationTotal(t *testing.T) {
	angles := []float64{0, 90, 180, 270}
	for _, pin := range angles {
		for _, sym := range angles {
			for _, mirror := range []string{"", "x", "y"} {
				side, err := PinOrientation(pin, sym, mirror)
				require.NoError(t, err, "pin %v sym %v mirror %q", pin, sym, mirror)
				assert.GreaterOrEqual(t, int(side), int(SideLeft))
				assert.LessOrEqual(t, int(side), int(SideTop))
			}
		}
	}
}

func TestPinOrientation(t *testing.T) {
	tests := []struct {
		pin, sym float64
		mirror   string
		want     PinSide
	}{
		{0, 0, "", SideLeft},
		{90, 0, "", SideBottom},
		{180, 0, "", SideRight},
		{270, 0, "", SideTop},
		{0, 90, "", SideBottom},
		{0, 270, "", SideTop},
		{90, 180, "", SideTop},
		{90, 0, "x", SideTop},
		{0, 0, "x", SideLeft},
		{0, 0, "y", SideRight},
		{0, -90, "", SideTop},
		{0, 450, "", SideBottom},
	}
	for _, tt := range tests {
		got, err := PinOrientation(tt.pin, tt.sym, tt.mirror)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "pin %v sym %v mirror %q", tt.pin, tt.sym, tt.mirror)
	}
}

func TestPinOrientationRejectsOddAngles(t *testing.T) {
	for _, c := range []struct {
		pin, sym float64
		mirror   string
	}{
		{45, 0, ""},
		{0, 30, ""},
		{0, 0, "z"},
	} {
		_, err := PinOrientation(c.pin, c.sym, c.mirror)
		var ge *GeometryError
		assert.ErrorAs(t, err, &ge)
	}
}

func TestPinSideString(t *testing.T) {
	assert.Equal(t, "bottom", SideBottom.String())
	assert.Equal(t, "PinSide(7)", PinSide(7).String())
}
