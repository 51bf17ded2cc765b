package sexp

import (
	"testing"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/sexp/kicadsexp"
)

func parseOne(t *testing.T, src string) kicadsexp.Sexp {
	t.Helper()
	sexps, err := kicadsexp.ParseString(src)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", src, err)
	}
	return sexps[0]
}

func TestGetPosition(t *testing.T) {
	tests := []struct {
		input string
		want  PositionAngle
	}{
		{"(at 100 50)", PositionAngle{Position: Position{X: 100, Y: 50}}},
		{"(at 12.7 -3.81 90)", PositionAngle{Position: Position{X: 12.7, Y: -3.81}, Angle: 90}},
		{"(at 0 0 270)", PositionAngle{Angle: 270}},
	}

	for _, tt := range tests {
		got, err := GetPosition(parseOne(t, tt.input))
		if err != nil {
			t.Fatalf("GetPosition(%s): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("GetPosition(%s): expected %+v, got %+v", tt.input, tt.want, got)
		}
	}

	if _, err := GetPosition(parseOne(t, "(xy 1 2)")); err == nil {
		t.Error("Expected error for non-at node")
	}
}

func TestGetColor(t *testing.T) {
	c, err := GetColor(parseOne(t, "(color 255 0 51 0.5)"))
	if err != nil {
		t.Fatalf("GetColor: %v", err)
	}
	if c.R != 1 || c.G != 0 || c.B != 0.2 || c.A != 0.5 {
		t.Errorf("Unexpected color %+v", c)
	}
	if got := c.Hex(); got != "#FF003380" {
		t.Errorf("Expected #FF003380, got %s", got)
	}

	c, err = GetColor(parseOne(t, "(color 0 0 0 0)"))
	if err != nil {
		t.Fatalf("GetColor: %v", err)
	}
	if !c.IsZero() {
		t.Errorf("Expected zero color, got %+v", c)
	}
}

func TestGetStrokeDefaults(t *testing.T) {
	stroke, err := GetStroke(parseOne(t, "(stroke (width 0) (type default))"))
	if err != nil {
		t.Fatalf("GetStroke: %v", err)
	}
	if stroke.Width != 0 || stroke.Type != "default" || !stroke.Color.IsZero() {
		t.Errorf("Expected inherit-everything stroke, got %+v", stroke)
	}

	stroke, err = GetStroke(parseOne(t, "(stroke (width 0.254) (type dash) (color 0 0 255 1))"))
	if err != nil {
		t.Fatalf("GetStroke: %v", err)
	}
	if stroke.Width != 0.254 || stroke.Type != "dash" || stroke.Color.B != 1 {
		t.Errorf("Unexpected stroke %+v", stroke)
	}
}

func TestGetEffects(t *testing.T) {
	effects, err := GetEffects(parseOne(t,
		`(effects (font (size 1.27 1.27) bold (face "KiCad Font")) (justify left bottom) hide)`))
	if err != nil {
		t.Fatalf("GetEffects: %v", err)
	}
	if effects.Font.Size.Height != 1.27 {
		t.Errorf("Expected font height 1.27, got %v", effects.Font.Size.Height)
	}
	if !effects.Font.Bold {
		t.Error("Expected bold font")
	}
	if effects.Font.Face != "KiCad Font" {
		t.Errorf("Expected face 'KiCad Font', got %q", effects.Font.Face)
	}
	if effects.Justify.Horizontal != "left" || effects.Justify.Vertical != "bottom" {
		t.Errorf("Unexpected justify %+v", effects.Justify)
	}
	if !effects.Hide {
		t.Error("Expected hidden effects")
	}

	effects, err = GetEffects(parseOne(t, "(effects (font (size 2 2)))"))
	if err != nil {
		t.Fatalf("GetEffects: %v", err)
	}
	if effects.Justify.IsSet() {
		t.Errorf("Expected no justify, got %+v", effects.Justify)
	}
}

func TestJustifyWords(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"(justify left)", []string{"left"}},
		{"(justify right top)", []string{"right", "top"}},
		{"(justify)", []string{"center"}},
	}
	for _, tt := range tests {
		got := GetJustify(parseOne(t, tt.input)).Words()
		if len(got) != len(tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.input, tt.want, got)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: expected %v, got %v", tt.input, tt.want, got)
			}
		}
	}
}

func TestGetPropertyHidden(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"kicad6", `(property "Footprint" "R_0603" (at 1 2 0) (effects (font (size 1.27 1.27)) hide))`},
		{"kicad8", `(property "Footprint" "R_0603" (at 1 2 0) (hide yes) (effects (font (size 1.27 1.27))))`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop, err := GetProperty(parseOne(t, tt.input))
			if err != nil {
				t.Fatalf("GetProperty: %v", err)
			}
			if prop.Key != "Footprint" || prop.Value != "R_0603" {
				t.Errorf("Unexpected property %q=%q", prop.Key, prop.Value)
			}
			if !prop.Effects.Hide {
				t.Error("Expected hidden property")
			}
			if !prop.HasEffects {
				t.Error("Expected HasEffects")
			}
		})
	}
}

func TestGetPoints(t *testing.T) {
	pts, err := GetPoints(parseOne(t, "(wire (pts (xy 0 0) (xy 10 -5)))"))
	if err != nil {
		t.Fatalf("GetPoints: %v", err)
	}
	if len(pts) != 2 || pts[1] != (Position{X: 10, Y: -5}) {
		t.Errorf("Unexpected points %v", pts)
	}
}

func TestGetYesNo(t *testing.T) {
	node := parseOne(t, "(symbol (in_bom yes) (on_board no) (dnp))")
	if !GetYesNo(node, "in_bom", false) {
		t.Error("Expected in_bom yes")
	}
	if GetYesNo(node, "on_board", true) {
		t.Error("Expected on_board no")
	}
	if !GetYesNo(node, "dnp", false) {
		t.Error("Expected bare dnp to read as yes")
	}
	if !GetYesNo(node, "on_schematic", true) {
		t.Error("Expected default for missing key")
	}
}
