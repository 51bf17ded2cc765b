package schematic

import (
	"strings"
	"testing"
)

func TestParseMinimalSchematic(t *testing.T) {
	input := `(kicad_sch
		(version 20250114)
		(generator "eeschema")
		(generator_version "9.0")
		(uuid 862335ee-c981-4fe1-9eb9-84db19301dd4)
		(paper "A4")
		(lib_symbols)
		(sheet_instances
			(path "/"
				(page "1")
			)
		)
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	if sch.Version != 20250114 {
		t.Errorf("Expected version 20250114, got %d", sch.Version)
	}

	if sch.Generator != "eeschema" {
		t.Errorf("Expected generator 'eeschema', got '%s'", sch.Generator)
	}

	if sch.GeneratorVer != "9.0" {
		t.Errorf("Expected generator version '9.0', got '%s'", sch.GeneratorVer)
	}

	if sch.Paper != "A4" {
		t.Errorf("Expected paper 'A4', got '%s'", sch.Paper)
	}

	if len(sch.SheetInstances) != 1 {
		t.Errorf("Expected 1 sheet instance, got %d", len(sch.SheetInstances))
	}
}

func TestParseSchematicWithSymbol(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(generator "eeschema")
		(uuid test-uuid)
		(paper "A4")
		(lib_symbols
			(symbol "Device:R"
				(property "Reference" "R" (at 0 0 0))
				(property "Value" "R" (at 0 0 0))
				(symbol "R_1_1"
					(pin passive line (at -2.54 0 0) (length 2.54)
						(name "1")
						(number "1")
					)
					(pin passive line (at 2.54 0 180) (length 2.54)
						(name "2")
						(number "2")
					)
				)
			)
		)
		(symbol (lib_id "Device:R")
			(at 100 50 0)
			(unit 1)
			(uuid sym-uuid-1)
			(property "Reference" "R1" (at 100 45 0))
			(property "Value" "10k" (at 100 55 0))
		)
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	if len(sch.LibSymbols) != 1 {
		t.Errorf("Expected 1 lib symbol, got %d", len(sch.LibSymbols))
	}

	symbols := ElementsOf[*Symbol](sch)
	if len(symbols) != 1 {
		t.Fatalf("Expected 1 symbol instance, got %d", len(symbols))
	}

	if symbols[0].LibID != "Device:R" {
		t.Errorf("Expected lib_id 'Device:R', got '%s'", symbols[0].LibID)
	}

	if !symbols[0].OnSchema {
		t.Error("Expected on_schematic to default to true")
	}

	lib, ok := sch.LibSymbol("Device:R")
	if !ok {
		t.Fatal("LibSymbol('Device:R') not found")
	}
	if len(lib.Units) != 1 || lib.Units[0].Number != 1 || len(lib.Units[0].Pins) != 2 {
		t.Errorf("Unexpected units %+v", lib.Units)
	}
	if lib.Units[0].Pins[1].Angle != 180 {
		t.Errorf("Expected pin angle 180 degrees, got %v", lib.Units[0].Pins[1].Angle)
	}

	// Test GetSymbol helper
	r1 := sch.GetSymbol("R1")
	if r1 == nil {
		t.Error("GetSymbol('R1') returned nil")
	}

	// Test GetAllReferences
	refs := sch.GetAllReferences()
	if len(refs) != 1 || refs[0] != "R1" {
		t.Errorf("Expected refs ['R1'], got %v", refs)
	}
}

func TestParseSchematicWithWires(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(generator "eeschema")
		(uuid test-uuid)
		(paper "A4")
		(lib_symbols)
		(wire (pts (xy 100 50) (xy 150 50))
			(stroke (width 0) (type default))
			(uuid wire-1)
		)
		(wire (pts (xy 150 50) (xy 150 100))
			(stroke (width 0) (type default))
			(uuid wire-2)
		)
		(junction (at 150 50) (diameter 0) (color 0 0 0 0)
			(uuid junc-1)
		)
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	wires := ElementsOf[*Wire](sch)
	if len(wires) != 2 {
		t.Errorf("Expected 2 wires, got %d", len(wires))
	}

	if len(ElementsOf[*Junction](sch)) != 1 {
		t.Errorf("Expected 1 junction, got %d", len(ElementsOf[*Junction](sch)))
	}

	if wires[1].Points[1] != (Position{X: 150, Y: 100}) {
		t.Errorf("Expected millimeter coordinates, got %v", wires[1].Points[1])
	}
}

func TestParseSchematicWithLabels(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(generator "eeschema")
		(uuid test-uuid)
		(paper "A4")
		(lib_symbols)
		(label "VCC" (at 100 50 0)
			(effects (font (size 1.27 1.27)))
			(uuid label-1)
		)
		(global_label "GND" (shape input) (at 100 100 0)
			(effects (font (size 1.27 1.27)))
			(uuid glabel-1)
		)
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	labels := ElementsOf[*Label](sch)
	if len(labels) != 1 {
		t.Fatalf("Expected 1 label, got %d", len(labels))
	}

	if labels[0].Text != "VCC" {
		t.Errorf("Expected label text 'VCC', got '%s'", labels[0].Text)
	}

	globals := ElementsOf[*GlobalLabel](sch)
	if len(globals) != 1 {
		t.Fatalf("Expected 1 global label, got %d", len(globals))
	}

	if globals[0].Text != "GND" || globals[0].Shape != "input" {
		t.Errorf("Expected input global label 'GND', got '%s' (%s)", globals[0].Text, globals[0].Shape)
	}

	// Test GetLabels helper
	if all := sch.GetLabels(); len(all) != 2 {
		t.Errorf("Expected 2 total labels, got %d", len(all))
	}
}

func TestParseInvalidRoot(t *testing.T) {
	input := `(kicad_pcb (version 20231120))`

	_, err := Parse(strings.NewReader(input))
	if err == nil {
		t.Error("Expected error for wrong root node type")
	}
}

func TestParseUnsupportedVersion(t *testing.T) {
	_, err := Parse(strings.NewReader(`(kicad_sch (version 20200101))`))
	if err == nil {
		t.Error("Expected error for KiCad 5 era version")
	}
}

func TestParseKeepsFileOrder(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(junction (at 1 1))
		(wire (pts (xy 0 0) (xy 1 1)))
		(text "note" (at 5 5 90) (effects (font (size 2 2))))
		(no_connect (at 3 3))
		(wire (pts (xy 1 1) (xy 2 2)))
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	if len(sch.Elements) != 5 {
		t.Fatalf("Expected 5 elements, got %d", len(sch.Elements))
	}
	if _, ok := sch.Elements[0].(*Junction); !ok {
		t.Errorf("Expected junction first, got %T", sch.Elements[0])
	}
	if _, ok := sch.Elements[1].(*Wire); !ok {
		t.Errorf("Expected wire second, got %T", sch.Elements[1])
	}
	txt, ok := sch.Elements[2].(*Text)
	if !ok {
		t.Fatalf("Expected text third, got %T", sch.Elements[2])
	}
	if txt.Angle != 90 {
		t.Errorf("Expected text angle 90, got %v", txt.Angle)
	}
	if _, ok := sch.Elements[3].(*NoConnect); !ok {
		t.Errorf("Expected no_connect fourth, got %T", sch.Elements[3])
	}
}

func TestParseMissingPositionReportsLine(t *testing.T) {
	input := "(kicad_sch (version 20231120)\n(junction (diameter 0)))"

	_, err := Parse(strings.NewReader(input))
	if err == nil {
		t.Fatal("Expected error for junction without position")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Expected line number in error, got %v", err)
	}
}

func TestParseLibSymbolFlags(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(lib_symbols
			(symbol "power:GND" (power) (pin_numbers (hide yes)) (pin_names (offset 0) hide)
				(symbol "GND_0_1"
					(polyline (pts (xy 0 0) (xy 0 -1.27)) (stroke (width 0) (type default)) (fill (type none)))
					(arc (start 0 0) (mid 1 1) (end 2 0) (fill (type background)))
				)
				(symbol "GND_1_1"
					(pin power_in line (at 0 0 270) (length 0) hide (name "GND") (number "1"))
				)
			)
		)
		(symbol (lib_id "power:GND") (at 10 20 0) (unit 1) (on_schematic no))
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	lib, ok := sch.LibSymbol("power:GND")
	if !ok {
		t.Fatal("Expected power:GND library symbol")
	}
	if !lib.Power {
		t.Error("Expected power flag")
	}
	if lib.PinNumbers || lib.PinNames {
		t.Errorf("Expected pin numbers and names hidden, got %v/%v", lib.PinNumbers, lib.PinNames)
	}
	if lib.PinNamesOffset != 0 {
		t.Errorf("Expected pin name offset 0, got %v", lib.PinNamesOffset)
	}
	if len(lib.Units) != 2 {
		t.Fatalf("Expected 2 units, got %d", len(lib.Units))
	}
	if lib.Units[0].Number != 0 || len(lib.Units[0].Graphics) != 2 {
		t.Errorf("Unexpected common unit %+v", lib.Units[0])
	}
	if arc, ok := lib.Units[0].Graphics[1].(*GraphicArc); !ok || arc.Fill.Type != "background" {
		t.Errorf("Expected background-filled arc, got %#v", lib.Units[0].Graphics[1])
	}
	if !lib.Units[1].Pins[0].Hide {
		t.Error("Expected hidden pin")
	}

	sym := ElementsOf[*Symbol](sch)[0]
	if sym.OnSchema {
		t.Error("Expected on_schematic no")
	}
}

func TestUnitSuffix(t *testing.T) {
	tests := []struct {
		name        string
		unit, style int
	}{
		{"R_0_1", 0, 1},
		{"Amp_Dual_2_1", 2, 1},
		{"Device:R_1_1", 1, 1},
		{"nosuffix", 0, 0},
	}
	for _, tt := range tests {
		unit, style := unitSuffix(tt.name)
		if unit != tt.unit || style != tt.style {
			t.Errorf("unitSuffix(%q) = %d,%d; expected %d,%d", tt.name, unit, style, tt.unit, tt.style)
		}
	}
}

func TestParseFile(t *testing.T) {
	sch, err := ParseFile("testdata/root.kicad_sch")
	if err != nil {
		t.Fatalf("Failed to parse test file: %v", err)
	}

	if sch.Version == 0 {
		t.Error("Version should not be 0")
	}

	if sch.Paper != "A4" {
		t.Errorf("Expected paper 'A4', got '%s'", sch.Paper)
	}

	if sch.TitleBlock.Title != "Root" {
		t.Errorf("Expected title 'Root', got '%s'", sch.TitleBlock.Title)
	}
}
