package schematic

import (
	"strings"
	"testing"
)

func TestNetlistNamesFromLabels(t *testing.T) {
	doc, err := LoadDocument("testdata/root.kicad_sch")
	if err != nil {
		t.Fatalf("Failed to load document: %v", err)
	}
	nl := NewNetlist(doc)

	root := nl.Page(0)
	// R1 pin 1 sits on the labelled wire end
	if name, ok := root.NodeName(Position{X: 63.5, Y: 40.64}); !ok || name != "SIG" {
		t.Errorf("Expected SIG at R1 pin 1, got %q (%v)", name, ok)
	}
	if name, ok := root.NodeName(Position{X: 63.5, Y: 48.26}); !ok || name != "Net-1" {
		t.Errorf("Expected Net-1 at R1 pin 2, got %q (%v)", name, ok)
	}
	if _, ok := root.NodeName(Position{X: 0, Y: 0}); ok {
		t.Error("Expected no net at the origin")
	}

	child := nl.Page(1)
	if name, ok := child.NodeName(Position{X: 30, Y: 20}); !ok || name != "SIG" {
		t.Errorf("Expected SIG at far end of child wire, got %q (%v)", name, ok)
	}

	if nl.Page(5) != nil {
		t.Error("Expected nil lookup for missing page")
	}
	if _, ok := nl.Page(5).NodeName(Position{}); ok {
		t.Error("Expected nil lookup to find nothing")
	}
}

func TestNetlistTConnectionAndPower(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(lib_symbols
			(symbol "power:GND" (power)
				(symbol "GND_1_1"
					(pin power_in line (at 0 0 270) (length 0) hide (name "GND") (number "1"))
				)
			)
		)
		(wire (pts (xy 0 0) (xy 20 0)))
		(wire (pts (xy 10 0) (xy 10 10)))
		(label "MID" (at 20 0 0))
		(symbol (lib_id "power:GND") (at 10 10 0) (unit 1)
			(property "Value" "GND" (at 10 12 0))
		)
		(wire (pts (xy 50 50) (xy 60 50)))
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}
	nets := NewNetlist(NewDocument(sch)).Page(0)

	// the T joins both wires; the power symbol outranks the local label
	for _, p := range []Position{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 10, Y: 10}} {
		if name, _ := nets.NodeName(p); name != "GND" {
			t.Errorf("Expected GND at %+v, got %q", p, name)
		}
	}
	if name, _ := nets.NodeName(Position{X: 55.00001, Y: 50}); name != "" {
		t.Errorf("Expected no node mid-segment, got %q", name)
	}
	if name, _ := nets.NodeName(Position{X: 60, Y: 50}); name != "Net-1" {
		t.Errorf("Expected Net-1 for the isolated wire, got %q", name)
	}

	got := nets.Nets()
	if len(got) != 2 || got[0] != "GND" || got[1] != "Net-1" {
		t.Errorf("Unexpected nets %v", got)
	}
}
