package schematic

import (
	"strings"
	"testing"
)

func TestLoadDocumentHierarchy(t *testing.T) {
	doc, err := LoadDocument("testdata/root.kicad_sch")
	if err != nil {
		t.Fatalf("Failed to load document: %v", err)
	}

	if len(doc.Pages) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(doc.Pages))
	}
	if doc.Pages[0].SheetPath != "/" {
		t.Errorf("Expected root sheet path '/', got '%s'", doc.Pages[0].SheetPath)
	}
	if doc.Pages[1].SheetPath != "/Child" {
		t.Errorf("Expected child sheet path '/Child', got '%s'", doc.Pages[1].SheetPath)
	}
	if doc.Pages[1].Paper() != "A5" {
		t.Errorf("Expected child paper A5, got '%s'", doc.Pages[1].Paper())
	}
	if doc.Pages[1].Schematic.TitleBlock.Title != "Child" {
		t.Errorf("Expected child title block, got %+v", doc.Pages[1].Schematic.TitleBlock)
	}

	if _, err := doc.Page(2); err == nil {
		t.Error("Expected out of range error for page 2")
	}
}

func TestLoadDocumentRejectsCycles(t *testing.T) {
	_, err := LoadDocument("testdata/cycle_a.kicad_sch")
	if err == nil {
		t.Fatal("Expected error for cyclic sheets")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("Expected cycle error, got %v", err)
	}
}

func TestPaperSize(t *testing.T) {
	tests := []struct {
		name string
		want Size
	}{
		{"A4", Size{Width: 297, Height: 210}},
		{"A3", Size{Width: 420, Height: 297}},
		{"A4 portrait", Size{Width: 210, Height: 297}},
		{"USLetter", Size{Width: 279.4, Height: 215.9}},
		{"User", Size{Width: 297, Height: 210}},
		{"", Size{Width: 297, Height: 210}},
	}
	for _, tt := range tests {
		if got := PaperSize(tt.name); got != tt.want {
			t.Errorf("PaperSize(%q) = %+v, expected %+v", tt.name, got, tt.want)
		}
	}
}

func TestPlacementApply(t *testing.T) {
	lib := Position{X: 1, Y: 2}
	tests := []struct {
		name string
		pl   Placement
		want Position
	}{
		{"identity", Placement{}, Position{X: 1, Y: -2}},
		{"translate", Placement{Origin: Position{X: 10, Y: 10}}, Position{X: 11, Y: 8}},
		{"rotate 90", Placement{Angle: 90}, Position{X: -2, Y: -1}},
		{"rotate 180", Placement{Angle: 180}, Position{X: -1, Y: 2}},
		{"mirror x", Placement{Mirror: "x"}, Position{X: 1, Y: 2}},
		{"mirror y", Placement{Mirror: "y"}, Position{X: -1, Y: -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pl.Apply(lib); got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
