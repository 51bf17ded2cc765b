// Package schematic provides parsing for KiCad schematic files (.kicad_sch)
package schematic

import (
	"github.com/OpenTraceLab/kiplot/pkg/kicad/sexp"
)

// Re-export shared types from sexp package for convenience
type Position = sexp.Position
type Angle = sexp.Angle
type PositionAngle = sexp.PositionAngle
type Size = sexp.Size
type Color = sexp.Color
type Stroke = sexp.Stroke
type Fill = sexp.Fill
type UUID = sexp.UUID
type Effects = sexp.Effects
type Font = sexp.Font
type Justify = sexp.Justify
type Property = sexp.Property

// Schematic represents a complete KiCad schematic file
type Schematic struct {
	Version        int             // File format version
	Generator      string          // Generator info (e.g., "eeschema")
	GeneratorVer   string          // Generator version
	UUID           UUID            // Schematic UUID
	Paper          string          // Paper size (e.g., "A4")
	TitleBlock     TitleBlock      // Title block information
	LibSymbols     []LibSymbol     // Embedded library symbols
	Elements       []Element       // Drawable elements in file order
	SheetInstances []SheetInstance // Sheet instance paths
}

// TitleBlock contains schematic title block information
type TitleBlock struct {
	Title    string
	Date     string
	Revision string
	Company  string
	Comments [4]string
}

// Element is one top-level drawable item of a schematic page. The set of
// implementations is closed.
type Element interface {
	isElement()
}

func (*Sheet) isElement()       {}
func (*Wire) isElement()        {}
func (*Bus) isElement()         {}
func (*Polyline) isElement()    {}
func (*BusEntry) isElement()    {}
func (*Text) isElement()        {}
func (*Label) isElement()       {}
func (*HierLabel) isElement()   {}
func (*GlobalLabel) isElement() {}
func (*NoConnect) isElement()   {}
func (*Junction) isElement()    {}
func (*Symbol) isElement()      {}
func (*Image) isElement()       {}

// LibSymbol represents an embedded library symbol definition
type LibSymbol struct {
	Name           string     // Symbol name (e.g., "Device:R")
	Extends        string     // Parent symbol for derived symbols
	Power          bool       // Power symbol flag
	PinNumbers     bool       // Show pin numbers
	PinNames       bool       // Show pin names
	PinNamesOffset float64    // Pin name offset from the pin end
	InBom          bool       // Include in BOM
	OnBoard        bool       // Place on board
	Properties     []Property // Symbol properties
	Units          []LibUnit  // Units, including the common unit 0
}

// LibUnit is one NAME_U_S sub-symbol of a library symbol.
type LibUnit struct {
	Name     string    // Unit name
	Number   int       // U from the name suffix, 0 is shared by all units
	Style    int       // S from the name suffix (body style)
	Graphics []Graphic // Unit graphics in file order
	Pins     []Pin     // Unit pins
}

// Graphic is one drawing primitive inside a library unit.
type Graphic interface {
	isGraphic()
}

func (*GraphicPolyline) isGraphic()  {}
func (*GraphicRectangle) isGraphic() {}
func (*GraphicCircle) isGraphic()    {}
func (*GraphicArc) isGraphic()       {}
func (*GraphicText) isGraphic()      {}

// GraphicPolyline is an open or closed polyline
type GraphicPolyline struct {
	Points []Position
	Stroke Stroke
	Fill   Fill
}

// GraphicRectangle is an axis-aligned rectangle given by two corners
type GraphicRectangle struct {
	Start  Position
	End    Position
	Stroke Stroke
	Fill   Fill
}

// GraphicCircle is a circle
type GraphicCircle struct {
	Center Position
	Radius float64
	Stroke Stroke
	Fill   Fill
}

// GraphicArc is a three-point arc
type GraphicArc struct {
	Start  Position
	Mid    Position
	End    Position
	Stroke Stroke
	Fill   Fill
}

// GraphicText is body text of a symbol
type GraphicText struct {
	Text     string
	Position PositionAngle
	Effects  Effects
}

// Pin represents a symbol pin
type Pin struct {
	Type      string   // Pin type (input, output, bidirectional, etc.)
	Style     string   // Pin style (line, inverted, clock, etc.)
	Position  Position // Pin position
	Angle     Angle    // Pin angle (0, 90, 180, 270)
	Length    float64  // Pin length
	Name      PinName  // Pin name
	Number    PinNum   // Pin number
	Hide      bool     // Hidden pin
	Alternate []AltPin // Alternate pin functions
}

// PinName contains pin name information
type PinName struct {
	Name    string
	Effects Effects
}

// PinNum contains pin number information
type PinNum struct {
	Number  string
	Effects Effects
}

// AltPin represents an alternate pin function
type AltPin struct {
	Name  string
	Type  string
	Style string
}

// Symbol represents a symbol instance placed on the schematic
type Symbol struct {
	LibID      string     // Library identifier (e.g., "Device:R")
	Position   Position   // Position on schematic
	Angle      Angle      // Rotation angle
	Mirror     string     // Mirror mode (x, y, or empty)
	Unit       int        // Unit number (for multi-unit symbols)
	InBom      bool       // Include in BOM
	OnBoard    bool       // Place on board
	OnSchema   bool       // Drawn on the schematic
	DNP        bool       // Do not populate
	UUID       UUID       // Instance UUID
	Properties []Property // Instance properties (Reference, Value, etc.)
	Pins       []PinRef   // Pin references
}

// Property returns the instance property with the given key.
func (s *Symbol) Property(key string) (Property, bool) {
	return findProperty(s.Properties, key)
}

// Reference returns the reference designator, or "" if unset.
func (s *Symbol) Reference() string {
	p, _ := s.Property("Reference")
	return p.Value
}

// Value returns the Value property, or "" if unset.
func (s *Symbol) Value() string {
	p, _ := s.Property("Value")
	return p.Value
}

// PinRef represents a pin reference in a symbol instance
type PinRef struct {
	Number string // Pin number
	UUID   UUID   // Pin UUID
}

// Wire represents a wire connection
type Wire struct {
	Points []Position // Wire points (at least 2)
	Stroke Stroke     // Wire stroke style
	UUID   UUID       // Wire UUID
}

// Bus represents a bus connection
type Bus struct {
	Points []Position // Bus points
	Stroke Stroke     // Bus stroke style
	UUID   UUID       // Bus UUID
}

// Polyline represents a graphical polyline
type Polyline struct {
	Points []Position
	Stroke Stroke
	UUID   UUID
}

// BusEntry represents a bus entry point
type BusEntry struct {
	Position Position // Entry position
	Size     Size     // Entry size
	Stroke   Stroke   // Entry stroke
	UUID     UUID     // Entry UUID
}

// Junction represents a wire junction
type Junction struct {
	Position Position // Junction position
	Diameter float64  // Junction diameter
	Color    Color    // Junction color
	UUID     UUID     // Junction UUID
}

// NoConnect represents a no-connect marker
type NoConnect struct {
	Position Position // Marker position
	UUID     UUID     // Marker UUID
}

// Text represents graphical text on the schematic
type Text struct {
	Text     string
	Position Position
	Angle    Angle
	Effects  Effects
	UUID     UUID
}

// Label represents a local wire label
type Label struct {
	Text     string   // Label text
	Position Position // Label position
	Angle    Angle    // Label rotation
	Effects  Effects  // Text effects
	UUID     UUID     // Label UUID
}

// GlobalLabel represents a global label (visible across sheets)
type GlobalLabel struct {
	Text       string     // Label text
	Shape      string     // Label shape (input, output, bidirectional, etc.)
	Position   Position   // Label position
	Angle      Angle      // Label rotation
	Effects    Effects    // Text effects
	UUID       UUID       // Label UUID
	Properties []Property // Label properties
}

// HierLabel represents a hierarchical label (connects to sheet pins)
type HierLabel struct {
	Text     string   // Label text
	Shape    string   // Label shape
	Position Position // Label position
	Angle    Angle    // Label rotation
	Effects  Effects  // Text effects
	UUID     UUID     // Label UUID
}

// Sheet represents a hierarchical sheet reference
type Sheet struct {
	Position   Position   // Sheet position
	Size       Size       // Sheet size
	Stroke     Stroke     // Border stroke
	Fill       Fill       // Background fill
	UUID       UUID       // Sheet UUID
	Pins       []SheetPin // Hierarchical pins
	Properties []Property // All sheet properties, name and file included
}

// NameProperty returns the sheet name property. KiCad 6 writes
// "Sheet name", KiCad 7 and later write "Sheetname".
func (s *Sheet) NameProperty() (Property, bool) {
	if p, ok := findProperty(s.Properties, "Sheetname"); ok {
		return p, true
	}
	return findProperty(s.Properties, "Sheet name")
}

// FileName returns the file the sheet refers to, or "" if unset.
func (s *Sheet) FileName() string {
	if p, ok := findProperty(s.Properties, "Sheetfile"); ok {
		return p.Value
	}
	p, _ := findProperty(s.Properties, "Sheet file")
	return p.Value
}

// SheetPin represents a hierarchical pin on a sheet
type SheetPin struct {
	Name     string   // Pin name
	Shape    string   // Pin shape
	Position Position // Pin position
	Angle    Angle    // Pin side angle
	Effects  Effects  // Text effects
	UUID     UUID     // Pin UUID
}

// SheetInstance represents a sheet instance path
type SheetInstance struct {
	Path string // Instance path
	Page string // Page number
}

// Image represents an embedded image
type Image struct {
	Position Position
	Scale    float64
	UUID     UUID
	Data     string // Base64 encoded image data
}

func findProperty(props []Property, key string) (Property, bool) {
	for _, p := range props {
		if p.Key == key {
			return p, true
		}
	}
	return Property{}, false
}

// ElementsOf returns the elements of type T in file order.
//
//	wires := schematic.ElementsOf[*schematic.Wire](sch)
func ElementsOf[T Element](s *Schematic) []T {
	var out []T
	for _, e := range s.Elements {
		if t, ok := e.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// LibSymbol resolves an embedded library symbol by lib_id.
func (s *Schematic) LibSymbol(id string) (*LibSymbol, bool) {
	for i := range s.LibSymbols {
		if s.LibSymbols[i].Name == id {
			return &s.LibSymbols[i], true
		}
	}
	return nil, false
}

// GetSymbol returns a symbol by reference designator
func (s *Schematic) GetSymbol(ref string) *Symbol {
	for _, sym := range ElementsOf[*Symbol](s) {
		if sym.Reference() == ref {
			return sym
		}
	}
	return nil
}

// GetSymbolsByLib returns all symbols with the given library ID
func (s *Schematic) GetSymbolsByLib(libID string) []*Symbol {
	var result []*Symbol
	for _, sym := range ElementsOf[*Symbol](s) {
		if sym.LibID == libID {
			result = append(result, sym)
		}
	}
	return result
}

// GetAllReferences returns all reference designators
func (s *Schematic) GetAllReferences() []string {
	var refs []string
	for _, sym := range ElementsOf[*Symbol](s) {
		if ref := sym.Reference(); ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

// GetLabels returns all label names (local + global + hierarchical)
func (s *Schematic) GetLabels() []string {
	seen := make(map[string]bool)
	var labels []string
	add := func(text string) {
		if !seen[text] {
			seen[text] = true
			labels = append(labels, text)
		}
	}

	for _, e := range s.Elements {
		switch l := e.(type) {
		case *Label:
			add(l.Text)
		case *GlobalLabel:
			add(l.Text)
		case *HierLabel:
			add(l.Text)
		}
	}

	return labels
}
