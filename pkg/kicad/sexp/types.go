// Package sexp provides shared S-expression value types and navigation
// helpers for KiCad schematic files. Schematic coordinates are millimeters
// and angles are degrees; nothing here converts units.
package sexp

import (
	"fmt"
	"math"
)

// Position represents a 2D coordinate in millimeters
type Position struct {
	X float64
	Y float64
}

// Add returns p + o.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// Angle represents rotation in degrees
type Angle float64

// PositionAngle combines position with rotation
type PositionAngle struct {
	Position
	Angle Angle
}

// Size represents dimensions
type Size struct {
	Width  float64 // Width in mm
	Height float64 // Height in mm
}

// Color represents RGBA color
type Color struct {
	R, G, B, A float64 // Color components (0.0-1.0)
}

// IsZero reports whether all channels are zero. KiCad writes
// (color 0 0 0 0) to mean "use the default".
func (c Color) IsZero() bool {
	return c == Color{}
}

// Hex formats the color as #RRGGBBAA, rounding each channel to the
// nearest of 256 steps.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B), channel(c.A))
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Stroke defines line/outline appearance as written in the file.
// Width 0, type "default" and a zero color mean "inherit".
type Stroke struct {
	Width float64 // Line width in mm
	Type  string  // Line type (default, solid, dash, dot, ...)
	Color Color   // Line color
}

// Fill defines area fill
type Fill struct {
	Type  string // none, outline, background, color
	Color Color  // Fill color when Type is "color"
}

// BoundingBox represents a rectangular boundary
type BoundingBox struct {
	Min Position // Minimum (top-left) corner
	Max Position // Maximum (bottom-right) corner
}

// NewBoundingBox creates an empty bounding box
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Position{X: math.Inf(1), Y: math.Inf(1)},
		Max: Position{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// Intersects checks if two bounding boxes intersect
func (bb BoundingBox) Intersects(other BoundingBox) bool {
	return bb.Min.X <= other.Max.X && bb.Max.X >= other.Min.X &&
		bb.Min.Y <= other.Max.Y && bb.Max.Y >= other.Min.Y
}

// Contains checks if a position is within the bounding box
func (bb BoundingBox) Contains(pos Position) bool {
	return pos.X >= bb.Min.X && pos.X <= bb.Max.X &&
		pos.Y >= bb.Min.Y && pos.Y <= bb.Max.Y
}

// IsEmpty checks if the bounding box is empty
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Expand expands the bounding box to include a position
func (bb *BoundingBox) Expand(pos Position) {
	bb.Min.X = math.Min(bb.Min.X, pos.X)
	bb.Min.Y = math.Min(bb.Min.Y, pos.Y)
	bb.Max.X = math.Max(bb.Max.X, pos.X)
	bb.Max.Y = math.Max(bb.Max.Y, pos.Y)
}

// ExpandBox expands to include another bounding box
func (bb *BoundingBox) ExpandBox(other BoundingBox) {
	if !other.IsEmpty() {
		bb.Expand(other.Min)
		bb.Expand(other.Max)
	}
}

// Grow returns the box enlarged by margin on every side.
func (bb BoundingBox) Grow(margin float64) BoundingBox {
	return BoundingBox{
		Min: Position{X: bb.Min.X - margin, Y: bb.Min.Y - margin},
		Max: Position{X: bb.Max.X + margin, Y: bb.Max.Y + margin},
	}
}

// Width returns the width of the bounding box
func (bb BoundingBox) Width() float64 {
	return bb.Max.X - bb.Min.X
}

// Height returns the height of the bounding box
func (bb BoundingBox) Height() float64 {
	return bb.Max.Y - bb.Min.Y
}

// Center returns the center point of the bounding box
func (bb BoundingBox) Center() Position {
	return Position{
		X: (bb.Min.X + bb.Max.X) / 2.0,
		Y: (bb.Min.Y + bb.Max.Y) / 2.0,
	}
}

// UUID represents a unique identifier (used in KiCad v6+ files)
type UUID string

// Effects represents text effects (font, justification, etc.)
type Effects struct {
	Font    Font
	Justify Justify
	Hide    bool
}

// Font represents font properties
type Font struct {
	Face      string  // Font face name (optional)
	Size      Size    // Font size, zero when absent
	Thickness float64 // Line thickness for stroke fonts
	Bold      bool
	Italic    bool
	Color     Color // zero when absent
}

// Justify represents text justification. Both fields are empty when
// the effects carried no justify node.
type Justify struct {
	Horizontal string // left, center, right
	Vertical   string // top, center, bottom
	Mirror     bool
}

// IsSet reports whether a justify node was present.
func (j Justify) IsSet() bool {
	return j.Horizontal != "" || j.Vertical != ""
}

// Words returns the justification as KiCad keywords, omitting center.
func (j Justify) Words() []string {
	var words []string
	if j.Horizontal != "" && j.Horizontal != "center" {
		words = append(words, j.Horizontal)
	}
	if j.Vertical != "" && j.Vertical != "center" {
		words = append(words, j.Vertical)
	}
	if len(words) == 0 && j.IsSet() {
		words = append(words, "center")
	}
	return words
}

// Property represents a key-value property on a symbol or sheet
type Property struct {
	Key        string
	Value      string
	ID         int
	Position   PositionAngle
	Effects    Effects
	HasEffects bool // false when the property carried no effects node
}
