package sexp

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

func items(s kicadsexp.Sexp) []kicadsexp.Sexp {
	if list, ok := s.(*kicadsexp.List); ok {
		return list.Items()
	}
	return nil
}

// Children returns every element of a list, including the leading key.
func Children(s kicadsexp.Sexp) []kicadsexp.Sexp {
	return items(s)
}

// FindNode searches for a direct child list whose first symbol is key.
// Example: FindNode(sexp, "at") finds (at 100 50) in a list
func FindNode(s kicadsexp.Sexp, key string) (kicadsexp.Sexp, bool) {
	for _, item := range items(s) {
		if name, err := GetNodeName(item); err == nil && !item.IsLeaf() && name == key {
			return item, true
		}
	}
	return nil, false
}

// FindAllNodes finds all direct child lists with the given key
func FindAllNodes(s kicadsexp.Sexp, key string) []kicadsexp.Sexp {
	var results []kicadsexp.Sexp
	for _, item := range items(s) {
		if item.IsLeaf() {
			continue
		}
		if name, err := GetNodeName(item); err == nil && name == key {
			results = append(results, item)
		}
	}
	return results
}

// GetListItems returns all items in a list excluding the key
// Example: GetListItems((justify left top)) returns [left, top]
func GetListItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	all := items(s)
	if len(all) <= 1 {
		return nil
	}
	return all[1:]
}

// Typed value extraction helpers

// GetString extracts an atom at the given index in a list
// Index 0 is the key, 1 is first value, etc.
func GetString(s kicadsexp.Sexp, index int) (string, error) {
	if s.IsLeaf() {
		return "", fmt.Errorf("expected list, got leaf %q", s.String())
	}
	all := items(s)
	if index < 0 || index >= len(all) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(all))
	}
	sym, ok := all[index].(kicadsexp.Symbol)
	if !ok {
		return "", fmt.Errorf("expected symbol at index %d, got list", index)
	}
	return string(sym), nil
}

// GetFloat extracts a float64 value at the given index
func GetFloat(s kicadsexp.Sexp, index int) (float64, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}
	return val, nil
}

// GetInt extracts an int value at the given index
func GetInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}
	return val, nil
}

// GetNodeName returns the first symbol of a list (the node type/name)
func GetNodeName(s kicadsexp.Sexp) (string, error) {
	if s == nil {
		return "", fmt.Errorf("nil node")
	}
	if sym, ok := s.Head().(kicadsexp.Symbol); ok {
		return string(sym), nil
	}
	return "", fmt.Errorf("expected symbol at head of %s", s.String())
}

// HasSymbol checks if a list contains a specific bare symbol
func HasSymbol(s kicadsexp.Sexp, symbol string) bool {
	for _, item := range items(s) {
		if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == symbol {
			return true
		}
	}
	return false
}

// GetYesNo reads a (key yes|no) child, returning def when absent.
func GetYesNo(s kicadsexp.Sexp, key string, def bool) bool {
	node, ok := FindNode(s, key)
	if !ok {
		return def
	}
	val, err := GetString(node, 1)
	if err != nil {
		// a bare (key) means yes
		return true
	}
	return val == "yes"
}

// IsHidden handles both the KiCad 6 bare "hide" atom and the
// KiCad 8 (hide yes) child.
func IsHidden(s kicadsexp.Sexp) bool {
	return HasSymbol(s, "hide") || GetYesNo(s, "hide", false)
}

// Domain-specific extraction helpers

// GetPosition extracts a position from an (at X Y [angle]) node
func GetPosition(s kicadsexp.Sexp) (PositionAngle, error) {
	key, err := GetString(s, 0)
	if err != nil {
		return PositionAngle{}, err
	}
	if key != "at" {
		return PositionAngle{}, fmt.Errorf("expected 'at', got %q", key)
	}
	pos, err := GetPositionXY(s)
	if err != nil {
		return PositionAngle{}, err
	}
	result := PositionAngle{Position: pos}
	if s.LeafCount() > 3 {
		angle, err := GetFloat(s, 3)
		if err != nil {
			return PositionAngle{}, fmt.Errorf("failed to parse angle: %w", err)
		}
		result.Angle = Angle(angle)
	}
	return result, nil
}

// GetPositionXY extracts X,Y from nodes like (xy X Y), (start X Y), (center X Y)
func GetPositionXY(s kicadsexp.Sexp) (Position, error) {
	x, err := GetFloat(s, 1)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse X: %w", err)
	}
	y, err := GetFloat(s, 2)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse Y: %w", err)
	}
	return Position{X: x, Y: y}, nil
}

// GetSize extracts width and height from a (size W H) node
func GetSize(s kicadsexp.Sexp) (Size, error) {
	w, err := GetFloat(s, 1)
	if err != nil {
		return Size{}, fmt.Errorf("failed to parse width: %w", err)
	}
	h, err := GetFloat(s, 2)
	if err != nil {
		return Size{}, fmt.Errorf("failed to parse height: %w", err)
	}
	return Size{Width: w, Height: h}, nil
}

// GetPoints collects the (xy X Y) children of a (pts ...) child of s.
func GetPoints(s kicadsexp.Sexp) ([]Position, error) {
	ptsNode, ok := FindNode(s, "pts")
	if !ok {
		return nil, fmt.Errorf("missing pts")
	}
	var pts []Position
	for _, xy := range FindAllNodes(ptsNode, "xy") {
		pos, err := GetPositionXY(xy)
		if err != nil {
			return nil, err
		}
		pts = append(pts, pos)
	}
	return pts, nil
}

// GetStroke extracts stroke properties from a (stroke ...) node
// Format: (stroke (width W) (type default|solid|dash|dot) [(color R G B A)])
func GetStroke(s kicadsexp.Sexp) (Stroke, error) {
	stroke := Stroke{Type: "default"}
	if s.IsLeaf() {
		return stroke, fmt.Errorf("expected (stroke ...) list")
	}
	if widthNode, ok := FindNode(s, "width"); ok {
		width, err := GetFloat(widthNode, 1)
		if err != nil {
			return stroke, fmt.Errorf("failed to parse stroke width: %w", err)
		}
		stroke.Width = width
	}
	if typeNode, ok := FindNode(s, "type"); ok {
		if t, err := GetString(typeNode, 1); err == nil {
			stroke.Type = t
		}
	}
	if colorNode, ok := FindNode(s, "color"); ok {
		color, err := GetColor(colorNode)
		if err != nil {
			return stroke, err
		}
		stroke.Color = color
	}
	return stroke, nil
}

// GetFill extracts fill properties from a (fill ...) node
// Format: (fill (type none|outline|background|color) [(color R G B A)])
func GetFill(s kicadsexp.Sexp) (Fill, error) {
	fill := Fill{Type: "none"}
	if s.IsLeaf() {
		return fill, fmt.Errorf("expected (fill ...) list")
	}
	if typeNode, ok := FindNode(s, "type"); ok {
		if t, err := GetString(typeNode, 1); err == nil {
			fill.Type = t
		}
	}
	if colorNode, ok := FindNode(s, "color"); ok {
		color, err := GetColor(colorNode)
		if err != nil {
			return fill, err
		}
		fill.Color = color
	}
	return fill, nil
}

// GetColor extracts RGBA color from a (color R G B [A]) node.
// R, G and B are 0-255 in the file, alpha is already 0-1.
func GetColor(s kicadsexp.Sexp) (Color, error) {
	var rgb [3]float64
	for i := range rgb {
		v, err := GetFloat(s, i+1)
		if err != nil {
			return Color{}, fmt.Errorf("failed to parse color channel %d: %w", i, err)
		}
		rgb[i] = v / 255.0
	}
	color := Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 1}
	if s.LeafCount() > 4 {
		a, err := GetFloat(s, 4)
		if err != nil {
			return Color{}, fmt.Errorf("failed to parse alpha: %w", err)
		}
		color.A = a
	}
	return color, nil
}

// GetUUID extracts a UUID from a (uuid "...") node
func GetUUID(s kicadsexp.Sexp) (UUID, error) {
	key, err := GetString(s, 0)
	if err != nil || key != "uuid" {
		return "", fmt.Errorf("expected 'uuid' node")
	}
	id, err := GetString(s, 1)
	if err != nil {
		return "", err
	}
	return UUID(id), nil
}

// GetEffects extracts text effects from an (effects ...) node
func GetEffects(s kicadsexp.Sexp) (Effects, error) {
	effects := Effects{}
	if s.IsLeaf() {
		return effects, fmt.Errorf("expected (effects ...) list")
	}
	if fontNode, ok := FindNode(s, "font"); ok {
		font, err := GetFont(fontNode)
		if err != nil {
			return effects, err
		}
		effects.Font = font
	}
	if justifyNode, ok := FindNode(s, "justify"); ok {
		effects.Justify = GetJustify(justifyNode)
	}
	effects.Hide = IsHidden(s)
	return effects, nil
}

// GetFont extracts font properties from a (font ...) node
func GetFont(s kicadsexp.Sexp) (Font, error) {
	font := Font{}
	if sizeNode, ok := FindNode(s, "size"); ok {
		size, err := GetSize(sizeNode)
		if err != nil {
			return font, fmt.Errorf("failed to parse font size: %w", err)
		}
		font.Size = size
	}
	if thicknessNode, ok := FindNode(s, "thickness"); ok {
		font.Thickness, _ = GetFloat(thicknessNode, 1)
	}
	font.Bold = HasSymbol(s, "bold") || GetYesNo(s, "bold", false)
	font.Italic = HasSymbol(s, "italic") || GetYesNo(s, "italic", false)
	if faceNode, ok := FindNode(s, "face"); ok {
		font.Face, _ = GetString(faceNode, 1)
	}
	if colorNode, ok := FindNode(s, "color"); ok {
		color, err := GetColor(colorNode)
		if err != nil {
			return font, err
		}
		font.Color = color
	}
	return font, nil
}

// GetJustify extracts justification from a (justify ...) node
func GetJustify(s kicadsexp.Sexp) Justify {
	justify := Justify{
		Horizontal: "center",
		Vertical:   "center",
	}
	for _, item := range GetListItems(s) {
		sym, ok := item.(kicadsexp.Symbol)
		if !ok {
			continue
		}
		switch string(sym) {
		case "left", "right":
			justify.Horizontal = string(sym)
		case "top", "bottom":
			justify.Vertical = string(sym)
		case "mirror":
			justify.Mirror = true
		}
	}
	return justify
}

// GetProperty extracts a property from a (property ...) node
// Format: (property "key" "value" (at X Y angle) (effects ...))
func GetProperty(s kicadsexp.Sexp) (Property, error) {
	prop := Property{}
	key, err := GetString(s, 1)
	if err != nil {
		return prop, fmt.Errorf("failed to parse property key: %w", err)
	}
	prop.Key = key
	prop.Value, _ = GetString(s, 2)

	if idNode, ok := FindNode(s, "id"); ok {
		prop.ID, _ = GetInt(idNode, 1)
	}
	if atNode, ok := FindNode(s, "at"); ok {
		pos, err := GetPosition(atNode)
		if err != nil {
			return prop, fmt.Errorf("property %q: %w", key, err)
		}
		prop.Position = pos
	}
	if effectsNode, ok := FindNode(s, "effects"); ok {
		effects, err := GetEffects(effectsNode)
		if err != nil {
			return prop, fmt.Errorf("property %q: %w", key, err)
		}
		prop.Effects = effects
		prop.HasEffects = true
	}
	// KiCad 8 moved hide out of effects
	if IsHidden(s) {
		prop.Effects.Hide = true
	}
	return prop, nil
}
