package plot

import (
	"sort"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/sexp"
)

// Effects is a fully resolved text style.
type Effects struct {
	Font     string
	FontSize float64
	Color    Color
	Align    Align
	Hide     bool
}

// Theme is a named set of stroke and text presets keyed by role, such as
// "wire" or "pin_name". A Theme is never modified once built.
type Theme struct {
	name       string
	strokes    map[string]Stroke
	effects    map[string]Effects
	background Color // fill for KiCad "background" fills
}

// Name returns the theme name.
func (t *Theme) Name() string { return t.name }

// Stroke returns the stroke preset for role.
func (t *Theme) Stroke(role string) (Stroke, error) {
	s, ok := t.strokes[role]
	if !ok {
		return Stroke{}, &ThemeError{Theme: t.name, Kind: "stroke", Role: role}
	}
	return s, nil
}

// Effects returns the text preset for role.
func (t *Theme) Effects(role string) (Effects, error) {
	e, ok := t.effects[role]
	if !ok {
		return Effects{}, &ThemeError{Theme: t.name, Kind: "effects", Role: role}
	}
	return e, nil
}

// FillColor maps a KiCad fill type to a color. "none" and unknown types
// give nil, "outline" uses the symbol stroke color and "background" the
// theme background.
func (t *Theme) FillColor(fillType string) *Color {
	switch fillType {
	case "outline":
		if s, ok := t.strokes["symbol"]; ok {
			c := s.Color
			return &c
		}
	case "background":
		c := t.background
		return &c
	}
	return nil
}

// Roles returns every role with a stroke or effects preset, sorted.
func (t *Theme) Roles() []string {
	seen := make(map[string]bool)
	var roles []string
	for r := range t.strokes {
		if !seen[r] {
			seen[r] = true
			roles = append(roles, r)
		}
	}
	for r := range t.effects {
		if !seen[r] {
			seen[r] = true
			roles = append(roles, r)
		}
	}
	sort.Strings(roles)
	return roles
}

func (t *Theme) clone(name string) *Theme {
	c := &Theme{
		name:       name,
		strokes:    make(map[string]Stroke, len(t.strokes)),
		effects:    make(map[string]Effects, len(t.effects)),
		background: t.background,
	}
	for k, v := range t.strokes {
		c.strokes[k] = v
	}
	for k, v := range t.effects {
		c.effects[k] = v
	}
	return c
}

// StrokeOverride holds the stroke fields an element sets explicitly.
// Nil fields inherit from the theme.
type StrokeOverride struct {
	Width    *float64
	LineType *string
	Color    *Color
}

// EffectsOverride holds the text fields an element sets explicitly.
// Nil fields inherit from the theme.
type EffectsOverride struct {
	Font     *string
	FontSize *float64
	Color    *Color
	Align    *Align
	Hide     *bool
}

// MergeStroke applies o on top of def. A nil override returns def.
func MergeStroke(o *StrokeOverride, def Stroke) Stroke {
	if o == nil {
		return def
	}
	if o.Width != nil {
		def.Width = *o.Width
	}
	if o.LineType != nil {
		def.LineType = *o.LineType
	}
	if o.Color != nil {
		def.Color = *o.Color
	}
	return def
}

// MergeEffects applies o on top of def. A nil override returns def.
func MergeEffects(o *EffectsOverride, def Effects) Effects {
	if o == nil {
		return def
	}
	if o.Font != nil {
		def.Font = *o.Font
	}
	if o.FontSize != nil {
		def.FontSize = *o.FontSize
	}
	if o.Color != nil {
		def.Color = *o.Color
	}
	if o.Align != nil {
		def.Align = *o.Align
	}
	if o.Hide != nil {
		def.Hide = *o.Hide
	}
	return def
}

// StrokeOverrideOf converts a document stroke. Width 0, type "default"
// and a zero color count as unset; nil is returned when nothing is set.
func StrokeOverrideOf(s sexp.Stroke) *StrokeOverride {
	o := &StrokeOverride{}
	set := false
	if s.Width > 0 {
		w := s.Width
		o.Width = &w
		set = true
	}
	if s.Type != "" && s.Type != "default" {
		t := s.Type
		o.LineType = &t
		set = true
	}
	if !s.Color.IsZero() {
		c := s.Color
		o.Color = &c
		set = true
	}
	if !set {
		return nil
	}
	return o
}

// EffectsOverrideOf converts document text effects. Absent face, size,
// color and justify count as unset; hide is set only when true.
func EffectsOverrideOf(e sexp.Effects) *EffectsOverride {
	o := &EffectsOverride{}
	set := false
	if e.Font.Face != "" {
		f := e.Font.Face
		o.Font = &f
		set = true
	}
	if e.Font.Size.Height > 0 {
		s := e.Font.Size.Height
		o.FontSize = &s
		set = true
	}
	if !e.Font.Color.IsZero() {
		c := e.Font.Color
		o.Color = &c
		set = true
	}
	if e.Justify.IsSet() {
		a := ParseAlign(e.Justify.Words()...)
		o.Align = &a
		set = true
	}
	if e.Hide {
		h := true
		o.Hide = &h
		set = true
	}
	if !set {
		return nil
	}
	return o
}
