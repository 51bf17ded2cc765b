package plot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Theme files adjust a built-in theme role by role:
//
//	// comments run to the end of the line
//	wire     { width = 0.3; color = #008400FF; type = "dash" }
//	pin_name { size = 1.0; font = "Go"; justify = left top; hide = false }
//	fill     { background = #FFFFFFFF }
//
// Stroke keys are width, type and color; effects keys are size, font,
// color, justify and hide. color applies to both presets of a role.
// Blocks may name new roles. The "fill" block sets the background fill.

var themeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Color", Pattern: `#[0-9A-Fa-f]{6}(?:[0-9A-Fa-f]{2})?`},
	{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[{};=]`},
})

type themeFile struct {
	Blocks []*themeBlock `@@*`
}

type themeBlock struct {
	Pos     lexer.Position
	Role    string        `@Ident "{"`
	Entries []*themeEntry `@@* "}"`
}

type themeEntry struct {
	Pos   lexer.Position
	Key   string      `@Ident "="`
	Value *themeValue `@@ ";"?`
}

type themeValue struct {
	Color  *string  `  @Color`
	Number *float64 `| @Number`
	String *string  `| @String`
	Words  []string `| @Ident+`
}

var themeParser = participle.MustBuild[themeFile](
	participle.Lexer(themeLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
)

// LoadThemeFile reads a theme file and applies it to a copy of base.
// The new theme is named after the file.
func LoadThemeFile(path string, base *Theme) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open theme file: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseTheme(f, name, base)
}

// ParseTheme parses theme file syntax from r and applies it to a copy of
// base. base itself is left untouched.
func ParseTheme(r io.Reader, name string, base *Theme) (*Theme, error) {
	file, err := themeParser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse theme %s: %w", name, err)
	}

	t := base.clone(name)
	for _, block := range file.Blocks {
		if err := t.applyBlock(block); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Theme) applyBlock(b *themeBlock) error {
	if b.Role == "fill" {
		for _, e := range b.Entries {
			if e.Key != "background" {
				return fmt.Errorf("%s: unknown fill key %q", e.Pos, e.Key)
			}
			c, err := e.Value.color(e)
			if err != nil {
				return err
			}
			t.background = c
		}
		return nil
	}

	stroke, hasStroke := t.strokes[b.Role]
	effects, hasEffects := t.effects[b.Role]
	if !hasStroke {
		stroke = Stroke{Width: 0.1524, LineType: "default", Cap: CapButt, Color: rgb(0, 0, 0)}
	}
	if !hasEffects {
		effects = Effects{Font: DefaultFont, FontSize: 1.27, Color: rgb(0, 0, 0), Align: AlignCenter}
	}

	var (
		color                    *Color
		touchStroke, touchEffect bool
	)
	for _, e := range b.Entries {
		var err error
		switch e.Key {
		case "width":
			stroke.Width, err = e.Value.number(e)
			touchStroke = true
		case "type":
			stroke.LineType, err = e.Value.text(e)
			touchStroke = true
		case "size":
			effects.FontSize, err = e.Value.number(e)
			touchEffect = true
		case "font":
			effects.Font, err = e.Value.text(e)
			touchEffect = true
		case "justify":
			effects.Align, err = e.Value.align(e)
			touchEffect = true
		case "hide":
			effects.Hide, err = e.Value.boolean(e)
			touchEffect = true
		case "color":
			var c Color
			c, err = e.Value.color(e)
			color = &c
		default:
			return fmt.Errorf("%s: unknown key %q in role %q", e.Pos, e.Key, b.Role)
		}
		if err != nil {
			return err
		}
	}

	keepStroke := hasStroke || touchStroke
	keepEffects := hasEffects || touchEffect
	if color != nil {
		if !keepStroke && !keepEffects {
			return fmt.Errorf("%s: new role %q needs more than a color", b.Pos, b.Role)
		}
		stroke.Color = *color
		effects.Color = *color
	}
	if keepStroke {
		t.strokes[b.Role] = stroke
	}
	if keepEffects {
		t.effects[b.Role] = effects
	}
	return nil
}

func (v *themeValue) number(e *themeEntry) (float64, error) {
	if v.Number == nil {
		return 0, fmt.Errorf("%s: %s expects a number", e.Pos, e.Key)
	}
	return *v.Number, nil
}

func (v *themeValue) text(e *themeEntry) (string, error) {
	switch {
	case v.String != nil:
		return *v.String, nil
	case len(v.Words) == 1:
		return v.Words[0], nil
	}
	return "", fmt.Errorf("%s: %s expects a string", e.Pos, e.Key)
}

func (v *themeValue) boolean(e *themeEntry) (bool, error) {
	if len(v.Words) == 1 {
		switch v.Words[0] {
		case "true", "yes":
			return true, nil
		case "false", "no":
			return false, nil
		}
	}
	return false, fmt.Errorf("%s: %s expects true or false", e.Pos, e.Key)
}

func (v *themeValue) align(e *themeEntry) (Align, error) {
	if len(v.Words) == 0 {
		return 0, fmt.Errorf("%s: %s expects alignment words", e.Pos, e.Key)
	}
	a := ParseAlign(v.Words...)
	if a == 0 || strings.Count(a.String(), " ")+1 != len(v.Words) {
		return 0, fmt.Errorf("%s: unknown alignment in %q", e.Pos, strings.Join(v.Words, " "))
	}
	return a, nil
}

func (v *themeValue) color(e *themeEntry) (Color, error) {
	if v.Color == nil {
		return Color{}, fmt.Errorf("%s: %s expects #RRGGBB or #RRGGBBAA", e.Pos, e.Key)
	}
	hex := strings.TrimPrefix(*v.Color, "#")
	if len(hex) == 6 {
		hex += "FF"
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%s: bad color %q: %w", e.Pos, *v.Color, err)
	}
	return Color{
		R: float64(n>>24&0xFF) / 255,
		G: float64(n>>16&0xFF) / 255,
		B: float64(n>>8&0xFF) / 255,
		A: float64(n&0xFF) / 255,
	}, nil
}
