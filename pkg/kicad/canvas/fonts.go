package canvas

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// FallbackFamily is used for any family that cannot be resolved.
const FallbackFamily = "Go"

var builtinFonts = map[string][]byte{
	"Go":        goregular.TTF,
	"Go Medium": gomedium.TTF,
	"Go Bold":   gobold.TTF,
	"Go Italic": goitalic.TTF,
	"Go Mono":   gomono.TTF,
	// KiCad's own stroke font has no outline form
	"KiCad Font": goregular.TTF,
}

// Fonts resolves family names to parsed font sources and caches them. A
// family is looked up among the bundled Go fonts, then as <dir>/<family>.ttf
// or .otf. Anything else falls back to FallbackFamily with a warning.
//
// Fonts is safe for concurrent use.
type Fonts struct {
	dir string

	mu      sync.Mutex
	sources map[string]*text.FontSource
}

// NewFonts returns a font book that also searches dir. dir may be empty.
func NewFonts(dir string) *Fonts {
	return &Fonts{dir: dir, sources: make(map[string]*text.FontSource)}
}

var defaultFonts = NewFonts("")

// DefaultFonts returns the shared book of bundled fonts.
func DefaultFonts() *Fonts { return defaultFonts }

// Source returns the font source for family.
func (f *Fonts) Source(family string) (*text.FontSource, error) {
	if family == "" {
		family = FallbackFamily
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if src, ok := f.sources[family]; ok {
		return src, nil
	}

	src, err := f.load(family)
	if err != nil {
		if family == FallbackFamily {
			return nil, err
		}
		Logger().Warn("font not found, using fallback", "family", family, "fallback", FallbackFamily, "error", err)
		if src = f.sources[FallbackFamily]; src == nil {
			if src, err = f.load(FallbackFamily); err != nil {
				return nil, err
			}
			f.sources[FallbackFamily] = src
		}
	}
	f.sources[family] = src
	return src, nil
}

func (f *Fonts) load(family string) (*text.FontSource, error) {
	if data, ok := builtinFonts[family]; ok {
		src, err := text.NewFontSource(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse bundled font %q: %w", family, err)
		}
		return src, nil
	}
	if f.dir == "" {
		return nil, fmt.Errorf("no font named %q", family)
	}
	for _, ext := range []string{".ttf", ".otf"} {
		path := filepath.Join(f.dir, family+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return text.NewFontSourceFromFile(path)
	}
	return nil, fmt.Errorf("no font named %q in %s", family, f.dir)
}

// Face returns family at size user units per em.
func (f *Fonts) Face(family string, size float64) (text.Face, error) {
	src, err := f.Source(family)
	if err != nil {
		return nil, err
	}
	return src.Face(size), nil
}

// measureSize is the em size metrics are taken at. Faces are hinted to
// whole pixels, so millimetre sized faces would measure badly.
const measureSize = 256.0

// Measure returns the advance width and line height of s.
func (f *Fonts) Measure(s, family string, size float64) (w, h float64) {
	face, err := f.Face(family, measureSize)
	if err != nil {
		Logger().Warn("cannot measure text", "family", family, "error", err)
		return 0, 0
	}
	w, h = text.Measure(s, face)
	k := size / measureSize
	return w * k, h * k
}

// Ascent returns the distance from the top of a line to its baseline.
func (f *Fonts) Ascent(family string, size float64) float64 {
	face, err := f.Face(family, measureSize)
	if err != nil {
		return size
	}
	return face.Metrics().Ascent * size / measureSize
}
