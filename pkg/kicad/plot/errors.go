package plot

import (
	"errors"
	"fmt"
)

var (
	// ErrThemeNotFound is matched by every *ThemeError.
	ErrThemeNotFound = errors.New("plot: theme item not found")
	// ErrUnsupportedFormat is matched by every *UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("plot: unsupported output format")
)

// DocumentError reports a required document value that is missing or
// cannot be resolved.
type DocumentError struct {
	Op  string
	Err error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("plot: %s: %v", e.Op, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// ThemeError reports a role the theme does not define.
type ThemeError struct {
	Theme string
	Kind  string // "stroke" or "effects"
	Role  string
}

func (e *ThemeError) Error() string {
	return fmt.Sprintf("plot: theme %q has no %s for %q", e.Theme, e.Kind, e.Role)
}

func (e *ThemeError) Is(target error) bool { return target == ErrThemeNotFound }

// GeometryError reports a pin orientation that cannot be classified.
type GeometryError struct {
	PinAngle    float64
	SymbolAngle float64
	Mirror      string
	Msg         string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("plot: pin at %g° on symbol at %g° (mirror %q): %s",
		e.PinAngle, e.SymbolAngle, e.Mirror, e.Msg)
}

// IOError wraps a surface, stream or file failure.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("plot: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// UnsupportedFormatError reports an output format that is unknown or
// not implemented.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("plot: unsupported output format %q (must be svg, png or pdf; pdf is not implemented)", e.Format)
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrUnsupportedFormat }
