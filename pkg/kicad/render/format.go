package render

import (
	"strings"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/plot"
)

// Format is an output image format.
type Format int

const (
	FormatSVG Format = iota
	FormatPNG
	FormatPDF // recognized but not implemented
)

func (f Format) String() string {
	switch f {
	case FormatSVG:
		return "svg"
	case FormatPNG:
		return "png"
	case FormatPDF:
		return "pdf"
	}
	return "unknown"
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + f.String() }

// ParseFormat maps a format name, case-insensitively, to a Format. The
// empty name means svg.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "", "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	case "pdf":
		return FormatPDF, nil
	}
	return 0, &plot.UnsupportedFormatError{Format: name}
}

// Supported reports an error for formats that cannot be written.
func (f Format) Supported() error {
	switch f {
	case FormatSVG, FormatPNG:
		return nil
	}
	return &plot.UnsupportedFormatError{Format: f.String()}
}
