package schematic

import "strings"

// paperSizes holds landscape dimensions in mm.
var paperSizes = map[string]Size{
	"A5":       {Width: 210, Height: 148},
	"A4":       {Width: 297, Height: 210},
	"A3":       {Width: 420, Height: 297},
	"A2":       {Width: 594, Height: 420},
	"A1":       {Width: 841, Height: 594},
	"A0":       {Width: 1189, Height: 841},
	"A":        {Width: 279.4, Height: 215.9},
	"B":        {Width: 431.8, Height: 279.4},
	"C":        {Width: 558.8, Height: 431.8},
	"D":        {Width: 863.6, Height: 558.8},
	"E":        {Width: 1117.6, Height: 863.6},
	"USLetter": {Width: 279.4, Height: 215.9},
	"USLegal":  {Width: 355.6, Height: 215.9},
	"USLedger": {Width: 431.8, Height: 279.4},
}

// PaperSize returns the page size in mm for a KiCad paper name such as
// "A4" or "A3 portrait". Unknown names fall back to A4 landscape.
func PaperSize(name string) Size {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return paperSizes["A4"]
	}
	size, ok := paperSizes[fields[0]]
	if !ok {
		return paperSizes["A4"]
	}
	if strings.HasSuffix(name, "portrait") {
		size.Width, size.Height = size.Height, size.Width
	}
	return size
}
