package schematic

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Page is one loaded schematic file within a hierarchy.
type Page struct {
	Path      string     // File path the page was loaded from
	SheetPath string     // Hierarchical path of sheet names, "/" for the root
	Schematic *Schematic // Parsed contents
}

// Paper returns the page's paper name, "A4" when the file names none.
func (p *Page) Paper() string {
	if p.Schematic.Paper == "" {
		return "A4"
	}
	return p.Schematic.Paper
}

// Document is an ordered set of pages: the root file first, then every
// sub-sheet depth first in file order.
type Document struct {
	Pages []*Page
}

// Page returns the page at index i.
func (d *Document) Page(i int) (*Page, error) {
	if i < 0 || i >= len(d.Pages) {
		return nil, fmt.Errorf("page %d out of range (document has %d)", i, len(d.Pages))
	}
	return d.Pages[i], nil
}

// NewDocument wraps an already parsed schematic as a single-page document.
func NewDocument(sch *Schematic) *Document {
	return &Document{Pages: []*Page{{SheetPath: "/", Schematic: sch}}}
}

// LoadDocument loads a root schematic and all sheets it references.
// Sheet files are resolved relative to the file that references them.
// A sheet that (directly or indirectly) includes itself is an error.
func LoadDocument(path string) (*Document, error) {
	doc := &Document{}
	if err := doc.load(path, "/", nil); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) load(path, sheetPath string, stack []string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	for _, p := range stack {
		if p == abs {
			return fmt.Errorf("sheet cycle: %s includes itself via %s", path, strings.Join(append(stack, abs), " -> "))
		}
	}

	sch, err := ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	d.Pages = append(d.Pages, &Page{Path: path, SheetPath: sheetPath, Schematic: sch})

	stack = append(stack, abs)
	dir := filepath.Dir(path)
	for _, sheet := range ElementsOf[*Sheet](sch) {
		file := sheet.FileName()
		if file == "" {
			continue
		}
		name := file
		if p, ok := sheet.NameProperty(); ok {
			name = p.Value
		}
		child := strings.TrimSuffix(sheetPath, "/") + "/" + name
		if err := d.load(filepath.Join(dir, file), child, stack); err != nil {
			return err
		}
	}
	return nil
}
