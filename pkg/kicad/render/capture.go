package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/plot"
	"github.com/OpenTraceLab/kiplot/pkg/kicad/schematic"
)

// capture renders one page into a fresh temp file, closes it, reads it
// back and removes it.
func capture(doc *schematic.Document, pageIndex int, opts Options, nets *schematic.Netlist) ([]byte, error) {
	dir := opts.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	name := filepath.Join(dir, "kiplot-"+ulid.Make().String()+opts.Format.Ext())

	f, err := os.Create(name)
	if err != nil {
		return nil, &plot.IOError{Op: "create temp file", Err: err}
	}
	defer os.Remove(name)

	err = render(doc, pageIndex, opts, nets, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = &plot.IOError{Op: "close temp file", Err: cerr}
	}
	if err != nil {
		return nil, err
	}

	f, err = os.Open(name)
	if err != nil {
		return nil, &plot.IOError{Op: "reopen temp file", Err: err}
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &plot.IOError{Op: "read temp file", Err: err}
	}
	return data, nil
}

func netlistFor(doc *schematic.Document, opts Options) *schematic.Netlist {
	if !opts.Netlist {
		return nil
	}
	return schematic.NewNetlist(doc)
}

// RenderToCallback renders every page in order and passes each page's
// bytes to fn. Rendering stops at the first error.
func RenderToCallback(doc *schematic.Document, opts Options, fn func(page int, data []byte) error) error {
	if err := opts.Format.Supported(); err != nil {
		return err
	}
	nets := netlistFor(doc, opts)
	for i := range doc.Pages {
		data, err := capture(doc, i, opts, nets)
		if err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
		if err := fn(i, data); err != nil {
			return err
		}
	}
	return nil
}

// RenderToMemory renders every page and appends the results to store, or
// to the process-wide store when store is nil.
func RenderToMemory(doc *schematic.Document, opts Options, store *Store) error {
	if store == nil {
		store = defaultStore
	}
	return RenderToCallback(doc, opts, func(_ int, data []byte) error {
		store.Append(data)
		return nil
	})
}

// PagePath returns the output file of page i: base itself for the first
// page, <stem>-<i><ext> for the others.
func PagePath(base string, i int) string {
	if i == 0 {
		return base
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(base, ext), i, ext)
}

// RenderToFiles writes every page next to path, creating missing parent
// directories, and returns the files written.
func RenderToFiles(doc *schematic.Document, opts Options, path string) ([]string, error) {
	if err := opts.Format.Supported(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &plot.IOError{Op: "create output directory", Err: err}
	}

	nets := netlistFor(doc, opts)
	var written []string
	for i := range doc.Pages {
		name := PagePath(path, i)
		if err := renderFile(doc, i, opts, nets, name); err != nil {
			return written, fmt.Errorf("page %d: %w", i, err)
		}
		written = append(written, name)
	}
	return written, nil
}

func renderFile(doc *schematic.Document, pageIndex int, opts Options, nets *schematic.Netlist, name string) error {
	f, err := os.Create(name)
	if err != nil {
		return &plot.IOError{Op: "create output file", Err: err}
	}
	err = render(doc, pageIndex, opts, nets, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = &plot.IOError{Op: "close output file", Err: cerr}
	}
	return err
}

// RenderPages renders all pages with at most workers pages in flight and
// returns them in page order. The document and theme are only read.
func RenderPages(ctx context.Context, doc *schematic.Document, opts Options, workers int) ([][]byte, error) {
	if err := opts.Format.Supported(); err != nil {
		return nil, err
	}
	nets := netlistFor(doc, opts)
	out := make([][]byte, len(doc.Pages))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range doc.Pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := capture(doc, i, opts, nets)
			if err != nil {
				return fmt.Errorf("page %d: %w", i, err)
			}
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
