package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/canvas"
	"github.com/OpenTraceLab/kiplot/pkg/kicad/plot"
	"github.com/OpenTraceLab/kiplot/pkg/kicad/render"
	"github.com/OpenTraceLab/kiplot/pkg/kicad/schematic"
)

var schCmd = &cobra.Command{
	Use:   "sch",
	Short: "KiCad schematic file operations",
	Long:  `Commands for working with KiCad schematic files (.kicad_sch)`,
}

var schInfoCmd = &cobra.Command{
	Use:   "info <schematic_file> [component]",
	Short: "Show schematic information",
	Long: `Display information about a KiCad schematic file and its sheets.

Without component argument: shows a summary of every page
With component argument: shows details for that specific component`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSchInfo,
}

var schRenderCmd = &cobra.Command{
	Use:   "render <schematic_file>",
	Short: "Plot schematic pages to SVG or PNG",
	Long: `Plot a schematic and all its sheets.

Page 0 is written to the output path, page i to <name>-i.<ext>.
Without --border each page is cropped to its drawing plus a 2.54 mm margin.`,
	Args: cobra.ExactArgs(1),
	RunE: runSchRender,
}

var schSizeCmd = &cobra.Command{
	Use:   "size <schematic_file>",
	Short: "Print page sizes without drawing",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchSize,
}

// Render flags
var (
	renderOutput    string
	renderTheme     string
	renderThemeFile string
	renderBorder    bool
	renderScale     float64
	renderFormat    string
	renderNetlist   bool
	renderPage      int
	renderWorkers   int
)

func init() {
	rootCmd.AddCommand(schCmd)
	schCmd.AddCommand(schInfoCmd)
	schCmd.AddCommand(schRenderCmd)
	schCmd.AddCommand(schSizeCmd)

	addStyleFlags(schRenderCmd)
	schRenderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (default <input>.<format>)")
	schRenderCmd.Flags().StringVar(&renderFormat, "format", cfg.Format, "output format: svg or png")
	schRenderCmd.Flags().BoolVar(&renderNetlist, "netlist", false, "annotate pins with net names")
	schRenderCmd.Flags().IntVar(&renderPage, "page", -1, "render only this page (0 is the root sheet)")
	schRenderCmd.Flags().IntVar(&renderWorkers, "workers", cfg.Workers, "pages rendered in parallel")

	schSizeCmd.Flags().BoolVar(&renderBorder, "border", cfg.Border, "use the full paper")
	schSizeCmd.Flags().Float64Var(&renderScale, "scale", cfg.Scale, "output scale for cropped pages")
}

func addStyleFlags(c *cobra.Command) {
	c.Flags().StringVar(&renderTheme, "theme", cfg.Theme, "built-in theme: kicad_2000 or mono")
	c.Flags().StringVar(&renderThemeFile, "theme-file", "", "theme file applied on top of --theme")
	c.Flags().BoolVar(&renderBorder, "border", cfg.Border, "draw the full paper with frame and title block")
	c.Flags().Float64Var(&renderScale, "scale", cfg.Scale, "output scale for cropped pages")
}

func loadDocument(filename string) (*schematic.Document, error) {
	doc, err := schematic.LoadDocument(filename)
	if err != nil {
		return nil, fmt.Errorf("error loading schematic: %w", err)
	}
	return doc, nil
}

// renderOptions builds render options from the flags.
func renderOptions(format render.Format) (render.Options, error) {
	opts := render.Options{
		Theme:   renderTheme,
		Border:  renderBorder,
		Scale:   renderScale,
		Format:  format,
		Netlist: renderNetlist,
		TempDir: cfg.TempDir,
	}
	if cfg.FontDir != "" {
		opts.Fonts = canvas.NewFonts(cfg.FontDir)
	}
	if renderThemeFile != "" {
		base, err := plot.LookupTheme(renderTheme)
		if err != nil {
			return opts, err
		}
		custom, err := plot.LoadThemeFile(renderThemeFile, base)
		if err != nil {
			return opts, err
		}
		opts.CustomTheme = custom
	}
	return opts, nil
}

func runSchRender(cmd *cobra.Command, args []string) error {
	filename := args[0]

	// An output extension picks the format unless --format is given.
	name := renderFormat
	if ext := filepath.Ext(renderOutput); ext != "" && !cmd.Flags().Changed("format") {
		name = ext
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		return err
	}
	if err := format.Supported(); err != nil {
		return err
	}
	opts, err := renderOptions(format)
	if err != nil {
		return err
	}

	output := renderOutput
	if output == "" {
		output = strings.TrimSuffix(filename, filepath.Ext(filename)) + format.Ext()
	}

	doc, err := loadDocument(filename)
	if err != nil {
		return err
	}

	var written []string
	switch {
	case renderPage >= 0:
		if err := writePage(doc, renderPage, opts, output); err != nil {
			return err
		}
		written = []string{output}
	case renderWorkers > 1 && len(doc.Pages) > 1:
		written, err = writeParallel(cmd.Context(), doc, opts, output)
	default:
		written, err = render.RenderToFiles(doc, opts, output)
	}
	if err != nil {
		return err
	}

	for _, w := range written {
		fmt.Printf("✓ Wrote %s\n", w)
	}
	return nil
}

func writePage(doc *schematic.Document, page int, opts render.Options, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := render.Render(doc, page, opts, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeParallel(ctx context.Context, doc *schematic.Document, opts render.Options, output string) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	pages, err := render.RenderPages(ctx, doc, opts, renderWorkers)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	var written []string
	for i, data := range pages {
		name := render.PagePath(output, i)
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", name, err)
		}
		written = append(written, name)
	}
	return written, nil
}

func runSchSize(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	opts, err := renderOptions(render.FormatSVG)
	if err != nil {
		return err
	}

	fmt.Printf("%-4s %-30s %10s %10s\n", "Page", "Sheet", "Width mm", "Height mm")
	for i, page := range doc.Pages {
		size, err := render.Size(doc, i, opts)
		if err != nil {
			return err
		}
		fmt.Printf("%-4d %-30s %10.2f %10.2f\n", i, page.SheetPath, size.Width, size.Height)
	}
	return nil
}

func runSchInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]
	doc, err := loadDocument(filename)
	if err != nil {
		return err
	}

	if len(args) >= 2 {
		// Show details for specific component
		for _, page := range doc.Pages {
			if page.Schematic.GetSymbol(args[1]) != nil {
				return showComponentDetails(page.Schematic, args[1])
			}
		}
		return fmt.Errorf("component '%s' not found", args[1])
	}

	nets := schematic.NewNetlist(doc)
	for i, page := range doc.Pages {
		showSchemSummary(page, nets.Page(i))
	}
	return nil
}

func showSchemSummary(page *schematic.Page, nets *schematic.PageNets) {
	sch := page.Schematic
	fmt.Printf("Schematic: %s (%s)\n", page.Path, page.SheetPath)
	fmt.Printf("Version: %d\n", sch.Version)
	fmt.Printf("Generator: %s", sch.Generator)
	if sch.GeneratorVer != "" {
		fmt.Printf(" v%s", sch.GeneratorVer)
	}
	fmt.Println()
	fmt.Printf("Paper: %s\n", page.Paper())
	fmt.Println()

	// Title block
	if sch.TitleBlock.Title != "" || sch.TitleBlock.Revision != "" {
		fmt.Println("Title Block:")
		if sch.TitleBlock.Title != "" {
			fmt.Printf("  Title: %s\n", sch.TitleBlock.Title)
		}
		if sch.TitleBlock.Date != "" {
			fmt.Printf("  Date: %s\n", sch.TitleBlock.Date)
		}
		if sch.TitleBlock.Revision != "" {
			fmt.Printf("  Revision: %s\n", sch.TitleBlock.Revision)
		}
		if sch.TitleBlock.Company != "" {
			fmt.Printf("  Company: %s\n", sch.TitleBlock.Company)
		}
		fmt.Println()
	}

	symbols := schematic.ElementsOf[*schematic.Symbol](sch)
	sheets := schematic.ElementsOf[*schematic.Sheet](sch)

	// Statistics
	fmt.Println("Statistics:")
	fmt.Printf("  Components: %d\n", len(symbols))
	fmt.Printf("  Library symbols: %d\n", len(sch.LibSymbols))
	fmt.Printf("  Wires: %d\n", len(schematic.ElementsOf[*schematic.Wire](sch)))
	fmt.Printf("  Buses: %d\n", len(schematic.ElementsOf[*schematic.Bus](sch)))
	fmt.Printf("  Junctions: %d\n", len(schematic.ElementsOf[*schematic.Junction](sch)))
	fmt.Printf("  Labels: %d\n", len(schematic.ElementsOf[*schematic.Label](sch)))
	fmt.Printf("  Global labels: %d\n", len(schematic.ElementsOf[*schematic.GlobalLabel](sch)))
	fmt.Printf("  Hierarchical labels: %d\n", len(schematic.ElementsOf[*schematic.HierLabel](sch)))
	fmt.Printf("  Sheets: %d\n", len(sheets))
	fmt.Printf("  No-connects: %d\n", len(schematic.ElementsOf[*schematic.NoConnect](sch)))
	fmt.Println()

	// Component list
	if len(symbols) > 0 {
		fmt.Println("Components:")

		// Group by reference prefix
		byPrefix := make(map[string][]string)
		for _, sym := range symbols {
			if ref := sym.Reference(); ref != "" {
				prefix := getRefPrefix(ref)
				byPrefix[prefix] = append(byPrefix[prefix], ref)
			}
		}

		// Sort prefixes
		var prefixes []string
		for p := range byPrefix {
			prefixes = append(prefixes, p)
		}
		sort.Strings(prefixes)

		for _, prefix := range prefixes {
			refs := byPrefix[prefix]
			sort.Strings(refs)
			fmt.Printf("  %s: %s\n", prefix, strings.Join(refs, ", "))
		}
		fmt.Println()
	}

	if names := nets.Nets(); len(names) > 0 {
		fmt.Println("Nets:")
		for _, n := range names {
			fmt.Printf("  %s\n", n)
		}
		fmt.Println()
	}

	// Hierarchical sheets
	if len(sheets) > 0 {
		fmt.Println("Hierarchical Sheets:")
		for _, sheet := range sheets {
			name, _ := sheet.NameProperty()
			fmt.Printf("  %s (%s)\n", name.Value, sheet.FileName())
			if len(sheet.Pins) > 0 {
				var pinNames []string
				for _, p := range sheet.Pins {
					pinNames = append(pinNames, p.Name)
				}
				fmt.Printf("    Pins: %s\n", strings.Join(pinNames, ", "))
			}
		}
		fmt.Println()
	}
}

func showComponentDetails(sch *schematic.Schematic, ref string) error {
	sym := sch.GetSymbol(ref)
	if sym == nil {
		return fmt.Errorf("component '%s' not found", ref)
	}

	fmt.Printf("Component: %s\n", ref)
	fmt.Printf("Library: %s\n", sym.LibID)
	fmt.Printf("Position: (%.2f, %.2f)\n", sym.Position.X, sym.Position.Y)
	if sym.Angle != 0 {
		fmt.Printf("Rotation: %.1f°\n", float64(sym.Angle))
	}
	if sym.Mirror != "" {
		fmt.Printf("Mirror: %s\n", sym.Mirror)
	}
	fmt.Printf("Unit: %d\n", sym.Unit)
	fmt.Println()

	// Properties
	if len(sym.Properties) > 0 {
		fmt.Println("Properties:")
		for _, prop := range sym.Properties {
			fmt.Printf("  %s: %s\n", prop.Key, prop.Value)
		}
		fmt.Println()
	}

	lib, ok := sch.LibSymbol(sym.LibID)
	if !ok {
		fmt.Println("Library symbol: missing")
		return nil
	}
	fmt.Println("Pins:")
	for _, unit := range lib.Units {
		if unit.Number != 0 && unit.Number != sym.Unit {
			continue
		}
		for _, pin := range unit.Pins {
			fmt.Printf("  %s (%s): %s %s\n", pin.Number.Number, pin.Name.Name, pin.Type, pin.Style)
		}
	}
	return nil
}

func getRefPrefix(ref string) string {
	// Extract prefix (letters before numbers)
	for i, c := range ref {
		if c >= '0' && c <= '9' {
			return ref[:i]
		}
	}
	return ref
}
