package schematic

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/sexp"
	"github.com/OpenTraceLab/kiplot/pkg/kicad/sexp/kicadsexp"
)

// Minimum supported KiCad version for schematics (6.0 = 20211014)
const MinSupportedVersion = 20211014

// defaultPinNamesOffset is the KiCad default when pin_names carries no offset.
const defaultPinNamesOffset = 0.508

// ParseFile reads and parses a KiCad schematic file
func ParseFile(filename string) (*Schematic, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads and parses a KiCad schematic from an io.Reader
func Parse(r io.Reader) (*Schematic, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}

	if len(sexps) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	// The root should be a (kicad_sch ...) expression
	root := sexps[0]
	rootName, err := sexp.GetNodeName(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get root node name: %w", err)
	}
	if rootName != "kicad_sch" {
		return nil, fmt.Errorf("not a KiCad schematic file: expected 'kicad_sch', got '%s'", rootName)
	}

	sch := &Schematic{}
	if err := parseHeader(root, sch); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	for _, node := range sexp.GetListItems(root) {
		if node.IsLeaf() {
			continue
		}
		name, err := sexp.GetNodeName(node)
		if err != nil {
			continue
		}
		if err := parseTopLevel(sch, name, node); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse %s: %w", lineOf(node), name, err)
		}
	}

	return sch, nil
}

func lineOf(node kicadsexp.Sexp) int {
	if l, ok := node.(*kicadsexp.List); ok {
		return l.Line()
	}
	return 0
}

// parseTopLevel dispatches one child of kicad_sch. Drawable elements are
// appended to sch.Elements so file order is preserved.
func parseTopLevel(sch *Schematic, name string, node kicadsexp.Sexp) error {
	var (
		elem Element
		err  error
	)
	switch name {
	case "uuid":
		sch.UUID, err = sexp.GetUUID(node)
		return err
	case "paper":
		sch.Paper, err = sexp.GetString(node, 1)
		if err == nil && sexp.HasSymbol(node, "portrait") {
			sch.Paper += " portrait"
		}
		return err
	case "title_block":
		sch.TitleBlock = parseTitleBlock(node)
		return nil
	case "lib_symbols":
		sch.LibSymbols, err = parseLibSymbols(node)
		return err
	case "sheet_instances":
		sch.SheetInstances = parseSheetInstances(node)
		return nil
	case "symbol":
		elem, err = parseSymbol(node)
	case "wire":
		elem, err = parseWire(node)
	case "bus":
		elem, err = parseBus(node)
	case "polyline":
		elem, err = parsePolyline(node)
	case "bus_entry":
		elem, err = parseBusEntry(node)
	case "junction":
		elem, err = parseJunction(node)
	case "no_connect":
		elem, err = parseNoConnect(node)
	case "text":
		elem, err = parseText(node)
	case "label":
		elem, err = parseLabel(node)
	case "global_label":
		elem, err = parseGlobalLabel(node)
	case "hierarchical_label":
		elem, err = parseHierLabel(node)
	case "sheet":
		elem, err = parseSheet(node)
	case "image":
		elem, err = parseImage(node)
	default:
		// version, generator, symbol_instances, bus_alias, ...
		return nil
	}
	if err != nil {
		return err
	}
	sch.Elements = append(sch.Elements, elem)
	return nil
}

// parseHeader extracts version and generator information
func parseHeader(root kicadsexp.Sexp, sch *Schematic) error {
	versionNode, found := sexp.FindNode(root, "version")
	if !found {
		return fmt.Errorf("missing required 'version' field")
	}

	ver, err := sexp.GetInt(versionNode, 1)
	if err != nil {
		return fmt.Errorf("failed to parse version: %w", err)
	}

	if ver < MinSupportedVersion {
		return fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", ver, MinSupportedVersion)
	}
	sch.Version = ver

	if genNode, found := sexp.FindNode(root, "generator"); found {
		sch.Generator, _ = sexp.GetString(genNode, 1)
	}
	if genVerNode, found := sexp.FindNode(root, "generator_version"); found {
		sch.GeneratorVer, _ = sexp.GetString(genVerNode, 1)
	}

	return nil
}

// parseTitleBlock extracts title block information
func parseTitleBlock(node kicadsexp.Sexp) TitleBlock {
	tb := TitleBlock{}

	if titleNode, found := sexp.FindNode(node, "title"); found {
		tb.Title, _ = sexp.GetString(titleNode, 1)
	}
	if dateNode, found := sexp.FindNode(node, "date"); found {
		tb.Date, _ = sexp.GetString(dateNode, 1)
	}
	if revNode, found := sexp.FindNode(node, "rev"); found {
		tb.Revision, _ = sexp.GetString(revNode, 1)
	}
	if companyNode, found := sexp.FindNode(node, "company"); found {
		tb.Company, _ = sexp.GetString(companyNode, 1)
	}
	for _, cn := range sexp.FindAllNodes(node, "comment") {
		num, err := sexp.GetInt(cn, 1)
		if err != nil || num < 1 || num > len(tb.Comments) {
			continue
		}
		tb.Comments[num-1], _ = sexp.GetString(cn, 2)
	}

	return tb
}

// parseLibSymbols parses embedded library symbols
func parseLibSymbols(node kicadsexp.Sexp) ([]LibSymbol, error) {
	symbolNodes := sexp.FindAllNodes(node, "symbol")
	symbols := make([]LibSymbol, 0, len(symbolNodes))

	for _, symNode := range symbolNodes {
		sym, err := parseLibSymbol(symNode)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, sym)
	}

	return symbols, nil
}

// parseLibSymbol parses a single library symbol definition
func parseLibSymbol(node kicadsexp.Sexp) (LibSymbol, error) {
	sym := LibSymbol{
		InBom:          true,
		OnBoard:        true,
		PinNumbers:     true,
		PinNames:       true,
		PinNamesOffset: defaultPinNamesOffset,
	}

	name, err := sexp.GetString(node, 1)
	if err != nil {
		return sym, fmt.Errorf("library symbol without a name: %w", err)
	}
	sym.Name = name

	if _, found := sexp.FindNode(node, "power"); found {
		sym.Power = true
	}
	if extNode, found := sexp.FindNode(node, "extends"); found {
		sym.Extends, _ = sexp.GetString(extNode, 1)
	}

	for _, pn := range sexp.FindAllNodes(node, "property") {
		prop, err := sexp.GetProperty(pn)
		if err != nil {
			return sym, fmt.Errorf("symbol %q: %w", name, err)
		}
		sym.Properties = append(sym.Properties, prop)
	}

	if pnNode, found := sexp.FindNode(node, "pin_numbers"); found {
		sym.PinNumbers = !sexp.IsHidden(pnNode)
	}
	if pnNode, found := sexp.FindNode(node, "pin_names"); found {
		sym.PinNames = !sexp.IsHidden(pnNode)
		if offNode, found := sexp.FindNode(pnNode, "offset"); found {
			sym.PinNamesOffset, _ = sexp.GetFloat(offNode, 1)
		}
	}
	sym.InBom = sexp.GetYesNo(node, "in_bom", true)
	sym.OnBoard = sexp.GetYesNo(node, "on_board", true)

	// Nested symbol units carry the actual graphics and pins
	for _, unitNode := range sexp.FindAllNodes(node, "symbol") {
		unit, err := parseLibUnit(unitNode)
		if err != nil {
			return sym, fmt.Errorf("symbol %q: %w", name, err)
		}
		sym.Units = append(sym.Units, unit)
	}

	return sym, nil
}

// unitSuffix splits "Device:R_1_1" into unit 1 and body style 1.
func unitSuffix(name string) (unit, style int) {
	i := strings.LastIndexByte(name, '_')
	if i < 0 {
		return 0, 0
	}
	style, err := strconv.Atoi(name[i+1:])
	if err != nil {
		return 0, 0
	}
	j := strings.LastIndexByte(name[:i], '_')
	if j < 0 {
		return 0, style
	}
	unit, err = strconv.Atoi(name[j+1 : i])
	if err != nil {
		return 0, style
	}
	return unit, style
}

// parseLibUnit parses a nested symbol unit (contains graphics and pins)
func parseLibUnit(node kicadsexp.Sexp) (LibUnit, error) {
	unit := LibUnit{}
	unit.Name, _ = sexp.GetString(node, 1)
	unit.Number, unit.Style = unitSuffix(unit.Name)

	for _, child := range sexp.GetListItems(node) {
		name, err := sexp.GetNodeName(child)
		if err != nil || child.IsLeaf() {
			continue
		}
		var g Graphic
		switch name {
		case "polyline":
			g, err = parseGraphicPolyline(child)
		case "rectangle":
			g, err = parseRectangle(child)
		case "circle":
			g, err = parseCircle(child)
		case "arc":
			g, err = parseArc(child)
		case "text":
			g, err = parseGraphicText(child)
		case "pin":
			var pin Pin
			pin, err = parsePin(child)
			if err != nil {
				return unit, fmt.Errorf("unit %q: %w", unit.Name, err)
			}
			unit.Pins = append(unit.Pins, pin)
			continue
		default:
			continue
		}
		if err != nil {
			return unit, fmt.Errorf("unit %q: %s: %w", unit.Name, name, err)
		}
		unit.Graphics = append(unit.Graphics, g)
	}

	return unit, nil
}

// parsePin parses a pin definition
func parsePin(node kicadsexp.Sexp) (Pin, error) {
	pin := Pin{}
	pin.Type, _ = sexp.GetString(node, 1)
	pin.Style, _ = sexp.GetString(node, 2)

	pos, err := requirePosition(node)
	if err != nil {
		return pin, fmt.Errorf("pin: %w", err)
	}
	pin.Position = pos.Position
	pin.Angle = pos.Angle

	if lenNode, found := sexp.FindNode(node, "length"); found {
		pin.Length, _ = sexp.GetFloat(lenNode, 1)
	}
	if nameNode, found := sexp.FindNode(node, "name"); found {
		pin.Name.Name, _ = sexp.GetString(nameNode, 1)
		pin.Name.Effects = optionalEffects(nameNode)
	}
	if numNode, found := sexp.FindNode(node, "number"); found {
		pin.Number.Number, _ = sexp.GetString(numNode, 1)
		pin.Number.Effects = optionalEffects(numNode)
	}
	for _, alt := range sexp.FindAllNodes(node, "alternate") {
		a := AltPin{}
		a.Name, _ = sexp.GetString(alt, 1)
		a.Type, _ = sexp.GetString(alt, 2)
		a.Style, _ = sexp.GetString(alt, 3)
		pin.Alternate = append(pin.Alternate, a)
	}
	pin.Hide = sexp.IsHidden(node)

	return pin, nil
}

// parseSymbol parses a single symbol instance
func parseSymbol(node kicadsexp.Sexp) (*Symbol, error) {
	sym := &Symbol{Unit: 1}

	libNode, found := sexp.FindNode(node, "lib_id")
	if !found {
		return nil, fmt.Errorf("missing lib_id")
	}
	sym.LibID, _ = sexp.GetString(libNode, 1)

	pos, err := requirePosition(node)
	if err != nil {
		return nil, err
	}
	sym.Position = pos.Position
	sym.Angle = pos.Angle

	if mirrorNode, found := sexp.FindNode(node, "mirror"); found {
		sym.Mirror, _ = sexp.GetString(mirrorNode, 1)
	}
	if unitNode, found := sexp.FindNode(node, "unit"); found {
		sym.Unit, _ = sexp.GetInt(unitNode, 1)
	}
	sym.InBom = sexp.GetYesNo(node, "in_bom", true)
	sym.OnBoard = sexp.GetYesNo(node, "on_board", true)
	sym.OnSchema = sexp.GetYesNo(node, "on_schematic", true)
	sym.DNP = sexp.GetYesNo(node, "dnp", false)
	if uuidNode, found := sexp.FindNode(node, "uuid"); found {
		sym.UUID, _ = sexp.GetUUID(uuidNode)
	}

	for _, pn := range sexp.FindAllNodes(node, "property") {
		prop, err := sexp.GetProperty(pn)
		if err != nil {
			return nil, err
		}
		sym.Properties = append(sym.Properties, prop)
	}

	for _, pn := range sexp.FindAllNodes(node, "pin") {
		ref := PinRef{}
		ref.Number, _ = sexp.GetString(pn, 1)
		if uuidNode, found := sexp.FindNode(pn, "uuid"); found {
			ref.UUID, _ = sexp.GetUUID(uuidNode)
		}
		sym.Pins = append(sym.Pins, ref)
	}

	return sym, nil
}

func requirePosition(node kicadsexp.Sexp) (PositionAngle, error) {
	atNode, found := sexp.FindNode(node, "at")
	if !found {
		return PositionAngle{}, fmt.Errorf("missing position")
	}
	return sexp.GetPosition(atNode)
}

func requireXY(node kicadsexp.Sexp, key string) (Position, error) {
	n, found := sexp.FindNode(node, key)
	if !found {
		return Position{}, fmt.Errorf("missing %s", key)
	}
	return sexp.GetPositionXY(n)
}

func optionalStroke(node kicadsexp.Sexp) Stroke {
	if strokeNode, found := sexp.FindNode(node, "stroke"); found {
		if stroke, err := sexp.GetStroke(strokeNode); err == nil {
			return stroke
		}
	}
	return Stroke{Type: "default"}
}

func optionalFill(node kicadsexp.Sexp) Fill {
	if fillNode, found := sexp.FindNode(node, "fill"); found {
		if fill, err := sexp.GetFill(fillNode); err == nil {
			return fill
		}
	}
	return Fill{Type: "none"}
}

func optionalEffects(node kicadsexp.Sexp) Effects {
	if effectsNode, found := sexp.FindNode(node, "effects"); found {
		if effects, err := sexp.GetEffects(effectsNode); err == nil {
			return effects
		}
	}
	return Effects{}
}

func optionalUUID(node kicadsexp.Sexp) UUID {
	if uuidNode, found := sexp.FindNode(node, "uuid"); found {
		id, _ := sexp.GetUUID(uuidNode)
		return id
	}
	return ""
}

// parseRectangle parses a rectangle graphic element
func parseRectangle(node kicadsexp.Sexp) (*GraphicRectangle, error) {
	start, err := requireXY(node, "start")
	if err != nil {
		return nil, err
	}
	end, err := requireXY(node, "end")
	if err != nil {
		return nil, err
	}
	return &GraphicRectangle{
		Start:  start,
		End:    end,
		Stroke: optionalStroke(node),
		Fill:   optionalFill(node),
	}, nil
}

// parseCircle parses a circle graphic element
func parseCircle(node kicadsexp.Sexp) (*GraphicCircle, error) {
	center, err := requireXY(node, "center")
	if err != nil {
		return nil, err
	}
	g := &GraphicCircle{Center: center, Stroke: optionalStroke(node), Fill: optionalFill(node)}
	if radiusNode, found := sexp.FindNode(node, "radius"); found {
		g.Radius, err = sexp.GetFloat(radiusNode, 1)
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

// parseArc parses an arc graphic element
func parseArc(node kicadsexp.Sexp) (*GraphicArc, error) {
	g := &GraphicArc{Stroke: optionalStroke(node), Fill: optionalFill(node)}
	var err error
	if g.Start, err = requireXY(node, "start"); err != nil {
		return nil, err
	}
	if g.Mid, err = requireXY(node, "mid"); err != nil {
		return nil, err
	}
	if g.End, err = requireXY(node, "end"); err != nil {
		return nil, err
	}
	return g, nil
}

// parseGraphicPolyline parses a polyline graphic element
func parseGraphicPolyline(node kicadsexp.Sexp) (*GraphicPolyline, error) {
	pts, err := sexp.GetPoints(node)
	if err != nil {
		return nil, err
	}
	return &GraphicPolyline{Points: pts, Stroke: optionalStroke(node), Fill: optionalFill(node)}, nil
}

func parseGraphicText(node kicadsexp.Sexp) (*GraphicText, error) {
	pos, err := requirePosition(node)
	if err != nil {
		return nil, err
	}
	g := &GraphicText{Position: pos, Effects: optionalEffects(node)}
	g.Text, _ = sexp.GetString(node, 1)
	return g, nil
}

func parseWire(node kicadsexp.Sexp) (*Wire, error) {
	pts, err := sexp.GetPoints(node)
	if err != nil {
		return nil, err
	}
	return &Wire{Points: pts, Stroke: optionalStroke(node), UUID: optionalUUID(node)}, nil
}

func parseBus(node kicadsexp.Sexp) (*Bus, error) {
	pts, err := sexp.GetPoints(node)
	if err != nil {
		return nil, err
	}
	return &Bus{Points: pts, Stroke: optionalStroke(node), UUID: optionalUUID(node)}, nil
}

func parsePolyline(node kicadsexp.Sexp) (*Polyline, error) {
	pts, err := sexp.GetPoints(node)
	if err != nil {
		return nil, err
	}
	return &Polyline{Points: pts, Stroke: optionalStroke(node), UUID: optionalUUID(node)}, nil
}

func parseBusEntry(node kicadsexp.Sexp) (*BusEntry, error) {
	pos, err := requirePosition(node)
	if err != nil {
		return nil, err
	}
	entry := &BusEntry{Position: pos.Position, Stroke: optionalStroke(node), UUID: optionalUUID(node)}
	if sizeNode, found := sexp.FindNode(node, "size"); found {
		if entry.Size, err = sexp.GetSize(sizeNode); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

func parseJunction(node kicadsexp.Sexp) (*Junction, error) {
	pos, err := requirePosition(node)
	if err != nil {
		return nil, err
	}
	junc := &Junction{Position: pos.Position, UUID: optionalUUID(node)}
	if diamNode, found := sexp.FindNode(node, "diameter"); found {
		junc.Diameter, _ = sexp.GetFloat(diamNode, 1)
	}
	if colorNode, found := sexp.FindNode(node, "color"); found {
		junc.Color, _ = sexp.GetColor(colorNode)
	}
	return junc, nil
}

func parseNoConnect(node kicadsexp.Sexp) (*NoConnect, error) {
	pos, err := requirePosition(node)
	if err != nil {
		return nil, err
	}
	return &NoConnect{Position: pos.Position, UUID: optionalUUID(node)}, nil
}

func parseText(node kicadsexp.Sexp) (*Text, error) {
	pos, err := requirePosition(node)
	if err != nil {
		return nil, err
	}
	txt := &Text{Position: pos.Position, Angle: pos.Angle, Effects: optionalEffects(node), UUID: optionalUUID(node)}
	txt.Text, _ = sexp.GetString(node, 1)
	return txt, nil
}

func parseLabel(node kicadsexp.Sexp) (*Label, error) {
	pos, err := requirePosition(node)
	if err != nil {
		return nil, err
	}
	label := &Label{Position: pos.Position, Angle: pos.Angle, Effects: optionalEffects(node), UUID: optionalUUID(node)}
	label.Text, _ = sexp.GetString(node, 1)
	return label, nil
}

func parseGlobalLabel(node kicadsexp.Sexp) (*GlobalLabel, error) {
	pos, err := requirePosition(node)
	if err != nil {
		return nil, err
	}
	label := &GlobalLabel{Position: pos.Position, Angle: pos.Angle, Effects: optionalEffects(node), UUID: optionalUUID(node)}
	label.Text, _ = sexp.GetString(node, 1)
	if shapeNode, found := sexp.FindNode(node, "shape"); found {
		label.Shape, _ = sexp.GetString(shapeNode, 1)
	}
	for _, pn := range sexp.FindAllNodes(node, "property") {
		prop, err := sexp.GetProperty(pn)
		if err != nil {
			return nil, err
		}
		label.Properties = append(label.Properties, prop)
	}
	return label, nil
}

func parseHierLabel(node kicadsexp.Sexp) (*HierLabel, error) {
	pos, err := requirePosition(node)
	if err != nil {
		return nil, err
	}
	label := &HierLabel{Position: pos.Position, Angle: pos.Angle, Effects: optionalEffects(node), UUID: optionalUUID(node)}
	label.Text, _ = sexp.GetString(node, 1)
	if shapeNode, found := sexp.FindNode(node, "shape"); found {
		label.Shape, _ = sexp.GetString(shapeNode, 1)
	}
	return label, nil
}

// parseSheet parses a hierarchical sheet reference
func parseSheet(node kicadsexp.Sexp) (*Sheet, error) {
	pos, err := requirePosition(node)
	if err != nil {
		return nil, err
	}
	sheet := &Sheet{
		Position: pos.Position,
		Stroke:   optionalStroke(node),
		Fill:     optionalFill(node),
		UUID:     optionalUUID(node),
	}
	if sizeNode, found := sexp.FindNode(node, "size"); found {
		if sheet.Size, err = sexp.GetSize(sizeNode); err != nil {
			return nil, err
		}
	}

	for _, pn := range sexp.FindAllNodes(node, "property") {
		prop, err := sexp.GetProperty(pn)
		if err != nil {
			return nil, err
		}
		sheet.Properties = append(sheet.Properties, prop)
	}

	for _, pn := range sexp.FindAllNodes(node, "pin") {
		pin := SheetPin{Effects: optionalEffects(pn), UUID: optionalUUID(pn)}
		pin.Name, _ = sexp.GetString(pn, 1)
		pin.Shape, _ = sexp.GetString(pn, 2)
		if atNode, found := sexp.FindNode(pn, "at"); found {
			if at, err := sexp.GetPosition(atNode); err == nil {
				pin.Position = at.Position
				pin.Angle = at.Angle
			}
		}
		sheet.Pins = append(sheet.Pins, pin)
	}

	return sheet, nil
}

func parseImage(node kicadsexp.Sexp) (*Image, error) {
	pos, err := requirePosition(node)
	if err != nil {
		return nil, err
	}
	img := &Image{Position: pos.Position, Scale: 1, UUID: optionalUUID(node)}
	if scaleNode, found := sexp.FindNode(node, "scale"); found {
		img.Scale, _ = sexp.GetFloat(scaleNode, 1)
	}
	if dataNode, found := sexp.FindNode(node, "data"); found {
		var b strings.Builder
		for _, chunk := range sexp.GetListItems(dataNode) {
			b.WriteString(chunk.String())
		}
		img.Data = b.String()
	}
	return img, nil
}

// parseSheetInstances parses sheet instance paths
func parseSheetInstances(node kicadsexp.Sexp) []SheetInstance {
	pathNodes := sexp.FindAllNodes(node, "path")
	instances := make([]SheetInstance, 0, len(pathNodes))

	for _, pn := range pathNodes {
		inst := SheetInstance{}
		inst.Path, _ = sexp.GetString(pn, 1)
		if pageNode, found := sexp.FindNode(pn, "page"); found {
			inst.Page, _ = sexp.GetString(pageNode, 1)
		}
		instances = append(instances, inst)
	}

	return instances
}
