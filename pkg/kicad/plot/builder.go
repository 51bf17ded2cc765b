package plot

import (
	"fmt"
	"io"
	"math"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/schematic"
)

// Fixed geometry of the built-in markers.
const (
	noConnectSize  = 0.8
	junctionRadius = 0.35
	missingSize    = 10.0
	pinNameSpread  = 8.0
)

// NetNamer resolves a page point to the name of the net it sits on.
// *schematic.PageNets implements it.
type NetNamer interface {
	NodeName(p Point) (string, bool)
}

// Options controls item generation.
type Options struct {
	Theme   *Theme   // nil means kicad_2000
	Border  bool     // emit the page frame and title block first
	Netlist NetNamer // annotate pins with net names when set
}

// Builder turns the elements of one page into plot items, one element at
// a time. It is single pass and not safe for concurrent use.
type Builder struct {
	page    *schematic.Page
	theme   *Theme
	netlist NetNamer
	border  bool
	next    int
}

// NewBuilder returns a builder positioned before the first element of page.
func NewBuilder(page *schematic.Page, opts Options) *Builder {
	theme := opts.Theme
	if theme == nil {
		theme = kicad2000
	}
	return &Builder{
		page:    page,
		theme:   theme,
		netlist: opts.Netlist,
		border:  opts.Border,
	}
}

// Next returns the items of the next element. Elements that draw nothing
// are skipped. io.EOF marks the end of the page.
func (b *Builder) Next() ([]Item, error) {
	if b.border {
		b.border = false
		return Border(b.page, b.theme)
	}

	elements := b.page.Schematic.Elements
	for b.next < len(elements) {
		e := elements[b.next]
		b.next++

		items, err := b.element(e)
		if err != nil {
			return nil, err
		}
		if len(items) > 0 {
			return items, nil
		}
	}
	return nil, io.EOF
}

// Collect drains the builder.
func (b *Builder) Collect() ([]Item, error) {
	var all []Item
	for {
		items, err := b.Next()
		if err == io.EOF {
			return all, nil
		}
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}
}

func (b *Builder) element(e schematic.Element) ([]Item, error) {
	switch el := e.(type) {
	case *schematic.Sheet:
		return b.sheet(el)
	case *schematic.Wire:
		s, err := b.theme.Stroke("wire")
		if err != nil {
			return nil, err
		}
		return []Item{lineItem(10, el.Points, s)}, nil
	case *schematic.Bus:
		return b.busLine(el.Points, el.Stroke)
	case *schematic.Polyline:
		return b.busLine(el.Points, el.Stroke)
	case *schematic.BusEntry:
		end := el.Position.Add(Point{X: el.Size.Width, Y: el.Size.Height})
		return b.busLine([]Point{el.Position, end}, el.Stroke)
	case *schematic.Text:
		return b.label("text", el.Text, el.Position, float64(el.Angle), el.Effects)
	case *schematic.Label:
		return b.label("label", el.Text, el.Position, float64(el.Angle), el.Effects)
	case *schematic.HierLabel:
		return b.label("label", el.Text, el.Position, float64(el.Angle), el.Effects)
	case *schematic.GlobalLabel:
		return b.globalLabel(el)
	case *schematic.NoConnect:
		return b.noConnect(el)
	case *schematic.Junction:
		s, err := b.theme.Stroke("junction")
		if err != nil {
			return nil, err
		}
		fill := s.Color
		return []Item{&Circle{Z: 99, Center: el.Position, Radius: junctionRadius, Stroke: s, Fill: &fill}}, nil
	case *schematic.Symbol:
		return b.symbol(el)
	case *schematic.Image:
		return nil, nil
	default:
		return nil, &DocumentError{Op: "plot", Err: fmt.Errorf("unhandled element %T", e)}
	}
}

func lineItem(z int, pts []Point, s Stroke) *Line {
	s.Cap = CapButt
	return &Line{Z: z, Points: append([]Point(nil), pts...), Stroke: s}
}

// textItem builds a text item from resolved effects.
func textItem(z int, pos Point, angle float64, text string, e Effects) *Text {
	return &Text{
		Z:        z,
		Pos:      pos,
		Angle:    angle,
		Text:     text,
		Color:    e.Color,
		FontSize: e.FontSize,
		Font:     e.Font,
		Align:    e.Align,
	}
}

func (b *Builder) mergedStroke(role string, own schematic.Stroke) (Stroke, error) {
	s, err := b.theme.Stroke(role)
	if err != nil {
		return Stroke{}, err
	}
	return MergeStroke(StrokeOverrideOf(own), s), nil
}

func (b *Builder) mergedEffects(role string, own schematic.Effects) (Effects, error) {
	e, err := b.theme.Effects(role)
	if err != nil {
		return Effects{}, err
	}
	return MergeEffects(EffectsOverrideOf(own), e), nil
}

// fill resolves a document fill: explicit colors win, other types go
// through the theme.
func (b *Builder) fill(f schematic.Fill) *Color {
	if f.Type == "color" {
		if f.Color.IsZero() {
			return nil
		}
		c := f.Color
		return &c
	}
	return b.theme.FillColor(f.Type)
}

func (b *Builder) sheet(sh *schematic.Sheet) ([]Item, error) {
	name, ok := sh.NameProperty()
	if !ok {
		return nil, &DocumentError{
			Op:  "sheet",
			Err: fmt.Errorf("sheet at (%g, %g) has no name property", sh.Position.X, sh.Position.Y),
		}
	}
	effects, err := b.mergedEffects("text", name.Effects)
	if err != nil {
		return nil, err
	}

	role := "sheet"
	if _, err := b.theme.Stroke(role); err != nil {
		role = "symbol"
	}
	stroke, err := b.mergedStroke(role, sh.Stroke)
	if err != nil {
		return nil, err
	}

	var fill *Color
	if !sh.Fill.Color.IsZero() {
		c := sh.Fill.Color
		fill = &c
	}

	end := sh.Position.Add(Point{X: sh.Size.Width, Y: sh.Size.Height})
	return []Item{
		textItem(10, sh.Position, 0, name.Value, effects),
		&Rectangle{Z: 1, Start: sh.Position, End: end, Stroke: stroke, Fill: fill},
	}, nil
}

func (b *Builder) busLine(pts []Point, own schematic.Stroke) ([]Item, error) {
	s, err := b.mergedStroke("bus", own)
	if err != nil {
		return nil, err
	}
	return []Item{lineItem(10, pts, s)}, nil
}

func (b *Builder) label(role, text string, pos Point, angle float64, own schematic.Effects) ([]Item, error) {
	e, err := b.mergedEffects(role, own)
	if err != nil {
		return nil, err
	}
	if angle >= 180 {
		angle -= 180
	}
	return []Item{textItem(10, pos, angle, text, e)}, nil
}

func (b *Builder) globalLabel(l *schematic.GlobalLabel) ([]Item, error) {
	e, err := b.theme.Effects("global_label")
	if err != nil {
		return nil, err
	}
	angle := float64(l.Angle)
	if angle > 180 {
		angle -= 180
	}
	t := textItem(10, l.Position, angle, l.Text, e)
	t.Label = true
	return []Item{t}, nil
}

func (b *Builder) noConnect(nc *schematic.NoConnect) ([]Item, error) {
	s, err := b.theme.Stroke("no_connect")
	if err != nil {
		return nil, err
	}
	d := noConnectSize
	at := nc.Position
	return []Item{
		lineItem(10, []Point{at.Add(Point{X: -d, Y: d}), at.Add(Point{X: d, Y: -d})}, s),
		lineItem(10, []Point{at.Add(Point{X: d, Y: d}), at.Add(Point{X: -d, Y: -d})}, s),
	}, nil
}

func (b *Builder) symbol(sym *schematic.Symbol) ([]Item, error) {
	if !sym.OnSchema {
		return nil, nil
	}

	var items []Item
	for _, prop := range sym.Properties {
		item, err := b.property(sym, prop)
		if err != nil {
			return nil, err
		}
		if item != nil {
			items = append(items, item)
		}
	}

	tr := NewTransform(sym)
	lib, ok := b.page.Schematic.LibSymbol(sym.LibID)
	if !ok {
		Logger().Warn("library symbol not found", "lib_id", sym.LibID, "reference", sym.Reference())
		return append(items, &Rectangle{
			Z:      10,
			Start:  tr.Apply(Point{}),
			End:    tr.Apply(Point{X: missingSize, Y: missingSize}),
			Stroke: Stroke{Width: 0.35, LineType: "default", Color: Color{R: 1, A: 1}},
		}), nil
	}

	for _, unit := range lib.Units {
		if unit.Number != 0 && unit.Number != sym.Unit {
			continue
		}
		// style 2 is the alternate (De Morgan) body
		if unit.Style > 1 {
			continue
		}
		for _, g := range unit.Graphics {
			item, err := b.graphic(tr, g)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		for _, pin := range unit.Pins {
			pinItems, err := b.pin(sym, lib, tr, pin)
			if err != nil {
				return nil, err
			}
			items = append(items, pinItems...)
		}
	}
	return items, nil
}

// property places an instance property. Justification flips sides when
// the combined rotation turns the text upside down.
func (b *Builder) property(sym *schematic.Symbol, prop schematic.Property) (Item, error) {
	e, err := b.mergedEffects("property", prop.Effects)
	if err != nil {
		return nil, err
	}
	if e.Hide {
		return nil, nil
	}

	symAngle, propAngle := float64(sym.Angle), float64(prop.Position.Angle)
	if sum := propAngle + symAngle; sum >= 180 && sum < 360 {
		e.Align = swapHorizontal(e.Align)
	}
	angle := math.Abs(symAngle - propAngle)
	if angle >= 360 {
		angle -= 360
	}
	return textItem(99, prop.Position.Position, angle, prop.Value, e), nil
}

func swapHorizontal(a Align) Align {
	left, right := a.Has(AlignLeft), a.Has(AlignRight)
	a &^= AlignLeft | AlignRight
	if left {
		a |= AlignRight
	}
	if right {
		a |= AlignLeft
	}
	return a
}

func (b *Builder) graphic(tr Transform, g schematic.Graphic) (Item, error) {
	switch gr := g.(type) {
	case *schematic.GraphicPolyline:
		s, err := b.mergedStroke("symbol", gr.Stroke)
		if err != nil {
			return nil, err
		}
		return &Polyline{Z: 1, Points: tr.ApplyAll(gr.Points), Stroke: s, Fill: b.fill(gr.Fill)}, nil
	case *schematic.GraphicRectangle:
		s, err := b.mergedStroke("symbol", gr.Stroke)
		if err != nil {
			return nil, err
		}
		return &Rectangle{Z: 1, Start: tr.Apply(gr.Start), End: tr.Apply(gr.End), Stroke: s, Fill: b.fill(gr.Fill)}, nil
	case *schematic.GraphicCircle:
		s, err := b.mergedStroke("symbol", gr.Stroke)
		if err != nil {
			return nil, err
		}
		return &Circle{Z: 1, Center: tr.Apply(gr.Center), Radius: gr.Radius, Stroke: s, Fill: b.fill(gr.Fill)}, nil
	case *schematic.GraphicArc:
		s, err := b.mergedStroke("symbol", gr.Stroke)
		if err != nil {
			return nil, err
		}
		// only the start is placed, see Arc
		return &Arc{Z: 1, Start: tr.Apply(gr.Start), Mid: gr.Mid, End: gr.End, Stroke: s, Fill: b.fill(gr.Fill)}, nil
	case *schematic.GraphicText:
		e, err := b.mergedEffects("symbol", gr.Effects)
		if err != nil {
			return nil, err
		}
		return textItem(99, tr.Apply(gr.Position.Position), float64(gr.Position.Angle), gr.Text, e), nil
	default:
		return nil, &DocumentError{Op: "plot", Err: fmt.Errorf("unhandled graphic %T", g)}
	}
}

func (b *Builder) pin(sym *schematic.Symbol, lib *schematic.LibSymbol, tr Transform, pin schematic.Pin) ([]Item, error) {
	stroke, err := b.theme.Stroke("pin")
	if err != nil {
		return nil, err
	}

	pinAngle := float64(pin.Angle)
	dir := direction(pinAngle)
	end := pin.Position.Add(Point{X: dir.X * pin.Length, Y: dir.Y * pin.Length})
	at := tr.Apply(pin.Position)
	items := []Item{lineItem(10, []Point{at, tr.Apply(end)}, stroke)}

	if lib.Power {
		return items, nil
	}

	var (
		side     PinSide
		sideErr  error
		resolved bool
	)
	pinSide := func() (PinSide, error) {
		if !resolved {
			side, sideErr = PinOrientation(pinAngle, float64(sym.Angle), sym.Mirror)
			resolved = true
		}
		return side, sideErr
	}
	half := dir.X * pin.Length / 2

	if lib.PinNumbers {
		e, err := b.theme.Effects("pin_number")
		if err != nil {
			return nil, err
		}
		s, err := pinSide()
		if err != nil {
			return nil, err
		}
		items = append(items, textItem(99, at.Add(numberOffset(s, half)), 0, pin.Number.Number, e))
	}

	if lib.PinNames && pin.Name.Name != "~" {
		e, err := b.theme.Effects("pin_name")
		if err != nil {
			return nil, err
		}
		reach := pin.Length + lib.PinNamesOffset*pinNameSpread
		pos := tr.Apply(pin.Position.Add(Point{X: dir.X * reach, Y: dir.Y * reach}))
		t := textItem(99, pos, pinAngle, pin.Name.Name, e)
		t.Align = AlignCenter
		items = append(items, t)
	}

	if b.netlist != nil {
		e, err := b.theme.Effects("pin_number")
		if err != nil {
			return nil, err
		}
		s, err := pinSide()
		if err != nil {
			return nil, err
		}
		name, ok := b.netlist.NodeName(at)
		if !ok {
			name = "NaN"
		}
		items = append(items, textItem(99, at.Add(netOffset(s, half)), 0, name, e))
	}
	return items, nil
}

// numberOffset places a pin number beside the pin, above horizontal pins
// and right of vertical ones.
func numberOffset(s PinSide, half float64) Point {
	switch s {
	case SideBottom:
		return Point{X: 1, Y: half}
	case SideTop:
		return Point{X: 1, Y: -half}
	default:
		return Point{X: half, Y: -1}
	}
}

// netOffset mirrors numberOffset to the other side of the pin.
func netOffset(s PinSide, half float64) Point {
	switch s {
	case SideBottom:
		return Point{X: -1, Y: half}
	case SideTop:
		return Point{X: -1, Y: -half}
	default:
		return Point{X: half, Y: 1}
	}
}
