package plot

import (
	"path/filepath"
	"strconv"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/schematic"
)

// Page layout in mm.
const (
	frameMargin = 10.0
	frameGap    = 2.0
	gridStep    = 50.0
	titleWidth  = 110.0
	titleHeight = 32.0
	titleRow    = 4.0
	titlePad    = 1.0
)

// Border returns the page frame, the reference grid and the title block of
// page, all at z 0.
func Border(page *schematic.Page, t *Theme) ([]Item, error) {
	stroke, err := t.Stroke("border")
	if err != nil {
		return nil, err
	}
	effects, err := t.Effects("border")
	if err != nil {
		return nil, err
	}

	paper := schematic.PaperSize(page.Paper())
	w, h := paper.Width, paper.Height
	outer, inner := frameMargin, frameMargin+frameGap

	items := []Item{
		&Rectangle{Start: Point{X: outer, Y: outer}, End: Point{X: w - outer, Y: h - outer}, Stroke: stroke},
		&Rectangle{Start: Point{X: inner, Y: inner}, End: Point{X: w - inner, Y: h - inner}, Stroke: stroke},
	}
	line := func(a, b Point) {
		items = append(items, lineItem(0, []Point{a, b}, stroke))
	}
	text := func(pos Point, s string, align Align) {
		e := effects
		e.Align = align
		items = append(items, textItem(0, pos, 0, s, e))
	}

	// column numbers along the top and bottom edges
	mid := (outer + inner) / 2
	for i, x0 := 1, outer; x0 < w-outer; i, x0 = i+1, x0+gridStep {
		x1 := min(x0+gridStep, w-outer)
		if x1 < w-outer {
			line(Point{X: x1, Y: outer}, Point{X: x1, Y: inner})
			line(Point{X: x1, Y: h - inner}, Point{X: x1, Y: h - outer})
		}
		label := strconv.Itoa(i)
		text(Point{X: (x0 + x1) / 2, Y: mid}, label, AlignCenter)
		text(Point{X: (x0 + x1) / 2, Y: h - mid}, label, AlignCenter)
	}

	// row letters along the left and right edges
	for i, y0 := 0, outer; y0 < h-outer; i, y0 = i+1, y0+gridStep {
		y1 := min(y0+gridStep, h-outer)
		if y1 < h-outer {
			line(Point{X: outer, Y: y1}, Point{X: inner, Y: y1})
			line(Point{X: w - inner, Y: y1}, Point{X: w - outer, Y: y1})
		}
		label := rowLabel(i)
		text(Point{X: mid, Y: (y0 + y1) / 2}, label, AlignCenter)
		text(Point{X: w - mid, Y: (y0 + y1) / 2}, label, AlignCenter)
	}

	items = append(items, titleBlock(page, paper, stroke, effects)...)
	return items, nil
}

func rowLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return string(rune('A'+i/26-1)) + string(rune('A'+i%26))
}

// titleBlock lays out, top to bottom: comments 1/2, comments 3/4,
// company, title, size/date/revision, file/sheet and the generator id.
func titleBlock(page *schematic.Page, paper schematic.Size, stroke Stroke, effects Effects) []Item {
	right := paper.Width - frameMargin - frameGap
	bottom := paper.Height - frameMargin - frameGap
	left, top := right-titleWidth, bottom-titleHeight
	tb := page.Schematic.TitleBlock
	file := ""
	if page.Path != "" {
		file = filepath.Base(page.Path)
	}

	items := []Item{&Rectangle{Start: Point{X: left, Y: top}, End: Point{X: right, Y: bottom}, Stroke: stroke}}

	type cell struct {
		text  string
		width float64
	}
	rows := []struct {
		height float64
		size   float64
		cells  []cell
	}{
		{titleRow, 1, []cell{{tb.Comments[0], 55}, {tb.Comments[1], 55}}},
		{titleRow, 1, []cell{{tb.Comments[2], 55}, {tb.Comments[3], 55}}},
		{titleRow, 1, []cell{{tb.Company, titleWidth}}},
		{2 * titleRow, 1.5, []cell{{"Title: " + tb.Title, titleWidth}}},
		{titleRow, 1, []cell{{"Size: " + page.Paper(), 30}, {"Date: " + tb.Date, 50}, {"Rev: " + tb.Revision, 30}}},
		{titleRow, 1, []cell{{"File: " + file, 70}, {"Sheet: " + page.SheetPath, 40}}},
		{titleRow, 1, []cell{{"kiplot", titleWidth}}},
	}

	y := top
	for i, row := range rows {
		if i > 0 {
			items = append(items, lineItem(0, []Point{{X: left, Y: y}, {X: right, Y: y}}, stroke))
		}
		x := left
		for j, c := range row.cells {
			if j > 0 {
				items = append(items, lineItem(0, []Point{{X: x, Y: y}, {X: x, Y: y + row.height}}, stroke))
			}
			if c.text != "" {
				e := effects
				e.Align = AlignLeft
				e.FontSize *= row.size
				items = append(items, textItem(0, Point{X: x + titlePad, Y: y + row.height/2}, 0, c.text, e))
			}
			x += c.width
		}
		y += row.height
	}
	return items
}
