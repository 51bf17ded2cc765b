package schematic

import (
	"fmt"
	"math"
	"sort"
)

// Name sources, strongest first.
const (
	namePower = iota
	nameGlobal
	nameLocal
	nameHier
	nameNone
)

// pointKey quantizes a position to 0.1 µm so float noise from transforms
// does not split a node.
type pointKey struct{ x, y int64 }

func keyOf(p Position) pointKey {
	return pointKey{x: int64(math.Round(p.X * 1e4)), y: int64(math.Round(p.Y * 1e4))}
}

// Netlist maps connection points to net names, one lookup per page.
type Netlist struct {
	pages []*PageNets
}

// PageNets is the point to net-name lookup of a single page.
type PageNets struct {
	names map[pointKey]string
}

// NodeName returns the name of the net touching p.
func (n *PageNets) NodeName(p Position) (string, bool) {
	if n == nil {
		return "", false
	}
	name, ok := n.names[keyOf(p)]
	return name, ok
}

// Nets returns the distinct net names of the page, sorted.
func (n *PageNets) Nets() []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range n.names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Page returns the lookup for page i, nil when out of range.
func (nl *Netlist) Page(i int) *PageNets {
	if nl == nil || i < 0 || i >= len(nl.pages) {
		return nil
	}
	return nl.pages[i]
}

// NewNetlist computes connectivity for every page of doc. Wires join
// their points; any point lying on a wire segment joins that wire; local
// labels with the same text join within a page. Nets are named from
// power symbols, then global, local and hierarchical labels. Unnamed nets
// are numbered Net-1, Net-2, ... across the whole document.
func NewNetlist(doc *Document) *Netlist {
	nl := &Netlist{}
	unnamed := 0
	for _, page := range doc.Pages {
		nl.pages = append(nl.pages, buildPageNets(page.Schematic, &unnamed))
	}
	return nl
}

type segment struct{ a, b Position }

type nameCandidate struct {
	rank int
	name string
}

type pageGraph struct {
	index  map[pointKey]int
	parent []int
	names  []nameCandidate
	segs   []segment
	order  []pointKey
}

func (g *pageGraph) add(p Position) int {
	k := keyOf(p)
	if i, ok := g.index[k]; ok {
		return i
	}
	i := len(g.parent)
	g.index[k] = i
	g.parent = append(g.parent, i)
	g.names = append(g.names, nameCandidate{rank: nameNone})
	g.order = append(g.order, k)
	return i
}

func (g *pageGraph) find(i int) int {
	for g.parent[i] != i {
		g.parent[i] = g.parent[g.parent[i]]
		i = g.parent[i]
	}
	return i
}

func (g *pageGraph) union(a, b int) {
	ra, rb := g.find(a), g.find(b)
	if ra == rb {
		return
	}
	// keep the lower index as root so numbering follows file order
	if rb < ra {
		ra, rb = rb, ra
	}
	g.parent[rb] = ra
}

func (g *pageGraph) nameAt(p Position, rank int, name string) int {
	i := g.add(p)
	c := g.names[i]
	if rank < c.rank || (rank == c.rank && name < c.name) {
		g.names[i] = nameCandidate{rank: rank, name: name}
	}
	return i
}

func onSegment(p Position, s segment) bool {
	const eps = 1e-4
	dx, dy := s.b.X-s.a.X, s.b.Y-s.a.Y
	cross := (p.X-s.a.X)*dy - (p.Y-s.a.Y)*dx
	if math.Abs(cross) > eps*math.Hypot(dx, dy) {
		return false
	}
	return p.X >= math.Min(s.a.X, s.b.X)-eps && p.X <= math.Max(s.a.X, s.b.X)+eps &&
		p.Y >= math.Min(s.a.Y, s.b.Y)-eps && p.Y <= math.Max(s.a.Y, s.b.Y)+eps
}

func buildPageNets(sch *Schematic, unnamed *int) *PageNets {
	g := &pageGraph{index: make(map[pointKey]int)}
	localByName := make(map[string]int)

	for _, e := range sch.Elements {
		switch el := e.(type) {
		case *Wire:
			for i, p := range el.Points {
				g.add(p)
				if i > 0 {
					g.union(g.add(el.Points[i-1]), g.add(p))
					g.segs = append(g.segs, segment{a: el.Points[i-1], b: p})
				}
			}
		case *Junction:
			g.add(el.Position)
		case *Label:
			i := g.nameAt(el.Position, nameLocal, el.Text)
			if j, ok := localByName[el.Text]; ok {
				g.union(i, j)
			} else {
				localByName[el.Text] = i
			}
		case *GlobalLabel:
			i := g.nameAt(el.Position, nameGlobal, el.Text)
			if j, ok := localByName["\x00"+el.Text]; ok {
				g.union(i, j)
			} else {
				localByName["\x00"+el.Text] = i
			}
		case *HierLabel:
			g.nameAt(el.Position, nameHier, el.Text)
		case *Symbol:
			lib, ok := sch.LibSymbol(el.LibID)
			if !ok {
				continue
			}
			pl := el.Placement()
			for _, unit := range lib.Units {
				if unit.Number != 0 && unit.Number != el.Unit {
					continue
				}
				for _, pin := range unit.Pins {
					at := pl.Apply(pin.Position)
					if lib.Power {
						i := g.nameAt(at, namePower, el.Value())
						key := "\x00" + el.Value()
						if j, ok := localByName[key]; ok {
							g.union(i, j)
						} else {
							localByName[key] = i
						}
					} else {
						g.add(at)
					}
				}
			}
		}
	}

	// T-connections: any known point lying on a wire segment joins it.
	for k, i := range g.index {
		p := Position{X: float64(k.x) / 1e4, Y: float64(k.y) / 1e4}
		for _, s := range g.segs {
			if onSegment(p, s) {
				g.union(i, g.index[keyOf(s.a)])
			}
		}
	}

	best := make(map[int]nameCandidate)
	for i := range g.parent {
		r := g.find(i)
		c, ok := best[r]
		n := g.names[i]
		if !ok || n.rank < c.rank || (n.rank == c.rank && n.name < c.name) {
			best[r] = n
		}
	}

	nets := &PageNets{names: make(map[pointKey]string, len(g.order))}
	roots := make(map[int]string)
	for _, k := range g.order {
		r := g.find(g.index[k])
		name, ok := roots[r]
		if !ok {
			if c := best[r]; c.rank != nameNone {
				name = c.name
			} else {
				*unnamed++
				name = fmt.Sprintf("Net-%d", *unnamed)
			}
			roots[r] = name
		}
		nets.names[k] = name
	}
	return nets
}
