package plot

import (
	"fmt"
	"math"
)

// PinSide is the side of the symbol body a pin sits on after placement.
type PinSide int

const (
	SideLeft PinSide = iota
	SideBottom
	SideRight
	SideTop
)

func (s PinSide) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideBottom:
		return "bottom"
	case SideRight:
		return "right"
	case SideTop:
		return "top"
	}
	return fmt.Sprintf("PinSide(%d)", int(s))
}

func quarterTurns(angle float64) (int, bool) {
	q := angle / 90
	if math.Abs(q-math.Round(q)) > 1e-9 {
		return 0, false
	}
	n := int(math.Round(q)) % 4
	if n < 0 {
		n += 4
	}
	return n, true
}

// PinOrientation classifies a pin given its library angle and the
// instance rotation and mirror. Slots are 0 left, 1 bottom, 2 right and
// 3 top: the pin's slot is rotated right by the instance quarter turns,
// then mirror x swaps bottom/top and mirror y swaps left/right.
func PinOrientation(pinAngle, symbolAngle float64, mirror string) (PinSide, error) {
	fail := func(msg string) (PinSide, error) {
		return 0, &GeometryError{PinAngle: pinAngle, SymbolAngle: symbolAngle, Mirror: mirror, Msg: msg}
	}

	pin, ok := quarterTurns(pinAngle)
	if !ok {
		return fail("pin angle is not a multiple of 90°")
	}
	shift, ok := quarterTurns(symbolAngle)
	if !ok {
		return fail("symbol angle is not a multiple of 90°")
	}

	var slots [4]int
	slots[pin]++

	var rotated [4]int
	for i, v := range slots {
		rotated[(i+shift)%4] = v
	}

	switch mirror {
	case "":
	case "x":
		rotated[1], rotated[3] = rotated[3], rotated[1]
	case "y":
		rotated[0], rotated[2] = rotated[2], rotated[0]
	default:
		return fail(fmt.Sprintf("unknown mirror axis %q", mirror))
	}

	side, count := -1, 0
	for i, v := range rotated {
		if v == 1 {
			side = i
			count++
		}
	}
	if count != 1 {
		return fail(fmt.Sprintf("unrecognized orientation %v", rotated))
	}
	return PinSide(side), nil
}
