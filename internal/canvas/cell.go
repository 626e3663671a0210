// Package canvas implements the double-grid differential renderer:
// front/back cell grids and a diff algorithm that turns the visible
// region into a minimal stream of terminal control sequences.
//
// Grounded on the teacher's Buffer/Cell/Style/Screen trio: the same
// front/back grid split, row dirty-bitmap tracking, and a diff Flush
// that only repositions the cursor when a run of unchanged cells
// exceeds a small threshold.
package canvas

import "github.com/mattn/go-runewidth"

// Attr is a bitmask of cell attributes.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrUnderline
	AttrReverse
)

func (a Attr) Has(f Attr) bool { return a&f != 0 }

// Color is an 8-bit ANSI palette index (§6: 8-bit ANSI color out).
// A negative value means "default terminal color".
type Color int16

const DefaultColor Color = -1

// Cell is one terminal character cell.
type Cell struct {
	Scalar rune
	FG     Color
	BG     Color
	Attrs  Attr
}

// Equal reports whether two cells render identically.
func (c Cell) Equal(o Cell) bool {
	return c.Scalar == o.Scalar && c.FG == o.FG && c.BG == o.BG && c.Attrs == o.Attrs
}

// Blank is the default empty cell: a space with terminal-default colors.
var Blank = Cell{Scalar: ' ', FG: DefaultColor, BG: DefaultColor}

// RenderScalar maps a buffer scalar to the glyph and attribute it
// should render as (§3 Scalar): '\n' never reaches the grid (handled
// by the caller as a line break), '\t' renders as '→', and other
// control characters render as '¿' dimmed.
func RenderScalar(s rune) (rune, Attr) {
	switch {
	case s == '\t':
		return '→', 0
	case s < 0x20 || s == 0x7f:
		return '¿', AttrDim
	default:
		return s, 0
	}
}

// CellWidth returns how many terminal columns r occupies: 2 for
// double-width CJK/fullwidth glyphs, 0 for combining marks, 1
// otherwise. A window advances its column cursor by this rather than
// always by one, so wide glyphs don't overlap their neighbor.
func CellWidth(r rune) int {
	return runewidth.RuneWidth(r)
}
