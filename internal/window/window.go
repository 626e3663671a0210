// Package window implements a viewport onto one editor's buffer: the
// logical-line-to-visual-row rendering described in §4.5, including
// line-number margins, horizontal-overflow wrapping, and the banner
// row.
package window

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/davidledwards/ped/internal/canvas"
)

// Source supplies everything Window needs from the editor it shows,
// without Window importing the editor package — the same separation
// the teacher draws between its Buffer (cell grid) and its higher
// layout components.
type Source interface {
	Len() int
	ScalarAt(pos int) rune
	ColorAt(pos int) int
	CursorPos() int
	TopRefPos() int
	MarkPos() (pos int, ok bool)
	Name() string
	SyntaxName() string
	EOLMark() string
	TabMark() string
	Dirty() bool
	Readonly() bool
}

// Window is a viewport onto a buffer, owning a disjoint region of the
// shared canvas plus its banner row.
type Window struct {
	OriginRow, OriginCol int
	Rows, Cols           int // content rows, excludes the banner row

	ShowLines     bool
	ShowSpotlight bool
	BannerActive  bool

	// renderedTop/renderedBottom record the logical scalar range last
	// drawn, set by Render for the caller's incremental-scroll logic.
	renderedTop, renderedBottom int
}

// New creates a window at the given origin and size (content rows,
// excluding the banner).
func New(originRow, originCol, rows, cols int) *Window {
	return &Window{OriginRow: originRow, OriginCol: originCol, Rows: rows, Cols: cols}
}

// lineNumberWidth returns the margin width needed for line numbers, or
// 0 if ShowLines is false. Matches §4.5: numbers beyond 99999 show as
// "--NNN" (last three digits prefixed "--"); beyond the banner's
// 7-digit budget, show all dashes.
func (w *Window) lineNumberWidth() int {
	if !w.ShowLines {
		return 0
	}
	return 7
}

func formatLineNumber(n, width int) string {
	if width <= 0 {
		return ""
	}
	var s string
	switch {
	case n > 9999999: // wider than a 7-digit budget can ever represent
		s = strings.Repeat("-", width)
	case n > 99999:
		tail := fmt.Sprintf("%03d", n%1000)
		s = "--" + tail
	default:
		s = fmt.Sprintf("%d", n)
	}
	if len(s) > width {
		s = s[len(s)-width:]
	}
	return fmt.Sprintf("%*s", width, s)
}

// Render paints the buffer content visible starting at src.TopRefPos()
// into c's back grid, within this window's region. cursorRow/cursorCol
// (canvas-relative) are returned for the controller to position the
// hardware cursor.
func (w *Window) Render(c *canvas.Canvas, src Source, lineNumberOf func(pos int) int) (cursorRow, cursorCol int) {
	marginW := w.lineNumberWidth()
	textCols := w.Cols - marginW
	if textCols < 1 {
		textCols = 1
	}

	markPos, hasMark := src.MarkPos()
	cursor := src.CursorPos()
	selLo, selHi := 0, 0
	if hasMark {
		selLo, selHi = markPos, cursor
		if selLo > selHi {
			selLo, selHi = selHi, selLo
		}
	}

	pos := src.TopRefPos()
	n := src.Len()
	row := 0
	col := 0
	lineStart := pos
	cursorRow, cursorCol = w.OriginRow, w.OriginCol+marginW

	cursorLineStart := cursor
	for cursorLineStart > 0 && src.ScalarAt(cursorLineStart-1) != '\n' {
		cursorLineStart--
	}

	writeLineNumber := func(forRow int) {
		if marginW == 0 {
			return
		}
		s := formatLineNumber(lineNumberOf(lineStart), marginW)
		for i, r := range []rune(s) {
			c.WriteAt(w.OriginRow+forRow, w.OriginCol+i, canvas.Cell{Scalar: r, FG: canvas.DefaultColor, BG: canvas.DefaultColor})
		}
	}

	writeLineNumber(row)

	for pos < n && row < w.Rows {
		if pos == cursor {
			cursorRow = w.OriginRow + row
			cursorCol = w.OriginCol + marginW + col
		}
		s := src.ScalarAt(pos)
		if s == '\n' {
			row++
			col = 0
			pos++
			lineStart = pos
			if row < w.Rows {
				writeLineNumber(row)
			}
			continue
		}
		glyph, attr := canvas.RenderScalar(s)
		bg := canvas.DefaultColor
		if hasMark && pos >= selLo && pos < selHi {
			attr |= canvas.AttrReverse
		}
		if w.ShowSpotlight && lineStart == cursorLineStart {
			bg = spotlightBG
		}
		fg := canvas.Color(src.ColorAt(pos))
		c.WriteAt(w.OriginRow+row, w.OriginCol+marginW+col, canvas.Cell{Scalar: glyph, FG: fg, BG: bg, Attrs: attr})

		gw := canvas.CellWidth(glyph)
		if gw < 1 {
			gw = 1
		}
		col += gw
		pos++
		if col >= textCols {
			// Horizontal overflow wraps to the next visual row rather
			// than truncating.
			row++
			col = 0
			if row < w.Rows {
				writeLineNumber(row)
			}
		}
	}
	if pos == n && cursor == n && row < w.Rows {
		cursorRow = w.OriginRow + row
		cursorCol = w.OriginCol + marginW + col
	}
	w.renderedTop, w.renderedBottom = src.TopRefPos(), pos

	// Clear any remaining rows in this window's region.
	for ; row < w.Rows; row++ {
		c.Fill(canvas.Rect{Row0: w.OriginRow + row, Col0: w.OriginCol, Row1: w.OriginRow + row + 1, Col1: w.OriginCol + w.Cols}, canvas.Blank)
	}

	return cursorRow, cursorCol
}

const spotlightBG canvas.Color = 237

// BannerRow renders the banner described in §4.5:
// "<source> (<syntax>) -<eol-mark><tab-mark>- <hex-code-point> <line,col>"
// with progressive truncation by terminal width.
func BannerRow(c *canvas.Canvas, row, col, width int, src Source, line, column int, scalarAtCursor rune, active bool) {
	dirtyMark := ""
	if src.Dirty() {
		dirtyMark = "*"
	}
	readonlyMark := ""
	if src.Readonly() {
		readonlyMark = " [RO]"
	}
	left := fmt.Sprintf("%s%s (%s)%s", src.Name(), dirtyMark, src.SyntaxName(), readonlyMark)
	mid := fmt.Sprintf("-%s%s-", src.EOLMark(), src.TabMark())
	right := fmt.Sprintf("U+%04X %d,%d", scalarAtCursor, line, column)

	bg := inactiveBG
	srcFG := canvas.Color(15)
	if active {
		bg = activeBG
	}
	if src.Dirty() {
		srcFG = dirtyFG
	}

	text := left + " " + mid + " " + right
	for width > 0 && lipgloss.Width(text) > width {
		// Progressive truncation: drop the rightmost field first.
		if right != "" {
			text = left + " " + mid
			right = ""
			continue
		}
		if mid != "" {
			text = left
			mid = ""
			continue
		}
		text = left[:max(0, len(left)-1)]
		left = text
	}

	c.Fill(canvas.Rect{Row0: row, Col0: col, Row1: row + 1, Col1: col + width}, canvas.Cell{Scalar: ' ', BG: bg})
	x := col
	for i, r := range []rune(left) {
		fg := srcFG
		_ = i
		if x >= col+width {
			break
		}
		c.WriteAt(row, x, canvas.Cell{Scalar: r, FG: fg, BG: bg})
		x++
	}
	x = col + len(left) + 1
	for _, r := range []rune(mid + " " + right) {
		if x >= col+width {
			break
		}
		c.WriteAt(row, x, canvas.Cell{Scalar: r, FG: canvas.Color(15), BG: bg})
		x++
	}
}

const (
	inactiveBG canvas.Color = 238
	activeBG   canvas.Color = 25
	dirtyFG    canvas.Color = 3
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
