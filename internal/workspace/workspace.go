// Package workspace tiles windows vertically within the terminal and
// tracks focus, implementing the proportional split/resize contract of
// §4.7. Each tile is allocated floor(availableRows/n) rows, with the
// remainder given to the topmost tile; a resize recomputes the whole
// tiling rather than patching individual tiles, mirroring the
// distribute-then-layout pass the teacher's flex layout uses for its
// own container tree.
package workspace

import (
	"github.com/davidledwards/ped/internal/editor"
	"github.com/davidledwards/ped/internal/window"
)

// Tile pairs one window with the editor it shows.
type Tile struct {
	Window *window.Window
	Editor *editor.Editor
}

// Workspace is an ordered, top-to-bottom stack of tiles sharing one
// terminal region, plus the single echo/prompt row at the bottom.
type Workspace struct {
	rows, cols int
	tiles      []*Tile
	focus      int
}

// New creates a workspace over a terminal of the given size with one
// initial tile showing ed.
func New(rows, cols int, ed *editor.Editor) *Workspace {
	w := &Workspace{rows: rows, cols: cols}
	w.tiles = []*Tile{{Editor: ed}}
	w.retile()
	return w
}

// Tiles returns the current tile list in top-to-bottom order.
func (w *Workspace) Tiles() []*Tile { return w.tiles }

// Focus returns the focused tile.
func (w *Workspace) Focus() *Tile { return w.tiles[w.focus] }

// FocusIndex returns the index of the focused tile.
func (w *Workspace) FocusIndex() int { return w.focus }

// retile recomputes every window's OriginRow/Rows, giving each tile
// floor(availableRows/n) content rows (reserving one banner row per
// tile and one echo row for the whole workspace), with the entire
// remainder given to the topmost tile.
func (w *Workspace) retile() {
	n := len(w.tiles)
	if n == 0 {
		return
	}
	available := w.rows - n /* banner rows */ - 1 /* echo row */
	if available < n {
		available = n
	}
	base := available / n
	remainder := available % n

	row := 0
	for i, t := range w.tiles {
		rows := base
		if i == 0 {
			rows += remainder
		}
		if t.Window == nil {
			t.Window = window.New(row, 0, rows, w.cols)
		} else {
			t.Window.OriginRow, t.Window.OriginCol = row, 0
			t.Window.Rows, t.Window.Cols = rows, w.cols
		}
		t.Window.BannerActive = i == w.focus
		row += rows + 1 // + banner row
		if t.Editor != nil {
			t.Editor.SetViewRows(rows)
		}
	}
}

// Resize recomputes the tiling for a new terminal geometry (§4.7,
// triggered by the controller's SIGWINCH handling).
func (w *Workspace) Resize(rows, cols int) {
	w.rows, w.cols = rows, cols
	w.retile()
}

func (w *Workspace) insertAt(idx int, ed *editor.Editor) {
	t := &Tile{Editor: ed}
	w.tiles = append(w.tiles, nil)
	copy(w.tiles[idx+1:], w.tiles[idx:])
	w.tiles[idx] = t
	w.retile()
}

// SplitTop inserts a new tile showing ed above the current top.
func (w *Workspace) SplitTop(ed *editor.Editor) {
	w.insertAt(0, ed)
	w.focus = 0
}

// SplitBottom inserts a new tile showing ed below the current bottom.
func (w *Workspace) SplitBottom(ed *editor.Editor) {
	w.insertAt(len(w.tiles), ed)
	w.focus = len(w.tiles) - 1
}

// SplitAbove inserts a new tile showing ed directly above the focused tile.
func (w *Workspace) SplitAbove(ed *editor.Editor) {
	idx := w.focus
	w.insertAt(idx, ed)
	w.focus = idx
}

// SplitBelow inserts a new tile showing ed directly below the focused tile.
func (w *Workspace) SplitBelow(ed *editor.Editor) {
	idx := w.focus + 1
	w.insertAt(idx, ed)
	w.focus = idx
}

// CloseCurrent removes the focused tile. Reports false (and leaves the
// workspace untouched) when it is the last tile — the caller (the
// controller) treats that as "quit".
func (w *Workspace) CloseCurrent() bool {
	if len(w.tiles) <= 1 {
		return false
	}
	idx := w.focus
	w.tiles = append(w.tiles[:idx], w.tiles[idx+1:]...)
	if w.focus >= len(w.tiles) {
		w.focus = len(w.tiles) - 1
	}
	w.retile()
	return true
}

// CloseOthers collapses the workspace to just the focused tile.
func (w *Workspace) CloseOthers() {
	t := w.tiles[w.focus]
	w.tiles = []*Tile{t}
	w.focus = 0
	w.retile()
}

// FocusTop moves focus to the topmost tile.
func (w *Workspace) FocusTop() { w.setFocus(0) }

// FocusBottom moves focus to the bottommost tile.
func (w *Workspace) FocusBottom() { w.setFocus(len(w.tiles) - 1) }

// FocusPrev moves focus to the previous tile, wrapping around.
func (w *Workspace) FocusPrev() { w.setFocus((w.focus - 1 + len(w.tiles)) % len(w.tiles)) }

// FocusNext moves focus to the next tile, wrapping around.
func (w *Workspace) FocusNext() { w.setFocus((w.focus + 1) % len(w.tiles)) }

func (w *Workspace) setFocus(idx int) {
	if idx < 0 || idx >= len(w.tiles) {
		return
	}
	w.tiles[w.focus].Window.BannerActive = false
	w.focus = idx
	w.tiles[w.focus].Window.BannerActive = true
}

// EchoRow returns the terminal row reserved for the inquirer/controller
// echo line, always the last row of the terminal.
func (w *Workspace) EchoRow() int { return w.rows - 1 }
