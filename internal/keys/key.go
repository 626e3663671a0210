// Package keys turns a raw terminal input byte stream into canonical
// keys, and resolves key sequences to operation ids through a prefix
// trie (§4.8, §4.9). The byte decoder is a small state machine in the
// same spirit as a VTE parser: ground state recognizes UTF-8 scalars
// and ESC; CSI/SS3 states accumulate parameters before producing one
// key.
package keys

import "fmt"

// Kind distinguishes the category of a canonical key.
type Kind int

const (
	KindRune Kind = iota
	KindFunction
	KindMouse
)

// Func enumerates the named (non-rune) function keys.
type Func int

const (
	FuncUp Func = iota
	FuncDown
	FuncLeft
	FuncRight
	FuncHome
	FuncEnd
	FuncPageUp
	FuncPageDown
	FuncInsert
	FuncDelete
	FuncTab
	FuncEnter
	FuncBackspace
	FuncEscape
	FuncF1
	FuncF2
	FuncF3
	FuncF4
	FuncF5
	FuncF6
	FuncF7
	FuncF8
	FuncF9
	FuncF10
	FuncF11
	FuncF12
)

var funcNames = map[Func]string{
	FuncUp: "UP", FuncDown: "DOWN", FuncLeft: "LEFT", FuncRight: "RIGHT",
	FuncHome: "HOME", FuncEnd: "END", FuncPageUp: "PAGEUP", FuncPageDown: "PAGEDOWN",
	FuncInsert: "INSERT", FuncDelete: "DELETE", FuncTab: "TAB", FuncEnter: "ENTER",
	FuncBackspace: "BACKSPACE", FuncEscape: "ESCAPE",
	FuncF1: "F1", FuncF2: "F2", FuncF3: "F3", FuncF4: "F4", FuncF5: "F5", FuncF6: "F6",
	FuncF7: "F7", FuncF8: "F8", FuncF9: "F9", FuncF10: "F10", FuncF11: "F11", FuncF12: "F12",
}

// MouseEvent enumerates the SGR mouse report kinds recognized (§4.8).
type MouseEvent int

const (
	MousePress MouseEvent = iota
	MouseRelease
	MouseScrollUp
	MouseScrollDown
	MouseScrollLeft
	MouseScrollRight
)

var mouseNames = map[MouseEvent]string{
	MousePress: "mouse_press", MouseRelease: "mouse_release",
	MouseScrollUp: "mouse_scroll_up", MouseScrollDown: "mouse_scroll_down",
	MouseScrollLeft: "mouse_scroll_left", MouseScrollRight: "mouse_scroll_right",
}

// Key is a single canonical input event: a rune, a named function key,
// or a mouse event, with Ctrl/Meta/Shift modifiers attached uniformly
// regardless of which byte sequence produced it.
type Key struct {
	Kind  Kind
	Rune  rune
	Func  Func
	Mouse MouseEvent
	Row   int // mouse row, 1-based per SGR convention
	Col   int // mouse col, 1-based per SGR convention

	Ctrl  bool
	Meta  bool
	Shift bool
}

// String renders the canonical textual form used by the glossary and
// by config-file binding entries: "C-a", "M-x", "S-PAGEUP",
// "mouse_scroll_up", a plain printable rune as itself ("A"), and an
// unmodified control rune in hex ("U+0001").
func (k Key) String() string {
	prefix := ""
	if k.Ctrl {
		prefix += "C-"
	}
	if k.Meta {
		prefix += "M-"
	}
	if k.Shift {
		prefix += "S-"
	}
	switch k.Kind {
	case KindMouse:
		return prefix + mouseNames[k.Mouse]
	case KindFunction:
		return prefix + funcNames[k.Func]
	default:
		if k.Ctrl || k.Meta || k.Shift {
			return prefix + string(k.Rune)
		}
		if k.Rune < 0x20 || k.Rune == 0x7f {
			return fmt.Sprintf("U+%04X", k.Rune)
		}
		return string(k.Rune)
	}
}

// RuneKey constructs a plain rune key.
func RuneKey(r rune) Key { return Key{Kind: KindRune, Rune: r} }

// Ctrl constructs a control-modified rune key, e.g. Ctrl('g') -> C-g.
func Ctrl(r rune) Key { return Key{Kind: KindRune, Rune: r, Ctrl: true} }

// FuncKey constructs a named function key, optionally modified.
func FuncKey(f Func, ctrl, meta, shift bool) Key {
	return Key{Kind: KindFunction, Func: f, Ctrl: ctrl, Meta: meta, Shift: shift}
}
