package controller

import (
	"github.com/davidledwards/ped/internal/editor"
	"github.com/davidledwards/ped/internal/workspace"
)

// OpFunc is one operation handler, dispatched with a scoped Environment.
type OpFunc func(*Environment) error

// DefaultOps returns the built-in operation table (§4.6, §4.7): the
// registry a fresh binding trie is populated against before any user
// pedrc [bindings] overrides are layered on top.
func DefaultOps() map[string]OpFunc {
	return map[string]OpFunc{
		"move_left":       func(e *Environment) error { e.Editor().MoveLeft(1); return nil },
		"move_right":      func(e *Environment) error { e.Editor().MoveRight(1); return nil },
		"move_up":         func(e *Environment) error { e.Editor().MoveUp(1); return nil },
		"move_down":       func(e *Environment) error { e.Editor().MoveDown(1); return nil },
		"page_up":         func(e *Environment) error { e.Editor().PageUp(); return nil },
		"page_down":       func(e *Environment) error { e.Editor().PageDown(); return nil },
		"move_to_top":     func(e *Environment) error { e.Editor().MoveToTop(); return nil },
		"move_to_bottom":  func(e *Environment) error { e.Editor().MoveToBottom(); return nil },
		"line_start":      func(e *Environment) error { e.Editor().LineStart(); return nil },
		"line_end":        func(e *Environment) error { e.Editor().LineEnd(); return nil },
		"insert_break":    func(e *Environment) error { return e.Editor().InsertBreak() },
		"remove_before":   func(e *Environment) error { return e.Editor().RemoveBefore() },
		"remove_after":    func(e *Environment) error { return e.Editor().RemoveAfter() },
		"remove_to_bol":   func(e *Environment) error { return e.Editor().RemoveToBOL() },
		"remove_to_eol":   func(e *Environment) error { return e.Editor().RemoveToEOL() },
		"set_mark":        func(e *Environment) error { e.Editor().SetMark(); return nil },
		"unset_mark":      func(e *Environment) error { e.Editor().UnsetMark(); return nil },
		"copy":            func(e *Environment) error { e.Editor().Copy(); return nil },
		"cut":             func(e *Environment) error { return e.Editor().Cut() },
		"paste":           func(e *Environment) error { return e.Editor().Paste() },
		"undo":            func(e *Environment) error { return e.Editor().Undo() },
		"redo":            func(e *Environment) error { return e.Editor().Redo() },
		"split_top":       func(e *Environment) error { e.splitWithCurrentContent(e.Workspace().SplitTop); return nil },
		"split_bottom":    func(e *Environment) error { e.splitWithCurrentContent(e.Workspace().SplitBottom); return nil },
		"split_above":     func(e *Environment) error { e.splitWithCurrentContent(e.Workspace().SplitAbove); return nil },
		"split_below":     func(e *Environment) error { e.splitWithCurrentContent(e.Workspace().SplitBelow); return nil },
		"close_current":   func(e *Environment) error { e.closeOrQuit(); return nil },
		"close_others":    func(e *Environment) error { e.Workspace().CloseOthers(); return nil },
		"focus_top":       func(e *Environment) error { e.Workspace().FocusTop(); return nil },
		"focus_bottom":    func(e *Environment) error { e.Workspace().FocusBottom(); return nil },
		"focus_prev":      func(e *Environment) error { e.Workspace().FocusPrev(); return nil },
		"focus_next":      func(e *Environment) error { e.Workspace().FocusNext(); return nil },
		"search_forward":  func(e *Environment) error { e.Editor().BeginSearch(true, editor.SearchLiteral, editor.SearchForward); return nil },
		"search_backward": func(e *Environment) error { e.Editor().BeginSearch(true, editor.SearchLiteral, editor.SearchBackward); return nil },
		"goto_line":       func(e *Environment) error { e.BeginGotoLine(); return nil },
		"quit":            func(e *Environment) error { e.Quit(); return nil },
	}
}

// OpDocs returns a one-line doc string for every operation in
// DefaultOps, keyed the same way. Used by the CLI's --describe
// introspection; an operation with no entry here describes itself with
// its bare name.
func OpDocs() map[string]string {
	return map[string]string{
		"move_left":       "move the cursor one scalar left",
		"move_right":      "move the cursor one scalar right",
		"move_up":         "move the cursor one line up",
		"move_down":       "move the cursor one line down",
		"page_up":         "scroll the viewport up one page",
		"page_down":       "scroll the viewport down one page",
		"move_to_top":     "move to the start of the buffer",
		"move_to_bottom":  "move to the end of the buffer",
		"line_start":      "move to the start of the current line",
		"line_end":        "move to the end of the current line",
		"insert_break":    "insert a line break at the cursor",
		"remove_before":   "delete the scalar before the cursor",
		"remove_after":    "delete the scalar after the cursor",
		"remove_to_bol":   "delete from the cursor to the start of the line",
		"remove_to_eol":   "delete from the cursor to the end of the line",
		"set_mark":        "set the selection mark at the cursor",
		"unset_mark":      "clear the selection mark",
		"copy":            "copy the selection (or current line) to the clipboard",
		"cut":             "cut the selection (or current line) to the clipboard",
		"paste":           "insert the clipboard's content at the cursor",
		"undo":            "reverse the most recent edit",
		"redo":            "replay the most recently undone edit",
		"split_top":       "open the current buffer in a new tile above all others",
		"split_bottom":    "open the current buffer in a new tile below all others",
		"split_above":     "open the current buffer in a new tile directly above this one",
		"split_below":     "open the current buffer in a new tile directly below this one",
		"close_current":   "close the focused tile (quits if it's the last one)",
		"close_others":    "collapse the workspace to just the focused tile",
		"focus_top":       "move focus to the topmost tile",
		"focus_bottom":    "move focus to the bottommost tile",
		"focus_prev":      "move focus to the previous tile",
		"focus_next":      "move focus to the next tile",
		"search_forward":  "begin an incremental search forward from the cursor",
		"search_backward": "begin an incremental search backward from the cursor",
		"goto_line":       "jump to a line number entered digit by digit",
		"quit":            "quit the editor",
	}
}

// splitWithCurrentContent opens a second view of the focused buffer
// (the common "split" semantics: same editor, new window), via one of
// the four workspace split directions.
func (e *Environment) splitWithCurrentContent(split func(*editor.Editor)) {
	split(e.Editor())
}

func (e *Environment) closeOrQuit() {
	if !e.Workspace().CloseCurrent() {
		e.Quit()
	}
}
