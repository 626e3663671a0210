package controller

import (
	"github.com/davidledwards/ped/internal/editor"
	"github.com/davidledwards/ped/internal/inquire"
	"github.com/davidledwards/ped/internal/workspace"
)

// Environment is the scoped access an operation handler receives
// (§4.11): the focused editor, workspace mutation methods, the echo
// row, and the inquirer — never the whole controller, so a handler
// cannot reach into dispatch internals.
type Environment struct {
	ws   *workspace.Workspace
	ctrl *Controller
}

// Editor returns the currently focused buffer's editor.
func (e *Environment) Editor() *editor.Editor { return e.ws.Focus().Editor }

// Workspace exposes the tiling operations (§4.7).
func (e *Environment) Workspace() *workspace.Workspace { return e.ws }

// Echo sets the message shown in the echo row until the next
// keystroke is processed.
func (e *Environment) Echo(msg string) { e.ctrl.echo = msg }

// Ask starts a modal question, routing subsequent keys to it instead
// of the binding trie until it resolves.
func (e *Environment) Ask(prompt, initial string, completer inquire.Completer) *inquire.Question {
	q := inquire.Ask(prompt, initial, completer)
	e.ctrl.question = q
	return q
}

// BeginGotoLine starts the digit-accumulating goto_line sub-loop over
// the focused editor, routing subsequent digit keys to it instead of
// the binding trie until Enter confirms or Escape/C-g cancels back to
// the current line.
func (e *Environment) BeginGotoLine() {
	ed := e.Editor()
	e.ctrl.gotoLine = &gotoLineState{ed: ed, original: ed.CursorLine()}
	e.ctrl.echo = "Goto line: "
}

// Quit requests the controller's main loop to exit after this
// operation returns.
func (e *Environment) Quit() { e.ctrl.quitting = true }

// OpenInNewTile creates a fresh editor over content and attaches it via
// one of the workspace's split operations (e.g. e.Workspace().SplitBottom).
func (e *Environment) OpenInNewTile(name string, content []rune, origin editor.Origin, split func(*editor.Editor)) {
	ed := editor.New(name, content, origin)
	split(ed)
}
