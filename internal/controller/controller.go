// Package controller implements the main loop described in §4.11:
// drain a keystroke, resolve it through the binding trie, dispatch to
// an operation with scoped environment access, re-render, and spend
// idle time on background tokenization. It owns the single points of
// suspension named in §5 (terminal read/write) and the cancellation
// semantics of C-g and window resize.
package controller

import (
	"strconv"
	"time"

	"github.com/davidledwards/ped/internal/canvas"
	"github.com/davidledwards/ped/internal/editor"
	"github.com/davidledwards/ped/internal/errs"
	"github.com/davidledwards/ped/internal/inquire"
	"github.com/davidledwards/ped/internal/keys"
	"github.com/davidledwards/ped/internal/logging"
	"github.com/davidledwards/ped/internal/syntax"
	"github.com/davidledwards/ped/internal/window"
	"github.com/davidledwards/ped/internal/workspace"
)

// IdleSliceBudget bounds how long one background-tokenization tick may
// run before yielding back to the main loop, keeping keystroke latency
// under the §9 Design Notes target of 10ms even on a 100k-line buffer.
const IdleSliceBudget = 8 * time.Millisecond

// RuleLookup resolves the syntax rule set registered for a name
// (wired by the config loader at startup).
type RuleLookup func(name string) (syntax.RuleSet, bool)

// Controller is the synchronous dispatch loop.
type Controller struct {
	ws      *workspace.Workspace
	trie    *keys.Trie
	ops     map[string]OpFunc
	decoder *keys.Decoder
	rules   RuleLookup

	pending  []keys.Key
	echo     string
	question *inquire.Question

	// scans tracks one in-progress background rescan per editor that
	// has outrun a single idle slice, so the next tick resumes it
	// instead of restarting from scratch.
	scans map[*editor.Editor]*scanState

	gotoLine *gotoLineState

	trackLateral bool
	quitting     bool
}

// gotoLineState is the digit-accumulating goto_line sub-loop (§4.6,
// spec scenario: "rerender incrementally so that each entered digit
// updates the target"). It lives in the controller rather than the
// inquirer since it needs to move the focused editor's viewport after
// every digit, not just echo typed text.
type gotoLineState struct {
	ed       *editor.Editor
	digits   string
	original int // editor's line before the sub-loop started, for cancel
}

// scanState pairs a resumable tokenizer scan with the edit generation
// the scanned text was snapshotted at, so a mutation arriving between
// slices can be detected and the stale scan discarded.
type scanState struct {
	scanner *syntax.Scanner
	gen     int
}

// New creates a controller over ws, with trie resolving canonical key
// sequences to operation names registered in ops.
func New(ws *workspace.Workspace, trie *keys.Trie, ops map[string]OpFunc, rules RuleLookup) *Controller {
	return &Controller{
		ws:           ws,
		trie:         trie,
		ops:          ops,
		decoder:      keys.NewDecoder(),
		rules:        rules,
		trackLateral: true,
	}
}

// SetTrackLateral toggles whether lateral mouse-scroll events are
// suppressed (§6 --[no-]track-lateral).
func (c *Controller) SetTrackLateral(v bool) { c.trackLateral = v }

// Quitting reports whether the main loop should exit.
func (c *Controller) Quitting() bool { return c.quitting }

// EchoMessage returns the message currently owed to the echo row (set
// by Echo, an unbound-key notice, or an operation failure).
func (c *Controller) EchoMessage() string { return c.echo }

// Question returns the in-progress modal question, or nil.
func (c *Controller) Question() *inquire.Question { return c.question }

// FeedBytes decodes one terminal read and processes every key it
// produced in order (§5: every keystroke is fully processed before the
// next is read).
func (c *Controller) FeedBytes(data []byte) {
	for _, k := range c.decoder.FeedBytes(data) {
		c.HandleKey(k)
	}
}

// PollIdle should be called by the caller's read-timeout loop when no
// byte arrived within the poll interval; it resolves a timed-out ESC
// and, if nothing else is pending, runs one idle slice.
func (c *Controller) PollIdle() {
	if esc := c.decoder.EscTimedOut(); len(esc) > 0 {
		for _, k := range esc {
			c.HandleKey(k)
		}
		return
	}
	if !c.decoder.Pending() && c.question == nil {
		c.tick()
	}
}

// HandleKey processes one canonical key: routed to the active
// question if one is open, otherwise accumulated against the binding
// trie and dispatched on a complete match.
func (c *Controller) HandleKey(k keys.Key) {
	c.echo = ""

	if k.IsLateral() && !c.trackLateral {
		return
	}

	if keys.IsReserved(k) && k.String() == "C-g" {
		c.cancel()
		return
	}

	if keys.IsReserved(k) && k.String() == "C-q" {
		c.quitting = true
		return
	}

	if c.question != nil {
		outcome := c.question.HandleKey(k)
		if outcome != inquire.Pending {
			c.question = nil
		}
		return
	}

	if c.handleGotoLineKey(k) {
		return
	}

	if c.handleSearchKey(k) {
		return
	}

	candidate := make([]keys.Key, len(c.pending)+1)
	copy(candidate, c.pending)
	candidate[len(c.pending)] = k

	if k.Kind == keys.KindRune && !k.Ctrl && !k.Meta && len(c.pending) == 0 {
		if res, _ := c.trie.Resolve(candidate); res == keys.Unbound {
			c.insertRune(k.Rune)
			return
		}
	}

	c.pending = candidate
	res, op := c.trie.Resolve(c.pending)
	switch res {
	case keys.Incomplete:
		return
	case keys.Bound:
		c.pending = nil
		c.Dispatch(op)
	case keys.Unbound:
		c.pending = nil
		c.echo = "unbound key sequence"
	}
}

// handleSearchKey routes keys to the focused editor's incremental
// search state machine while it is not Idle (§4.6): typed runes extend
// the search term, TAB/S-TAB step through matches, Enter accepts.
// C-g is handled earlier by cancel(). Reports whether it consumed k.
func (c *Controller) handleSearchKey(k keys.Key) bool {
	ed := c.ws.Focus().Editor
	st := ed.SearchStateValue()
	if st.Phase == editor.SearchIdle {
		return false
	}
	switch {
	case k.Kind == keys.KindFunction && k.Func == keys.FuncEnter:
		ed.AcceptSearch()
	case k.Kind == keys.KindFunction && k.Func == keys.FuncTab && k.Shift:
		ed.PrevMatch()
	case k.Kind == keys.KindFunction && k.Func == keys.FuncTab:
		ed.NextMatch()
	case k.Kind == keys.KindFunction && k.Func == keys.FuncBackspace:
		term := st.Term
		if len(term) > 0 {
			ed.TypeSearchTerm(term[:len(term)-1])
		}
	case k.Kind == keys.KindRune && !k.Ctrl && !k.Meta:
		ed.TypeSearchTerm(st.Term + string(k.Rune))
	default:
		return false
	}
	return true
}

// handleGotoLineKey routes keys to the in-progress goto_line sub-loop
// while one is active (spec.md's goto_line scenario: "rerender
// incrementally so that each entered digit updates the target"):
// digits accumulate and immediately reposition the editor's viewport,
// Backspace removes the last digit, Enter confirms and ends the
// sub-loop in place, Escape cancels back to the original line.
// Reports whether it consumed k.
func (c *Controller) handleGotoLineKey(k keys.Key) bool {
	g := c.gotoLine
	if g == nil {
		return false
	}
	switch {
	case k.Kind == keys.KindFunction && k.Func == keys.FuncEnter:
		c.gotoLine = nil
	case k.Kind == keys.KindFunction && k.Func == keys.FuncEscape:
		g.ed.GotoLine(g.original)
		c.gotoLine = nil
		c.echo = "cancelled"
	case k.Kind == keys.KindFunction && k.Func == keys.FuncBackspace:
		if len(g.digits) > 0 {
			g.digits = g.digits[:len(g.digits)-1]
		}
		c.applyGotoLine(g)
	case k.Kind == keys.KindRune && !k.Ctrl && !k.Meta && k.Rune >= '0' && k.Rune <= '9':
		g.digits += string(k.Rune)
		c.applyGotoLine(g)
	default:
		return false
	}
	return true
}

func (c *Controller) applyGotoLine(g *gotoLineState) {
	n, _ := strconv.Atoi(g.digits)
	g.ed.GotoLine(n)
	c.echo = "Goto line: " + g.digits
}

func (c *Controller) insertRune(r rune) {
	ed := c.ws.Focus().Editor
	if r == '\r' || r == '\n' {
		if err := ed.InsertBreak(); err != nil {
			c.echo = err.Error()
		}
		return
	}
	if err := ed.InsertScalar(r); err != nil {
		c.echo = err.Error()
	}
}

func (c *Controller) cancel() {
	c.pending = nil
	if c.question != nil {
		c.question = nil
		c.echo = "cancelled"
		return
	}
	if c.gotoLine != nil {
		c.gotoLine.ed.GotoLine(c.gotoLine.original)
		c.gotoLine = nil
		c.echo = "cancelled"
		return
	}
	ed := c.ws.Focus().Editor
	if ed.SearchStateValue().Phase != editor.SearchIdle {
		ed.CancelSearch()
	}
}

// Dispatch runs the named operation with an environment scoped to the
// focused tile. A failure surfaces to the echo row; editor state is
// left unchanged per §7's local-recovery policy.
func (c *Controller) Dispatch(op string) error {
	fn, ok := c.ops[op]
	if !ok {
		c.echo = "unknown operation: " + op
		return errs.Newf(errs.Internal, "controller.Dispatch", "unknown operation %q", op)
	}
	env := &Environment{ws: c.ws, ctrl: c}
	logging.Log().Debug("dispatch", "op", op)
	if err := fn(env); err != nil {
		c.echo = err.Error()
		return err
	}
	return nil
}

// Render paints every tile's window and banner row into cv, returning
// the hardware cursor position for the focused tile.
func (c *Controller) Render(cv *canvas.Canvas) (cursorRow, cursorCol int) {
	for i, t := range c.ws.Tiles() {
		row, col := t.Window.Render(cv, t.Editor, func(pos int) int { return t.Editor.LineNumberAt(pos) + 1 })
		window.BannerRow(cv, t.Window.OriginRow+t.Window.Rows, t.Window.OriginCol, t.Window.Cols,
			t.Editor, t.Editor.CursorLine()+1, t.Editor.CursorColumn()+1, scalarAtCursor(t.Editor), t.Window.BannerActive)
		if i == c.ws.FocusIndex() {
			cursorRow, cursorCol = row, col
		}
	}
	c.renderEcho(cv)
	return cursorRow, cursorCol
}

func scalarAtCursor(ed *editor.Editor) rune {
	pos := ed.CursorPos()
	if pos >= ed.Len() {
		return 0
	}
	return ed.ScalarAt(pos)
}

func (c *Controller) renderEcho(cv *canvas.Canvas) {
	row := c.ws.EchoRow()
	text := c.echo
	if c.question != nil {
		text = c.question.Prompt + c.question.Value()
		if hint := c.question.RenderHint(); hint != "" {
			text += "  " + hint
		}
	}
	cv.Fill(canvas.Rect{Row0: row, Col0: 0, Row1: row + 1, Col1: cv.Cols()}, canvas.Cell{Scalar: ' ', FG: canvas.DefaultColor, BG: canvas.DefaultColor})
	for i, r := range []rune(text) {
		if i >= cv.Cols() {
			break
		}
		cv.WriteAt(row, i, canvas.Cell{Scalar: r, FG: canvas.DefaultColor, BG: canvas.DefaultColor})
	}
}

// tick runs one bounded slice of background tokenization for the first
// dirty editor in tile order that has a rule set, resuming that
// editor's in-progress rescan or, if it has none, starting one. A
// single Step call never runs longer than IdleSliceBudget, so one tick
// never blocks the next keystroke's read regardless of buffer size
// (§4.11/§9).
func (c *Controller) tick() {
	if c.rules == nil {
		return
	}
	if c.scans == nil {
		c.scans = make(map[*editor.Editor]*scanState)
	}
	for _, t := range c.ws.Tiles() {
		ed := t.Editor
		if !ed.NeedsRescan() {
			delete(c.scans, ed)
			continue
		}
		st, ok := c.scans[ed]
		if ok && st.gen != ed.EditGen() {
			// Buffer mutated since this scan started; its snapshot is
			// stale, so drop it and start over against current text.
			delete(c.scans, ed)
			ok = false
		}
		if !ok {
			ruleSet, lookupOK := c.rules(ed.SyntaxName())
			if !lookupOK {
				continue
			}
			job := syntax.NewJob()
			logging.Log().Debug("rescan start", "job", job.ID, "buffer", ed.Name())
			st = &scanState{scanner: syntax.NewScanner(job, ed.Scalars(), ruleSet), gen: ed.EditGen()}
			c.scans[ed] = st
		}
		start := time.Now()
		if st.scanner.Step(IdleSliceBudget) {
			ed.ReplaceSpans(st.scanner.Spans())
			delete(c.scans, ed)
			logging.Log().Debug("rescan done", "job", st.scanner.Job().ID, "elapsed", time.Since(start))
		} else {
			logging.Log().Debug("rescan slice", "job", st.scanner.Job().ID, "elapsed", time.Since(start))
		}
		return
	}
}
