// Package editor implements the editor state machine: the coupling of
// a gap buffer, its span list, mark/selection, undo/redo log, and the
// two rendering reference points (top-of-display line, cursor line)
// that keep all movement and mutation operations local to the visible
// region (§4.6).
package editor

import (
	"github.com/davidledwards/ped/internal/errs"
	"github.com/davidledwards/ped/internal/span"

	gbuf "github.com/davidledwards/ped/internal/buffer"
)

// EOLMode selects the line-ending written on save.
type EOLMode int

const (
	EOLLF EOLMode = iota
	EOLCRLF
)

// TabMode selects how a tab key inserts.
type TabMode int

const (
	TabHard TabMode = iota // literal '\t'
	TabSoft                // TabSize spaces
)

// Origin tags where a buffer's content came from, modeling the
// ephemeral-buffer lifecycle (§3 Lifecycles) as data rather than a
// special-cased type.
type Origin int

const (
	OriginFile Origin = iota
	OriginScratch
	OriginEphemeral
)

// Ref is a line reference: the first scalar of a logical line plus
// that line's 0-based number.
type Ref struct {
	Pos  int
	Line int
}

// Editor couples one buffer with the cursor, viewport anchors, mark,
// undo/redo log, and tokenizer handle described in §3/§4.6.
type Editor struct {
	buf   *gbuf.Buffer
	spans *span.List

	name       string
	syntaxName string
	origin     Origin
	readonly   bool
	dirty      bool

	curPos int
	topRef Ref
	curRef Ref

	mark    int
	hasMark bool

	desiredCol int
	viewRows   int

	undoLog []Record
	redo    []Record

	eolMode EOLMode
	tabMode TabMode
	tabSize int

	defaultColor int

	search SearchState

	// clipboard is the editor-local register used by copy/cut/paste
	// when no global-clipboard variant is invoked (§4.6).
	clipboard []rune

	// editGen counts mutations, letting a background rescan spanning
	// several idle slices (internal/controller's tick) detect that the
	// text it snapshotted at scan start went stale partway through and
	// must be restarted rather than installed.
	editGen int
}

// New creates an editor over initial content.
func New(name string, content []rune, origin Origin) *Editor {
	return &Editor{
		buf:      gbuf.FromRunes(content),
		spans:    span.New(len(content), 0),
		name:     name,
		origin:   origin,
		tabSize:  4,
		viewRows: 24,
		readonly: origin == OriginEphemeral,
	}
}

// --- window.Source interface (decouples internal/window from editor) ---

func (e *Editor) Len() int              { return e.buf.Len() }
func (e *Editor) ScalarAt(pos int) rune { return e.buf.Get(pos) }
func (e *Editor) ColorAt(pos int) int   { return e.spans.ColorAt(pos) }
func (e *Editor) CursorPos() int        { return e.curPos }
func (e *Editor) TopRefPos() int        { return e.topRef.Pos }
func (e *Editor) MarkPos() (int, bool)  { return e.mark, e.hasMark }
func (e *Editor) Name() string          { return e.name }
func (e *Editor) SyntaxName() string    { return e.syntaxName }
func (e *Editor) Dirty() bool           { return e.dirty }
func (e *Editor) Readonly() bool        { return e.readonly }

func (e *Editor) EOLMark() string {
	if e.eolMode == EOLCRLF {
		return "CRLF"
	}
	return "LF"
}

func (e *Editor) TabMark() string {
	if e.tabMode == TabSoft {
		return "SOFT"
	}
	return "HARD"
}

// SetSyntax assigns the syntax name used for tokenizing/banner display.
func (e *Editor) SetSyntax(name string, defaultColor int) {
	e.syntaxName = name
	e.defaultColor = defaultColor
	e.spans.MarkDirty()
}

// NeedsRescan reports whether the span list owes a full tokenizer pass.
func (e *Editor) NeedsRescan() bool { return e.spans.Dirty() }

// ReplaceSpans atomically installs a freshly tokenized span list,
// called by the controller when a background rescan completes.
func (e *Editor) ReplaceSpans(spans []span.Span) { e.spans.Replace(spans) }

// DefaultColor returns the color assigned to unmatched text.
func (e *Editor) DefaultColor() int { return e.defaultColor }

// Scalars returns the full buffer content.
func (e *Editor) Scalars() []rune { return e.buf.Scalars() }

// SetViewRows tells the editor how many content rows its window shows,
// used by scrolling and paging.
func (e *Editor) SetViewRows(rows int) { e.viewRows = rows }

// CursorPos/TopRef/CurRef line numbers, for the banner and goto_line.
func (e *Editor) CursorLine() int { return e.curRef.Line }
func (e *Editor) TopLine() int    { return e.topRef.Line }

// LineNumberAt returns the 0-based logical line number containing pos,
// used by the window's line-number margin (§4.5) for rows between
// top_ref and cur_ref that neither anchor directly names.
func (e *Editor) LineNumberAt(pos int) int { return e.refAt(pos).Line }

// CursorColumn returns the 0-based column (scalar offset from the
// start of the cursor's line).
func (e *Editor) CursorColumn() int { return e.curPos - e.curRef.Pos }

func isNewline(r rune) bool { return r == '\n' }

// lineStart returns the position of the first scalar of the line
// containing pos (0 if pos is on the first line).
func (e *Editor) lineStart(pos int) int {
	i := e.buf.FindBackward(pos, isNewline)
	if i < 0 {
		return 0
	}
	return i + 1
}

// lineEnd returns the position of the '\n' terminating the line
// containing pos, or buf.Len() if pos is on the last, unterminated line.
func (e *Editor) lineEnd(pos int) int {
	return e.buf.FindForward(pos, isNewline)
}

// refAt computes a Ref for pos by scanning from the nearer of curRef
// or topRef — keeps recomputation local to the distance traveled
// rather than rescanning from the start of the buffer (§9 Design Notes).
func (e *Editor) refAt(pos int) Ref {
	from := e.curRef
	if absDiff(e.topRef.Pos, pos) < absDiff(e.curRef.Pos, pos) {
		from = e.topRef
	}
	line := from.Line
	if pos >= from.Pos {
		for p := from.Pos; p < pos; {
			nl := e.buf.FindForward(p, isNewline)
			if nl >= pos {
				break
			}
			line++
			p = nl + 1
		}
	} else {
		for p := from.Pos; p > pos; {
			nl := e.buf.FindBackward(p, isNewline)
			if nl < pos {
				break
			}
			line--
			p = nl
		}
	}
	return Ref{Pos: e.lineStart(pos), Line: line}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// shiftForInsert/shiftForRemove keep a stale position reference (topRef,
// mark) consistent with a mutation that happened at a different point
// than the cursor, e.g. a selection cut that starts before the mark.
func shiftForInsert(pos, at, n int) int {
	if pos >= at {
		return pos + n
	}
	return pos
}

func shiftForRemove(pos, at, k int) int {
	if pos >= at+k {
		return pos - k
	}
	if pos >= at {
		return at
	}
	return pos
}

// reconcileViewport keeps topRef within [curRef.Line, curRef.Line] to
// [curRef.Line - (viewRows-1), curRef.Line] after a cursor move: if the
// cursor scrolled out of view, advance or retreat top_ref by exactly
// the overflow (§4.6 move_up/move_down contract).
func (e *Editor) reconcileViewport() {
	if e.curRef.Line < e.topRef.Line {
		e.topRef = e.curRef
		return
	}
	if e.viewRows > 0 && e.curRef.Line >= e.topRef.Line+e.viewRows {
		target := e.curRef.Line - e.viewRows + 1
		e.topRef = e.refAt(e.posAtLine(target))
	}
}

// posAtLine returns the start position of logical line `line`,
// scanning from the nearer of topRef/curRef.
func (e *Editor) posAtLine(line int) int {
	from := e.topRef
	if absDiff(e.curRef.Line, line) < absDiff(e.topRef.Line, line) {
		from = e.curRef
	}
	pos := from.Pos
	if line > from.Line {
		for l := from.Line; l < line; l++ {
			nl := e.buf.FindForward(pos, isNewline)
			if nl >= e.buf.Len() {
				return pos
			}
			pos = nl + 1
		}
	} else {
		for l := from.Line; l > line; l-- {
			if pos == 0 {
				return 0
			}
			nl := e.buf.FindBackward(pos, isNewline)
			if nl < 0 {
				return 0
			}
			pos = e.lineStart(nl)
		}
	}
	return pos
}

// --- movement primitives ---

func (e *Editor) MoveLeft(count int) {
	for i := 0; i < count && e.curPos > 0; i++ {
		e.curPos--
		if e.buf.Get(e.curPos) == '\n' {
			e.curRef = e.refAt(e.curPos)
		}
	}
	e.desiredCol = e.CursorColumn()
	e.reconcileViewport()
}

func (e *Editor) MoveRight(count int) {
	n := e.buf.Len()
	for i := 0; i < count && e.curPos < n; i++ {
		c := e.buf.Get(e.curPos)
		e.curPos++
		if c == '\n' {
			e.curRef = Ref{Pos: e.curPos, Line: e.curRef.Line + 1}
		}
	}
	e.desiredCol = e.CursorColumn()
	e.reconcileViewport()
}

func (e *Editor) posOnLineAtColumn(lineStart, col int) int {
	end := e.lineEnd(lineStart)
	pos := lineStart + col
	if pos > end {
		pos = end
	}
	return pos
}

func (e *Editor) MoveDown(count int) {
	col := e.curPos - e.curRef.Pos
	if col > e.desiredCol {
		e.desiredCol = col
	}
	for i := 0; i < count; i++ {
		curLineStart := e.curRef.Pos
		nl := e.lineEnd(curLineStart)
		if nl >= e.buf.Len() {
			break
		}
		nextLineStart := nl + 1
		e.curRef = Ref{Pos: nextLineStart, Line: e.curRef.Line + 1}
		e.curPos = e.posOnLineAtColumn(nextLineStart, e.desiredCol)
	}
	e.reconcileViewport()
}

func (e *Editor) MoveUp(count int) {
	for i := 0; i < count; i++ {
		if e.curRef.Pos == 0 {
			break
		}
		col := e.curPos - e.curRef.Pos
		if col > e.desiredCol {
			e.desiredCol = col
		}
		prevLineStart := e.lineStart(e.curRef.Pos - 1)
		e.curRef = Ref{Pos: prevLineStart, Line: e.curRef.Line - 1}
		e.curPos = e.posOnLineAtColumn(prevLineStart, e.desiredCol)
	}
	e.reconcileViewport()
}

func (e *Editor) PageDown() {
	delta := e.viewRows - 1
	if delta < 1 {
		delta = 1
	}
	target := e.topRef.Line + delta
	e.topRef = Ref{Pos: e.posAtLine(target), Line: target}
	e.curRef = e.topRef
	e.curPos = e.posOnLineAtColumn(e.curRef.Pos, e.desiredCol)
}

func (e *Editor) PageUp() {
	delta := e.viewRows - 1
	if delta < 1 {
		delta = 1
	}
	target := e.topRef.Line - delta
	if target < 0 {
		target = 0
	}
	e.topRef = Ref{Pos: e.posAtLine(target), Line: target}
	e.curRef = e.topRef
	e.curPos = e.posOnLineAtColumn(e.curRef.Pos, e.desiredCol)
}

func (e *Editor) MoveToTop() {
	e.topRef = Ref{Pos: 0, Line: 0}
	e.curRef = e.topRef
	e.curPos = 0
	e.desiredCol = 0
}

func (e *Editor) MoveToBottom() {
	n := e.buf.Len()
	last := e.lineStart(n)
	e.curRef = e.refAt(last)
	e.curPos = n
	e.desiredCol = e.CursorColumn()
	e.reconcileViewport()
}

func (e *Editor) LineStart() {
	e.curPos = e.curRef.Pos
	e.desiredCol = 0
}

func (e *Editor) LineEnd() {
	e.curPos = e.lineEnd(e.curRef.Pos)
	e.desiredCol = e.CursorColumn()
}

// GotoLine repositions both refs to logical line n (0-based), centering
// the viewport per §8 scenario 3:
// top_ref.line_number = n - floor((rows-1)/2), clamped to >= 0.
func (e *Editor) GotoLine(n int) {
	if n < 0 {
		n = 0
	}
	pos := e.posAtLine(n)
	e.curRef = Ref{Pos: e.lineStart(pos), Line: n}
	e.curPos = e.curRef.Pos
	e.desiredCol = 0

	top := n - (e.viewRows-1)/2
	if top < 0 {
		top = 0
	}
	e.topRef = Ref{Pos: e.posAtLine(top), Line: top}
}

// --- mutation primitives ---

func (e *Editor) checkWritable() error {
	if e.readonly {
		return errs.ErrReadonly
	}
	return nil
}

// pushUndo appends r to the log, coalescing it into the preceding
// entry when both are inserts and r picks up exactly where the last
// one left off — so a contiguous run of typed characters undoes as
// one step (§8 scenario 1: typing "abc" one rune at a time leaves a
// single insert entry). Removals are never coalesced with each other
// or with a preceding insert, so each deletion remains its own undo
// step.
func (e *Editor) pushUndo(r Record) {
	if r.Kind == RecordInsert && len(e.undoLog) > 0 {
		last := &e.undoLog[len(e.undoLog)-1]
		if last.Kind == RecordInsert && last.Pos+len(last.Scalars) == r.Pos {
			last.Scalars = append(last.Scalars, r.Scalars...)
			e.redo = nil
			return
		}
	}
	e.undoLog = append(e.undoLog, r)
	e.redo = nil
}

func (e *Editor) markMutated() {
	e.dirty = true
	e.spans.MarkDirty()
	e.editGen++
}

// EditGen returns the count of mutations applied so far; a background
// rescan compares this against its snapshot's generation to detect
// that the buffer changed underneath it mid-scan.
func (e *Editor) EditGen() int { return e.editGen }

// InsertScalar inserts one scalar at the cursor and advances the cursor.
func (e *Editor) InsertScalar(c rune) error {
	return e.InsertScalars([]rune{c})
}

// InsertScalars inserts scalars at the cursor, expanding the span
// covering the cursor and recording an undo entry.
func (e *Editor) InsertScalars(scalars []rune) error {
	if err := e.checkWritable(); err != nil {
		return err
	}
	if len(scalars) == 0 {
		return nil
	}
	preDirty := e.dirty
	at := e.curPos
	e.buf.InsertSlice(at, scalars)
	e.spans.ExpandAt(at, len(scalars), e.defaultColor)
	e.pushUndo(Record{Kind: RecordInsert, Pos: at, Scalars: append([]rune{}, scalars...), PreDirty: preDirty})

	if e.hasMark {
		e.mark = shiftForInsert(e.mark, at, len(scalars))
	}
	if e.topRef.Pos > at {
		e.topRef.Pos += len(scalars)
	}

	newlines := 0
	for _, r := range scalars {
		if r == '\n' {
			newlines++
		}
	}
	e.curPos = at + len(scalars)
	if newlines > 0 {
		e.curRef = e.refAt(e.lineStart(e.curPos))
		e.topRef = e.refAt(e.topRef.Pos)
	}
	e.desiredCol = e.CursorColumn()
	e.markMutated()
	e.reconcileViewport()
	return nil
}

// InsertBreak inserts a line break at the cursor.
func (e *Editor) InsertBreak() error { return e.InsertScalar('\n') }

func (e *Editor) removeRange(pos, k int) ([]rune, error) {
	if err := e.checkWritable(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}
	preDirty := e.dirty
	removed := e.buf.Remove(pos, k)
	k = len(removed)
	e.spans.CollapseAt(pos, k)
	e.pushUndo(Record{Kind: RecordRemove, Pos: pos, Scalars: removed, PreDirty: preDirty})

	e.curPos = shiftForRemove(e.curPos, pos, k)
	if e.hasMark {
		e.mark = shiftForRemove(e.mark, pos, k)
	}
	e.topRef.Pos = shiftForRemove(e.topRef.Pos, pos, k)

	e.curRef = e.refAt(e.lineStart(e.curPos))
	e.topRef = e.refAt(e.lineStart(e.topRef.Pos))
	e.desiredCol = e.CursorColumn()
	e.markMutated()
	e.reconcileViewport()
	return removed, nil
}

// RemoveBefore deletes the scalar before the cursor (backspace).
func (e *Editor) RemoveBefore() error {
	if e.curPos == 0 {
		return e.checkWritable()
	}
	_, err := e.removeRange(e.curPos-1, 1)
	return err
}

// RemoveAfter deletes the scalar at the cursor (delete-forward).
func (e *Editor) RemoveAfter() error {
	if e.curPos >= e.buf.Len() {
		return e.checkWritable()
	}
	_, err := e.removeRange(e.curPos, 1)
	return err
}

// RemoveToBOL deletes from the start of the line to the cursor.
func (e *Editor) RemoveToBOL() error {
	start := e.curRef.Pos
	if start == e.curPos {
		return e.checkWritable()
	}
	_, err := e.removeRange(start, e.curPos-start)
	return err
}

// RemoveToEOL deletes from the cursor to the end of the line.
func (e *Editor) RemoveToEOL() error {
	end := e.lineEnd(e.curPos)
	if end == e.curPos {
		return e.checkWritable()
	}
	_, err := e.removeRange(e.curPos, end-e.curPos)
	return err
}

// --- mark / selection ---

func (e *Editor) SetMark()   { e.mark, e.hasMark = e.curPos, true }
func (e *Editor) UnsetMark() { e.hasMark = false }

// selection returns [lo, hi) for the mark/cursor pair, or the current
// line if no mark is set (§4.6: "a cut/copy without a mark operates on
// the current line").
func (e *Editor) selection() (lo, hi int) {
	if e.hasMark {
		lo, hi = e.mark, e.curPos
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi
	}
	lo = e.curRef.Pos
	hi = e.lineEnd(lo)
	if hi < e.buf.Len() {
		hi++ // include the line's terminating '\n'
	}
	return lo, hi
}

// Copy copies the selection (or current line) into the local register.
func (e *Editor) Copy() {
	lo, hi := e.selection()
	e.clipboard = e.buf.Substring(lo, hi-lo)
}

// Cut removes the selection (or current line) into the local register.
func (e *Editor) Cut() error {
	lo, hi := e.selection()
	removed, err := e.removeRange(lo, hi-lo)
	if err != nil {
		return err
	}
	e.clipboard = removed
	e.hasMark = false
	return nil
}

// Paste inserts the local register's content at the cursor.
func (e *Editor) Paste() error {
	if len(e.clipboard) == 0 {
		return nil
	}
	return e.InsertScalars(e.clipboard)
}

// ClipboardContent exposes the local register, used by the controller
// to route a global-clipboard paste/copy variant through
// internal/clipboard.
func (e *Editor) ClipboardContent() []rune { return e.clipboard }

// SetClipboardContent overwrites the local register (used when pasting
// from the system clipboard).
func (e *Editor) SetClipboardContent(s []rune) { e.clipboard = s }

// --- undo / redo ---

// RecordKind distinguishes an insertion from a removal in the undo log.
type RecordKind int

const (
	RecordInsert RecordKind = iota
	RecordRemove
)

// Record is one reversible change (§3 Undo log).
type Record struct {
	Kind     RecordKind
	Pos      int
	Scalars  []rune
	PreDirty bool
}

// Undo reverses the most recent log entry; a no-op on an empty log.
func (e *Editor) Undo() error {
	if len(e.undoLog) == 0 {
		return nil
	}
	r := e.undoLog[len(e.undoLog)-1]
	e.undoLog = e.undoLog[:len(e.undoLog)-1]

	switch r.Kind {
	case RecordInsert:
		e.buf.Remove(r.Pos, len(r.Scalars))
		e.spans.CollapseAt(r.Pos, len(r.Scalars))
		e.curPos = r.Pos
	case RecordRemove:
		e.buf.InsertSlice(r.Pos, r.Scalars)
		e.spans.ExpandAt(r.Pos, len(r.Scalars), e.defaultColor)
		e.curPos = r.Pos + len(r.Scalars)
	}
	e.redo = append(e.redo, r)
	e.dirty = r.PreDirty
	e.spans.MarkDirty()
	e.editGen++
	e.curRef = e.refAt(e.lineStart(e.curPos))
	e.desiredCol = e.CursorColumn()
	e.reconcileViewport()
	return nil
}

// Redo replays the most recently undone entry; a no-op on an empty
// redo stack.
func (e *Editor) Redo() error {
	if len(e.redo) == 0 {
		return nil
	}
	r := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]

	preDirty := e.dirty
	switch r.Kind {
	case RecordInsert:
		e.buf.InsertSlice(r.Pos, r.Scalars)
		e.spans.ExpandAt(r.Pos, len(r.Scalars), e.defaultColor)
		e.curPos = r.Pos + len(r.Scalars)
	case RecordRemove:
		e.buf.Remove(r.Pos, len(r.Scalars))
		e.spans.CollapseAt(r.Pos, len(r.Scalars))
		e.curPos = r.Pos
	}
	e.undoLog = append(e.undoLog, Record{Kind: r.Kind, Pos: r.Pos, Scalars: r.Scalars, PreDirty: preDirty})
	e.dirty = true
	e.spans.MarkDirty()
	e.editGen++
	e.curRef = e.refAt(e.lineStart(e.curPos))
	e.desiredCol = e.CursorColumn()
	e.reconcileViewport()
	return nil
}

// UndoLen reports the number of entries in the undo log (used by the
// end-to-end scenario checks in §8).
func (e *Editor) UndoLen() int { return len(e.undoLog) }

// SetEOLMode / SetTabMode / SetTabSize configure persistence (§6).
func (e *Editor) SetEOLMode(m EOLMode)   { e.eolMode = m }
func (e *Editor) SetTabMode(m TabMode)   { e.tabMode = m }
func (e *Editor) SetTabSize(n int)       { e.tabSize = n }
func (e *Editor) TabSize() int           { return e.tabSize }
func (e *Editor) EOLMode() EOLMode       { return e.eolMode }
func (e *Editor) TabModeValue() TabMode  { return e.tabMode }
func (e *Editor) Origin() Origin         { return e.origin }
func (e *Editor) SetReadonly(ro bool)    { e.readonly = ro }
func (e *Editor) MarkSaved()             { e.dirty = false }
func (e *Editor) SetName(name string)    { e.name = name }
