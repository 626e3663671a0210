package editor

import (
	"regexp"
	"strings"
)

// SearchKind selects literal substring or regex matching.
type SearchKind int

const (
	SearchLiteral SearchKind = iota
	SearchRegex
)

// SearchDirection controls the scan direction.
type SearchDirection int

const (
	SearchForward SearchDirection = iota
	SearchBackward
)

// SearchPhase is the state of the per-editor search state machine:
// Idle -> Entering -> {Found | NotFound} -> {Entering, Idle}.
type SearchPhase int

const (
	SearchIdle SearchPhase = iota
	SearchEntering
	SearchFound
	SearchNotFound
)

// SearchState holds the last-search state described in §4.6, including
// the incremental-search match list used to step with TAB/S-TAB.
type SearchState struct {
	Phase        SearchPhase
	Term         string
	CaseSensitve bool
	Kind         SearchKind
	Direction    SearchDirection

	matches    []int // match start positions, ascending
	matchIndex int
	savedPos   int // cursor position to restore on cancel
	hasMark    bool
	savedMark  int
}

// BeginSearch starts (or restarts) an incremental search from the
// current cursor, recording the restore point for Cancel.
func (e *Editor) BeginSearch(caseSensitive bool, kind SearchKind, dir SearchDirection) {
	e.search = SearchState{
		Phase:        SearchEntering,
		CaseSensitve: caseSensitive,
		Kind:         kind,
		Direction:    dir,
		savedPos:     e.curPos,
		hasMark:      e.hasMark,
		savedMark:    e.mark,
	}
}

// SearchStateValue returns the current search state (read-only snapshot).
func (e *Editor) SearchStateValue() SearchState { return e.search }

// TypeSearchTerm replaces the term being entered with term and
// recomputes matches, transitioning to Found or NotFound.
func (e *Editor) TypeSearchTerm(term string) {
	if e.search.Phase != SearchEntering && e.search.Phase != SearchFound && e.search.Phase != SearchNotFound {
		return
	}
	e.search.Term = term
	e.recomputeMatches()
}

func (e *Editor) recomputeMatches() {
	text := string(e.buf.Scalars())
	e.search.matches = nil
	if e.search.Term == "" {
		e.search.Phase = SearchEntering
		return
	}
	switch e.search.Kind {
	case SearchRegex:
		re, err := regexp.Compile(e.search.Term)
		if err != nil {
			e.search.Phase = SearchNotFound
			return
		}
		for _, loc := range re.FindAllStringIndex(text, -1) {
			e.search.matches = append(e.search.matches, runeIndex(text, loc[0]))
		}
	default:
		haystack, needle := text, e.search.Term
		if !e.search.CaseSensitve {
			haystack, needle = strings.ToLower(text), strings.ToLower(needle)
		}
		from := 0
		for {
			i := strings.Index(haystack[from:], needle)
			if i < 0 {
				break
			}
			e.search.matches = append(e.search.matches, runeIndex(text, from+i))
			from += i + len(needle)
		}
	}
	if len(e.search.matches) == 0 {
		e.search.Phase = SearchNotFound
		return
	}
	e.search.matchIndex = nearestMatch(e.search.matches, e.search.savedPos, e.search.Direction)
	e.search.Phase = SearchFound
	e.jumpToMatch()
}

func runeIndex(s string, byteOff int) int {
	return len([]rune(s[:byteOff]))
}

func nearestMatch(matches []int, from int, dir SearchDirection) int {
	if dir == SearchBackward {
		for i := len(matches) - 1; i >= 0; i-- {
			if matches[i] < from {
				return i
			}
		}
		return len(matches) - 1
	}
	for i, m := range matches {
		if m >= from {
			return i
		}
	}
	return 0
}

func (e *Editor) jumpToMatch() {
	if len(e.search.matches) == 0 {
		return
	}
	e.curPos = e.search.matches[e.search.matchIndex]
	e.curRef = e.refAt(e.lineStart(e.curPos))
	e.desiredCol = e.CursorColumn()
	e.reconcileViewport()
}

// NextMatch steps to the next match (TAB); only valid in SearchFound.
func (e *Editor) NextMatch() {
	if e.search.Phase != SearchFound || len(e.search.matches) == 0 {
		return
	}
	e.search.matchIndex = (e.search.matchIndex + 1) % len(e.search.matches)
	e.jumpToMatch()
}

// PrevMatch steps to the previous match (S-TAB); only valid in SearchFound.
func (e *Editor) PrevMatch() {
	if e.search.Phase != SearchFound || len(e.search.matches) == 0 {
		return
	}
	e.search.matchIndex--
	if e.search.matchIndex < 0 {
		e.search.matchIndex = len(e.search.matches) - 1
	}
	e.jumpToMatch()
}

// CancelSearch restores the cursor to the position recorded when the
// search began and returns to Idle, from any phase.
func (e *Editor) CancelSearch() {
	e.curPos = e.search.savedPos
	e.hasMark = e.search.hasMark
	e.mark = e.search.savedMark
	e.curRef = e.refAt(e.lineStart(e.curPos))
	e.desiredCol = e.CursorColumn()
	e.reconcileViewport()
	e.search = SearchState{Phase: SearchIdle}
}

// AcceptSearch ends the search and returns to Idle, leaving the cursor
// where it is: on the last match jumped to, or at the restore point if
// no match was ever found.
func (e *Editor) AcceptSearch() {
	term := e.search.Term
	kind := e.search.Kind
	caseSensitive := e.search.CaseSensitve
	dir := e.search.Direction
	e.search = SearchState{Phase: SearchIdle, Term: term, Kind: kind, CaseSensitve: caseSensitive, Direction: dir}
}
