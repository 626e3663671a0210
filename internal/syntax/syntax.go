// Package syntax implements the incremental tokenizer: a regex-driven
// whole-buffer rescan that produces a span.List, deferred to idle time
// by the controller (internal/controller). The rescan is resumable
// (Scanner) so the controller can bound each tick to a small slice of
// work instead of blocking on one whole-buffer pass.
package syntax

import (
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/davidledwards/ped/internal/span"
)

// Rule pairs a compiled regex with the color id assigned to its
// matches and a precedence used to break ties when two rules match at
// the same position (lower precedence value wins).
type Rule struct {
	Pattern    *regexp.Regexp
	Color      int
	Precedence int
}

// RuleSet is an ordered collection of rules for one syntax
// (e.g. "go", "rust"), plus the default color for unmatched text.
type RuleSet struct {
	Name         string
	FilePattern  *regexp.Regexp
	Rules        []Rule
	DefaultColor int
}

// Job identifies one rescan for log correlation; background rescans
// are long enough to span several idle slices and a stable id lets the
// controller's logs tie slice 1..n of the same rescan together.
type Job struct {
	ID uuid.UUID
}

// NewJob creates a fresh rescan job identifier.
func NewJob() Job { return Job{ID: uuid.New()} }

// Tokenize performs the full rescan described in §4.3 in one
// uninterrupted pass: repeatedly find the leftmost, earliest-precedence
// match at or after the cursor position, emit a default span up to it,
// then a colored span for the match, and advance. The unmatched tail
// receives the default color. Tests and any caller that doesn't need
// bounded latency can use this directly; the controller instead drives
// a Scanner so a rescan never blocks a keystroke for longer than its
// idle-slice budget.
func Tokenize(text []rune, rules RuleSet) []span.Span {
	if len(text) == 0 {
		return nil
	}
	sc := NewScanner(NewJob(), text, rules)
	for !sc.Step(0) {
	}
	return sc.Spans()
}

// Scanner is a resumable rescan: each Step call picks up exactly where
// the previous one left off, so a background rescan can span many idle
// slices without ever holding the main loop longer than one slice's
// budget (§4.11/§9).
type Scanner struct {
	text  []rune
	s     string
	rules RuleSet
	job   Job

	pos  int // byte offset into s; resume point
	out  []span.Span
	done bool
}

// NewScanner begins a fresh rescan of text under rules, identified by
// job for log correlation across the slices it will take.
func NewScanner(job Job, text []rune, rules RuleSet) *Scanner {
	return &Scanner{text: text, s: string(text), rules: rules, job: job}
}

// Job returns the identifier this scanner was created with.
func (sc *Scanner) Job() Job { return sc.job }

// Done reports whether the rescan has produced its final span list.
func (sc *Scanner) Done() bool { return sc.done }

// Spans returns the finished span list; only meaningful once Done
// reports true.
func (sc *Scanner) Spans() []span.Span { return coalesceAdjacent(sc.out) }

// Step resumes scanning from the previous call's stopping point and
// runs until either the rescan completes or budget elapses, whichever
// comes first, returning whether the rescan is now Done. A budget of 0
// means "run to completion" (used by Tokenize). Time is checked once
// per match rather than once per rune, so a single regex match is never
// split across slices; the first match of a call runs before any check,
// so every call makes progress.
func (sc *Scanner) Step(budget time.Duration) bool {
	if sc.done {
		return true
	}
	var deadline time.Time
	if budget > 0 {
		deadline = time.Now().Add(budget)
	}
	s := sc.s
	runeOffsetOf := func(byteOff int) int {
		return len([]rune(s[:byteOff]))
	}

	first := true
	for sc.pos <= len(s) {
		if !first && !deadline.IsZero() && time.Now().After(deadline) {
			return false
		}
		first = false
		start, end, color, ok := earliestMatch(s, sc.pos, sc.rules.Rules)
		if !ok {
			appendDefaultSpan(&sc.out, runeOffsetOf(sc.pos), len(sc.text)-runeOffsetOf(sc.pos), sc.rules.DefaultColor)
			sc.pos = len(s) + 1
			continue
		}
		if start > sc.pos {
			appendDefaultSpan(&sc.out, runeOffsetOf(sc.pos), runeOffsetOf(start)-runeOffsetOf(sc.pos), sc.rules.DefaultColor)
		}
		matchLen := runeOffsetOf(end) - runeOffsetOf(start)
		if matchLen > 0 {
			sc.out = append(sc.out, span.Span{Color: color, Length: matchLen})
		}
		if end == sc.pos {
			// Zero-width match: avoid looping forever by advancing one rune.
			if sc.pos >= len(s) {
				sc.pos = len(s) + 1
				continue
			}
			_, sz := decodeRuneAt(s, sc.pos)
			appendDefaultSpan(&sc.out, runeOffsetOf(sc.pos), 1, sc.rules.DefaultColor)
			sc.pos += sz
			continue
		}
		sc.pos = end
	}
	sc.done = true
	return true
}

// earliestMatch finds, among all rules, the match starting earliest in
// s[from:]; ties broken by lowest Precedence value.
func earliestMatch(s string, from int, rules []Rule) (start, end, color int, ok bool) {
	bestStart := -1
	bestEnd := -1
	bestPrec := 0
	bestColor := 0
	for _, r := range rules {
		loc := r.Pattern.FindStringIndex(s[from:])
		if loc == nil {
			continue
		}
		ms, me := from+loc[0], from+loc[1]
		switch {
		case bestStart == -1, ms < bestStart, ms == bestStart && r.Precedence < bestPrec:
			bestStart, bestEnd, bestPrec, bestColor = ms, me, r.Precedence, r.Color
		}
	}
	if bestStart == -1 {
		return 0, 0, 0, false
	}
	return bestStart, bestEnd, bestColor, true
}

func appendDefaultSpan(out *[]span.Span, start, length, color int) {
	if length <= 0 {
		return
	}
	*out = append(*out, span.Span{Color: color, Length: length})
}

func coalesceAdjacent(spans []span.Span) []span.Span {
	out := spans[:0:0]
	for _, s := range spans {
		if s.Length <= 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Color == s.Color {
			out[n-1].Length += s.Length
			continue
		}
		out = append(out, s)
	}
	return out
}

func decodeRuneAt(s string, byteOff int) (rune, int) {
	for i, r := range s[byteOff:] {
		_ = i
		return r, len(string(r))
	}
	return 0, 1
}

// SortRulesByPrecedence orders rules ascending by precedence, stable
// with respect to declaration order for equal precedence. The CLI's
// rule compilation (cmd/ped) calls this once per syntax definition.
func SortRulesByPrecedence(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Precedence < rules[j].Precedence })
}
