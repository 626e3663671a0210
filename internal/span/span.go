// Package span implements the ordered, non-overlapping colored span
// list that covers a buffer's content for syntax highlighting. Edits
// adjust the list in place; locating the span that covers a position
// (for edits and ColorAt) is a linear walk over the spans, not O(1) or
// a binary search. A full rescan (driven by internal/syntax) replaces
// the list atomically.
package span

// Span is a run of consecutive scalars sharing one color id.
type Span struct {
	Color  int
	Length int
}

// List is the span list for one buffer. The zero value is an empty,
// non-dirty list (matching an empty buffer).
type List struct {
	spans []Span
	dirty bool
}

// New returns a span list covering n scalars with the default color.
func New(n int, defaultColor int) *List {
	l := &List{}
	if n > 0 {
		l.spans = []Span{{Color: defaultColor, Length: n}}
	}
	return l
}

// Dirty reports whether a full rescan is owed.
func (l *List) Dirty() bool { return l.dirty }

// MarkDirty flags the list for rescan; callers continue rendering the
// stale-but-adjusted spans until the next rescan completes.
func (l *List) MarkDirty() { l.dirty = true }

// Replace atomically swaps in a freshly tokenized span list and clears
// the dirty flag.
func (l *List) Replace(spans []Span) {
	l.spans = coalesce(spans)
	l.dirty = false
}

// Len returns the total scalar length covered.
func (l *List) Len() int {
	n := 0
	for _, s := range l.spans {
		n += s.Length
	}
	return n
}

// Spans returns the underlying span slice. Callers must not mutate it.
func (l *List) Spans() []Span { return l.spans }

// ColorAt returns the color id covering logical position pos.
func (l *List) ColorAt(pos int) int {
	idx, _ := l.locate(pos)
	if idx >= len(l.spans) {
		if len(l.spans) == 0 {
			return 0
		}
		return l.spans[len(l.spans)-1].Color
	}
	return l.spans[idx].Color
}

// locate returns the index of the span containing pos and the start
// offset of that span, or (len(spans), Len()) if pos is at/after the end.
func (l *List) locate(pos int) (idx, start int) {
	acc := 0
	for i, s := range l.spans {
		if pos < acc+s.Length {
			return i, acc
		}
		acc += s.Length
	}
	return len(l.spans), acc
}

// ExpandAt grows the span containing pos by k scalars (an insertion).
// If pos lands exactly at the end of the list, the last span (or a new
// one) absorbs the growth.
func (l *List) ExpandAt(pos, k int, defaultColor int) {
	if k <= 0 {
		return
	}
	idx, _ := l.locate(pos)
	if idx == len(l.spans) {
		if len(l.spans) == 0 {
			l.spans = append(l.spans, Span{Color: defaultColor, Length: k})
			return
		}
		l.spans[len(l.spans)-1].Length += k
		return
	}
	l.spans[idx].Length += k
}

// CollapseAt shortens the span list starting at pos by k scalars (a
// removal), merging/deleting exhausted spans and coalescing adjacent
// spans that now share a color.
func (l *List) CollapseAt(pos, k int) {
	if k <= 0 {
		return
	}
	idx, start := l.locate(pos)
	offset := pos - start
	remaining := k
	out := append([]Span{}, l.spans[:idx]...)
	if offset > 0 && idx < len(l.spans) {
		head := l.spans[idx].Length - offset
		take := min(head, remaining)
		out = append(out, Span{Color: l.spans[idx].Color, Length: offset + (head - take)})
		remaining -= take
		idx++
	}
	for remaining > 0 && idx < len(l.spans) {
		s := l.spans[idx]
		if s.Length <= remaining {
			remaining -= s.Length
			idx++
			continue
		}
		out = append(out, Span{Color: s.Color, Length: s.Length - remaining})
		remaining = 0
		idx++
	}
	out = append(out, l.spans[idx:]...)
	l.spans = coalesce(out)
}

func coalesce(spans []Span) []Span {
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

// Piece is one element of an IterFrom sequence.
type Piece struct {
	Start  int
	Length int
	Color  int
}

// IterFrom returns a lazy forward sequence of spans beginning at the
// span covering pos.
func (l *List) IterFrom(pos int) func(func(Piece) bool) {
	idx, start := l.locate(pos)
	return func(yield func(Piece) bool) {
		acc := start
		for i := idx; i < len(l.spans); i++ {
			if !yield(Piece{Start: acc, Length: l.spans[i].Length, Color: l.spans[i].Color}) {
				return
			}
			acc += l.spans[i].Length
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
