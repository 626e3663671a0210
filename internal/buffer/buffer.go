// Package buffer implements the gap buffer: the primary text
// container for a ped editor. Storage is a contiguous slice of
// scalars (Unicode code points) with a movable gap that absorbs
// insertions and deletions near the cursor in amortized O(1).
//
// Gap movement is deferred: pure cursor motion never touches the
// slice. A mutation is the first operation that requires the gap at
// a new position, and only then do we shift the live scalars that
// lie between the gap's current position and the target.
package buffer

// Buffer is a gap buffer over Unicode scalar values.
type Buffer struct {
	data     []rune
	gapStart int
	gapEnd   int
}

const minCapacity = 32

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{
		data:     make([]rune, minCapacity),
		gapStart: 0,
		gapEnd:   minCapacity,
	}
}

// FromRunes builds a buffer whose initial content is scalars, gap
// parked at the tail.
func FromRunes(scalars []rune) *Buffer {
	n := len(scalars)
	cap := n + minCapacity
	data := make([]rune, cap)
	copy(data, scalars)
	return &Buffer{data: data, gapStart: n, gapEnd: cap}
}

// Len returns the number of live scalars.
func (b *Buffer) Len() int {
	return b.gapStart + (len(b.data) - b.gapEnd)
}

// slot maps a logical index to a storage slot. Caller guarantees
// 0 <= i < Len().
func (b *Buffer) slot(i int) int {
	if i < b.gapStart {
		return i
	}
	return i + (b.gapEnd - b.gapStart)
}

// Get returns the scalar at logical index i.
func (b *Buffer) Get(i int) rune {
	return b.data[b.slot(i)]
}

// moveGapTo repositions the gap so that gapStart == pos, shifting only
// the scalars between the old and new gap positions.
func (b *Buffer) moveGapTo(pos int) {
	switch {
	case pos == b.gapStart:
		return
	case pos < b.gapStart:
		// Shift the block (pos, gapStart) rightward into the gap's tail.
		n := b.gapStart - pos
		copy(b.data[b.gapEnd-n:b.gapEnd], b.data[pos:b.gapStart])
		b.gapStart = pos
		b.gapEnd -= n
	default: // pos > b.gapStart
		n := pos - b.gapStart
		copy(b.data[b.gapStart:b.gapStart+n], b.data[b.gapEnd:b.gapEnd+n])
		b.gapStart += n
		b.gapEnd += n
	}
}

// ensureGap grows capacity so the gap can absorb at least n more
// scalars, reallocating to at least 2x capacity per the growth policy.
func (b *Buffer) ensureGap(n int) {
	if b.gapEnd-b.gapStart >= n {
		return
	}
	live := b.Len()
	newCap := len(b.data) * 2
	for newCap < live+n+minCapacity {
		newCap *= 2
	}
	newData := make([]rune, newCap)
	copy(newData, b.data[:b.gapStart])
	tailLen := len(b.data) - b.gapEnd
	copy(newData[newCap-tailLen:], b.data[b.gapEnd:])
	b.data = newData
	b.gapEnd = newCap - tailLen
}

// Insert places scalar at logical position pos, clamped to [0, Len()].
func (b *Buffer) Insert(pos int, scalar rune) {
	b.InsertSlice(pos, []rune{scalar})
}

// InsertSlice inserts scalars at pos in one pass.
func (b *Buffer) InsertSlice(pos int, scalars []rune) {
	if len(scalars) == 0 {
		return
	}
	pos = clamp(pos, 0, b.Len())
	b.ensureGap(len(scalars))
	b.moveGapTo(pos)
	copy(b.data[b.gapStart:], scalars)
	b.gapStart += len(scalars)
}

// Remove deletes up to k scalars starting at pos and returns the
// removed scalars. Removal past the end is clamped.
func (b *Buffer) Remove(pos, k int) []rune {
	if k <= 0 {
		return nil
	}
	n := b.Len()
	pos = clamp(pos, 0, n)
	end := pos + k
	if end > n {
		end = n
	}
	if end <= pos {
		return nil
	}
	k = end - pos
	removed := b.Substring(pos, k)
	b.moveGapTo(pos)
	b.gapEnd += k
	return removed
}

// Substring copies k scalars starting at pos without moving the gap.
func (b *Buffer) Substring(pos, k int) []rune {
	n := b.Len()
	pos = clamp(pos, 0, n)
	end := pos + k
	if end > n {
		end = n
	}
	if end <= pos {
		return nil
	}
	out := make([]rune, 0, end-pos)
	for i := pos; i < end; i++ {
		out = append(out, b.data[b.slot(i)])
	}
	return out
}

// FindForward scans forward from pos (inclusive) for the first scalar
// satisfying predicate, returning its index or Len() if none found.
func (b *Buffer) FindForward(pos int, predicate func(rune) bool) int {
	n := b.Len()
	for i := clamp(pos, 0, n); i < n; i++ {
		if predicate(b.data[b.slot(i)]) {
			return i
		}
	}
	return n
}

// FindBackward scans backward from pos (exclusive) for the first
// scalar satisfying predicate, returning its index or -1 if none found.
func (b *Buffer) FindBackward(pos int, predicate func(rune) bool) int {
	for i := clamp(pos, 0, b.Len()) - 1; i >= 0; i-- {
		if predicate(b.data[b.slot(i)]) {
			return i
		}
	}
	return -1
}

// Scalars materializes the full live content. Intended for save/search,
// not the hot path.
func (b *Buffer) Scalars() []rune {
	return b.Substring(0, b.Len())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
