package span_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davidledwards/ped/internal/span"
)

func sumLen(l *span.List) int {
	n := 0
	for _, s := range l.Spans() {
		n += s.Length
	}
	return n
}

func TestNewEmpty(t *testing.T) {
	l := span.New(0, 0)
	assert.Equal(t, 0, l.Len())
}

func TestExpandAtGrowsCoveringSpan(t *testing.T) {
	l := span.New(10, 1)
	l.ExpandAt(4, 3, 1)
	assert.Equal(t, 13, l.Len())
	assert.Equal(t, 13, sumLen(l))
}

func TestCollapseAtShrinksAndCoalesces(t *testing.T) {
	l := &span.List{}
	l.Replace([]span.Span{{Color: 1, Length: 5}, {Color: 2, Length: 5}, {Color: 1, Length: 5}})
	l.CollapseAt(4, 2) // removes last scalar of span0 and first of span1
	assert.Equal(t, 13, sumLen(l))
	for i := 1; i < len(l.Spans()); i++ {
		assert.NotEqual(t, l.Spans()[i-1].Color, l.Spans()[i].Color, "adjacent spans must not share a color after coalesce")
	}
}

func TestColorAtFindsCoveringSpan(t *testing.T) {
	l := &span.List{}
	l.Replace([]span.Span{{Color: 1, Length: 3}, {Color: 2, Length: 4}, {Color: 3, Length: 2}})
	assert.Equal(t, 1, l.ColorAt(0))
	assert.Equal(t, 1, l.ColorAt(2))
	assert.Equal(t, 2, l.ColorAt(3))
	assert.Equal(t, 2, l.ColorAt(6))
	assert.Equal(t, 3, l.ColorAt(7))
}

func TestIterFromStartsAtContainingSpan(t *testing.T) {
	l := &span.List{}
	l.Replace([]span.Span{{Color: 1, Length: 3}, {Color: 2, Length: 4}})
	var got []int
	for p := range l.IterFrom(4) {
		got = append(got, p.Start, p.Length, p.Color)
	}
	assert.Equal(t, []int{3, 4, 2}, got)
}

func TestNoZeroLengthSpansSurvive(t *testing.T) {
	l := &span.List{}
	l.Replace([]span.Span{{Color: 1, Length: 5}})
	l.CollapseAt(0, 5)
	assert.Equal(t, 0, sumLen(l))
	for _, s := range l.Spans() {
		assert.NotZero(t, s.Length)
	}
}
