package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidledwards/ped/internal/buffer"
)

func TestEmptyBuffer(t *testing.T) {
	b := buffer.New()
	assert.Equal(t, 0, b.Len())
	assert.Nil(t, b.Remove(0, 1))
	assert.Equal(t, []rune{}, append([]rune{}, b.Scalars()...))
}

func TestInsertAtTail(t *testing.T) {
	b := buffer.New()
	b.InsertSlice(0, []rune("hello"))
	b.Insert(5, '!')
	require.Equal(t, 6, b.Len())
	assert.Equal(t, "hello!", string(b.Scalars()))
}

func TestInsertMiddleMovesGap(t *testing.T) {
	b := buffer.FromRunes([]rune("helloworld"))
	b.InsertSlice(5, []rune(" "))
	assert.Equal(t, "hello world", string(b.Scalars()))
	b.InsertSlice(0, []rune(">> "))
	assert.Equal(t, ">> hello world", string(b.Scalars()))
}

func TestRemoveWithinAndPastEnd(t *testing.T) {
	b := buffer.FromRunes([]rune("abcdef"))
	removed := b.Remove(1, 2)
	assert.Equal(t, "bc", string(removed))
	assert.Equal(t, "adef", string(b.Scalars()))

	removed = b.Remove(2, 100)
	assert.Equal(t, "ef", string(removed))
	assert.Equal(t, "ad", string(b.Scalars()))
}

func TestGrowthBeyondInitialCapacity(t *testing.T) {
	b := buffer.New()
	for i := 0; i < 10_000; i++ {
		b.Insert(b.Len(), rune('a'+(i%26)))
	}
	assert.Equal(t, 10_000, b.Len())
	assert.Equal(t, byte('a'), byte(b.Get(0)))
}

func TestFindForwardBackward(t *testing.T) {
	b := buffer.FromRunes([]rune("line one\nline two\nline three"))
	nl := func(r rune) bool { return r == '\n' }
	assert.Equal(t, 8, b.FindForward(0, nl))
	assert.Equal(t, 17, b.FindForward(9, nl))
	assert.Equal(t, 8, b.FindBackward(17, nl))
	assert.Equal(t, -1, b.FindBackward(8, nl))
}

func TestSubstringDoesNotMoveGap(t *testing.T) {
	b := buffer.FromRunes([]rune("abcdef"))
	s1 := b.Substring(1, 3)
	// A second, overlapping read must be stable regardless of gap location.
	b.Insert(0, 'X')
	s2 := b.Substring(2, 3)
	assert.Equal(t, "bcd", string(s1))
	assert.Equal(t, "bcd", string(s2))
}

func TestInsertClampsPastEnd(t *testing.T) {
	b := buffer.FromRunes([]rune("ab"))
	b.Insert(1000, 'z')
	assert.Equal(t, "abz", string(b.Scalars()))
}
