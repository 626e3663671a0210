package editor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidledwards/ped/internal/editor"
)

func TestScenarioTypeThenDeleteTwice(t *testing.T) {
	e := editor.New("@scratch", nil, editor.OriginScratch)
	require.NoError(t, e.InsertScalar('a'))
	require.NoError(t, e.InsertScalar('b'))
	require.NoError(t, e.InsertScalar('c'))
	require.NoError(t, e.RemoveBefore())
	require.NoError(t, e.RemoveBefore())

	assert.Equal(t, "a", string(e.Scalars()))
	assert.Equal(t, 1, e.CursorPos())
	assert.True(t, e.Dirty())
	// One coalesced insert entry ("abc" typed rune by rune) plus two
	// separate, uncoalesced remove entries (§8 scenario 1).
	assert.Equal(t, 3, e.UndoLen())
}

func TestScenarioMoveDownThenUp(t *testing.T) {
	e := editor.New("buf", []rune("hello\nworld"), editor.OriginFile)
	e.SetViewRows(24)
	// cursor at pos 3 ('l' of hello)
	e.MoveRight(3)
	require.Equal(t, 3, e.CursorPos())

	e.MoveDown(1)
	assert.Equal(t, 9, e.CursorPos()) // 'r' of world

	e.MoveUp(1)
	assert.Equal(t, 3, e.CursorPos())
}

func TestUndoInsertIsIdentity(t *testing.T) {
	e := editor.New("buf", []rune("abc"), editor.OriginFile)
	before := string(e.Scalars())
	e.InsertScalar('X')
	require.NoError(t, e.Undo())
	assert.Equal(t, before, string(e.Scalars()))
	assert.False(t, e.Dirty())
}

func TestUndoRedoRoundTrip(t *testing.T) {
	e := editor.New("buf", []rune("abc"), editor.OriginFile)
	e.InsertScalar('X')
	mid := string(e.Scalars())
	require.NoError(t, e.Undo())
	require.NoError(t, e.Redo())
	assert.Equal(t, mid, string(e.Scalars()))
}

func TestReadonlyRejectsMutation(t *testing.T) {
	e := editor.New("@help", []rune("help text"), editor.OriginEphemeral)
	assert.Error(t, e.InsertScalar('x'))
	assert.Error(t, e.RemoveBefore())
}

func TestUndoRedoNoOpOnEmptyLog(t *testing.T) {
	e := editor.New("buf", []rune("abc"), editor.OriginFile)
	assert.NoError(t, e.Undo())
	assert.NoError(t, e.Redo())
}

func TestCutWithoutMarkOperatesOnCurrentLine(t *testing.T) {
	e := editor.New("buf", []rune("line one\nline two\n"), editor.OriginFile)
	require.NoError(t, e.Cut())
	assert.Equal(t, "line two\n", string(e.Scalars()))
}

func TestIncrementalSearchTabCycle(t *testing.T) {
	text := make([]rune, 0, 100)
	for i := 0; i < 100; i++ {
		text = append(text, ' ')
	}
	copy(text[10:13], []rune("foo"))
	copy(text[50:53], []rune("foo"))
	copy(text[90:93], []rune("foo"))

	e := editor.New("buf", text, editor.OriginFile)
	e.BeginSearch(true, editor.SearchLiteral, editor.SearchForward)
	e.TypeSearchTerm("foo")
	assert.Equal(t, 10, e.CursorPos())

	e.NextMatch()
	assert.Equal(t, 50, e.CursorPos())
	e.NextMatch()
	assert.Equal(t, 90, e.CursorPos())
	e.PrevMatch()
	assert.Equal(t, 50, e.CursorPos())

	e.CancelSearch()
	assert.Equal(t, 0, e.CursorPos())
}

func TestGotoLineCentersViewport(t *testing.T) {
	var text []rune
	for i := 0; i < 10_000; i++ {
		text = append(text, []rune("x\n")...)
	}
	e := editor.New("buf", text, editor.OriginFile)
	e.SetViewRows(24)
	e.GotoLine(5000)
	assert.Equal(t, 5000-(24-1)/2, e.TopLine())
}
