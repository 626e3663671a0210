package window_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davidledwards/ped/internal/canvas"
	"github.com/davidledwards/ped/internal/window"
)

type fakeSource struct {
	text   []rune
	cursor int
	top    int
	mark   int
	hasMrk bool
}

func (f *fakeSource) Len() int                { return len(f.text) }
func (f *fakeSource) ScalarAt(pos int) rune   { return f.text[pos] }
func (f *fakeSource) ColorAt(pos int) int     { return 0 }
func (f *fakeSource) CursorPos() int          { return f.cursor }
func (f *fakeSource) TopRefPos() int          { return f.top }
func (f *fakeSource) MarkPos() (int, bool)    { return f.mark, f.hasMrk }
func (f *fakeSource) Name() string            { return "buf" }
func (f *fakeSource) SyntaxName() string      { return "plain" }
func (f *fakeSource) EOLMark() string         { return "LF" }
func (f *fakeSource) TabMark() string         { return "TAB" }
func (f *fakeSource) Dirty() bool             { return false }
func (f *fakeSource) Readonly() bool          { return false }

func TestRenderBasicWrapping(t *testing.T) {
	c := canvas.New(10, 10)
	w := window.New(0, 0, 5, 5)
	src := &fakeSource{text: []rune("abcdefgh\nxy")}
	row, col := w.Render(c, src, func(pos int) int { return 1 })
	assert.GreaterOrEqual(t, row, 0)
	assert.GreaterOrEqual(t, col, 0)
}

func TestRenderPlacesCursorAtCorrectCell(t *testing.T) {
	c := canvas.New(10, 10)
	w := window.New(0, 0, 5, 20)
	src := &fakeSource{text: []rune("hello\nworld"), cursor: 9} // 'r' of world
	row, col := w.Render(c, src, func(pos int) int { return 1 })
	assert.Equal(t, 1, row)
	assert.Equal(t, 3, col)
}

func TestLineNumberMarginReservesColumns(t *testing.T) {
	c := canvas.New(3, 20)
	w := window.New(0, 0, 3, 20)
	w.ShowLines = true
	src := &fakeSource{text: []rune("x")}
	_, col := w.Render(c, src, func(pos int) int { return 5000 })
	assert.Equal(t, 7, col-0) // cursor column accounts for the 7-wide margin
}
