package workspace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davidledwards/ped/internal/editor"
	"github.com/davidledwards/ped/internal/workspace"
)

func newEd() *editor.Editor { return editor.New("buf", nil, editor.OriginScratch) }

func TestSingleTileTakesFullHeightMinusBannerAndEcho(t *testing.T) {
	w := workspace.New(24, 80, newEd())
	tiles := w.Tiles()
	assert.Len(t, tiles, 1)
	assert.Equal(t, 22, tiles[0].Window.Rows) // 24 - 1 banner - 1 echo
}

func TestResizeDividesEvenlyWhenRemainderIsZero(t *testing.T) {
	w := workspace.New(24, 80, newEd())
	w.SplitBottom(newEd())
	w.SplitBottom(newEd())
	w.Resize(10, 80)

	rows := make([]int, 0, 3)
	for _, tile := range w.Tiles() {
		rows = append(rows, tile.Window.Rows)
	}
	// available = 10 - 3 banners - 1 echo = 6; base=2, remainder=0 -> {2,2,2}
	assert.Equal(t, []int{2, 2, 2}, rows)
}

func TestResizeGivesEntireRemainderToTopTile(t *testing.T) {
	w := workspace.New(24, 80, newEd())
	w.SplitBottom(newEd())
	w.SplitBottom(newEd())
	w.Resize(8, 80)

	rows := make([]int, 0, 3)
	for _, tile := range w.Tiles() {
		rows = append(rows, tile.Window.Rows)
	}
	// available = 8 - 3 banners - 1 echo = 4; base=1, remainder=1, all
	// given to the topmost tile -> {2,1,1}, not {2,2,1}.
	assert.Equal(t, []int{2, 1, 1}, rows)
}

func TestSplitTopFocusesNewTile(t *testing.T) {
	w := workspace.New(24, 80, newEd())
	w.SplitTop(newEd())
	assert.Equal(t, 0, w.FocusIndex())
	assert.Len(t, w.Tiles(), 2)
}

func TestCloseCurrentRefusesOnLastTile(t *testing.T) {
	w := workspace.New(24, 80, newEd())
	assert.False(t, w.CloseCurrent())
	assert.Len(t, w.Tiles(), 1)
}

func TestCloseCurrentRemovesFocusedTile(t *testing.T) {
	w := workspace.New(24, 80, newEd())
	w.SplitBottom(newEd())
	assert.True(t, w.CloseCurrent())
	assert.Len(t, w.Tiles(), 1)
}

func TestFocusNextWrapsAround(t *testing.T) {
	w := workspace.New(24, 80, newEd())
	w.SplitBottom(newEd())
	w.FocusTop()
	assert.Equal(t, 0, w.FocusIndex())
	w.FocusNext()
	assert.Equal(t, 1, w.FocusIndex())
	w.FocusNext()
	assert.Equal(t, 0, w.FocusIndex())
}

func TestCloseOthersCollapsesToFocused(t *testing.T) {
	w := workspace.New(24, 80, newEd())
	w.SplitBottom(newEd())
	w.SplitBottom(newEd())
	w.FocusNext()
	focused := w.Focus()
	w.CloseOthers()
	assert.Len(t, w.Tiles(), 1)
	assert.Same(t, focused, w.Focus())
}
