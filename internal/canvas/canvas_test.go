package canvas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davidledwards/ped/internal/canvas"
)

func TestFlushIsIdempotentOnceApplied(t *testing.T) {
	c := canvas.New(5, 10)
	c.WriteAt(2, 3, canvas.Cell{Scalar: 'x', FG: canvas.DefaultColor, BG: canvas.DefaultColor})
	first := c.Flush()
	assert.NotEmpty(t, first)

	// No further writes: back == front, so a second flush emits only
	// the trailing cursor-position sequence, not the cell again.
	second := c.Flush()
	assert.NotContains(t, string(second), "x")
}

func TestFreshCanvasFlushStillPositionsCursor(t *testing.T) {
	c := canvas.New(2, 2)
	out := c.Flush()
	// A fresh all-blank back grid matches the fresh all-blank front grid,
	// so no cell is written; the trailing cursor-position sequence is
	// still emitted.
	assert.NotEmpty(t, out)
}

func TestResizeForcesRedrawOfPriorContent(t *testing.T) {
	c := canvas.New(3, 3)
	c.WriteAt(0, 0, canvas.Cell{Scalar: 'a'})
	c.Flush()
	c.Resize(3, 3)
	out := c.Flush()
	assert.Contains(t, string(out), "a")
}

func TestWriteOutOfBoundsIsNoop(t *testing.T) {
	c := canvas.New(2, 2)
	assert.NotPanics(t, func() {
		c.WriteAt(-1, -1, canvas.Cell{Scalar: 'z'})
		c.WriteAt(100, 100, canvas.Cell{Scalar: 'z'})
	})
}

func TestRenderScalarMapsControlChars(t *testing.T) {
	r, attr := canvas.RenderScalar('\t')
	assert.Equal(t, '→', r)
	assert.Zero(t, attr)

	r, attr = canvas.RenderScalar(0x01)
	assert.Equal(t, '¿', r)
	assert.True(t, attr.Has(canvas.AttrDim))

	r, _ = canvas.RenderScalar('x')
	assert.Equal(t, 'x', r)
}
