package controller

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/davidledwards/ped/internal/canvas"
	"github.com/davidledwards/ped/internal/logging"
)

// resizeMsg mirrors bubbletea's tea.WindowSizeMsg shape: a terminal
// resize is modeled as a small value type carrying the new dimensions,
// the same convention the teacher's Elm-architecture run loop uses for
// its own resize events, even though our controller is a bespoke
// synchronous loop rather than a bubbletea Update function.
type resizeMsg tea.WindowSizeMsg

// HandleResize processes a synthetic resize key (SIGWINCH-equivalent,
// §5): re-tiles the workspace and forces a full canvas repaint.
func (c *Controller) HandleResize(cv *canvas.Canvas, rows, cols int) {
	msg := resizeMsg{Width: cols, Height: rows}
	c.ws.Resize(msg.Height, msg.Width)
	cv.Resize(msg.Height, msg.Width)
	logging.Log().Debug("resize", "rows", msg.Height, "cols", msg.Width)
}
