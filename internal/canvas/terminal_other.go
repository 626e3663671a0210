//go:build !linux

package canvas

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Terminal is the non-Linux fallback raw-mode guard, built on
// golang.org/x/term rather than direct unix ioctls (the teacher
// depends on both; this path exercises the x/term half of that pair).
type Terminal struct {
	fd       int
	state    *term.State
	inRaw    bool
	altShown bool
}

func NewTerminal() *Terminal {
	return &Terminal{fd: int(os.Stdout.Fd())}
}

func (t *Terminal) Size() (rows, cols int, err error) {
	cols, rows, err = term.GetSize(t.fd)
	return rows, cols, err
}

func (t *Terminal) EnterRaw(w *os.File) error {
	if t.inRaw {
		return nil
	}
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("make raw: %w", err)
	}
	t.state = state
	t.inRaw = true
	fmt.Fprint(w, "\x1b[?1049h\x1b[2J\x1b[H\x1b[?25l")
	t.altShown = true
	return nil
}

func (t *Terminal) Restore(w *os.File) error {
	if !t.inRaw {
		return nil
	}
	if t.altShown {
		fmt.Fprint(w, "\x1b[?25h\x1b[?1049l")
		t.altShown = false
	}
	var err error
	if t.state != nil {
		err = term.Restore(t.fd, t.state)
	}
	t.inRaw = false
	return err
}

func (t *Terminal) EnableMouse(w *os.File)  { fmt.Fprint(w, "\x1b[?1000h\x1b[?1006h") }
func (t *Terminal) DisableMouse(w *os.File) { fmt.Fprint(w, "\x1b[?1000l\x1b[?1006l") }
