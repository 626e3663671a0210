//go:build linux

package canvas

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const (
	ioctlGetTermios = unix.TCGETS
	ioctlSetTermios = unix.TCSETS
)

// Terminal owns the raw-mode guard: scoped acquisition with guaranteed
// release on every exit path, including panic, per §5 Shared resources.
// Grounded on the teacher's Screen.EnterRawMode/ExitRawMode (direct
// unix.IoctlGetTermios/IoctlSetTermios calls).
type Terminal struct {
	fd       int
	orig     *unix.Termios
	inRaw    bool
	altShown bool
}

// NewTerminal binds to stdout's file descriptor.
func NewTerminal() *Terminal {
	return &Terminal{fd: int(os.Stdout.Fd())}
}

// Size returns the current terminal dimensions as (rows, cols).
func (t *Terminal) Size() (rows, cols int, err error) {
	ws, err := unix.IoctlGetWinsize(t.fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("get winsize: %w", err)
	}
	return int(ws.Row), int(ws.Col), nil
}

// EnterRaw puts the terminal into raw mode, enters the alternate
// screen, and hides the cursor. Call Restore (typically via defer) on
// every exit path.
func (t *Terminal) EnterRaw(w *os.File) error {
	if t.inRaw {
		return nil
	}
	termios, err := unix.IoctlGetTermios(t.fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("get termios: %w", err)
	}
	t.orig = termios

	raw := *termios
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, &raw); err != nil {
		return fmt.Errorf("set raw termios: %w", err)
	}
	t.inRaw = true

	fmt.Fprint(w, "\x1b[?1049h\x1b[2J\x1b[H\x1b[?25l")
	t.altShown = true
	return nil
}

// Restore undoes EnterRaw: exits the alternate screen, shows the
// cursor, and restores the original termios. Safe to call multiple
// times and safe to call on a Terminal that never entered raw mode.
func (t *Terminal) Restore(w *os.File) error {
	if !t.inRaw {
		return nil
	}
	if t.altShown {
		fmt.Fprint(w, "\x1b[?25h\x1b[?1049l")
		t.altShown = false
	}
	var err error
	if t.orig != nil {
		if e := unix.IoctlSetTermios(t.fd, ioctlSetTermios, t.orig); e != nil {
			err = fmt.Errorf("restore termios: %w", e)
		}
	}
	t.inRaw = false
	return err
}

// EnableMouse turns on SGR mouse tracking (button press/release and
// wheel reports; motion is not reported).
func (t *Terminal) EnableMouse(w *os.File) { fmt.Fprint(w, "\x1b[?1000h\x1b[?1006h") }

// DisableMouse turns off SGR mouse tracking.
func (t *Terminal) DisableMouse(w *os.File) { fmt.Fprint(w, "\x1b[?1000l\x1b[?1006l") }
