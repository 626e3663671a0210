// Package clipboard wraps the system clipboard collaborator named in
// §6, serializing access since it is a shared resource (§5). When no
// clipboard utility is available (e.g. headless CI, a bare tty with no
// xclip/pbcopy/wl-clipboard), Available reports false and Write and
// Read return an Io error.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"

	"github.com/davidledwards/ped/internal/errs"
)

var mu sync.Mutex

// Available reports whether a system clipboard utility was found.
func Available() bool { return !clipboard.Unsupported }

// Write stores scalars on the system clipboard.
func Write(scalars []rune) error {
	mu.Lock()
	defer mu.Unlock()
	if err := clipboard.WriteAll(string(scalars)); err != nil {
		return errs.Newf(errs.Io, "clipboard.Write", "%w", err)
	}
	return nil
}

// Read retrieves the current system clipboard content as scalars.
func Read() ([]rune, error) {
	mu.Lock()
	defer mu.Unlock()
	s, err := clipboard.ReadAll()
	if err != nil {
		return nil, errs.Newf(errs.Io, "clipboard.Read", "%w", err)
	}
	return []rune(s), nil
}
