package config

import (
	"github.com/fsnotify/fsnotify"

	"github.com/davidledwards/ped/internal/errs"
	"github.com/davidledwards/ped/internal/logging"
)

// Watcher notifies on changes to a syntax-definition directory, an
// optional hot-reload convenience layered on top of §6's static
// discovery (not required by spec.md, but the kind of thing an
// editor's own config layer naturally grows; supplemental per
// SPEC_FULL.md).
type Watcher struct {
	w      *fsnotify.Watcher
	Events chan struct{}
}

// WatchSyntaxDirs starts watching every existing syntax directory
// returned by SyntaxDirs. Non-existent directories are skipped
// silently; if none exist, the returned Watcher still works but will
// never fire.
func WatchSyntaxDirs(home string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errs.New(errs.Internal, "config.WatchSyntaxDirs", err)
	}
	for _, dir := range SyntaxDirs(home) {
		if err := fw.Add(dir); err != nil {
			logging.Log().Debug("syntax dir not watched", "dir", dir, "err", err)
		}
	}

	watcher := &Watcher{w: fw, Events: make(chan struct{}, 1)}
	go watcher.pump()
	return watcher, nil
}

func (w *Watcher) pump() {
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case w.Events <- struct{}{}:
			default:
				// A reload is already pending; coalesce.
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			logging.Log().Warn("syntax watcher error", "err", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error { return w.w.Close() }
