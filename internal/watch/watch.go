package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Zuo-Peng/chat-export-viewer/internal/session"
)

// Watcher reports changes to exports under a root directory. fsnotify is not
// recursive, so every non-hidden directory is watched and new ones are added
// as they appear.
type Watcher struct {
	fsw  *fsnotify.Watcher
	root string
	log  *slog.Logger
}

func New(root string, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fsw: fsw, root: root, log: log}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.log.Warn("cannot watch", "path", path, "err", err)
		}
		return nil
	})
}

// Run calls onChange once per burst of export changes, after debounce has
// passed without further events. It blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, debounce time.Duration, onChange func()) error {
	defer w.fsw.Close()

	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 && isDir(ev.Name) {
				if err := w.addTree(ev.Name); err != nil {
					w.log.Warn("cannot watch", "path", ev.Name, "err", err)
				}
			}
			if !relevant(ev) {
				continue
			}
			w.log.Debug("export changed", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)
			pending = true
		case <-timer.C:
			if pending {
				pending = false
				onChange()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "err", err)
		}
	}
}

// relevant keeps write, create, remove and rename events on export files.
func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return false
	}
	_, err := session.KindOf(ev.Name)
	return err == nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
