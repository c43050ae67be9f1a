package session

import (
	"context"
	"sync"
)

// Loader holds the one document currently on screen. Loading another file
// supersedes it: the old session's blobs are revoked first, and a failed load
// leaves nothing behind.
type Loader struct {
	opts Options

	mu      sync.Mutex
	current *Session
}

func NewLoader(opts Options) *Loader {
	return &Loader{opts: opts}
}

// Load replaces the current session with path. A file of the wrong type is
// rejected before anything changes.
func (l *Loader) Load(ctx context.Context, path string) (*Session, error) {
	if _, err := KindOf(path); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.releaseLocked(); err != nil {
		l.opts.withDefaults().Logger.Warn("revoke previous session", "err", err)
	}
	s, err := Load(ctx, path, l.opts)
	if err != nil {
		return nil, err
	}
	l.current = s
	return s, nil
}

// Current returns the loaded session, or nil.
func (l *Loader) Current() *Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.releaseLocked()
}

func (l *Loader) releaseLocked() error {
	if l.current == nil {
		return nil
	}
	err := l.current.Close()
	l.current = nil
	return err
}
