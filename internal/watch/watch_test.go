package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "/x/chat.txt", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/x/chat.ZIP", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/x/chat.txt", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "/x/chat.txt", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/x/photo.jpg", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/x/.chat.txt.swp", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/x/.partial.txt", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relevant(tt.ev), tt.ev.String())
	}
}

func TestRunDebounces(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "family"), 0o755))

	w, err := New(root, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, 100*time.Millisecond, func() { calls <- struct{}{} })
	}()

	// give the watcher a moment before writing
	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "family", "chat.txt"), []byte("x"), 0o644))
	}

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	require.NoError(t, <-done)
	assert.Empty(t, calls)
}

func TestNewMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}
