package open

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chat-export-viewer/internal/index"
	"github.com/Zuo-Peng/chat-export-viewer/internal/media"
	"github.com/Zuo-Peng/chat-export-viewer/internal/parse"
)

func TestEditorCommand(t *testing.T) {
	tests := []struct {
		editor string
		want   []string
	}{
		{"vim", []string{"vim", "+7", "chat.txt"}},
		{"/usr/bin/nvim", []string{"/usr/bin/nvim", "+7", "chat.txt"}},
		{"code", []string{"code", "--goto", "chat.txt:7"}},
		{"less", []string{"less", "+7", "chat.txt"}},
		{"nano", []string{"nano", "+7", "chat.txt"}},
		{"emacs", []string{"emacs", "chat.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.editor, func(t *testing.T) {
			assert.Equal(t, tt.want, editorCommand(tt.editor, "chat.txt", 7).Args)
		})
	}
}

func TestOpenerCommand(t *testing.T) {
	assert.Equal(t, []string{"open", "a.jpg"}, openerCommand("darwin", "", "a.jpg").Args)
	assert.Equal(t, []string{"xdg-open", "a.jpg"}, openerCommand("linux", "", "a.jpg").Args)
	assert.Equal(t, []string{"cmd", "/c", "start", "", "a.jpg"}, openerCommand("windows", "", "a.jpg").Args)
	assert.Equal(t, []string{"feh", "a.jpg"}, openerCommand("linux", "feh", "a.jpg").Args)
}

func TestMediaMissingFile(t *testing.T) {
	err := Media(&media.Blob{File: filepath.Join(t.TempDir(), "gone.jpg")})
	assert.Error(t, err)
}

func TestMediaRunsOpener(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.jpg")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	t.Setenv("CEV_OPENER", "true")
	assert.NoError(t, Media(&media.Blob{File: file}))
}

func TestOpenChat(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "chat.txt"), []byte("12/5/23, 14:30 - Alice: hi\n"), 0o644))
	db, err := index.OpenDB(filepath.Join(t.TempDir(), "cev.db"))
	require.NoError(t, err)
	defer db.Close()
	_, err = index.IndexAll(db, root, index.Options{Normalizer: parse.Normalizer{}})
	require.NoError(t, err)

	t.Setenv("EDITOR", "true")
	assert.NoError(t, OpenChat(db, "txt:chat.txt", 0))
	assert.Error(t, OpenChat(db, "txt:missing.txt", 0))

	_, err = db.Raw().Exec("UPDATE chats SET kind = 'zip'")
	require.NoError(t, err)
	assert.ErrorIs(t, OpenChat(db, "txt:chat.txt", 0), ErrArchive)
}
