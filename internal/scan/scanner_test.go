package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chat-export-viewer/internal/session"
)

func touch(t *testing.T, root, rel string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
}

func TestScanRoot(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "WhatsApp Chat with Bob.txt")
	touch(t, root, "family/WhatsApp Chat - Family.ZIP")
	touch(t, root, "family/photo.jpg")
	touch(t, root, ".hidden/chat.txt")
	touch(t, root, "old/2019/chat.txt")

	files, err := ScanRoot(root, []string{"old/**"})
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.Rel)
	}
	assert.ElementsMatch(t, []string{"WhatsApp Chat with Bob.txt", "family/WhatsApp Chat - Family.ZIP"}, rels)

	for _, f := range files {
		if f.Rel == "family/WhatsApp Chat - Family.ZIP" {
			assert.Equal(t, session.KindArchive, f.Kind)
			assert.Equal(t, int64(1), f.Size)
		}
	}
}

func TestScanRootMissing(t *testing.T) {
	files, err := ScanRoot(filepath.Join(t.TempDir(), "nope"), nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanRootBadPattern(t *testing.T) {
	_, err := ScanRoot(t.TempDir(), []string{"[unclosed"})
	assert.Error(t, err)
}
