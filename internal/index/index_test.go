package index

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chat-export-viewer/internal/parse"
)

const bobChat = "12/5/23, 14:30 - Alice: Hello there\n" +
	"12/5/23, 14:31 - Bob: IMG-20230101-WA0001.jpg (file attached)\n" +
	"12/5/23, 14:32 - Alice: see you tomorrow\n"

func fixedOptions() Options {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return Options{Normalizer: parse.Normalizer{Now: func() time.Time { return now }}}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func setup(t *testing.T) (*DB, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "WhatsApp Chat with Bob.txt"), []byte(bobChat), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "family"), 0o755))
	writeZip(t, filepath.Join(root, "family", "WhatsApp Chat - Family.zip"), map[string]string{
		"WhatsApp Chat - Family.txt": "2023-05-12 09:00 - Mum: dinner at eight\n",
		"IMG-1.jpg":                  "jpegbytes",
	})

	db, err := OpenDB(filepath.Join(t.TempDir(), "sub", "cev.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, root
}

func TestIndexAll(t *testing.T) {
	db, root := setup(t)

	stats, err := IndexAll(db, root, fixedOptions())
	require.NoError(t, err)
	assert.Equal(t, Stats{Scanned: 2, Updated: 2}, stats)

	n, err := db.ChatCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = db.MessageCount()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	fts, err := db.FTSCount()
	require.NoError(t, err)
	assert.Equal(t, n, fts)

	chat, err := db.GetChatByKey("txt:WhatsApp Chat with Bob.txt")
	require.NoError(t, err)
	require.NotNil(t, chat)
	assert.Equal(t, "Bob", chat.Title)
	assert.Equal(t, "txt", chat.Kind)
	assert.Equal(t, "2023-05-12T14:30:00.000Z", chat.CreatedAt)
	assert.Equal(t, "2023-05-12T14:32:00.000Z", chat.UpdatedAt)
	assert.Equal(t, "Hello there", chat.Summary)
	assert.Equal(t, 3, chat.MessageCount)

	byPath, err := db.GetChatByPath(filepath.Join(root, "WhatsApp Chat with Bob.txt"))
	require.NoError(t, err)
	require.NotNil(t, byPath)
	assert.Equal(t, chat.ChatKey, byPath.ChatKey)

	family, err := db.GetChatByKey("zip:family/WhatsApp Chat - Family.zip")
	require.NoError(t, err)
	require.NotNil(t, family)
	assert.Equal(t, "Family", family.Title)
	assert.Equal(t, 1, family.MessageCount)

	msgs, err := db.GetMessages(chat.ChatKey)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "Bob", msgs[1].Sender)
	assert.Equal(t, "IMG-20230101-WA0001.jpg", msgs[1].Attachment)
	assert.Equal(t, 2, msgs[1].LineNumber)
	assert.Empty(t, msgs[0].Attachment)

	chats, err := db.ListChats()
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, chat.ChatKey, chats[0].ChatKey) // newest first
}

func TestIndexAllIncremental(t *testing.T) {
	db, root := setup(t)

	_, err := IndexAll(db, root, fixedOptions())
	require.NoError(t, err)

	stats, err := IndexAll(db, root, fixedOptions())
	require.NoError(t, err)
	assert.Equal(t, Stats{Scanned: 2, Skipped: 2}, stats)

	require.NoError(t, os.Remove(filepath.Join(root, "WhatsApp Chat with Bob.txt")))
	stats, err = IndexAll(db, root, fixedOptions())
	require.NoError(t, err)
	assert.Equal(t, Stats{Scanned: 1, Skipped: 1, Pruned: 1}, stats)

	n, err := db.MessageCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIndexAllCountsBrokenArchives(t *testing.T) {
	db, root := setup(t)
	writeZip(t, filepath.Join(root, "media-only.zip"), map[string]string{"IMG-2.jpg": "x"})

	stats, err := IndexAll(db, root, fixedOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Scanned)
	assert.Equal(t, 2, stats.Updated)
	assert.Equal(t, 1, stats.Errors)
}

func TestIndexAllExclude(t *testing.T) {
	db, root := setup(t)
	opts := fixedOptions()
	opts.Exclude = []string{"family/**"}

	stats, err := IndexAll(db, root, opts)
	require.NoError(t, err)
	assert.Equal(t, Stats{Scanned: 1, Updated: 1}, stats)
}

func TestGetMessagesWindow(t *testing.T) {
	db, root := setup(t)
	_, err := IndexAll(db, root, fixedOptions())
	require.NoError(t, err)

	key := "txt:WhatsApp Chat with Bob.txt"
	msgs, hitIdx, startPos, total, err := db.GetMessagesWindow(key, 1, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, 0, hitIdx)
	assert.Equal(t, 1, startPos)
	assert.Equal(t, 3, total)
	assert.Equal(t, "Bob", msgs[0].Sender)

	msgs, hitIdx, startPos, _, err = db.GetMessagesWindow(key, 2, 5)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
	assert.Equal(t, 2, hitIdx)
	assert.Equal(t, 0, startPos)

	msgs, hitIdx, _, _, err = db.GetMessagesWindow(key, -1, 5)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
	assert.Equal(t, -1, hitIdx)
}

func TestTitle(t *testing.T) {
	tests := []struct{ rel, want string }{
		{"WhatsApp Chat with Bob.txt", "Bob"},
		{"family/WhatsApp Chat - Family.zip", "Family"},
		{"dir/export.txt", "export"},
		{"WhatsApp Chat with .txt", "WhatsApp Chat with .txt"},
		{"محادثة واتساب.txt", "محادثة واتساب"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Title(tt.rel), tt.rel)
	}
}

func TestSchemaVersionForcesReindex(t *testing.T) {
	db, root := setup(t)
	_, err := IndexAll(db, root, fixedOptions())
	require.NoError(t, err)

	_, err = db.Raw().Exec("UPDATE meta SET value = 'old' WHERE key = 'schema_version'")
	require.NoError(t, err)
	require.NoError(t, db.migrateSchemaVersion())

	stats, err := IndexAll(db, root, fixedOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Updated)
}
