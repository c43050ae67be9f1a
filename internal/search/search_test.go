package search

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chat-export-viewer/internal/index"
	"github.com/Zuo-Peng/chat-export-viewer/internal/parse"
)

var exports = map[string]string{
	"WhatsApp Chat with Bob.txt": "12/5/23, 14:30 - Alice: Hello there\n" +
		"12/5/23, 14:31 - Bob: hello again, dinner?\n" +
		"12/5/23, 14:32 - Alice: see you tomorrow\n",
	"WhatsApp Chat with Mum.txt": "2024-02-01 09:00 - Mum: dinner at eight\n" +
		"2024-02-01 09:05 - Alice: 你好世界\n",
}

func openIndexed(t *testing.T) *index.DB {
	t.Helper()
	root := t.TempDir()
	for name, body := range exports {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(body), 0o644))
	}
	db, err := index.OpenDB(filepath.Join(t.TempDir(), "cev.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	_, err = index.IndexAll(db, root, index.Options{
		Normalizer: parse.Normalizer{Now: func() time.Time { return now }},
	})
	require.NoError(t, err)
	return db
}

func TestSearchFTS(t *testing.T) {
	db := openIndexed(t)

	results, err := Search(db, Options{Query: "tomorrow"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, "txt:WhatsApp Chat with Bob.txt", r.ChatKey)
	assert.Equal(t, 2, r.MsgID)
	assert.Equal(t, "Alice", r.Sender)
	assert.Equal(t, "Bob", r.Title)
	assert.Contains(t, r.Snippet, ">>>tomorrow<<<")
}

func TestSearchDedupesPerChat(t *testing.T) {
	db := openIndexed(t)

	results, err := Search(db, Options{Query: "hello"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "txt:WhatsApp Chat with Bob.txt", results[0].ChatKey)

	results, err = Search(db, Options{Query: "dinner"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchFilters(t *testing.T) {
	db := openIndexed(t)

	results, err := Search(db, Options{Query: "dinner", Sender: "mum"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Mum", results[0].Sender)

	results, err = Search(db, Options{Query: "dinner", Since: "2024-01-01"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "txt:WhatsApp Chat with Mum.txt", results[0].ChatKey)

	results, err = Search(db, Options{Query: "dinner", Kind: "zip"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchLike(t *testing.T) {
	db := openIndexed(t)

	results, err := Search(db, Options{Query: "世界"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].MsgID)
	assert.Equal(t, "你好>>>世界<<<", results[0].Snippet)
}

func TestSearchBadSyntaxFallsBack(t *testing.T) {
	db := openIndexed(t)

	results, err := Search(db, Options{Query: `"again`})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListAll(t *testing.T) {
	db := openIndexed(t)

	results, err := ListAll(db, Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Mum", results[0].Title)
	assert.Equal(t, -1, results[0].MsgID)
	assert.Equal(t, "2 messages", results[0].Snippet)

	results, err = ListAll(db, Options{Query: "BO"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Bob", results[0].Title)

	results, err = ListAll(db, Options{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestMakeSnippet(t *testing.T) {
	assert.Equal(t, "say >>>Hi<<< now", makeSnippet("say Hi now", "hi", 10))
	assert.Equal(t, "...b >>>c<<< d...", makeSnippet("a b c d e", "c", 2))
	assert.Equal(t, "abcd...", makeSnippet("abcdefgh", "zz", 2))
	assert.Equal(t, "short", makeSnippet("short", "zz", 10))
	assert.Equal(t, "İ >>>x<<<", makeSnippet("İ x", "x", 5))
}

func TestFilterMessages(t *testing.T) {
	msgs := []parse.Message{
		{ID: 0, Sender: "Alice", Text: "Hello"},
		{ID: 1, Sender: "Bob", Text: "see you"},
		{ID: 2, Sender: "System", Text: "Messages are end-to-end encrypted"},
	}

	assert.Equal(t, msgs, FilterMessages(msgs, "  "))

	got := FilterMessages(msgs, "BOB")
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)

	got = FilterMessages(msgs, "e")
	assert.Len(t, got, 3)

	assert.Empty(t, FilterMessages(msgs, "nothing"))
}
