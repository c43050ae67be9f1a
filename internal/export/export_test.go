package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chat-export-viewer/internal/parse"
)

func TestRoundTrip(t *testing.T) {
	a := parse.Assembler{Normalizer: parse.Normalizer{Now: func() time.Time { return time.Unix(0, 0) }}}
	msgs := a.Parse("intro\n12/5/23, 14:30 - Alice: <مرفق: IMG-1.jpg> & <b>\nline two\n5/13/23, 09:00 - Bob: ok")

	path := filepath.Join(t.TempDir(), DefaultName)
	require.NoError(t, WriteFile(path, msgs))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, len(msgs))
	for i := range msgs {
		assert.Equal(t, msgs[i].ID, got[i].ID)
		assert.Equal(t, msgs[i].Time, got[i].Time)
		assert.Equal(t, msgs[i].Sender, got[i].Sender)
		assert.Equal(t, msgs[i].Text, got[i].Text)
	}
}

func TestWriteShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []parse.Message{{ID: 0, Time: "2023-05-12T14:30:00.000Z", Sender: "Alice", Text: "<hi>", Line: 7}}))

	want := `{
  "messages": [
    {
      "id": 0,
      "time": "2023-05-12T14:30:00.000Z",
      "sender": "Alice",
      "text": "<hi>"
    }
  ]
}
`
	assert.Equal(t, want, buf.String())
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	assert.JSONEq(t, `{"messages": []}`, buf.String())
}

func TestReadInvalid(t *testing.T) {
	_, err := Read(bytes.NewBufferString("{"))
	assert.Error(t, err)
}
