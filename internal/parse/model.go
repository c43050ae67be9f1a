package parse

import "time"

// SystemSender is the sender given to lines that appear before any
// recognized message header.
const SystemSender = "System"

// timeLayout matches the ISO form JavaScript's toISOString emits, which is
// what exported documents carry.
const timeLayout = "2006-01-02T15:04:05.000Z"

type Message struct {
	ID     int    `json:"id"`
	Time   string `json:"time"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
	Line   int    `json:"-"` // 1-based line of the header in the export
}

// Timestamp parses Time back into a time.Time.
func (m Message) Timestamp() (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, m.Time)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Header is the result of classifying a message header line.
type Header struct {
	Date   string
	Time   string
	Sender string
	Body   string
}

type Attachment struct {
	Filename string
	Body     string // message text with attachment markers removed
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
