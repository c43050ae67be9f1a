package search

import (
	"strings"

	"github.com/Zuo-Peng/chat-export-viewer/internal/parse"
)

// FilterMessages keeps the messages whose text or sender contains query,
// ignoring case. An empty query keeps everything.
func FilterMessages(msgs []parse.Message, query string) []parse.Message {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return msgs
	}
	var out []parse.Message
	for _, m := range msgs {
		if strings.Contains(strings.ToLower(m.Text), q) || strings.Contains(strings.ToLower(m.Sender), q) {
			out = append(out, m)
		}
	}
	return out
}
