package parse

import "strings"

// Assembler folds a raw export into messages. A header line starts a new
// message; any other non-blank line continues the current one.
type Assembler struct {
	Normalizer Normalizer
}

// Parse parses raw with the default normalizer (UTC, wall clock fallback).
func Parse(raw string) []Message {
	return Assembler{}.Parse(raw)
}

func (a Assembler) Parse(raw string) []Message {
	var msgs []Message
	var current *Message

	for i, line := range splitLines(raw) {
		if isBlank(line) {
			continue
		}

		h, ok := ClassifyLine(line)
		if ok {
			if current != nil {
				msgs = append(msgs, *current)
			}
			current = &Message{
				ID:     len(msgs),
				Time:   a.Normalizer.Normalize(h.Date, h.Time),
				Sender: h.Sender,
				Text:   h.Body,
				Line:   i + 1,
			}
			continue
		}

		if current != nil {
			current.Text += "\n" + line
			continue
		}

		// nothing to attach to yet: each leading line stands alone
		msgs = append(msgs, Message{
			ID:     len(msgs),
			Time:   formatTime(a.Normalizer.now()),
			Sender: SystemSender,
			Text:   line,
			Line:   i + 1,
		})
	}

	if current != nil {
		msgs = append(msgs, *current)
	}
	return msgs
}

// splitLines splits on \r\n, \n and lone \r.
func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	return strings.Split(raw, "\n")
}
