package render

import (
	"fmt"

	"github.com/Zuo-Peng/chat-export-viewer/internal/parse"
)

type Stats struct {
	Messages    int
	System      int
	Senders     int
	Attachments int
	Resolved    int
	First       string
	Last        string
}

// Summarize counts messages, distinct senders and attachments. Resolved
// counts attachments r could find; r may be nil.
func Summarize(msgs []parse.Message, r Resolver) Stats {
	var s Stats
	senders := make(map[string]struct{})
	for _, m := range msgs {
		s.Messages++
		if m.Sender == parse.SystemSender {
			s.System++
		} else {
			senders[m.Sender] = struct{}{}
		}
		if att, ok := parse.ExtractAttachment(m.Text); ok {
			s.Attachments++
			if r != nil {
				if _, ok := r.ResolveMedia(att.Filename); ok {
					s.Resolved++
				}
			}
		}
	}
	s.Senders = len(senders)
	if len(msgs) > 0 {
		s.First = msgs[0].Time
		s.Last = msgs[len(msgs)-1].Time
	}
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("messages=%d system=%d senders=%d attachments=%d resolved=%d",
		s.Messages, s.System, s.Senders, s.Attachments, s.Resolved)
}
