package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chat-export-viewer/internal/index"
	"github.com/Zuo-Peng/chat-export-viewer/internal/media"
	"github.com/Zuo-Peng/chat-export-viewer/internal/parse"
)

const (
	colorReset   = "\033[0m"
	colorSelf    = "\033[1;32m" // bold green
	colorOther   = "\033[1;34m" // bold blue
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
	colorURL     = "\033[4;36m" // underlined cyan
)

// Resolver finds the extracted media a message refers to.
type Resolver interface {
	ResolveMedia(filename string) (*media.Blob, bool)
}

type Options struct {
	HitID     int    // message id to mark, -1 for none
	Context   int    // messages before/after hit to show
	Width     int    // wrap width (0 = no wrap)
	Query     string // search query for keyword highlighting
	Lang      string // "en" or "ar"
	SelfNames []string
	Location  *time.Location // zone time labels are shown in, UTC when nil
	Now       func() time.Time
	Media     Resolver // nil renders every attachment as unresolved
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) location() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return time.UTC
}

// fts5Operators are FTS5 operators that should not be highlighted as keywords.
var fts5Operators = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "NEAR": true,
	"and": true, "or": true, "not": true, "near": true,
}

// keywordPattern builds one case-insensitive alternation over the query
// terms, longest first so overlapping terms highlight the longer one.
func keywordPattern(query string) *regexp.Regexp {
	var terms []string
	for _, t := range strings.Fields(query) {
		t = strings.Trim(t, `"*()`)
		if t == "" || fts5Operators[t] {
			continue
		}
		terms = append(terms, regexp.QuoteMeta(t))
	}
	if len(terms) == 0 {
		return nil
	}
	sort.Slice(terms, func(i, j int) bool { return len(terms[i]) > len(terms[j]) })
	return regexp.MustCompile("(?i)(" + strings.Join(terms, "|") + ")")
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red ANSI codes.
func highlightKeywords(text, query string) string {
	re := keywordPattern(query)
	if re == nil {
		return text
	}
	return re.ReplaceAllString(text, colorBoldRed+"$1"+colorReset)
}

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

func highlightURLs(text string) string {
	return urlPattern.ReplaceAllStringFunc(text, func(u string) string {
		return colorURL + u + colorReset
	})
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// TimeLabel formats a message time for display: "Today 14:30",
// "Yesterday 09:05" or "2023-05-12 14:30". Unparseable times give "".
func TimeLabel(ts string, now time.Time, loc *time.Location, lang string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ""
	}
	t = t.In(loc)
	now = now.In(loc)
	l := labelsFor(lang)
	switch {
	case sameDay(t, now):
		return l.today + " " + t.Format("15:04")
	case sameDay(t, now.AddDate(0, 0, -1)):
		return l.yesterday + " " + t.Format("15:04")
	}
	return t.Format("2006-01-02 15:04")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// MediaLine describes a message's attachment: "[image] name → file" when it
// resolved to extracted media, "📎 name" when it did not.
func MediaLine(name string, r Resolver) string {
	if r != nil {
		if blob, ok := r.ResolveMedia(name); ok {
			return fmt.Sprintf("[%s] %s → %s", blob.Kind, name, blob.File)
		}
	}
	return "📎 " + name
}

// window cuts msgs down to context messages either side of the message
// with id hitID. hitIdx is the hit's position in the result, -1 if absent.
func window(msgs []parse.Message, hitID, context int) (out []parse.Message, hitIdx, startPos int) {
	hitPos := -1
	for i, m := range msgs {
		if m.ID == hitID {
			hitPos = i
			break
		}
	}
	if hitPos < 0 {
		return msgs, -1, 0
	}
	startPos = max(hitPos-context, 0)
	endPos := min(hitPos+context+1, len(msgs))
	return msgs[startPos:endPos], hitPos - startPos, startPos
}

func contextSize(opts Options) int {
	if opts.Context == 0 {
		return 10
	}
	if opts.Context < 0 {
		return 1000000 // no limit
	}
	return opts.Context
}

// Conversation renders messages under a title and returns the content and
// the 0-based line number of the hit message header (-1 if no hit).
func Conversation(title string, msgs []parse.Message, opts Options) (string, int) {
	shown, hitIdx, startPos := window(msgs, opts.HitID, contextSize(opts))
	skipAfter := len(msgs) - startPos - len(shown)
	return write(title, shown, hitIdx, startPos, skipAfter, opts)
}

// RenderConversation renders an indexed chat around a hit message and returns
// the content, the 0-based line number of the hit header (-1 if no hit),
// and any error.
func RenderConversation(db *index.DB, chatKey string, opts Options) (string, int, error) {
	chat, err := db.GetChatByKey(chatKey)
	if err != nil {
		return "", -1, fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return "", -1, fmt.Errorf("chat not found: %s", chatKey)
	}

	rows, hitIdx, startPos, totalCount, err := db.GetMessagesWindow(chatKey, opts.HitID, contextSize(opts))
	if err != nil {
		return "", -1, fmt.Errorf("get messages: %w", err)
	}

	msgs := make([]parse.Message, len(rows))
	for i, r := range rows {
		msgs[i] = parse.Message{ID: r.MsgID, Time: r.Ts, Sender: r.Sender, Text: r.Text, Line: r.LineNumber}
	}
	title := fmt.Sprintf("%s [%s]", chat.Title, chat.Kind)
	content, hitLine := write(title, msgs, hitIdx, startPos, totalCount-startPos-len(msgs), opts)
	return content, hitLine, nil
}

func write(title string, msgs []parse.Message, hitIdx, skipBefore, skipAfter int, opts Options) (string, int) {
	l := labelsFor(opts.Lang)
	now := opts.now()
	loc := opts.location()

	var b strings.Builder
	hitLine := -1
	lineCount := 0
	wrapW := opts.Width

	// helper to track line count; wraps long lines if Width is set
	writeLine := func(s string) {
		wrapped := wrapLine(s, wrapW)
		for _, wl := range wrapped {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	// header
	writeLine(fmt.Sprintf("%s--- %s ---%s", colorDim, title, colorReset))

	if len(msgs) == 0 && skipBefore == 0 && skipAfter == 0 {
		writeLine(colorDim + l.noMessages + colorReset)
		return b.String(), -1
	}

	if skipBefore > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages before) ...%s", colorDim, skipBefore, colorReset))
	}

	for i, m := range msgs {
		isHit := i == hitIdx
		if isHit {
			hitLine = lineCount
		}

		sender := m.Sender
		senderColor := colorOther
		switch {
		case sender == parse.SystemSender:
			senderColor = colorDim
		case IsSelf(sender, opts.SelfNames):
			sender = l.you
			senderColor = colorSelf
		case sender == "":
			sender = l.unknown
		}
		ts := TimeLabel(m.Time, now, loc, opts.Lang)

		if isHit {
			writeLine(fmt.Sprintf("%s>> %s > %s <<%s", colorHit, sender, ts, colorReset))
		} else {
			writeLine(fmt.Sprintf("%s%s >%s %s%s%s", senderColor, sender, colorReset, colorDim, ts, colorReset))
		}

		text := m.Text
		att, hasAttachment := parse.ExtractAttachment(m.Text)
		if hasAttachment {
			text = att.Body
		}
		if text != "" {
			text = highlightURLs(highlightKeywords(text, opts.Query))
			for _, tl := range strings.Split(indentLines(text, "  "), "\n") {
				writeLine(tl)
			}
		}
		if hasAttachment {
			writeLine("  " + colorDim + MediaLine(att.Filename, opts.Media) + colorReset)
		}
		writeLine("") // blank line after message
	}

	if skipAfter > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages after) ...%s", colorDim, skipAfter, colorReset))
	}

	return b.String(), hitLine
}
