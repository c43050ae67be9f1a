package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/chat-export-viewer/internal/index"
)

type Result struct {
	ChatKey   string
	MsgID     int // -1 for chat listings with no hit
	Ts        string
	UpdatedAt string
	Kind      string
	Title     string
	Summary   string
	Snippet   string
	Sender    string
	Rank      float64
}

type Options struct {
	Query  string
	Sender string // "" = all, compared case-insensitively
	Kind   string // "" = all, "txt", "zip"
	Since  string // "" = no filter, e.g. "2024-01-01"
	Limit  int
}

// needsLike reports whether query holds scripts the unicode61 tokenizer
// cannot split into words (CJK has no spaces between words).
func needsLike(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul, unicode.Thai) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	runes := []rune(text)
	runePos := indexFold(runes, []rune(query))
	if runePos < 0 {
		// no match, return head
		if len(runes) > contextChars*2 {
			return string(runes[:contextChars*2]) + "..."
		}
		return text
	}
	qLen := len([]rune(query))
	start := max(runePos-contextChars, 0)
	end := min(runePos+qLen+contextChars, len(runes))
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	// wrap the matched part with markers
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+qLen]) + "<<<" +
		string(runes[runePos+qLen:end])
	return prefix + snippet + suffix
}

// indexFold is a rune-position case-insensitive search; byte offsets of
// strings.ToLower output can drift from the original text.
func indexFold(text, query []rune) int {
	if len(query) == 0 || len(query) > len(text) {
		return -1
	}
outer:
	for i := 0; i+len(query) <= len(text); i++ {
		for j, q := range query {
			if unicode.ToLower(text[i+j]) != unicode.ToLower(q) {
				continue outer
			}
		}
		return i
	}
	return -1
}

func Search(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	// Fetch more results before dedup so we still have enough after
	origLimit := opts.Limit
	opts.Limit = origLimit * 3

	var results []Result
	var err error
	if needsLike(opts.Query) {
		results, err = searchLike(db, opts)
	} else {
		results, err = searchFTS(db, opts)
		if err != nil {
			// unbalanced quotes or stray operators are not valid FTS syntax
			results, err = searchLike(db, opts)
		}
	}
	if err != nil {
		return nil, err
	}

	// Deduplicate: keep only the best-ranked result per chat
	seen := make(map[string]bool)
	var deduped []Result
	for _, r := range results {
		if seen[r.ChatKey] {
			continue
		}
		seen[r.ChatKey] = true
		deduped = append(deduped, r)
		if len(deduped) >= origLimit {
			break
		}
	}
	return deduped, nil
}

func filters(opts Options, conditions []string, args []any) ([]string, []any) {
	if opts.Sender != "" {
		conditions = append(conditions, "m.sender = ? COLLATE NOCASE")
		args = append(args, opts.Sender)
	}
	if opts.Kind != "" {
		conditions = append(conditions, "c.kind = ?")
		args = append(args, opts.Kind)
	}
	if opts.Since != "" {
		conditions = append(conditions, "m.ts >= ?")
		args = append(args, opts.Since)
	}
	return conditions, args
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	conditions, args := filters(opts, []string{"messages_fts MATCH ?"}, []any{opts.Query})
	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			m.chat_key,
			m.msg_id,
			m.ts,
			c.updated_at,
			c.kind,
			c.title,
			c.summary,
			snippet(messages_fts, 0, '>>>','<<<', '...', 24) as snip,
			m.sender,
			bm25(messages_fts) as rank
		FROM messages_fts
		JOIN messages m ON messages_fts.rowid = m.rowid
		JOIN chats c ON m.chat_key = c.chat_key
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	conditions, args := filters(opts, []string{"m.text LIKE ?"}, []any{"%" + opts.Query + "%"})
	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			m.chat_key,
			m.msg_id,
			m.ts,
			c.updated_at,
			c.kind,
			c.title,
			c.summary,
			m.text,
			m.sender
		FROM messages m
		JOIN chats c ON m.chat_key = c.chat_key
		WHERE %s
		ORDER BY c.updated_at DESC, m.msg_id
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var fullText string
		if err := rows.Scan(
			&r.ChatKey, &r.MsgID, &r.Ts, &r.UpdatedAt,
			&r.Kind, &r.Title, &r.Summary,
			&fullText, &r.Sender,
		); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(fullText, opts.Query, 30)
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListAll returns every indexed chat, newest first. Query, when set, filters
// by a case-insensitive title substring; Kind and Since apply to the chat.
func ListAll(db *index.DB, opts Options) ([]Result, error) {
	chats, err := db.ListChats()
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	needle := strings.ToLower(opts.Query)
	var results []Result
	for _, c := range chats {
		if needle != "" && !strings.Contains(strings.ToLower(c.Title), needle) {
			continue
		}
		if opts.Kind != "" && c.Kind != opts.Kind {
			continue
		}
		if opts.Since != "" && c.UpdatedAt < opts.Since {
			continue
		}
		results = append(results, Result{
			ChatKey:   c.ChatKey,
			MsgID:     -1,
			Ts:        c.UpdatedAt,
			UpdatedAt: c.UpdatedAt,
			Kind:      c.Kind,
			Title:     c.Title,
			Summary:   c.Summary,
			Snippet:   fmt.Sprintf("%d messages", c.MessageCount),
		})
		if opts.Limit > 0 && len(results) >= opts.Limit {
			break
		}
	}
	return results, nil
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.ChatKey, &r.MsgID, &r.Ts, &r.UpdatedAt,
			&r.Kind, &r.Title, &r.Summary,
			&r.Snippet, &r.Sender, &r.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
