package index

import (
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/Zuo-Peng/chat-export-viewer/internal/parse"
	"github.com/Zuo-Peng/chat-export-viewer/internal/scan"
	"github.com/Zuo-Peng/chat-export-viewer/internal/session"
)

type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors)
}

type Options struct {
	Exclude    []string
	Normalizer parse.Normalizer
	Logger     *slog.Logger
}

func IndexAll(db *DB, root string, opts Options) (Stats, error) {
	var stats Stats
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	files, err := scan.ScanRoot(root, opts.Exclude)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	// track which files we see, for pruning
	seenKeys := make(map[string]struct{})

	for _, fi := range files {
		key := ChatKey(fi)
		seenKeys[key] = struct{}{}

		needs, err := needsUpdate(db, key, fi.Mtime, fi.Size)
		if err != nil {
			stats.Errors++
			continue
		}
		if !needs {
			stats.Skipped++
			continue
		}

		raw, err := session.ReadText(fi.Path)
		if err != nil {
			stats.Errors++
			log.Warn("read export", "path", fi.Path, "err", err)
			continue
		}
		msgs := parse.Assembler{Normalizer: opts.Normalizer}.Parse(raw)

		if err := indexChat(db, key, fi, msgs); err != nil {
			stats.Errors++
			log.Warn("index export", "path", fi.Path, "err", err)
			continue
		}
		log.Debug("indexed", "chat", key, "messages", len(msgs))
		stats.Updated++
	}

	// prune chats whose files no longer exist
	pruned, err := pruneChats(db, seenKeys)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

// ChatKey identifies an export by kind and root-relative path.
func ChatKey(fi scan.FileInfo) string {
	return string(fi.Kind) + ":" + fi.Rel
}

var titlePrefix = regexp.MustCompile(`(?i)^whatsapp chat (with|-|مع)\s*`)

// Title derives a chat title from an export's file name:
// "WhatsApp Chat with Bob.txt" becomes "Bob".
func Title(rel string) string {
	name := path.Base(rel)
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.TrimSpace(titlePrefix.ReplaceAllString(name, ""))
	if name == "" {
		return path.Base(rel)
	}
	return name
}

const summaryLimit = 120

// summary is the first message a person wrote, falling back to the first
// message of any kind.
func summary(msgs []parse.Message) string {
	if len(msgs) == 0 {
		return ""
	}
	pick := msgs[0].Text
	for _, m := range msgs {
		if m.Sender != parse.SystemSender {
			pick = m.Text
			break
		}
	}
	pick = strings.Join(strings.Fields(pick), " ")
	if r := []rune(pick); len(r) > summaryLimit {
		pick = string(r[:summaryLimit]) + "…"
	}
	return pick
}

func needsUpdate(db *DB, chatKey string, mtime, size int64) (bool, error) {
	info, err := db.GetChatInfo(chatKey)
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil // new chat
	}
	return info.Mtime != mtime || info.Size != size, nil
}

func indexChat(db *DB, key string, fi scan.FileInfo, msgs []parse.Message) error {
	// delete old data first
	if err := db.DeleteChat(key); err != nil {
		return err
	}

	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var createdAt, updatedAt string
	if len(msgs) > 0 {
		createdAt = msgs[0].Time
		updatedAt = msgs[len(msgs)-1].Time
	}

	_, err = tx.Exec(
		`INSERT INTO chats (chat_key, kind, file_path, title, created_at, updated_at, summary, message_count, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key,
		string(fi.Kind),
		fi.Path,
		Title(fi.Rel),
		createdAt,
		updatedAt,
		summary(msgs),
		len(msgs),
		fi.Mtime,
		fi.Size,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO messages (chat_key, msg_id, ts, sender, text, attachment, line_number)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range msgs {
		var attachment string
		if a, ok := parse.ExtractAttachment(m.Text); ok {
			attachment = a.Filename
		}
		if _, err := stmt.Exec(key, m.ID, m.Time, m.Sender, m.Text, attachment, m.Line); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func pruneChats(db *DB, seenKeys map[string]struct{}) (int, error) {
	allKeys, err := db.AllChatKeys()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for key := range allKeys {
		if _, ok := seenKeys[key]; !ok {
			if err := db.DeleteChat(key); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
