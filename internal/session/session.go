// Package session loads one export file into a self-contained document:
// the parsed messages plus, for archives, the extracted media and the table
// that resolves attachment names against it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Zuo-Peng/chat-export-viewer/internal/archive"
	"github.com/Zuo-Peng/chat-export-viewer/internal/media"
	"github.com/Zuo-Peng/chat-export-viewer/internal/parse"
)

var (
	ErrFileTypeUnsupported = errors.New("unsupported file type, expected .zip or .txt")
	ErrArchiveMissingText  = errors.New("no .txt file found in the archive")
	ErrTextRead            = errors.New("failed to read chat text")
)

type Kind string

const (
	KindText    Kind = "txt"
	KindArchive Kind = "zip"
)

// KindOf decides how path is loaded from its extension alone.
func KindOf(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return KindArchive, nil
	case ".txt":
		return KindText, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrFileTypeUnsupported, filepath.Base(path))
	}
}

type Options struct {
	CacheDir   string // parent of per-session blob directories
	Workers    int    // concurrent media extractions
	Normalizer parse.Normalizer
	Logger     *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.CacheDir == "" {
		o.CacheDir = filepath.Join(os.TempDir(), "cev")
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

type Session struct {
	ID       string
	Source   string
	Kind     Kind
	Messages []parse.Message
	Media    *media.Table
	LoadedAt time.Time

	store *media.Store
}

// ResolveMedia finds the extracted blob for an attachment name.
func (s *Session) ResolveMedia(filename string) (*media.Blob, bool) {
	return s.Media.Resolve(filename)
}

// Close revokes every blob the session extracted.
func (s *Session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Revoke()
}

// Load reads path into a new session. Only load-level problems are errors;
// malformed lines and dates are absorbed by the parser.
func Load(ctx context.Context, path string, opts Options) (*Session, error) {
	kind, err := KindOf(path)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	s := &Session{
		ID:       uuid.NewString(),
		Source:   path,
		Kind:     kind,
		Media:    media.NewTable(),
		LoadedAt: time.Now(),
	}

	switch kind {
	case KindArchive:
		err = s.loadArchive(ctx, opts)
	default:
		err = s.loadText(opts)
	}
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("export loaded",
		"session", s.ID,
		"source", path,
		"kind", string(kind),
		"messages", len(s.Messages),
		"media", len(s.Media.Blobs()),
	)
	return s, nil
}

func (s *Session) loadText(opts Options) error {
	text, err := ReadText(s.Source)
	if err != nil {
		return err
	}
	s.Messages = parse.Assembler{Normalizer: opts.Normalizer}.Parse(text)
	return nil
}

func (s *Session) loadArchive(ctx context.Context, opts Options) error {
	z, err := archive.Open(s.Source)
	if err != nil {
		return err
	}
	defer z.Close()

	text, err := archiveText(z)
	if err != nil {
		return err
	}
	s.Messages = parse.Assembler{Normalizer: opts.Normalizer}.Parse(text)

	store, err := media.NewStore(opts.CacheDir, s.ID)
	if err != nil {
		return err
	}
	blobs, err := extractMedia(ctx, z, z.Entries(), store, opts.Workers)
	if err != nil {
		store.Revoke()
		return fmt.Errorf("extract media: %w", err)
	}

	// every extraction has finished; the table is built in one pass and
	// never touched again
	for _, b := range blobs {
		if b != nil {
			s.Media.Register(b.Source, b)
		}
	}
	s.store = store
	opts.Logger.Debug("media extracted", "session", s.ID, "entries", len(blobs), "keys", s.Media.Len())
	return nil
}

// extractMedia reads every non-text file entry into st, at most workers at a
// time, and returns once all of them are done.
func extractMedia(ctx context.Context, z *archive.Zip, entries []archive.Entry, st *media.Store, workers int) ([]*media.Blob, error) {
	blobs := make([]*media.Blob, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, e := range entries {
		if e.IsDir || archive.IsText(e) {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := z.ReadBinary(e.Path, st)
			if err != nil {
				return err
			}
			blobs[i] = b
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blobs, nil
}

// ReadText returns the chat text of an export without extracting media.
func ReadText(path string) (string, error) {
	kind, err := KindOf(path)
	if err != nil {
		return "", err
	}

	if kind == KindArchive {
		z, err := archive.Open(path)
		if err != nil {
			return "", err
		}
		defer z.Close()
		return archiveText(z)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTextRead, err)
	}
	text, err := decodeText(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTextRead, err)
	}
	return text, nil
}

// archiveText reads the first .txt entry of z.
func archiveText(z *archive.Zip) (string, error) {
	txt, ok := archive.FirstText(z.Entries())
	if !ok {
		return "", ErrArchiveMissingText
	}
	raw, err := z.ReadText(txt.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTextRead, err)
	}
	text, err := decodeText([]byte(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTextRead, err)
	}
	return text, nil
}

// decodeText strips a byte order mark and converts UTF-16 exports to UTF-8.
func decodeText(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
