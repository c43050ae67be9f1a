package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"sync"
)

var ErrRevoked = errors.New("blob store revoked")

// Blob is a handle to one extracted media entry. It stays valid until the
// store that produced it is revoked.
type Blob struct {
	Source string // path inside the archive
	File   string // extracted file on disk
	Kind   Kind
	Size   int64
}

// Name is the base name of the archive path.
func (b *Blob) Name() string {
	return path.Base(b.Source)
}

// Store owns the extracted blobs of one session under a single directory.
// Put is safe for concurrent use.
type Store struct {
	dir string

	mu      sync.Mutex
	next    int
	revoked bool
}

// NewStore creates dir/id and returns a store rooted there.
func NewStore(dir, id string) (*Store, error) {
	root := filepath.Join(dir, id)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &Store{dir: root}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Put copies r into a new blob file for the archive entry source.
func (s *Store) Put(source string, r io.Reader) (*Blob, error) {
	s.mu.Lock()
	if s.revoked {
		s.mu.Unlock()
		return nil, ErrRevoked
	}
	n := s.next
	s.next++
	s.mu.Unlock()

	// numbered prefix keeps same-named entries from different folders apart
	file := filepath.Join(s.dir, strconv.Itoa(n)+"-"+filepath.Base(filepath.FromSlash(path.Base(source))))
	f, err := os.Create(file)
	if err != nil {
		return nil, fmt.Errorf("create blob: %w", err)
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(file)
		return nil, fmt.Errorf("write blob %s: %w", source, err)
	}

	return &Blob{
		Source: source,
		File:   file,
		Kind:   KindOf(source),
		Size:   size,
	}, nil
}

// Revoke deletes every blob. Handles issued before are invalid afterwards.
func (s *Store) Revoke() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revoked {
		return nil
	}
	s.revoked = true
	return os.RemoveAll(s.dir)
}
