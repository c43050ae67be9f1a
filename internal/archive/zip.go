// Package archive reads export bundles. Only zip archives are supported.
package archive

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/Zuo-Peng/chat-export-viewer/internal/media"
)

type Entry struct {
	Path  string
	IsDir bool
	Size  int64
}

// Zip is an opened zip archive. Entries may be read concurrently.
type Zip struct {
	rc    *zip.ReadCloser
	files map[string]*zip.File
	order []Entry
}

func Open(path string) (*Zip, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	z := &Zip{rc: rc, files: make(map[string]*zip.File, len(rc.File))}
	for _, f := range rc.File {
		if _, dup := z.files[f.Name]; dup {
			continue
		}
		z.files[f.Name] = f
		z.order = append(z.order, Entry{
			Path:  f.Name,
			IsDir: f.FileInfo().IsDir(),
			Size:  int64(f.UncompressedSize64),
		})
	}
	return z, nil
}

func (z *Zip) Close() error {
	return z.rc.Close()
}

// Entries lists every entry in archive order.
func (z *Zip) Entries() []Entry {
	return z.order
}

func (z *Zip) ReadText(path string) (string, error) {
	data, err := z.read(path, func(r io.Reader) ([]byte, error) {
		return io.ReadAll(r)
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadBinary extracts the entry into st and returns its blob handle.
func (z *Zip) ReadBinary(path string, st *media.Store) (*media.Blob, error) {
	var b *media.Blob
	_, err := z.read(path, func(r io.Reader) ([]byte, error) {
		var err error
		b, err = st.Put(path, r)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (z *Zip) read(path string, fn func(io.Reader) ([]byte, error)) ([]byte, error) {
	f, ok := z.files[path]
	if !ok {
		return nil, fmt.Errorf("archive entry not found: %s", path)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %s: %w", path, err)
	}
	defer rc.Close()

	data, err := fn(rc)
	if err != nil {
		return nil, fmt.Errorf("read entry %s: %w", path, err)
	}
	return data, nil
}

// IsText reports whether an entry is a candidate chat export.
func IsText(e Entry) bool {
	return !e.IsDir && strings.HasSuffix(strings.ToLower(e.Path), ".txt")
}

// FirstText returns the first text entry in archive order.
func FirstText(entries []Entry) (Entry, bool) {
	for _, e := range entries {
		if IsText(e) {
			return e, true
		}
	}
	return Entry{}, false
}
