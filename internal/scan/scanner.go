package scan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Zuo-Peng/chat-export-viewer/internal/session"
)

type FileInfo struct {
	Path  string
	Rel   string // path relative to the export root, slash separated
	Kind  session.Kind
	Mtime int64
	Size  int64
}

// ScanRoot finds every .txt and .zip export under root. Hidden directories
// are skipped, as are files whose root-relative path matches one of the
// exclude globs (doublestar syntax, e.g. "**/old/**").
func ScanRoot(root string, exclude []string) ([]FileInfo, error) {
	if root == "" {
		return nil, nil
	}
	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, &os.PathError{Op: "exclude", Path: p, Err: doublestar.ErrBadPattern}
		}
	}

	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		kind, err := session.KindOf(path)
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if excluded(rel, exclude) {
			return nil
		}

		files = append(files, FileInfo{
			Path:  path,
			Rel:   rel,
			Kind:  kind,
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return files, nil
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
