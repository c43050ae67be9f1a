package media

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// Table maps candidate archive paths to blobs. Every blob is registered
// under several derived keys so that Resolve can get away with cheap exact
// probes for nearly every export layout.
//
// A Table is filled once while an archive loads and only read afterwards.
// Register must not run concurrently with anything else; Resolve may.
type Table struct {
	byKey map[string]*Blob
	keys  []string // sorted
}

func NewTable() *Table {
	return &Table{byKey: make(map[string]*Blob)}
}

// Register adds blob under path, its base name, their URL-decoded forms and,
// for paths inside a Media/ or WhatsApp/ folder, the part after that folder
// with and without a Media/ prefix.
func (t *Table) Register(path string, blob *Blob) {
	base := baseName(path)
	t.put(path, blob)
	t.put(base, blob)
	if dec, ok := decode(path); ok {
		t.put(dec, blob)
	}
	if dec, ok := decode(base); ok {
		t.put(dec, blob)
	}

	if rel := mediaRelative(path); rel != "" {
		t.put(rel, blob)
		t.put("Media/"+rel, blob)
	}
}

// put keeps the blob with the smaller source path when two entries claim the
// same key, so the table does not depend on registration order.
func (t *Table) put(key string, blob *Blob) {
	if key == "" {
		return
	}
	old, ok := t.byKey[key]
	if ok && old.Source <= blob.Source {
		return
	}
	if !ok {
		i := sort.SearchStrings(t.keys, key)
		t.keys = append(t.keys, "")
		copy(t.keys[i+1:], t.keys[i:])
		t.keys[i] = key
	}
	t.byKey[key] = blob
}

// Resolve finds the blob a message's attachment name refers to.
func (t *Table) Resolve(filename string) (*Blob, bool) {
	if t == nil || len(t.byKey) == 0 || filename == "" {
		return nil, false
	}

	for _, p := range probes(filename) {
		if b, ok := t.byKey[p]; ok {
			return b, true
		}
	}

	// exporters truncate and rename; settle for a containment match
	clean := baseName(filename)
	if clean == "" {
		return nil, false
	}
	for _, key := range t.keys {
		if strings.Contains(key, clean) || strings.Contains(clean, baseName(key)) {
			return t.byKey[key], true
		}
	}
	return nil, false
}

// Len is the number of registered keys.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byKey)
}

// Blobs returns each distinct blob once, ordered by source path.
func (t *Table) Blobs() []*Blob {
	if t == nil {
		return nil
	}
	seen := make(map[*Blob]bool)
	var out []*Blob
	for _, b := range t.byKey {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

var anySeparator = regexp.MustCompile(`^.*[\\/]`)

// probes lists the exact keys tried before the containment scan, in order.
func probes(filename string) []string {
	p := []string{
		filename,
		"Media/" + filename,
		"WhatsApp/Media/" + filename,
		baseName(filename),
	}
	if dec, ok := decode(filename); ok {
		p = append(p, dec)
	}
	return append(p, anySeparator.ReplaceAllString(filename, ""))
}

func baseName(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// decode undoes percent-encoding. Malformed escapes report false.
func decode(s string) (string, bool) {
	dec, err := url.PathUnescape(s)
	if err != nil {
		return "", false
	}
	return dec, true
}

// mediaRelative returns what follows the last Media/ segment, or the last
// WhatsApp/ segment when there is none.
func mediaRelative(p string) string {
	for _, seg := range []string{"Media/", "WhatsApp/"} {
		if i := strings.LastIndex(p, seg); i >= 0 {
			if rel := p[i+len(seg):]; rel != "" {
				return rel
			}
		}
	}
	return ""
}
