package parse

import (
	"regexp"
	"strings"
	"unicode"
)

// Fragments shared by the header rules. Exports use narrow no-break spaces
// and BOMs, so whitespace is wider than \s.
const (
	ws       = `[\s\p{Zs}\x{FEFF}]`
	dmy      = `(\d{1,2}/\d{1,2}/\d{2,4})`
	ymd      = `(\d{4}-\d{1,2}-\d{1,2})`
	clock    = `(\d{1,2}:\d{2}(?::\d{2})?)`
	meridiem = `(\d{1,2}:\d{2}(?::\d{2})?` + ws + `*[AaPp]\.?[Mm]\.?)`
	dash     = ws + `*[-\x{2013}]` + ws + `*`
	rlm      = `\x{200F}`
)

// lineRule is one header format. Group 1-4 are date, time, sender, body.
type lineRule struct {
	name string
	re   *regexp.Regexp
}

// lineRules is evaluated in order and the first match wins. The order is
// load-bearing: several rules accept the same lines.
var lineRules = []lineRule{
	{"dmy-comma", regexp.MustCompile(`^` + dmy + `,?` + ws + `*` + clock + dash + `(.*?):` + ws + `*(.*)$`)},
	{"dmy-space", regexp.MustCompile(`^` + dmy + ws + `+` + clock + dash + `(.*?):` + ws + `*(.*)$`)},
	{"ymd", regexp.MustCompile(`^` + ymd + `,?` + ws + `*` + clock + dash + `(.*?):` + ws + `*(.*)$`)},
	{"bracketed", regexp.MustCompile(`^\[?` + dmy + `,?` + ws + `*` + clock + `\]?` + dash + `(.*?)` + ws + `*:` + ws + `*(.*)$`)},
	{"dmy-rtl", regexp.MustCompile(`^` + dmy + `,?` + ws + `*` + clock + dash + `(.*?)` + ws + `*[:` + rlm + `]` + ws + `*(.*)$`)},
	{"ymd-phone", regexp.MustCompile(`^` + ymd + `,?` + ws + `*` + clock + dash + `\+?\d*` + ws + `*(.*?)` + ws + `*[:` + rlm + `]` + ws + `*(.*)$`)},
	{"ios-bracket", regexp.MustCompile(`^\[` + dmy + `,?` + ws + `*` + `(\d{1,2}:\d{2}(?::\d{2})?(?:` + ws + `*[AaPp][Mm])?)` + `\]` + ws + `*(.*?):` + ws + `*(.*)$`)},
	{"dmy-12h", regexp.MustCompile(`^` + dmy + `,?` + ws + `*` + meridiem + dash + `(.*?):` + ws + `*(.*)$`)},
}

// ClassifyLine matches line against the known header formats.
func ClassifyLine(line string) (Header, bool) {
	for _, r := range lineRules {
		m := r.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return Header{Date: m[1], Time: m[2], Sender: m[3], Body: m[4]}, true
	}
	return Header{}, false
}

// isBlank reports whether line holds only whitespace, BOMs included.
func isBlank(line string) bool {
	return strings.TrimFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	}) == ""
}
