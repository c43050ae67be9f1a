package parse

import (
	"regexp"
	"strings"
)

const (
	mediaExt = `jpg|jpeg|png|gif|mp4|mov|3gp|avi|m4v|webm|opus|m4a|mp3|ogg`
	pathExt  = `jpg|jpeg|png|gif|mp4|mov|3gp|avi|opus|m4a|mp3`
	marker   = "مرفق:" // Arabic "attachment:"
)

// attachmentRules is ordered from the most explicit marker to the loosest
// bare file name. The first rule that matches decides the file name.
var attachmentRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<` + marker + ws + `*([^>]+\.(` + mediaExt + `))>`),
	regexp.MustCompile(`(?i)\(` + marker + ws + `*([^)]+\.(` + mediaExt + `))\)`),
	regexp.MustCompile(`(?i)(IMG-\d{8}-WA\d{4}\.(jpg|jpeg|png))|(VID-\d{8}-WA\d{4}\.(mp4|mov|3gp))|(AUD-\d{8}-WA\d{4}\.(opus|m4a))|(PTT-\d{8}-WA\d{4}\.(opus))`),
	regexp.MustCompile(`(?i)(\b(image|video|audio)-\d+-\d+-\d+\.(jpg|mp4|opus))\b`),
	regexp.MustCompile(`(?i)(Media/[^)\s]+\.(` + pathExt + `))`),
	regexp.MustCompile(`(?i)((IMG|VID|AUD|PTT)_[^.]+\.(jpg|png|mp4|opus|m4a))`),
	regexp.MustCompile(`(?i)<attached:` + ws + `*([^>]+\.(` + mediaExt + `))>`),
}

// markerRules match the wrapped reference forms that are removed from the
// displayed body. Bare file names are left alone.
var markerRules = []*regexp.Regexp{
	regexp.MustCompile(`<` + marker + `[^>]+>`),
	regexp.MustCompile(`\(` + marker + `[^)]+\)`),
	regexp.MustCompile(`(?i)<attached:[^>]+>`),
}

// ExtractAttachment finds the media file a message body refers to.
func ExtractAttachment(text string) (Attachment, bool) {
	name, ok := attachmentName(text)
	if !ok {
		return Attachment{}, false
	}

	body := text
	for _, re := range markerRules {
		body = re.ReplaceAllString(body, "")
	}
	return Attachment{Filename: name, Body: strings.TrimSpace(body)}, true
}

func attachmentName(text string) (string, bool) {
	for _, re := range attachmentRules {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		// prefer the first group that carries an extension
		for _, g := range m[1:] {
			if strings.Contains(g, ".") {
				return g, true
			}
		}
		return m[0], true
	}
	return "", false
}
