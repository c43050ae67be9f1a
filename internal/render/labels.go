package render

import (
	"regexp"
	"strings"
)

type labels struct {
	you        string
	today      string
	yesterday  string
	unknown    string
	noMessages string
}

var translations = map[string]labels{
	"en": {
		you:        "You",
		today:      "Today",
		yesterday:  "Yesterday",
		unknown:    "Unknown",
		noMessages: "No messages",
	},
	"ar": {
		you:        "أنت",
		today:      "اليوم",
		yesterday:  "أمس",
		unknown:    "مجهول",
		noMessages: "لا توجد رسائل",
	},
}

func labelsFor(lang string) labels {
	if l, ok := translations[lang]; ok {
		return l
	}
	return translations["en"]
}

// selfSender matches the names exports use for the exporting user.
var selfSender = regexp.MustCompile(`(?i)^(You|انا|أنا|Me|أنت)$`)

// IsSelf reports whether sender is the person who made the export, either
// by a built-in name or one of the configured names.
func IsSelf(sender string, selfNames []string) bool {
	if selfSender.MatchString(sender) {
		return true
	}
	for _, n := range selfNames {
		if strings.EqualFold(strings.TrimSpace(n), sender) {
			return true
		}
	}
	return false
}
