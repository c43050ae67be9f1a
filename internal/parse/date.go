package parse

import (
	"regexp"
	"strings"
	"time"
)

var (
	isoDatePrefix = regexp.MustCompile(`^\d{4}-`)
	meridiemClock = regexp.MustCompile(`(?i)^(\d{1,2}:\d{2}(?::\d{2})?)` + ws + `*([ap])\.?m\.?$`)
)

// Normalizer turns the raw date and time tokens of a header line into a
// canonical timestamp. Exports do not declare their locale, so D/M/Y is tried
// before M/D/Y and the first valid reading wins. This is a heuristic: a date
// such as 3/4/24 is always read day-first.
type Normalizer struct {
	Location *time.Location   // zone of the exported wall-clock times, UTC when nil
	Now      func() time.Time // fallback clock, time.Now when nil
}

// Normalize never fails. Dates that cannot be read in either order get the
// current time.
func (n Normalizer) Normalize(date, clock string) string {
	if t, ok := n.parse(date, clock); ok {
		return formatTime(t)
	}
	return formatTime(n.now())
}

func (n Normalizer) parse(date, clock string) (time.Time, bool) {
	clock, layout := clockLayout(strings.TrimSpace(clock))
	date = strings.TrimSpace(date)

	if isoDatePrefix.MatchString(date) {
		return n.parseIn(date+" "+clock, layout)
	}

	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	dd, mm, yyyy := parts[0], parts[1], parts[2]
	if len(yyyy) == 2 {
		yyyy = "20" + yyyy
	}

	if t, ok := n.parseIn(yyyy+"-"+mm+"-"+dd+" "+clock, layout); ok {
		return t, true
	}
	return n.parseIn(yyyy+"-"+dd+"-"+mm+" "+clock, layout)
}

func (n Normalizer) parseIn(value, layout string) (time.Time, bool) {
	loc := n.Location
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (n Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

// clockLayout returns the clock token in a canonical spelling along with the
// time.Parse layout for a date-prefixed value.
func clockLayout(clock string) (string, string) {
	if m := meridiemClock.FindStringSubmatch(clock); m != nil {
		clock = m[1] + " " + strings.ToUpper(m[2]) + "M"
		if strings.Count(m[1], ":") == 2 {
			return clock, "2006-1-2 3:04:05 PM"
		}
		return clock, "2006-1-2 3:04 PM"
	}
	if strings.Count(clock, ":") == 2 {
		return clock, "2006-1-2 15:04:05"
	}
	return clock, "2006-1-2 15:04"
}
