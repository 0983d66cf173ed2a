package source

import (
	"strings"
	"time"
)

// CanonicalDateLayout is the layout publish dates are persisted in.
const CanonicalDateLayout = "01/02/2006"

// dateLayouts is the fixed allow-list of human-readable calendar formats
// storefronts have been observed to serve. Layouts with a time-of-day
// component come first so a timestamped input is not truncated by a
// date-only layout prefix match.
var dateLayouts = []string{
	"01/02/2006 15:04:05",

	"02 Jan, 2006 15:04:05",
	"2 Jan, 2006 15:04:05",
	"Jan 2, 2006 15:04:05",
	"Jan 02, 2006 15:04:05",
	"02 Jan 2006 15:04:05",
	"2 Jan 2006 15:04:05",
	"Jan 2 2006 15:04:05",
	"Jan 02 2006 15:04:05",

	"01/02/2006",

	"02 Jan, 2006",
	"2 Jan, 2006",
	"Jan 2, 2006",
	"Jan 02, 2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2 2006",
	"Jan 02 2006",
}

// ParseDate parses a storefront date string against the allow-list. The
// time-of-day component, when present, is discarded: only the calendar
// date takes part in update gating. Returns the zero time when no layout
// matches, which compares as "always older".
func ParseDate(input string) (time.Time, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// FormatDate renders a parsed publish date in the canonical persisted
// layout.
func FormatDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(CanonicalDateLayout)
}
