package matcher

import "time"

// dobLayouts are the raw date formats credentials and profiles are known to
// use. Order matters only for readability; the layouts are mutually
// exclusive on any given input.
var dobLayouts = []string{
	"02-01-2006",
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
}

// normalizeDate canonicalizes a raw date string to YYYY-MM-DD. Unrecognized
// formats report false; the caller treats that as "not verified", never as
// an error.
func normalizeDate(raw string) (string, bool) {
	for _, layout := range dobLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format("2006-01-02"), true
		}
	}
	return "", false
}
