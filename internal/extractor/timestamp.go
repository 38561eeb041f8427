package extractor

import (
	"strconv"
	"strings"
	"time"
)

const timestampSelector = `[data-timestamp], time, [class*="timestamp"], [class*="time"]`

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"Jan 2, 2006, 3:04:05 PM",
	"Jan 2, 2006, 3:04 PM",
	"Jan 2, 2006 3:04 PM",
	"January 2, 2006 3:04 PM",
	"January 2, 2006 at 3:04 PM",
	"1/2/2006, 3:04:05 PM",
	"1/2/2006, 3:04 PM",
	"1/2/2006 3:04 PM",
}

// DeriveTimestamp returns the instant found on the page, or a synthesized
// one (total-index) seconds before now, which keeps candidates without real
// timestamps in relative order.
func DeriveTimestamp(el Element, index, total int, now time.Time) time.Time {
	if raw, ok := timestampEvidence(el); ok {
		if t, ok := ParseTimestamp(raw); ok {
			return t
		}
	}
	return SynthesizeTimestamp(index, total, now)
}

func SynthesizeTimestamp(index, total int, now time.Time) time.Time {
	return now.Add(-time.Duration(total-index) * time.Second).UTC()
}

func timestampEvidence(el Element) (string, bool) {
	if v, ok := el.Attr("data-timestamp"); ok && strings.TrimSpace(v) != "" {
		return v, true
	}
	holder := el.Query(timestampSelector)
	if holder == nil {
		return "", false
	}
	for _, name := range []string{"data-timestamp", "datetime"} {
		if v, ok := holder.Attr(name); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	text := holder.VisibleText()
	return text, text != ""
}

// ParseTimestamp accepts the date forms chat pages commonly carry. Forms
// without a zone are read as UTC. The result is always in UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, ok := parseEpoch(raw); ok {
		return t, true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseEpoch(raw string) (time.Time, bool) {
	if len(raw) != 10 && len(raw) != 13 {
		return time.Time{}, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return time.Time{}, false
	}
	if len(raw) == 13 {
		return time.UnixMilli(n).UTC(), true
	}
	return time.Unix(n, 0).UTC(), true
}
