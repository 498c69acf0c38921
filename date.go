package staticpub

import (
	"fmt"
	"time"
)

// TimeLayout is the ActivityStreams2 timestamp layout used everywhere a
// date crosses the wire: note headers, activity documents, collection
// pages. The trailing Z is a literal; values are always rendered in UTC.
const TimeLayout = "2006-01-02T15:04:05Z"

// FormatTime renders t in the ActivityStreams2 layout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a published header value. The layout is strict: no
// offsets, no fractional seconds.
func ParseTime(value string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, value)
	}
	return t, nil
}
