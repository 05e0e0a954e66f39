package utils

import "time"

// TimestampLayout renders UTC instants at fixed width, with the fractional
// seconds zero-padded to nine digits. Timestamps are compared as strings
// and used as range keys, so lexicographic order must equal chronological
// order; RFC 3339 Nano drops trailing zeros and breaks that.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

// Timestamp formats t for storage and string comparison.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
