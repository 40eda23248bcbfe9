package util

import "time"

// LookbackRange returns the unix-second bounds for a window of the given
// number of days ending at now.
func LookbackRange(now time.Time, days int) (from, to int64) {
	to = now.Unix()
	from = now.AddDate(0, 0, -days).Unix()
	return from, to
}

// NowRFC3339 formats now as RFC3339 in UTC, the timestamp format used in
// every API payload.
func NowRFC3339(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}
