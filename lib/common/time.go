package common

import "time"

// ISO8601 keeps the nanoseconds, so a formatted time parses back unchanged.
const ISO8601 = "2006-01-02T15:04:05.000000000Z07:00"

func FormatISO8601(t time.Time) string {
	return t.Format(ISO8601)
}

func ParseISO8601(s string) (time.Time, error) {
	return time.Parse(ISO8601, s)
}

// AfterFunc is `time.After`; the loops take it as a field so the tests can
// feed the ticks.
type AfterFunc = func(time.Duration) <-chan time.Time
