// Package bridge defines the wire model shared by the Bridge REST clients,
// the integration-test harness, and the in-process test server.
package bridge

import (
	"fmt"
	"strconv"
	"time"
)

// dateTimeFormat is the canonical serialization for Bridge timestamps.
// The server persists timestamps as milliseconds since epoch and renders
// them back in UTC, so the canonical form always carries a "Z" zone.
const dateTimeFormat = "2006-01-02T15:04:05.000Z"

// DateTime is a Bridge timestamp with millisecond precision, always held in
// UTC. Construct values with Now, FromTime, or FromMillis; there is
// deliberately no local-zone constructor, because a non-UTC origin would not
// survive the server's epoch-millis normalization.
type DateTime struct {
	t time.Time
}

// Now returns the current instant in UTC, truncated to millisecond
// precision to match the server's storage resolution.
func Now() DateTime {
	return DateTime{t: time.Now().UTC().Truncate(time.Millisecond)}
}

// FromTime converts a time.Time into a DateTime, normalizing to UTC and
// truncating to milliseconds.
func FromTime(t time.Time) DateTime {
	return DateTime{t: t.UTC().Truncate(time.Millisecond)}
}

// FromMillis builds a DateTime from milliseconds since epoch.
func FromMillis(ms int64) DateTime {
	return DateTime{t: time.UnixMilli(ms).UTC()}
}

// Time returns the underlying time.Time in UTC.
func (d DateTime) Time() time.Time {
	return d.t
}

// Millis returns the instant as milliseconds since epoch.
func (d DateTime) Millis() int64 {
	return d.t.UnixMilli()
}

// IsZero reports whether the DateTime is the zero value.
func (d DateTime) IsZero() bool {
	return d.t.IsZero()
}

// Equal reports whether two DateTimes denote the same instant.
func (d DateTime) Equal(other DateTime) bool {
	return d.t.Equal(other.t)
}

// Add returns the DateTime shifted by the given duration.
func (d DateTime) Add(dur time.Duration) DateTime {
	return DateTime{t: d.t.Add(dur)}
}

// AddDate returns the DateTime shifted by the given calendar amounts.
func (d DateTime) AddDate(years, months, days int) DateTime {
	return DateTime{t: d.t.AddDate(years, months, days)}
}

// String renders the canonical UTC serialization.
func (d DateTime) String() string {
	return d.t.UTC().Format(dateTimeFormat)
}

// MarshalJSON renders the canonical UTC serialization as a JSON string.
func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON accepts any ISO-8601 timestamp with an explicit zone and
// normalizes it to UTC millisecond precision.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	d.t = parsed.UTC().Truncate(time.Millisecond)
	return nil
}

// WeeksBetween returns the number of whole weeks between two instants.
// Callers asserting on automatic events add one hour to the end instant
// before calling, so a DST transition inside the span cannot shave the
// count below the calendar-week total.
func WeeksBetween(start, end DateTime) int {
	return int(end.t.Sub(start.t) / (7 * 24 * time.Hour))
}
