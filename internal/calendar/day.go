// Package calendar provides a timezone-aware calendar day type.
//
// A Day is a (year, month, day) triple with no time-of-day and no location.
// Conversion from an instant always goes through an explicit *time.Location,
// and arithmetic between days is done on the proleptic Gregorian day number,
// so results never depend on DST transitions or on the host's zone.
package calendar

import (
	"fmt"
	"time"

	"github.com/julianstephens/smallwins/internal/constants"
)

// Day is a calendar date in some (externally known) timezone.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// New returns the normalized day for the given components (e.g. Jan 32 -> Feb 1).
func New(year int, month time.Month, day int) Day {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Day{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// FromTime returns the calendar day of t as observed in loc.
func FromTime(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

// Parse parses a YYYY-MM-DD string.
func Parse(s string) (Day, error) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Day{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// String returns the canonical YYYY-MM-DD form.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// number is the count of days since the Unix epoch. UTC has no offset changes,
// so the division is exact.
func (d Day) number() int64 {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return New(d.Year, d.Month, d.Day+n)
}

// DaysBetween returns to - from in whole calendar days.
func DaysBetween(from, to Day) int {
	return int(to.number() - from.number())
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	return d.number() < other.number()
}

// After reports whether d is strictly later than other.
func (d Day) After(other Day) bool {
	return d.number() > other.number()
}

// At returns the instant hour:minute on d in loc. Nonexistent wall times
// (spring-forward gaps) are normalized by time.Date.
func (d Day) At(hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, hour, minute, 0, 0, loc)
}

// Display renders d for people, e.g. "May 15, 2024".
func (d Day) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.At(0, 0, time.UTC).Format(constants.DisplayDateFormat)
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Day{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
