// Package timerange models half-open booking intervals on a single date.
// Times of day are kept as seconds after midnight so that comparisons are
// plain integer comparisons; the wire formats (YYYY-MM-DD, HH:MM and
// HH:MM:SS) are produced on demand.
package timerange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotMinutes is the booking granularity.  Every stored start and end time
// falls on a multiple of it.
const SlotMinutes = 30

// DateLayout is the wire and storage format for dates.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidTimeFormat is returned for time strings that are not HH:MM or HH:MM:SS.
	ErrInvalidTimeFormat = errors.New("invalid time format")
	// ErrInvalidTimeGranularity is returned when a time is not on a 30 minute boundary.
	ErrInvalidTimeGranularity = errors.New("time must be on a 30 minute boundary")
	// ErrInvalidTimeRange is returned when the end time is not after the start time.
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")
)

// Clock is a time of day expressed in seconds after midnight.
type Clock int

// NewClock builds a Clock from hours and minutes.
func NewClock(hour, minute int) Clock {
	return Clock(hour*3600 + minute*60)
}

// ParseClock accepts "HH:MM" or "HH:MM:SS".
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	limits := []int{23, 59, 59}
	vals := make([]int, 3)
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		vals[i] = n
	}
	return Clock(vals[0]*3600 + vals[1]*60 + vals[2]), nil
}

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / 3600 }

// Minute returns the minute component.
func (c Clock) Minute() int { return (int(c) % 3600) / 60 }

// Second returns the second component.
func (c Clock) Second() int { return int(c) % 60 }

// String formats the clock as HH:MM, the key format used by the slot grid.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// SQL formats the clock as HH:MM:SS for storage.
func (c Clock) SQL() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
}

// Add returns the clock shifted by the given number of minutes.
func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes*60)
}

// Aligned reports whether c sits exactly on a slot boundary.
func (c Clock) Aligned() bool {
	return c.Second() == 0 && c.Minute()%SlotMinutes == 0
}

// Quantize rounds c down to the nearest slot boundary: a minute of 30 or
// more becomes :30, anything else becomes :00.
func Quantize(c Clock) Clock {
	m := 0
	if c.Minute() >= SlotMinutes {
		m = SlotMinutes
	}
	return NewClock(c.Hour(), m)
}

// ParseDate parses a YYYY-MM-DD date into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// Range is a half-open interval [Start, End) on Date.
type Range struct {
	Date  time.Time
	Start Clock
	End   Clock
}

// New parses and validates a booking interval.  Both times must be on a
// slot boundary and End must be strictly after Start; an end before the
// start is rejected rather than reinterpreted.
func New(date, start, end string) (Range, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Range{}, err
	}
	s, err := ParseClock(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Range{}, err
	}
	return FromClocks(d, s, e)
}

// FromClocks validates an interval built from already-parsed values.
func FromClocks(date time.Time, start, end Clock) (Range, error) {
	if !start.Aligned() || !end.Aligned() {
		return Range{}, ErrInvalidTimeGranularity
	}
	if end <= start {
		return Range{}, ErrInvalidTimeRange
	}
	y, m, dd := date.Date()
	return Range{Date: time.Date(y, m, dd, 0, 0, 0, 0, time.UTC), Start: start, End: end}, nil
}

// SameDate reports whether both ranges fall on the same calendar date.
func (r Range) SameDate(o Range) bool {
	return r.DateString() == o.DateString()
}

// Overlaps reports whether the two intervals share any instant.  Touching
// intervals such as [10:00,11:00) and [11:00,12:00) do not overlap, and
// containment is covered by the same comparison.
func (r Range) Overlaps(o Range) bool {
	return r.SameDate(o) && r.Start < o.End && o.Start < r.End
}

// Slots returns every slot start in [Start, End) stepping by step minutes.
func (r Range) Slots(step int) []Clock {
	if step <= 0 {
		step = SlotMinutes
	}
	var out []Clock
	for c := r.Start; c < r.End; c = c.Add(step) {
		out = append(out, c)
	}
	return out
}

// DateString formats the date as YYYY-MM-DD.
func (r Range) DateString() string { return r.Date.Format(DateLayout) }

// StartDateTime formats the start as "YYYY-MM-DD HH:MM:SS".
func (r Range) StartDateTime() string { return r.DateString() + " " + r.Start.SQL() }

// EndDateTime formats the end as "YYYY-MM-DD HH:MM:SS".
func (r Range) EndDateTime() string { return r.DateString() + " " + r.End.SQL() }

func (r Range) String() string {
	return fmt.Sprintf("%s [%s, %s)", r.DateString(), r.Start, r.End)
}
