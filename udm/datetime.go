package udm

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time-of-day and no zone.
type Date struct {
	Year  int
	Month int // 1-12
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time is a time-of-day with no calendar date and no zone.
type Time struct {
	Hour, Minute, Second, Nanosecond int
}

func (t Time) String() string {
	if t.Nanosecond == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%09d", t.Hour, t.Minute, t.Second, t.Nanosecond)
}

// LocalDateTime is a date+time with no zone.
type LocalDateTime struct {
	Date Date
	Time Time
}

func (dt LocalDateTime) String() string {
	return dt.Date.String() + "T" + dt.Time.String()
}

// DateTime is an absolute instant. It is always zone-normalised to UTC at
// construction; DateTime.UTC returns itself unchanged and exists so
// callers at the construction boundary can normalise explicitly.
type DateTime struct {
	t time.Time
}

// NewDateTimeFromTime builds a DateTime from a standard library time.Time,
// normalising it to UTC.
func NewDateTimeFromTime(t time.Time) DateTime {
	return DateTime{t: t.UTC()}
}

// Time returns the underlying UTC time.Time.
func (dt DateTime) Time() time.Time { return dt.t }

// UTC returns dt (already UTC-normalised by construction).
func (dt DateTime) UTC() DateTime { return DateTime{t: dt.t.UTC()} }

func (dt DateTime) String() string {
	return dt.t.Format(time.RFC3339Nano)
}

// Equal reports instant equality (ignores monotonic reading, matches by
// wall-clock instant).
func (dt DateTime) Equal(other DateTime) bool {
	return dt.t.Equal(other.t)
}
