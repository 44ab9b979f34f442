package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: end must be after start")
	ErrInvalidDay   = errors.New("daterange: expected YYYY-MM-DD date")
)

// DayFormat is the wire format for calendar dates.
const DayFormat = "2006-01-02"

// Range represents a half-open day interval [Start, End) at UTC midnight.
// End is the first day no longer occupied.
type Range struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (Range, error) {
	r := Range{Start: Day(start), End: Day(end)}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// FromDuration builds the range covering nbDays days from start.
func FromDuration(start time.Time, nbDays int) (Range, error) {
	if nbDays <= 0 {
		return Range{}, ErrInvalidRange
	}
	s := Day(start)
	return Range{Start: s, End: s.AddDate(0, 0, nbDays)}, nil
}

func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrInvalidRange
	}
	if !r.End.After(r.Start) {
		return ErrInvalidRange
	}
	return nil
}

func (r Range) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

func (r Range) NbDays() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

func (r Range) ContainsDay(t time.Time) bool {
	t = Day(t)
	return !t.Before(r.Start) && t.Before(r.End)
}

// Day truncates t to UTC midnight.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a strict YYYY-MM-DD string into a UTC midnight time.
func ParseDay(value string) (time.Time, error) {
	t, err := time.Parse(DayFormat, value)
	if err != nil {
		return time.Time{}, ErrInvalidDay
	}
	return t.UTC(), nil
}

func FormatDay(t time.Time) string {
	return t.UTC().Format(DayFormat)
}
