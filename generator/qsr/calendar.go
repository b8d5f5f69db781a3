package qsr

import (
	"fmt"
	"iter"
	"time"
)

const dateLayout = "2006-01-02"

// Day is one calendar date with the attributes the simulator keys on.
type Day struct {
	Date    time.Time
	Weekday int // ISO order: 0=Monday .. 6=Sunday
	Month   int
	Quarter int
	Year    int
	ISOWeek int
	Weekend bool
	Holiday bool
}

// NewDay derives the calendar attributes of t. Any time-of-day component
// is dropped.
func NewDay(t time.Time) Day {
	date := civilDate(t)
	month := int(date.Month())
	weekday := (int(date.Weekday()) + 6) % 7
	_, week := date.ISOWeek()

	return Day{
		Date:    date,
		Weekday: weekday,
		Month:   month,
		Quarter: (month-1)/3 + 1,
		Year:    date.Year(),
		ISOWeek: week,
		Weekend: weekday >= 5,
		Holiday: IsHoliday(date),
	}
}

// IsHoliday reports whether t falls on one of the holidays that suppress
// dine-in traffic: New Year's Day, Independence Day, Thanksgiving and
// Christmas Day.
func IsHoliday(t time.Time) bool {
	_, month, day := t.Date()
	switch month {
	case time.January:
		return day == 1
	case time.July:
		return day == 4
	case time.November:
		// fourth Thursday
		return t.Weekday() == time.Thursday && day >= 22 && day <= 28
	case time.December:
		return day == 25
	}
	return false
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range from start to end inclusive.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start, end = civilDate(start), civilDate(end)
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("qsr: end date %s before start date %s",
			end.Format(dateLayout), start.Format(dateLayout))
	}
	return DateRange{Start: start, End: end}, nil
}

// ParseDateRange parses two YYYY-MM-DD dates into a DateRange.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("qsr: parse start date: %w", err)
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("qsr: parse end date: %w", err)
	}
	return NewDateRange(s, e)
}

// Len is the number of days in the range.
func (r DateRange) Len() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Days yields every day of the range in ascending order. The sequence can
// be ranged over any number of times.
func (r DateRange) Days() iter.Seq[Day] {
	return func(yield func(Day) bool) {
		for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
			if !yield(NewDay(d)) {
				return
			}
		}
	}
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
