// Package calendar implements business-day arithmetic over a holiday set.
// Everything here is pure and operates on date-only values pinned to UTC:
// a "day" is midnight UTC, so comparisons never shift across time zones.
package calendar

import (
	"sort"
	"time"
)

const dayFormat = "2006-01-02"

// Day builds a date-only value at midnight UTC.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NormalizeDay truncates any timestamp to its calendar day in UTC.
func NormalizeDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD boundary value.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dayFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func MustParseDay(s string) time.Time {
	t, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FormatDay renders the boundary representation (YYYY-MM-DD).
func FormatDay(t time.Time) string {
	return NormalizeDay(t).Format(dayFormat)
}

// HolidaySet is a set of non-working dates keyed by normalized day.
type HolidaySet map[time.Time]struct{}

func NewHolidaySet(dates ...time.Time) HolidaySet {
	s := make(HolidaySet, len(dates))
	for _, d := range dates {
		s.Add(d)
	}
	return s
}

func (s HolidaySet) Add(d time.Time) {
	s[NormalizeDay(d)] = struct{}{}
}

func (s HolidaySet) Contains(d time.Time) bool {
	_, ok := s[NormalizeDay(d)]
	return ok
}

// Dates returns the set's members in ascending order.
func (s HolidaySet) Dates() []time.Time {
	out := make([]time.Time, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func IsWeekend(d time.Time) bool {
	wd := NormalizeDay(d).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsWorkingDay reports whether d is a weekday not present in holidays.
func IsWorkingDay(d time.Time, holidays HolidaySet) bool {
	return !IsWeekend(d) && !holidays.Contains(d)
}

// Window is the concrete calendar span covering a number of business days,
// along with every holiday skipped while walking it.
type Window struct {
	Start           time.Time
	End             time.Time
	SkippedHolidays HolidaySet
}

// AddBusinessDaysInclusive turns an SLA of n business days starting at start
// into a calendar window. If start falls on a weekend or holiday it is
// advanced to the next business day, which counts as day 1. The returned End
// is the n-th business day, inclusive. Values of n below 1 count as 1.
func AddBusinessDaysInclusive(start time.Time, n int, holidays HolidaySet) Window {
	if n < 1 {
		n = 1
	}

	skipped := NewHolidaySet()
	cursor := NormalizeDay(start)
	for !IsWorkingDay(cursor, holidays) {
		if holidays.Contains(cursor) {
			skipped.Add(cursor)
		}
		cursor = cursor.AddDate(0, 0, 1)
	}

	adjustedStart := cursor
	counted := 1
	for counted < n {
		cursor = cursor.AddDate(0, 0, 1)
		if !IsWorkingDay(cursor, holidays) {
			if holidays.Contains(cursor) {
				skipped.Add(cursor)
			}
			continue
		}
		counted++
	}

	return Window{
		Start:           adjustedStart,
		End:             cursor,
		SkippedHolidays: skipped,
	}
}

// BusinessDaysBetweenInclusive counts business days in [from, to].
func BusinessDaysBetweenInclusive(from, to time.Time, holidays HolidaySet) int {
	return len(BusinessDaysInRange(from, to, holidays))
}

// BusinessDaysInRange lists every business day in [from, to].
func BusinessDaysInRange(from, to time.Time, holidays HolidaySet) []time.Time {
	var out []time.Time
	for _, d := range EachDay(from, to) {
		if IsWorkingDay(d, holidays) {
			out = append(out, d)
		}
	}
	return out
}

// BusinessDaysAfter lists every business day in (after, to].
func BusinessDaysAfter(after, to time.Time, holidays HolidaySet) []time.Time {
	return BusinessDaysInRange(NormalizeDay(after).AddDate(0, 0, 1), to, holidays)
}

// EachDay lists every calendar day in [from, to]. Empty when to < from.
func EachDay(from, to time.Time) []time.Time {
	from = NormalizeDay(from)
	to = NormalizeDay(to)

	var out []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}
