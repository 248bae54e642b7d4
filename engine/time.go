/*
time.go - Day-granular calendar primitives

PURPOSE:
  Every allocation decision in this engine is made per calendar day: normal
  capacity lives on weekdays, overtime can spill into weekends, and costs are
  split by the month a day falls into. TimePoint and Period give the rest of
  the engine a single, normalized view of "a day" so no other file has to
  think about clocks or timezones.

KEY CONCEPTS:
  - TimePoint: a single calendar day (UTC midnight, no time-of-day)
  - Period: an inclusive [Start, End] day range
  - Weekend rule: Saturday/Sunday; everything else is a working day

SEE ALSO:
  - calendar.go: working/weekend day counts over a Period
  - completion.go: walks Period.Days() for the vessel-fill allocation
*/
package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// TIME POINT - A single calendar day
// =============================================================================

type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func TimePointOf(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

func Today() TimePoint {
	return TimePointOf(time.Now())
}

// ParseTimePoint parses an ISO date (2006-01-02).
func ParseTimePoint(s string) (TimePoint, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return TimePoint{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return TimePointOf(t), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint   { return TimePointOf(tp.Time.AddDate(0, 0, n)) }
func (tp TimePoint) AddMonths(n int) TimePoint { return TimePointOf(tp.Time.AddDate(0, n, 0)) }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

func (tp TimePoint) IsWeekend() bool {
	wd := tp.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (tp TimePoint) IsWorkday() bool { return !tp.IsWeekend() }

func (tp TimePoint) String() string { return tp.Time.Format("2006-01-02") }

// MonthKey returns the "YYYY-MM" key used by monthly breakdowns and the
// dashboard aggregation.
func (tp TimePoint) MonthKey() string { return tp.Time.Format("2006-01") }

// MarshalJSON encodes the day as an ISO date string.
func (tp TimePoint) MarshalJSON() ([]byte, error) {
	return []byte(`"` + tp.String() + `"`), nil
}

func (tp *TimePoint) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*tp = TimePoint{}
		return nil
	}
	parsed, err := ParseTimePoint(s)
	if err != nil {
		return err
	}
	*tp = parsed
	return nil
}

// =============================================================================
// PERIOD - Inclusive day range
// =============================================================================

type Period struct {
	Start TimePoint
	End   TimePoint
}

func NewPeriod(start, end TimePoint) Period { return Period{Start: start, End: end} }

// Valid reports whether the period is well-formed (end not before start).
func (p Period) Valid() bool { return !p.Start.IsZero() && p.Start.BeforeOrEqual(p.End) }

func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns every day in the period, in chronological order. Chronological
// order is load-bearing: the vessel-fill passes depend on it.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	for d := p.Start; d.BeforeOrEqual(p.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// MONTH HELPERS
// =============================================================================

func StartOfMonth(year int, month time.Month) TimePoint { return NewTimePoint(year, month, 1) }

func EndOfMonth(year int, month time.Month) TimePoint {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return TimePointOf(t)
}

func DaysInMonth(year int, month time.Month) int {
	return EndOfMonth(year, month).Day()
}

// MonthSlices cuts a period at calendar-month boundaries, preserving order.
// The first and last slices may be partial months.
func (p Period) MonthSlices() []Period {
	var slices []Period
	for cur := p.Start; cur.BeforeOrEqual(p.End); {
		end := EndOfMonth(cur.Year(), cur.Month())
		if p.End.Before(end) {
			end = p.End
		}
		slices = append(slices, Period{Start: cur, End: end})
		cur = StartOfMonth(cur.Year(), cur.Month()).AddMonths(1)
	}
	return slices
}
