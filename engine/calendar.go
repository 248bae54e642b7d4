/*
calendar.go - Working/weekend day counts over a period

PURPOSE:
  Capacity ceilings everywhere in the engine are expressed in day counts:
  normal hours are bounded by workingDays x 8, overtime by totalDays x 12.
  DaySpan is the one place those counts are computed.
*/
package engine

// DaySpan is the calendar shape of a period: how many days it covers and how
// they split into working days (Mon-Fri) and weekend days (Sat-Sun).
type DaySpan struct {
	TotalDays   int
	WorkingDays int
	WeekendDays int
}

// SpanOf counts the days in an inclusive period. An inverted or zero period
// yields an empty span.
func SpanOf(p Period) DaySpan {
	var span DaySpan
	if !p.Valid() {
		return span
	}
	for d := p.Start; d.BeforeOrEqual(p.End); d = d.AddDays(1) {
		span.TotalDays++
		if d.IsWeekend() {
			span.WeekendDays++
		} else {
			span.WorkingDays++
		}
	}
	return span
}

// NormalCapacityHours is the ceiling for normal-rated hours: 8h per working day.
func (s DaySpan) NormalCapacityHours() float64 { return float64(s.WorkingDays) * HoursPerNormalDay }

// OvertimeCapacityHours is the ceiling when overtime is allowed: 12h on every
// day of the period, weekends included.
func (s DaySpan) OvertimeCapacityHours() float64 { return float64(s.TotalDays) * HoursPerOvertimeDay }
