/*
availability.go - Remaining allocatable hours for an employee in a period

PURPOSE:
  Answers "how many more hours can this person absorb between these dates?",
  accounting for hours other jobs have already committed. The planner offers
  only this remainder to a new job, which is what makes cross-job contention
  work: two jobs over the same weeks compete for the same finite days.

CAPACITY RULE:
  - acceptsOvertime: 12h on every day of the period, weekends included
  - otherwise:        8h on working days only, nothing on weekends
  Hours already recorded as worked in the period are subtracted; the result
  never goes negative.
*/
package engine

// DayLoad reports the hours already recorded as worked on a given day.
// Callers back it with timesheet data; days with no record report zero.
type DayLoad func(day TimePoint) float64

// AvailabilityFor folds over the days of the period, accumulating the
// capacity ceiling and the already-worked hours.
func AvailabilityFor(acceptsOvertime bool, period Period, load DayLoad) Availability {
	av := Availability{AcceptsOvertime: acceptsOvertime}
	if !period.Valid() {
		return av
	}
	for d := period.Start; d.BeforeOrEqual(period.End); d = d.AddDays(1) {
		if acceptsOvertime {
			av.MaxHours += HoursPerOvertimeDay
		} else if d.IsWorkday() {
			av.MaxHours += HoursPerNormalDay
		}
		if load != nil {
			av.WorkedHours += load(d)
		}
	}
	if av.MaxHours > av.WorkedHours {
		av.AvailableHours = av.MaxHours - av.WorkedHours
	}
	return av
}
