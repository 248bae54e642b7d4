/*
aggregate.go - Month total recomputation

PURPOSE:
  Whenever any day of a timesheet month changes, the cached totals are
  rebuilt from the full day map - never patched incrementally. The one
  deliberate exception is revenueGenerated, which accumulates additively
  across job completions and is never recomputed from scratch.

KNOWN CHARACTERISTIC (kept on purpose):
  Salary totals use the employee's CURRENT cost per hour, not the rate in
  force when the hours were worked. Historical month totals therefore shift
  if the employee's pay settings change later. This mirrors long-standing
  behavior and is documented rather than silently "fixed".
*/
package engine

import (
	"math"

	"github.com/shopspring/decimal"
)

// RecomputeMonthTotals rebuilds a timesheet's totals from its day entries.
// addRevenue is the revenue newly attributed to this month by the completion
// that triggered the recompute (zero when none).
//
// The normal/overtime classification is the same per-day rule used at
// completion time: weekday hours up to 8 are normal and the excess is
// overtime, weekend hours are all overtime, and a non-overtime employee is
// always normal-rated.
func RecomputeMonthTotals(ts *Timesheet, acceptsOvertime bool, costPerHour decimal.Decimal, addRevenue decimal.Decimal) {
	var standard, worked, produced, normal, overtime float64

	for dayNum, entry := range ts.Days {
		standard += entry.Standard
		worked += entry.Worked
		produced += entry.Produced

		if entry.Worked <= 0 {
			continue
		}
		switch {
		case !acceptsOvertime:
			normal += entry.Worked
		case NewTimePoint(ts.Year, ts.Month, dayNum).IsWeekend():
			overtime += entry.Worked
		default:
			normal += math.Min(entry.Worked, HoursPerNormalDay)
			overtime += math.Max(0, entry.Worked-HoursPerNormalDay)
		}
	}

	normalSalary := mulHours(normal, costPerHour)
	overtimeSalary := mulHours(overtime, costPerHour).Mul(overtimeRate)
	totalCost := normalSalary.Add(overtimeSalary)
	revenue := ts.Totals.RevenueGenerated.Add(addRevenue)

	ts.Totals = MonthTotals{
		StandardHours:    RoundHours(standard),
		WorkedHours:      RoundHours(worked),
		ProducedHours:    RoundHours(produced),
		NormalHours:      RoundHours(normal),
		OvertimeHours:    RoundHours(overtime),
		NormalSalary:     Round2(normalSalary),
		OvertimeSalary:   Round2(overtimeSalary),
		TotalCost:        Round2(totalCost),
		RevenueGenerated: Round2(revenue),
		Difference:       Round2(revenue.Sub(totalCost)),
	}
}

// EfficiencyPercent is produced-to-worked as a rounded percentage, defaulting
// to 100 when there is no history to judge by.
func EfficiencyPercent(produced, worked float64) int {
	if worked <= 0 {
		return 100
	}
	return int(math.Round(produced / worked * 100))
}
