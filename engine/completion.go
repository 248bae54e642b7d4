/*
completion.go - Distributing actually-worked hours when a job completes

PURPOSE:
  When a job is marked complete we know how many hours each team member
  really worked and produced, but not on which days. This file places those
  hours onto specific calendar days (honoring what other jobs already put
  there), splits them into normal and overtime pay, and slices the result by
  calendar month for revenue-period reporting.

THE VESSEL FILL (two passes over chronologically ordered days):
  Pass 1  weekdays only: each day absorbs up to (8 - hours already there)
  Pass 2  only if the employee accepts overtime: every day, weekends
          included, absorbs up to (12 - existing - pass-1 hours)

  If the employee does not accept overtime and pass 1 cannot absorb all the
  worked hours, the surplus is dropped without being written anywhere. That
  is deliberate, long-standing behavior; see the property test pinning it.

  Produced hours ride along proportionally: each day receives
  produced x (hours placed on day / total hours placed).

NORMAL/OVERTIME SPLIT (per day, across all jobs):
  On a weekday the first 8 cumulative hours are normal and the excess is
  overtime; on a weekend everything is overtime; a non-overtime employee is
  always normal-rated. Hours other jobs already placed on a day consume the
  normal capacity first.

DESIGN:
  Modeled as folds over ordered day-capacity records returning fresh
  allocation lists - nothing here mutates a timesheet. The caller applies
  the allocations and triggers the month-total recompute (aggregate.go).
*/
package engine

import (
	"math"

	"github.com/shopspring/decimal"
)

// DayCapacity is one calendar day of the job period together with the hours
// other jobs have already recorded there.
type DayCapacity struct {
	Day      TimePoint
	Existing float64
}

// DayCapacities builds the ordered day records for a period from a load
// lookup (usually backed by the employee's timesheets).
func DayCapacities(period Period, load DayLoad) []DayCapacity {
	var days []DayCapacity
	for d := period.Start; d.BeforeOrEqual(period.End); d = d.AddDays(1) {
		dc := DayCapacity{Day: d}
		if load != nil {
			dc.Existing = load(d)
		}
		days = append(days, dc)
	}
	return days
}

// DayAllocation is this job's addition to a single day.
type DayAllocation struct {
	Day      TimePoint
	Hours    float64
	Produced float64
	// ExistingBefore is the load the day carried before this job; the
	// normal/overtime split needs it to know how much normal capacity other
	// jobs already consumed.
	ExistingBefore float64
}

// DistributeHours runs the two-pass vessel fill. Days must be in
// chronological order; the returned allocations are too. The sum of returned
// hours is min(workedHours, capacity in range) - any surplus beyond capacity
// is NOT returned (see the package comment on dropping).
func DistributeHours(days []DayCapacity, workedHours, producedHours float64, acceptsOvertime bool) []DayAllocation {
	planned := make([]float64, len(days))
	remaining := workedHours

	// Pass 1: normal hours, weekdays only.
	for i, dc := range days {
		if remaining <= 0 {
			break
		}
		if dc.Day.IsWeekend() {
			continue
		}
		space := math.Max(0, HoursPerNormalDay-dc.Existing)
		add := math.Min(remaining, space)
		if add > 0 {
			planned[i] += add
			remaining -= add
		}
	}

	// Pass 2: overtime spill, all days, only for overtime-eligible employees.
	if acceptsOvertime && remaining > 0 {
		for i, dc := range days {
			if remaining <= 0 {
				break
			}
			space := math.Max(0, HoursPerOvertimeDay-(dc.Existing+planned[i]))
			add := math.Min(remaining, space)
			if add > 0 {
				planned[i] += add
				remaining -= add
			}
		}
	}

	totalPlaced := 0.0
	for _, h := range planned {
		totalPlaced += h
	}

	var allocs []DayAllocation
	for i, h := range planned {
		if h <= 0 {
			continue
		}
		produced := 0.0
		if totalPlaced > 0 {
			produced = producedHours * h / totalPlaced
		}
		allocs = append(allocs, DayAllocation{
			Day:            days[i].Day,
			Hours:          h,
			Produced:       produced,
			ExistingBefore: days[i].Existing,
		})
	}
	return allocs
}

// SplitNormalOvertime recomputes this job's normal/overtime hours from the
// final per-day placement, counting normal capacity already consumed by
// other jobs on each day.
func SplitNormalOvertime(allocs []DayAllocation, acceptsOvertime bool) (normal, overtime float64) {
	for _, a := range allocs {
		switch {
		case !acceptsOvertime:
			normal += a.Hours
		case a.Day.IsWeekend():
			overtime += a.Hours
		default:
			usedBefore := math.Min(math.Max(a.ExistingBefore, 0), HoursPerNormalDay)
			spaceLeft := HoursPerNormalDay - usedBefore
			n := math.Min(a.Hours, spaceLeft)
			normal += n
			overtime += a.Hours - n
		}
	}
	return normal, overtime
}

// =============================================================================
// COMPLETION - per team member
// =============================================================================

// CompletionInput is everything needed to settle one team member of a
// completed job.
type CompletionInput struct {
	Period          Period
	WorkedHours     float64
	ProducedHours   float64
	AcceptsOvertime bool
	CostPerHour     decimal.Decimal

	// Job-level figures for the production value rate.
	Revenue           decimal.Decimal
	ProductionPercent float64
	TotalJobHours     float64

	// RevenueShare is this member's slice of the labor budget; the monthly
	// breakdown distributes it proportionally to hours.
	RevenueShare decimal.Decimal
}

// CompletionResult is the settled outcome: day placement, pay split, value
// produced, and the per-month breakdown.
type CompletionResult struct {
	Allocations []DayAllocation

	NormalHours   float64
	OvertimeHours float64

	SalaryNormal decimal.Decimal
	SalaryOT     decimal.Decimal
	TotalSalary  decimal.Decimal

	ValueProduced decimal.Decimal
	Bonus         decimal.Decimal

	Months []MonthShare
}

var overtimeRate = decimal.NewFromFloat(OvertimeMultiplier)

// CompleteMember distributes one member's worked/produced hours over the
// given day records and computes the pay, value and monthly split.
func CompleteMember(in CompletionInput, days []DayCapacity) CompletionResult {
	allocs := DistributeHours(days, in.WorkedHours, in.ProducedHours, in.AcceptsOvertime)
	normal, overtime := SplitNormalOvertime(allocs, in.AcceptsOvertime)

	salaryNormal := mulHours(normal, in.CostPerHour)
	salaryOT := mulHours(overtime, in.CostPerHour).Mul(overtimeRate)
	totalSalary := salaryNormal.Add(salaryOT)

	value := decimal.Zero
	if in.TotalJobHours > 0 {
		ratePerHour := in.Revenue.Mul(decimal.NewFromFloat(in.ProductionPercent)).Div(oneHundred).
			Div(decimal.NewFromFloat(in.TotalJobHours))
		value = mulHours(in.ProducedHours, ratePerHour)
	}
	bonus := value.Sub(totalSalary)
	if bonus.IsNegative() {
		bonus = decimal.Zero
	}

	return CompletionResult{
		Allocations:   allocs,
		NormalHours:   RoundHours(normal),
		OvertimeHours: RoundHours(overtime),
		SalaryNormal:  Round2(salaryNormal),
		SalaryOT:      Round2(salaryOT),
		TotalSalary:   Round2(totalSalary),
		ValueProduced: Round2(value),
		Bonus:         Round2(bonus),
		Months:        SplitIntoMonths(in),
	}
}

// SplitIntoMonths walks the job period one calendar-month slice at a time,
// filling each month up to its capacity and allocating revenue and produced
// hours in proportion to the hours that landed in the month.
//
// Unlike the day-level vessel fill, the month split works from capacity
// ceilings alone (it does not see other jobs), so it is a reporting
// approximation of where the hours fall. Every slice is stamped with the
// period end.
func SplitIntoMonths(in CompletionInput) []MonthShare {
	totalHours := in.WorkedHours
	if totalHours <= 0 {
		return nil
	}

	var months []MonthShare
	remaining := totalHours
	slices := NewPeriod(in.Period.Start, in.Period.End).MonthSlices()

	var ratePerHour decimal.Decimal
	if totalHours > 0 {
		ratePerHour = in.Revenue.Mul(decimal.NewFromFloat(in.ProductionPercent)).Div(oneHundred).
			Div(decimal.NewFromFloat(totalHours))
	}

	for _, slice := range slices {
		if remaining <= 0 {
			break
		}
		span := SpanOf(slice)

		capacity := span.NormalCapacityHours()
		if in.AcceptsOvertime {
			capacity = span.OvertimeCapacityHours()
		}
		hoursThisMonth := math.Min(remaining, capacity)

		maxNormal := span.NormalCapacityHours()
		normalHours := math.Min(hoursThisMonth, maxNormal)
		overtimeHours := hoursThisMonth - normalHours

		salaryNormal := mulHours(normalHours, in.CostPerHour)
		salaryOT := mulHours(overtimeHours, in.CostPerHour).Mul(overtimeRate)
		totalSalary := salaryNormal.Add(salaryOT)

		fraction := hoursThisMonth / totalHours
		revenueShare := in.RevenueShare.Mul(decimal.NewFromFloat(fraction))
		hoursProduced := in.ProducedHours * fraction
		valueProduced := mulHours(hoursProduced, ratePerHour)

		months = append(months, MonthShare{
			Month:         slice.Start.MonthKey(),
			WorkingDays:   span.WorkingDays,
			WeekendDays:   span.WeekendDays,
			HoursWorked:   RoundHours(hoursThisMonth),
			HoursProduced: RoundHours(hoursProduced),
			NormalHours:   RoundHours(normalHours),
			OvertimeHours: RoundHours(overtimeHours),
			SalaryNormal:  Round2(salaryNormal),
			SalaryOT:      Round2(salaryOT),
			TotalSalary:   Round2(totalSalary),
			RevenueShare:  Round2(revenueShare),
			ValueProduced: Round2(valueProduced),
			Bonus:         Round2(valueProduced.Sub(totalSalary)),
			CompletedAt:   in.Period.End.Time,
		})

		remaining -= hoursThisMonth
	}
	return months
}
