/*
planner.go - Competing staffing plans for a fixed-revenue job

PURPOSE:
  Given a job (revenue, period, hours needed) and the Production employees
  still available in that period, produce two plans that meet the hour
  requirement at minimum cost:

    "Without Off-Books"  declared employees only, overtime allowed for those
                         who accept it; may fall short of the hours needed
    "With Off-Books"     declared employees capped at normal hours, existing
                         off-books workers next, then as many synthesized
                         placeholder off-books workers as demand requires -
                         this plan always reaches 100% coverage

SORT ORDER (cheapest labor first):
  1. employees who do NOT accept overtime (no 1.5x surcharge risk)
  2. ascending cost per hour
  3. descending efficiency as tie-break

GREEDY WALK:
  Allocation is a fold over the sorted candidate list: each employee absorbs
  min(remaining, capacity) and the remainder moves on. Allocated hours split
  into normal (up to workingDays x 8) and overtime (costed at 1.5x).
*/
package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// LaborBudget is the share of revenue earmarked for labor.
func LaborBudget(revenue decimal.Decimal, f Formula) decimal.Decimal {
	return revenue.Mul(decimal.NewFromFloat(f.Production)).Div(oneHundred)
}

// SortCandidates orders candidates by the planner's preference: non-overtime
// first, then cheapest, then most efficient. The slice is sorted in place.
func SortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Employee.AcceptsOvertime != b.Employee.AcceptsOvertime {
			return !a.Employee.AcceptsOvertime
		}
		if !a.Costs.CostPerHour.Equal(b.Costs.CostPerHour) {
			return a.Costs.CostPerHour.LessThan(b.Costs.CostPerHour)
		}
		return a.Efficiency > b.Efficiency
	})
}

// Plan builds both staffing plans. Candidates must already carry availability
// for the job period; candidates with no available hours are ignored.
func Plan(params JobParams, candidates []Candidate) (PlanResult, error) {
	period := NewPeriod(params.Start, params.End)
	if !period.Valid() {
		return PlanResult{}, ErrInvalidPeriod
	}
	if params.HoursNeeded <= 0 {
		return PlanResult{}, Invalid("hoursNeeded", "must be positive")
	}

	span := SpanOf(period)
	totalDays := span.TotalDays
	if params.EffectiveDays > 0 {
		totalDays = params.EffectiveDays
	}
	budget := LaborBudget(params.Revenue, params.Formula)

	pool := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Availability.AvailableHours > 0 {
			pool = append(pool, c)
		}
	}
	SortCandidates(pool)

	var declared, offbooks []Candidate
	for _, c := range pool {
		if c.Employee.ContractType == ContractOffBooks {
			offbooks = append(offbooks, c)
		} else {
			declared = append(declared, c)
		}
	}

	result := PlanResult{
		JobDetails:        params,
		LaborBudget:       Round2(budget),
		TotalDays:         totalDays,
		TotalCalendarDays: span.TotalDays,
		WorkingDays:       span.WorkingDays,
		WeekendDays:       span.WeekendDays,
	}

	result.Scenarios = append(result.Scenarios,
		planWithoutOffbooks(declared, params.HoursNeeded, totalDays, span.WorkingDays, budget))

	if params.OffbooksCostPerDay.IsPositive() {
		result.Scenarios = append(result.Scenarios,
			planWithOffbooks(declared, offbooks, params.HoursNeeded, totalDays, span.WorkingDays,
				budget, params.OffbooksCostPerDay))
	}

	return result, nil
}

// planWithoutOffbooks walks the sorted declared pool, letting overtime-eligible
// employees spill past normal capacity at the 1.5x rate.
func planWithoutOffbooks(pool []Candidate, hoursNeeded float64, totalDays, workingDays int, budget decimal.Decimal) StaffingPlan {
	var team []TeamMember
	remaining := hoursNeeded
	totalCost := decimal.Zero
	normalCapacity := float64(workingDays) * HoursPerNormalDay

	for _, c := range pool {
		if remaining <= 0 {
			break
		}

		capacity := math.Min(c.Availability.AvailableHours, normalCapacity)
		if c.Employee.AcceptsOvertime {
			capacity = math.Min(c.Availability.AvailableHours, float64(totalDays)*HoursPerOvertimeDay)
		}
		alloc := math.Min(remaining, capacity)
		if alloc <= 0 {
			continue
		}

		normal := math.Min(alloc, normalCapacity)
		overtime := alloc - normal
		cost := mulHours(normal, c.Costs.CostPerHour).
			Add(mulHours(overtime, c.Costs.CostPerHour).Mul(decimal.NewFromFloat(OvertimeMultiplier)))

		daysCanWork := workingDays
		if c.Employee.AcceptsOvertime {
			daysCanWork = totalDays
		}

		team = append(team, TeamMember{
			EmployeeID:      c.Employee.ID,
			Name:            c.Employee.Name(),
			ContractType:    c.Employee.ContractType,
			Efficiency:      c.Efficiency,
			CostPerHour:     c.Costs.CostPerHour,
			HoursAllocated:  RoundHours(alloc),
			HoursPerDay:     hoursPerDaySpread(alloc, daysCanWork, HoursPerOvertimeDay),
			NormalHours:     RoundHours(normal),
			OvertimeHours:   RoundHours(overtime),
			Cost:            Round2(cost),
			AcceptsOvertime: c.Employee.AcceptsOvertime,
		})

		remaining -= alloc
		totalCost = totalCost.Add(cost)
	}

	shortage := math.Round(math.Max(0, remaining))
	plan := StaffingPlan{
		Name:            "Without Off-Books",
		Team:            team,
		TotalHours:      math.Round(hoursNeeded - remaining),
		TotalCost:       Round2(totalCost),
		WithinBudget:    totalCost.LessThanOrEqual(budget),
		BudgetRemaining: Round2(budget.Sub(totalCost)),
		CoveragePercent: coveragePercent(hoursNeeded-remaining, hoursNeeded),
		HoursShortage:   shortage,
	}
	if shortage > 0 {
		plan.ShortageMessage = fmt.Sprintf("Missing %.0fh - not enough employees available", shortage)
	}
	return plan
}

// planWithOffbooks is a three-step waterfall: declared employees at normal
// hours only, existing off-books workers, then unbounded placeholder workers.
// Step 3 guarantees coverage, so this plan never reports a shortage.
func planWithOffbooks(declared, offbooks []Candidate, hoursNeeded float64, totalDays, workingDays int,
	budget, offbooksCostPerDay decimal.Decimal) StaffingPlan {

	var team []TeamMember
	remaining := hoursNeeded
	totalCost := decimal.Zero
	normalCapacity := float64(workingDays) * HoursPerNormalDay
	offbooksCapacity := float64(totalDays) * HoursPerOvertimeDay

	// Step 1: declared employees, normal hours only - no overtime even for
	// those who accept it (the placeholders below are cheaper than 1.5x).
	for _, c := range declared {
		if remaining <= 0 {
			break
		}
		alloc := math.Min(remaining, math.Min(c.Availability.AvailableHours, normalCapacity))
		if alloc <= 0 {
			continue
		}
		cost := mulHours(alloc, c.Costs.CostPerHour)

		team = append(team, TeamMember{
			EmployeeID:      c.Employee.ID,
			Name:            c.Employee.Name(),
			ContractType:    c.Employee.ContractType,
			Efficiency:      c.Efficiency,
			CostPerHour:     c.Costs.CostPerHour,
			HoursAllocated:  RoundHours(alloc),
			HoursPerDay:     hoursPerDaySpread(alloc, workingDays, HoursPerNormalDay),
			NormalHours:     RoundHours(alloc),
			Cost:            Round2(cost),
			AcceptsOvertime: c.Employee.AcceptsOvertime,
		})

		remaining -= alloc
		totalCost = totalCost.Add(cost)
	}

	// Step 2: off-books workers already on the books (so to speak) - any day,
	// up to 12h.
	for _, c := range offbooks {
		if remaining <= 0 {
			break
		}
		alloc := math.Min(remaining, math.Min(c.Availability.AvailableHours, offbooksCapacity))
		if alloc <= 0 {
			continue
		}
		cost := mulHours(alloc, c.Costs.CostPerHour)

		team = append(team, TeamMember{
			EmployeeID:      c.Employee.ID,
			Name:            c.Employee.Name(),
			ContractType:    ContractOffBooks,
			Efficiency:      c.Efficiency,
			CostPerHour:     c.Costs.CostPerHour,
			HoursAllocated:  RoundHours(alloc),
			HoursPerDay:     hoursPerDaySpread(alloc, totalDays, HoursPerOvertimeDay),
			NormalHours:     RoundHours(alloc),
			Cost:            Round2(cost),
			AcceptsOvertime: true,
		})

		remaining -= alloc
		totalCost = totalCost.Add(cost)
	}

	// Step 3: synthesize placeholder workers until demand is met exactly.
	if remaining > 0 && offbooksCapacity > 0 {
		hourlyRate := offbooksCostPerDay.Div(decimal.NewFromFloat(HoursPerOvertimeDay))
		for i := 1; remaining > 0; i++ {
			alloc := math.Min(remaining, offbooksCapacity)
			cost := mulHours(alloc, hourlyRate)

			team = append(team, TeamMember{
				EmployeeID:      fmt.Sprintf("offbooks_placeholder_%d", i),
				Name:            fmt.Sprintf("Off-Books %d", i),
				ContractType:    ContractOffBooks,
				Efficiency:      100,
				CostPerHour:     Round2(hourlyRate),
				HoursAllocated:  RoundHours(alloc),
				HoursPerDay:     hoursPerDaySpread(alloc, totalDays, HoursPerOvertimeDay),
				NormalHours:     RoundHours(alloc),
				Cost:            Round2(cost),
				AcceptsOvertime: true,
				IsPlaceholder:   true,
			})

			remaining -= alloc
			totalCost = totalCost.Add(cost)
		}
	}

	return StaffingPlan{
		Name:            "With Off-Books",
		Team:            team,
		TotalHours:      math.Round(hoursNeeded),
		TotalCost:       Round2(totalCost),
		WithinBudget:    totalCost.LessThanOrEqual(budget),
		BudgetRemaining: Round2(budget.Sub(totalCost)),
		CoveragePercent: 100,
	}
}

// hoursPerDaySpread is the display figure "hours/day if spread evenly",
// rounded up and capped at the per-day ceiling.
func hoursPerDaySpread(hours float64, days int, cap float64) float64 {
	if days <= 0 {
		return 0
	}
	return math.Min(math.Ceil(hours/float64(days)), cap)
}

// coveragePercent is the met fraction of the hour requirement, as a rounded
// percentage. A zero requirement counts as fully covered.
func coveragePercent(met, needed float64) int {
	if needed <= 0 {
		return 100
	}
	return int(math.Round(met / needed * 100))
}
