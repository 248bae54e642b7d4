package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/warp/workforce-engine/engine"
)

func TestNewTimesheet_SeedsStandardWeekdays(t *testing.T) {
	// GIVEN: June 2025 (21 working days)
	// WHEN: creating a fresh timesheet
	// THEN: every weekday carries 8 standard hours, weekends zero

	ts := engine.NewTimesheet("emp_1", 2025, 6)

	standard := 0.0
	for day := 1; day <= 30; day++ {
		entry := ts.Day(day)
		if engine.NewTimePoint(2025, 6, day).IsWeekend() {
			if entry.Standard != 0 {
				t.Errorf("day %d: weekend has standard hours", day)
			}
		} else if entry.Standard != 8 {
			t.Errorf("day %d: got %v standard hours", day, entry.Standard)
		}
		standard += entry.Standard
	}
	if standard != 168 {
		t.Errorf("standard total: got %v, want 168", standard)
	}
}

func TestRecomputeMonthTotals_FullRebuild(t *testing.T) {
	// GIVEN: an overtime employee's June sheet with 12h on Mon 2nd, 9h on
	//        Tue 3rd, and 8h on Sat 7th, at 50/h
	// WHEN: recomputing with 3000 of new revenue
	// THEN: normal 16 (8+8), overtime 13 (4+1+8), salaries at 1x/1.5x,
	//       difference = revenue - cost

	ts := engine.NewTimesheet("emp_1", 2025, 6)
	ts.Days[2] = engine.DayEntry{Standard: 8, Worked: 12, Produced: 12}
	ts.Days[3] = engine.DayEntry{Standard: 8, Worked: 9, Produced: 9}
	ts.Days[7] = engine.DayEntry{Worked: 8, Produced: 8}

	engine.RecomputeMonthTotals(&ts, true, dec("50"), dec("3000"))

	tot := ts.Totals
	if tot.WorkedHours != 29 || tot.ProducedHours != 29 {
		t.Errorf("hours: %+v", tot)
	}
	if tot.NormalHours != 16 || tot.OvertimeHours != 13 {
		t.Errorf("normal/overtime: %v/%v", tot.NormalHours, tot.OvertimeHours)
	}
	assertDecimal(t, "normal salary", tot.NormalSalary, dec("800"))
	assertDecimal(t, "overtime salary", tot.OvertimeSalary, dec("975"))
	assertDecimal(t, "total cost", tot.TotalCost, dec("1775"))
	assertDecimal(t, "revenue", tot.RevenueGenerated, dec("3000"))
	assertDecimal(t, "difference", tot.Difference, dec("1225"))
}

func TestRecomputeMonthTotals_RevenueAccumulates(t *testing.T) {
	// GIVEN: two completions touching the same month
	// THEN: revenue adds up across recomputes instead of being rebuilt

	ts := engine.NewTimesheet("emp_1", 2025, 6)
	ts.Days[2] = engine.DayEntry{Standard: 8, Worked: 8, Produced: 8}

	engine.RecomputeMonthTotals(&ts, false, dec("50"), dec("1000"))
	engine.RecomputeMonthTotals(&ts, false, dec("50"), dec("500"))

	assertDecimal(t, "revenue", ts.Totals.RevenueGenerated, dec("1500"))
}

func TestRecomputeMonthTotals_NonOvertimeAlwaysNormal(t *testing.T) {
	// GIVEN: weekend and over-8h weekday entries for a non-overtime employee
	// THEN: everything is normal-rated

	ts := engine.NewTimesheet("emp_1", 2025, 6)
	ts.Days[2] = engine.DayEntry{Standard: 8, Worked: 10}
	ts.Days[7] = engine.DayEntry{Worked: 4}

	engine.RecomputeMonthTotals(&ts, false, dec("50"), decimal.Zero)

	if ts.Totals.NormalHours != 14 || ts.Totals.OvertimeHours != 0 {
		t.Errorf("split: %v/%v", ts.Totals.NormalHours, ts.Totals.OvertimeHours)
	}
}

func TestEfficiencyPercent(t *testing.T) {
	cases := []struct {
		produced, worked float64
		want             int
	}{
		{90, 100, 90},
		{110, 100, 110},
		{0, 100, 0},
		{50, 0, 100}, // no history: assume average
		{0, 0, 100},
	}
	for _, c := range cases {
		if got := engine.EfficiencyPercent(c.produced, c.worked); got != c.want {
			t.Errorf("EfficiencyPercent(%v, %v): got %d, want %d", c.produced, c.worked, got, c.want)
		}
	}
}
