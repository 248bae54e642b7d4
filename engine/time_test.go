package engine_test

import (
	"encoding/json"
	"testing"

	"github.com/warp/workforce-engine/engine"
)

// 2025-06-02 is a Monday; June 2025 has 30 days, 21 of them working days.

func TestTimePoint_ParseAndRoundTrip(t *testing.T) {
	// GIVEN: an ISO date string
	// WHEN: parsing and re-marshaling
	// THEN: the value survives unchanged and marshals back to the same string

	tp, err := engine.ParseTimePoint("2025-06-02")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tp.Year() != 2025 || tp.Month() != 6 || tp.Day() != 2 {
		t.Fatalf("parsed wrong date: %s", tp)
	}

	raw, err := json.Marshal(tp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"2025-06-02"` {
		t.Errorf("marshal: got %s", raw)
	}

	var back engine.TimePoint
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(tp) {
		t.Errorf("round trip: got %s, want %s", back, tp)
	}
}

func TestTimePoint_WeekendDetection(t *testing.T) {
	mon := engine.NewTimePoint(2025, 6, 2)
	sat := engine.NewTimePoint(2025, 6, 7)
	sun := engine.NewTimePoint(2025, 6, 8)

	if mon.IsWeekend() || !mon.IsWorkday() {
		t.Error("Monday classified as weekend")
	}
	if !sat.IsWeekend() || !sun.IsWeekend() {
		t.Error("Saturday/Sunday not classified as weekend")
	}
}

func TestPeriod_Days(t *testing.T) {
	// GIVEN: Mon..Sun inclusive
	// THEN: 7 days

	p := engine.NewPeriod(engine.NewTimePoint(2025, 6, 2), engine.NewTimePoint(2025, 6, 8))
	days := p.Days()
	if len(days) != 7 {
		t.Fatalf("Days: got %d, want 7", len(days))
	}
	if !days[0].Equal(p.Start) || !days[6].Equal(p.End) {
		t.Errorf("Days order: first %s last %s", days[0], days[6])
	}

	single := engine.NewPeriod(engine.NewTimePoint(2025, 6, 2), engine.NewTimePoint(2025, 6, 2))
	if got := len(single.Days()); got != 1 {
		t.Errorf("single day: got %d, want 1", got)
	}
}

func TestPeriod_Invalid(t *testing.T) {
	p := engine.NewPeriod(engine.NewTimePoint(2025, 6, 8), engine.NewTimePoint(2025, 6, 2))
	if p.Valid() {
		t.Error("reversed period reported valid")
	}
}

func TestPeriod_MonthSlices(t *testing.T) {
	// GIVEN: a period straddling June and July
	// WHEN: slicing by month
	// THEN: two slices cut at the month boundary, covering the whole period

	p := engine.NewPeriod(engine.NewTimePoint(2025, 6, 20), engine.NewTimePoint(2025, 7, 10))
	slices := p.MonthSlices()

	if len(slices) != 2 {
		t.Fatalf("slices: got %d, want 2", len(slices))
	}
	if !slices[0].Start.Equal(engine.NewTimePoint(2025, 6, 20)) ||
		!slices[0].End.Equal(engine.NewTimePoint(2025, 6, 30)) {
		t.Errorf("first slice: got %s", slices[0])
	}
	if !slices[1].Start.Equal(engine.NewTimePoint(2025, 7, 1)) ||
		!slices[1].End.Equal(engine.NewTimePoint(2025, 7, 10)) {
		t.Errorf("second slice: got %s", slices[1])
	}
}

func TestPeriod_MonthSlicesSingleMonth(t *testing.T) {
	p := engine.NewPeriod(engine.NewTimePoint(2025, 6, 2), engine.NewTimePoint(2025, 6, 6))
	slices := p.MonthSlices()
	if len(slices) != 1 {
		t.Fatalf("slices: got %d, want 1", len(slices))
	}
	if !slices[0].Start.Equal(p.Start) || !slices[0].End.Equal(p.End) {
		t.Errorf("slice differs from period: %s", slices[0])
	}
}

func TestSpanOf_CountsWorkingAndWeekendDays(t *testing.T) {
	// GIVEN: one full week Mon..Sun
	span := engine.SpanOf(engine.NewPeriod(
		engine.NewTimePoint(2025, 6, 2), engine.NewTimePoint(2025, 6, 8)))

	if span.TotalDays != 7 || span.WorkingDays != 5 || span.WeekendDays != 2 {
		t.Errorf("span: got %+v", span)
	}
	if got := span.NormalCapacityHours(); got != 40 {
		t.Errorf("normal capacity: got %v, want 40", got)
	}
	if got := span.OvertimeCapacityHours(); got != 84 {
		t.Errorf("overtime capacity: got %v, want 84", got)
	}
}

func TestMonthKey(t *testing.T) {
	if got := engine.NewTimePoint(2025, 6, 15).MonthKey(); got != "2025-06" {
		t.Errorf("MonthKey: got %q", got)
	}
}
