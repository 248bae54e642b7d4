package workforce_test

import (
	"context"
	"testing"
	"time"

	"github.com/warp/workforce-engine/engine"
	"github.com/warp/workforce-engine/workforce"
	"github.com/warp/workforce-engine/workforce/store"
)

// =============================================================================
// LIFECYCLE FIXTURES
// =============================================================================

// weekJob is a Mon-Fri job (Jun 2-6 2025): 5 working days, labor budget
// 10000 under the default 50% production formula.
func weekJob(hoursNeeded float64) engine.JobParams {
	return engine.JobParams{
		JobName:     "Hull repaint",
		Client:      "Danube Shipping",
		Revenue:     dec("20000"),
		Start:       engine.NewTimePoint(2025, time.June, 2),
		End:         engine.NewTimePoint(2025, time.June, 6),
		HoursNeeded: hoursNeeded,
	}
}

// setupCrew creates the standard test crew: Ion (30/h net, no overtime),
// Petre (40/h net, overtime) and Elena in Admin who must never be planned.
func setupCrew(t *testing.T) (*workforce.Service, *store.Memory, engine.Employee, engine.Employee) {
	t.Helper()
	svc, mem := newTestService()
	ion := mustCreate(t, svc, hourlyWorker("Ion", "30", false))
	petre := mustCreate(t, svc, hourlyWorker("Petre", "40", true))
	mustCreate(t, svc, workforce.EmployeeInput{
		FirstName: "Elena", Department: engine.DeptAdmin,
		ContractType: engine.ContractPermanent, PaymentModel: engine.PayMonthly,
		NetAmount: dec("4800"),
	})
	return svc, mem, ion, petre
}

// activateWeekJob runs generate -> save -> activate for the standard crew.
func activateWeekJob(t *testing.T, svc *workforce.Service, hoursNeeded float64) engine.Job {
	t.Helper()
	ctx := context.Background()

	params := weekJob(hoursNeeded)
	result, err := svc.GenerateScenarios(ctx, params)
	if err != nil {
		t.Fatalf("GenerateScenarios: %v", err)
	}
	params.Formula = result.JobDetails.Formula

	sc, err := svc.SaveScenario(ctx, params, result.Scenarios[0])
	if err != nil {
		t.Fatalf("SaveScenario: %v", err)
	}
	job, err := svc.ActivateScenario(ctx, sc.ID)
	if err != nil {
		t.Fatalf("ActivateScenario: %v", err)
	}
	return job
}

// =============================================================================
// SCENARIO GENERATION
// =============================================================================

func TestGenerateScenarios_ProductionOnlyCheapestFirst(t *testing.T) {
	// GIVEN: Ion (42.75/h no OT), Petre (57/h OT) and Elena in Admin
	// WHEN: planning 60h over the Jun 2-6 workweek at revenue 20000
	// THEN: Ion fills 40h first, Petre takes the 20h spill, Elena is absent

	svc, _, ion, petre := setupCrew(t)
	result, err := svc.GenerateScenarios(context.Background(), weekJob(60))
	if err != nil {
		t.Fatalf("GenerateScenarios: %v", err)
	}

	assertDecimal(t, "laborBudget", result.LaborBudget, dec("10000"))
	if result.WorkingDays != 5 || result.WeekendDays != 0 {
		t.Errorf("span: got %d/%d, want 5/0", result.WorkingDays, result.WeekendDays)
	}
	if len(result.Scenarios) != 1 {
		t.Fatalf("scenarios: got %d, want 1 (no off-books rate given)", len(result.Scenarios))
	}

	plan := result.Scenarios[0]
	if len(plan.Team) != 2 {
		t.Fatalf("team: got %d members, want 2", len(plan.Team))
	}
	if plan.Team[0].EmployeeID != ion.ID || plan.Team[0].HoursAllocated != 40 {
		t.Errorf("first: got %s with %vh, want %s with 40h",
			plan.Team[0].EmployeeID, plan.Team[0].HoursAllocated, ion.ID)
	}
	if plan.Team[1].EmployeeID != petre.ID || plan.Team[1].HoursAllocated != 20 {
		t.Errorf("second: got %s with %vh, want %s with 20h",
			plan.Team[1].EmployeeID, plan.Team[1].HoursAllocated, petre.ID)
	}
	// 40 x 42.75 + 20 x 57 = 1710 + 1140
	assertDecimal(t, "totalCost", plan.TotalCost, dec("2850"))
	if !plan.WithinBudget || plan.CoveragePercent != 100 {
		t.Errorf("got withinBudget=%v coverage=%d, want true/100", plan.WithinBudget, plan.CoveragePercent)
	}
}

func TestGenerateScenarios_FormulaFallsBackToSettings(t *testing.T) {
	svc, _, _, _ := setupCrew(t)
	result, err := svc.GenerateScenarios(context.Background(), weekJob(60))
	if err != nil {
		t.Fatalf("GenerateScenarios: %v", err)
	}
	if result.JobDetails.Formula.Production != 50 {
		t.Errorf("formula: got %v, want the 50%% company default", result.JobDetails.Formula)
	}
}

func TestSaveScenario_RejectsEmptyTeam(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.SaveScenario(context.Background(), weekJob(60), engine.StaffingPlan{})
	if !engine.IsClientError(err) {
		t.Errorf("got %v, want client error", err)
	}
}

// =============================================================================
// ACTIVATION
// =============================================================================

func TestActivateScenario(t *testing.T) {
	// GIVEN: a saved planning scenario
	// WHEN: activating it
	// THEN: an active job carries the plan and the scenario flips to activated

	svc, _, _, _ := setupCrew(t)
	job := activateWeekJob(t, svc, 60)
	ctx := context.Background()

	if job.Status != engine.JobActive {
		t.Errorf("status: got %s, want active", job.Status)
	}
	assertDecimal(t, "laborBudget", job.LaborBudget, dec("10000"))
	if len(job.Team) != 2 || job.WorkingDays != 5 {
		t.Errorf("job carried wrong plan: team=%d workingDays=%d", len(job.Team), job.WorkingDays)
	}

	scenarios, _ := svc.ListScenarios(ctx)
	if len(scenarios) != 1 || scenarios[0].Status != engine.ScenarioActivated {
		t.Fatalf("scenario not flipped: %+v", scenarios)
	}

	// Activating twice must fail.
	if _, err := svc.ActivateScenario(ctx, scenarios[0].ID); !engine.IsClientError(err) {
		t.Errorf("re-activation: got %v, want client error", err)
	}

	active, _ := svc.ActiveJobs(ctx)
	if len(active) != 1 || active[0].ID != job.ID {
		t.Errorf("ActiveJobs: got %+v", active)
	}
}

// =============================================================================
// TEAM EDITS
// =============================================================================

func TestAddTeamMember_CappedAtAvailability(t *testing.T) {
	// GIVEN: an active week job and Vasile (28.50/h, no OT, 40h available)
	// WHEN: asking for 100h of Vasile
	// THEN: the line is capped at 40h costing 1140

	svc, _, _, _ := setupCrew(t)
	job := activateWeekJob(t, svc, 60)
	ctx := context.Background()

	vasile := mustCreate(t, svc, hourlyWorker("Vasile", "20", false))
	updated, err := svc.AddTeamMember(ctx, job.ID, vasile.ID, 100)
	if err != nil {
		t.Fatalf("AddTeamMember: %v", err)
	}

	if len(updated.Team) != 3 {
		t.Fatalf("team: got %d, want 3", len(updated.Team))
	}
	added := updated.Team[2]
	if added.HoursAllocated != 40 || added.OvertimeHours != 0 {
		t.Errorf("allocation: got %vh (%v OT), want 40h normal", added.HoursAllocated, added.OvertimeHours)
	}
	assertDecimal(t, "cost", added.Cost, dec("1140"))

	// Same employee twice must fail.
	if _, err := svc.AddTeamMember(ctx, job.ID, vasile.ID, 10); !engine.IsClientError(err) {
		t.Errorf("duplicate member: got %v, want client error", err)
	}
}

func TestRemoveTeamMember(t *testing.T) {
	svc, _, ion, _ := setupCrew(t)
	job := activateWeekJob(t, svc, 60)
	ctx := context.Background()

	updated, err := svc.RemoveTeamMember(ctx, job.ID, ion.ID)
	if err != nil {
		t.Fatalf("RemoveTeamMember: %v", err)
	}
	if len(updated.Team) != 1 {
		t.Errorf("team: got %d, want 1", len(updated.Team))
	}

	if _, err := svc.RemoveTeamMember(ctx, job.ID, ion.ID); !engine.IsClientError(err) {
		t.Errorf("removing absent member: got %v, want client error", err)
	}
}

// =============================================================================
// COMPLETION
// =============================================================================

func TestCompleteJob_FullSettlement(t *testing.T) {
	// GIVEN: the active week job (Ion 40h, Petre 20h planned)
	// WHEN: completing with Ion 40 worked/40 produced, Petre 20 worked/30 produced
	// THEN: job financials, timesheets and history all settle consistently

	svc, mem, ion, petre := setupCrew(t)
	job := activateWeekJob(t, svc, 60)
	ctx := context.Background()

	completed, err := svc.CompleteJob(ctx, job.ID, []workforce.MemberActuals{
		{EmployeeID: ion.ID, WorkedHours: 40, ProducedHours: 40},
		{EmployeeID: petre.ID, WorkedHours: 20, ProducedHours: 30},
	})
	if err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}

	// Job financials: actual cost 1710 + 1140.
	if completed.Status != engine.JobCompleted {
		t.Fatalf("status: got %s, want completed", completed.Status)
	}
	assertDecimal(t, "actualLaborCost", completed.ActualLaborCost, dec("2850"))
	assertDecimal(t, "grossProfit", completed.GrossProfit, dec("17150"))
	assertDecimal(t, "laborProfit", completed.LaborProfit, dec("7150"))
	if completed.MarginPercent != 86 {
		t.Errorf("marginPercent: got %d, want 86", completed.MarginPercent)
	}

	// Revenue shares weight the 10000 budget by worked hours (40:20).
	if len(completed.TeamResults) != 2 {
		t.Fatalf("teamResults: got %d, want 2", len(completed.TeamResults))
	}
	ionRes, petreRes := completed.TeamResults[0], completed.TeamResults[1]
	assertDecimal(t, "ion revenueShare", ionRes.RevenueShare, dec("6666.67"))
	assertDecimal(t, "petre revenueShare", petreRes.RevenueShare, dec("3333.33"))
	assertDecimal(t, "ion cost", ionRes.Cost, dec("1710"))
	assertDecimal(t, "petre cost", petreRes.Cost, dec("1140"))
	if ionRes.Efficiency != 100 || petreRes.Efficiency != 150 {
		t.Errorf("efficiency: got %d/%d, want 100/150", ionRes.Efficiency, petreRes.Efficiency)
	}

	// Ion's June sheet: 8h on each weekday Jun 2-6.
	ionTS, err := mem.GetTimesheet(ctx, ion.ID, 2025, time.June)
	if err != nil {
		t.Fatalf("ion timesheet: %v", err)
	}
	for day := 2; day <= 6; day++ {
		if ionTS.Day(day).Worked != 8 {
			t.Errorf("ion day %d: got %vh worked, want 8", day, ionTS.Day(day).Worked)
		}
	}
	if ionTS.Totals.WorkedHours != 40 || ionTS.Totals.OvertimeHours != 0 {
		t.Errorf("ion totals: worked=%v OT=%v, want 40/0",
			ionTS.Totals.WorkedHours, ionTS.Totals.OvertimeHours)
	}
	assertDecimal(t, "ion month cost", ionTS.Totals.TotalCost, dec("1710"))
	assertDecimal(t, "ion month revenue", ionTS.Totals.RevenueGenerated, dec("6666.67"))

	// Petre's 20h land Mon-Wed (8/8/4); produced rides along proportionally.
	petreTS, err := mem.GetTimesheet(ctx, petre.ID, 2025, time.June)
	if err != nil {
		t.Fatalf("petre timesheet: %v", err)
	}
	if petreTS.Day(2).Worked != 8 || petreTS.Day(4).Worked != 4 || petreTS.Day(5).Worked != 0 {
		t.Errorf("petre fill: got %v/%v/%v, want 8/4/0",
			petreTS.Day(2).Worked, petreTS.Day(4).Worked, petreTS.Day(5).Worked)
	}
	if petreTS.Day(2).Produced != 12 {
		t.Errorf("petre produced Mon: got %v, want 12", petreTS.Day(2).Produced)
	}

	// History: one entry each, with a single June month share.
	entries, _ := mem.LoadHistory(ctx, ion.ID)
	if len(entries) != 1 {
		t.Fatalf("ion history: got %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry.JobID != completed.ID || entry.TotalJobHours != 70 {
		t.Errorf("entry header: jobID=%s totalJobHours=%v, want %s/70", entry.JobID, entry.TotalJobHours, completed.ID)
	}
	assertDecimal(t, "ion totalSalary", entry.TotalSalary, dec("1710"))
	// Value rate is 10000 / 70 job hours; Ion produced 40.
	assertDecimal(t, "ion valueProduced", entry.ValueProduced, dec("5714.29"))
	assertDecimal(t, "ion bonus", entry.Bonus, dec("4004.29"))
	if len(entry.MonthlyBreakdown) != 1 || entry.MonthlyBreakdown[0].Month != "2025-06" {
		t.Fatalf("monthly breakdown: %+v", entry.MonthlyBreakdown)
	}
	assertDecimal(t, "ion month share revenue", entry.MonthlyBreakdown[0].RevenueShare, dec("6666.67"))

	// Completing twice must fail.
	if _, err := svc.CompleteJob(ctx, job.ID, nil); !engine.IsClientError(err) {
		t.Errorf("double completion: got %v, want client error", err)
	}
	completedList, _ := svc.CompletedJobs(ctx)
	if len(completedList) != 1 {
		t.Errorf("CompletedJobs: got %d, want 1", len(completedList))
	}
}

func TestCompleteJob_OvertimeChargedFlat(t *testing.T) {
	// GIVEN: Petre (57/h, overtime) works 50h on the 5-working-day job, so
	//        10h land beyond his 40h normal capacity
	// WHEN: completing with actuals
	// THEN: the job is charged flat 50 x 57; only his pay record carries the
	//       1.5x overtime rate

	svc, mem, ion, petre := setupCrew(t)
	job := activateWeekJob(t, svc, 60)
	ctx := context.Background()

	completed, err := svc.CompleteJob(ctx, job.ID, []workforce.MemberActuals{
		{EmployeeID: ion.ID, WorkedHours: 40, ProducedHours: 40},
		{EmployeeID: petre.ID, WorkedHours: 50, ProducedHours: 50},
	})
	if err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}

	ionRes, petreRes := completed.TeamResults[0], completed.TeamResults[1]
	assertDecimal(t, "ion cost", ionRes.Cost, dec("1710"))
	assertDecimal(t, "petre cost", petreRes.Cost, dec("2850"))

	// 1710 + 2850; margin round(15440 / 20000 x 100) = 77.
	assertDecimal(t, "actualLaborCost", completed.ActualLaborCost, dec("4560"))
	assertDecimal(t, "grossProfit", completed.GrossProfit, dec("15440"))
	assertDecimal(t, "laborProfit", completed.LaborProfit, dec("5440"))
	if completed.MarginPercent != 77 {
		t.Errorf("marginPercent: got %d, want 77", completed.MarginPercent)
	}

	// The history entry keeps the overtime-rated salary: 40x57 + 10x85.50.
	entries, _ := mem.LoadHistory(ctx, petre.ID)
	if len(entries) != 1 {
		t.Fatalf("petre history: got %d entries, want 1", len(entries))
	}
	if entries[0].NormalHours != 40 || entries[0].OvertimeHours != 10 {
		t.Errorf("petre hours split: %v/%v, want 40/10",
			entries[0].NormalHours, entries[0].OvertimeHours)
	}
	assertDecimal(t, "petre totalSalary", entries[0].TotalSalary, dec("3135"))
}

func TestCompleteJob_PlaceholderStaysOffTheBooks(t *testing.T) {
	// GIVEN: only Ion declared (40h), so a 64h job needs an off-books
	//        placeholder for the remaining 24h at 240/day = 20/h
	// WHEN: completing with both lines worked as planned
	// THEN: the placeholder settles from its team-line snapshot and leaves no
	//       timesheet or history behind

	svc, mem := newTestService()
	ctx := context.Background()
	ion := mustCreate(t, svc, hourlyWorker("Ion", "30", false))

	params := weekJob(64)
	params.OffbooksCostPerDay = dec("240")
	result, err := svc.GenerateScenarios(ctx, params)
	if err != nil {
		t.Fatalf("GenerateScenarios: %v", err)
	}
	if len(result.Scenarios) != 2 {
		t.Fatalf("scenarios: got %d, want 2", len(result.Scenarios))
	}
	withOffbooks := result.Scenarios[1]
	if len(withOffbooks.Team) != 2 || !withOffbooks.Team[1].IsPlaceholder {
		t.Fatalf("expected Ion plus one placeholder, got %+v", withOffbooks.Team)
	}
	placeholderID := withOffbooks.Team[1].EmployeeID

	params.Formula = result.JobDetails.Formula
	sc, err := svc.SaveScenario(ctx, params, withOffbooks)
	if err != nil {
		t.Fatalf("SaveScenario: %v", err)
	}
	job, err := svc.ActivateScenario(ctx, sc.ID)
	if err != nil {
		t.Fatalf("ActivateScenario: %v", err)
	}

	completed, err := svc.CompleteJob(ctx, job.ID, []workforce.MemberActuals{
		{EmployeeID: ion.ID, WorkedHours: 40},
		{EmployeeID: placeholderID, WorkedHours: 24},
	})
	if err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}

	// 40 x 42.75 + 24 x 20 = 1710 + 480.
	assertDecimal(t, "actualLaborCost", completed.ActualLaborCost, dec("2190"))
	assertDecimal(t, "grossProfit", completed.GrossProfit, dec("17810"))

	if entries, _ := mem.LoadHistory(ctx, placeholderID); len(entries) != 0 {
		t.Errorf("placeholder got history: %+v", entries)
	}
	if sheets, _ := mem.ListTimesheets(ctx, placeholderID); len(sheets) != 0 {
		t.Errorf("placeholder got timesheets: %+v", sheets)
	}
	if entries, _ := mem.LoadHistory(ctx, ion.ID); len(entries) != 1 {
		t.Errorf("ion history: got %d entries, want 1", len(entries))
	}
}

func TestCompleteJob_DeletedEmployeeSettlesFromSnapshot(t *testing.T) {
	// GIVEN: an active job whose team member Petre is deleted before completion
	// WHEN: completing the job
	// THEN: Petre settles at the cost snapshot on the team line, with no
	//       timesheet or history writes

	svc, mem, ion, petre := setupCrew(t)
	job := activateWeekJob(t, svc, 60)
	ctx := context.Background()

	if err := svc.DeleteEmployee(ctx, petre.ID); err != nil {
		t.Fatalf("DeleteEmployee: %v", err)
	}

	completed, err := svc.CompleteJob(ctx, job.ID, []workforce.MemberActuals{
		{EmployeeID: ion.ID, WorkedHours: 40},
		{EmployeeID: petre.ID, WorkedHours: 20},
	})
	if err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}

	assertDecimal(t, "actualLaborCost", completed.ActualLaborCost, dec("2850"))
	if entries, _ := mem.LoadHistory(ctx, petre.ID); len(entries) != 0 {
		t.Errorf("deleted employee got history: %+v", entries)
	}
	if sheets, _ := mem.ListTimesheets(ctx, petre.ID); len(sheets) != 0 {
		t.Errorf("deleted employee got timesheets: %+v", sheets)
	}
}

func TestCompleteJob_RejectsNegativeActuals(t *testing.T) {
	svc, _, ion, _ := setupCrew(t)
	job := activateWeekJob(t, svc, 60)

	_, err := svc.CompleteJob(context.Background(), job.ID, []workforce.MemberActuals{
		{EmployeeID: ion.ID, WorkedHours: -1},
	})
	if !engine.IsClientError(err) {
		t.Errorf("got %v, want client error", err)
	}
}
