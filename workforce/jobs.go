/*
jobs.go - Activation, team edits and completion of jobs

COMPLETION FLOW (the heart of the system):
  1. Total up the actual worked/produced hours across the team. The job's
     total hours are the produced total when any production was recorded,
     otherwise the worked total.
  2. Each member's revenue share is the labor budget weighted by their share
     of worked hours.
  3. Per member, the engine distributes the worked hours onto calendar days
     (honoring other jobs already on the employee's timesheets), splits
     normal/overtime pay and slices the result by month.
  4. Real employees get their timesheets updated and a history entry
     appended. Placeholder off-books workers exist only inside the job
     record: no timesheet, no history.
  5. The job flips to completed and becomes an immutable snapshot.

MONTH TOTALS:
  Every timesheet month touched by an allocation or a month slice is fully
  recomputed; the month's revenue share from this job is added to the month's
  accumulated revenue.
*/
package workforce

import (
	"context"
	"math"

	"github.com/shopspring/decimal"

	"github.com/warp/workforce-engine/engine"
)

// ActivateScenario turns a saved plan into an active job.
func (s *Service) ActivateScenario(ctx context.Context, scenarioID string) (engine.Job, error) {
	sc, err := s.store.GetScenario(ctx, scenarioID)
	if err != nil {
		return engine.Job{}, err
	}
	if sc.Status == engine.ScenarioActivated {
		return engine.Job{}, engine.Invalid("status", "scenario already activated")
	}

	job := engine.Job{
		ID:          s.newID("job"),
		ScenarioID:  sc.ID,
		Name:        sc.JobDetails.JobName,
		Client:      sc.JobDetails.Client,
		Revenue:     sc.JobDetails.Revenue,
		Start:       sc.JobDetails.Start,
		End:         sc.JobDetails.End,
		HoursNeeded: sc.JobDetails.HoursNeeded,
		Formula:     sc.JobDetails.Formula,
		LaborBudget: sc.LaborBudget,
		TotalDays:   sc.TotalDays,
		WorkingDays: sc.WorkingDays,
		Team:        sc.Selected.Team,
		Status:      engine.JobActive,
		ActivatedAt: s.now(),
	}
	if err := s.store.PutJob(ctx, job); err != nil {
		return engine.Job{}, err
	}

	sc.Status = engine.ScenarioActivated
	if err := s.store.PutScenario(ctx, sc); err != nil {
		return engine.Job{}, err
	}
	return job, nil
}

func (s *Service) GetJob(ctx context.Context, id string) (engine.Job, error) {
	return s.store.GetJob(ctx, id)
}

// ActiveJobs returns jobs still in progress, newest first.
func (s *Service) ActiveJobs(ctx context.Context) ([]engine.Job, error) {
	return s.store.ListJobs(ctx, engine.JobActive)
}

// CompletedJobs returns finished jobs, newest first.
func (s *Service) CompletedJobs(ctx context.Context) ([]engine.Job, error) {
	return s.store.ListJobs(ctx, engine.JobCompleted)
}

// AddTeamMember adds an employee to an active job with the requested hours,
// capped at the employee's remaining availability in the job period. The cost
// line uses the same normal/overtime math as the planner.
func (s *Service) AddTeamMember(ctx context.Context, jobID, employeeID string, hours float64) (engine.Job, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return engine.Job{}, err
	}
	if job.Status != engine.JobActive {
		return engine.Job{}, engine.Invalid("status", "job is not active")
	}
	for _, m := range job.Team {
		if m.EmployeeID == employeeID {
			return engine.Job{}, engine.Invalid("employeeId", "already on the team")
		}
	}
	if hours <= 0 {
		return engine.Job{}, engine.Invalid("hours", "must be positive")
	}

	e, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return engine.Job{}, err
	}
	load, err := s.dayLoad(ctx, employeeID)
	if err != nil {
		return engine.Job{}, err
	}
	period := engine.NewPeriod(job.Start, job.End)
	av := engine.AvailabilityFor(e.AcceptsOvertime, period, load)

	alloc := math.Min(hours, av.AvailableHours)
	if alloc <= 0 {
		return engine.Job{}, engine.Invalid("hours", "employee has no availability in the job period")
	}

	normalCapacity := float64(job.WorkingDays) * engine.HoursPerNormalDay
	normal := math.Min(alloc, normalCapacity)
	overtime := 0.0
	if e.AcceptsOvertime {
		overtime = alloc - normal
	} else {
		alloc = normal
	}
	cost := decimal.NewFromFloat(normal).Mul(e.CostPerHour).
		Add(decimal.NewFromFloat(overtime).Mul(e.CostPerHour).Mul(decimal.NewFromFloat(engine.OvertimeMultiplier)))

	efficiency, err := s.historyEfficiency(ctx, employeeID)
	if err != nil {
		return engine.Job{}, err
	}

	job.Team = append(job.Team, engine.TeamMember{
		EmployeeID:      e.ID,
		Name:            e.Name(),
		ContractType:    e.ContractType,
		Efficiency:      efficiency,
		CostPerHour:     e.CostPerHour,
		HoursAllocated:  engine.RoundHours(alloc),
		NormalHours:     engine.RoundHours(normal),
		OvertimeHours:   engine.RoundHours(overtime),
		Cost:            engine.Round2(cost),
		AcceptsOvertime: e.AcceptsOvertime,
	})

	if err := s.store.PutJob(ctx, job); err != nil {
		return engine.Job{}, err
	}
	return job, nil
}

// RemoveTeamMember drops a member from an active job.
func (s *Service) RemoveTeamMember(ctx context.Context, jobID, employeeID string) (engine.Job, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return engine.Job{}, err
	}
	if job.Status != engine.JobActive {
		return engine.Job{}, engine.Invalid("status", "job is not active")
	}

	team := job.Team[:0]
	found := false
	for _, m := range job.Team {
		if m.EmployeeID == employeeID {
			found = true
			continue
		}
		team = append(team, m)
	}
	if !found {
		return engine.Job{}, engine.Invalid("employeeId", "not on the team")
	}
	job.Team = team

	if err := s.store.PutJob(ctx, job); err != nil {
		return engine.Job{}, err
	}
	return job, nil
}

// MemberActuals are the real hours one team member put into a job.
type MemberActuals struct {
	EmployeeID    string  `json:"employeeId"`
	WorkedHours   float64 `json:"workedHours"`
	ProducedHours float64 `json:"producedHours"`
}

// CompleteJob settles an active job against the actual hours worked.
func (s *Service) CompleteJob(ctx context.Context, jobID string, actuals []MemberActuals) (engine.Job, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return engine.Job{}, err
	}
	if job.Status != engine.JobActive {
		return engine.Job{}, engine.Invalid("status", "job is not active")
	}

	byMember := make(map[string]MemberActuals, len(actuals))
	for _, a := range actuals {
		if a.WorkedHours < 0 || a.ProducedHours < 0 {
			return engine.Job{}, engine.Invalid("hours", "must not be negative")
		}
		byMember[a.EmployeeID] = a
	}

	var totalWorked, totalProduced float64
	for _, m := range job.Team {
		a := byMember[m.EmployeeID]
		totalWorked += a.WorkedHours
		totalProduced += a.ProducedHours
	}
	totalJobHours := totalWorked
	if totalProduced > 0 {
		totalJobHours = totalProduced
	}

	completedAt := s.now()
	period := engine.NewPeriod(job.Start, job.End)
	productionPercent := job.Formula.Production

	var results []engine.TeamResult
	actualCost := decimal.Zero

	for _, m := range job.Team {
		a := byMember[m.EmployeeID]

		revenueShare := decimal.Zero
		if totalWorked > 0 {
			revenueShare = job.LaborBudget.Mul(decimal.NewFromFloat(a.WorkedHours / totalWorked))
		}

		// Placeholders (and employees deleted since activation) settle from
		// the snapshot on the team line and never touch timesheets or history.
		onPayroll := !m.IsPlaceholder
		var emp engine.Employee
		if onPayroll {
			emp, err = s.store.GetEmployee(ctx, m.EmployeeID)
			if err != nil {
				if !engine.IsNotFound(err) {
					return engine.Job{}, err
				}
				onPayroll = false
			}
		}

		acceptsOT := m.AcceptsOvertime
		costPerHour := m.CostPerHour
		if onPayroll {
			acceptsOT = emp.AcceptsOvertime
			costPerHour = emp.CostPerHour
		}

		var load engine.DayLoad
		if onPayroll {
			load, err = s.dayLoad(ctx, m.EmployeeID)
			if err != nil {
				return engine.Job{}, err
			}
		}

		in := engine.CompletionInput{
			Period:            period,
			WorkedHours:       a.WorkedHours,
			ProducedHours:     a.ProducedHours,
			AcceptsOvertime:   acceptsOT,
			CostPerHour:       costPerHour,
			Revenue:           job.Revenue,
			ProductionPercent: productionPercent,
			TotalJobHours:     totalJobHours,
			RevenueShare:      revenueShare,
		}
		res := engine.CompleteMember(in, engine.DayCapacities(period, load))

		if onPayroll {
			if err := s.applyCompletion(ctx, emp, res); err != nil {
				return engine.Job{}, err
			}
			entry := engine.JobHistoryEntry{
				JobID:             job.ID,
				JobName:           job.Name,
				Client:            job.Client,
				Start:             job.Start,
				End:               job.End,
				Revenue:           job.Revenue,
				ProductionPercent: productionPercent,
				TotalJobHours:     totalJobHours,
				HoursWorked:       engine.RoundHours(a.WorkedHours),
				HoursProduced:     engine.RoundHours(a.ProducedHours),
				NormalHours:       res.NormalHours,
				OvertimeHours:     res.OvertimeHours,
				SalaryNormal:      res.SalaryNormal,
				SalaryOT:          res.SalaryOT,
				TotalSalary:       res.TotalSalary,
				ValueProduced:     res.ValueProduced,
				Bonus:             res.Bonus,
				MonthlyBreakdown:  res.Months,
				CompletedAt:       completedAt,
			}
			if err := s.store.AppendHistory(ctx, m.EmployeeID, entry); err != nil {
				return engine.Job{}, err
			}
		}

		// The job is charged flat worked x rate; the overtime-rated salary
		// only feeds the member's history entry. Placeholders settle at
		// their planned cost.
		memberCost := m.Cost
		if !m.IsPlaceholder {
			memberCost = engine.Round2(costPerHour.Mul(decimal.NewFromFloat(a.WorkedHours)))
		}

		results = append(results, engine.TeamResult{
			EmployeeID:      m.EmployeeID,
			Name:            m.Name,
			ContractType:    m.ContractType,
			CostPerHour:     costPerHour,
			HoursAllocated:  m.HoursAllocated,
			WorkedHours:     engine.RoundHours(a.WorkedHours),
			ProducedHours:   engine.RoundHours(a.ProducedHours),
			Efficiency:      engine.EfficiencyPercent(a.ProducedHours, a.WorkedHours),
			Cost:            memberCost,
			RevenueShare:    engine.Round2(revenueShare),
			AcceptsOvertime: acceptsOT,
			IsPlaceholder:   m.IsPlaceholder,
		})
		actualCost = actualCost.Add(memberCost)
	}

	job.Status = engine.JobCompleted
	job.CompletedAt = completedAt
	job.TeamResults = results
	job.ActualLaborCost = engine.Round2(actualCost)
	job.GrossProfit = engine.Round2(job.Revenue.Sub(actualCost))
	job.LaborProfit = engine.Round2(job.LaborBudget.Sub(actualCost))
	if job.Revenue.IsPositive() {
		margin, _ := job.GrossProfit.Div(job.Revenue).Mul(decimal.NewFromInt(100)).Round(0).Float64()
		job.MarginPercent = int(margin)
	}

	if err := s.store.PutJob(ctx, job); err != nil {
		return engine.Job{}, err
	}
	return job, nil
}

// applyCompletion writes one member's settled allocations into their
// timesheets and recomputes every affected month.
func (s *Service) applyCompletion(ctx context.Context, emp engine.Employee, res engine.CompletionResult) error {
	// Month's new revenue comes from the month split.
	monthRevenue := make(map[string]decimal.Decimal, len(res.Months))
	for _, m := range res.Months {
		monthRevenue[m.Month] = monthRevenue[m.Month].Add(m.RevenueShare)
	}

	// Group day allocations by timesheet month.
	sheets := make(map[string]*engine.Timesheet)
	ensure := func(day engine.TimePoint) (*engine.Timesheet, error) {
		key := day.MonthKey()
		if ts, ok := sheets[key]; ok {
			return ts, nil
		}
		ts, err := s.ensureTimesheet(ctx, emp.ID, day.Year(), day.Month())
		if err != nil {
			return nil, err
		}
		sheets[key] = &ts
		return &ts, nil
	}

	for _, a := range res.Allocations {
		ts, err := ensure(a.Day)
		if err != nil {
			return err
		}
		entry := ts.Days[a.Day.Day()]
		entry.Worked = engine.RoundHours(entry.Worked + a.Hours)
		entry.Produced = engine.RoundHours(entry.Produced + a.Produced)
		ts.Days[a.Day.Day()] = entry
	}

	// Months that received revenue but no day allocation still need their
	// totals refreshed.
	for _, m := range res.Months {
		first, err := engine.ParseTimePoint(m.Month + "-01")
		if err != nil {
			return err
		}
		if _, err := ensure(first); err != nil {
			return err
		}
	}

	for key, ts := range sheets {
		engine.RecomputeMonthTotals(ts, emp.AcceptsOvertime, emp.CostPerHour, monthRevenue[key])
		if err := s.store.PutTimesheet(ctx, *ts); err != nil {
			return err
		}
	}
	return nil
}
