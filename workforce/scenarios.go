/*
scenarios.go - Staffing plan generation and the saved-scenario lifecycle

Candidates are Production employees only: Owner/Admin/TESA overhead is paid
out of the non-labor formula share and never appears on a job team. Each
candidate carries availability for the job period (hours other jobs already
took are gone) and an efficiency score from their full timesheet history.
*/
package workforce

import (
	"context"

	"github.com/warp/workforce-engine/engine"
)

// GenerateScenarios builds the competing staffing plans for a prospective job.
// A zero-value formula falls back to the company formula from settings.
func (s *Service) GenerateScenarios(ctx context.Context, params engine.JobParams) (engine.PlanResult, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return engine.PlanResult{}, err
	}
	if params.Formula == (engine.Formula{}) {
		params.Formula = settings.Formula
	}

	period := engine.NewPeriod(params.Start, params.End)
	if !period.Valid() {
		return engine.PlanResult{}, engine.ErrInvalidPeriod
	}

	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return engine.PlanResult{}, err
	}

	var candidates []engine.Candidate
	for _, e := range employees {
		if e.Department != engine.DeptProduction {
			continue
		}
		load, err := s.dayLoad(ctx, e.ID)
		if err != nil {
			return engine.PlanResult{}, err
		}
		efficiency, err := s.historyEfficiency(ctx, e.ID)
		if err != nil {
			return engine.PlanResult{}, err
		}
		candidates = append(candidates, engine.Candidate{
			Employee: e,
			Costs: engine.CostBreakdown{
				CostPerHour:      e.CostPerHour,
				CostPerDay:       e.CostPerDay,
				TotalMonthlyCost: e.TotalMonthlyCost,
			},
			Efficiency:   efficiency,
			Availability: engine.AvailabilityFor(e.AcceptsOvertime, period, load),
		})
	}

	return engine.Plan(params, candidates)
}

// SaveScenario persists a generated plan the user picked, in planning status.
func (s *Service) SaveScenario(ctx context.Context, params engine.JobParams, selected engine.StaffingPlan) (engine.Scenario, error) {
	period := engine.NewPeriod(params.Start, params.End)
	if !period.Valid() {
		return engine.Scenario{}, engine.ErrInvalidPeriod
	}
	if len(selected.Team) == 0 {
		return engine.Scenario{}, engine.Invalid("selectedScenario", "plan has no team")
	}

	span := engine.SpanOf(period)
	totalDays := span.TotalDays
	if params.EffectiveDays > 0 {
		totalDays = params.EffectiveDays
	}

	sc := engine.Scenario{
		ID:          s.newID("scenario"),
		JobDetails:  params,
		LaborBudget: engine.Round2(engine.LaborBudget(params.Revenue, params.Formula)),
		TotalDays:   totalDays,
		WorkingDays: span.WorkingDays,
		WeekendDays: span.WeekendDays,
		Selected:    selected,
		Status:      engine.ScenarioPlanning,
		CreatedAt:   s.now(),
	}
	if err := s.store.PutScenario(ctx, sc); err != nil {
		return engine.Scenario{}, err
	}
	return sc, nil
}

// ListScenarios returns saved scenarios, newest first.
func (s *Service) ListScenarios(ctx context.Context) ([]engine.Scenario, error) {
	return s.store.ListScenarios(ctx)
}

func (s *Service) DeleteScenario(ctx context.Context, id string) error {
	return s.store.DeleteScenario(ctx, id)
}
