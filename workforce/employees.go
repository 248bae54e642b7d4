/*
employees.go - Employee CRUD, cost preview, availability and history

INVARIANTS:
  - Cached cost figures on an employee are recomputed from CURRENT settings on
    every create and update, and when settings change (settings.go). They are
    never read from the client.
  - Deleting an employee removes the employee and their timesheets but leaves
    job history untouched: completed-job records are immutable snapshots.
*/
package workforce

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/warp/workforce-engine/engine"
)

// EmployeeInput carries the client-editable employee fields.
type EmployeeInput struct {
	FirstName  string              `json:"firstName"`
	LastName   string              `json:"lastName"`
	Department engine.Department   `json:"department"`

	ContractType  engine.ContractType  `json:"contractType"`
	PaymentModel  engine.PaymentModel  `json:"paymentModel"`
	NetAmount     decimal.Decimal      `json:"netAmount"`
	HoursPerMonth float64              `json:"hoursPerMonth"`

	AcceptsOvertime bool `json:"acceptsOvertime"`
}

func (in EmployeeInput) validate() error {
	if in.FirstName == "" && in.LastName == "" {
		return engine.Invalid("firstName", "employee needs a name")
	}
	if in.NetAmount.IsNegative() {
		return engine.Invalid("netAmount", "must not be negative")
	}
	switch in.ContractType {
	case engine.ContractPermanent, engine.ContractTemporary, engine.ContractDaily, engine.ContractOffBooks:
	default:
		return engine.Invalid("contractType", "unknown contract type")
	}
	return nil
}

// CreateEmployee validates the input, computes the cost figures under current
// settings and persists the new employee.
func (s *Service) CreateEmployee(ctx context.Context, in EmployeeInput) (engine.Employee, error) {
	if err := in.validate(); err != nil {
		return engine.Employee{}, err
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return engine.Employee{}, err
	}

	e := engine.Employee{
		ID:              s.newID("emp"),
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Department:      in.Department,
		ContractType:    in.ContractType,
		PaymentModel:    in.PaymentModel,
		NetAmount:       in.NetAmount,
		HoursPerMonth:   in.HoursPerMonth,
		AcceptsOvertime: in.AcceptsOvertime,
		CreatedAt:       s.now(),
	}
	applyCosts(&e, settings)

	if err := s.store.PutEmployee(ctx, e); err != nil {
		return engine.Employee{}, err
	}
	return e, nil
}

// UpdateEmployee replaces the editable fields and recomputes costs.
func (s *Service) UpdateEmployee(ctx context.Context, id string, in EmployeeInput) (engine.Employee, error) {
	if err := in.validate(); err != nil {
		return engine.Employee{}, err
	}
	e, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return engine.Employee{}, err
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return engine.Employee{}, err
	}

	e.FirstName = in.FirstName
	e.LastName = in.LastName
	e.Department = in.Department
	e.ContractType = in.ContractType
	e.PaymentModel = in.PaymentModel
	e.NetAmount = in.NetAmount
	e.HoursPerMonth = in.HoursPerMonth
	e.AcceptsOvertime = in.AcceptsOvertime
	applyCosts(&e, settings)

	if err := s.store.PutEmployee(ctx, e); err != nil {
		return engine.Employee{}, err
	}
	return e, nil
}

func (s *Service) GetEmployee(ctx context.Context, id string) (engine.Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

func (s *Service) ListEmployees(ctx context.Context) ([]engine.Employee, error) {
	return s.store.ListEmployees(ctx)
}

// DeleteEmployee removes the employee record only. Timesheets and job
// history survive so past months stay reportable.
func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	return s.store.DeleteEmployee(ctx, id)
}

// PreviewCost computes the cost figures for a hypothetical employee without
// persisting anything (the "what would this hire cost" form).
func (s *Service) PreviewCost(ctx context.Context, in EmployeeInput) (engine.CostBreakdown, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return engine.CostBreakdown{}, err
	}
	probe := engine.Employee{
		ContractType:  in.ContractType,
		PaymentModel:  in.PaymentModel,
		NetAmount:     in.NetAmount,
		HoursPerMonth: in.HoursPerMonth,
	}
	return engine.CostFor(probe, settings), nil
}

// EmployeeAvailability reports the remaining allocatable hours for one
// employee between two dates, subtracting hours already committed to jobs.
func (s *Service) EmployeeAvailability(ctx context.Context, employeeID string, start, end engine.TimePoint) (engine.Availability, error) {
	e, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return engine.Availability{}, err
	}
	period := engine.NewPeriod(start, end)
	if !period.Valid() {
		return engine.Availability{}, engine.ErrInvalidPeriod
	}
	load, err := s.dayLoad(ctx, employeeID)
	if err != nil {
		return engine.Availability{}, err
	}
	return engine.AvailabilityFor(e.AcceptsOvertime, period, load), nil
}

// EmployeeHistory returns the append-only completion records, newest first.
func (s *Service) EmployeeHistory(ctx context.Context, employeeID string) ([]engine.JobHistoryEntry, error) {
	if _, err := s.store.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	entries, err := s.store.LoadHistory(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

func applyCosts(e *engine.Employee, settings engine.Settings) {
	costs := engine.CostFor(*e, settings)
	e.CostPerHour = costs.CostPerHour
	e.CostPerDay = costs.CostPerDay
	e.TotalMonthlyCost = costs.TotalMonthlyCost
}

// historyEfficiency is the produced-to-worked ratio across an employee's
// whole timesheet history; 100 when there is nothing to judge by.
func (s *Service) historyEfficiency(ctx context.Context, employeeID string) (int, error) {
	sheets, err := s.store.ListTimesheets(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	var worked, produced float64
	for _, ts := range sheets {
		worked += ts.Totals.WorkedHours
		produced += ts.Totals.ProducedHours
	}
	return engine.EfficiencyPercent(produced, worked), nil
}
