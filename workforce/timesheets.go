/*
timesheets.go - Lazy employee-month timesheets and the day-load view

Timesheet months materialize on first access: reading a month that was never
stored creates it with standard hours pre-seeded and persists it, so the UI
always sees a full grid. The day-load closure is how the engine's availability
and vessel-fill calculators see hours already committed by other jobs.
*/
package workforce

import (
	"context"
	"errors"
	"time"

	"github.com/warp/workforce-engine/engine"
)

// Timesheet returns the employee's sheet for a month, creating and persisting
// it on first access.
func (s *Service) Timesheet(ctx context.Context, employeeID string, year int, month time.Month) (engine.Timesheet, error) {
	if _, err := s.store.GetEmployee(ctx, employeeID); err != nil {
		return engine.Timesheet{}, err
	}
	return s.ensureTimesheet(ctx, employeeID, year, month)
}

// EmployeeTimesheets returns every stored month for one employee, oldest first.
func (s *Service) EmployeeTimesheets(ctx context.Context, employeeID string) ([]engine.Timesheet, error) {
	if _, err := s.store.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.store.ListTimesheets(ctx, employeeID)
}

func (s *Service) ensureTimesheet(ctx context.Context, employeeID string, year int, month time.Month) (engine.Timesheet, error) {
	ts, err := s.store.GetTimesheet(ctx, employeeID, year, month)
	if err == nil {
		return ts, nil
	}
	if !errors.Is(err, engine.ErrTimesheetNotFound) {
		return engine.Timesheet{}, err
	}
	ts = engine.NewTimesheet(employeeID, year, month)
	if err := s.store.PutTimesheet(ctx, ts); err != nil {
		return engine.Timesheet{}, err
	}
	return ts, nil
}

// dayLoad builds the worked-hours lookup for one employee from every stored
// timesheet month. Days with no record report zero.
func (s *Service) dayLoad(ctx context.Context, employeeID string) (engine.DayLoad, error) {
	sheets, err := s.store.ListTimesheets(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	worked := make(map[string]float64)
	for _, ts := range sheets {
		for day, entry := range ts.Days {
			if entry.Worked > 0 {
				worked[engine.NewTimePoint(ts.Year, ts.Month, day).String()] = entry.Worked
			}
		}
	}
	return func(day engine.TimePoint) float64 { return worked[day.String()] }, nil
}
