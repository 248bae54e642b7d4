/*
store.go - Persistence interfaces for the workforce service

PURPOSE:
  Defines the boundary between the domain logic and the database. The service
  never touches SQL; it speaks these interfaces, so the same logic runs over
  SQLite in production and the in-memory store in tests.

KEY INTERFACES:
  EmployeeStore:   Employee CRUD (deletes remove only the employee record;
                   timesheets and job history survive - see below)
  SettingsStore:   The single company-wide settings row
  TimesheetStore:  One record per employee-month, keyed (employeeID, year, month)
  ScenarioStore:   Saved staffing plans awaiting activation
  JobStore:        Activated and completed jobs
  JobHistoryStore: Append-only per-employee completion records

HISTORY IS APPEND-ONLY:
  JobHistoryStore has Append and Load but no update or delete. Completed-job
  records survive employee deletion so past dashboards stay truthful.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: production SQLite
  - workforce/store/memory.go: in-memory for testing

SEE ALSO:
  - service.go: the service wired over these interfaces
*/
package workforce

import (
	"context"
	"time"

	"github.com/warp/workforce-engine/engine"
)

// =============================================================================
// STORE INTERFACES
// =============================================================================

// EmployeeStore persists employees.
type EmployeeStore interface {
	PutEmployee(ctx context.Context, e engine.Employee) error
	GetEmployee(ctx context.Context, id string) (engine.Employee, error)
	ListEmployees(ctx context.Context) ([]engine.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// SettingsStore persists the single settings record. Get on an empty store
// returns the defaults rather than an error.
type SettingsStore interface {
	GetSettings(ctx context.Context) (engine.Settings, error)
	PutSettings(ctx context.Context, s engine.Settings) error
}

// TimesheetStore persists employee-month timesheets.
type TimesheetStore interface {
	// GetTimesheet returns engine.ErrTimesheetNotFound when the month has
	// never been materialized for the employee.
	GetTimesheet(ctx context.Context, employeeID string, year int, month time.Month) (engine.Timesheet, error)
	PutTimesheet(ctx context.Context, ts engine.Timesheet) error
	// ListTimesheets returns every stored month for one employee.
	ListTimesheets(ctx context.Context, employeeID string) ([]engine.Timesheet, error)
	// AllTimesheets returns every stored timesheet (dashboard aggregation).
	AllTimesheets(ctx context.Context) ([]engine.Timesheet, error)
}

// ScenarioStore persists saved staffing plans.
type ScenarioStore interface {
	PutScenario(ctx context.Context, s engine.Scenario) error
	GetScenario(ctx context.Context, id string) (engine.Scenario, error)
	ListScenarios(ctx context.Context) ([]engine.Scenario, error)
	DeleteScenario(ctx context.Context, id string) error
}

// JobStore persists active and completed jobs.
type JobStore interface {
	PutJob(ctx context.Context, j engine.Job) error
	GetJob(ctx context.Context, id string) (engine.Job, error)
	ListJobs(ctx context.Context, status engine.JobStatus) ([]engine.Job, error)
}

// JobHistoryStore is the append-only record of what each employee earned on
// each completed job.
type JobHistoryStore interface {
	AppendHistory(ctx context.Context, employeeID string, entry engine.JobHistoryEntry) error
	LoadHistory(ctx context.Context, employeeID string) ([]engine.JobHistoryEntry, error)
	// AllHistory returns every employee's history keyed by employee ID.
	AllHistory(ctx context.Context) (map[string][]engine.JobHistoryEntry, error)
}

// Store bundles every persistence concern the service needs. The SQLite and
// memory implementations both satisfy it.
type Store interface {
	EmployeeStore
	SettingsStore
	TimesheetStore
	ScenarioStore
	JobStore
	JobHistoryStore
}
