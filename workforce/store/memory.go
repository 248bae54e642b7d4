// Package store provides the in-memory Store implementation.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/workforce-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	employees  map[string]engine.Employee
	settings   *engine.Settings
	timesheets map[tsKey]engine.Timesheet
	scenarios  map[string]engine.Scenario
	jobs       map[string]engine.Job
	history    map[string][]engine.JobHistoryEntry
}

type tsKey struct {
	EmployeeID string
	Year       int
	Month      time.Month
}

func NewMemory() *Memory {
	return &Memory{
		employees:  make(map[string]engine.Employee),
		timesheets: make(map[tsKey]engine.Timesheet),
		scenarios:  make(map[string]engine.Scenario),
		jobs:       make(map[string]engine.Job),
		history:    make(map[string][]engine.JobHistoryEntry),
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) PutEmployee(_ context.Context, e engine.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id string) (engine.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return engine.Employee{}, engine.ErrEmployeeNotFound
	}
	return e, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]engine.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) DeleteEmployee(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[id]; !ok {
		return engine.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	return nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func (m *Memory) GetSettings(_ context.Context) (engine.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return engine.DefaultSettings(), nil
	}
	return *m.settings, nil
}

func (m *Memory) PutSettings(_ context.Context, s engine.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &s
	return nil
}

// =============================================================================
// TIMESHEETS
// =============================================================================

func (m *Memory) GetTimesheet(_ context.Context, employeeID string, year int, month time.Month) (engine.Timesheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ts, ok := m.timesheets[tsKey{employeeID, year, month}]
	if !ok {
		return engine.Timesheet{}, engine.ErrTimesheetNotFound
	}
	return cloneTimesheet(ts), nil
}

func (m *Memory) PutTimesheet(_ context.Context, ts engine.Timesheet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timesheets[tsKey{ts.EmployeeID, ts.Year, ts.Month}] = cloneTimesheet(ts)
	return nil
}

func (m *Memory) ListTimesheets(_ context.Context, employeeID string) ([]engine.Timesheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []engine.Timesheet
	for k, ts := range m.timesheets {
		if k.EmployeeID == employeeID {
			out = append(out, cloneTimesheet(ts))
		}
	}
	sortTimesheets(out)
	return out, nil
}

func (m *Memory) AllTimesheets(_ context.Context) ([]engine.Timesheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.Timesheet, 0, len(m.timesheets))
	for _, ts := range m.timesheets {
		out = append(out, cloneTimesheet(ts))
	}
	sortTimesheets(out)
	return out, nil
}

// Timesheets carry a mutable day map; hand out copies so callers cannot
// mutate the store behind the lock.
func cloneTimesheet(ts engine.Timesheet) engine.Timesheet {
	days := make(map[int]engine.DayEntry, len(ts.Days))
	for d, e := range ts.Days {
		days[d] = e
	}
	ts.Days = days
	return ts
}

func sortTimesheets(list []engine.Timesheet) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].EmployeeID != list[j].EmployeeID {
			return list[i].EmployeeID < list[j].EmployeeID
		}
		if list[i].Year != list[j].Year {
			return list[i].Year < list[j].Year
		}
		return list[i].Month < list[j].Month
	})
}

// =============================================================================
// SCENARIOS
// =============================================================================

func (m *Memory) PutScenario(_ context.Context, s engine.Scenario) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios[s.ID] = s
	return nil
}

func (m *Memory) GetScenario(_ context.Context, id string) (engine.Scenario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scenarios[id]
	if !ok {
		return engine.Scenario{}, engine.ErrScenarioNotFound
	}
	return s, nil
}

func (m *Memory) ListScenarios(_ context.Context) ([]engine.Scenario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.Scenario, 0, len(m.scenarios))
	for _, s := range m.scenarios {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) DeleteScenario(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scenarios[id]; !ok {
		return engine.ErrScenarioNotFound
	}
	delete(m.scenarios, id)
	return nil
}

// =============================================================================
// JOBS
// =============================================================================

func (m *Memory) PutJob(_ context.Context, j engine.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.ID] = j
	return nil
}

func (m *Memory) GetJob(_ context.Context, id string) (engine.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	if !ok {
		return engine.Job{}, engine.ErrJobNotFound
	}
	return j, nil
}

func (m *Memory) ListJobs(_ context.Context, status engine.JobStatus) ([]engine.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []engine.Job
	for _, j := range m.jobs {
		if status == "" || j.Status == status {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActivatedAt.After(out[j].ActivatedAt) })
	return out, nil
}

// =============================================================================
// JOB HISTORY - append-only
// =============================================================================

func (m *Memory) AppendHistory(_ context.Context, employeeID string, entry engine.JobHistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[employeeID] = append(m.history[employeeID], entry)
	return nil
}

func (m *Memory) LoadHistory(_ context.Context, employeeID string) ([]engine.JobHistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.JobHistoryEntry, len(m.history[employeeID]))
	copy(out, m.history[employeeID])
	return out, nil
}

func (m *Memory) AllHistory(_ context.Context) (map[string][]engine.JobHistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]engine.JobHistoryEntry, len(m.history))
	for id, entries := range m.history {
		cp := make([]engine.JobHistoryEntry, len(entries))
		copy(cp, entries)
		out[id] = cp
	}
	return out, nil
}
