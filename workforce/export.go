/*
export.go - Full-state JSON backup and restore

The backup is the whole store serialized: employees, settings, timesheets,
scenarios, jobs and history. Import replaces nothing selectively - it writes
every record it carries on top of the current state, which is how the
original desktop app restored from file.
*/
package workforce

import (
	"context"
	"time"

	"github.com/warp/workforce-engine/engine"
)

// Backup is the serialized full state.
type Backup struct {
	ExportedAt time.Time `json:"exportedAt"`
	Version    int       `json:"version"`

	Settings   engine.Settings                      `json:"settings"`
	Employees  []engine.Employee                    `json:"employees"`
	Timesheets []engine.Timesheet                   `json:"timesheets"`
	Scenarios  []engine.Scenario                    `json:"scenarios"`
	Jobs       []engine.Job                         `json:"jobs"`
	History    map[string][]engine.JobHistoryEntry  `json:"jobHistory"`
}

const backupVersion = 1

// Export snapshots the whole store.
func (s *Service) Export(ctx context.Context) (Backup, error) {
	b := Backup{ExportedAt: s.now(), Version: backupVersion}
	var err error

	if b.Settings, err = s.store.GetSettings(ctx); err != nil {
		return Backup{}, err
	}
	if b.Employees, err = s.store.ListEmployees(ctx); err != nil {
		return Backup{}, err
	}
	if b.Timesheets, err = s.store.AllTimesheets(ctx); err != nil {
		return Backup{}, err
	}
	if b.Scenarios, err = s.store.ListScenarios(ctx); err != nil {
		return Backup{}, err
	}
	if b.Jobs, err = s.store.ListJobs(ctx, ""); err != nil {
		return Backup{}, err
	}
	if b.History, err = s.store.AllHistory(ctx); err != nil {
		return Backup{}, err
	}
	return b, nil
}

// Import writes every record in the backup into the store.
func (s *Service) Import(ctx context.Context, b Backup) error {
	if b.Version != backupVersion {
		return engine.Invalid("version", "unsupported backup version")
	}

	if err := s.store.PutSettings(ctx, b.Settings); err != nil {
		return err
	}
	for _, e := range b.Employees {
		if err := s.store.PutEmployee(ctx, e); err != nil {
			return err
		}
	}
	for _, ts := range b.Timesheets {
		if err := s.store.PutTimesheet(ctx, ts); err != nil {
			return err
		}
	}
	for _, sc := range b.Scenarios {
		if err := s.store.PutScenario(ctx, sc); err != nil {
			return err
		}
	}
	for _, j := range b.Jobs {
		if err := s.store.PutJob(ctx, j); err != nil {
			return err
		}
	}
	for employeeID, entries := range b.History {
		for _, entry := range entries {
			if err := s.store.AppendHistory(ctx, employeeID, entry); err != nil {
				return err
			}
		}
	}
	return nil
}
