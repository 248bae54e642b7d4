/*
Package workforce is the application service over the allocation engine.

PURPOSE:
  Owns the employee/settings/timesheet/scenario/job lifecycle: it loads state
  from the Store, calls the pure calculators in the engine package, and writes
  the results back. Every public method maps to one API operation.

LIFECYCLE:
  employees + settings  ->  scenario generation (planning)
  scenario activation   ->  active job
  job completion        ->  timesheet updates + append-only job history
  history + timesheets  ->  dashboard and reports

DESIGN:
  The service holds no domain state of its own - everything round-trips
  through the Store so that restarts are free. Clock and ID generation are
  injected for tests.
*/
package workforce

import (
	"time"

	"github.com/google/uuid"
)

// Service wires the engine calculators to a Store.
type Service struct {
	store Store

	now   func() time.Time
	newID func(prefix string) string
}

func New(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: func(prefix string) string { return prefix + "_" + uuid.NewString() },
	}
}

// WithClock overrides the time source (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithIDGenerator overrides ID generation (tests).
func (s *Service) WithIDGenerator(gen func(prefix string) string) *Service {
	s.newID = gen
	return s
}
