/*
settings.go - Company settings and the cost recompute they trigger

Tax rates feed every cached cost figure, so saving settings rewrites the cost
fields of every employee. Historical data (timesheets, history) is NOT
recomputed; see the note in engine/aggregate.go about current-rate totals.
*/
package workforce

import (
	"context"

	"github.com/warp/workforce-engine/engine"
)

func (s *Service) Settings(ctx context.Context) (engine.Settings, error) {
	return s.store.GetSettings(ctx)
}

// UpdateSettings persists the settings and refreshes every employee's cached
// cost figures under the new rates.
func (s *Service) UpdateSettings(ctx context.Context, settings engine.Settings) (engine.Settings, error) {
	if settings.EmployerTax < 0 || settings.DividendTax < 0 || settings.CATax < 0 {
		return engine.Settings{}, engine.Invalid("taxes", "must not be negative")
	}
	if err := s.store.PutSettings(ctx, settings); err != nil {
		return engine.Settings{}, err
	}

	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return engine.Settings{}, err
	}
	for _, e := range employees {
		applyCosts(&e, settings)
		if err := s.store.PutEmployee(ctx, e); err != nil {
			return engine.Settings{}, err
		}
	}
	return settings, nil
}
