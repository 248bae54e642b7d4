/*
dashboard.go - The month-at-a-glance employee ROI view

Each row answers "what did this employee cost us and bring in this month?".
The primary source is job history: completed jobs sliced by month give exact
salary, revenue share and bonus figures. Employees with no completed-job
slice in the month fall back to their timesheet totals, so hours recorded
without a finished job still show up.
*/
package workforce

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/workforce-engine/engine"
)

// DashboardRow is one employee's month.
type DashboardRow struct {
	EmployeeID   string              `json:"employeeId"`
	Name         string              `json:"name"`
	Department   engine.Department   `json:"department"`
	ContractType engine.ContractType `json:"contractType"`

	HoursWorked   float64 `json:"hoursWorked"`
	HoursProduced float64 `json:"hoursProduced"`
	Efficiency    int     `json:"efficiency"`

	Salary           decimal.Decimal `json:"salary"`
	RevenueGenerated decimal.Decimal `json:"revenueGenerated"`
	Bonus            decimal.Decimal `json:"bonus"`
	Difference       decimal.Decimal `json:"difference"`

	// FromHistory is true when the row came from completed-job slices rather
	// than the timesheet fallback.
	FromHistory bool `json:"fromHistory"`
}

// Dashboard is the aggregated month view.
type Dashboard struct {
	Month string         `json:"month"` // YYYY-MM
	Rows  []DashboardRow `json:"employees"`

	TotalSalaries decimal.Decimal `json:"totalSalaries"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalProfit   decimal.Decimal `json:"totalProfit"`
	EmployeeCount int             `json:"employeeCount"`

	// Budget side: labor budgets of jobs currently running, labor budgets of
	// jobs settled in this month, and what remains of the latter after the
	// month's salaries.
	BudgetFromActive    decimal.Decimal `json:"budgetFromActive"`
	BudgetFromCompleted decimal.Decimal `json:"budgetFromCompleted"`
	Balance             decimal.Decimal `json:"balance"`
	ActiveJobCount      int             `json:"activeJobs"`
	CompletedJobCount   int             `json:"completedJobs"`
}

// DashboardFor builds the view for one "YYYY-MM" month.
func (s *Service) DashboardFor(ctx context.Context, month string) (Dashboard, error) {
	if _, err := engine.ParseTimePoint(month + "-01"); err != nil {
		return Dashboard{}, engine.Invalid("month", "want YYYY-MM")
	}

	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	history, err := s.store.AllHistory(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	dash := Dashboard{Month: month, EmployeeCount: len(employees)}
	dash.TotalSalaries = decimal.Zero
	dash.TotalRevenue = decimal.Zero

	for _, e := range employees {
		row := DashboardRow{
			EmployeeID:   e.ID,
			Name:         e.Name(),
			Department:   e.Department,
			ContractType: e.ContractType,
			Salary:       decimal.Zero,
		}

		var worked, produced float64
		salary := decimal.Zero
		revenue := decimal.Zero
		bonus := decimal.Zero

		for _, entry := range history[e.ID] {
			// Legacy entries without a breakdown count whole in their
			// completion month, with the revenue share estimated from the
			// labor budget.
			if len(entry.MonthlyBreakdown) == 0 {
				if engine.TimePointOf(entry.CompletedAt).MonthKey() != month {
					continue
				}
				row.FromHistory = true
				worked += entry.HoursWorked
				produced += entry.HoursProduced
				salary = salary.Add(entry.TotalSalary)
				revenue = revenue.Add(historyRevenue(entry))
				bonus = bonus.Add(entry.Bonus)
				continue
			}
			for _, share := range entry.MonthlyBreakdown {
				if share.Month != month {
					continue
				}
				row.FromHistory = true
				worked += share.HoursWorked
				produced += share.HoursProduced
				salary = salary.Add(share.TotalSalary)
				revenue = revenue.Add(share.RevenueShare)
				bonus = bonus.Add(share.Bonus)
			}
		}

		if !row.FromHistory {
			year, mon, _ := parseMonthKey(month)
			ts, err := s.store.GetTimesheet(ctx, e.ID, year, mon)
			if err == nil {
				worked = ts.Totals.WorkedHours
				produced = ts.Totals.ProducedHours
				salary = ts.Totals.TotalCost
				revenue = ts.Totals.RevenueGenerated
			} else if !engine.IsNotFound(err) {
				return Dashboard{}, err
			}
		}

		row.HoursWorked = engine.RoundHours(worked)
		row.HoursProduced = engine.RoundHours(produced)
		row.Efficiency = engine.EfficiencyPercent(produced, worked)
		row.Salary = engine.Round2(salary)
		row.RevenueGenerated = engine.Round2(revenue)
		row.Bonus = engine.Round2(bonus)
		row.Difference = engine.Round2(revenue.Sub(salary))

		dash.Rows = append(dash.Rows, row)
		dash.TotalSalaries = dash.TotalSalaries.Add(row.Salary)
		dash.TotalRevenue = dash.TotalRevenue.Add(row.RevenueGenerated)
	}

	dash.TotalProfit = engine.Round2(dash.TotalRevenue.Sub(dash.TotalSalaries))

	active, err := s.store.ListJobs(ctx, engine.JobActive)
	if err != nil {
		return Dashboard{}, err
	}
	completed, err := s.store.ListJobs(ctx, engine.JobCompleted)
	if err != nil {
		return Dashboard{}, err
	}
	dash.BudgetFromActive = decimal.Zero
	dash.BudgetFromCompleted = decimal.Zero
	for _, j := range active {
		dash.BudgetFromActive = dash.BudgetFromActive.Add(j.LaborBudget)
	}
	dash.ActiveJobCount = len(active)
	for _, j := range completed {
		if engine.TimePointOf(j.CompletedAt).MonthKey() != month {
			continue
		}
		dash.BudgetFromCompleted = dash.BudgetFromCompleted.Add(j.LaborBudget)
		dash.CompletedJobCount++
	}
	dash.BudgetFromActive = engine.Round2(dash.BudgetFromActive)
	dash.BudgetFromCompleted = engine.Round2(dash.BudgetFromCompleted)
	dash.Balance = engine.Round2(dash.BudgetFromCompleted.Sub(dash.TotalSalaries))
	return dash, nil
}

// AvailableMonths lists every month that has timesheet or history data,
// newest first.
func (s *Service) AvailableMonths(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)

	sheets, err := s.store.AllTimesheets(ctx)
	if err != nil {
		return nil, err
	}
	for _, ts := range sheets {
		seen[ts.MonthKey()] = true
	}

	history, err := s.store.AllHistory(ctx)
	if err != nil {
		return nil, err
	}
	for _, entries := range history {
		for _, entry := range entries {
			if len(entry.MonthlyBreakdown) == 0 {
				seen[engine.TimePointOf(entry.CompletedAt).MonthKey()] = true
				continue
			}
			for _, share := range entry.MonthlyBreakdown {
				seen[share.Month] = true
			}
		}
	}

	months := make([]string, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months, nil
}

// parseMonthKey splits a "YYYY-MM" key.
func parseMonthKey(month string) (int, time.Month, error) {
	tp, err := engine.ParseTimePoint(month + "-01")
	if err != nil {
		return 0, 0, engine.Invalid("month", "want YYYY-MM")
	}
	return tp.Year(), tp.Month(), nil
}
