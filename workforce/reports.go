/*
reports.go - Aggregated reporting over history, jobs and payroll

Four reports, all computed on demand (nothing cached), all taking an optional
completion-date window:
  employee-performance: completed-job record per Production employee
  job-profitability:    revenue vs actual labor cost per completed job
  overview:             company-level roll-up of both
  salary-coverage:      owner and admin payroll vs their formula revenue share
*/
package workforce

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/workforce-engine/engine"
)

// ReportFilter is an optional completion-date window. Zero endpoints are open.
type ReportFilter struct {
	Start engine.TimePoint
	End   engine.TimePoint
}

func (f ReportFilter) matches(completedAt time.Time) bool {
	day := engine.TimePointOf(completedAt)
	if !f.Start.IsZero() && day.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && day.After(f.End) {
		return false
	}
	return true
}

// EmployeePerformance is one Production employee's completed-job record.
type EmployeePerformance struct {
	EmployeeID   string              `json:"employeeId"`
	Name         string              `json:"name"`
	ContractType engine.ContractType `json:"contractType"`

	JobsCompleted int     `json:"jobsCompleted"`
	HoursWorked   float64 `json:"hoursWorked"`
	HoursProduced float64 `json:"hoursProduced"`
	Efficiency    int     `json:"efficiency"`

	TotalSalary      decimal.Decimal `json:"totalSalary"`
	RevenueGenerated decimal.Decimal `json:"revenueGenerated"`
	ValueProduced    decimal.Decimal `json:"valueProduced"`
	TotalBonus       decimal.Decimal `json:"totalBonus"`
	Difference       decimal.Decimal `json:"difference"`
	ROIPercent       int             `json:"roi"`
}

// EmployeePerformanceReport covers Production employees only (overhead
// departments never appear on job teams), most efficient first.
func (s *Service) EmployeePerformanceReport(ctx context.Context, filter ReportFilter) ([]EmployeePerformance, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}

	report := make([]EmployeePerformance, 0, len(employees))
	for _, e := range employees {
		if e.Department != engine.DeptProduction {
			continue
		}
		entries, err := s.store.LoadHistory(ctx, e.ID)
		if err != nil {
			return nil, err
		}

		perf := EmployeePerformance{
			EmployeeID:       e.ID,
			Name:             e.Name(),
			ContractType:     e.ContractType,
			TotalSalary:      decimal.Zero,
			RevenueGenerated: decimal.Zero,
			ValueProduced:    decimal.Zero,
			TotalBonus:       decimal.Zero,
		}
		for _, entry := range entries {
			if !filter.matches(entry.CompletedAt) {
				continue
			}
			perf.JobsCompleted++
			perf.HoursWorked += entry.HoursWorked
			perf.HoursProduced += entry.HoursProduced
			perf.TotalSalary = perf.TotalSalary.Add(entry.TotalSalary)
			perf.RevenueGenerated = perf.RevenueGenerated.Add(historyRevenue(entry))
			perf.ValueProduced = perf.ValueProduced.Add(entry.ValueProduced)
			perf.TotalBonus = perf.TotalBonus.Add(entry.Bonus)
		}
		perf.HoursWorked = engine.RoundHours(perf.HoursWorked)
		perf.HoursProduced = engine.RoundHours(perf.HoursProduced)
		perf.Efficiency = engine.EfficiencyPercent(perf.HoursProduced, perf.HoursWorked)
		perf.TotalSalary = engine.Round2(perf.TotalSalary)
		perf.RevenueGenerated = engine.Round2(perf.RevenueGenerated)
		perf.ValueProduced = engine.Round2(perf.ValueProduced)
		perf.TotalBonus = engine.Round2(perf.TotalBonus)
		perf.Difference = engine.Round2(perf.RevenueGenerated.Sub(perf.TotalSalary))
		perf.ROIPercent = ratioPercent(perf.Difference, perf.TotalSalary)

		report = append(report, perf)
	}

	sort.SliceStable(report, func(i, j int) bool { return report[i].Efficiency > report[j].Efficiency })
	return report, nil
}

// JobProfitability is the settled economics of one completed job.
type JobProfitability struct {
	JobID  string `json:"jobId"`
	Name   string `json:"name"`
	Client string `json:"client"`

	Revenue         decimal.Decimal `json:"revenue"`
	LaborBudget     decimal.Decimal `json:"laborBudget"`
	ActualLaborCost decimal.Decimal `json:"actualLaborCost"`
	GrossProfit     decimal.Decimal `json:"grossProfit"`
	LaborProfit     decimal.Decimal `json:"laborProfit"`
	MarginPercent   int             `json:"marginPercent"`

	TeamSize int `json:"teamSize"`
}

// JobProfitabilityReport covers completed jobs in the window, most profitable
// labor line first.
func (s *Service) JobProfitabilityReport(ctx context.Context, filter ReportFilter) ([]JobProfitability, error) {
	jobs, err := s.completedJobsIn(ctx, filter)
	if err != nil {
		return nil, err
	}

	report := make([]JobProfitability, 0, len(jobs))
	for _, j := range jobs {
		report = append(report, JobProfitability{
			JobID:           j.ID,
			Name:            j.Name,
			Client:          j.Client,
			Revenue:         j.Revenue,
			LaborBudget:     j.LaborBudget,
			ActualLaborCost: j.ActualLaborCost,
			GrossProfit:     j.GrossProfit,
			LaborProfit:     j.LaborProfit,
			MarginPercent:   j.MarginPercent,
			TeamSize:        len(j.TeamResults),
		})
	}
	sort.SliceStable(report, func(i, j int) bool {
		return report[i].LaborProfit.GreaterThan(report[j].LaborProfit)
	})
	return report, nil
}

// Overview is the company-level roll-up.
type Overview struct {
	EmployeeCount int `json:"employeeCount"`
	ActiveJobs    int `json:"activeJobs"`
	CompletedJobs int `json:"completedJobs"`

	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalLaborCost   decimal.Decimal `json:"totalLaborCost"`
	TotalProfit      decimal.Decimal `json:"totalProfit"`
	AvgMarginPercent int             `json:"avgMargin"`

	MonthlyPayroll decimal.Decimal `json:"monthlyPayroll"`
}

// OverviewReport aggregates completed jobs in the window plus the current
// payroll run rate.
func (s *Service) OverviewReport(ctx context.Context, filter ReportFilter) (Overview, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return Overview{}, err
	}
	active, err := s.store.ListJobs(ctx, engine.JobActive)
	if err != nil {
		return Overview{}, err
	}
	completed, err := s.completedJobsIn(ctx, filter)
	if err != nil {
		return Overview{}, err
	}

	ov := Overview{
		EmployeeCount:  len(employees),
		ActiveJobs:     len(active),
		CompletedJobs:  len(completed),
		TotalRevenue:   decimal.Zero,
		TotalLaborCost: decimal.Zero,
		MonthlyPayroll: decimal.Zero,
	}
	marginSum := 0
	for _, j := range completed {
		ov.TotalRevenue = ov.TotalRevenue.Add(j.Revenue)
		ov.TotalLaborCost = ov.TotalLaborCost.Add(j.ActualLaborCost)
		marginSum += j.MarginPercent
	}
	if len(completed) > 0 {
		ov.AvgMarginPercent = marginSum / len(completed)
	}
	for _, e := range employees {
		ov.MonthlyPayroll = ov.MonthlyPayroll.Add(e.TotalMonthlyCost)
	}
	ov.TotalProfit = engine.Round2(ov.TotalRevenue.Sub(ov.TotalLaborCost))
	ov.MonthlyPayroll = engine.Round2(ov.MonthlyPayroll)
	return ov, nil
}

// SalaryCoverage answers whether an overhead category's payroll is covered by
// its formula share of the completed-job revenue in the window.
type SalaryCoverage struct {
	Category string  `json:"category"` // "owner" or "admin"
	Percent  float64 `json:"formulaPercent"`

	MonthlySalaries  decimal.Decimal `json:"monthlySalaries"`
	AllocatedRevenue decimal.Decimal `json:"allocatedRevenue"`
	CoveragePercent  int             `json:"coveragePercent"`
}

// SalaryCoverageReport compares the Owner and Admin+TESA payrolls against the
// owner% and admin% slices of completed-job revenue.
func (s *Service) SalaryCoverageReport(ctx context.Context, filter ReportFilter) ([]SalaryCoverage, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.completedJobsIn(ctx, filter)
	if err != nil {
		return nil, err
	}

	revenue := decimal.Zero
	for _, j := range completed {
		revenue = revenue.Add(j.Revenue)
	}

	ownerCost := decimal.Zero
	adminCost := decimal.Zero
	for _, e := range employees {
		switch e.Department {
		case engine.DeptOwner:
			ownerCost = ownerCost.Add(e.TotalMonthlyCost)
		case engine.DeptAdmin, engine.DeptTESA:
			adminCost = adminCost.Add(e.TotalMonthlyCost)
		}
	}

	row := func(category string, pct float64, cost decimal.Decimal) SalaryCoverage {
		allocated := revenue.Mul(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(100))
		return SalaryCoverage{
			Category:         category,
			Percent:          pct,
			MonthlySalaries:  engine.Round2(cost),
			AllocatedRevenue: engine.Round2(allocated),
			CoveragePercent:  ratioPercent(allocated, cost),
		}
	}
	return []SalaryCoverage{
		row("owner", settings.Formula.Owner, ownerCost),
		row("admin", settings.Formula.Admin, adminCost),
	}, nil
}

// completedJobsIn filters completed jobs by the completion-date window.
func (s *Service) completedJobsIn(ctx context.Context, filter ReportFilter) ([]engine.Job, error) {
	jobs, err := s.store.ListJobs(ctx, engine.JobCompleted)
	if err != nil {
		return nil, err
	}
	out := jobs[:0]
	for _, j := range jobs {
		if filter.matches(j.CompletedAt) {
			out = append(out, j)
		}
	}
	return out, nil
}

// historyRevenue is an entry's revenue share: the sum of its month slices, or
// the labor-budget estimate for legacy entries without a breakdown.
func historyRevenue(entry engine.JobHistoryEntry) decimal.Decimal {
	if len(entry.MonthlyBreakdown) > 0 {
		total := decimal.Zero
		for _, share := range entry.MonthlyBreakdown {
			total = total.Add(share.RevenueShare)
		}
		return total
	}
	if entry.TotalJobHours <= 0 {
		return decimal.Zero
	}
	budget := entry.Revenue.Mul(decimal.NewFromFloat(entry.ProductionPercent)).
		Div(decimal.NewFromInt(100))
	return budget.Mul(decimal.NewFromFloat(entry.HoursWorked / entry.TotalJobHours))
}

// ratioPercent is num/den as a rounded percentage, zero when den is not
// positive.
func ratioPercent(num, den decimal.Decimal) int {
	if !den.IsPositive() {
		return 0
	}
	pct, _ := num.Div(den).Mul(decimal.NewFromInt(100)).Round(0).Float64()
	return int(pct)
}
