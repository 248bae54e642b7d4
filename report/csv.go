/*
Package report renders dashboards, history and job results into the files
the office actually hands around: CSV sheets for the accountant and a PDF
completion report per finished job.
*/
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/warp/workforce-engine/engine"
	"github.com/warp/workforce-engine/workforce"
)

// EmployeeSummaryCSV writes one line per employee with the month's cost,
// revenue and ROI figures.
func EmployeeSummaryCSV(w io.Writer, rows []workforce.DashboardRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Name", "Contract Type", "Hours Worked", "Hours Produced", "Efficiency",
		"Total Cost", "Revenue Generated", "ROI", "Difference",
	}); err != nil {
		return err
	}

	for _, r := range rows {
		roi := 0
		if r.Salary.IsPositive() {
			pct, _ := r.RevenueGenerated.Div(r.Salary).Mul(decimal.NewFromInt(100)).Round(0).Float64()
			roi = int(pct)
		}
		record := []string{
			r.Name,
			string(r.ContractType),
			hours(r.HoursWorked),
			hours(r.HoursProduced),
			fmt.Sprintf("%d%%", r.Efficiency),
			r.Salary.StringFixed(2),
			r.RevenueGenerated.StringFixed(2),
			fmt.Sprintf("%d%%", roi),
			r.Difference.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EmployeeDetailCSV writes one line per employee per completed job.
// Employees with no history still get a dashed line so the sheet lists
// everybody.
func EmployeeDetailCSV(w io.Writer, employees []engine.Employee, history map[string][]engine.JobHistoryEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Employee", "Contract Type", "Job Name", "Client", "Period",
		"Revenue", "Production %", "Hours Worked", "Hours Produced", "Efficiency",
		"Normal Hours", "OT Hours", "Normal Salary", "OT Salary", "Total Salary",
		"Value Produced", "Bonus",
	}); err != nil {
		return err
	}

	for _, e := range employees {
		entries := history[e.ID]
		if len(entries) == 0 {
			record := []string{e.Name(), string(e.ContractType)}
			for i := 0; i < 15; i++ {
				record = append(record, "-")
			}
			if err := cw.Write(record); err != nil {
				return err
			}
			continue
		}

		for _, entry := range entries {
			record := []string{
				e.Name(),
				string(e.ContractType),
				entry.JobName,
				orDash(entry.Client),
				entry.Start.String() + " - " + entry.End.String(),
				entry.Revenue.StringFixed(2),
				fmt.Sprintf("%.0f%%", entry.ProductionPercent),
				hours(entry.HoursWorked),
				hours(entry.HoursProduced),
				fmt.Sprintf("%d%%", engine.EfficiencyPercent(entry.HoursProduced, entry.HoursWorked)),
				hours(entry.NormalHours),
				hours(entry.OvertimeHours),
				entry.SalaryNormal.StringFixed(2),
				entry.SalaryOT.StringFixed(2),
				entry.TotalSalary.StringFixed(2),
				entry.ValueProduced.StringFixed(2),
				entry.Bonus.StringFixed(2),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// JobsCSV writes one line per completed job with its settled economics.
func JobsCSV(w io.Writer, jobs []workforce.JobProfitability) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Job", "Client", "Revenue", "Labor Budget", "Actual Cost",
		"Labor Profit", "Gross Profit", "Margin",
	}); err != nil {
		return err
	}

	for _, j := range jobs {
		record := []string{
			j.Name,
			orDash(j.Client),
			j.Revenue.StringFixed(2),
			j.LaborBudget.StringFixed(2),
			j.ActualLaborCost.StringFixed(2),
			j.LaborProfit.StringFixed(2),
			j.GrossProfit.StringFixed(2),
			fmt.Sprintf("%d%%", j.MarginPercent),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func hours(h float64) string { return fmt.Sprintf("%g", h) }

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
