package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/warp/workforce-engine/engine"
)

// CompletionReportPDF renders the settlement of a completed job: job details,
// the financial summary and one block per team member. symbol is the currency
// symbol from settings.
func CompletionReportPDF(w io.Writer, job engine.Job, symbol string) error {
	if job.Status != engine.JobCompleted {
		return engine.Invalid("status", "job is not completed")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Job Completion Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	section := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
		pdf.Ln(1)
		pdf.SetFont("Arial", "", 10)
	}
	line := func(label, value string) {
		pdf.CellFormat(45, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
	}
	money := func(d fmt.Stringer) string { return d.String() + " " + symbol }

	section("Job Details")
	line("Job Name:", job.Name)
	line("Client:", orDash(job.Client))
	line("Period:", job.Start.String()+" to "+job.End.String())
	line("Completed:", job.CompletedAt.Format("2006-01-02 15:04"))
	pdf.Ln(4)

	section("Financial Summary")
	line("Revenue:", money(job.Revenue))
	line("Labor Budget:", money(job.LaborBudget))
	line("Actual Cost:", money(job.ActualLaborCost))
	line("Labor Profit:", money(job.LaborProfit))
	line("Gross Profit:", money(job.GrossProfit))
	line("Margin:", fmt.Sprintf("%d%%", job.MarginPercent))
	pdf.Ln(4)

	section("Team Performance")
	for _, m := range job.TeamResults {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, m.Name, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		line("  Contract:", orDash(string(m.ContractType)))
		line("  Hours Worked:", hours(m.WorkedHours)+"h")
		line("  Hours Produced:", hours(m.ProducedHours)+"h")
		line("  Efficiency:", fmt.Sprintf("%d%%", m.Efficiency))
		line("  Cost:", money(m.Cost))
		line("  Revenue Share:", money(m.RevenueShare))
		pdf.Ln(2)
	}

	return pdf.Output(w)
}
