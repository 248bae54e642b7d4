/*
demo.go - Demo dataset loader for testing and demonstrations

PURPOSE:
  Populates the store with a realistic small shipyard crew so a fresh
  install has something to click through: a mix of contract types, one
  generated-and-activated job, and default settings.

WHAT GETS CREATED:
  - Default settings (RON, 42.5% employer tax, 30/20/50 formula)
  - Six employees across Production/Admin/Owner, one off-books
  - One staffing scenario for a two-week hull job, activated

NOTE:
  The loader writes on top of whatever is in the store; it does not reset.
  Only use in development/demo environments.

SEE ALSO:
  - server.go: POST /api/demo/load
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/workforce-engine/engine"
	"github.com/warp/workforce-engine/workforce"
)

// LoadDemo populates the store with the demo crew and one active job.
func (h *Handler) LoadDemo(w http.ResponseWriter, r *http.Request) {
	summary, err := h.loadDemoData(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// DemoSummary reports what the loader created.
type DemoSummary struct {
	Employees int    `json:"employees"`
	Scenarios int    `json:"scenarios"`
	Jobs      int    `json:"jobs"`
	JobID     string `json:"jobId,omitempty"`
}

func (h *Handler) loadDemoData(ctx context.Context) (DemoSummary, error) {
	if _, err := h.svc.UpdateSettings(ctx, engine.DefaultSettings()); err != nil {
		return DemoSummary{}, err
	}

	crew := []workforce.EmployeeInput{
		{FirstName: "Andrei", LastName: "Popescu", Department: engine.DeptProduction,
			ContractType: engine.ContractPermanent, PaymentModel: engine.PayMonthly,
			NetAmount: decimal.NewFromInt(5000), AcceptsOvertime: true},
		{FirstName: "Mihai", LastName: "Ionescu", Department: engine.DeptProduction,
			ContractType: engine.ContractPermanent, PaymentModel: engine.PayMonthly,
			NetAmount: decimal.NewFromInt(4200)},
		{FirstName: "Vasile", LastName: "Dumitru", Department: engine.DeptProduction,
			ContractType: engine.ContractTemporary, PaymentModel: engine.PayHourly,
			NetAmount: decimal.NewFromInt(28), AcceptsOvertime: true},
		{FirstName: "Gheorghe", LastName: "Stan", Department: engine.DeptProduction,
			ContractType: engine.ContractOffBooks,
			NetAmount: decimal.NewFromInt(220)},
		{FirstName: "Elena", LastName: "Marin", Department: engine.DeptAdmin,
			ContractType: engine.ContractPermanent, PaymentModel: engine.PayMonthly,
			NetAmount: decimal.NewFromInt(4800)},
		{FirstName: "Radu", LastName: "Constantin", Department: engine.DeptOwner,
			ContractType: engine.ContractPermanent, PaymentModel: engine.PayMonthly,
			NetAmount: decimal.NewFromInt(9000)},
	}
	for _, in := range crew {
		if _, err := h.svc.CreateEmployee(ctx, in); err != nil {
			return DemoSummary{}, fmt.Errorf("demo employee %s: %w", in.FirstName, err)
		}
	}

	// A two-week job starting next Monday.
	start := engine.Today()
	for start.Weekday() != time.Monday {
		start = start.AddDays(1)
	}
	params := engine.JobParams{
		JobName:            "Hull refit - MV Danube Star",
		Client:             "Danube Shipping SRL",
		Revenue:            decimal.NewFromInt(60000),
		Start:              start,
		End:                start.AddDays(11),
		HoursNeeded:        300,
		OffbooksCostPerDay: decimal.NewFromInt(240),
	}

	result, err := h.svc.GenerateScenarios(ctx, params)
	if err != nil {
		return DemoSummary{}, fmt.Errorf("demo scenario: %w", err)
	}
	params.Formula = result.JobDetails.Formula

	sc, err := h.svc.SaveScenario(ctx, params, result.Scenarios[len(result.Scenarios)-1])
	if err != nil {
		return DemoSummary{}, err
	}
	job, err := h.svc.ActivateScenario(ctx, sc.ID)
	if err != nil {
		return DemoSummary{}, err
	}

	return DemoSummary{
		Employees: len(crew),
		Scenarios: 1,
		Jobs:      1,
		JobID:     job.ID,
	}, nil
}
