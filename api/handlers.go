/*
handlers.go - HTTP handlers for the workforce costing API

PURPOSE:
  One handler per service operation: decode the request, call the service,
  map the error class to a status code, write JSON. No business logic lives
  here.

ERROR MAPPING:
  engine.IsNotFound    -> 404
  engine.IsClientError -> 400 (validation, bad dates, wrong status)
  anything else        -> 500

SEE ALSO:
  - server.go: Route wiring
  - workforce/service.go: The operations
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/workforce-engine/engine"
	"github.com/warp/workforce-engine/report"
	"github.com/warp/workforce-engine/workforce"
)

// Handler holds the service behind every endpoint.
type Handler struct {
	svc *workforce.Service
}

func NewHandler(svc *workforce.Service) *Handler {
	return &Handler{svc: svc}
}

// =============================================================================
// SETTINGS
// =============================================================================

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Settings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings engine.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	updated, err := h.svc.UpdateSettings(r.Context(), settings)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.svc.ListEmployees(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if employees == nil {
		employees = []engine.Employee{}
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	e, err := h.svc.CreateEmployee(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	e, err := h.svc.UpdateEmployee(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

func (h *Handler) PreviewCost(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	costs, err := h.svc.PreviewCost(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, costs)
}

// GetAvailability answers ?start=YYYY-MM-DD&end=YYYY-MM-DD for one employee.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	start, err := engine.ParseTimePoint(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date", err)
		return
	}
	end, err := engine.ParseTimePoint(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date", err)
		return
	}
	av, err := h.svc.EmployeeAvailability(r.Context(), chi.URLParam(r, "id"), start, end)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, av)
}

func (h *Handler) GetEmployeeHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.EmployeeHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	if entries == nil {
		entries = []engine.JobHistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// =============================================================================
// TIMESHEETS
// =============================================================================

// GetTimesheet serves one employee-month, materializing it on first access.
// Year/month come from ?year=2025&month=6; both default to the current month.
func (h *Handler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := now.Year()
	month := now.Month()

	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year", err)
			return
		}
		year = parsed
	}
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 12 {
			writeError(w, http.StatusBadRequest, "invalid month", err)
			return
		}
		month = time.Month(parsed)
	}

	ts, err := h.svc.Timesheet(r.Context(), chi.URLParam(r, "id"), year, month)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (h *Handler) ListTimesheets(w http.ResponseWriter, r *http.Request) {
	sheets, err := h.svc.EmployeeTimesheets(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	if sheets == nil {
		sheets = []engine.Timesheet{}
	}
	writeJSON(w, http.StatusOK, sheets)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func (h *Handler) GenerateScenarios(w http.ResponseWriter, r *http.Request) {
	var req GenerateScenariosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	params, err := req.jobParams()
	if err != nil {
		respondError(w, err)
		return
	}
	result, err := h.svc.GenerateScenarios(r.Context(), params)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) SaveScenario(w http.ResponseWriter, r *http.Request) {
	var req SaveScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	params, err := req.jobParams()
	if err != nil {
		respondError(w, err)
		return
	}
	sc, err := h.svc.SaveScenario(r.Context(), params, req.Selected)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.svc.ListScenarios(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if scenarios == nil {
		scenarios = []engine.Scenario{}
	}
	writeJSON(w, http.StatusOK, scenarios)
}

func (h *Handler) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteScenario(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

func (h *Handler) ActivateScenario(w http.ResponseWriter, r *http.Request) {
	job, err := h.svc.ActivateScenario(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// =============================================================================
// JOBS
// =============================================================================

func (h *Handler) ListActiveJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.svc.ActiveJobs(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if jobs == nil {
		jobs = []engine.Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *Handler) ListCompletedJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.svc.CompletedJobs(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if jobs == nil {
		jobs = []engine.Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.svc.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *Handler) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	var req AddTeamMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	job, err := h.svc.AddTeamMember(r.Context(), chi.URLParam(r, "id"), req.EmployeeID, req.Hours)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *Handler) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	job, err := h.svc.RemoveTeamMember(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "employeeId"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *Handler) CompleteJob(w http.ResponseWriter, r *http.Request) {
	var req CompleteJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	job, err := h.svc.CompleteJob(r.Context(), chi.URLParam(r, "id"), req.Actuals)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// GetJobReport streams the completion report PDF for a completed job.
func (h *Handler) GetJobReport(w http.ResponseWriter, r *http.Request) {
	job, err := h.svc.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	settings, err := h.svc.Settings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := report.CompletionReportPDF(&buf, job, settings.Symbol); err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", job.Name+"-report.pdf"))
	w.Write(buf.Bytes())
}

// =============================================================================
// DASHBOARD
// =============================================================================

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}
	dash, err := h.svc.DashboardFor(r.Context(), month)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (h *Handler) GetAvailableMonths(w http.ResponseWriter, r *http.Request) {
	months, err := h.svc.AvailableMonths(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if months == nil {
		months = []string{}
	}
	writeJSON(w, http.StatusOK, months)
}

// =============================================================================
// REPORTS
// =============================================================================

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, err := reportFilterFromQuery(r)
	if err != nil {
		respondError(w, err)
		return
	}
	switch chi.URLParam(r, "type") {
	case "employee-performance":
		rep, err := h.svc.EmployeePerformanceReport(ctx, filter)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	case "job-profitability":
		rep, err := h.svc.JobProfitabilityReport(ctx, filter)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	case "overview":
		rep, err := h.svc.OverviewReport(ctx, filter)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	case "salary-coverage":
		rep, err := h.svc.SalaryCoverageReport(ctx, filter)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	default:
		writeError(w, http.StatusBadRequest, "unknown report type", nil)
	}
}

// reportFilterFromQuery reads the optional ?start=YYYY-MM-DD and ?end=...
// completion-date window.
func reportFilterFromQuery(r *http.Request) (workforce.ReportFilter, error) {
	var filter workforce.ReportFilter
	if s := r.URL.Query().Get("start"); s != "" {
		tp, err := engine.ParseTimePoint(s)
		if err != nil {
			return filter, engine.Invalid("start", "want YYYY-MM-DD")
		}
		filter.Start = tp
	}
	if s := r.URL.Query().Get("end"); s != "" {
		tp, err := engine.ParseTimePoint(s)
		if err != nil {
			return filter, engine.Invalid("end", "want YYYY-MM-DD")
		}
		filter.End = tp
	}
	return filter, nil
}

// ExportCSV streams one of the CSV sheets: employees, employees-detailed, jobs.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind := chi.URLParam(r, "type")

	var buf bytes.Buffer
	switch kind {
	case "employees":
		month := r.URL.Query().Get("month")
		if month == "" {
			month = time.Now().UTC().Format("2006-01")
		}
		dash, err := h.svc.DashboardFor(ctx, month)
		if err != nil {
			respondError(w, err)
			return
		}
		if err := report.EmployeeSummaryCSV(&buf, dash.Rows); err != nil {
			respondError(w, err)
			return
		}
	case "employees-detailed":
		backup, err := h.svc.Export(ctx)
		if err != nil {
			respondError(w, err)
			return
		}
		if err := report.EmployeeDetailCSV(&buf, backup.Employees, backup.History); err != nil {
			respondError(w, err)
			return
		}
	case "jobs":
		rep, err := h.svc.JobProfitabilityReport(ctx, workforce.ReportFilter{})
		if err != nil {
			respondError(w, err)
			return
		}
		if err := report.JobsCSV(&buf, rep); err != nil {
			respondError(w, err)
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "unknown export type", nil)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "workforce-"+kind+"-"+time.Now().UTC().Format("2006-01-02")+".csv"))
	w.Write(buf.Bytes())
}

// =============================================================================
// BACKUP
// =============================================================================

func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := h.svc.Export(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, backup)
}

func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	var backup workforce.Backup
	if err := json.NewDecoder(r.Body).Decode(&backup); err != nil {
		writeError(w, http.StatusBadRequest, "invalid backup file", err)
		return
	}
	if err := h.svc.Import(r.Context(), backup); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "imported"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// respondError maps domain error classes to HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case engine.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "internal error", err)
	}
}
