/*
dto.go - Request/response types for the HTTP API

PURPOSE:
  Defines the JSON request bodies and the small response wrappers. Domain
  responses (employees, plans, jobs, dashboard) serialize directly from
  their engine/workforce types - their json tags ARE the API contract.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *Response: Response wrappers where the domain type alone isn't enough

MONEY ON THE WIRE:
  Monetary fields are decimal internally but plain JSON numbers externally;
  the init below flips the decimal package to unquoted output. Requests
  parse both quoted and unquoted figures.

SEE ALSO:
  - handlers.go: Uses these types
  - workforce/service.go: The operations behind each request
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/workforce-engine/engine"
	"github.com/warp/workforce-engine/workforce"
)

func init() {
	// Frontends expect money as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// EmployeeRequest creates or updates an employee.
type EmployeeRequest = workforce.EmployeeInput

// GenerateScenariosRequest carries the prospective job.
type GenerateScenariosRequest struct {
	JobName string `json:"jobName"`
	Client  string `json:"client"`

	Revenue     decimal.Decimal `json:"revenue"`
	StartDate   string          `json:"startDate"` // YYYY-MM-DD
	EndDate     string          `json:"endDate"`
	HoursNeeded float64         `json:"hoursNeeded"`

	Formula            *engine.Formula `json:"formula,omitempty"`
	OffbooksCostPerDay decimal.Decimal `json:"offbooksCostPerDay"`
	EffectiveDays      int             `json:"effectiveDays"`
}

// SaveScenarioRequest persists one generated plan.
type SaveScenarioRequest struct {
	GenerateScenariosRequest
	Selected engine.StaffingPlan `json:"selectedScenario"`
}

// AddTeamMemberRequest adds an employee to an active job.
type AddTeamMemberRequest struct {
	EmployeeID string  `json:"employeeId"`
	Hours      float64 `json:"hours"`
}

// CompleteJobRequest settles an active job.
type CompleteJobRequest struct {
	Actuals []workforce.MemberActuals `json:"actuals"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// StatusResponse acknowledges operations with no payload.
type StatusResponse struct {
	Status string `json:"status"`
}

// jobParams converts the request into engine params.
func (req GenerateScenariosRequest) jobParams() (engine.JobParams, error) {
	start, err := engine.ParseTimePoint(req.StartDate)
	if err != nil {
		return engine.JobParams{}, engine.Invalid("startDate", "want YYYY-MM-DD")
	}
	end, err := engine.ParseTimePoint(req.EndDate)
	if err != nil {
		return engine.JobParams{}, engine.Invalid("endDate", "want YYYY-MM-DD")
	}

	params := engine.JobParams{
		JobName:            req.JobName,
		Client:             req.Client,
		Revenue:            req.Revenue,
		Start:              start,
		End:                end,
		HoursNeeded:        req.HoursNeeded,
		OffbooksCostPerDay: req.OffbooksCostPerDay,
		EffectiveDays:      req.EffectiveDays,
	}
	if req.Formula != nil {
		params.Formula = *req.Formula
	}
	return params, nil
}
