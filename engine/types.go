/*
Package engine is the core labor-cost and scheduling allocation engine.

PURPOSE:
  Computes what an employee really costs under each contract/payment model,
  plans staffing for a fixed-revenue job at minimum labor cost, distributes
  actually-worked hours across calendar days when a job completes, and keeps
  monthly timesheet totals consistent.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: contract/payment model plus cached cost figures
  - Settings: tax rates and the owner/admin/production revenue formula
  - Timesheet: one employee-month of day entries (standard/worked/produced)
  - Scenario/Job/JobHistoryEntry: the planning -> active -> completed lifecycle

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for every monetary figure, rounded to 2
     decimals at output. Hours are float64 (physical quantities).
  2. Purity: the calculators in this package take explicit inputs and return
     new values; persistence lives behind the workforce store interfaces.
  3. Snapshots: completed-job results and history entries are immutable;
     deleting an employee never rewrites them.

SEE ALSO:
  - cost.go: contract/payment cost rules
  - planner.go: competing staffing scenarios
  - completion.go: vessel-fill hour distribution and month split
  - aggregate.go: month total recomputation
*/
package engine

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CAPACITY CONSTANTS
// =============================================================================

const (
	// HoursPerNormalDay is the normal-rate capacity of a working day.
	HoursPerNormalDay = 8.0
	// HoursPerOvertimeDay is the hard per-day ceiling when overtime applies.
	HoursPerOvertimeDay = 12.0
	// OvertimeMultiplier applies to hours beyond normal capacity.
	OvertimeMultiplier = 1.5
	// BillableDaysPerMonth converts a day rate to a monthly cost.
	BillableDaysPerMonth = 22
	// DefaultHoursPerMonth is assumed when an employee has no explicit figure.
	DefaultHoursPerMonth = 168.0
)

// DailyGrossFactor grosses up a net day rate for daily-paid workers
// (statutory social contribution 25% + income tax 10%).
var DailyGrossFactor = decimal.NewFromFloat(0.65)

// =============================================================================
// ENUMERATIONS
// =============================================================================

type ContractType string

const (
	ContractPermanent ContractType = "permanent"
	ContractTemporary ContractType = "temporary"
	ContractDaily     ContractType = "daily"
	ContractOffBooks  ContractType = "offbooks" // informal labor, no payroll tax
)

type PaymentModel string

const (
	PayMonthly PaymentModel = "monthly"
	PayHourly  PaymentModel = "hourly"
	PayDaily   PaymentModel = "daily"
)

type Department string

const (
	DeptProduction Department = "Production"
	DeptOwner      Department = "Owner"
	DeptAdmin      Department = "Admin"
	DeptTESA       Department = "TESA"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

type Employee struct {
	ID         string       `json:"id"`
	FirstName  string       `json:"firstName"`
	LastName   string       `json:"lastName"`
	Department Department   `json:"department"`

	ContractType ContractType `json:"contractType"`
	// PaymentModel is ignored for daily and off-books contracts.
	PaymentModel PaymentModel `json:"paymentModel"`
	// NetAmount is the base pay figure: net monthly salary, net hourly rate,
	// or net day rate depending on the payment model / contract.
	NetAmount     decimal.Decimal `json:"netAmount"`
	HoursPerMonth float64         `json:"hoursPerMonth"`

	AcceptsOvertime bool `json:"acceptsOvertime"`

	// Cached cost figures, recomputed from current settings on every
	// create/update. Always mutually consistent: costPerDay = costPerHour x 8
	// except for off-books/daily contracts where costPerDay is primary.
	CostPerHour      decimal.Decimal `json:"costPerHour"`
	CostPerDay       decimal.Decimal `json:"costPerDay"`
	TotalMonthlyCost decimal.Decimal `json:"totalMonthlyCost"`

	CreatedAt time.Time `json:"createdAt"`
}

func (e Employee) Name() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// CostBreakdown is the output of the cost model: the three derived figures
// cached on an employee, each rounded to 2 decimals.
type CostBreakdown struct {
	CostPerHour      decimal.Decimal `json:"costPerHour"`
	CostPerDay       decimal.Decimal `json:"costPerDay"`
	TotalMonthlyCost decimal.Decimal `json:"totalMonthlyCost"`
}

// =============================================================================
// SETTINGS
// =============================================================================

// Formula splits job revenue between overhead and labor. Percentages should
// sum near 100; only Production is read by the engine (labor budget).
type Formula struct {
	Owner      float64 `json:"owner"`
	Admin      float64 `json:"admin"`
	Production float64 `json:"production"`
}

type Settings struct {
	CompanyName string `json:"companyName"`
	Country     string `json:"country"`
	Currency    string `json:"currency"`
	Symbol      string `json:"symbol"`

	// Tax percentages.
	EmployerTax float64 `json:"employerTax"`
	DividendTax float64 `json:"dividendTax"`
	CATax       float64 `json:"caTax"`

	Formula Formula `json:"formula"`
}

func DefaultSettings() Settings {
	return Settings{
		Currency:    "RON",
		Symbol:      "lei",
		EmployerTax: 42.5,
		DividendTax: 8,
		CATax:       3,
		Formula:     Formula{Owner: 30, Admin: 20, Production: 50},
	}
}

// =============================================================================
// TIMESHEET - One employee-month of day entries
// =============================================================================

// DayEntry holds the three hour figures tracked per calendar day.
// Standard is seeded at creation and never changes; worked/produced only
// increase, via job completion.
type DayEntry struct {
	Standard float64 `json:"standard"`
	Worked   float64 `json:"worked"`
	Produced float64 `json:"produced"`
}

// MonthTotals are cached sums for a timesheet month. They are recomputed from
// the full day map whenever any day changes - never patched incrementally -
// with the one exception of RevenueGenerated, which accumulates across job
// completions.
type MonthTotals struct {
	StandardHours float64 `json:"standardHours"`
	WorkedHours   float64 `json:"workedHours"`
	ProducedHours float64 `json:"producedHours"`
	NormalHours   float64 `json:"normalHours"`
	OvertimeHours float64 `json:"overtimeHours"`

	NormalSalary     decimal.Decimal `json:"normalSalary"`
	OvertimeSalary   decimal.Decimal `json:"overtimeSalary"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	RevenueGenerated decimal.Decimal `json:"revenueGenerated"`
	Difference       decimal.Decimal `json:"difference"`
}

type Timesheet struct {
	EmployeeID string      `json:"employeeId"`
	Year       int         `json:"year"`
	Month      time.Month  `json:"month"`
	Days       map[int]DayEntry `json:"days"`
	Totals     MonthTotals `json:"totals"`
}

// NewTimesheet creates a month with standard hours pre-seeded: 8 on weekdays,
// 0 on weekends, worked/produced zeroed.
func NewTimesheet(employeeID string, year int, month time.Month) Timesheet {
	days := make(map[int]DayEntry)
	standardTotal := 0.0
	for d := 1; d <= DaysInMonth(year, month); d++ {
		std := HoursPerNormalDay
		if NewTimePoint(year, month, d).IsWeekend() {
			std = 0
		}
		days[d] = DayEntry{Standard: std}
		standardTotal += std
	}
	return Timesheet{
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
		Days:       days,
		Totals:     MonthTotals{StandardHours: standardTotal},
	}
}

// Day returns the entry for a day of month (zero entry if out of range).
func (ts Timesheet) Day(day int) DayEntry { return ts.Days[day] }

// MonthKey returns the "YYYY-MM" key for this timesheet's month.
func (ts Timesheet) MonthKey() string {
	return StartOfMonth(ts.Year, ts.Month).MonthKey()
}

// =============================================================================
// AVAILABILITY
// =============================================================================

// Availability is an employee's remaining allocatable hours in a period,
// after subtracting hours other jobs have already committed.
type Availability struct {
	MaxHours        float64 `json:"maxHours"`
	WorkedHours     float64 `json:"workedHours"`
	AvailableHours  float64 `json:"availableHours"`
	AcceptsOvertime bool    `json:"acceptsOvertime"`
}

// =============================================================================
// PLANNING - Scenario inputs and outputs
// =============================================================================

// JobParams describes the job being planned.
type JobParams struct {
	JobName string `json:"jobName"`
	Client  string `json:"client"`

	Revenue     decimal.Decimal `json:"revenue"`
	Start       TimePoint       `json:"startDate"`
	End         TimePoint       `json:"endDate"`
	HoursNeeded float64         `json:"hoursNeeded"`
	Formula     Formula         `json:"formula"`

	// OffbooksCostPerDay, when positive, enables the "With Off-Books"
	// scenario and prices its placeholder workers.
	OffbooksCostPerDay decimal.Decimal `json:"offbooksCostPerDay"`
	// EffectiveDays overrides the calendar day count when positive.
	EffectiveDays int `json:"effectiveDays"`
}

// Candidate is a Production employee offered to the planner, annotated with
// current costs, historical efficiency, and availability in the job period.
type Candidate struct {
	Employee     Employee
	Costs        CostBreakdown
	Efficiency   int
	Availability Availability
}

// TeamMember is one allocation line in a staffing plan.
type TeamMember struct {
	EmployeeID   string       `json:"employeeId"`
	Name         string       `json:"name"`
	ContractType ContractType `json:"contractType"`
	Efficiency   int          `json:"efficiency"`

	CostPerHour    decimal.Decimal `json:"costPerHour"`
	HoursAllocated float64         `json:"hoursAllocated"`
	HoursPerDay    float64         `json:"hoursPerDay"`
	NormalHours    float64         `json:"normalHours"`
	OvertimeHours  float64         `json:"overtimeHours"`
	Cost           decimal.Decimal `json:"cost"`

	AcceptsOvertime bool `json:"acceptsOvertime"`
	// IsPlaceholder marks synthesized off-books workers that do not exist in
	// the employee store (and therefore never touch timesheets).
	IsPlaceholder bool `json:"isPlaceholder,omitempty"`
}

// StaffingPlan is one of the two competing plans for a job.
type StaffingPlan struct {
	Name            string          `json:"name"`
	Team            []TeamMember    `json:"team"`
	TotalHours      float64         `json:"totalHours"`
	TotalCost       decimal.Decimal `json:"totalCost"`
	WithinBudget    bool            `json:"withinBudget"`
	BudgetRemaining decimal.Decimal `json:"budgetRemaining"`
	CoveragePercent int             `json:"coveragePercent"`
	HoursShortage   float64         `json:"hoursShortage"`
	ShortageMessage string          `json:"shortageMessage,omitempty"`
}

// PlanResult bundles both plans with the calendar facts they were built from.
type PlanResult struct {
	JobDetails       JobParams       `json:"jobDetails"`
	LaborBudget      decimal.Decimal `json:"laborBudget"`
	TotalDays        int             `json:"totalDays"`
	TotalCalendarDays int            `json:"totalCalendarDays"`
	WorkingDays      int             `json:"workingDays"`
	WeekendDays      int             `json:"weekendDays"`
	Scenarios        []StaffingPlan  `json:"scenarios"`
}

// =============================================================================
// JOB LIFECYCLE - Scenario (planning) -> Job (active) -> Job (completed)
// =============================================================================

type ScenarioStatus string

const (
	ScenarioPlanning  ScenarioStatus = "planning"
	ScenarioActivated ScenarioStatus = "activated"
)

// Scenario is a saved plan awaiting activation.
type Scenario struct {
	ID               string          `json:"id"`
	JobDetails       JobParams       `json:"jobDetails"`
	LaborBudget      decimal.Decimal `json:"laborBudget"`
	TotalDays        int             `json:"totalDays"`
	WorkingDays      int             `json:"workingDays"`
	WeekendDays      int             `json:"weekendDays"`
	Selected         StaffingPlan    `json:"selectedScenario"`
	Status           ScenarioStatus  `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
}

type JobStatus string

const (
	JobActive    JobStatus = "active"
	JobCompleted JobStatus = "completed"
)

// TeamResult is the actual outcome for one team member of a completed job.
type TeamResult struct {
	EmployeeID   string       `json:"employeeId"`
	Name         string       `json:"name"`
	ContractType ContractType `json:"contractType"`

	CostPerHour    decimal.Decimal `json:"costPerHour"`
	HoursAllocated float64         `json:"hoursAllocated"`
	WorkedHours    float64         `json:"workedHours"`
	ProducedHours  float64         `json:"producedHours"`
	Efficiency     int             `json:"efficiency"`

	Cost         decimal.Decimal `json:"cost"`
	RevenueShare decimal.Decimal `json:"revenueShare"`

	AcceptsOvertime bool `json:"acceptsOvertime"`
	IsPlaceholder   bool `json:"isPlaceholder,omitempty"`
}

// Job is an activated scenario. Completion fills the result fields and flips
// the status; completed jobs are snapshots and never mutated again.
type Job struct {
	ID         string          `json:"id"`
	ScenarioID string          `json:"scenarioId"`
	Name       string          `json:"name"`
	Client     string          `json:"client"`
	Revenue    decimal.Decimal `json:"revenue"`
	Start      TimePoint       `json:"startDate"`
	End        TimePoint       `json:"endDate"`
	HoursNeeded float64        `json:"hoursNeeded"`
	Formula    Formula         `json:"formula"`
	LaborBudget decimal.Decimal `json:"laborBudget"`
	TotalDays   int             `json:"totalDays"`
	WorkingDays int             `json:"workingDays"`
	Team        []TeamMember    `json:"team"`
	Status      JobStatus       `json:"status"`
	ActivatedAt time.Time       `json:"activatedAt"`

	// Completion results.
	CompletedAt     time.Time       `json:"completedAt,omitempty"`
	TeamResults     []TeamResult    `json:"teamResults,omitempty"`
	ActualLaborCost decimal.Decimal `json:"actualLaborCost"`
	GrossProfit     decimal.Decimal `json:"grossProfit"`
	LaborProfit     decimal.Decimal `json:"laborProfit"`
	MarginPercent   int             `json:"marginPercent"`
}

// =============================================================================
// JOB HISTORY - Append-only per-employee completion records
// =============================================================================

// MonthShare is one calendar-month slice of a completed job's hours, cost and
// revenue for a single employee.
type MonthShare struct {
	Month       string `json:"month"` // YYYY-MM
	WorkingDays int    `json:"workingDays"`
	WeekendDays int    `json:"weekendDays"`

	HoursWorked   float64 `json:"hoursWorked"`
	HoursProduced float64 `json:"hoursProduced"`
	NormalHours   float64 `json:"normalHours"`
	OvertimeHours float64 `json:"overtimeHours"`

	SalaryNormal  decimal.Decimal `json:"salaryNormal"`
	SalaryOT      decimal.Decimal `json:"salaryOT"`
	TotalSalary   decimal.Decimal `json:"totalSalary"`
	RevenueShare  decimal.Decimal `json:"revenueShare"`
	ValueProduced decimal.Decimal `json:"valueProduced"`
	Bonus         decimal.Decimal `json:"bonus"`

	CompletedAt time.Time `json:"completedAt"`
}

// JobHistoryEntry records one employee's share of one completed job.
// Entries are immutable once appended.
type JobHistoryEntry struct {
	JobID   string `json:"jobId"`
	JobName string `json:"jobName"`
	Client  string `json:"client"`

	Start TimePoint `json:"startDate"`
	End   TimePoint `json:"endDate"`

	Revenue           decimal.Decimal `json:"revenue"`
	ProductionPercent float64         `json:"productionPercent"`
	TotalJobHours     float64         `json:"totalJobHours"`

	HoursWorked   float64 `json:"hoursWorked"`
	HoursProduced float64 `json:"hoursProduced"`
	NormalHours   float64 `json:"normalHours"`
	OvertimeHours float64 `json:"overtimeHours"`

	SalaryNormal  decimal.Decimal `json:"salaryNormal"`
	SalaryOT      decimal.Decimal `json:"salaryOT"`
	TotalSalary   decimal.Decimal `json:"totalSalary"`
	ValueProduced decimal.Decimal `json:"valueProduced"`
	Bonus         decimal.Decimal `json:"bonus"`

	MonthlyBreakdown []MonthShare `json:"monthlyBreakdown"`

	CompletedAt time.Time `json:"completedAt"`
}

// =============================================================================
// ROUNDING HELPERS
// =============================================================================

// Round2 rounds a monetary figure to 2 decimals (half away from zero).
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// RoundHours rounds an hour figure to 2 decimals for output.
func RoundHours(h float64) float64 { return math.Round(h*100) / 100 }

// mulHours multiplies an hour quantity by a decimal rate.
func mulHours(hours float64, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(hours).Mul(rate)
}
