/*
Package sqlite provides the SQLite-backed implementation of the workforce
storage interfaces.

PURPOSE:
  Implements workforce.Store (employees, settings, timesheets, scenarios,
  jobs, job history) over a single SQLite file. The desktop deployments this
  serves are single-company, so one database file is the whole installation.

KEY TABLES:
  employees:    One row per employee; monetary columns stored as TEXT to
                keep decimal precision exact
  settings:     Single-row table (id enforced to 1)
  timesheets:   One row per employee-month; the day grid and totals are
                stored as JSON documents
  scenarios:    Saved staffing plans (JSON document + status column)
  jobs:         Active and completed jobs (JSON document + status column)
  job_history:  APPEND-ONLY per-employee completion records. No UPDATE or
                DELETE statements exist for this table; completed-job
                records must survive employee deletion.

JSON DOCUMENTS:
  Scenario/job/history payloads are deep trees the application always reads
  whole and never queries into, so they persist as JSON documents. Columns
  are broken out only where the store filters or orders by them (status,
  timestamps, the timesheet month key).

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of WAL mode: multiple readers
  don't block and crash recovery is cheap.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper migration
  tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - workforce/store.go: Interface definitions
  - workforce/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/workforce-engine/engine"
)

// Store implements workforce.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL,
		contract_type TEXT NOT NULL,
		payment_model TEXT NOT NULL DEFAULT '',
		net_amount TEXT NOT NULL,
		hours_per_month REAL NOT NULL DEFAULT 0,
		accepts_overtime INTEGER NOT NULL DEFAULT 0,
		cost_per_hour TEXT NOT NULL,
		cost_per_day TEXT NOT NULL,
		total_monthly_cost TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Single-row settings; id is pinned to 1.
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS timesheets (
		employee_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		days_json TEXT NOT NULL,
		totals_json TEXT NOT NULL,
		PRIMARY KEY (employee_id, year, month)
	);

	CREATE INDEX IF NOT EXISTS idx_timesheets_employee
		ON timesheets(employee_id);

	CREATE TABLE IF NOT EXISTS scenarios (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		data_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		activated_at TEXT NOT NULL,
		data_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_status
		ON jobs(status);

	-- APPEND-ONLY: no update or delete path exists for job_history.
	CREATE TABLE IF NOT EXISTS job_history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL,
		completed_at TEXT NOT NULL,
		entry_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_job_history_employee
		ON job_history(employee_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) PutEmployee(ctx context.Context, e engine.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, first_name, last_name, department, contract_type,
			payment_model, net_amount, hours_per_month, accepts_overtime,
			cost_per_hour, cost_per_day, total_monthly_cost, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			department = excluded.department,
			contract_type = excluded.contract_type,
			payment_model = excluded.payment_model,
			net_amount = excluded.net_amount,
			hours_per_month = excluded.hours_per_month,
			accepts_overtime = excluded.accepts_overtime,
			cost_per_hour = excluded.cost_per_hour,
			cost_per_day = excluded.cost_per_day,
			total_monthly_cost = excluded.total_monthly_cost`,
		e.ID, e.FirstName, e.LastName, string(e.Department), string(e.ContractType),
		string(e.PaymentModel), e.NetAmount.String(), e.HoursPerMonth, boolToInt(e.AcceptsOvertime),
		e.CostPerHour.String(), e.CostPerDay.String(), e.TotalMonthlyCost.String(),
		e.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *Store) GetEmployee(ctx context.Context, id string) (engine.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, department, contract_type, payment_model,
			net_amount, hours_per_month, accepts_overtime,
			cost_per_hour, cost_per_day, total_monthly_cost, created_at
		FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return engine.Employee{}, engine.ErrEmployeeNotFound
	}
	return e, err
}

func (s *Store) ListEmployees(ctx context.Context) ([]engine.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, department, contract_type, payment_model,
			net_amount, hours_per_month, accepts_overtime,
			cost_per_hour, cost_per_day, total_monthly_cost, created_at
		FROM employees ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return engine.ErrEmployeeNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (engine.Employee, error) {
	var (
		e         engine.Employee
		dept      string
		contract  string
		payment   string
		netAmount string
		overtime  int
		perHour   string
		perDay    string
		perMonth  string
		createdAt string
	)
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &dept, &contract, &payment,
		&netAmount, &e.HoursPerMonth, &overtime, &perHour, &perDay, &perMonth, &createdAt)
	if err != nil {
		return engine.Employee{}, err
	}

	e.Department = engine.Department(dept)
	e.ContractType = engine.ContractType(contract)
	e.PaymentModel = engine.PaymentModel(payment)
	e.AcceptsOvertime = overtime != 0

	if e.NetAmount, err = parseDecimal(netAmount); err != nil {
		return engine.Employee{}, err
	}
	if e.CostPerHour, err = parseDecimal(perHour); err != nil {
		return engine.Employee{}, err
	}
	if e.CostPerDay, err = parseDecimal(perDay); err != nil {
		return engine.Employee{}, err
	}
	if e.TotalMonthlyCost, err = parseDecimal(perMonth); err != nil {
		return engine.Employee{}, err
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return engine.Employee{}, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	return e, nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Store) GetSettings(ctx context.Context) (engine.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data_json FROM settings WHERE id = 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		return engine.DefaultSettings(), nil
	}
	if err != nil {
		return engine.Settings{}, err
	}

	var settings engine.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return engine.Settings{}, fmt.Errorf("corrupt settings row: %w", err)
	}
	return settings, nil
}

func (s *Store) PutSettings(ctx context.Context, settings engine.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (id, data_json) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET data_json = excluded.data_json`, string(raw))
	return err
}

// =============================================================================
// TIMESHEETS
// =============================================================================

func (s *Store) GetTimesheet(ctx context.Context, employeeID string, year int, month time.Month) (engine.Timesheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var daysRaw, totalsRaw string
	err := s.db.QueryRowContext(ctx, `
		SELECT days_json, totals_json FROM timesheets
		WHERE employee_id = ? AND year = ? AND month = ?`,
		employeeID, year, int(month)).Scan(&daysRaw, &totalsRaw)
	if err == sql.ErrNoRows {
		return engine.Timesheet{}, engine.ErrTimesheetNotFound
	}
	if err != nil {
		return engine.Timesheet{}, err
	}
	return decodeTimesheet(employeeID, year, month, daysRaw, totalsRaw)
}

func (s *Store) PutTimesheet(ctx context.Context, ts engine.Timesheet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	daysRaw, err := json.Marshal(ts.Days)
	if err != nil {
		return err
	}
	totalsRaw, err := json.Marshal(ts.Totals)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO timesheets (employee_id, year, month, days_json, totals_json)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, year, month) DO UPDATE SET
			days_json = excluded.days_json,
			totals_json = excluded.totals_json`,
		ts.EmployeeID, ts.Year, int(ts.Month), string(daysRaw), string(totalsRaw))
	return err
}

func (s *Store) ListTimesheets(ctx context.Context, employeeID string) ([]engine.Timesheet, error) {
	return s.queryTimesheets(ctx, `
		SELECT employee_id, year, month, days_json, totals_json FROM timesheets
		WHERE employee_id = ? ORDER BY year, month`, employeeID)
}

func (s *Store) AllTimesheets(ctx context.Context) ([]engine.Timesheet, error) {
	return s.queryTimesheets(ctx, `
		SELECT employee_id, year, month, days_json, totals_json FROM timesheets
		ORDER BY employee_id, year, month`)
}

func (s *Store) queryTimesheets(ctx context.Context, query string, args ...any) ([]engine.Timesheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Timesheet
	for rows.Next() {
		var (
			employeeID         string
			year, month        int
			daysRaw, totalsRaw string
		)
		if err := rows.Scan(&employeeID, &year, &month, &daysRaw, &totalsRaw); err != nil {
			return nil, err
		}
		ts, err := decodeTimesheet(employeeID, year, time.Month(month), daysRaw, totalsRaw)
		if err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

func decodeTimesheet(employeeID string, year int, month time.Month, daysRaw, totalsRaw string) (engine.Timesheet, error) {
	ts := engine.Timesheet{EmployeeID: employeeID, Year: year, Month: month}
	if err := json.Unmarshal([]byte(daysRaw), &ts.Days); err != nil {
		return engine.Timesheet{}, fmt.Errorf("corrupt timesheet days: %w", err)
	}
	if err := json.Unmarshal([]byte(totalsRaw), &ts.Totals); err != nil {
		return engine.Timesheet{}, fmt.Errorf("corrupt timesheet totals: %w", err)
	}
	return ts, nil
}

// =============================================================================
// SCENARIOS
// =============================================================================

func (s *Store) PutScenario(ctx context.Context, sc engine.Scenario) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scenarios (id, status, created_at, data_json)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			data_json = excluded.data_json`,
		sc.ID, string(sc.Status), sc.CreatedAt.UTC().Format(time.RFC3339Nano), string(raw))
	return err
}

func (s *Store) GetScenario(ctx context.Context, id string) (engine.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data_json FROM scenarios WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return engine.Scenario{}, engine.ErrScenarioNotFound
	}
	if err != nil {
		return engine.Scenario{}, err
	}

	var sc engine.Scenario
	if err := json.Unmarshal([]byte(raw), &sc); err != nil {
		return engine.Scenario{}, fmt.Errorf("corrupt scenario row: %w", err)
	}
	return sc, nil
}

func (s *Store) ListScenarios(ctx context.Context) ([]engine.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT data_json FROM scenarios ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Scenario
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var sc engine.Scenario
		if err := json.Unmarshal([]byte(raw), &sc); err != nil {
			return nil, fmt.Errorf("corrupt scenario row: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) DeleteScenario(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return engine.ErrScenarioNotFound
	}
	return nil
}

// =============================================================================
// JOBS
// =============================================================================

func (s *Store) PutJob(ctx context.Context, j engine.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(j)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, status, activated_at, data_json)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			data_json = excluded.data_json`,
		j.ID, string(j.Status), j.ActivatedAt.UTC().Format(time.RFC3339Nano), string(raw))
	return err
}

func (s *Store) GetJob(ctx context.Context, id string) (engine.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data_json FROM jobs WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return engine.Job{}, engine.ErrJobNotFound
	}
	if err != nil {
		return engine.Job{}, err
	}

	var j engine.Job
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		return engine.Job{}, fmt.Errorf("corrupt job row: %w", err)
	}
	return j, nil
}

func (s *Store) ListJobs(ctx context.Context, status engine.JobStatus) ([]engine.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT data_json FROM jobs ORDER BY activated_at DESC`
	args := []any{}
	if status != "" {
		query = `SELECT data_json FROM jobs WHERE status = ? ORDER BY activated_at DESC`
		args = append(args, string(status))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Job
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var j engine.Job
		if err := json.Unmarshal([]byte(raw), &j); err != nil {
			return nil, fmt.Errorf("corrupt job row: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// =============================================================================
// JOB HISTORY - append-only
// =============================================================================

func (s *Store) AppendHistory(ctx context.Context, employeeID string, entry engine.JobHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO job_history (employee_id, completed_at, entry_json)
		VALUES (?, ?, ?)`,
		employeeID, entry.CompletedAt.UTC().Format(time.RFC3339Nano), string(raw))
	return err
}

func (s *Store) LoadHistory(ctx context.Context, employeeID string) ([]engine.JobHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_json FROM job_history WHERE employee_id = ? ORDER BY seq`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.JobHistoryEntry
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var entry engine.JobHistoryEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("corrupt history row: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (s *Store) AllHistory(ctx context.Context) (map[string][]engine.JobHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, entry_json FROM job_history ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]engine.JobHistoryEntry)
	for rows.Next() {
		var employeeID, raw string
		if err := rows.Scan(&employeeID, &raw); err != nil {
			return nil, err
		}
		var entry engine.JobHistoryEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("corrupt history row: %w", err)
		}
		out[employeeID] = append(out[employeeID], entry)
	}
	return out, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("bad decimal %q: %w", s, err)
	}
	return d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
