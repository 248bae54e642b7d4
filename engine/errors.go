/*
errors.go - Centralized error types for the engine and its callers

PURPOSE:
  All failure modes in one place. Operations never panic: validation and
  not-found failures come back as typed errors, and numeric degeneracy
  (division by zero hours, empty teams) is guarded to produce zeros instead
  of NaN/Infinity reaching persisted totals.

ERROR CATEGORIES:
  1. Not-found errors - a referenced employee/scenario/job does not exist
  2. Validation errors - missing or malformed operation input
  3. Store errors - persistence-level failures, wrapped by implementations

USAGE:
  if engine.IsNotFound(err) { ... 404 ... }
  if engine.IsClientError(err) { ... 400 ... }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrScenarioNotFound is returned when a referenced scenario doesn't exist.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrJobNotFound is returned when a referenced job doesn't exist.
	ErrJobNotFound = errors.New("job not found")

	// ErrTimesheetNotFound is returned by stores when a month record is
	// missing; callers normally create the month lazily instead.
	ErrTimesheetNotFound = errors.New("timesheet not found")

	// ErrValidation is the base error for invalid operation input.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidPeriod is returned when a date range is malformed.
	ErrInvalidPeriod = errors.New("invalid period: end before start")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError carries the field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrScenarioNotFound) ||
		errors.Is(err, ErrJobNotFound) ||
		errors.Is(err, ErrTimesheetNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidPeriod)
}
