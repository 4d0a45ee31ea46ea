// Package shared contains common domain types, errors, and events that are
// used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState = errors.New("invalid state")
	ErrNoData       = errors.New("no data for operation")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "rubric", "ledger", "evaluation"
	Op      string // Operation that failed, e.g., "Replace", "RecordGrade"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Group and roster domain errors
var (
	ErrGroupNotFound     = NewDomainError("group", "Find", ErrNotFound, "group not found")
	ErrGroupExists       = NewDomainError("group", "Create", ErrAlreadyExists, "group already exists")
	ErrStudentNotFound   = NewDomainError("roster", "Find", ErrNotFound, "student not found")
	ErrStudentExists     = NewDomainError("roster", "Enroll", ErrAlreadyExists, "student already enrolled")
	ErrStudentNotInGroup = NewDomainError("roster", "Check", ErrInvalidState, "student does not belong to this group")
)

// Rubric domain errors
var (
	ErrEmptyRubric       = NewDomainError("rubric", "Replace", ErrEmptyValue, "rubric must contain at least one category")
	ErrDuplicateCategory = NewDomainError("rubric", "Replace", ErrInvalidInput, "category names must be unique within a rubric")
	ErrInvalidMaxItems   = NewDomainError("rubric", "Validate", ErrValueOutOfRange, "max items counted must be at least 1")
	ErrRubricNotFound    = NewDomainError("rubric", "Load", ErrNotFound, "rubric not found")
)

// NewWeightSumError builds the weight-sum violation error, reporting the
// actual sum so the instructor can see how far off the rubric is.
func NewWeightSumError(sum float64) *DomainError {
	return NewDomainError("rubric", "Replace", ErrValueOutOfRange,
		fmt.Sprintf("category weights must sum to 100%%, got %.2f%%", sum))
}

// Ledger domain errors
var (
	ErrGradeOutOfRange         = NewDomainError("ledger", "RecordGrade", ErrValueOutOfRange, "grade value must be between 0.0 and 10.0")
	ErrEmptyCategoryName       = NewDomainError("ledger", "RecordGrade", ErrEmptyValue, "category name cannot be empty")
	ErrInvalidAttendanceStatus = NewDomainError("ledger", "RecordAttendance", ErrInvalidInput, "invalid attendance status")
	ErrNoStudents              = NewDomainError("ledger", "RecordAttendanceBulk", ErrNoData, "group roster is empty")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsNoData checks if the error is the warning-grade "nothing to operate on"
// condition, e.g. bulk attendance against an empty roster.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}
