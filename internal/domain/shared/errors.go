// Package shared contains the error kinds used across the gradebook domain
// and application layers. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base error kinds. Match with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Infrastructure errors
	ErrStorage = errors.New("storage error")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "roster", "storage"
	Op      string // Operation that failed, e.g., "Add", "Update"
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

// Roster errors
var (
	ErrStudentNotFound      = NewDomainError("roster", "Find", ErrNotFound, "student not found")
	ErrStudentAlreadyExists = NewDomainError("roster", "Add", ErrAlreadyExists, "student id already in use")
	ErrBlankName            = NewDomainError("student", "Validate", ErrEmptyValue, "name cannot be blank")
	ErrInvalidStudentID     = NewDomainError("student", "Validate", ErrInvalidFormat, "student id must be S followed by 3 digits")
	ErrScoreOutOfRange      = NewDomainError("student", "AddGrade", ErrValueOutOfRange, "score must be a number between 0 and 100")
	ErrBlankSubject         = NewDomainError("student", "AddGrade", ErrEmptyValue, "subject cannot be blank")
	ErrNothingToUpdate      = NewDomainError("roster", "Update", ErrInvalidInput, "no fields to update")
	ErrClassNotFound        = NewDomainError("roster", "ClassStatistics", ErrNotFound, "no students in class")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsStorage checks if the error came from the persistence layer.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
