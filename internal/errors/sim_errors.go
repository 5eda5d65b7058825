package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the broad class of a simulation error.
type ErrorCategory string

const (
	ErrorCategoryValidation    ErrorCategory = "VALIDATION"
	ErrorCategoryFunds         ErrorCategory = "FUNDS"
	ErrorCategoryPosition      ErrorCategory = "POSITION"
	ErrorCategoryDataSource    ErrorCategory = "DATA_SOURCE"
	ErrorCategoryStrategy      ErrorCategory = "STRATEGY"
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"
)

// SimError is a categorized error raised by a simulation component. None of
// these are retryable: the caller has to fix its input or its strategy logic.
type SimError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *SimError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *SimError) Unwrap() error {
	return e.Underlying
}

// NewSimError creates a new categorized simulation error
func NewSimError(category ErrorCategory, component, operation, message string) *SimError {
	return &SimError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
	}
}

// WrapError wraps an existing error with simulation error context
func WrapError(err error, category ErrorCategory, component, operation string) *SimError {
	if err == nil {
		return nil
	}
	return &SimError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
	}
}

// ValidationError reports a config field that failed fast-path validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InsufficientFundsError rejects a buy that the cash balance cannot cover.
type InsufficientFundsError struct {
	Symbol    string
	Required  float64
	Available float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for %s: required %.8f, available %.8f",
		e.Symbol, e.Required, e.Available)
}

// InsufficientPositionError rejects a sell of more than the held quantity.
type InsufficientPositionError struct {
	Symbol    string
	Requested float64
	Held      float64
}

func (e *InsufficientPositionError) Error() string {
	return fmt.Sprintf("insufficient position in %s: requested %.8f, held %.8f",
		e.Symbol, e.Requested, e.Held)
}

// UnknownDataSourceError reports an engine misconfiguration: the run asked
// for a data source the engine has no resolver for.
type UnknownDataSourceError struct {
	Source string
}

func (e *UnknownDataSourceError) Error() string {
	return fmt.Sprintf("unknown data source: %q", e.Source)
}
