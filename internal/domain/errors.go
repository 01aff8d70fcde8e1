package domain

import "fmt"

// ErrorCode classifies an ingestion failure for the caller.
type ErrorCode string

const (
	// CodeValidation covers missing or malformed payload fields, bad
	// enumerated values, and references to unknown lookup rows.
	CodeValidation ErrorCode = "validation_error"
	// CodeConstraint covers uniqueness or foreign-key violations the
	// upsert logic did not anticipate.
	CodeConstraint ErrorCode = "constraint_error"
	// CodeStore covers infrastructural store failures.
	CodeStore ErrorCode = "store_error"
)

// IngestError carries a classification alongside the underlying cause.
// Stores and the payload validator produce these; the service boundary
// converts them into the response envelope.
type IngestError struct {
	Code ErrorCode
	Msg  string
	Err  error
}

func (e *IngestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// Validationf builds a validation error from a format string.
func Validationf(format string, args ...any) *IngestError {
	return &IngestError{Code: CodeValidation, Msg: fmt.Sprintf(format, args...)}
}

// ConstraintError wraps a store constraint violation.
func ConstraintError(msg string, err error) *IngestError {
	return &IngestError{Code: CodeConstraint, Msg: msg, Err: err}
}

// StoreError wraps an infrastructural store failure.
func StoreError(msg string, err error) *IngestError {
	return &IngestError{Code: CodeStore, Msg: msg, Err: err}
}
