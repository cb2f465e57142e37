// Package apperror defines the typed errors shared across the ingestion and
// categorization pipeline. Handlers map these to HTTP status codes.
package apperror

import (
	"fmt"
	"strings"
)

// ColumnDetectionError means the uploaded CSV is missing one or more of the
// required semantic columns. It is fatal to the whole upload: no rows are
// processed.
type ColumnDetectionError struct {
	MissingFields []string
	FoundHeaders  []string
}

func (e *ColumnDetectionError) Error() string {
	return fmt.Sprintf("csv is missing required column(s): %s (found headers: %s)",
		strings.Join(e.MissingFields, ", "), strings.Join(e.FoundHeaders, ", "))
}

// RowValidationError marks a single row as unusable. It is never fatal to the
// batch: the row is skipped and counted.
type RowValidationError struct {
	Line   int
	Field  string
	Value  string
	Reason string
}

func (e *RowValidationError) Error() string {
	return fmt.Sprintf("row %d: invalid %s '%s': %s", e.Line, e.Field, e.Value, e.Reason)
}

// StoreWriteError wraps a persistence failure during the batch insert. The
// whole batch is rolled back and the error is surfaced to the caller.
type StoreWriteError struct {
	Op  string
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write failed during %s: %v", e.Op, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a missing or not-owned resource.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// AuthError reports an authentication or authorization failure.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "unauthorized: " + e.Reason
}
