package models

import (
	"errors"
	"fmt"
)

// ErrSubmitInProgress is returned when a form submit is issued while a
// previous one is still in flight. The second call is rejected, not queued.
var ErrSubmitInProgress = errors.New("submit already in progress")

// ErrDeleteInProgress is the delete-confirmation counterpart of
// ErrSubmitInProgress.
var ErrDeleteInProgress = errors.New("delete already in progress")

// ValidationError is a local input error. It never reaches the network;
// submission is blocked and field state is kept so the user can retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ErrInvalidDateTime reports a date/time pair that could not be composed
// into an instant at submit time.
var ErrInvalidDateTime = &ValidationError{Field: "date/time", Reason: "incomplete or out of range"}

// NewMissingFieldError reports a required field left empty.
func NewMissingFieldError(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "required"}
}

// PersistenceKind classifies remote-call failures.
type PersistenceKind string

const (
	KindNetworkUnavailable PersistenceKind = "network_unavailable"
	KindPermissionDenied   PersistenceKind = "permission_denied"
	KindNotFound           PersistenceKind = "not_found"
	KindUploadFailed       PersistenceKind = "upload_failed"
	KindUnknown            PersistenceKind = "unknown"
)

// PersistenceError wraps a failed call against the document or file store.
type PersistenceError struct {
	Kind PersistenceKind
	Op   string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistenceError builds a classified remote failure.
func NewPersistenceError(kind PersistenceKind, op string, err error) *PersistenceError {
	return &PersistenceError{Kind: kind, Op: op, Err: err}
}

// PersistenceKindOf extracts the kind from err, or KindUnknown when err is
// not a PersistenceError.
func PersistenceKindOf(err error) PersistenceKind {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}
