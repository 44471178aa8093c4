package shared

import "fmt"

// Error codes for the domain error taxonomy. Every business-rule failure
// surfaced by the application layer carries one of these codes.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeStateViolation     = "STATE_VIOLATION"
	CodeInvariantViolation = "INVARIANT_VIOLATION"
	CodeDependencyConflict = "DEPENDENCY_CONFLICT"
	CodeUpstreamFailure    = "UPSTREAM_FAILURE"
	CodePartialApply       = "PARTIAL_APPLY_FAILURE"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
)

// DomainError represents a domain-level error with a machine-readable code
// and structured details the caller can use to correct the request.
type DomainError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WithDetail attaches a structured detail field and returns the error
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewNotFound reports that a referenced entity does not exist
func NewNotFound(entity, key string) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %q not found", entity, key)).
		WithDetail("entity", entity).
		WithDetail("key", key)
}

// NewAlreadyExists reports a duplicate unique key
func NewAlreadyExists(entity, key string) *DomainError {
	return NewDomainError(CodeAlreadyExists, fmt.Sprintf("%s %q already exists", entity, key)).
		WithDetail("entity", entity).
		WithDetail("key", key)
}

// NewStateViolation reports an illegal lifecycle transition
func NewStateViolation(entity, from, to string) *DomainError {
	return NewDomainError(CodeStateViolation, fmt.Sprintf("%s cannot transition from %s to %s", entity, from, to)).
		WithDetail("entity", entity).
		WithDetail("from", from).
		WithDetail("to", to)
}

// NewInvariantViolation reports a broken cross-row invariant, e.g. a ledger overflow
func NewInvariantViolation(kind, detail string) *DomainError {
	return NewDomainError(CodeInvariantViolation, detail).
		WithDetail("kind", kind)
}

// NewDependencyConflict reports a delete blocked by dependent rows
func NewDependencyConflict(entity string, count int64, dependentKind string) *DomainError {
	return NewDomainError(CodeDependencyConflict,
		fmt.Sprintf("%s cannot be deleted: %d %s depend on it", entity, count, dependentKind)).
		WithDetail("entity", entity).
		WithDetail("dependents", count).
		WithDetail("dependent_kind", dependentKind)
}

// NewUpstreamFailure wraps an infrastructure failure from the store gateway.
// The cause is kept in details; the message stays generic.
func NewUpstreamFailure(cause error) *DomainError {
	e := NewDomainError(CodeUpstreamFailure, "data store request failed")
	if cause != nil {
		e.WithDetail("cause", cause.Error())
	}
	return e
}

// NewPartialApplyFailure reports that a multi-write sequence committed its
// first write but failed the second, leaving the system in a known
// inconsistent intermediate state.
func NewPartialApplyFailure(committed, pending string, cause error) *DomainError {
	e := NewDomainError(CodePartialApply,
		fmt.Sprintf("%s was written but the follow-up %s update failed; state is inconsistent", committed, pending)).
		WithDetail("committed", committed).
		WithDetail("pending", pending)
	if cause != nil {
		e.WithDetail("cause", cause.Error())
	}
	return e
}

// IsCode reports whether err is a DomainError carrying the given code
func IsCode(err error, code string) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == code
}

// Common domain errors
var (
	ErrUnauthorized = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden    = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrEmptyPatch   = NewDomainError(CodeInvalidInput, "No fields provided to update")
)
