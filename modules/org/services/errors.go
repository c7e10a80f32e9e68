package services

import (
	"fmt"
	"net/http"
)

// StatusError is implemented by every expected failure the org services
// return. Controllers translate Status/Code into the API payload; nothing in
// this package panics on a denied or invalid request.
type StatusError interface {
	error
	HTTPStatus() int
	ErrorCode() string
}

// ValidationError reports a bad or missing attribute. Caller's fault,
// surfaced as a client error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) HTTPStatus() int   { return http.StatusBadRequest }
func (e *ValidationError) ErrorCode() string { return "ORG_INVALID_BODY" }

// StructuralError reports a tree-invariant violation: type-rank mismatch,
// a second root, malformed bounds. Fatal to the enclosing mutation.
type StructuralError struct {
	Message string
}

func (e *StructuralError) Error() string     { return e.Message }
func (e *StructuralError) HTTPStatus() int   { return http.StatusUnprocessableEntity }
func (e *StructuralError) ErrorCode() string { return "ORG_STRUCTURE" }

// NoGrantingOfficeError means the officer holds no office at all, or none of
// the held offices carries the required permission.
type NoGrantingOfficeError struct {
	UserID     int64
	Permission string
}

func (e *NoGrantingOfficeError) Error() string {
	return fmt.Sprintf("user %d holds no office granting %s", e.UserID, e.Permission)
}

func (e *NoGrantingOfficeError) HTTPStatus() int   { return http.StatusForbidden }
func (e *NoGrantingOfficeError) ErrorCode() string { return "ORG_NO_GRANTING_OFFICE" }

// ChainNotFoundError means the officer holds granting offices, but none of
// their domains covers the target.
type ChainNotFoundError struct {
	Permission string
	Target     string
}

func (e *ChainNotFoundError) Error() string {
	return fmt.Sprintf("no authority chain from granting offices to %s for %s", e.Target, e.Permission)
}

func (e *ChainNotFoundError) HTTPStatus() int   { return http.StatusForbidden }
func (e *ChainNotFoundError) ErrorCode() string { return "ORG_CHAIN_NOT_FOUND" }

// NotInChainError means the target office is unit-bound and therefore not
// part of an office-authority chain.
type NotInChainError struct {
	OfficeID int64
}

func (e *NotInChainError) Error() string {
	return fmt.Sprintf("office %d is not part of an authority chain", e.OfficeID)
}

func (e *NotInChainError) HTTPStatus() int   { return http.StatusForbidden }
func (e *NotInChainError) ErrorCode() string { return "ORG_NOT_IN_CHAIN" }

// ChainCycleError reports an office whose parentOfficeID chain loops back
// onto itself.
type ChainCycleError struct {
	OfficeID int64
}

func (e *ChainCycleError) Error() string {
	return fmt.Sprintf("office authority chain cycles at office %d", e.OfficeID)
}

func (e *ChainCycleError) HTTPStatus() int   { return http.StatusUnprocessableEntity }
func (e *ChainCycleError) ErrorCode() string { return "ORG_CHAIN_CYCLE" }

// HasChildrenError blocks deletion of a unit that still has child units.
type HasChildrenError struct {
	UnitID int64
}

func (e *HasChildrenError) Error() string {
	return fmt.Sprintf("unit %d still has child units", e.UnitID)
}

func (e *HasChildrenError) HTTPStatus() int   { return http.StatusConflict }
func (e *HasChildrenError) ErrorCode() string { return "ORG_HAS_CHILDREN" }

// NotFoundError reports a unit, office, or user lookup miss.
type NotFoundError struct {
	Kind string
	Ref  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Ref)
}

func (e *NotFoundError) HTTPStatus() int   { return http.StatusNotFound }
func (e *NotFoundError) ErrorCode() string { return "ORG_NOT_FOUND" }

// NoParentError means a non-root unit unexpectedly has no parent during
// reassignment. Broken invariant: the transaction rolls back and the caller
// sees a server error.
type NoParentError struct {
	UnitID int64
}

func (e *NoParentError) Error() string {
	return fmt.Sprintf("unit %d has no parent to reassign to", e.UnitID)
}

func (e *NoParentError) HTTPStatus() int   { return http.StatusInternalServerError }
func (e *NoParentError) ErrorCode() string { return "ORG_NO_PARENT" }

// ConcurrentModificationError wraps a transaction conflict. The whole
// operation is safe to retry once.
type ConcurrentModificationError struct {
	Cause error
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("concurrent structural modification: %v", e.Cause)
}

func (e *ConcurrentModificationError) Unwrap() error     { return e.Cause }
func (e *ConcurrentModificationError) HTTPStatus() int   { return http.StatusConflict }
func (e *ConcurrentModificationError) ErrorCode() string { return "ORG_CONFLICT_RETRY" }
