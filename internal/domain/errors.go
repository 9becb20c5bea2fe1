package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals a malformed search request.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUnauthorized signals a missing or invalid identity token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrQuotaExceeded signals an exhausted daily query allowance.
	ErrQuotaExceeded = errors.New("daily query limit reached")
	// ErrStore signals a relational store or counter store failure.
	ErrStore = errors.New("store error")
	// ErrSynthesisUnavailable signals that no answer could be produced.
	// It never leaves the synthesis stage.
	ErrSynthesisUnavailable = errors.New("synthesis unavailable")
)

// QuotaMessage is the client-facing text for ErrQuotaExceeded.
const QuotaMessage = "Daily query limit reached. Upgrade to Pro for unlimited queries."

// StoreError wraps ErrStore with the failing operation for operators.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStore.Error(), e.Op, e.Err)
}

// Unwrap exposes both the sentinel and the driver error.
func (e *StoreError) Unwrap() []error { return []error{ErrStore, e.Err} }

// NewStoreError creates a StoreError. Returns nil when err is nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
