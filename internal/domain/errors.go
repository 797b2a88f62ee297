package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")

	// ErrBidRejected is wrapped by every BidRejectedError.
	ErrBidRejected = errors.New("bid rejected")

	// ErrInvariantViolation signals state that must never exist
	// (extension counter above its limit, closing time moving backward).
	ErrInvariantViolation = errors.New("invariant violation")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// RejectCode classifies why a bid was not accepted.
type RejectCode string

const (
	RejectInvalidAmount RejectCode = "INVALID_AMOUNT"
	RejectBelowMinimum  RejectCode = "BELOW_MINIMUM"
	RejectNotAvailable  RejectCode = "NOT_AVAILABLE"
)

func (c RejectCode) String() string { return string(c) }

// BidRejectedError is an expected, user-facing rejection. Reason is safe to
// display as is. Minimum is set when the rejection is price related.
type BidRejectedError struct {
	Code    RejectCode
	Reason  string
	Minimum *decimal.Decimal
}

func (e *BidRejectedError) Error() string {
	return fmt.Sprintf("bid rejected: %s", e.Reason)
}

func (e *BidRejectedError) Unwrap() error { return ErrBidRejected }

// NewBelowMinimumError builds the rejection shown when an amount does not
// reach the next allowed bid.
func NewBelowMinimumError(minimum decimal.Decimal) *BidRejectedError {
	m := minimum
	return &BidRejectedError{
		Code:    RejectBelowMinimum,
		Reason:  fmt.Sprintf("Minimum bid is $%s", minimum.StringFixed(2)),
		Minimum: &m,
	}
}

// NewAboveMaximumError builds the rejection for amounts the price column
// cannot hold. It still carries the minimum next bid.
func NewAboveMaximumError(maximum, minimum decimal.Decimal) *BidRejectedError {
	m := minimum
	return &BidRejectedError{
		Code:    RejectInvalidAmount,
		Reason:  fmt.Sprintf("Maximum bid is $%s", maximum.StringFixed(2)),
		Minimum: &m,
	}
}

// NewNotAvailableError builds the rejection for lots or auctions that are not
// accepting bids.
func NewNotAvailableError() *BidRejectedError {
	return &BidRejectedError{
		Code:   RejectNotAvailable,
		Reason: "not available for bidding",
	}
}
