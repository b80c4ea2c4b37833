package ledger

import (
	"errors"
	"fmt"

	"wallet/internal/core"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("transaction not found")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %v", ErrValidation, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", ErrValidation, e.Field, e.Err)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// InsufficientFundsError reports a change that would take the available
// balance below zero.
type InsufficientFundsError struct {
	Requested core.Money
	Available core.Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%v: requested %s, available %s", ErrInsufficientFunds, e.Requested, e.Available)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// NotFoundError reports an update aimed at an unknown id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %q", ErrNotFound, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// asValidation converts a core field error into a ValidationError.
func asValidation(err error) error {
	var fe *core.FieldError
	if errors.As(err, &fe) {
		return &ValidationError{Field: fe.Field, Err: fe.Err}
	}
	return &ValidationError{Err: err}
}
