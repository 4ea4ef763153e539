package service

import (
	"errors"
	"fmt"

	"inventory-service/internal/model"
	"inventory-service/internal/store"

	"github.com/shopspring/decimal"
)

// Code classifies a service failure
type Code string

const (
	CodeNotFound   Code = "NOT_FOUND"
	CodeValidation Code = "VALIDATION"
	CodeConflict   Code = "CONFLICT"
	CodeStore      Code = "STORE"
)

// Error is the typed failure returned by every service operation
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of err, or CodeStore for untyped errors
func CodeOf(err error) Code {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Code
	}
	return CodeStore
}

// MessageOf returns the caller-facing message of err
func MessageOf(err error) string {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Message
	}
	return "Internal error"
}

func validationError(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// checkPrice rejects negative amounts and amounts the money columns would
// round on write.
func checkPrice(field string, price decimal.Decimal) error {
	if price.IsNegative() {
		return validationError("%s must not be negative", field)
	}
	if !price.Equal(price.Round(model.MoneyScale)) {
		return validationError("%s must have at most %d decimal places", field, model.MoneyScale)
	}
	return nil
}

func notFound(kind model.EntityKind, id uint) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %d not found", kind.Title(), id),
		Err:     store.ErrNotFound,
	}
}

// storeError classifies a store failure of the operation described by what.
func storeError(what string, err error) *Error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return &Error{Code: CodeNotFound, Message: what + ": not found", Err: err}
	case errors.Is(err, store.ErrDuplicate):
		return &Error{Code: CodeConflict, Message: what + ": already exists", Err: err}
	}
	return &Error{Code: CodeStore, Message: "Failed to " + what, Err: err}
}

// entityError is storeError with the entity-specific not-found message.
func entityError(kind model.EntityKind, id uint, what string, err error) *Error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound(kind, id)
	}
	return storeError(what, err)
}
