package services

import (
	"errors"
	"fmt"
)

// Domain errors surfaced to callers as structured rejections. Anything
// else bubbling out of a service is a persistence failure: the compound
// writes guarantee it left no partial effect, and controllers surface it
// as a generic internal error without storage detail.
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrSupplierNotFound    = errors.New("supplier not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
)

// ValidationError carries field-level failures for malformed input.
// Nothing is mutated when one is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid field(s)", len(e.Fields))
}

// NewValidationError builds a ValidationError from a field→message map.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}
