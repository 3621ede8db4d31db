package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the request conflicts with the current state of a resource.
var ErrConflict = errors.New("resource conflict")

// UnbalancedError is returned when a candidate journal entry's debit total
// does not equal its credit total. Both totals are carried so the caller can
// surface the discrepancy.
type UnbalancedError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("unbalanced entry: debits %s must equal credits %s", e.TotalDebit, e.TotalCredit)
}

// Is lets callers match with errors.Is(err, ErrValidation).
func (e *UnbalancedError) Is(target error) bool { return target == ErrValidation }

// UnknownAccountError is returned when a journal item references an account
// that does not exist.
type UnknownAccountError struct {
	Reference string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("unknown account: %s", e.Reference)
}

func (e *UnknownAccountError) Is(target error) bool { return target == ErrNotFound }

// InvalidAmountError is returned before any validation arithmetic runs when
// a debit or credit value is negative, or when a line carries neither.
type InvalidAmountError struct {
	Reference string // account reference, or line position when no account is known
	Reason    string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount on line %s: %s", e.Reference, e.Reason)
}

func (e *InvalidAmountError) Is(target error) bool { return target == ErrValidation }

// StorageError wraps a failure of the durable store. The posting engine's
// contract guarantees the surrounding transaction was fully rolled back, so
// the caller may safely retry the whole operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err as a StorageError for the given operation.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
