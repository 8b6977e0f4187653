package domain

import (
	"errors"
	"fmt"
)

// Record-level errors. The offending record is skipped and the batch continues.
var (
	ErrMalformedRecord         = errors.New("malformed record")
	ErrNotFound                = errors.New("account not found")
	ErrDuplicateAccount        = errors.New("account already exists")
	ErrAccountDisabled         = errors.New("account is disabled")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrSameAccount             = errors.New("from and to are the same account")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrBalanceLimit            = errors.New("balance limit exceeded")
	ErrInvalidCompany          = errors.New("invalid company code")
	ErrInvalidPlan             = errors.New("invalid plan")
	ErrPlanUnchanged           = errors.New("plan unchanged")
	ErrInvalidName             = errors.New("invalid account name")
	ErrSessionLimit            = errors.New("session limit exceeded")
	ErrAccountNumbersExhausted = errors.New("no account numbers left")
	ErrFieldOverflow           = errors.New("value does not fit its column")
)

// Fatal errors abort the whole batch before any output is written.
var (
	ErrUnknownTransactionCode = errors.New("unknown transaction code")
	ErrUnknownPlan            = errors.New("unknown plan")
)

// IsFatal reports whether err must abort the batch.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnknownTransactionCode) || errors.Is(err, ErrUnknownPlan)
}

// RecordError ties a decode failure to its input line.
type RecordError struct {
	Line int
	Raw  string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
