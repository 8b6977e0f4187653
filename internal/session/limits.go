// Package session tracks the per-session daily caps a standard user is held to.
// A SessionLimits value lives for exactly one session; start a new one with
// NewSession instead of resetting shared state.
package session

import (
	"fmt"
	"strings"

	"batch-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// Limits are the caps applied to one session.
type Limits struct {
	Withdrawal decimal.Decimal
	Transfer   decimal.Decimal
	PayBill    decimal.Decimal
	MaxBalance decimal.Decimal
}

// DefaultLimits returns the standard-session caps.
func DefaultLimits() Limits {
	return Limits{
		Withdrawal: decimal.NewFromInt(500),
		Transfer:   decimal.NewFromInt(1000),
		PayBill:    decimal.NewFromInt(2000),
		MaxBalance: domain.MaxBalance,
	}
}

// SessionLimits accumulates what a single session has moved so far.
type SessionLimits struct {
	limits      Limits
	withdrawn   decimal.Decimal
	transferred decimal.Decimal
	paid        decimal.Decimal
	deposited   decimal.Decimal
}

// NewSession starts a session with nothing spent.
func NewSession(limits Limits) *SessionLimits {
	return &SessionLimits{limits: limits}
}

// CheckWithdrawal reports whether amount fits under the withdrawal cap.
func (s *SessionLimits) CheckWithdrawal(amount decimal.Decimal) error {
	return checkCap("withdrawal", s.withdrawn, amount, s.limits.Withdrawal)
}

// CheckTransfer reports whether amount fits under the transfer cap.
func (s *SessionLimits) CheckTransfer(amount decimal.Decimal) error {
	return checkCap("transfer", s.transferred, amount, s.limits.Transfer)
}

// CheckPayBill reports whether amount fits under the bill payment cap.
func (s *SessionLimits) CheckPayBill(amount decimal.Decimal) error {
	return checkCap("pay bill", s.paid, amount, s.limits.PayBill)
}

// RecordWithdrawal adds amount to the session's withdrawals.
func (s *SessionLimits) RecordWithdrawal(amount decimal.Decimal) error {
	if err := s.CheckWithdrawal(amount); err != nil {
		return err
	}
	s.withdrawn = s.withdrawn.Add(amount)
	return nil
}

// RecordTransfer adds amount to the session's transfers.
func (s *SessionLimits) RecordTransfer(amount decimal.Decimal) error {
	if err := s.CheckTransfer(amount); err != nil {
		return err
	}
	s.transferred = s.transferred.Add(amount)
	return nil
}

// RecordPayBill adds amount to the session's bill payments.
func (s *SessionLimits) RecordPayBill(amount decimal.Decimal) error {
	if err := s.CheckPayBill(amount); err != nil {
		return err
	}
	s.paid = s.paid.Add(amount)
	return nil
}

// RecordDeposit tracks money deposited during the session. Deposits are not capped.
func (s *SessionLimits) RecordDeposit(amount decimal.Decimal) {
	s.deposited = s.deposited.Add(amount)
}

// Deposited returns the funds deposited during the session.
func (s *SessionLimits) Deposited() decimal.Decimal {
	return s.deposited
}

// ValidateAmount checks 0 <= amount <= MaxBalance.
func (s *SessionLimits) ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s is negative", domain.ErrInvalidAmount, amount.StringFixed(2))
	}
	if amount.GreaterThan(s.limits.MaxBalance) {
		return fmt.Errorf("%w: %s exceeds %s", domain.ErrInvalidAmount, amount.StringFixed(2), s.limits.MaxBalance.StringFixed(2))
	}
	return nil
}

// ValidateName checks the holder name fits its column and is not the
// reserved END_OF_FILE sentinel name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", domain.ErrInvalidName)
	}
	if strings.EqualFold(name, domain.EndOfFileName) {
		return fmt.Errorf("%w: %q is reserved", domain.ErrInvalidName, name)
	}
	if len(name) > domain.NameWidth {
		return fmt.Errorf("%w: %q is longer than %d characters", domain.ErrInvalidName, name, domain.NameWidth)
	}
	return nil
}

func checkCap(kind string, used, amount, limit decimal.Decimal) error {
	if used.Add(amount).GreaterThan(limit) {
		return fmt.Errorf("%w: %s of %s would bring the session total past %s",
			domain.ErrSessionLimit, kind, amount.StringFixed(2), limit.StringFixed(2))
	}
	return nil
}
