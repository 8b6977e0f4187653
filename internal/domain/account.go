package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// AccountNumberWidth is the fixed width of an account number on disk.
	AccountNumberWidth = 5
	// MaxAccountNumber is the largest number that fits the account number field.
	MaxAccountNumber = 99999
	// FirstAllocatableNumber is where new account numbers start.
	FirstAllocatableNumber = 1000
	// NameWidth is the fixed width of the account holder name column.
	NameWidth = 20
	// MaxTransactionCount is the largest count the 4-digit field can hold.
	MaxTransactionCount = 9999

	// EndOfFileName marks the sentinel record that terminates every snapshot.
	EndOfFileName = "END_OF_FILE"
)

// AccountStatus is the lifecycle state of a live account.
type AccountStatus string

const (
	StatusActive   AccountStatus = "A"
	StatusDisabled AccountStatus = "D"
)

// Valid reports whether s is a known status code.
func (s AccountStatus) Valid() bool {
	return s == StatusActive || s == StatusDisabled
}

// Plan is the fee classification of an account.
type Plan string

const (
	PlanNormal  Plan = "NP"
	PlanStudent Plan = "SP"
)

var (
	studentFeeRate = decimal.RequireFromString("0.05")
	normalFeeRate  = decimal.RequireFromString("0.10")
)

// Valid reports whether p is NP or SP.
func (p Plan) Valid() bool {
	return p == PlanNormal || p == PlanStudent
}

// FeeRate returns the per-transaction fee for the plan.
func (p Plan) FeeRate() (decimal.Decimal, error) {
	switch p {
	case PlanStudent:
		return studentFeeRate, nil
	case PlanNormal:
		return normalFeeRate, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownPlan, string(p))
	}
}

// Account is one row of the master accounts snapshot.
type Account struct {
	Number           string          `json:"account_number"`
	Name             string          `json:"name"`
	Status           AccountStatus   `json:"status"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transaction_count"`
	Plan             Plan            `json:"plan"`
}

// IsActive reports whether the account accepts money movement.
func (a Account) IsActive() bool {
	return a.Status == StatusActive
}

// NormalizeName case-folds a holder name the way it is stored.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FormatAccountNumber renders n as a zero-padded 5-digit account number.
func FormatAccountNumber(n int) (string, error) {
	if n < 0 || n > MaxAccountNumber {
		return "", fmt.Errorf("%w: account number %d", ErrFieldOverflow, n)
	}
	return fmt.Sprintf("%05d", n), nil
}

// ParseAccountNumber validates a 5-digit account number and returns its value.
func ParseAccountNumber(s string) (int, error) {
	if len(s) != AccountNumberWidth || !IsDigits(s) {
		return 0, fmt.Errorf("%w: account number %q is not %d digits", ErrMalformedRecord, s, AccountNumberWidth)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: account number %q: %v", ErrMalformedRecord, s, err)
	}
	return n, nil
}

// IsDigits reports whether s is non-empty and made only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
