package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountWidth is the width of every on-disk money field (NNNNN.NN).
const AmountWidth = 8

var (
	// MaxBalance is the largest balance an account may hold.
	MaxBalance = decimal.RequireFromString("99999.99")

	amountPattern = regexp.MustCompile(`^[0-9]{5}\.[0-9]{2}$`)
)

// ParseAmount decodes a fixed NNNNN.NN money field.
func ParseAmount(s string) (decimal.Decimal, error) {
	if !amountPattern.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: amount %q does not match NNNNN.NN", ErrMalformedRecord, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q: %v", ErrMalformedRecord, s, err)
	}
	return d, nil
}

// FormatAmount renders a non-negative amount as NNNNN.NN, rounding to cents.
func FormatAmount(d decimal.Decimal) (string, error) {
	if d.IsNegative() {
		return "", fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d.String())
	}
	s := d.Round(2).StringFixed(2)
	if len(s) > AmountWidth {
		return "", fmt.Errorf("%w: amount %s exceeds %d columns", ErrFieldOverflow, s, AmountWidth)
	}
	return strings.Repeat("0", AmountWidth-len(s)) + s, nil
}

// WithinBalanceRange reports whether 0.00 <= d <= MaxBalance.
func WithinBalanceRange(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(MaxBalance)
}
