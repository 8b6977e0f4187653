package ledger

import (
	"fmt"

	"batch-ledger/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FeePolicy decides what happens when a balance cannot cover its fee.
type FeePolicy string

const (
	// FeeSkip leaves the balance untouched and reports the account fee-exempt.
	FeeSkip FeePolicy = "skip"
	// FeeZero drains the balance to 0.00 instead.
	FeeZero FeePolicy = "zero"
)

// FeeAssessor deducts the end-of-batch per-transaction fees.
type FeeAssessor struct {
	policy FeePolicy
	logger *zap.Logger
}

// NewFeeAssessor creates a fee assessor.
func NewFeeAssessor(policy FeePolicy, logger *zap.Logger) *FeeAssessor {
	if policy == "" {
		policy = FeeSkip
	}
	return &FeeAssessor{policy: policy, logger: logger}
}

// Assess charges rate × transaction_count to every account in table.
// Plans are validated for every account before any balance changes; an
// unknown plan is a fatal error.
func (f *FeeAssessor) Assess(table *Table) (domain.Fees, error) {
	fees := domain.Fees{
		Total:     decimal.Zero,
		Charges:   make([]domain.FeeCharge, 0),
		FeeExempt: make([]string, 0),
	}

	accounts := table.Accounts()
	rates := make(map[string]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		rate, err := a.Plan.FeeRate()
		if err != nil {
			return domain.Fees{}, fmt.Errorf("account %s: %w", a.Number, err)
		}
		rates[a.Number] = rate
	}

	for _, a := range accounts {
		if a.TransactionCount == 0 {
			continue
		}
		account, _ := table.get(a.Number)
		fee := rates[a.Number].Mul(decimal.NewFromInt(int64(a.TransactionCount)))

		if account.Balance.Sub(fee).IsNegative() {
			if f.policy == FeeZero {
				charged := account.Balance
				account.Balance = decimal.Zero
				fees.Total = fees.Total.Add(charged)
				fees.Charges = append(fees.Charges, domain.FeeCharge{Account: a.Number, Fee: charged, Clamped: true})
				f.logger.Warn("fee exceeds balance, balance set to zero",
					zap.String("account", a.Number),
					zap.String("fee", fee.StringFixed(2)),
					zap.String("charged", charged.StringFixed(2)),
				)
				continue
			}
			fees.FeeExempt = append(fees.FeeExempt, a.Number)
			f.logger.Warn("fee exceeds balance, fee skipped",
				zap.String("account", a.Number),
				zap.String("fee", fee.StringFixed(2)),
				zap.String("balance", account.Balance.StringFixed(2)),
			)
			continue
		}

		account.Balance = account.Balance.Sub(fee)
		fees.Total = fees.Total.Add(fee)
		fees.Charges = append(fees.Charges, domain.FeeCharge{Account: a.Number, Fee: fee})
	}

	return fees, nil
}
