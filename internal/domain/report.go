package domain

import "github.com/shopspring/decimal"

// Rejection describes one record the batch skipped.
type Rejection struct {
	Line    int    `json:"line"`
	Code    string `json:"code,omitempty"`
	Account string `json:"account,omitempty"`
	Reason  string `json:"reason"`
}

// FeeCharge records a fee deducted (or clamped) for one account.
type FeeCharge struct {
	Account string          `json:"account"`
	Fee     decimal.Decimal `json:"fee"`
	Clamped bool            `json:"clamped,omitempty"`
}

// Summary provides high-level statistics of the settlement run.
type Summary struct {
	RunID                string `json:"run_id"`
	AccountsRead         int    `json:"accounts_read"`
	TransactionsRead     int    `json:"transactions_read"`
	Sessions             int    `json:"sessions"`
	TransactionsApplied  int    `json:"transactions_applied"`
	TransactionsRejected int    `json:"transactions_rejected"`
	MalformedLines       int    `json:"malformed_lines"`
	AccountsWritten      int    `json:"accounts_written"`
}

// Fees holds the outcome of end-of-batch fee assessment.
type Fees struct {
	Total     decimal.Decimal `json:"total"`
	Charges   []FeeCharge     `json:"charges"`
	FeeExempt []string        `json:"fee_exempt"`
}

// SettlementReport is the top-level structure for the final JSON output.
type SettlementReport struct {
	Summary    Summary     `json:"summary"`
	Rejections []Rejection `json:"rejections"`
	Malformed  []Rejection `json:"malformed"`
	Fees       Fees        `json:"fees"`
}
