package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionCode identifies the kind of a transaction record.
type TransactionCode string

const (
	CodeEndOfSession TransactionCode = "00"
	CodeWithdrawal   TransactionCode = "01"
	CodePayBill      TransactionCode = "03"
	CodeDeposit      TransactionCode = "04"
	CodeCreate       TransactionCode = "05"
	CodeDelete       TransactionCode = "06"
	CodeDisable      TransactionCode = "07"
	CodeChangePlan   TransactionCode = "08"
)

var codeNames = map[TransactionCode]string{
	CodeEndOfSession: "end_of_session",
	CodeWithdrawal:   "withdrawal",
	CodePayBill:      "pay_bill",
	CodeDeposit:      "deposit",
	CodeCreate:       "create",
	CodeDelete:       "delete",
	CodeDisable:      "disable",
	CodeChangePlan:   "change_plan",
}

// String returns the human readable name of the code.
func (c TransactionCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown(" + string(c) + ")"
}

// ParseTransactionCode maps the two-character code column to a known code.
// Non-numeric columns are malformed records; numeric but unrecognized codes are fatal.
func ParseTransactionCode(s string) (TransactionCode, error) {
	if len(s) != 2 || !IsDigits(s) {
		return "", fmt.Errorf("%w: transaction code %q", ErrMalformedRecord, s)
	}
	code := TransactionCode(s)
	if _, ok := codeNames[code]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTransactionCode, s)
	}
	return code, nil
}

// CompanyCode is a bill payee accepted by pay-bill records.
type CompanyCode string

const (
	CompanyElectric CompanyCode = "EC"
	CompanyCredit   CompanyCode = "CQ"
	CompanyInternet CompanyCode = "FI"
)

// Valid reports whether c is an authorized payee.
func (c CompanyCode) Valid() bool {
	switch c {
	case CompanyElectric, CompanyCredit, CompanyInternet:
		return true
	}
	return false
}

// Transaction is one decoded line of the merged transaction file.
type Transaction struct {
	Code          TransactionCode `json:"code"`
	ActorName     string          `json:"actor_name"`
	AccountNumber string          `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
	Misc          string          `json:"misc"`

	// Position in the input, for reporting.
	Line    int `json:"line"`
	Session int `json:"session"`
}

// TransactionStream is the decoded merged transaction file.
type TransactionStream struct {
	Transactions []Transaction
	Sessions     int
	Rejected     []*RecordError
}

// AccountSnapshot is the decoded prior master accounts file.
type AccountSnapshot struct {
	Accounts []Account
	Rejected []*RecordError
}

// Snapshot is the post-batch state handed to the writer.
// Accounts are in ascending account number order.
type Snapshot struct {
	Accounts       []Account
	SentinelNumber string
}
