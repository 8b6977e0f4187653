package gateway

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"batch-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// Column layout of a master account line:
//
//	NNNNN NAME_PADDED_TO_20_CHARS S BBBBB.BB CCCC PP
const (
	accountNumberEnd = 5
	accountNameStart = 6
	accountNameEnd   = 26
	accountStatusCol = 27
	accountBalStart  = 29
	accountBalEnd    = 37
	accountCountFrom = 38
	accountCountEnd  = 42
	accountPlanStart = 43
)

// Column layout of a transaction line:
//
//	CC NAME_PADDED_TO_20_CHARS NNNNN AAAAA.AA MM
const (
	txCodeEnd      = 2
	txNameStart    = 3
	txNameEnd      = 23
	txAccountStart = 24
	txAccountEnd   = 29
	txAmountStart  = 30
	txAmountEnd    = 38
	txMiscStart    = 39
	txMiscWidth    = 2
)

// errEndOfSnapshot signals the END_OF_FILE sentinel line.
var errEndOfSnapshot = errors.New("end of snapshot")

// Codec encodes and decodes the fixed-width account and transaction lines.
type Codec struct {
	fill byte
}

// NewCodec creates a codec that pads names with fill. A zero fill means space.
func NewCodec(fill byte) *Codec {
	if fill == 0 {
		fill = ' '
	}
	return &Codec{fill: fill}
}

// DecodeAccountLine parses one master accounts line.
// It returns errEndOfSnapshot for the sentinel record.
func (c *Codec) DecodeAccountLine(line string) (domain.Account, error) {
	line = strings.TrimRight(line, "\r\n")

	// Stored names are lower case, so only the upper-case sentinel ends the file.
	if len(line) >= accountNameEnd && c.trimName(line[accountNameStart:accountNameEnd]) == domain.EndOfFileName {
		return domain.Account{}, errEndOfSnapshot
	}
	if len(line) < accountCountEnd {
		return domain.Account{}, fmt.Errorf("%w: account line is %d columns, need at least %d", domain.ErrMalformedRecord, len(line), accountCountEnd)
	}

	number := line[:accountNumberEnd]
	if _, err := domain.ParseAccountNumber(number); err != nil {
		return domain.Account{}, err
	}

	status := domain.AccountStatus(line[accountStatusCol : accountStatusCol+1])
	if !status.Valid() {
		return domain.Account{}, fmt.Errorf("%w: status %q", domain.ErrMalformedRecord, string(status))
	}

	balance, err := domain.ParseAmount(line[accountBalStart:accountBalEnd])
	if err != nil {
		return domain.Account{}, err
	}

	countField := line[accountCountFrom:accountCountEnd]
	if !domain.IsDigits(countField) {
		return domain.Account{}, fmt.Errorf("%w: transaction count %q", domain.ErrMalformedRecord, countField)
	}
	count, _ := strconv.Atoi(countField)

	plan := domain.PlanNormal
	if len(line) > accountPlanStart {
		if token := strings.TrimSpace(line[accountPlanStart:]); token != "" {
			plan = domain.Plan(token)
		}
	}

	return domain.Account{
		Number:           number,
		Name:             domain.NormalizeName(c.trimName(line[accountNameStart:accountNameEnd])),
		Status:           status,
		Balance:          balance,
		TransactionCount: count,
		Plan:             plan,
	}, nil
}

// EncodeAccountLine renders a master accounts line.
func (c *Codec) EncodeAccountLine(a domain.Account) (string, error) {
	head, err := c.accountHead(a.Number, domain.NormalizeName(a.Name), a.Status, a.Balance)
	if err != nil {
		return "", err
	}
	if a.TransactionCount < 0 || a.TransactionCount > domain.MaxTransactionCount {
		return "", fmt.Errorf("%w: transaction count %d", domain.ErrFieldOverflow, a.TransactionCount)
	}
	return fmt.Sprintf("%s %04d %s", head, a.TransactionCount, planToken(a.Plan)), nil
}

// EncodeCurrentAccountLine renders a current accounts line (no transaction count).
func (c *Codec) EncodeCurrentAccountLine(a domain.Account) (string, error) {
	head, err := c.accountHead(a.Number, domain.NormalizeName(a.Name), a.Status, a.Balance)
	if err != nil {
		return "", err
	}
	return head + " " + planToken(a.Plan), nil
}

// EncodeSentinelLine renders the END_OF_FILE master record for number.
func (c *Codec) EncodeSentinelLine(number string) (string, error) {
	head, err := c.accountHead(number, domain.EndOfFileName, domain.StatusActive, decimal.Zero)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %04d %s", head, 0, domain.PlanNormal), nil
}

// EncodeCurrentSentinelLine renders the END_OF_FILE current accounts record.
func (c *Codec) EncodeCurrentSentinelLine(number string) (string, error) {
	head, err := c.accountHead(number, domain.EndOfFileName, domain.StatusActive, decimal.Zero)
	if err != nil {
		return "", err
	}
	return head + " " + string(domain.PlanNormal), nil
}

func (c *Codec) accountHead(number, name string, status domain.AccountStatus, balance decimal.Decimal) (string, error) {
	if _, err := domain.ParseAccountNumber(number); err != nil {
		return "", err
	}
	if !status.Valid() {
		return "", fmt.Errorf("%w: status %q", domain.ErrMalformedRecord, string(status))
	}
	amount, err := domain.FormatAmount(balance)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s %s", number, c.padName(name), status, amount), nil
}

// DecodeTransactionLine parses one transaction line. End-of-session lines
// decode to a transaction with CodeEndOfSession and no other fields.
func (c *Codec) DecodeTransactionLine(line string) (domain.Transaction, error) {
	line = strings.TrimRight(line, "\r\n")

	if strings.HasPrefix(line, string(domain.CodeEndOfSession)) {
		return domain.Transaction{Code: domain.CodeEndOfSession}, nil
	}
	if len(line) < txAmountEnd {
		return domain.Transaction{}, fmt.Errorf("%w: transaction line is %d columns, need at least %d", domain.ErrMalformedRecord, len(line), txAmountEnd)
	}

	code, err := domain.ParseTransactionCode(line[:txCodeEnd])
	if err != nil {
		return domain.Transaction{}, err
	}

	account := line[txAccountStart:txAccountEnd]
	if _, err := domain.ParseAccountNumber(account); err != nil {
		return domain.Transaction{}, err
	}

	amount, err := domain.ParseAmount(line[txAmountStart:txAmountEnd])
	if err != nil {
		return domain.Transaction{}, err
	}

	var misc string
	if len(line) > txMiscStart {
		misc = strings.TrimSpace(line[txMiscStart:])
	}

	return domain.Transaction{
		Code:          code,
		ActorName:     domain.NormalizeName(c.trimName(line[txNameStart:txNameEnd])),
		AccountNumber: account,
		Amount:        amount,
		Misc:          misc,
	}, nil
}

// EncodeTransactionLine renders a transaction line the way the front end logs it.
func (c *Codec) EncodeTransactionLine(tx domain.Transaction) (string, error) {
	if tx.Code == domain.CodeEndOfSession {
		return c.EndOfSessionLine(), nil
	}
	if _, err := domain.ParseTransactionCode(string(tx.Code)); err != nil {
		return "", err
	}
	if _, err := domain.ParseAccountNumber(tx.AccountNumber); err != nil {
		return "", err
	}
	amount, err := domain.FormatAmount(tx.Amount)
	if err != nil {
		return "", err
	}
	misc := tx.Misc
	if len(misc) > txMiscWidth {
		misc = misc[:txMiscWidth]
	}
	return fmt.Sprintf("%s %s %s %s %-2s", tx.Code, c.padName(domain.NormalizeName(tx.ActorName)), tx.AccountNumber, amount, misc), nil
}

// EndOfSessionLine is the record the front end appends at logout.
func (c *Codec) EndOfSessionLine() string {
	return string(domain.CodeEndOfSession) + strings.Repeat(" ", txAccountStart-txCodeEnd) + "00000 00000.00 00"
}

func (c *Codec) padName(name string) string {
	if len(name) > domain.NameWidth {
		return name[:domain.NameWidth]
	}
	return name + strings.Repeat(string(c.fill), domain.NameWidth-len(name))
}

func (c *Codec) trimName(field string) string {
	return strings.TrimRight(field, " "+string(c.fill))
}

func planToken(p domain.Plan) string {
	if p == "" {
		return string(domain.PlanNormal)
	}
	return string(p)
}
