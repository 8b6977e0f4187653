package ledger

import (
	"fmt"

	"batch-ledger/internal/domain"
	"batch-ledger/internal/session"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine applies transactions to a Table. Every operation checks all of its
// preconditions before touching the account, so a rejected transaction never
// leaves a partial mutation behind.
type Engine struct {
	table  *Table
	logger *zap.Logger
}

// NewEngine creates an engine over table.
func NewEngine(table *Table, logger *zap.Logger) *Engine {
	return &Engine{table: table, logger: logger}
}

// Apply applies a single decoded transaction record.
func (e *Engine) Apply(tx domain.Transaction) error {
	switch tx.Code {
	case domain.CodeWithdrawal:
		return e.Withdraw(tx.AccountNumber, tx.Amount)
	case domain.CodePayBill:
		return e.PayBill(tx.AccountNumber, domain.CompanyCode(tx.Misc), tx.Amount)
	case domain.CodeDeposit:
		return e.Deposit(tx.AccountNumber, tx.Amount)
	case domain.CodeCreate:
		_, err := e.Create(tx.ActorName, tx.Amount, tx.Misc)
		return err
	case domain.CodeDelete:
		return e.Delete(tx.AccountNumber)
	case domain.CodeDisable:
		return e.Disable(tx.AccountNumber)
	case domain.CodeChangePlan:
		return e.ChangePlan(tx.AccountNumber, domain.Plan(tx.Misc))
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownTransactionCode, string(tx.Code))
	}
}

// Withdraw debits amount from an active account.
func (e *Engine) Withdraw(number string, amount decimal.Decimal) error {
	amount = amount.Round(2)
	account, err := e.checkDebit(number, amount)
	if err != nil {
		return err
	}
	e.debit(account, amount)
	return nil
}

// PayBill debits amount from an active account towards an authorized company.
func (e *Engine) PayBill(number string, company domain.CompanyCode, amount decimal.Decimal) error {
	if !company.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCompany, string(company))
	}
	amount = amount.Round(2)
	account, err := e.checkDebit(number, amount)
	if err != nil {
		return err
	}
	e.debit(account, amount)
	return nil
}

// Deposit credits amount to an active account.
func (e *Engine) Deposit(number string, amount decimal.Decimal) error {
	amount = amount.Round(2)
	account, err := e.checkCredit(number, amount)
	if err != nil {
		return err
	}
	e.credit(account, amount)
	return nil
}

// Transfer moves amount between two active accounts. Both legs are checked
// before either account changes.
func (e *Engine) Transfer(from, to string, amount decimal.Decimal) error {
	if from == to {
		return fmt.Errorf("%w: %s", domain.ErrSameAccount, from)
	}
	amount = amount.Round(2)
	source, err := e.checkDebit(from, amount)
	if err != nil {
		return fmt.Errorf("transfer source: %w", err)
	}
	destination, err := e.checkCredit(to, amount)
	if err != nil {
		return fmt.Errorf("transfer destination: %w", err)
	}
	e.debit(source, amount)
	e.credit(destination, amount)
	return nil
}

// Create opens a new active account under the next free number and returns it.
// A blank plan means Normal.
func (e *Engine) Create(name string, initial decimal.Decimal, plan string) (string, error) {
	name = domain.NormalizeName(name)
	if err := session.ValidateName(name); err != nil {
		return "", err
	}
	if !domain.WithinBalanceRange(initial) {
		return "", fmt.Errorf("%w: initial balance %s", domain.ErrInvalidAmount, initial.StringFixed(2))
	}
	p := domain.PlanNormal
	if plan != "" {
		p = domain.Plan(plan)
		if !p.Valid() {
			return "", fmt.Errorf("%w: %q", domain.ErrInvalidPlan, plan)
		}
	}

	number, err := e.table.AllocateNextNumber()
	if err != nil {
		return "", err
	}
	account := domain.Account{
		Number:  number,
		Name:    name,
		Status:  domain.StatusActive,
		Balance: initial.Round(2),
		Plan:    p,
	}
	if err := e.table.Insert(account); err != nil {
		return "", err
	}
	e.logger.Debug("account created", zap.String("account", number), zap.String("name", name), zap.String("plan", string(p)))
	return number, nil
}

// Delete removes an account entirely.
func (e *Engine) Delete(number string) error {
	if err := e.table.Remove(number); err != nil {
		return err
	}
	e.logger.Debug("account deleted", zap.String("account", number))
	return nil
}

// Disable moves an active account to disabled.
func (e *Engine) Disable(number string) error {
	account, err := e.activeAccount(number)
	if err != nil {
		return err
	}
	account.Status = domain.StatusDisabled
	account.TransactionCount++
	return nil
}

// ChangePlan switches an active account to a different valid plan.
func (e *Engine) ChangePlan(number string, plan domain.Plan) error {
	if !plan.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidPlan, string(plan))
	}
	account, err := e.activeAccount(number)
	if err != nil {
		return err
	}
	if account.Plan == plan {
		return fmt.Errorf("%w: account %s is already on %s", domain.ErrPlanUnchanged, number, plan)
	}
	account.Plan = plan
	account.TransactionCount++
	return nil
}

func (e *Engine) activeAccount(number string) (*domain.Account, error) {
	account, ok := e.table.get(number)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, number)
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountDisabled, number)
	}
	return account, nil
}

func (e *Engine) checkDebit(number string, amount decimal.Decimal) (*domain.Account, error) {
	if !domain.WithinBalanceRange(amount) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, amount.StringFixed(2))
	}
	account, err := e.activeAccount(number)
	if err != nil {
		return nil, err
	}
	if account.Balance.LessThan(amount) {
		return nil, fmt.Errorf("%w: account %s has %s, needs %s",
			domain.ErrInsufficientFunds, number, account.Balance.StringFixed(2), amount.StringFixed(2))
	}
	return account, nil
}

func (e *Engine) checkCredit(number string, amount decimal.Decimal) (*domain.Account, error) {
	if !domain.WithinBalanceRange(amount) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, amount.StringFixed(2))
	}
	account, err := e.activeAccount(number)
	if err != nil {
		return nil, err
	}
	if account.Balance.Add(amount).GreaterThan(domain.MaxBalance) {
		return nil, fmt.Errorf("%w: account %s would hold %s",
			domain.ErrBalanceLimit, number, account.Balance.Add(amount).StringFixed(2))
	}
	return account, nil
}

func (e *Engine) debit(account *domain.Account, amount decimal.Decimal) {
	account.Balance = account.Balance.Sub(amount)
	account.TransactionCount++
}

func (e *Engine) credit(account *domain.Account, amount decimal.Decimal) {
	account.Balance = account.Balance.Add(amount)
	account.TransactionCount++
}
