package ledger

import (
	"fmt"
	"sort"
	"strconv"

	"batch-ledger/internal/domain"
)

// Table is the in-memory account table for one batch run. It has a single
// owner and is not safe for concurrent use.
type Table struct {
	accounts map[string]*domain.Account
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{accounts: make(map[string]*domain.Account)}
}

// Len returns the number of live accounts.
func (t *Table) Len() int {
	return len(t.accounts)
}

// Lookup returns a copy of the account with the given number.
func (t *Table) Lookup(number string) (domain.Account, bool) {
	a, ok := t.accounts[number]
	if !ok {
		return domain.Account{}, false
	}
	return *a, true
}

// Insert adds a new account. The number must not be in use.
func (t *Table) Insert(account domain.Account) error {
	if _, err := domain.ParseAccountNumber(account.Number); err != nil {
		return err
	}
	if _, exists := t.accounts[account.Number]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateAccount, account.Number)
	}
	a := account
	t.accounts[a.Number] = &a
	return nil
}

// Remove deletes the account with the given number.
func (t *Table) Remove(number string) error {
	if _, ok := t.accounts[number]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, number)
	}
	delete(t.accounts, number)
	return nil
}

// AllocateNextNumber returns the lowest account number >= 1000 not in use.
// It does not reserve the number; calling it twice without an insert yields
// the same value.
func (t *Table) AllocateNextNumber() (string, error) {
	for n := domain.FirstAllocatableNumber; n <= domain.MaxAccountNumber; n++ {
		number, _ := domain.FormatAccountNumber(n)
		if _, used := t.accounts[number]; !used {
			return number, nil
		}
	}
	return "", domain.ErrAccountNumbersExhausted
}

// Accounts returns copies of all accounts in ascending account number order.
func (t *Table) Accounts() []domain.Account {
	out := make([]domain.Account, 0, len(t.accounts))
	for _, a := range t.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		return numberValue(out[i].Number) < numberValue(out[j].Number)
	})
	return out
}

// SentinelNumber returns max(existing)+1, or 00000 for an empty table.
func (t *Table) SentinelNumber() (string, error) {
	if len(t.accounts) == 0 {
		return domain.FormatAccountNumber(0)
	}
	highest := 0
	for number := range t.accounts {
		if n := numberValue(number); n > highest {
			highest = n
		}
	}
	if highest >= domain.MaxAccountNumber {
		return "", fmt.Errorf("%w: no number left for the END_OF_FILE record", domain.ErrAccountNumbersExhausted)
	}
	return domain.FormatAccountNumber(highest + 1)
}

// Snapshot builds the writer input from the current table state.
func (t *Table) Snapshot() (domain.Snapshot, error) {
	sentinel, err := t.SentinelNumber()
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{Accounts: t.Accounts(), SentinelNumber: sentinel}, nil
}

// get returns the live record for in-place mutation by the engine.
func (t *Table) get(number string) (*domain.Account, bool) {
	a, ok := t.accounts[number]
	return a, ok
}

func numberValue(number string) int {
	n, _ := strconv.Atoi(number)
	return n
}
