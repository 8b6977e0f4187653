package usecase

import (
	"context"

	"batch-ledger/internal/domain"
)

// AccountRepository defines the interface for reading batch inputs and writing snapshots.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go AccountRepository
type AccountRepository interface {
	ReadAccounts(ctx context.Context, path string) (*domain.AccountSnapshot, error)
	ReadTransactions(ctx context.Context, path string) (*domain.TransactionStream, error)
	WriteSnapshots(ctx context.Context, masterPath, currentPath string, snapshot domain.Snapshot) error
}
