package usecase

import (
	"context"
	"fmt"

	"batch-ledger/internal/domain"
	"batch-ledger/internal/ledger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configures a settlement run.
type Options struct {
	MasterOutputPath  string
	CurrentOutputPath string
	Replay            ledger.ReplayOptions
	FeePolicy         ledger.FeePolicy
}

// SettlementUseCase orchestrates one batch run: decode, replay, fees, write.
type SettlementUseCase struct {
	repo   AccountRepository
	opts   Options
	logger *zap.Logger
}

// NewSettlementUseCase creates a new instance of the usecase.
func NewSettlementUseCase(repo AccountRepository, opts Options, logger *zap.Logger) *SettlementUseCase {
	return &SettlementUseCase{repo: repo, opts: opts, logger: logger}
}

// Settle applies the merged transaction file to the prior master snapshot and
// writes the new master and current snapshots. Any returned error means no
// output was written.
func (uc *SettlementUseCase) Settle(ctx context.Context, masterPath, transactionsPath string) (*domain.SettlementReport, error) {
	runID := uuid.NewString()
	logger := uc.logger.With(zap.String("run_id", runID))

	// Step 1: read both inputs completely before any output is opened
	prior, err := uc.repo.ReadAccounts(ctx, masterPath)
	if err != nil {
		return nil, fmt.Errorf("could not read accounts: %w", err)
	}
	stream, err := uc.repo.ReadTransactions(ctx, transactionsPath)
	if err != nil {
		return nil, fmt.Errorf("could not read transactions: %w", err)
	}

	report := &domain.SettlementReport{
		Summary: domain.Summary{
			RunID:            runID,
			TransactionsRead: len(stream.Transactions),
			Sessions:         stream.Sessions,
		},
		Rejections: make([]domain.Rejection, 0),
		Malformed:  make([]domain.Rejection, 0),
	}
	for _, recErr := range prior.Rejected {
		report.Malformed = append(report.Malformed, malformed(recErr))
	}
	for _, recErr := range stream.Rejected {
		report.Malformed = append(report.Malformed, malformed(recErr))
	}

	// Step 2: load the account table
	table := ledger.NewTable()
	for _, account := range prior.Accounts {
		if err := table.Insert(account); err != nil {
			logger.Warn("skipping account", zap.String("account", account.Number), zap.Error(err))
			report.Malformed = append(report.Malformed, domain.Rejection{Account: account.Number, Reason: err.Error()})
		}
	}
	report.Summary.AccountsRead = table.Len()

	// Step 3: replay
	engine := ledger.NewEngine(table, logger)
	replayer := ledger.NewReplayer(engine, uc.opts.Replay, logger)
	result, err := replayer.Replay(stream.Transactions)
	if err != nil {
		logger.Error("replay aborted", zap.Error(err))
		return nil, fmt.Errorf("replay aborted: %w", err)
	}
	report.Summary.TransactionsApplied = result.Applied
	report.Summary.TransactionsRejected = len(result.Rejections)
	report.Rejections = append(report.Rejections, result.Rejections...)

	// Step 4: fees
	fees, err := ledger.NewFeeAssessor(uc.opts.FeePolicy, logger).Assess(table)
	if err != nil {
		logger.Error("fee assessment aborted", zap.Error(err))
		return nil, fmt.Errorf("fee assessment aborted: %w", err)
	}
	report.Fees = fees

	// Step 5: write both snapshots
	snapshot, err := table.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("could not build snapshot: %w", err)
	}
	if err := uc.repo.WriteSnapshots(ctx, uc.opts.MasterOutputPath, uc.opts.CurrentOutputPath, snapshot); err != nil {
		return nil, fmt.Errorf("could not write snapshots: %w", err)
	}
	report.Summary.MalformedLines = len(report.Malformed)
	report.Summary.AccountsWritten = len(snapshot.Accounts)

	logger.Info("settlement complete",
		zap.Int("applied", report.Summary.TransactionsApplied),
		zap.Int("rejected", report.Summary.TransactionsRejected),
		zap.Int("accounts", report.Summary.AccountsWritten),
		zap.String("fees", report.Fees.Total.StringFixed(2)),
	)
	return report, nil
}

func malformed(recErr *domain.RecordError) domain.Rejection {
	return domain.Rejection{Line: recErr.Line, Reason: recErr.Err.Error()}
}
