package ledger

import (
	"batch-ledger/internal/domain"
	"batch-ledger/internal/session"

	"go.uber.org/zap"
)

// TransferPolicy decides how the two legs of a transfer are applied.
type TransferPolicy string

const (
	// TransferAtomic applies an adjacent withdrawal/deposit pair as one transfer:
	// both legs succeed or neither does.
	TransferAtomic TransferPolicy = "atomic"
	// TransferIndependent applies each leg on its own.
	TransferIndependent TransferPolicy = "independent"
)

// ReplayOptions configures the replay driver.
type ReplayOptions struct {
	TransferPolicy TransferPolicy
	EnforceLimits  bool
	Limits         session.Limits
}

// ReplayResult summarizes one pass over the transaction stream.
type ReplayResult struct {
	Applied    int
	Rejections []domain.Rejection
}

// Replayer feeds an ordered transaction stream through the engine.
type Replayer struct {
	engine *Engine
	opts   ReplayOptions
	logger *zap.Logger
}

// NewReplayer creates a replay driver.
func NewReplayer(engine *Engine, opts ReplayOptions, logger *zap.Logger) *Replayer {
	if opts.TransferPolicy == "" {
		opts.TransferPolicy = TransferAtomic
	}
	return &Replayer{engine: engine, opts: opts, logger: logger}
}

// Replay applies transactions strictly in order. Record-level failures are
// collected; a fatal error stops the replay and is returned.
func (r *Replayer) Replay(transactions []domain.Transaction) (*ReplayResult, error) {
	result := &ReplayResult{}

	var limits *session.SessionLimits
	currentSession := -1

	for i := 0; i < len(transactions); i++ {
		tx := transactions[i]
		if tx.Session != currentSession {
			currentSession = tx.Session
			limits = session.NewSession(r.opts.Limits)
		}

		if r.opts.TransferPolicy == TransferAtomic && i+1 < len(transactions) && isTransferPair(tx, transactions[i+1]) {
			credit := transactions[i+1]
			err := r.applyTransfer(limits, tx, credit)
			if domain.IsFatal(err) {
				return nil, err
			}
			if err != nil {
				r.reject(result, tx, err)
				r.reject(result, credit, err)
			} else {
				result.Applied += 2
				r.logger.Debug("transfer applied",
					zap.String("from", tx.AccountNumber),
					zap.String("to", credit.AccountNumber),
					zap.String("amount", tx.Amount.StringFixed(2)),
				)
			}
			i++
			continue
		}

		err := r.applyOne(limits, tx)
		if domain.IsFatal(err) {
			return nil, err
		}
		if err != nil {
			r.reject(result, tx, err)
			continue
		}
		result.Applied++
		r.logger.Debug("transaction applied",
			zap.Int("line", tx.Line),
			zap.String("code", tx.Code.String()),
			zap.String("account", tx.AccountNumber),
		)
	}

	return result, nil
}

func (r *Replayer) applyOne(limits *session.SessionLimits, tx domain.Transaction) error {
	if !r.opts.EnforceLimits {
		return r.engine.Apply(tx)
	}

	switch tx.Code {
	case domain.CodeWithdrawal:
		if err := limits.CheckWithdrawal(tx.Amount); err != nil {
			return err
		}
		if err := r.engine.Apply(tx); err != nil {
			return err
		}
		return limits.RecordWithdrawal(tx.Amount)
	case domain.CodePayBill:
		if err := limits.CheckPayBill(tx.Amount); err != nil {
			return err
		}
		if err := r.engine.Apply(tx); err != nil {
			return err
		}
		return limits.RecordPayBill(tx.Amount)
	case domain.CodeDeposit:
		if err := r.engine.Apply(tx); err != nil {
			return err
		}
		limits.RecordDeposit(tx.Amount)
		return nil
	default:
		return r.engine.Apply(tx)
	}
}

func (r *Replayer) applyTransfer(limits *session.SessionLimits, debit, credit domain.Transaction) error {
	if r.opts.EnforceLimits {
		if err := limits.CheckTransfer(debit.Amount); err != nil {
			return err
		}
	}
	if err := r.engine.Transfer(debit.AccountNumber, credit.AccountNumber, debit.Amount); err != nil {
		return err
	}
	if r.opts.EnforceLimits {
		return limits.RecordTransfer(debit.Amount)
	}
	return nil
}

func (r *Replayer) reject(result *ReplayResult, tx domain.Transaction, err error) {
	result.Rejections = append(result.Rejections, domain.Rejection{
		Line:    tx.Line,
		Code:    string(tx.Code),
		Account: tx.AccountNumber,
		Reason:  err.Error(),
	})
	r.logger.Warn("transaction rejected",
		zap.Int("line", tx.Line),
		zap.String("code", tx.Code.String()),
		zap.String("account", tx.AccountNumber),
		zap.Error(err),
	)
}

// isTransferPair reports whether a withdrawal followed by a deposit of the same
// amount into a different account, within one session, forms a transfer. The
// deposit leg of a transfer is logged under the recipient's name, so a deposit
// logged by the withdrawing holder is a separate transaction.
func isTransferPair(debit, credit domain.Transaction) bool {
	return debit.Code == domain.CodeWithdrawal &&
		credit.Code == domain.CodeDeposit &&
		debit.Session == credit.Session &&
		debit.AccountNumber != credit.AccountNumber &&
		debit.ActorName != credit.ActorName &&
		debit.Amount.Equal(credit.Amount) &&
		debit.Amount.IsPositive()
}
