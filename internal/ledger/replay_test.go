package ledger

import (
	"testing"

	"batch-ledger/internal/domain"
	"batch-ledger/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func tx(line, sess int, code domain.TransactionCode, account, amt, misc string) domain.Transaction {
	return domain.Transaction{
		Code:          code,
		ActorName:     "actor",
		AccountNumber: account,
		Amount:        amount(amt),
		Misc:          misc,
		Line:          line,
		Session:       sess,
	}
}

// to logs a deposit under the recipient's name, the way a transfer's credit leg is written.
func to(name string, deposit domain.Transaction) domain.Transaction {
	deposit.ActorName = name
	return deposit
}

func TestReplayer_TransferPolicies(t *testing.T) {
	// 01001 cannot cover the transfer; under the atomic policy the paired
	// deposit must not land on 01000.
	stream := []domain.Transaction{
		tx(1, 1, domain.CodeWithdrawal, "01001", "50.00", ""),
		to("recipient", tx(2, 1, domain.CodeDeposit, "01000", "50.00", "")),
	}

	tests := []struct {
		name         string
		policy       TransferPolicy
		wantApplied  int
		wantRejected []int
		want01000    string
		want01000Cnt int
		want01001    string
		want01001Cnt int
	}{
		{
			name:         "atomic rejects both legs",
			policy:       TransferAtomic,
			wantApplied:  0,
			wantRejected: []int{1, 2},
			want01000:    "500.00",
			want01001:    "10.00",
		},
		{
			name:         "independent applies the deposit alone",
			policy:       TransferIndependent,
			wantApplied:  1,
			wantRejected: []int{1},
			want01000:    "550.00",
			want01000Cnt: 1,
			want01001:    "10.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, table := newTestEngine(t,
				newAccount("01000", "500.00", domain.PlanNormal),
				newAccount("01001", "10.00", domain.PlanStudent),
			)
			replayer := NewReplayer(engine, ReplayOptions{TransferPolicy: tt.policy}, zaptest.NewLogger(t))

			result, err := replayer.Replay(stream)
			require.NoError(t, err)
			assert.Equal(t, tt.wantApplied, result.Applied)

			var lines []int
			for _, r := range result.Rejections {
				lines = append(lines, r.Line)
			}
			assert.Equal(t, tt.wantRejected, lines)

			assertBalance(t, table, "01000", tt.want01000, tt.want01000Cnt)
			assertBalance(t, table, "01001", tt.want01001, tt.want01001Cnt)
		})
	}
}

func TestReplayer_AtomicTransferApplies(t *testing.T) {
	engine, table := newTestEngine(t,
		newAccount("01000", "500.00", domain.PlanNormal),
		newAccount("01001", "10.00", domain.PlanStudent),
	)
	replayer := NewReplayer(engine, ReplayOptions{}, zaptest.NewLogger(t))

	result, err := replayer.Replay([]domain.Transaction{
		tx(1, 1, domain.CodeWithdrawal, "01000", "100.00", ""),
		to("recipient", tx(2, 1, domain.CodeDeposit, "01001", "100.00", "")),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Applied)
	assert.Empty(t, result.Rejections)
	assertBalance(t, table, "01000", "400.00", 1)
	assertBalance(t, table, "01001", "110.00", 1)
}

func TestReplayer_PairsDoNotCrossSessions(t *testing.T) {
	engine, table := newTestEngine(t,
		newAccount("01000", "500.00", domain.PlanNormal),
		newAccount("01001", "10.00", domain.PlanStudent),
	)
	replayer := NewReplayer(engine, ReplayOptions{}, zaptest.NewLogger(t))

	result, err := replayer.Replay([]domain.Transaction{
		tx(1, 1, domain.CodeWithdrawal, "01001", "50.00", ""),
		tx(3, 2, domain.CodeDeposit, "01000", "50.00", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	require.Len(t, result.Rejections, 1)
	assert.Equal(t, 1, result.Rejections[0].Line)
	assert.Equal(t, "01", result.Rejections[0].Code)
	assertBalance(t, table, "01000", "550.00", 1)
}

func TestReplayer_OrderAndRejections(t *testing.T) {
	engine, table := newTestEngine(t,
		newAccount("01000", "500.00", domain.PlanNormal),
	)
	replayer := NewReplayer(engine, ReplayOptions{}, zaptest.NewLogger(t))

	result, err := replayer.Replay([]domain.Transaction{
		tx(1, 1, domain.CodeCreate, "00000", "20.00", "SP"),
		tx(2, 1, domain.CodeDeposit, "01001", "5.00", ""),
		tx(3, 1, domain.CodeDeposit, "01002", "5.00", ""),
		tx(4, 1, domain.CodePayBill, "01000", "10.00", "ZZ"),
		tx(5, 1, domain.CodeDisable, "01001", "0.00", ""),
		tx(6, 1, domain.CodeWithdrawal, "01001", "1.00", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Applied)

	var lines []int
	for _, r := range result.Rejections {
		lines = append(lines, r.Line)
		assert.NotEmpty(t, r.Reason)
	}
	assert.Equal(t, []int{3, 4, 6}, lines)

	created, ok := table.Lookup("01001")
	require.True(t, ok)
	assert.Equal(t, domain.StatusDisabled, created.Status)
	assertBalance(t, table, "01001", "25.00", 2)
	assertBalance(t, table, "01000", "500.00", 0)
}

func TestReplayer_FatalErrorAborts(t *testing.T) {
	engine, _ := newTestEngine(t, newAccount("01000", "500.00", domain.PlanNormal))
	replayer := NewReplayer(engine, ReplayOptions{}, zaptest.NewLogger(t))

	result, err := replayer.Replay([]domain.Transaction{
		tx(1, 1, domain.CodeDeposit, "01000", "5.00", ""),
		tx(2, 1, domain.TransactionCode("02"), "01000", "5.00", ""),
	})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUnknownTransactionCode)
}

func TestReplayer_SessionLimits(t *testing.T) {
	opts := ReplayOptions{EnforceLimits: true, Limits: session.DefaultLimits()}

	t.Run("withdrawal cap is per session", func(t *testing.T) {
		engine, table := newTestEngine(t, newAccount("01000", "5000.00", domain.PlanNormal))
		replayer := NewReplayer(engine, opts, zaptest.NewLogger(t))

		result, err := replayer.Replay([]domain.Transaction{
			tx(1, 1, domain.CodeWithdrawal, "01000", "300.00", ""),
			tx(2, 1, domain.CodeWithdrawal, "01000", "300.00", ""),
			tx(4, 2, domain.CodeWithdrawal, "01000", "300.00", ""),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Applied)
		require.Len(t, result.Rejections, 1)
		assert.Equal(t, 2, result.Rejections[0].Line)
		assertBalance(t, table, "01000", "4400.00", 2)
	})

	t.Run("transfer cap", func(t *testing.T) {
		engine, table := newTestEngine(t,
			newAccount("01000", "5000.00", domain.PlanNormal),
			newAccount("01001", "0.00", domain.PlanNormal),
		)
		replayer := NewReplayer(engine, opts, zaptest.NewLogger(t))

		result, err := replayer.Replay([]domain.Transaction{
			tx(1, 1, domain.CodeWithdrawal, "01000", "1000.01", ""),
			to("recipient", tx(2, 1, domain.CodeDeposit, "01001", "1000.01", "")),
		})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Applied)
		assert.Len(t, result.Rejections, 2)
		for _, r := range result.Rejections {
			assert.Contains(t, r.Reason, domain.ErrSessionLimit.Error())
		}
		assertBalance(t, table, "01000", "5000.00", 0)
	})

	t.Run("limits are ignored unless enforced", func(t *testing.T) {
		engine, table := newTestEngine(t, newAccount("01000", "5000.00", domain.PlanNormal))
		replayer := NewReplayer(engine, ReplayOptions{Limits: session.DefaultLimits()}, zaptest.NewLogger(t))

		result, err := replayer.Replay([]domain.Transaction{
			tx(1, 1, domain.CodePayBill, "01000", "2500.00", "FI"),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Applied)
		assertBalance(t, table, "01000", "2500.00", 1)
	})
}

func TestReplayer_TransferPairing(t *testing.T) {
	tests := []struct {
		name         string
		policy       TransferPolicy
		deposit      domain.Transaction
		wantRejected []int
		want01000    string
		wantCount    int
	}{
		{
			name:         "atomic transfer to a disabled payee voids the withdrawal",
			policy:       TransferAtomic,
			deposit:      to("payee", tx(2, 1, domain.CodeDeposit, "01005", "40.00", "")),
			wantRejected: []int{1, 2},
			want01000:    "500.00",
		},
		{
			name:         "independent policy keeps the withdrawal",
			policy:       TransferIndependent,
			deposit:      to("payee", tx(2, 1, domain.CodeDeposit, "01005", "40.00", "")),
			wantRejected: []int{2},
			want01000:    "460.00",
			wantCount:    1,
		},
		{
			name:         "deposit logged by the same holder is not a transfer leg",
			policy:       TransferAtomic,
			deposit:      tx(2, 1, domain.CodeDeposit, "01005", "40.00", ""),
			wantRejected: []int{2},
			want01000:    "460.00",
			wantCount:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disabled := newAccount("01005", "0.00", domain.PlanNormal)
			disabled.Status = domain.StatusDisabled
			engine, table := newTestEngine(t, newAccount("01000", "500.00", domain.PlanNormal), disabled)
			replayer := NewReplayer(engine, ReplayOptions{TransferPolicy: tt.policy}, zaptest.NewLogger(t))

			result, err := replayer.Replay([]domain.Transaction{
				tx(1, 1, domain.CodeWithdrawal, "01000", "40.00", ""),
				tt.deposit,
			})
			require.NoError(t, err)

			var lines []int
			for _, r := range result.Rejections {
				lines = append(lines, r.Line)
				assert.Contains(t, r.Reason, domain.ErrAccountDisabled.Error())
			}
			assert.Equal(t, tt.wantRejected, lines)
			assertBalance(t, table, "01000", tt.want01000, tt.wantCount)
		})
	}
}
