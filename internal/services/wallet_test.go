package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewards-platform-backend/internal/models"
	"rewards-platform-backend/internal/store"
)

func TestDepositConversion(t *testing.T) {
	st := store.NewMemoryStore()
	cfg := testConfig()
	ws := NewWalletService(st, &captureNotifier{}, cfg)
	ctx := context.Background()

	wtx, err := ws.RequestDeposit(ctx, "user1", 500) // $5.00
	require.NoError(t, err)
	assert.Equal(t, models.WalletTxKindDeposit, wtx.Kind)
	assert.Equal(t, models.WalletTxStatusPending, wtx.Status)
	assert.Equal(t, int64(500), wtx.PointsAmount, "100 points per dollar")

	balance, err := st.GetBalance(ctx, "user1")
	require.NoError(t, err)
	assert.Zero(t, balance, "nothing credited before approval")
}

func TestDepositBonus(t *testing.T) {
	cfg := testConfig()
	cfg.DepositBonusPercent = 10
	ws := NewWalletService(store.NewMemoryStore(), &captureNotifier{}, cfg)

	wtx, err := ws.RequestDeposit(context.Background(), "user1", 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1100), wtx.PointsAmount)
}

func TestDepositApprovalCreditsPoints(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := &captureNotifier{}
	ws := NewWalletService(st, notifier, testConfig())
	ctx := context.Background()

	wtx, err := ws.RequestDeposit(ctx, "user1", 500)
	require.NoError(t, err)

	resolved, err := ws.Resolve(ctx, wtx.ID, true, "admin1", "looks good")
	require.NoError(t, err)
	assert.Equal(t, models.WalletTxStatusApproved, resolved.Status)
	assert.Equal(t, "admin1", resolved.ResolvedBy)

	balance, err := st.GetBalance(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)
	assert.GreaterOrEqual(t, notifier.count(), 1)
}

func TestWithdrawalHoldLifecycle(t *testing.T) {
	st := store.NewMemoryStore()
	ws := NewWalletService(st, &captureNotifier{}, testConfig())
	ctx := context.Background()

	_, err := st.ApplyEntry(ctx, "user1", models.EntryKindEarn, 1000, "seed")
	require.NoError(t, err)

	wtx, err := ws.RequestWithdrawal(ctx, "user1", 600)
	require.NoError(t, err)
	assert.Equal(t, int64(600), wtx.AmountCents, "points convert back to cents")

	balance, err := st.GetBalance(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, int64(400), balance, "hold applied immediately")

	_, err = ws.RequestWithdrawal(ctx, "user1", 600)
	assert.ErrorIs(t, err, store.ErrInsufficientBalance)

	resolved, err := ws.Resolve(ctx, wtx.ID, false, "admin1", "kyc failed")
	require.NoError(t, err)
	assert.Equal(t, models.WalletTxStatusRejected, resolved.Status)

	balance, err = st.GetBalance(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance, "rejection refunds the hold")
}

func TestResolveTwiceEmitsOnce(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := &captureNotifier{}
	ws := NewWalletService(st, notifier, testConfig())
	ctx := context.Background()

	wtx, err := ws.RequestDeposit(ctx, "user1", 500)
	require.NoError(t, err)

	_, err = ws.Resolve(ctx, wtx.ID, true, "admin1", "")
	require.NoError(t, err)
	emitted := notifier.count()

	again, err := ws.Resolve(ctx, wtx.ID, true, "admin2", "")
	require.NoError(t, err)
	assert.Equal(t, models.WalletTxStatusApproved, again.Status)
	assert.Equal(t, emitted, notifier.count(), "terminal re-resolve emits nothing")

	balance, err := st.GetBalance(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)
}

func TestRequestValidation(t *testing.T) {
	ws := NewWalletService(store.NewMemoryStore(), &captureNotifier{}, testConfig())
	ctx := context.Background()

	_, err := ws.RequestDeposit(ctx, "user1", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ws.RequestWithdrawal(ctx, "user1", -5)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPendingQueueOrder(t *testing.T) {
	st := store.NewMemoryStore()
	ws := NewWalletService(st, &captureNotifier{}, testConfig())
	ctx := context.Background()

	first, err := ws.RequestDeposit(ctx, "user1", 100)
	require.NoError(t, err)
	_, err = ws.RequestDeposit(ctx, "user2", 200)
	require.NoError(t, err)

	pending, err := ws.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	_, err = ws.Resolve(ctx, first.ID, true, "admin1", "")
	require.NoError(t, err)

	pending, err = ws.Pending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
