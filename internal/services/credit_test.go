package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewards-platform-backend/internal/models"
	"rewards-platform-backend/internal/store"
)

func TestProcessEarnCreditsAndReplays(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := &captureNotifier{}
	cs := NewCreditService(st, notifier)
	ctx := context.Background()

	event := &EarnEvent{UID: "user1", Points: 250, OfferID: "net-tx-001"}

	balance, err := cs.ProcessEarn(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, int64(250), balance)

	// The network retries the postback; same offer id, same balance.
	balance, err = cs.ProcessEarn(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, int64(250), balance)

	entries, err := st.GetEntries(ctx, "user1", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "replay writes no second entry")
	assert.Equal(t, models.EntryKindEarn, entries[0].Kind)
	assert.Equal(t, "net-tx-001", entries[0].ReferenceID)
}

func TestProcessEarnDistinctOffersAccumulate(t *testing.T) {
	st := store.NewMemoryStore()
	cs := NewCreditService(st, &captureNotifier{})
	ctx := context.Background()

	_, err := cs.ProcessEarn(ctx, &EarnEvent{UID: "user1", Points: 100, OfferID: "tx-1"})
	require.NoError(t, err)
	balance, err := cs.ProcessEarn(ctx, &EarnEvent{UID: "user1", Points: 150, OfferID: "tx-2"})
	require.NoError(t, err)
	assert.Equal(t, int64(250), balance)
}

func TestProcessEarnRejectsBadEvents(t *testing.T) {
	cs := NewCreditService(store.NewMemoryStore(), &captureNotifier{})
	ctx := context.Background()

	cases := []*EarnEvent{
		{UID: "", Points: 100, OfferID: "tx-1"},
		{UID: "user1", Points: 100, OfferID: ""},
		{UID: "user1", Points: 0, OfferID: "tx-1"},
		{UID: "user1", Points: -50, OfferID: "tx-1"},
	}
	for _, event := range cases {
		_, err := cs.ProcessEarn(ctx, event)
		assert.ErrorIs(t, err, ErrInvalidEarnEvent, "event %+v", event)
	}
}

func TestAdjustMovesBalanceBothWays(t *testing.T) {
	st := store.NewMemoryStore()
	cs := NewCreditService(st, &captureNotifier{})
	ctx := context.Background()

	balance, err := cs.Adjust(ctx, "user1", 500, "admin1", "goodwill")
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)

	balance, err = cs.Adjust(ctx, "user1", -200, "admin1", "correction")
	require.NoError(t, err)
	assert.Equal(t, int64(300), balance)

	_, err = cs.Adjust(ctx, "user1", -1000, "admin1", "too much")
	assert.ErrorIs(t, err, store.ErrInsufficientBalance)

	_, err = cs.Adjust(ctx, "user1", 0, "admin1", "noop")
	assert.ErrorIs(t, err, ErrInvalidEarnEvent)
}
