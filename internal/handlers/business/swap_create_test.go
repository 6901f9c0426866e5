package business

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapdesk/internal/models"
)

func testQuote() *models.Quote {
	fee := int64(85)
	sendCents := int64(10000)
	receiveCents := int64(10000)
	return &models.Quote{
		ID:                     uuid.NewString(),
		Provider:               "jupiter",
		Chain:                  "solana",
		SendMint:               memeMint,
		ReceiveMint:            "Other1111111111111111111111111111111111111",
		SendSymbol:             "MEME",
		ReceiveSymbol:          "OTHER",
		SendAmount:             decimal.NewFromInt(100),
		ReceiveAmount:          decimal.NewFromInt(50),
		SendFiatAmountCents:    &sendCents,
		ReceiveFiatAmountCents: &receiveCents,
		PlatformFeeBps:         85,
		EstimatedFeeCents:      &fee,
	}
}

func createParams(quote *models.Quote) CreateSwapParams {
	return CreateSwapParams{
		UserID:    "user-1",
		Quote:     quote,
		Hash:      "hash-" + uuid.NewString(),
		Type:      models.SwapTypeBuy,
		Timestamp: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestCreateSwapWritesFeeRecord(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	mgr := NewSwapLifecycleManager(store, notifier)

	swap, err := mgr.CreateSwap(createParams(testQuote()))
	require.NoError(t, err)

	assert.Equal(t, models.SwapStatusPending, swap.Status)
	assert.NotEmpty(t, swap.ID)
	require.NotNil(t, swap.EstimatedValueCents)
	assert.Equal(t, int64(10000), *swap.EstimatedValueCents)

	require.Len(t, store.fees, 1)
	feeRow := store.fees[0]
	assert.Equal(t, swap.ID, feeRow.SwapID)
	assert.Equal(t, int64(85), feeRow.EstimatedFeeFiatCents)
	// No referral: the whole fee is revenue.
	assert.Equal(t, int64(85), feeRow.RevenueCents)
	assert.Empty(t, store.commissions)

	assert.Contains(t, notifier.events, "swap_created")
	assert.Empty(t, notifier.alerts)
}

func TestCreateSwapSplitsCommission(t *testing.T) {
	store := newFakeStore()
	store.referrals["user-1"] = &models.Referral{
		ID:             7,
		ReferrerUserID: "referrer-9",
		TraderUserID:   "user-1",
		CommissionPct:  decimal.RequireFromString("0.30"),
		IsActive:       true,
	}
	mgr := NewSwapLifecycleManager(store, nil)

	swap, err := mgr.CreateSwap(createParams(testQuote()))
	require.NoError(t, err)

	require.Len(t, store.commissions, 1)
	commission := store.commissions[0]
	assert.Equal(t, swap.ID, commission.SwapID)
	assert.Equal(t, "referrer-9", commission.RecipientUserID)
	assert.Equal(t, int64(26), commission.CommissionCents) // 85 * 0.30 = 25.5, rounds up

	require.Len(t, store.fees, 1)
	feeRow := store.fees[0]
	assert.Equal(t, int64(59), feeRow.RevenueCents)

	// Conservation in whole cents: fee = commission + revenue, exactly.
	assert.Equal(t, feeRow.EstimatedFeeFiatCents, commission.CommissionCents+feeRow.RevenueCents)
}

func TestCreateSwapIsAtomic(t *testing.T) {
	store := newFakeStore()
	store.referrals["user-1"] = &models.Referral{
		ID:             7,
		ReferrerUserID: "referrer-9",
		TraderUserID:   "user-1",
		CommissionPct:  decimal.RequireFromString("0.30"),
		IsActive:       true,
	}
	store.failCommission = errFor("commission insert")
	mgr := NewSwapLifecycleManager(store, nil)

	_, err := mgr.CreateSwap(createParams(testQuote()))
	require.Error(t, err)

	// The whole unit rolled back: no swap, no fee, no commission.
	assert.Empty(t, store.swaps)
	assert.Empty(t, store.fees)
	assert.Empty(t, store.commissions)
}

func TestCreateSwapFeeInsertFailureRollsBack(t *testing.T) {
	store := newFakeStore()
	store.failSwapFee = errFor("fee insert")
	mgr := NewSwapLifecycleManager(store, nil)

	_, err := mgr.CreateSwap(createParams(testQuote()))
	require.Error(t, err)
	assert.Empty(t, store.swaps)
	assert.Empty(t, store.fees)
}

func TestCreateSwapRejectsDuplicateHash(t *testing.T) {
	store := newFakeStore()
	mgr := NewSwapLifecycleManager(store, nil)

	params := createParams(testQuote())
	_, err := mgr.CreateSwap(params)
	require.NoError(t, err)

	_, err = mgr.CreateSwap(params)
	assert.True(t, IsValidation(err))
	assert.Len(t, store.swaps, 1)
	assert.Len(t, store.fees, 1)
}

func TestCreateSwapValidation(t *testing.T) {
	mgr := NewSwapLifecycleManager(newFakeStore(), nil)

	t.Run("Requires a quote", func(t *testing.T) {
		params := createParams(nil)
		_, err := mgr.CreateSwap(params)
		assert.True(t, IsValidation(err))
	})

	t.Run("Requires a hash", func(t *testing.T) {
		params := createParams(testQuote())
		params.Hash = ""
		_, err := mgr.CreateSwap(params)
		assert.True(t, IsValidation(err))
	})
}

func TestCreateSwapPnlEstimate(t *testing.T) {
	t.Run("Sell takes a pro-rata slice of unrealized return", func(t *testing.T) {
		store := newFakeStore()
		store.holdings["user-1|"+memeMint] = &models.WalletHolding{
			UserID:                "user-1",
			Mint:                  memeMint,
			Amount:                decimal.NewFromInt(200),
			UnrealizedReturnCents: 1000,
		}
		mgr := NewSwapLifecycleManager(store, nil)

		params := createParams(testQuote())
		params.Type = models.SwapTypeSell
		swap, err := mgr.CreateSwap(params)
		require.NoError(t, err)

		// Selling 100 of 200 held: half the 1000-cent return.
		require.NotNil(t, swap.EstimatedPnlCents)
		assert.Equal(t, int64(500), *swap.EstimatedPnlCents)
	})

	t.Run("Buy swaps carry no estimate", func(t *testing.T) {
		store := newFakeStore()
		mgr := NewSwapLifecycleManager(store, nil)

		swap, err := mgr.CreateSwap(createParams(testQuote()))
		require.NoError(t, err)
		assert.Nil(t, swap.EstimatedPnlCents)
	})

	t.Run("Sell without cost basis carries no estimate", func(t *testing.T) {
		store := newFakeStore()
		mgr := NewSwapLifecycleManager(store, nil)

		params := createParams(testQuote())
		params.Type = models.SwapTypeSell
		swap, err := mgr.CreateSwap(params)
		require.NoError(t, err)
		assert.Nil(t, swap.EstimatedPnlCents)
	})
}

func TestCreateSwapLargeTradeAlert(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	mgr := NewSwapLifecycleManager(store, notifier)

	quote := testQuote()
	big := int64(1_500_000) // $15,000
	quote.SendFiatAmountCents = &big

	_, err := mgr.CreateSwap(createParams(quote))
	require.NoError(t, err)

	assert.Contains(t, notifier.events, "swap_created")
	assert.Contains(t, notifier.alerts, "large swap submitted")
}
