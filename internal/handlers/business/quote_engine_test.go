package business

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapdesk/internal/models"
	"swapdesk/pkg/config"
	"swapdesk/pkg/jupiter"
)

var (
	solToken  = &models.TokenConfig{Mint: config.WSOLMint, Symbol: "SOL", Decimals: 9}
	usdcToken = &models.TokenConfig{Mint: config.USDCMint, Symbol: "USDC", Decimals: 6}
	usdtToken = &models.TokenConfig{Mint: config.USDTMint, Symbol: "USDT", Decimals: 6}
	memeToken = &models.TokenConfig{Mint: memeMint, Symbol: "MEME", Decimals: 6}
)

type quoteFixture struct {
	store    *fakeStore
	provider *fakeProvider
	prices   *fakePrices
	accounts *fakeAccounts
	engine   *QuoteEngine
}

func newQuoteFixture() *quoteFixture {
	f := &quoteFixture{
		store: newFakeStore(),
		provider: &fakeProvider{
			quote: &jupiter.QuoteResponse{
				InAmount:    "100000000", // 100 units at 6 decimals
				OutAmount:   "50000000",  // 50 units at 6 decimals
				SlippageBps: 50,
			},
			raw: []byte(`{"inAmount":"100000000"}`),
		},
		prices:   &fakePrices{prices: map[string]decimal.Decimal{}},
		accounts: &fakeAccounts{hasAccount: true},
	}
	f.engine = NewQuoteEngine(f.store, config.DefaultAssets(),
		map[string]TradeProvider{"solana": f.provider}, f.prices, f.accounts)
	return f
}

func baseRequest(sell, buy *models.TokenConfig) QuoteRequest {
	return QuoteRequest{
		Chain:          "solana",
		Provider:       "jupiter",
		SellToken:      sell,
		BuyToken:       buy,
		Amount:         decimal.NewFromInt(100),
		Side:           models.SwapTypeBuy,
		MaxSlippageBps: 50,
		FeeBps:         85,
		Timestamp:      time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestGetQuoteValidation(t *testing.T) {
	f := newQuoteFixture()
	ctx := context.Background()

	t.Run("Self swap rejected", func(t *testing.T) {
		_, err := f.engine.GetQuote(ctx, baseRequest(memeToken, memeToken))
		assert.True(t, IsValidation(err))
	})

	t.Run("Non-positive amount rejected", func(t *testing.T) {
		req := baseRequest(usdtToken, memeToken)
		req.Amount = decimal.Zero
		_, err := f.engine.GetQuote(ctx, req)
		assert.True(t, IsValidation(err))
	})

	t.Run("Unsupported chain rejected", func(t *testing.T) {
		req := baseRequest(usdtToken, memeToken)
		req.Chain = "ethereum"
		_, err := f.engine.GetQuote(ctx, req)
		assert.True(t, IsValidation(err))
	})

	t.Run("Missing token rejected", func(t *testing.T) {
		req := baseRequest(nil, memeToken)
		_, err := f.engine.GetQuote(ctx, req)
		assert.True(t, IsValidation(err))
	})
}

func TestGetQuoteStablecoinIdentity(t *testing.T) {
	f := newQuoteFixture()
	f.prices.prices[memeMint] = decimal.NewFromInt(2)

	quote, err := f.engine.GetQuote(context.Background(), baseRequest(usdtToken, memeToken))
	require.NoError(t, err)

	// The stablecoin leg converts by identity: 100 USDT -> 10000 cents,
	// with no price source call. The meme leg uses the price source.
	require.NotNil(t, quote.SendFiatAmountCents)
	assert.Equal(t, int64(10000), *quote.SendFiatAmountCents)
	require.NotNil(t, quote.ReceiveFiatAmountCents)
	assert.Equal(t, int64(10000), *quote.ReceiveFiatAmountCents)
}

func TestGetQuoteReferenceSideIsAuthoritative(t *testing.T) {
	ctx := context.Background()

	t.Run("Selling the reference stablecoin prices the other leg", func(t *testing.T) {
		f := newQuoteFixture()
		// No price anywhere; the USDC leg alone determines both sides.
		quote, err := f.engine.GetQuote(ctx, baseRequest(usdcToken, memeToken))
		require.NoError(t, err)

		require.NotNil(t, quote.SendFiatAmountCents)
		require.NotNil(t, quote.ReceiveFiatAmountCents)
		assert.Equal(t, *quote.SendFiatAmountCents, *quote.ReceiveFiatAmountCents)
		assert.Equal(t, int64(10000), *quote.SendFiatAmountCents)
	})

	t.Run("Pegged destination keeps its own identity value", func(t *testing.T) {
		f := newQuoteFixture()
		// USDC -> USDT: 100 in, 50 out per the provider fixture. The
		// pegged leg mirrors its own amount (5000 cents), not the send
		// side's 10000.
		quote, err := f.engine.GetQuote(ctx, baseRequest(usdcToken, usdtToken))
		require.NoError(t, err)

		require.NotNil(t, quote.SendFiatAmountCents)
		require.NotNil(t, quote.ReceiveFiatAmountCents)
		assert.Equal(t, int64(10000), *quote.SendFiatAmountCents)
		assert.Equal(t, int64(5000), *quote.ReceiveFiatAmountCents)
	})

	t.Run("Buying the reference stablecoin mirrors back", func(t *testing.T) {
		f := newQuoteFixture()
		quote, err := f.engine.GetQuote(ctx, baseRequest(memeToken, usdcToken))
		require.NoError(t, err)

		require.NotNil(t, quote.SendFiatAmountCents)
		require.NotNil(t, quote.ReceiveFiatAmountCents)
		// The 50-unit USDC out leg is worth 5000 cents by identity.
		assert.Equal(t, int64(5000), *quote.ReceiveFiatAmountCents)
		assert.Equal(t, *quote.ReceiveFiatAmountCents, *quote.SendFiatAmountCents)
	})

	t.Run("Unpriceable non-stable legs fall back to zero", func(t *testing.T) {
		f := newQuoteFixture()
		other := &models.TokenConfig{Mint: "Other1111111111111111111111111111111111111", Symbol: "OTHER", Decimals: 6}
		quote, err := f.engine.GetQuote(ctx, baseRequest(memeToken, other))
		require.NoError(t, err)

		require.NotNil(t, quote.SendFiatAmountCents)
		require.NotNil(t, quote.ReceiveFiatAmountCents)
		assert.Equal(t, int64(0), *quote.SendFiatAmountCents)
		assert.Equal(t, int64(0), *quote.ReceiveFiatAmountCents)
	})
}

func TestGetQuoteFeeSuppression(t *testing.T) {
	ctx := context.Background()

	t.Run("Gas asset trades pass zero fee to the provider", func(t *testing.T) {
		f := newQuoteFixture()
		_, err := f.engine.GetQuote(ctx, baseRequest(solToken, memeToken))
		require.NoError(t, err)
		assert.Equal(t, 0, f.provider.lastFeeBps)
	})

	t.Run("Buying the reference stablecoin passes zero fee", func(t *testing.T) {
		f := newQuoteFixture()
		quote, err := f.engine.GetQuote(ctx, baseRequest(memeToken, usdcToken))
		require.NoError(t, err)
		assert.Equal(t, 0, f.provider.lastFeeBps)
		assert.Equal(t, 0, quote.PlatformFeeBps)
	})

	t.Run("Regular trades carry the requested fee", func(t *testing.T) {
		f := newQuoteFixture()
		quote, err := f.engine.GetQuote(ctx, baseRequest(usdtToken, memeToken))
		require.NoError(t, err)
		assert.Equal(t, 85, f.provider.lastFeeBps)
		assert.Equal(t, 85, quote.PlatformFeeBps)
		require.NotNil(t, quote.EstimatedFeeCents)
		assert.Equal(t, int64(85), *quote.EstimatedFeeCents)
	})
}

func TestGetQuoteAccountCreationFee(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing receiving account adds the rent item", func(t *testing.T) {
		f := newQuoteFixture()
		f.accounts.hasAccount = false
		f.prices.prices[config.WSOLMint] = decimal.NewFromInt(150)

		req := baseRequest(usdtToken, memeToken)
		req.WalletAddress = "Wallet111111111111111111111111111111111111"
		quote, err := f.engine.GetQuote(ctx, req)
		require.NoError(t, err)

		require.Len(t, quote.Fees, 1)
		assert.Equal(t, "account_creation", quote.Fees[0].Kind)
		assert.Equal(t, config.WSOLMint, quote.Fees[0].Mint)
		assert.True(t, quote.Fees[0].Amount.Equal(decimal.NewFromFloat(config.RentFundSOL)))
		assert.True(t, quote.Fees[0].AmountUsd.IsPositive())
	})

	t.Run("Existing account adds nothing", func(t *testing.T) {
		f := newQuoteFixture()
		req := baseRequest(usdtToken, memeToken)
		req.WalletAddress = "Wallet111111111111111111111111111111111111"
		quote, err := f.engine.GetQuote(ctx, req)
		require.NoError(t, err)
		assert.Empty(t, quote.Fees)
	})

	t.Run("No wallet means no account check", func(t *testing.T) {
		f := newQuoteFixture()
		_, err := f.engine.GetQuote(ctx, baseRequest(usdtToken, memeToken))
		require.NoError(t, err)
		assert.Zero(t, f.accounts.calls)
	})

	t.Run("Account check failure fails the quote", func(t *testing.T) {
		f := newQuoteFixture()
		f.accounts.err = errFor("rpc")
		req := baseRequest(usdtToken, memeToken)
		req.WalletAddress = "Wallet111111111111111111111111111111111111"
		_, err := f.engine.GetQuote(ctx, req)
		assert.Error(t, err)
		assert.False(t, IsValidation(err))
	})
}

func TestGetQuotePersistsSnapshot(t *testing.T) {
	f := newQuoteFixture()
	quote, err := f.engine.GetQuote(context.Background(), baseRequest(usdtToken, memeToken))
	require.NoError(t, err)

	stored, err := f.store.QuoteByID(quote.ID)
	require.NoError(t, err)
	assert.Equal(t, quote, stored)
	assert.Equal(t, []byte(`{"inAmount":"100000000"}`), []byte(stored.RawProviderResponse))
	assert.Equal(t, 50, stored.SlippageBps)
	assert.True(t, stored.SendAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, stored.ReceiveAmount.Equal(decimal.NewFromInt(50)))
}

func TestGetQuoteProviderFailure(t *testing.T) {
	f := newQuoteFixture()
	f.provider.err = errFor("provider")

	_, err := f.engine.GetQuote(context.Background(), baseRequest(usdtToken, memeToken))
	assert.Error(t, err)
	assert.False(t, IsValidation(err))
	assert.Empty(t, f.store.quotes)
}

func TestGetQuotePriceFailureIsNotFatal(t *testing.T) {
	f := newQuoteFixture()
	f.prices.err = errFor("price source")

	// USDT converts by identity, meme has no price: the quote still lands
	// with the unpriced side mirroring nothing but zero-filled.
	quote, err := f.engine.GetQuote(context.Background(), baseRequest(usdtToken, memeToken))
	require.NoError(t, err)
	require.NotNil(t, quote.SendFiatAmountCents)
	assert.Equal(t, int64(10000), *quote.SendFiatAmountCents)
	require.NotNil(t, quote.ReceiveFiatAmountCents)
	assert.Equal(t, int64(0), *quote.ReceiveFiatAmountCents)
}
