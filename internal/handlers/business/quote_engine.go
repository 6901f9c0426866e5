package business

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"swapdesk/internal/models"
	"swapdesk/pkg/config"
	"swapdesk/pkg/money"
)

// QuoteEngine produces and persists immutable priced-trade snapshots.
type QuoteEngine struct {
	store     Store
	assets    *config.Assets
	providers map[string]TradeProvider
	prices    PriceSource
	accounts  AccountService
}

// NewQuoteEngine wires the engine. providers is keyed by chain identifier.
func NewQuoteEngine(store Store, assets *config.Assets, providers map[string]TradeProvider, prices PriceSource, accounts AccountService) *QuoteEngine {
	return &QuoteEngine{
		store:     store,
		assets:    assets,
		providers: providers,
		prices:    prices,
		accounts:  accounts,
	}
}

// QuoteRequest carries one quote request. Amount is always denominated in
// the input (sell) side of the trade. Timestamp is the caller-supplied
// semantic creation time, typically the moment the price was sampled.
type QuoteRequest struct {
	Chain          string
	Provider       string
	SellToken      *models.TokenConfig
	BuyToken       *models.TokenConfig
	Amount         decimal.Decimal
	Side           models.SwapType
	MaxSlippageBps int
	FeeBps         int
	WalletAddress  string
	Timestamp      time.Time
}

// GetQuote obtains a raw provider quote, attaches fiat estimates and fees,
// and persists the immutable Quote snapshot.
func (e *QuoteEngine) GetQuote(ctx context.Context, req QuoteRequest) (*models.Quote, error) {
	if req.SellToken == nil || req.BuyToken == nil {
		return nil, NewValidationError("both trade assets must be specified")
	}
	if req.SellToken.Mint == req.BuyToken.Mint {
		return nil, NewValidationError("cannot swap an asset for itself")
	}
	if !req.Amount.IsPositive() {
		return nil, NewValidationError("swap amount must be positive")
	}

	provider, ok := e.providers[req.Chain]
	if !ok {
		return nil, NewValidationError("unsupported chain: %s", req.Chain)
	}

	sellMint := req.SellToken.Mint
	buyMint := req.BuyToken.Mint

	// Trades touching the gas asset directly or landing in the reference
	// stablecoin carry no platform fee.
	feeBps := req.FeeBps
	feeSuppressed := sellMint == e.assets.NativeGasMint ||
		buyMint == e.assets.NativeGasMint ||
		buyMint == e.assets.ReferenceStablecoin
	if feeSuppressed {
		feeBps = 0
	}

	baseAmount := money.ToBaseUnits(req.Amount, req.SellToken.Decimals)
	raw, rawBody, err := provider.GetQuote(ctx, sellMint, buyMint, baseAmount, req.MaxSlippageBps, feeBps)
	if err != nil {
		return nil, WrapUnexpected(fmt.Errorf("provider quote failed: %w", err))
	}

	sendAmount, err := money.FromBaseUnits(raw.InAmount, req.SellToken.Decimals)
	if err != nil {
		return nil, WrapUnexpected(err)
	}
	receiveAmount, err := money.FromBaseUnits(raw.OutAmount, req.BuyToken.Decimals)
	if err != nil {
		return nil, WrapUnexpected(err)
	}

	sendCents := e.fiatCents(ctx, sellMint, sendAmount)
	receiveCents := e.fiatCents(ctx, buyMint, receiveAmount)

	// Reconcile which side is authoritative. When one leg is the reference
	// stablecoin its fiat value is exact by identity and covers the other
	// leg too, except a pegged 1:1 destination, which mirrors its own
	// amount directly. With no stablecoin leg neither side is preferred
	// and missing values fall back to zero.
	switch {
	case sellMint == e.assets.ReferenceStablecoin:
		if !e.assets.IsPegged(buyMint) {
			receiveCents = sendCents
		}
	case buyMint == e.assets.ReferenceStablecoin:
		sendCents = receiveCents
	default:
		if sendCents == nil {
			sendCents = int64Ptr(0)
		}
		if receiveCents == nil {
			receiveCents = int64Ptr(0)
		}
	}

	var fees models.QuoteFeeList
	if !feeSuppressed && req.WalletAddress != "" {
		hasAccount, err := e.accounts.HasReceivingAccount(ctx, req.WalletAddress, buyMint)
		if err != nil {
			// Fee correctness depends on the live answer, so this one is
			// fatal for the quote.
			return nil, WrapUnexpected(fmt.Errorf("receiving account check failed: %w", err))
		}
		if !hasAccount {
			fees = append(fees, e.accountCreationFee(ctx))
		}
	}

	estimatedFee := estimatedFeeCents(sendCents, receiveCents, feeBps)

	quote := &models.Quote{
		ID:                     uuid.NewString(),
		Provider:               req.Provider,
		Chain:                  req.Chain,
		SendMint:               sellMint,
		ReceiveMint:            buyMint,
		SendSymbol:             req.SellToken.Symbol,
		ReceiveSymbol:          req.BuyToken.Symbol,
		SendAmount:             sendAmount,
		ReceiveAmount:          receiveAmount,
		SendFiatAmountCents:    sendCents,
		ReceiveFiatAmountCents: receiveCents,
		PlatformFeeBps:         feeBps,
		EstimatedFeeCents:      estimatedFee,
		Fees:                   fees,
		SlippageBps:            raw.SlippageBps,
		RawProviderResponse:    rawBody,
		CreatedAt:              req.Timestamp,
		UpdatedAt:              req.Timestamp,
	}

	if err := e.store.CreateQuote(quote); err != nil {
		return nil, WrapUnexpected(fmt.Errorf("failed to persist quote: %w", err))
	}

	return quote, nil
}

// fiatCents resolves an asset amount to whole fiat cents. Recognized
// stablecoins convert by identity with no external call; for everything
// else a missing or failed price lookup yields nil, never an error.
func (e *QuoteEngine) fiatCents(ctx context.Context, mint string, amount decimal.Decimal) *int64 {
	if e.assets.IsStablecoin(mint) {
		return int64Ptr(money.Cents(amount))
	}

	price, err := e.prices.GetPriceUsd(ctx, mint)
	if err != nil {
		log.Warnf("Price lookup failed for %s: %v", mint, err)
		return nil
	}
	if price == nil {
		return nil
	}
	return int64Ptr(money.CentsFromPrice(amount, *price))
}

// accountCreationFee is the fixed rent deposit for creating the recipient's
// token account, priced in the gas asset.
func (e *QuoteEngine) accountCreationFee(ctx context.Context) models.QuoteFee {
	rent := e.assets.RentFundAmount()
	fee := models.QuoteFee{
		Kind:   "account_creation",
		Mint:   e.assets.NativeGasMint,
		Amount: rent,
	}

	price, err := e.prices.GetPriceUsd(ctx, e.assets.NativeGasMint)
	if err != nil {
		log.Warnf("Gas asset price lookup failed: %v", err)
		return fee
	}
	if price != nil {
		fee.AmountUsd = rent.Mul(*price)
	}
	return fee
}

// estimatedFeeCents is the platform's basis-point revenue estimate on
// whichever fiat side is available, independent of the itemized
// pass-through fees.
func estimatedFeeCents(sendCents, receiveCents *int64, feeBps int) *int64 {
	var base *int64
	switch {
	case sendCents != nil:
		base = sendCents
	case receiveCents != nil:
		base = receiveCents
	default:
		return nil
	}
	return int64Ptr(money.ApplyBps(*base, feeBps))
}

func int64Ptr(v int64) *int64 {
	return &v
}
