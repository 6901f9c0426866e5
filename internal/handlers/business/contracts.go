package business

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"swapdesk/internal/models"
	"swapdesk/pkg/jupiter"
	"swapdesk/pkg/solana"
)

// TradeProvider is the external trading-provider contract. One provider
// serves one chain; the engines hold a map keyed by chain identifier and
// never depend on a concrete implementation.
type TradeProvider interface {
	GetQuote(ctx context.Context, inputMint, outputMint, amount string, slippageBps, feeBps int) (*jupiter.QuoteResponse, []byte, error)
	BuildTransaction(ctx context.Context, rawQuote []byte, userPublicKey string) (*jupiter.SwapTransactionResponse, error)
}

// LedgerClient is the external ledger status contract.
type LedgerClient interface {
	GetConfirmationStatus(ctx context.Context, hash string) (*solana.SignatureStatus, error)
	DecodeFailureReason(ctx context.Context, hash string) (string, error)
}

// AccountService answers whether a wallet can already receive an asset.
type AccountService interface {
	HasReceivingAccount(ctx context.Context, walletAddress, mint string) (bool, error)
}

// PriceSource resolves an asset's USD price. A nil price with nil error
// means the asset has no known price, which is a normal outcome.
type PriceSource interface {
	GetPriceUsd(ctx context.Context, mint string) (*decimal.Decimal, error)
}

// Notifier is the fire-and-forget notification/analytics contract.
// Implementations must never propagate failures to the caller.
type Notifier interface {
	AnalyticsEvent(event string, payload map[string]any)
	OpsAlert(message string, payload map[string]any)
}

// Store is the persistence contract over the settlement entities. Atomically
// runs fn inside one transaction; the Store handed to fn participates in
// that transaction, and any error rolls the whole unit back.
type Store interface {
	Atomically(fn func(Store) error) error

	CreateQuote(q *models.Quote) error
	QuoteByID(id string) (*models.Quote, error)

	CreateSwap(s *models.Swap) error
	SwapByID(id string) (*models.Swap, error)
	SwapByHash(hash, chain string) (*models.Swap, error)
	SaveSwap(s *models.Swap) error
	NonTerminalSwaps(createdBefore time.Time, limit int) ([]models.Swap, error)

	CreateSwapFee(f *models.SwapFee) error
	CreateReferralCommission(c *models.ReferralCommission) error

	// CreateIdempotencyKey consumes a client submission token. Callers must
	// release the key with DeleteIdempotencyKey when the submission it
	// guards fails, or the token stays burned with no swap behind it.
	CreateIdempotencyKey(k *models.IdempotencyKey) error
	DeleteIdempotencyKey(k *models.IdempotencyKey) error
	LinkIdempotencyKey(keyID uint, swapID string) error

	// ActiveReferralFor returns nil when the trader has no active referral.
	ActiveReferralFor(traderUserID string) (*models.Referral, error)
	// HoldingFor returns nil when no cost-basis data exists.
	HoldingFor(userID, mint string) (*models.WalletHolding, error)
}
