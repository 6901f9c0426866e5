package business

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"swapdesk/internal/models"
	"swapdesk/pkg/money"
)

// Ops alerts fire for swaps at or above this estimated fiat value.
const largeTradeCents = 10_000_00

// SwapLifecycleManager creates the Swap, SwapFee and ReferralCommission
// rows for a submitted transaction in one atomic unit of work.
type SwapLifecycleManager struct {
	store    Store
	notifier Notifier
}

// NewSwapLifecycleManager wires the manager. notifier may be nil.
func NewSwapLifecycleManager(store Store, notifier Notifier) *SwapLifecycleManager {
	return &SwapLifecycleManager{store: store, notifier: notifier}
}

// CreateSwapParams carries one submission. Timestamp is caller-supplied.
type CreateSwapParams struct {
	UserID    string
	Quote     *models.Quote
	Hash      string
	Private   bool
	Type      models.SwapType
	Timestamp time.Time
}

// CreateSwap atomically inserts the Swap plus its dependent fee and
// commission records. Any failure rolls back the whole unit: readers never
// observe a partial swap/fee/commission combination. Analytics and ops
// notifications run after commit, best effort.
func (m *SwapLifecycleManager) CreateSwap(p CreateSwapParams) (*models.Swap, error) {
	if p.Quote == nil {
		return nil, NewValidationError("swap submission requires a quote")
	}
	if p.Hash == "" {
		return nil, NewValidationError("swap submission requires a transaction hash")
	}

	if existing, err := m.store.SwapByHash(p.Hash, p.Quote.Chain); err != nil {
		return nil, WrapUnexpected(err)
	} else if existing != nil {
		return nil, NewValidationError("swap already submitted for transaction %s", p.Hash)
	}

	estimatedValue := quoteFiatValue(p.Quote)
	feeCents := int64(0)
	if p.Quote.EstimatedFeeCents != nil {
		feeCents = *p.Quote.EstimatedFeeCents
	}

	var swap *models.Swap
	err := m.store.Atomically(func(tx Store) error {
		pnl, err := estimatePnl(tx, p.UserID, p.Quote.SendMint, p.Quote.SendAmount, p.Type)
		if err != nil {
			return err
		}

		quoteID := p.Quote.ID
		swap = &models.Swap{
			ID:                  uuid.NewString(),
			QuoteID:             &quoteID,
			Chain:               p.Quote.Chain,
			Provider:            p.Quote.Provider,
			SendMint:            p.Quote.SendMint,
			ReceiveMint:         p.Quote.ReceiveMint,
			SendSymbol:          p.Quote.SendSymbol,
			ReceiveSymbol:       p.Quote.ReceiveSymbol,
			SendAmount:          p.Quote.SendAmount,
			ReceiveAmount:       p.Quote.ReceiveAmount,
			Hash:                p.Hash,
			Status:              models.SwapStatusPending,
			Type:                p.Type,
			Private:             p.Private,
			EstimatedValueCents: int64Ptr(estimatedValue),
			EstimatedFeeCents:   p.Quote.EstimatedFeeCents,
			EstimatedPnlCents:   pnl,
			UserID:              p.UserID,
			CreatedAt:           p.Timestamp,
			UpdatedAt:           p.Timestamp,
		}
		if err := tx.CreateSwap(swap); err != nil {
			return fmt.Errorf("failed to insert swap: %w", err)
		}

		commission := int64(0)
		referral, err := tx.ActiveReferralFor(p.UserID)
		if err != nil {
			return fmt.Errorf("failed to look up referral: %w", err)
		}
		if referral != nil {
			// The referrer's rate is read now and never retroactively
			// adjusted.
			commission = money.ApplyPercent(feeCents, referral.CommissionPct)
			if err := tx.CreateReferralCommission(&models.ReferralCommission{
				ReferralID:             referral.ID,
				SwapID:                 swap.ID,
				Chain:                  swap.Chain,
				Hash:                   swap.Hash,
				TraderUserID:           p.UserID,
				RecipientUserID:        referral.ReferrerUserID,
				EstimatedSwapFiatCents: estimatedValue,
				EstimatedFeeFiatCents:  feeCents,
				CommissionCents:        commission,
			}); err != nil {
				return fmt.Errorf("failed to insert referral commission: %w", err)
			}
		}

		if err := tx.CreateSwapFee(&models.SwapFee{
			SwapID:                 swap.ID,
			Chain:                  swap.Chain,
			Hash:                   swap.Hash,
			EstimatedSwapFiatCents: estimatedValue,
			EstimatedFeeFiatCents:  feeCents,
			RevenueCents:           feeCents - commission,
		}); err != nil {
			return fmt.Errorf("failed to insert swap fee: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, WrapUnexpected(err)
	}

	m.emitSideEffects(swap, estimatedValue)
	return swap, nil
}

// emitSideEffects publishes the analytics event and, for large trades, an
// ops alert. Never fails the swap.
func (m *SwapLifecycleManager) emitSideEffects(swap *models.Swap, estimatedValue int64) {
	if m.notifier == nil {
		return
	}

	m.notifier.AnalyticsEvent("swap_created", map[string]any{
		"swap_id":               swap.ID,
		"user_id":               swap.UserID,
		"chain":                 swap.Chain,
		"type":                  string(swap.Type),
		"estimated_value_cents": estimatedValue,
	})

	if estimatedValue >= largeTradeCents {
		m.notifier.OpsAlert("large swap submitted", map[string]any{
			"swap_id":               swap.ID,
			"hash":                  swap.Hash,
			"estimated_value_cents": estimatedValue,
		})
	}
}

// estimatePnl is the pro-rata slice of the position's unrealized return
// for the fraction being sold. Only meaningful for sell swaps with
// cost-basis data; nil (not zero) otherwise.
func estimatePnl(tx Store, userID, mint string, sentAmount decimal.Decimal, typ models.SwapType) (*int64, error) {
	if typ != models.SwapTypeSell {
		return nil, nil
	}

	holding, err := tx.HoldingFor(userID, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to look up holding: %w", err)
	}
	if holding == nil || !holding.Amount.IsPositive() {
		return nil, nil
	}

	fraction := sentAmount.Div(holding.Amount)
	pnl := fraction.Mul(decimal.NewFromInt(holding.UnrealizedReturnCents)).Round(0).IntPart()
	return int64Ptr(pnl), nil
}

// quoteFiatValue picks the swap's fiat value estimate from the quote.
func quoteFiatValue(q *models.Quote) int64 {
	if q.SendFiatAmountCents != nil {
		return *q.SendFiatAmountCents
	}
	if q.ReceiveFiatAmountCents != nil {
		return *q.ReceiveFiatAmountCents
	}
	return 0
}
