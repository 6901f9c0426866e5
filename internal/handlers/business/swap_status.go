package business

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"swapdesk/internal/models"
	"swapdesk/pkg/solana"
)

// A swap with no ledger record older than this is considered dropped.
const pendingTimeout = 2 * time.Minute

const timeoutReason = "transaction not found on ledger; likely network congestion or timeout"

// SwapStatusReconciler maps the external ledger's view of a transaction
// onto the internal swap status.
type SwapStatusReconciler struct {
	store    Store
	ledger   LedgerClient
	notifier Notifier
	now      func() time.Time
}

// NewSwapStatusReconciler wires the reconciler. notifier may be nil.
func NewSwapStatusReconciler(store Store, ledger LedgerClient, notifier Notifier) *SwapStatusReconciler {
	return &SwapStatusReconciler{
		store:    store,
		ledger:   ledger,
		notifier: notifier,
		now:      time.Now,
	}
}

// StatusResult is the computed settlement state for one swap.
type StatusResult struct {
	Status       models.SwapStatus
	FailedReason *string
	TimedOut     bool
}

// GetStatus queries the ledger for the swap's transaction hash. A ledger
// timeout or lookup failure is treated the same as "no record found":
// "don't know yet" is a valid outcome of asynchronous settlement, not an
// error to surface.
func (r *SwapStatusReconciler) GetStatus(ctx context.Context, swap *models.Swap) StatusResult {
	st, err := r.ledger.GetConfirmationStatus(ctx, swap.Hash)
	if err != nil {
		log.Warnf("Ledger status lookup failed for %s: %v", swap.Hash, err)
		st = &solana.SignatureStatus{Found: false}
	}

	if !st.Found {
		if r.now().Sub(swap.CreatedAt) < pendingTimeout {
			return StatusResult{Status: models.SwapStatusPending}
		}
		reason := timeoutReason
		return StatusResult{Status: models.SwapStatusFailed, FailedReason: &reason, TimedOut: true}
	}

	if st.Failed {
		reason := "transaction failed"
		if detail, err := r.ledger.DecodeFailureReason(ctx, swap.Hash); err != nil {
			log.Warnf("Failed to decode failure reason for %s: %v", swap.Hash, err)
		} else if detail != "" {
			reason = detail
		}
		return StatusResult{Status: models.SwapStatusFailed, FailedReason: &reason}
	}

	switch st.Depth {
	case solana.DepthFinalized:
		return StatusResult{Status: models.SwapStatusFinalized}
	case solana.DepthConfirmed:
		return StatusResult{Status: models.SwapStatusConfirmed}
	case solana.DepthProcessed:
		return StatusResult{Status: models.SwapStatusProcessed}
	default:
		return StatusResult{Status: models.SwapStatusPending}
	}
}

// SyncStatus computes the current status and writes it back. The write is
// an idempotent "set to computed value": repeated calls with an unchanged
// ledger converge on the same row.
func (r *SwapStatusReconciler) SyncStatus(ctx context.Context, swap *models.Swap) (*models.Swap, error) {
	result := r.GetStatus(ctx, swap)

	wasFailed := swap.Status == models.SwapStatusFailed

	swap.Status = result.Status
	swap.FailedReason = result.FailedReason
	swap.TimedOut = result.TimedOut
	if result.Status == models.SwapStatusFinalized && swap.FinalizedAt == nil {
		now := r.now().UTC()
		swap.FinalizedAt = &now
	}
	swap.UpdatedAt = r.now().UTC()

	if err := r.store.SaveSwap(swap); err != nil {
		return nil, WrapUnexpected(fmt.Errorf("failed to save swap status: %w", err))
	}

	if r.notifier != nil && result.Status == models.SwapStatusFailed && !wasFailed {
		reason := ""
		if result.FailedReason != nil {
			reason = *result.FailedReason
		}
		r.notifier.OpsAlert("swap failed", map[string]any{
			"swap_id": swap.ID,
			"hash":    swap.Hash,
			"reason":  reason,
		})
	}

	return swap, nil
}
