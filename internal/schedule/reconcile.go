package schedule

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"swapdesk/internal/handlers/business"
)

const (
	reconcileMaxConcurrent = 4
	reconcileBatchSize     = 500
)

// ReconcileSwaps sweeps every non-terminal swap and converges its status
// against the ledger. Clients sync their own swaps on demand; this sweep
// catches the ones nobody is watching so nothing stays pending forever.
func ReconcileSwaps(ctx context.Context, store business.Store, reconciler *business.SwapStatusReconciler) error {
	swaps, err := store.NonTerminalSwaps(time.Now().UTC(), reconcileBatchSize)
	if err != nil {
		log.Errorf("> Failed to load non-terminal swaps: %v", err)
		return err
	}
	if len(swaps) == 0 {
		return nil
	}
	log.Infof("> Reconciling %d non-terminal swaps", len(swaps))

	sem := make(chan struct{}, reconcileMaxConcurrent)
	var wg sync.WaitGroup

	for i := range swaps {
		swap := swaps[i]
		wg.Add(1)
		sem <- struct{}{} // acquire

		go func() {
			defer wg.Done()
			defer func() { <-sem }() // release

			before := swap.Status
			updated, err := reconciler.SyncStatus(ctx, &swap)
			if err != nil {
				log.Errorf("> Failed to sync swap %s: %v", swap.ID, err)
				return
			}
			if updated.Status != before {
				log.Infof("> Swap %s moved %s -> %s", swap.ID, before, updated.Status)
			}
		}()
	}

	wg.Wait()
	return nil
}
