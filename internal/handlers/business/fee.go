package business

import (
	"swapdesk/internal/models"
	"swapdesk/pkg/config"
)

// FeeCalculator resolves the platform fee in basis points for a trade. The
// schedule is immutable after startup.
type FeeCalculator struct {
	assets *config.Assets
}

// NewFeeCalculator creates a calculator over the loaded asset policy.
func NewFeeCalculator(assets *config.Assets) *FeeCalculator {
	return &FeeCalculator{assets: assets}
}

// FeeBps returns the platform fee to withhold. Trades touching the native
// gas asset directly and trades into the reference stablecoin are free:
// both are treated as cash-management moves, not revenue events.
func (f *FeeCalculator) FeeBps(side models.SwapType, sellMint, buyMint string) int {
	if sellMint == f.assets.NativeGasMint || buyMint == f.assets.NativeGasMint {
		return 0
	}
	if buyMint == f.assets.ReferenceStablecoin {
		return 0
	}

	// Per-asset override keyed on the non-stable leg of the trade.
	tradedMint := buyMint
	if side == models.SwapTypeSell {
		tradedMint = sellMint
	}
	if bps, ok := f.assets.FeeSchedule.MintOverrides[tradedMint]; ok {
		return bps
	}

	if side == models.SwapTypeSell {
		return f.assets.FeeSchedule.DefaultSellBps
	}
	return f.assets.FeeSchedule.DefaultBuyBps
}
