package config

import (
	"github.com/shopspring/decimal"
)

// Canonical Solana mints.
const (
	WSOLMint = "So11111111111111111111111111111111111111112"
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	USDTMint = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
)

// RentFundSOL is the lamport rent deposit (in SOL) charged to create an
// associated token account for a wallet that cannot yet receive the
// destination asset.
const RentFundSOL = 0.00203928

// Assets holds the static asset policy tables: which mints count as
// stablecoins, which are pegged 1:1 to the reference stablecoin, and the
// platform fee schedule. Loaded once at process start and passed by
// reference; never mutated afterwards.
type Assets struct {
	// ReferenceStablecoin is the platform's fiat anchor (USDC).
	ReferenceStablecoin string
	// NativeGasMint is the chain's gas asset; trades touching it directly
	// carry no platform fee.
	NativeGasMint string
	// Stablecoins are mints whose fiat value is amount*100 cents by
	// identity, with no external price call.
	Stablecoins map[string]bool
	// Pegged are mints pegged 1:1 to the reference stablecoin.
	Pegged map[string]bool

	FeeSchedule FeeSchedule
}

// FeeSchedule is the platform fee policy in basis points.
type FeeSchedule struct {
	DefaultBuyBps  int
	DefaultSellBps int
	// MintOverrides replaces the default for specific assets.
	MintOverrides map[string]int
}

// DefaultAssets returns the mainnet asset policy.
func DefaultAssets() *Assets {
	return &Assets{
		ReferenceStablecoin: USDCMint,
		NativeGasMint:       WSOLMint,
		Stablecoins: map[string]bool{
			USDCMint: true,
			USDTMint: true,
		},
		Pegged: map[string]bool{
			USDTMint: true,
		},
		FeeSchedule: FeeSchedule{
			DefaultBuyBps:  85,
			DefaultSellBps: 85,
			MintOverrides:  map[string]int{},
		},
	}
}

// IsStablecoin reports whether the mint is a recognized stablecoin.
func (a *Assets) IsStablecoin(mint string) bool {
	return a.Stablecoins[mint]
}

// IsPegged reports whether the mint is pegged 1:1 to the reference
// stablecoin.
func (a *Assets) IsPegged(mint string) bool {
	return a.Pegged[mint]
}

// RentFundAmount returns the account-creation rent deposit as a decimal SOL
// amount.
func (a *Assets) RentFundAmount() decimal.Decimal {
	return decimal.NewFromFloat(RentFundSOL)
}
