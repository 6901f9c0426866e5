package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ToBaseUnits converts a human-readable token amount to the chain's
// smallest-unit integer representation, e.g. 1.5 SOL -> "1500000000".
// The fractional part beyond the token's decimals is truncated.
func ToBaseUnits(amount decimal.Decimal, decimals int) string {
	return amount.Shift(int32(decimals)).Truncate(0).String()
}

// FromBaseUnits converts a smallest-unit integer string back to a
// human-readable amount.
func FromBaseUnits(raw string, decimals int) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid base unit amount %q: %w", raw, err)
	}
	return d.Shift(int32(-decimals)), nil
}

// Cents converts a USD decimal amount to whole cents, rounding half away
// from zero.
func Cents(usd decimal.Decimal) int64 {
	return usd.Shift(2).Round(0).IntPart()
}

// CentsFromPrice converts amount * unit price to whole cents.
func CentsFromPrice(amount, priceUsd decimal.Decimal) int64 {
	return Cents(amount.Mul(priceUsd))
}

// ApplyBps applies a basis-point rate to a cent amount, rounding to the
// nearest whole cent. 100 bps = 1%.
func ApplyBps(cents int64, bps int) int64 {
	return decimal.NewFromInt(cents).
		Mul(decimal.NewFromInt(int64(bps))).
		Div(decimal.NewFromInt(10000)).
		Round(0).
		IntPart()
}

// ApplyPercent applies a fractional percentage (0.30 = 30%) to a cent
// amount, rounding to the nearest whole cent.
func ApplyPercent(cents int64, pct decimal.Decimal) int64 {
	return decimal.NewFromInt(cents).Mul(pct).Round(0).IntPart()
}
