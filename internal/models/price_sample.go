package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSample is one observed OHLCV point for a token, collected by the
// price poller at irregular intervals. The chart assembler aligns samples
// onto a fixed bucket grid at read time; nothing here is grid-aligned.
type PriceSample struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	Mint       string          `gorm:"size:100;not null;index:idx_price_sample_mint_ts" json:"mint"`
	Open       decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"open"`
	High       decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"high"`
	Low        decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"low"`
	Close      decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"close"`
	Value      decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"value"`
	SampledAt  time.Time       `gorm:"not null;index:idx_price_sample_mint_ts" json:"sampled_at"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (PriceSample) TableName() string {
	return "price_samples"
}

// IdempotencyKey records a client-supplied submission token. The swap
// submission handler rejects a second request carrying the same token
// before the lifecycle manager runs; the (hash, chain) unique index on
// swaps is the second line of defense.
type IdempotencyKey struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Token     string    `gorm:"size:128;not null;uniqueIndex" json:"token"`
	UserID    string    `gorm:"size:64;not null" json:"user_id"`
	SwapID    *string   `gorm:"type:varchar(36)" json:"swap_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}
