package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SwapStatus is the settlement state of a submitted swap. pending,
// processed and confirmed are transient; finalized and failed are terminal.
type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusProcessed SwapStatus = "processed"
	SwapStatusConfirmed SwapStatus = "confirmed"
	SwapStatusFinalized SwapStatus = "finalized"
	SwapStatusFailed    SwapStatus = "failed"
)

// SwapType is the user-facing direction of the trade.
type SwapType string

const (
	SwapTypeUnknown SwapType = ""
	SwapTypeBuy     SwapType = "buy"
	SwapTypeSell    SwapType = "sell"
)

// Swap is one submitted on-chain trade. The (chain, hash) unique index
// rejects double submissions of the same transaction at the database level.
// CreatedAt is caller-supplied, so no auto timestamps.
type Swap struct {
	ID                  string          `gorm:"type:varchar(36);primarykey" json:"id"`
	QuoteID             *string         `gorm:"type:varchar(36)" json:"quote_id"`
	Chain               string          `gorm:"size:32;not null;uniqueIndex:idx_swaps_hash_chain" json:"chain"`
	Provider            string          `gorm:"size:32;not null" json:"provider"`
	SendMint            string          `gorm:"size:100;not null" json:"send_mint"`
	ReceiveMint         string          `gorm:"size:100;not null" json:"receive_mint"`
	SendSymbol          string          `gorm:"size:16" json:"send_symbol"`
	ReceiveSymbol       string          `gorm:"size:16" json:"receive_symbol"`
	SendAmount          decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"send_amount"`
	ReceiveAmount       decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"receive_amount"`
	Hash                string          `gorm:"size:128;not null;uniqueIndex:idx_swaps_hash_chain" json:"hash"`
	Status              SwapStatus      `gorm:"size:16;not null;index" json:"status"`
	Type                SwapType        `gorm:"size:8;not null" json:"type"`
	Private             bool            `gorm:"not null;default:false" json:"private"`
	FailedReason        *string         `gorm:"type:text" json:"failed_reason"`
	TimedOut            bool            `gorm:"not null;default:false" json:"timed_out"`
	EstimatedValueCents *int64          `json:"estimated_value_cents"`
	EstimatedFeeCents   *int64          `json:"estimated_fee_cents"`
	EstimatedPnlCents   *int64          `json:"estimated_pnl_cents"`
	FinalizedAt         *time.Time      `json:"finalized_at"`
	UserID              string          `gorm:"size:64;not null;index:idx_swaps_user_created" json:"user_id"`
	CreatedAt           time.Time       `gorm:"not null;index:idx_swaps_user_created" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"not null" json:"updated_at"`
}

func (Swap) TableName() string {
	return "swaps"
}

// Terminal reports whether the status can no longer change on its own.
func (s SwapStatus) Terminal() bool {
	return s == SwapStatusFinalized || s == SwapStatusFailed
}
