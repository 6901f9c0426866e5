package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletHolding is the cost-basis snapshot for one user's position in one
// token. UnrealizedReturnCents is the position's total unrealized return
// against its cost basis; sell-swap P&L estimates take a pro-rata slice of
// it. A missing row means "no cost-basis data", which is distinct from a
// zero return.
type WalletHolding struct {
	ID                    uint            `gorm:"primarykey" json:"id"`
	UserID                string          `gorm:"size:64;not null;uniqueIndex:idx_holding_user_mint" json:"user_id"`
	Mint                  string          `gorm:"size:100;not null;uniqueIndex:idx_holding_user_mint" json:"mint"`
	Amount                decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"amount"`
	CostBasisCents        int64           `gorm:"not null" json:"cost_basis_cents"`
	UnrealizedReturnCents int64           `gorm:"not null" json:"unrealized_return_cents"`
	CreatedAt             time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WalletHolding) TableName() string {
	return "wallet_holdings"
}
