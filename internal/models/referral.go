package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Referral links a trader to the user who referred them. CommissionPct is
// a fraction of the platform fee (0.30 = 30%), read at swap time and never
// retroactively adjusted.
type Referral struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	ReferrerUserID string          `gorm:"size:64;not null" json:"referrer_user_id"`
	TraderUserID   string          `gorm:"size:64;not null;index" json:"trader_user_id"`
	CommissionPct  decimal.Decimal `gorm:"type:numeric(5,4);not null" json:"commission_pct"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Referral) TableName() string {
	return "referrals"
}

// ReferralCommission is the referrer's payout record for one swap, written
// in the same transaction as the swap. The (chain, hash) unique index
// mirrors the one on swaps: one commission per transaction, ever.
type ReferralCommission struct {
	ID                     uint      `gorm:"primarykey" json:"id"`
	ReferralID             uint      `gorm:"not null" json:"referral_id"`
	SwapID                 string    `gorm:"type:varchar(36);not null" json:"swap_id"`
	Chain                  string    `gorm:"size:32;not null;uniqueIndex:idx_commission_hash_chain" json:"chain"`
	Hash                   string    `gorm:"size:128;not null;uniqueIndex:idx_commission_hash_chain" json:"hash"`
	TraderUserID           string    `gorm:"size:64;not null" json:"trader_user_id"`
	RecipientUserID        string    `gorm:"size:64;not null" json:"recipient_user_id"`
	EstimatedSwapFiatCents int64     `gorm:"not null" json:"estimated_swap_fiat_cents"`
	EstimatedFeeFiatCents  int64     `gorm:"not null" json:"estimated_fee_fiat_cents"`
	CommissionCents        int64     `gorm:"not null" json:"commission_cents"`
	CreatedAt              time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ReferralCommission) TableName() string {
	return "referral_commissions"
}
