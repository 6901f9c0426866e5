package models

import (
	"time"
)

// SwapFee is the platform's revenue record for one swap, written in the
// same transaction as the swap itself. RevenueCents is the fee net of any
// referral commission; fee, commission and revenue always satisfy
// revenue = fee - commission in whole cents.
type SwapFee struct {
	ID                     uint      `gorm:"primarykey" json:"id"`
	SwapID                 string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"swap_id"`
	Chain                  string    `gorm:"size:32;not null" json:"chain"`
	Hash                   string    `gorm:"size:128;not null" json:"hash"`
	EstimatedSwapFiatCents int64     `gorm:"not null" json:"estimated_swap_fiat_cents"`
	EstimatedFeeFiatCents  int64     `gorm:"not null" json:"estimated_fee_fiat_cents"`
	RevenueCents           int64     `gorm:"not null" json:"revenue_cents"`
	CreatedAt              time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SwapFee) TableName() string {
	return "swap_fees"
}
