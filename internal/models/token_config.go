package models

import (
	"time"
)

// TokenConfig is the asset registry row for one tradable token. MintedAt is
// the on-chain creation time of the asset; the chart bucketizer uses it to
// pick bucket widths for young tokens.
type TokenConfig struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Mint      string    `gorm:"size:100;uniqueIndex;not null" json:"mint"`
	Symbol    string    `gorm:"size:16;not null" json:"symbol"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Decimals  int       `gorm:"not null" json:"decimals"`
	LogoURI   string    `gorm:"type:text" json:"logo_uri"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	MintedAt  time.Time `gorm:"not null" json:"minted_at"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (TokenConfig) TableName() string {
	return "token_info"
}
