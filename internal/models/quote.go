package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is an immutable priced-trade snapshot. Rows are written once at
// quote time and never updated: the swap that references a quote must see
// exactly the terms the user accepted. CreatedAt is caller-supplied (the
// moment the price was sampled), so no auto timestamps.
type Quote struct {
	ID                     string          `gorm:"type:varchar(36);primarykey" json:"id"`
	Provider               string          `gorm:"size:32;not null" json:"provider"`
	Chain                  string          `gorm:"size:32;not null" json:"chain"`
	SendMint               string          `gorm:"size:100;not null" json:"send_mint"`
	ReceiveMint            string          `gorm:"size:100;not null" json:"receive_mint"`
	SendSymbol             string          `gorm:"size:16" json:"send_symbol"`
	ReceiveSymbol          string          `gorm:"size:16" json:"receive_symbol"`
	SendAmount             decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"send_amount"`
	ReceiveAmount          decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"receive_amount"`
	SendFiatAmountCents    *int64          `json:"send_fiat_amount_cents"`
	ReceiveFiatAmountCents *int64          `json:"receive_fiat_amount_cents"`
	PlatformFeeBps         int             `gorm:"not null" json:"platform_fee_bps"`
	EstimatedFeeCents      *int64          `json:"estimated_fee_cents"`
	Fees                   QuoteFeeList    `gorm:"type:jsonb" json:"fees"`
	SlippageBps            int             `gorm:"not null" json:"slippage_bps"`
	RawProviderResponse    json.RawMessage `gorm:"type:jsonb" json:"-"`
	CreatedAt              time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt              time.Time       `gorm:"not null" json:"updated_at"`
}

func (Quote) TableName() string {
	return "quotes"
}

// QuoteFee is one itemized pass-through fee on a quote, such as the rent
// deposit for creating the recipient's token account.
type QuoteFee struct {
	Kind      string          `json:"kind"`
	Mint      string          `json:"mint"`
	Amount    decimal.Decimal `json:"amount"`
	AmountUsd decimal.Decimal `json:"amount_usd"`
}

// QuoteFeeList is a custom type to handle JSONB data
type QuoteFeeList []QuoteFee

// Value implements the driver.Valuer interface
func (l QuoteFeeList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *QuoteFeeList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, l)
}
