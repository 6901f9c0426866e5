package main

import (
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"swapdesk/internal/models"
	"swapdesk/pkg/config"
)

// Seeds the asset registry with the core mints so a fresh environment can
// quote immediately. Existing rows are left untouched.
func main() {
	_ = godotenv.Load()
	config.InitDB()

	tokens := []models.TokenConfig{
		{
			Mint:     config.WSOLMint,
			Symbol:   "SOL",
			Name:     "Wrapped SOL",
			Decimals: 9,
			IsActive: true,
			MintedAt: time.Date(2020, 3, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			Mint:     config.USDCMint,
			Symbol:   "USDC",
			Name:     "USD Coin",
			Decimals: 6,
			IsActive: true,
			MintedAt: time.Date(2020, 10, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Mint:     config.USDTMint,
			Symbol:   "USDT",
			Name:     "Tether USD",
			Decimals: 6,
			IsActive: true,
			MintedAt: time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, token := range tokens {
		var existing models.TokenConfig
		err := config.DB.Where("mint = ?", token.Mint).First(&existing).Error
		if err == nil {
			log.Infof("Token %s already present, skipping", token.Symbol)
			continue
		}
		if err := config.DB.Create(&token).Error; err != nil {
			log.Errorf("Failed to seed token %s: %v", token.Symbol, err)
			continue
		}
		log.Infof("Seeded token %s", token.Symbol)
	}
}
