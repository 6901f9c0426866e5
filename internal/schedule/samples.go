package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"swapdesk/internal/models"
	dbconfig "swapdesk/pkg/config"
)

const sampleMaxConcurrent = 4

// PriceSource resolves a token's USD price for sample collection.
type PriceSource interface {
	GetPriceUsd(ctx context.Context, mint string) (*decimal.Decimal, error)
}

// CollectPriceSamples polls the price source for every active token and
// appends one sample per token. Samples land at irregular timestamps; the
// chart assembler aligns them onto bucket grids at read time.
func CollectPriceSamples(ctx context.Context, prices PriceSource) error {
	var tokens []models.TokenConfig
	if err := dbconfig.DB.Where("is_active = ?", true).Find(&tokens).Error; err != nil {
		log.Errorf("> Failed to load active tokens: %v", err)
		return err
	}
	if len(tokens) == 0 {
		log.Warn("> No active tokens, skipping price collection")
		return nil
	}

	sem := make(chan struct{}, sampleMaxConcurrent)
	var wg sync.WaitGroup

	for _, token := range tokens {
		token := token
		wg.Add(1)
		sem <- struct{}{} // acquire

		go func() {
			defer wg.Done()
			defer func() { <-sem }() // release

			price, err := prices.GetPriceUsd(ctx, token.Mint)
			if err != nil {
				log.Errorf("> Failed to fetch price for %s: %v", token.Symbol, err)
				return
			}
			if price == nil {
				log.Debugf("> No price available for %s, skipping", token.Symbol)
				return
			}

			sample := models.PriceSample{
				Mint:      token.Mint,
				Open:      *price,
				High:      *price,
				Low:       *price,
				Close:     *price,
				Value:     decimal.Zero,
				SampledAt: time.Now().UTC(),
			}
			if err := dbconfig.DB.Create(&sample).Error; err != nil {
				log.Errorf("> Failed to store price sample for %s: %v", token.Symbol, err)
			}
		}()
	}

	wg.Wait()
	return nil
}

// StorePriceUpdate persists one streamed price tick as a sample. Used by
// the websocket subscriber path; polling and streaming feed the same table.
func StorePriceUpdate(mint string, price decimal.Decimal, ts time.Time) {
	sample := models.PriceSample{
		Mint:      mint,
		Open:      price,
		High:      price,
		Low:       price,
		Close:     price,
		Value:     decimal.Zero,
		SampledAt: ts.UTC(),
	}
	if err := dbconfig.DB.Create(&sample).Error; err != nil {
		log.Errorf("> Failed to store streamed price sample for %s: %v", mint, err)
	}
}
