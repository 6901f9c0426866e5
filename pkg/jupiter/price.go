package jupiter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// PriceClient talks to the Jupiter price API. A token with no known USD
// price is a normal outcome, reported as a nil price rather than an error.
type PriceClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPriceClient creates a new price API client
func NewPriceClient() *PriceClient {
	return &PriceClient{
		baseURL: "https://lite-api.jup.ag/price/v3",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				IdleConnTimeout:       10 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

type priceEntry struct {
	UsdPrice     float64 `json:"usdPrice"`
	BlockID      uint64  `json:"blockId"`
	Decimals     int     `json:"decimals"`
	PriceChange  float64 `json:"priceChange24h"`
}

// GetPriceUsd returns the USD price of a mint, or nil when the API has no
// price for it.
func (c *PriceClient) GetPriceUsd(ctx context.Context, mint string) (*decimal.Decimal, error) {
	params := url.Values{}
	params.Add("ids", mint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", c.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price request failed with status: %d", resp.StatusCode)
	}

	var prices map[string]priceEntry
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		return nil, fmt.Errorf("failed to decode JSON response: %w", err)
	}

	entry, ok := prices[mint]
	if !ok {
		// No known price for this mint
		return nil, nil
	}

	price := decimal.NewFromFloat(entry.UsdPrice)
	return &price, nil
}
