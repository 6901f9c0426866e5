package business

import (
	"context"
	"fmt"
	"time"

	"swapdesk/internal/models"
	"swapdesk/internal/pricing"
)

// SampleSource loads raw price samples for one asset over a time range.
type SampleSource interface {
	SamplesInRange(ctx context.Context, mint string, from, to time.Time) ([]pricing.Sample, error)
}

// ChartService builds complete gap-filled charts from the bucket grid and
// the raw sample store.
type ChartService struct {
	samples SampleSource
	now     func() time.Time
}

// NewChartService wires the service.
func NewChartService(samples SampleSource) *ChartService {
	return &ChartService{samples: samples, now: time.Now}
}

// BuildChart assembles the chart for one asset and granularity. A nil,nil
// return means the granularity is not offered for this asset's age: no
// chart available, not a failure.
func (c *ChartService) BuildChart(ctx context.Context, token *models.TokenConfig, granularity pricing.Granularity, loc *time.Location) ([]pricing.ChartPoint, error) {
	if token == nil {
		return nil, NewValidationError("chart requires a known asset")
	}

	now := c.now().UTC()
	grid := pricing.BuildRange(granularity, loc, token.MintedAt, now)
	if grid == nil {
		return nil, nil
	}

	// Fetch one extra step on the left so a sample that rounds up into the
	// first bucket is not missed.
	samples, err := c.samples.SamplesInRange(ctx, token.Mint, grid.StartUTC.Add(-grid.Step()), grid.EndUTC.Add(grid.Step()))
	if err != nil {
		return nil, WrapUnexpected(fmt.Errorf("failed to load price samples: %w", err))
	}

	earliest := token.MintedAt.UTC()
	return pricing.AssembleChart(grid, samples, &earliest, now), nil
}
