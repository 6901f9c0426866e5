package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlyGrid(start time.Time, hours int, now time.Time) *BucketGrid {
	return &BucketGrid{
		Granularity:    GranularityWeek,
		Unit:           UnitHour,
		Increment:      1,
		StartUTC:       start,
		EndUTC:         start.Add(time.Duration(hours) * time.Hour),
		AssetCreatedAt: oldAssetAt,
		Now:            now,
	}
}

func sampleAt(ts time.Time, price float64) Sample {
	p := decimal.NewFromFloat(price)
	return Sample{Timestamp: ts, Open: p, High: p, Low: p, Close: p, Value: decimal.NewFromInt(1)}
}

func TestAssembleChartFillsGaps(t *testing.T) {
	start := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	now := start.Add(5 * time.Hour)
	grid := hourlyGrid(start, 4, now)

	samples := []Sample{
		sampleAt(start, 100),
		sampleAt(start.Add(3*time.Hour), 130),
	}

	points := AssembleChart(grid, samples, nil, now)
	require.Len(t, points, 5)

	assert.Equal(t, start, points[0].Timestamp)
	assert.False(t, points[0].Filled)
	assert.True(t, points[0].Close.Equal(decimal.NewFromInt(100)))

	// Hours 1 and 2 carry the first sample forward.
	for _, p := range points[1:3] {
		assert.True(t, p.Filled)
		assert.True(t, p.Close.Equal(decimal.NewFromInt(100)))
	}

	assert.False(t, points[3].Filled)
	assert.True(t, points[3].Close.Equal(decimal.NewFromInt(130)))

	// The final bucket has no sample of its own and repeats the latest.
	assert.True(t, points[4].Filled)
	assert.True(t, points[4].Close.Equal(decimal.NewFromInt(130)))
}

func TestAssembleChartSkipsBucketsBeforeFirstSample(t *testing.T) {
	start := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	now := start.Add(5 * time.Hour)
	grid := hourlyGrid(start, 4, now)

	samples := []Sample{sampleAt(start.Add(2*time.Hour), 120)}

	points := AssembleChart(grid, samples, nil, now)
	require.Len(t, points, 3)
	assert.Equal(t, start.Add(2*time.Hour), points[0].Timestamp)
	assert.False(t, points[0].Filled)
}

func TestAssembleChartSkipsFutureBuckets(t *testing.T) {
	start := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	now := start.Add(2 * time.Hour)
	grid := hourlyGrid(start, 4, now)

	samples := []Sample{sampleAt(start, 100)}

	points := AssembleChart(grid, samples, nil, now)
	require.Len(t, points, 3)
	assert.Equal(t, start.Add(2*time.Hour), points[len(points)-1].Timestamp)
}

func TestAssembleChartHonoursEarliest(t *testing.T) {
	start := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	now := start.Add(5 * time.Hour)
	grid := hourlyGrid(start, 4, now)

	earliest := start.Add(2 * time.Hour)
	samples := []Sample{
		sampleAt(start.Add(2*time.Hour), 120),
		sampleAt(start.Add(4*time.Hour), 140),
	}

	points := AssembleChart(grid, samples, &earliest, now)
	require.Len(t, points, 3)
	assert.Equal(t, earliest, points[0].Timestamp)
}

func TestAssembleChartLastWriteWinsInBucket(t *testing.T) {
	start := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	now := start.Add(2 * time.Hour)
	grid := hourlyGrid(start, 1, now)

	// Both samples round to the start bucket; the later one in slice order
	// wins.
	samples := []Sample{
		sampleAt(start.Add(5*time.Minute), 100),
		sampleAt(start.Add(10*time.Minute), 105),
	}

	points := AssembleChart(grid, samples, nil, now)
	require.NotEmpty(t, points)
	assert.True(t, points[0].Close.Equal(decimal.NewFromInt(105)))
}

func TestAssembleChartAllGranularityClipsPreListingRange(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	grid := BuildRange(GranularityAll, time.UTC, createdAt, now)
	require.NotNil(t, grid)

	// First sample lands well after listing; earlier buckets must not
	// appear at all, filled or otherwise.
	firstSample := time.Date(2025, 6, 12, 3, 0, 0, 0, time.UTC)
	samples := []Sample{sampleAt(firstSample, 50)}

	earliest := createdAt
	points := AssembleChart(grid, samples, &earliest, now)
	require.NotEmpty(t, points)
	assert.Equal(t, time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC), points[0].Timestamp)
	for _, p := range points {
		assert.False(t, p.Timestamp.Before(firstSample.Truncate(UnitDay)))
	}
}

func TestAssembleChartEmptyInputs(t *testing.T) {
	t.Run("Nil grid", func(t *testing.T) {
		assert.Nil(t, AssembleChart(nil, nil, nil, time.Now()))
	})

	t.Run("No samples", func(t *testing.T) {
		start := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
		grid := hourlyGrid(start, 4, start.Add(5*time.Hour))
		assert.Empty(t, AssembleChart(grid, nil, nil, start.Add(5*time.Hour)))
	})
}
