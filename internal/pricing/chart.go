package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sample is one raw price observation with an irregular timestamp.
type Sample struct {
	Timestamp time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Value     decimal.Decimal
}

// ChartPoint is one rendered point on the bucket grid. Filled marks a
// synthesized point carrying forward the most recent real sample.
type ChartPoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Value     decimal.Decimal `json:"value"`
	Filled    bool            `json:"filled"`
}

// AssembleChart aligns raw samples onto the grid and fills gaps.
//
// Every sample is rounded to its nearest bucket, last write wins when two
// samples land in the same bucket. The walk then emits one point per
// bucket, skipping buckets before earliest, buckets before the first
// priced sample (no left padding; for the "all" granularity this clips the
// pre-listing range), and buckets in the future. A bucket without its own
// sample repeats the most recent one, marked filled.
func AssembleChart(grid *BucketGrid, samples []Sample, earliest *time.Time, now time.Time) []ChartPoint {
	if grid == nil {
		return nil
	}

	bucketed := make(map[int64]Sample, len(samples))
	var firstSampleAt time.Time
	haveSample := false
	for _, s := range samples {
		b := grid.RoundToNearestBucket(s.Timestamp)
		bucketed[b.Unix()] = s
		if !haveSample || b.Before(firstSampleAt) {
			firstSampleAt = b
			haveSample = true
		}
	}

	var points []ChartPoint
	var last ChartPoint
	hasLast := false

	for _, bucket := range grid.Buckets() {
		if earliest != nil && bucket.Before(earliest.UTC()) {
			continue
		}
		if grid.Granularity == GranularityAll && (!haveSample || bucket.Before(firstSampleAt)) {
			continue
		}
		if bucket.After(now.UTC()) {
			continue
		}
		if !haveSample || bucket.Before(firstSampleAt) {
			continue
		}

		if s, ok := bucketed[bucket.Unix()]; ok {
			p := ChartPoint{
				Timestamp: bucket,
				Open:      s.Open,
				High:      s.High,
				Low:       s.Low,
				Close:     s.Close,
				Value:     s.Value,
			}
			points = append(points, p)
			last = p
			hasLast = true
			continue
		}

		if !hasLast {
			continue
		}
		p := ChartPoint{
			Timestamp: bucket,
			Open:      last.Open,
			High:      last.High,
			Low:       last.Low,
			Close:     last.Close,
			Value:     last.Value,
			Filled:    true,
		}
		points = append(points, p)
	}

	return points
}
