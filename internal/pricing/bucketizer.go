package pricing

import (
	"time"
)

// Granularity is the requested chart time scale.
type Granularity string

const (
	GranularityHour       Granularity = "hour"
	GranularityDay        Granularity = "day"
	GranularityWeek       Granularity = "week"
	GranularityMonth      Granularity = "month"
	GranularityThreeMonth Granularity = "three_month"
	GranularityYTD        Granularity = "ytd"
	GranularityYear       Granularity = "year"
	GranularityAll        Granularity = "all"
)

// ParseGranularity maps a request string onto a known granularity.
func ParseGranularity(s string) (Granularity, bool) {
	switch Granularity(s) {
	case GranularityHour, GranularityDay, GranularityWeek, GranularityMonth,
		GranularityThreeMonth, GranularityYTD, GranularityYear, GranularityAll:
		return Granularity(s), true
	}
	return "", false
}

// Bucket step units. Day means a calendar-free 24h step; all range math is
// done in UTC where time.Truncate lands on UTC midnight.
const (
	UnitMinute = time.Minute
	UnitHour   = time.Hour
	UnitDay    = 24 * time.Hour
)

const (
	newAssetAge = 30 * 24 * time.Hour
	yearAge     = 365 * 24 * time.Hour
)

// BucketGrid is the canonical bucket layout for one chart request: the
// step (Unit x Increment), the inclusive UTC range, the same boundaries in
// the display timezone, and the reference times the rounding policy needs.
type BucketGrid struct {
	Granularity Granularity
	Unit        time.Duration
	Increment   int
	StartUTC    time.Time
	EndUTC      time.Time
	// Start/End rendered in the requested display timezone.
	StartDisplay time.Time
	EndDisplay   time.Time
	// AssetCreatedAt and Now drive the young-asset rounding special cases.
	AssetCreatedAt time.Time
	Now            time.Time
}

// Step returns the bucket width.
func (g *BucketGrid) Step() time.Duration {
	return g.Unit * time.Duration(g.Increment)
}

// BuildRange translates a granularity into a concrete bucket grid for an
// asset. Returns nil when the granularity is not offered for the asset's
// age; callers treat that as "no chart available", not a fault.
//
// Threshold table (product policy, preserved exactly):
//
//	hour  -> 1-minute buckets over the last hour (not offered for assets over a year old)
//	day   -> 5-minute buckets over the last 24h
//	week  -> hourly buckets over the last 7 days
//	month -> hourly over the last 30 days while the asset is under 30 days old, else daily
//	three_month -> daily over the last 90 days
//	ytd   -> daily since Jan 1 UTC
//	year  -> daily over the last 365 days
//	all   -> daily since asset creation
func BuildRange(granularity Granularity, loc *time.Location, assetCreatedAt, now time.Time) *BucketGrid {
	now = now.UTC()
	assetAge := now.Sub(assetCreatedAt)

	var unit time.Duration
	var increment int
	var rawStart time.Time

	switch granularity {
	case GranularityHour:
		if assetAge >= yearAge {
			return nil
		}
		unit, increment = UnitMinute, 1
		rawStart = now.Add(-time.Hour)
	case GranularityDay:
		unit, increment = UnitMinute, 5
		rawStart = now.Add(-24 * time.Hour)
	case GranularityWeek:
		unit, increment = UnitHour, 1
		rawStart = now.Add(-7 * 24 * time.Hour)
	case GranularityMonth:
		if assetAge < newAssetAge {
			unit, increment = UnitHour, 1
		} else {
			unit, increment = UnitDay, 1
		}
		rawStart = now.Add(-30 * 24 * time.Hour)
	case GranularityThreeMonth:
		unit, increment = UnitDay, 1
		rawStart = now.Add(-90 * 24 * time.Hour)
	case GranularityYTD:
		unit, increment = UnitDay, 1
		rawStart = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case GranularityYear:
		unit, increment = UnitDay, 1
		rawStart = now.Add(-365 * 24 * time.Hour)
	case GranularityAll:
		unit, increment = UnitDay, 1
		rawStart = assetCreatedAt.UTC()
	default:
		return nil
	}

	step := unit * time.Duration(increment)

	// Align both boundaries onto the step grid so every enumerated bucket,
	// including the end boundary, is an exact step multiple.
	start := rawStart.Truncate(step)
	end := now.Truncate(step)
	if end.Before(start) {
		end = start
	}

	if loc == nil {
		loc = time.UTC
	}

	return &BucketGrid{
		Granularity:    granularity,
		Unit:           unit,
		Increment:      increment,
		StartUTC:       start,
		EndUTC:         end,
		StartDisplay:   start.In(loc),
		EndDisplay:     end.In(loc),
		AssetCreatedAt: assetCreatedAt.UTC(),
		Now:            now,
	}
}

// RoundToNearestBucket aligns an arbitrary sample timestamp onto the grid.
//
// Two young-asset special cases come first: assets under 30 days old on
// coarse granularities round down to the containing hour, and the "all"
// granularity on assets under a year old rounds down to the containing day.
// Otherwise the timestamp rounds to the nearest step multiple, with a
// remainder below half a step rounding down and half a step or more
// rounding up.
func (g *BucketGrid) RoundToNearestBucket(ts time.Time) time.Time {
	ts = ts.UTC()
	assetAge := g.Now.Sub(g.AssetCreatedAt)

	if assetAge < newAssetAge &&
		g.Granularity != GranularityHour &&
		g.Granularity != GranularityDay &&
		g.Granularity != GranularityWeek {
		return ts.Truncate(time.Hour)
	}

	if g.Granularity == GranularityAll && assetAge < yearAge {
		return ts.Truncate(UnitDay)
	}

	step := g.Step()
	down := ts.Truncate(step)
	if ts.Sub(down) < step/2 {
		return down
	}
	return down.Add(step)
}

// Buckets enumerates every bucket timestamp from start to end inclusive.
// Each call returns a fresh slice.
func (g *BucketGrid) Buckets() []time.Time {
	step := g.Step()
	var out []time.Time
	for t := g.StartUTC; !t.After(g.EndUTC); t = t.Add(step) {
		out = append(out, t)
	}
	return out
}
