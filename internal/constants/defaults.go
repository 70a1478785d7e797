package constants

import "time"

// PipelineName keys the advisory run lock and log prefixes.
const PipelineName = "rabat-property-tracker"

// DefaultCity is stamped on every property the pipeline creates.
const DefaultCity = "Rabat"

// Catalog defaults applied when ingestion creates rows.
const (
	DefaultDeveloperRating = 3.5
	DefaultInvestmentScore = 50 // placeholder, recomputed by the scoring consumer
)

// DefaultCenterLat/Lon are the Rabat city center, used when a district
// cannot be located so every persisted property stays plottable.
const (
	DefaultCenterLat = 33.9716
	DefaultCenterLon = -6.8498
)

// Extraction thresholds.
const (
	// MinPlausiblePrice discards currency-anchored numbers that are too small
	// to be a price in MAD (a bedroom count next to "DH" reads as 3 DH).
	MinPlausiblePrice = 10000
	// PointPriceSpread widens a single point price into a min/max range.
	PointPriceSpread = 0.05
)

// Source-side limits.
const (
	// MaxFeedItems caps how many items are taken from one RSS feed.
	MaxFeedItems = 10
	// SourceDelay is the pause between adapter calls within a run, to stay
	// under external rate limits.
	SourceDelay = 3 * time.Second
)
