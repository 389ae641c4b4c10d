package trend

import "time"

// Config holds the trend blend weights and windows. The blend weights are
// hand-tuned starting values, kept configurable.
type Config struct {
	WeightInteractions float64
	WeightUniqueUsers  float64
	WeightMomentum     float64
	WeightPurchases    float64
	WeightRating       float64

	// TrendingWindow bounds the daily batch; MomentumDecay weights recent
	// days higher inside it.
	TrendingWindow time.Duration
	MomentumDecay  float64

	// Spike detection: last SpikeWindow vs the trailing SpikeBaseline hourly
	// average, flagged at SpikeMultiplier.
	SpikeWindow     time.Duration
	SpikeBaseline   time.Duration
	SpikeMultiplier float64

	TrendTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		WeightInteractions: 0.3,
		WeightUniqueUsers:  0.25,
		WeightMomentum:     0.2,
		WeightPurchases:    0.15,
		WeightRating:       0.1,

		TrendingWindow: 7 * 24 * time.Hour,
		MomentumDecay:  0.8,

		SpikeWindow:     2 * time.Hour,
		SpikeBaseline:   7 * 24 * time.Hour,
		SpikeMultiplier: 3.0,

		TrendTTL: time.Hour,
	}
}
