package profile

import "time"

// Config holds the implicit-rating weights and aggregation parameters.
// The default values are hand-tuned starting points, not claims of
// optimality.
type Config struct {
	// Base strength per event type, before the duration bonus.
	WeightView     float64
	WeightClick    float64
	WeightCart     float64
	WeightOrder    float64
	WeightFavorite float64
	WeightShare    float64

	// Duration bonus: DurationBonusPerMinute per minute of dwell time,
	// capped at DurationBonusCap.
	DurationBonusPerMinute float64
	DurationBonusCap       float64

	// RecencyWindow bounds the "recent interactions" counter used by the
	// adaptive combiner's engagement score.
	RecencyWindow time.Duration

	ProfileTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		WeightView:     0.3,
		WeightClick:    0.5,
		WeightCart:     1.5,
		WeightOrder:    2.5,
		WeightFavorite: 2.0,
		WeightShare:    1.8,

		DurationBonusPerMinute: 0.25,
		DurationBonusCap:       1.0,

		RecencyWindow: 7 * 24 * time.Hour,
		ProfileTTL:    30 * time.Minute,
	}
}
