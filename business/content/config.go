package content

// Config holds the sub-score weights of the content scorer. Each weight is
// the denominator contribution of its sub-score; the final item score is
// Σ(weight·subscore) / Σ(weight), bounded to [0,1]. Hand-tuned starting
// values, configurable on purpose.
type Config struct {
	WeightCategory   float64
	WeightCuisine    float64
	WeightFeatures   float64
	WeightPrice      float64
	WeightSpice      float64
	WeightDietary    float64
	WeightPreference float64
	WeightPopularity float64

	// TextMixRatio blends TF-IDF text similarity into the item score when
	// text scoring is enabled: final = (1-ratio)·score + ratio·textSim.
	TextEnabled  bool
	TextMixRatio float64

	MinScore float64
}

func DefaultConfig() Config {
	return Config{
		WeightCategory:   0.3,
		WeightCuisine:    0.25,
		WeightFeatures:   0.2,
		WeightPrice:      0.15,
		WeightSpice:      0.1,
		WeightDietary:    0.15,
		WeightPreference: 0.1,
		WeightPopularity: 0.1,

		TextEnabled:  true,
		TextMixRatio: 0.2,

		MinScore: 0.05,
	}
}
