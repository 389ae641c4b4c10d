package hybrid

// Strategy selects how the combiner merges scorer outputs. Chosen per call,
// never fixed globally.
type Strategy string

const (
	StrategyWeighted  Strategy = "weighted"
	StrategySwitching Strategy = "switching"
	StrategyCascade   Strategy = "cascade"
	StrategyAdaptive  Strategy = "adaptive"
)

// UserClass is the adaptive strategy's user segmentation.
type UserClass string

const (
	ClassNew      UserClass = "new"
	ClassExplorer UserClass = "explorer"
	ClassFocused  UserClass = "focused"
	ClassActive   UserClass = "active"
	ClassCasual   UserClass = "casual"
)

// WeightTriple fixes the (collaborative, content, popularity) mix for one
// user class.
type WeightTriple struct {
	Collaborative float64
	Content       float64
	Popularity    float64
}

// Config holds the combiner's blend weights and thresholds. All hand-tuned
// starting values, configurable on purpose.
type Config struct {
	// weighted strategy
	WeightCollaborative float64
	WeightContent       float64

	// switching strategy: interaction count under this floor falls back to
	// popularity-only
	SwitchingMinInteractions int

	// cascade strategy: primary fills ceil(limit*CascadePrimaryShare)
	CascadePrimaryShare float64

	// adaptive strategy class thresholds
	ExplorationHigh float64
	EngagementHigh  float64
	NewUserMaxItems int

	AdaptiveWeights map[UserClass]WeightTriple

	// post-processing
	DefaultDiversityFactor float64
	AvailabilityFloor      float64
}

func DefaultConfig() Config {
	return Config{
		WeightCollaborative: 0.6,
		WeightContent:       0.4,

		SwitchingMinInteractions: 5,
		CascadePrimaryShare:      0.6,

		ExplorationHigh: 0.6,
		EngagementHigh:  0.5,
		NewUserMaxItems: 3,

		AdaptiveWeights: map[UserClass]WeightTriple{
			ClassNew:      {Collaborative: 0.0, Content: 0.4, Popularity: 0.6},
			ClassExplorer: {Collaborative: 0.3, Content: 0.3, Popularity: 0.4},
			ClassFocused:  {Collaborative: 0.5, Content: 0.4, Popularity: 0.1},
			ClassActive:   {Collaborative: 0.6, Content: 0.3, Popularity: 0.1},
			ClassCasual:   {Collaborative: 0.3, Content: 0.4, Popularity: 0.3},
		},

		DefaultDiversityFactor: 0.2,
		AvailabilityFloor:      0.5,
	}
}
