package domain

// Recommendation algorithm names. These label the closed scorer set; the
// orchestrator dispatches by tagged variant, never by string-keyed lookup.
const (
	AlgorithmCollaborative = "collaborative"
	AlgorithmContentBased  = "content_based"
	AlgorithmTrending      = "trending"
	AlgorithmPopularity    = "popularity"
	AlgorithmHybrid        = "hybrid"
	AlgorithmNeural        = "neural"
)

// Recommendation is one scored item in a response. Within a response the
// score is strictly decreasing by rank.
type Recommendation struct {
	ItemID      uint64   `json:"item_id"`
	Score       float64  `json:"score"`
	Confidence  float64  `json:"confidence"` // 0..1
	Algorithm   string   `json:"algorithm"`
	Sources     []string `json:"sources,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// ExperimentInfo tags a response that was served under an active experiment.
type ExperimentInfo struct {
	ExperimentID string `json:"experiment_id"`
	Variant      string `json:"variant"`
	Algorithm    string `json:"algorithm"`
}

// RecommendationSet is what the orchestrator hands back to the transport.
type RecommendationSet struct {
	Recommendations []Recommendation `json:"recommendations"`
	AlgorithmUsed   string           `json:"algorithm_used"`
	Experiment      *ExperimentInfo  `json:"experiment_info,omitempty"`
}
