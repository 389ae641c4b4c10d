package domain

import "time"

// UserProfile is the aggregated taste profile derived from a user's
// interaction history. It is a cache artifact: rebuilt from interactions,
// never hand-edited, expired on TTL.
type UserProfile struct {
	UserID uint `json:"user_id"`

	// Frequency-style weights, normalized so each map sums to at most 1.
	CategoryWeights   map[string]float64 `json:"category_weights"`
	CuisineWeights    map[string]float64 `json:"cuisine_weights"`
	DietaryTagWeights map[string]float64 `json:"dietary_tag_weights"`

	// Implicit-rating-weighted mean of interacted item feature vectors.
	FeatureVector []float64 `json:"feature_vector"`

	AvgPrice      float64 `json:"avg_price"`
	AvgSpiceLevel float64 `json:"avg_spice_level"`

	// Concatenated names/descriptions/ingredients of interacted items.
	TextCorpus string `json:"text_corpus"`

	// Implicit ratings per item, keyed by item id.
	Ratings map[uint64]float64 `json:"ratings"`

	TotalInteractions  int       `json:"total_interactions"`
	RecentInteractions int       `json:"recent_interactions"` // within the recency window
	UniqueItems        int       `json:"unique_items"`
	UniqueCategories   int       `json:"unique_categories"`
	BuiltAt            time.Time `json:"built_at"`
}

// Interacted reports whether the user has any signal on the item.
func (p *UserProfile) Interacted(itemID uint64) bool {
	_, ok := p.Ratings[itemID]
	return ok
}
