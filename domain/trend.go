package domain

import "time"

// Meal periods derived from hour-of-day.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// TrendScore is one item's standing in the daily trend batch, normalized by
// the batch maximum so the hottest item scores 1.
type TrendScore struct {
	ItemID           uint64  `json:"item_id"`
	Score            float64 `json:"score"`
	InteractionCount int     `json:"interaction_count"`
	UniqueUsers      int     `json:"unique_users"`
	Momentum         float64 `json:"momentum"`
	PurchaseCount    int     `json:"purchase_count"`
	AvgRating        float64 `json:"avg_rating"`
}

// SeasonalEntry ranks an item within a meal period for the current season.
type SeasonalEntry struct {
	ItemID     uint64  `json:"item_id"`
	MealPeriod string  `json:"meal_period"`
	Score      float64 `json:"score"`
}

// SpikeAlert flags an item whose short-window interaction rate exceeds its
// trailing hourly average by the spike multiplier.
type SpikeAlert struct {
	ItemID      uint64    `json:"item_id"`
	RecentCount int       `json:"recent_count"`
	HourlyAvg   float64   `json:"hourly_avg"`
	DetectedAt  time.Time `json:"detected_at"`
}
