package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Item struct {
	ID                uint64                       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string                       `gorm:"column:name;type:text" json:"name"`
	Description       string                       `gorm:"column:description;type:text" json:"description"`
	Ingredients       string                       `gorm:"column:ingredients;type:text" json:"ingredients"`
	Category          string                       `gorm:"column:category;index" json:"category"`
	CuisineType       string                       `gorm:"column:cuisine_type;index" json:"cuisine_type"`
	Price             float64                      `gorm:"column:price;type:numeric" json:"price"`
	SpiceLevel        float64                      `gorm:"column:spice_level;type:numeric" json:"spice_level"` // 0..5
	DietaryTags       datatypes.JSONSlice[string]  `gorm:"column:dietary_tags;type:jsonb" json:"dietary_tags"`
	FeatureVector     datatypes.JSONSlice[float64] `gorm:"column:feature_vector;type:jsonb" json:"feature_vector"`
	AvailabilityScore float64                      `gorm:"column:availability_score;type:numeric" json:"availability_score"` // 0..1; 0 excludes the item everywhere
	PopularityScore   float64                      `gorm:"column:popularity_score;type:numeric" json:"popularity_score"`
	RatingAverage     float64                      `gorm:"column:rating_average;type:numeric" json:"rating_average"`
	IsPromoted        bool                         `gorm:"column:is_promoted;default:false" json:"is_promoted"`
	CreatedAt         time.Time                    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Item) TableName() string {
	return "items"
}

// Available reports whether the item may appear in any recommendation path.
func (it Item) Available() bool {
	return it.AvailabilityScore > 0
}

// Text returns the concatenated free-text fields used for content similarity.
func (it Item) Text() string {
	return it.Name + " " + it.Description + " " + it.Ingredients
}
