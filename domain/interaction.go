package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Interaction event types.
const (
	InteractionView     = "view"
	InteractionClick    = "click"
	InteractionCart     = "cart"
	InteractionOrder    = "order"
	InteractionRate     = "rate"
	InteractionFavorite = "favorite"
	InteractionShare    = "share"
)

// Interaction is a single user-item event. Rows are append-only and never
// mutated after insert.
type Interaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	ItemID    uint64    `gorm:"column:item_id;not null;index" json:"item_id"`
	EventType string    `gorm:"column:event_type;not null" json:"event_type"`
	Value     float64   `gorm:"column:value" json:"value"`       // explicit rating or monetary value
	Duration  float64   `gorm:"column:duration" json:"duration"` // seconds spent on the item, if known
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`

	// A/B context: filled when the interaction happened under an experiment.
	ExperimentID string `gorm:"column:experiment_id" json:"experiment_id,omitempty"`
	Variant      string `gorm:"column:variant" json:"variant,omitempty"`
	Algorithm    string `gorm:"column:algorithm" json:"algorithm,omitempty"`

	Context datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context"`
}

func (Interaction) TableName() string {
	return "interactions"
}

// IsPurchase reports whether the event counts as a conversion.
func (i Interaction) IsPurchase() bool {
	return i.EventType == InteractionOrder
}
