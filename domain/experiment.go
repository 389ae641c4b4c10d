package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ExperimentActive  = "active"
	ExperimentStopped = "stopped"

	VariantControl   = "control"
	VariantTreatment = "treatment"
	VariantExcluded  = "excluded"
)

// Experiment is one A/B test comparing two recommendation algorithms.
type Experiment struct {
	ID                 string                      `gorm:"primaryKey" json:"id"`
	Name               string                      `gorm:"column:name;not null;index" json:"name"`
	ControlAlgorithm   string                      `gorm:"column:control_algorithm;not null" json:"control_algorithm"`
	TreatmentAlgorithm string                      `gorm:"column:treatment_algorithm;not null" json:"treatment_algorithm"`
	TrafficSplit       float64                     `gorm:"column:traffic_split;type:numeric" json:"traffic_split"` // (0, 0.5]
	TargetMetrics      datatypes.JSONSlice[string] `gorm:"column:target_metrics;type:jsonb" json:"target_metrics"`
	SegmentFilters     datatypes.JSONMap           `gorm:"column:segment_filters;type:jsonb" json:"segment_filters"`
	Status             string                      `gorm:"column:status;not null;index" json:"status"`
	StartedAt          time.Time                   `gorm:"column:started_at" json:"started_at"`
	EndedAt            *time.Time                  `gorm:"column:ended_at" json:"ended_at,omitempty"`
	CreatedAt          time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Experiment) TableName() string {
	return "experiments"
}

// Assignment binds a user to a variant for the lifetime of an experiment.
// It is created lazily on first request and immutable afterwards.
type Assignment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"column:user_id;not null;uniqueIndex:idx_assignment_user_exp" json:"user_id"`
	ExperimentID string    `gorm:"column:experiment_id;not null;uniqueIndex:idx_assignment_user_exp;index" json:"experiment_id"`
	Variant      string    `gorm:"column:variant;not null" json:"variant"`
	AssignedAt   time.Time `gorm:"column:assigned_at;autoCreateTime" json:"assigned_at"`
}

func (Assignment) TableName() string {
	return "experiment_assignments"
}
