package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"mealmind/business/similarity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ModelRepository persists trained factorization models as JSON state rows,
// one row per model name. Writers replace the row in a single upsert so
// readers never observe a half-written model.
type ModelRepository struct {
	DB *gorm.DB
}

func NewModelRepository(db *gorm.DB) *ModelRepository {
	return &ModelRepository{DB: db}
}

type modelStateRow struct {
	Name      string `gorm:"column:name;primaryKey"`
	StateJSON []byte `gorm:"column:state_json"`
}

func (modelStateRow) TableName() string {
	return "model_state"
}

func (r *ModelRepository) GetModel(ctx context.Context, name string) (*similarity.FactorModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var row modelStateRow
	err := r.DB.WithContext(ctx).First(&row, "name = ?", name).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query model_state: %w", err)
	}

	var model similarity.FactorModel
	if err := json.Unmarshal(row.StateJSON, &model); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state_json: %w", err)
	}

	return &model, nil
}

func (r *ModelRepository) SaveModel(ctx context.Context, name string, model *similarity.FactorModel) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}

	row := modelStateRow{
		Name:      name,
		StateJSON: raw,
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		},
	).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert model_state: %w", err)
	}

	return nil
}
