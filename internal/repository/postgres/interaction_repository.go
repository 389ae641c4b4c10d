package postgres

import (
	"context"
	"fmt"
	"mealmind/domain"
	"time"

	"gorm.io/gorm"
)

// InteractionRepository is the append-only event log. Rows are inserted once
// and never updated.
type InteractionRepository struct {
	DB *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{
		DB: db,
	}
}

func (r *InteractionRepository) Append(ctx context.Context, interaction *domain.Interaction) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(interaction).Error; err != nil {
		return fmt.Errorf("failed to append interaction: %w", err)
	}

	return nil
}

func (r *InteractionRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.Interaction
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find interactions for user %d: %w", userID, err)
	}

	return rows, nil
}

func (r *InteractionRepository) FindBetween(ctx context.Context, from, to time.Time) ([]domain.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.Interaction
	err := r.DB.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find interactions in range: %w", err)
	}

	return rows, nil
}

func (r *InteractionRepository) FindByExperiment(ctx context.Context, experimentID string) ([]domain.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.Interaction
	err := r.DB.WithContext(ctx).
		Where("experiment_id = ?", experimentID).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find interactions for experiment %s: %w", experimentID, err)
	}

	return rows, nil
}

func (r *InteractionRepository) AllUserIDs(ctx context.Context) ([]uint, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&domain.Interaction{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}

	return ids, nil
}
