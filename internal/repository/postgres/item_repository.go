package postgres

import (
	"context"
	"errors"
	"fmt"
	"mealmind/domain"

	"gorm.io/gorm"
)

type ItemRepository struct {
	DB *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{
		DB: db,
	}
}

func (r *ItemRepository) FindByID(ctx context.Context, id uint64) (domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return domain.Item{}, fmt.Errorf("context error: %w", err)
	}

	var item domain.Item

	err := r.DB.WithContext(ctx).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Item{}, errors.New("item not found")
		}
		return domain.Item{}, fmt.Errorf("failed to find item: %w", err)
	}

	return item, nil
}

// FindAvailable returns every item still eligible for recommendation.
// Items with availability_score = 0 never enter any scoring path.
func (r *ItemRepository) FindAvailable(ctx context.Context) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var items []domain.Item
	err := r.DB.WithContext(ctx).Where("availability_score > 0").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find items: %w", err)
	}

	return items, nil
}

func (r *ItemRepository) FindByIDs(ctx context.Context, ids []uint64) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var items []domain.Item
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find items by ids: %w", err)
	}

	return items, nil
}

// FindPopular returns available items ranked by popularity score.
func (r *ItemRepository) FindPopular(ctx context.Context, limit int) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var items []domain.Item
	err := r.DB.WithContext(ctx).
		Where("availability_score > 0").
		Order("popularity_score DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find popular items: %w", err)
	}

	return items, nil
}
