package postgres

import (
	"context"
	"errors"
	"fmt"
	"mealmind/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExperimentRepository struct {
	DB *gorm.DB
}

func NewExperimentRepository(db *gorm.DB) *ExperimentRepository {
	return &ExperimentRepository{DB: db}
}

func (r *ExperimentRepository) Create(ctx context.Context, exp *domain.Experiment) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(exp).Error; err != nil {
		return fmt.Errorf("failed to create experiment: %w", err)
	}

	return nil
}

func (r *ExperimentRepository) FindByID(ctx context.Context, id string) (domain.Experiment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Experiment{}, fmt.Errorf("context error: %w", err)
	}

	var exp domain.Experiment
	err := r.DB.WithContext(ctx).First(&exp, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Experiment{}, errors.New("experiment not found")
		}
		return domain.Experiment{}, fmt.Errorf("failed to find experiment: %w", err)
	}

	return exp, nil
}

// ActiveByName looks up a running experiment with the given name. Used to
// reject duplicate active names at creation time.
func (r *ExperimentRepository) ActiveByName(ctx context.Context, name string) (*domain.Experiment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var exp domain.Experiment
	err := r.DB.WithContext(ctx).
		Where("name = ? AND status = ?", name, domain.ExperimentActive).
		First(&exp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query active experiment by name: %w", err)
	}

	return &exp, nil
}

func (r *ExperimentRepository) FindActive(ctx context.Context) ([]domain.Experiment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var exps []domain.Experiment
	err := r.DB.WithContext(ctx).
		Where("status = ?", domain.ExperimentActive).
		Find(&exps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find active experiments: %w", err)
	}

	return exps, nil
}

func (r *ExperimentRepository) Update(ctx context.Context, exp *domain.Experiment) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Save(exp).Error; err != nil {
		return fmt.Errorf("failed to update experiment: %w", err)
	}

	return nil
}

// ---- Assignments ----

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Find(ctx context.Context, userID uint, experimentID string) (*domain.Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var a domain.Assignment
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND experiment_id = ?", userID, experimentID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}

	return &a, nil
}

// Save inserts the assignment; a concurrent insert for the same
// (user, experiment) pair wins once and later writes are no-ops, which keeps
// the binding immutable.
func (r *AssignmentRepository) Save(ctx context.Context, a *domain.Assignment) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "experiment_id"}},
			DoNothing: true,
		},
	).Create(a).Error
	if err != nil {
		return fmt.Errorf("failed to save assignment: %w", err)
	}

	return nil
}

func (r *AssignmentRepository) CountByVariant(ctx context.Context, experimentID, variant string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var n int64
	err := r.DB.WithContext(ctx).
		Model(&domain.Assignment{}).
		Where("experiment_id = ? AND variant = ?", experimentID, variant).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	return n, nil
}
