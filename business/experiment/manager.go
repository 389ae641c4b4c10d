package experiment

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"mealmind/domain"
	"mealmind/pkg/logger"

	"github.com/google/uuid"
)

// ---- Repository interfaces ----

type ExperimentRepository interface {
	Create(ctx context.Context, exp *domain.Experiment) error
	FindByID(ctx context.Context, id string) (domain.Experiment, error)
	ActiveByName(ctx context.Context, name string) (*domain.Experiment, error)
	FindActive(ctx context.Context) ([]domain.Experiment, error)
	Update(ctx context.Context, exp *domain.Experiment) error
}

type AssignmentRepository interface {
	Find(ctx context.Context, userID uint, experimentID string) (*domain.Assignment, error)
	Save(ctx context.Context, a *domain.Assignment) error
}

type InteractionRepository interface {
	Append(ctx context.Context, interaction *domain.Interaction) error
	FindByExperiment(ctx context.Context, experimentID string) ([]domain.Interaction, error)
}

type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
}

// ---- Usecase / Service ----

type Manager struct {
	experiments  ExperimentRepository
	assignments  AssignmentRepository
	interactions InteractionRepository
	cache        Cache
}

func NewManager(
	experiments ExperimentRepository,
	assignments AssignmentRepository,
	interactions InteractionRepository,
	cache Cache,
) *Manager {
	return &Manager{
		experiments:  experiments,
		assignments:  assignments,
		interactions: interactions,
		cache:        cache,
	}
}

// CreateConfig is the validated experiment definition.
type CreateConfig struct {
	Name               string
	ControlAlgorithm   string
	TreatmentAlgorithm string
	TrafficSplit       float64 // (0, 0.5]
	TargetMetrics      []string
	SegmentFilters     map[string]any
	Duration           time.Duration
}

// CreateExperiment validates the config, rejects a duplicate active name,
// and persists the experiment as active.
func (m *Manager) CreateExperiment(ctx context.Context, cfg CreateConfig) (*domain.Experiment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if cfg.Name == "" {
		return nil, fmt.Errorf("experiment name is required")
	}
	if cfg.ControlAlgorithm == "" || cfg.TreatmentAlgorithm == "" {
		return nil, fmt.Errorf("control and treatment algorithms are required")
	}
	if cfg.TrafficSplit <= 0 || cfg.TrafficSplit > 0.5 {
		return nil, fmt.Errorf("traffic split must be in (0, 0.5], got %v", cfg.TrafficSplit)
	}
	if len(cfg.TargetMetrics) == 0 {
		cfg.TargetMetrics = []string{MetricCTR}
	}

	existing, err := m.experiments.ActiveByName(ctx, cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("check active name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("an active experiment named %q already exists", cfg.Name)
	}

	now := time.Now()
	exp := &domain.Experiment{
		ID:                 uuid.NewString(),
		Name:               cfg.Name,
		ControlAlgorithm:   cfg.ControlAlgorithm,
		TreatmentAlgorithm: cfg.TreatmentAlgorithm,
		TrafficSplit:       cfg.TrafficSplit,
		TargetMetrics:      cfg.TargetMetrics,
		SegmentFilters:     cfg.SegmentFilters,
		Status:             domain.ExperimentActive,
		StartedAt:          now,
	}
	if cfg.Duration > 0 {
		end := now.Add(cfg.Duration)
		exp.EndedAt = &end
	}

	if err := m.experiments.Create(ctx, exp); err != nil {
		return nil, err
	}

	logger.Info("experiment created",
		"experiment_id", exp.ID,
		"name", exp.Name,
		"control", exp.ControlAlgorithm,
		"treatment", exp.TreatmentAlgorithm,
		"split", exp.TrafficSplit,
	)

	return exp, nil
}

func assignmentKey(userID uint, experimentID string) string {
	return fmt.Sprintf("exp:assignment:%s:%d", experimentID, userID)
}

// hashToUnit deterministically maps (userID, experimentID) into [0, 1).
// FNV alone leaves trailing input bytes under-diffused, which would correlate
// a user's buckets across experiments whose ids share a prefix; the finalizer
// mix breaks that up.
func hashToUnit(userID uint, experimentID string) float64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%d:%s", userID, experimentID)

	x := h.Sum64()
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33

	return float64(x>>11) / (1 << 53)
}

// VariantFor is the pure assignment function: [0, split) → treatment,
// [split, 2·split) → control, everything else excluded. Repeated calls with
// the same inputs always return the same variant.
func VariantFor(userID uint, experimentID string, trafficSplit float64) string {
	u := hashToUnit(userID, experimentID)
	switch {
	case u < trafficSplit:
		return domain.VariantTreatment
	case u < 2*trafficSplit:
		return domain.VariantControl
	default:
		return domain.VariantExcluded
	}
}

// AssignVariant returns the user's variant for the experiment, creating the
// binding lazily on first call. Once persisted the assignment is immutable
// for the experiment's lifetime, even if the pure function were recomputed
// under a changed split.
func (m *Manager) AssignVariant(ctx context.Context, userID uint, exp domain.Experiment) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context error: %w", err)
	}

	key := assignmentKey(userID, exp.ID)
	if m.cache != nil {
		var cached string
		if ok, err := m.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	if existing, err := m.assignments.Find(ctx, userID, exp.ID); err == nil && existing != nil {
		m.cacheAssignment(ctx, key, existing.Variant, exp)
		return existing.Variant, nil
	}

	variant := VariantFor(userID, exp.ID, exp.TrafficSplit)

	if variant != domain.VariantExcluded {
		a := &domain.Assignment{
			UserID:       userID,
			ExperimentID: exp.ID,
			Variant:      variant,
			AssignedAt:   time.Now(),
		}
		if err := m.assignments.Save(ctx, a); err != nil {
			return "", fmt.Errorf("persist assignment: %w", err)
		}
	}

	m.cacheAssignment(ctx, key, variant, exp)

	return variant, nil
}

// cacheAssignment pins the variant for the experiment's remaining lifetime
// so one user sees one variant throughout.
func (m *Manager) cacheAssignment(ctx context.Context, key, variant string, exp domain.Experiment) {
	if m.cache == nil {
		return
	}

	ttl := time.Duration(0)
	if exp.EndedAt != nil {
		ttl = time.Until(*exp.EndedAt)
		if ttl <= 0 {
			return
		}
	}

	if err := m.cache.SetJSON(ctx, key, variant, ttl); err != nil {
		logger.Warn("failed to cache assignment", "key", key, "error", err)
	}
}

// ActiveExperimentFor returns the first active experiment the user is not
// excluded from, with the resolved variant and algorithm.
func (m *Manager) ActiveExperimentFor(ctx context.Context, userID uint) (*domain.ExperimentInfo, error) {
	exps, err := m.experiments.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	for _, exp := range exps {
		variant, err := m.AssignVariant(ctx, userID, exp)
		if err != nil {
			logger.Warn("assignment failed", "experiment_id", exp.ID, "user_id", userID, "error", err)
			continue
		}
		if variant == domain.VariantExcluded {
			continue
		}

		algorithm := exp.ControlAlgorithm
		if variant == domain.VariantTreatment {
			algorithm = exp.TreatmentAlgorithm
		}

		return &domain.ExperimentInfo{
			ExperimentID: exp.ID,
			Variant:      variant,
			Algorithm:    algorithm,
		}, nil
	}

	return nil, nil
}

// ListActive returns every experiment currently serving traffic.
func (m *Manager) ListActive(ctx context.Context) ([]domain.Experiment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	return m.experiments.FindActive(ctx)
}

// TrackInteraction appends an interaction tagged with the experiment context
// and bumps the per-variant counter.
func (m *Manager) TrackInteraction(ctx context.Context, interaction *domain.Interaction, info *domain.ExperimentInfo) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if info != nil {
		interaction.ExperimentID = info.ExperimentID
		interaction.Variant = info.Variant
		interaction.Algorithm = info.Algorithm
	}

	if err := m.interactions.Append(ctx, interaction); err != nil {
		return err
	}

	if info != nil {
		TrackedEventsTotal.
			WithLabelValues(info.ExperimentID, info.Variant, interaction.EventType).
			Inc()
	}

	return nil
}

// RecordExposure counts one served recommendation response for the variant.
func (m *Manager) RecordExposure(info *domain.ExperimentInfo) {
	if info == nil {
		return
	}
	ExposuresTotal.WithLabelValues(info.ExperimentID, info.Variant).Inc()
}

// StopExperiment flips the experiment to stopped.
func (m *Manager) StopExperiment(ctx context.Context, experimentID string) error {
	exp, err := m.experiments.FindByID(ctx, experimentID)
	if err != nil {
		return err
	}
	if exp.Status == domain.ExperimentStopped {
		return nil
	}

	now := time.Now()
	exp.Status = domain.ExperimentStopped
	exp.EndedAt = &now

	if err := m.experiments.Update(ctx, &exp); err != nil {
		return err
	}

	logger.Info("experiment stopped", "experiment_id", experimentID)

	return nil
}
