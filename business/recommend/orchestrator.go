package recommend

import (
	"context"
	"fmt"
	"time"

	"mealmind/business/hybrid"
	"mealmind/domain"
	"mealmind/pkg/logger"
	"mealmind/pkg/metrics"
)

// ---- Repository interfaces ----

type ItemRepository interface {
	FindAvailable(ctx context.Context) ([]domain.Item, error)
}

type ProfileBuilder interface {
	Build(ctx context.Context, userID uint) (*domain.UserProfile, error)
}

type ExperimentResolver interface {
	ActiveExperimentFor(ctx context.Context, userID uint) (*domain.ExperimentInfo, error)
	RecordExposure(info *domain.ExperimentInfo)
}

type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
}

// ---- Usecase / Service ----

// Options is the per-request knob set.
type Options struct {
	Limit             int
	Algorithm         string // explicit override; beats experiment and default
	Strategy          hybrid.Strategy
	DiversityFactor   float64 // negative means "use the configured default"
	ExcludeInteracted bool
	Context           hybrid.RequestContext
}

type Config struct {
	DefaultAlgorithm string
	DefaultLimit     int
	MaxLimit         int
	ResultTTL        time.Duration
}

func DefaultConfig() Config {
	return Config{
		DefaultAlgorithm: domain.AlgorithmHybrid,
		DefaultLimit:     10,
		MaxLimit:         50,
		ResultTTL:        10 * time.Minute,
	}
}

// Orchestrator is the engine's top-level entry point. It resolves which
// algorithm to run, fans out to the tagged scorers, pushes results through
// the combiner, records exposure and caches the response.
type Orchestrator struct {
	items       ItemRepository
	profiles    ProfileBuilder
	experiments ExperimentResolver
	combiner    *hybrid.Combiner
	cache       Cache
	weather     hybrid.WeatherProvider
	demand      hybrid.DemandProvider
	cfg         Config

	collaborative Scorer
	contentBased  Scorer
	trending      Scorer
	popularity    Scorer
	neural        Scorer // optional
}

func NewOrchestrator(
	items ItemRepository,
	profiles ProfileBuilder,
	experiments ExperimentResolver,
	combiner *hybrid.Combiner,
	cache Cache,
	weather hybrid.WeatherProvider,
	demand hybrid.DemandProvider,
	collaborative Scorer,
	contentBased Scorer,
	trending Scorer,
	popularity Scorer,
	neural Scorer,
	cfg Config,
) *Orchestrator {
	return &Orchestrator{
		items:         items,
		profiles:      profiles,
		experiments:   experiments,
		combiner:      combiner,
		cache:         cache,
		weather:       weather,
		demand:        demand,
		collaborative: collaborative,
		contentBased:  contentBased,
		trending:      trending,
		popularity:    popularity,
		neural:        neural,
		cfg:           cfg,
	}
}

func resultKey(userID uint, algorithm string, limit int) string {
	return fmt.Sprintf("reco:user:%d:%s:%d", userID, algorithm, limit)
}

// GetRecommendations resolves the algorithm (override > experiment >
// default), runs it and post-processes the result. A failing scorer is
// logged and substituted with the popularity fallback; the caller never sees
// a single scorer's fault as a fatal error.
func (o *Orchestrator) GetRecommendations(ctx context.Context, userID uint, opts Options) (*domain.RecommendationSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	started := time.Now()
	defer func() {
		metrics.RecommendLatency.Observe(time.Since(started).Seconds())
	}()
	metrics.RecommendRequests.Inc()

	if opts.Limit <= 0 {
		opts.Limit = o.cfg.DefaultLimit
	} else if opts.Limit > o.cfg.MaxLimit {
		opts.Limit = o.cfg.MaxLimit
	}

	// algorithm precedence: explicit override > experiment > default
	algorithm := opts.Algorithm
	var expInfo *domain.ExperimentInfo
	if algorithm == "" && o.experiments != nil {
		info, err := o.experiments.ActiveExperimentFor(ctx, userID)
		if err != nil {
			logger.Warn("experiment resolution failed", "user_id", userID, "error", err)
		} else if info != nil {
			expInfo = info
			algorithm = info.Algorithm
		}
	}
	if algorithm == "" {
		algorithm = o.cfg.DefaultAlgorithm
	}

	if o.cache != nil && expInfo == nil {
		var cached domain.RecommendationSet
		if ok, err := o.cache.GetJSON(ctx, resultKey(userID, algorithm, opts.Limit), &cached); err == nil && ok {
			return &cached, nil
		}
	}

	profile, err := o.profiles.Build(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("build profile: %w", err)
	}

	candidates, err := o.items.FindAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	excludeIDs := make(map[uint64]bool)
	if opts.ExcludeInteracted {
		for id := range profile.Ratings {
			excludeIDs[id] = true
		}
	}

	recs := o.dispatch(ctx, algorithm, profile, candidates, excludeIDs, opts)

	itemsByID := make(map[uint64]domain.Item, len(candidates))
	for _, it := range candidates {
		itemsByID[it.ID] = it
	}

	recs = o.combiner.PostProcess(ctx, recs, itemsByID, opts.Context, o.weather, o.demand, opts.DiversityFactor)
	if len(recs) > opts.Limit {
		recs = recs[:opts.Limit]
	}

	result := &domain.RecommendationSet{
		Recommendations: recs,
		AlgorithmUsed:   algorithm,
		Experiment:      expInfo,
	}

	if o.experiments != nil {
		o.experiments.RecordExposure(expInfo)
	}

	if o.cache != nil && expInfo == nil {
		if err := o.cache.SetJSON(ctx, resultKey(userID, algorithm, opts.Limit), result, o.cfg.ResultTTL); err != nil {
			logger.Warn("failed to cache recommendations", "user_id", userID, "error", err)
		}
	}

	return result, nil
}

// dispatch runs the resolved algorithm through the closed scorer set.
func (o *Orchestrator) dispatch(
	ctx context.Context,
	algorithm string,
	profile *domain.UserProfile,
	candidates []domain.Item,
	excludeIDs map[uint64]bool,
	opts Options,
) []domain.Recommendation {
	switch algorithm {
	case domain.AlgorithmCollaborative:
		return o.runOrFallback(ctx, o.collaborative, profile, candidates, excludeIDs, opts.Limit)
	case domain.AlgorithmContentBased:
		return o.runOrFallback(ctx, o.contentBased, profile, candidates, excludeIDs, opts.Limit)
	case domain.AlgorithmTrending:
		return o.runOrFallback(ctx, o.trending, profile, candidates, excludeIDs, opts.Limit)
	case domain.AlgorithmPopularity:
		return o.runOrFallback(ctx, o.popularity, profile, candidates, excludeIDs, opts.Limit)
	case domain.AlgorithmNeural:
		if o.neural != nil {
			return o.runOrFallback(ctx, o.neural, profile, candidates, excludeIDs, opts.Limit)
		}
		return o.runOrFallback(ctx, o.popularity, profile, candidates, excludeIDs, opts.Limit)
	case domain.AlgorithmHybrid:
		fallthrough
	default:
		return o.runHybrid(ctx, profile, candidates, excludeIDs, opts)
	}
}

// runHybrid fans out to the base scorers and merges through the combiner.
// Cold-start users skip the collaborative run entirely.
func (o *Orchestrator) runHybrid(
	ctx context.Context,
	profile *domain.UserProfile,
	candidates []domain.Item,
	excludeIDs map[uint64]bool,
	opts Options,
) []domain.Recommendation {
	// fetch more than the final limit so the combiner has room to merge
	fetch := opts.Limit * 3

	sources := hybrid.Sources{
		Popularity: o.runScorer(ctx, o.popularity, profile, candidates, excludeIDs, fetch),
	}
	if profile.TotalInteractions > 0 {
		sources.Collaborative = o.runScorer(ctx, o.collaborative, profile, candidates, excludeIDs, fetch)
		sources.Content = o.runScorer(ctx, o.contentBased, profile, candidates, excludeIDs, fetch)
	}

	stats := hybrid.UserStats{
		TotalInteractions:  profile.TotalInteractions,
		RecentInteractions: profile.RecentInteractions,
		UniqueItems:        profile.UniqueItems,
		UniqueCategories:   profile.UniqueCategories,
	}

	strategy := opts.Strategy
	if strategy == "" {
		strategy = hybrid.StrategyWeighted
	}

	merged := o.combiner.Combine(strategy, sources, stats, opts.Limit)
	if len(merged) == 0 {
		// both personalized sources came up empty; popularity is the floor
		return sources.Popularity
	}

	return merged
}

// runOrFallback executes one scorer and substitutes the popularity ranking
// on error, panic or empty output.
func (o *Orchestrator) runOrFallback(
	ctx context.Context,
	scorer Scorer,
	profile *domain.UserProfile,
	candidates []domain.Item,
	excludeIDs map[uint64]bool,
	limit int,
) []domain.Recommendation {
	recs := o.runScorer(ctx, scorer, profile, candidates, excludeIDs, limit)
	if len(recs) > 0 {
		return recs
	}

	if scorer.Algorithm() != domain.AlgorithmPopularity {
		return o.runScorer(ctx, o.popularity, profile, candidates, excludeIDs, limit)
	}

	return recs
}

// runScorer isolates one scorer call: an error or panic is logged, counted
// and turned into an empty result.
func (o *Orchestrator) runScorer(
	ctx context.Context,
	scorer Scorer,
	profile *domain.UserProfile,
	candidates []domain.Item,
	excludeIDs map[uint64]bool,
	limit int,
) (recs []domain.Recommendation) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("scorer panicked",
				"algorithm", scorer.Algorithm(),
				"user_id", profile.UserID,
				"panic", fmt.Sprintf("%v", r),
			)
			metrics.ScorerFallbacks.WithLabelValues(scorer.Algorithm()).Inc()
			recs = nil
		}
	}()

	recs, err := scorer.Score(ctx, profile, candidates, excludeIDs, limit)
	if err != nil {
		logger.Warn("scorer failed",
			"algorithm", scorer.Algorithm(),
			"user_id", profile.UserID,
			"error", err,
		)
		metrics.ScorerFallbacks.WithLabelValues(scorer.Algorithm()).Inc()
		return nil
	}

	return recs
}
