package recommend

import (
	"context"
	"fmt"
	"sort"

	"mealmind/business/content"
	"mealmind/business/similarity"
	"mealmind/business/trend"
	"mealmind/domain"
)

// Scorer is the single contract every recommendation source implements. The
// orchestrator holds one tagged instance per algorithm and dispatches by
// variant; there is no runtime string-keyed method lookup.
type Scorer interface {
	// Algorithm reports which member of the closed scorer set this is.
	Algorithm() string

	// Score ranks candidate items for the user. excludeIDs are item ids the
	// caller forbids (typically already-interacted items).
	Score(ctx context.Context, profile *domain.UserProfile, candidates []domain.Item, excludeIDs map[uint64]bool, limit int) ([]domain.Recommendation, error)
}

// ---- Collaborative ----

type CollaborativeScorer struct {
	engine *similarity.Engine
	users  UserLister
	method string
}

type UserLister interface {
	AllUserIDs(ctx context.Context) ([]uint, error)
}

func NewCollaborativeScorer(engine *similarity.Engine, users UserLister, method string) *CollaborativeScorer {
	if method == "" {
		method = similarity.MethodCosine
	}
	return &CollaborativeScorer{engine: engine, users: users, method: method}
}

func (s *CollaborativeScorer) Algorithm() string {
	return domain.AlgorithmCollaborative
}

func (s *CollaborativeScorer) Score(ctx context.Context, profile *domain.UserProfile, candidates []domain.Item, excludeIDs map[uint64]bool, limit int) ([]domain.Recommendation, error) {
	if profile.TotalInteractions == 0 {
		// cold start: no collaborative signal exists, by definition
		return nil, nil
	}

	pool, err := s.users.AllUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	neighbors, err := s.engine.FindNeighbors(ctx, profile.UserID, pool, s.method)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return nil, nil
	}

	recs, err := s.engine.Recommend(ctx, profile.UserID, neighbors, excludeIDs)
	if err != nil {
		return nil, err
	}

	// restrict to the candidate set the orchestrator is serving from
	allowed := make(map[uint64]bool, len(candidates))
	for _, it := range candidates {
		allowed[it.ID] = true
	}

	out := recs[:0]
	for _, r := range recs {
		if allowed[r.ItemID] {
			out = append(out, r)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// ---- Content-based ----

type ContentScorer struct {
	profiler *content.Profiler
}

func NewContentScorer(profiler *content.Profiler) *ContentScorer {
	return &ContentScorer{profiler: profiler}
}

func (s *ContentScorer) Algorithm() string {
	return domain.AlgorithmContentBased
}

func (s *ContentScorer) Score(ctx context.Context, profile *domain.UserProfile, candidates []domain.Item, excludeIDs map[uint64]bool, limit int) ([]domain.Recommendation, error) {
	recs, err := s.profiler.ScoreItems(ctx, profile, candidates, excludeIDs)
	if err != nil {
		return nil, err
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// ---- Trending ----

type TrendingScorer struct {
	analyzer *trend.Analyzer
}

func NewTrendingScorer(analyzer *trend.Analyzer) *TrendingScorer {
	return &TrendingScorer{analyzer: analyzer}
}

func (s *TrendingScorer) Algorithm() string {
	return domain.AlgorithmTrending
}

func (s *TrendingScorer) Score(ctx context.Context, profile *domain.UserProfile, candidates []domain.Item, excludeIDs map[uint64]bool, limit int) ([]domain.Recommendation, error) {
	return s.analyzer.Recommendations(ctx, excludeIDs, limit)
}

// ---- Popularity ----

// PopularityScorer ranks by the catalog's popularity score. It is both a
// first-class algorithm and the fallback every failure path lands on.
type PopularityScorer struct{}

func NewPopularityScorer() *PopularityScorer {
	return &PopularityScorer{}
}

func (s *PopularityScorer) Algorithm() string {
	return domain.AlgorithmPopularity
}

func (s *PopularityScorer) Score(ctx context.Context, profile *domain.UserProfile, candidates []domain.Item, excludeIDs map[uint64]bool, limit int) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	recs := make([]domain.Recommendation, 0, len(candidates))
	var maxPop float64
	for _, it := range candidates {
		if it.PopularityScore > maxPop {
			maxPop = it.PopularityScore
		}
	}
	if maxPop == 0 {
		maxPop = 1
	}

	for _, it := range candidates {
		if excludeIDs[it.ID] {
			continue
		}
		if !it.Available() {
			continue
		}
		recs = append(recs, domain.Recommendation{
			ItemID:      it.ID,
			Score:       it.PopularityScore / maxPop,
			Confidence:  0.4,
			Algorithm:   domain.AlgorithmPopularity,
			Sources:     []string{domain.AlgorithmPopularity},
			Explanation: "popular right now",
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > limit {
		recs = recs[:limit]
	}

	return recs, nil
}

// ---- Neural (pluggable) ----

// NeuralScorer wraps an integrator-supplied model behind the Scorer
// contract. The engine only requires Score and Explain semantics; the model
// architecture is the integrator's business.
type NeuralModel interface {
	Predict(ctx context.Context, userID uint, itemIDs []uint64) (map[uint64]float64, error)
}

type NeuralScorer struct {
	model NeuralModel
}

func NewNeuralScorer(model NeuralModel) *NeuralScorer {
	return &NeuralScorer{model: model}
}

func (s *NeuralScorer) Algorithm() string {
	return domain.AlgorithmNeural
}

func (s *NeuralScorer) Score(ctx context.Context, profile *domain.UserProfile, candidates []domain.Item, excludeIDs map[uint64]bool, limit int) ([]domain.Recommendation, error) {
	if s.model == nil {
		return nil, fmt.Errorf("no neural model configured")
	}

	ids := make([]uint64, 0, len(candidates))
	for _, it := range candidates {
		if !excludeIDs[it.ID] && it.Available() {
			ids = append(ids, it.ID)
		}
	}

	preds, err := s.model.Predict(ctx, profile.UserID, ids)
	if err != nil {
		return nil, fmt.Errorf("neural predict: %w", err)
	}

	recs := make([]domain.Recommendation, 0, len(preds))
	for itemID, score := range preds {
		recs = append(recs, domain.Recommendation{
			ItemID:      itemID,
			Score:       score,
			Confidence:  0.7,
			Algorithm:   domain.AlgorithmNeural,
			Sources:     []string{domain.AlgorithmNeural},
			Explanation: "model score",
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > limit {
		recs = recs[:limit]
	}

	return recs, nil
}
