package similarity

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"mealmind/domain"
	"mealmind/pkg/logger"
)

// ---- Repository interfaces ----

// RatingStore exposes per-user implicit-rating maps. The profile builder
// satisfies it.
type RatingStore interface {
	Ratings(ctx context.Context, userID uint) (map[uint64]float64, error)
}

type UserLister interface {
	AllUserIDs(ctx context.Context) ([]uint, error)
}

type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
}

// ---- Usecase / Service ----

// Engine computes user-user similarity and generates collaborative-filtering
// recommendations.
type Engine struct {
	ratings RatingStore
	users   UserLister
	cache   Cache
	cfg     Config

	refreshing atomic.Bool
}

func NewEngine(ratings RatingStore, users UserLister, cache Cache, cfg Config) *Engine {
	return &Engine{
		ratings: ratings,
		users:   users,
		cache:   cache,
		cfg:     cfg,
	}
}

func neighborsKey(userID uint, method string) string {
	return fmt.Sprintf("sim:neighbors:%d:%s", userID, method)
}

// FindNeighbors ranks the candidate pool by similarity to the target user,
// drops everything under minSimilarity and truncates to maxNeighbors.
func (e *Engine) FindNeighbors(ctx context.Context, userID uint, pool []uint, method string) ([]domain.Neighbor, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if e.cache != nil {
		var cached []domain.Neighbor
		if ok, err := e.cache.GetJSON(ctx, neighborsKey(userID, method), &cached); err == nil && ok {
			return cached, nil
		}
	}

	return e.computeNeighbors(ctx, userID, pool, method)
}

func (e *Engine) computeNeighbors(ctx context.Context, userID uint, pool []uint, method string) ([]domain.Neighbor, error) {
	target, err := e.ratings.Ratings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load target ratings: %w", err)
	}
	if len(target) == 0 {
		return nil, nil
	}

	neighbors := make([]domain.Neighbor, 0, len(pool))
	for _, candidate := range pool {
		if candidate == userID {
			continue
		}

		other, err := e.ratings.Ratings(ctx, candidate)
		if err != nil {
			logger.Warn("skipping candidate, ratings unavailable", "user_id", candidate, "error", err)
			continue
		}

		sim := Similarity(target, other, method, e.cfg.MinCommonItems)
		if sim < e.cfg.MinSimilarity {
			continue
		}

		neighbors = append(neighbors, domain.Neighbor{UserID: candidate, Similarity: sim})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Similarity > neighbors[j].Similarity
	})
	if len(neighbors) > e.cfg.MaxNeighbors {
		neighbors = neighbors[:e.cfg.MaxNeighbors]
	}

	if e.cache != nil {
		if err := e.cache.SetJSON(ctx, neighborsKey(userID, method), neighbors, e.cfg.MatrixTTL); err != nil {
			logger.Warn("failed to cache neighbors", "user_id", userID, "error", err)
		}
	}

	return neighbors, nil
}

// Recommend aggregates neighbor ratings on items the target has not touched:
// score = Σ(similarity·rating) / Σ(similarity), confidence grows with the
// number of supporting neighbors. Items in excludeIDs are never returned.
func (e *Engine) Recommend(ctx context.Context, userID uint, neighbors []domain.Neighbor, excludeIDs map[uint64]bool) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	target, err := e.ratings.Ratings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load target ratings: %w", err)
	}

	num := make(map[uint64]float64)
	den := make(map[uint64]float64)
	supporters := make(map[uint64]int)

	for _, n := range neighbors {
		if n.Similarity <= 0 {
			continue
		}

		theirs, err := e.ratings.Ratings(ctx, n.UserID)
		if err != nil {
			logger.Warn("skipping neighbor, ratings unavailable", "user_id", n.UserID, "error", err)
			continue
		}

		for itemID, rating := range theirs {
			if _, seen := target[itemID]; seen {
				continue
			}
			if excludeIDs[itemID] {
				continue
			}

			num[itemID] += n.Similarity * rating
			den[itemID] += n.Similarity
			supporters[itemID]++
		}
	}

	recs := make([]domain.Recommendation, 0, len(num))
	for itemID, n := range num {
		d := den[itemID]
		if d <= 0 {
			continue
		}

		confidence := float64(supporters[itemID]) / 5.0
		if confidence > 1 {
			confidence = 1
		}

		recs = append(recs, domain.Recommendation{
			ItemID:      itemID,
			Score:       n / d,
			Confidence:  confidence,
			Algorithm:   domain.AlgorithmCollaborative,
			Sources:     []string{domain.AlgorithmCollaborative},
			Explanation: fmt.Sprintf("liked by %d similar users", supporters[itemID]),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })

	return recs, nil
}

// RefreshMatrix precomputes neighbor lists for every known user. The job is
// mutually exclusive with itself: a trigger while one run is in progress is a
// no-op, not an error and not a queued run.
func (e *Engine) RefreshMatrix(ctx context.Context, method string) error {
	if !e.refreshing.CompareAndSwap(false, true) {
		logger.Debug("similarity refresh already in progress, skipping")
		return nil
	}
	defer e.refreshing.Store(false)

	userIDs, err := e.users.AllUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	started := time.Now()
	for _, id := range userIDs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context error: %w", err)
		}
		if _, err := e.computeNeighbors(ctx, id, userIDs, method); err != nil {
			logger.Warn("neighbor refresh failed for user", "user_id", id, "error", err)
		}
	}

	logger.Info("similarity matrix refreshed",
		"users", len(userIDs),
		"method", method,
		"took", time.Since(started).String(),
	)

	return nil
}
