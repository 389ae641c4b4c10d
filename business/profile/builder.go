package profile

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"mealmind/domain"
	"mealmind/pkg/logger"
)

// ---- Repository interfaces ----

type InteractionRepository interface {
	FindByUser(ctx context.Context, userID uint) ([]domain.Interaction, error)
}

type ItemRepository interface {
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Item, error)
}

type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
}

// ---- Usecase / Service ----

// Builder aggregates a user's interaction history into a preference profile.
// Profiles are derived caches: rebuilt from interactions on expiry, never
// hand-edited.
type Builder struct {
	interactions InteractionRepository
	items        ItemRepository
	cache        Cache
	cfg          Config
}

func NewBuilder(interactions InteractionRepository, items ItemRepository, cache Cache, cfg Config) *Builder {
	return &Builder{
		interactions: interactions,
		items:        items,
		cache:        cache,
		cfg:          cfg,
	}
}

func profileKey(userID uint) string {
	return fmt.Sprintf("profile:user:%d", userID)
}

// ImplicitRating derives a 0..5 preference strength from an interaction:
// type weight plus a capped dwell-time bonus. Explicit ratings pass through
// as-is.
func (b *Builder) ImplicitRating(in domain.Interaction) float64 {
	var base float64

	switch in.EventType {
	case domain.InteractionView:
		base = b.cfg.WeightView
	case domain.InteractionClick:
		base = b.cfg.WeightClick
	case domain.InteractionCart:
		base = b.cfg.WeightCart
	case domain.InteractionOrder:
		base = b.cfg.WeightOrder
	case domain.InteractionFavorite:
		base = b.cfg.WeightFavorite
	case domain.InteractionShare:
		base = b.cfg.WeightShare
	case domain.InteractionRate:
		// explicit star rating, already on the 0..5 scale
		return clamp(in.Value, 0, 5)
	default:
		return 0
	}

	if in.Duration > 0 {
		bonus := (in.Duration / 60.0) * b.cfg.DurationBonusPerMinute
		if bonus > b.cfg.DurationBonusCap {
			bonus = b.cfg.DurationBonusCap
		}
		base += bonus
	}

	return clamp(base, 0, 5)
}

// Build rebuilds the profile from the user's full interaction history,
// serving from cache when a fresh copy exists.
func (b *Builder) Build(ctx context.Context, userID uint) (*domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if b.cache != nil {
		var cached domain.UserProfile
		if ok, err := b.cache.GetJSON(ctx, profileKey(userID), &cached); err == nil && ok {
			return &cached, nil
		}
	}

	rows, err := b.interactions.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}

	p := b.aggregate(ctx, userID, rows)

	if b.cache != nil {
		if err := b.cache.SetJSON(ctx, profileKey(userID), p, b.cfg.ProfileTTL); err != nil {
			logger.Warn("failed to cache user profile", "user_id", userID, "error", err)
		}
	}

	return p, nil
}

// Ratings returns the user's implicit ratings keyed by item id, without the
// full profile aggregation. The collaborative engine works from these maps.
func (b *Builder) Ratings(ctx context.Context, userID uint) (map[uint64]float64, error) {
	rows, err := b.interactions.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}

	return b.ratingMap(rows), nil
}

func (b *Builder) ratingMap(rows []domain.Interaction) map[uint64]float64 {
	ratings := make(map[uint64]float64)
	for _, in := range rows {
		r := b.ImplicitRating(in)
		// the strongest observed signal per item wins
		if r > ratings[in.ItemID] {
			ratings[in.ItemID] = r
		}
	}
	return ratings
}

func (b *Builder) aggregate(ctx context.Context, userID uint, rows []domain.Interaction) *domain.UserProfile {
	p := &domain.UserProfile{
		UserID:            userID,
		CategoryWeights:   make(map[string]float64),
		CuisineWeights:    make(map[string]float64),
		DietaryTagWeights: make(map[string]float64),
		Ratings:           b.ratingMap(rows),
		TotalInteractions: len(rows),
		BuiltAt:           time.Now(),
	}

	recentCutoff := time.Now().Add(-b.cfg.RecencyWindow)
	itemIDs := make([]uint64, 0, len(p.Ratings))
	for id := range p.Ratings {
		itemIDs = append(itemIDs, id)
	}
	p.UniqueItems = len(itemIDs)

	for _, in := range rows {
		if in.CreatedAt.After(recentCutoff) {
			p.RecentInteractions++
		}
	}

	if len(itemIDs) == 0 {
		return p
	}

	items, err := b.items.FindByIDs(ctx, itemIDs)
	if err != nil {
		logger.Warn("failed to load items for profile", "user_id", userID, "error", err)
		return p
	}

	var (
		weightSum  float64
		priceSum   float64
		spiceSum   float64
		corpus     strings.Builder
		featureSum []float64
	)

	for _, it := range items {
		w := p.Ratings[it.ID]
		if w <= 0 {
			continue
		}

		p.CategoryWeights[it.Category] += w
		p.CuisineWeights[it.CuisineType] += w
		for _, tag := range it.DietaryTags {
			p.DietaryTagWeights[tag] += w
		}

		priceSum += it.Price * w
		spiceSum += it.SpiceLevel * w
		weightSum += w

		if len(it.FeatureVector) > 0 {
			if featureSum == nil {
				featureSum = make([]float64, len(it.FeatureVector))
			}
			for i, v := range it.FeatureVector {
				if i < len(featureSum) {
					featureSum[i] += v * w
				}
			}
		}

		corpus.WriteString(it.Text())
		corpus.WriteString(" ")
	}

	if weightSum > 0 {
		p.AvgPrice = priceSum / weightSum
		p.AvgSpiceLevel = spiceSum / weightSum
		if featureSum != nil {
			p.FeatureVector = make([]float64, len(featureSum))
			for i, v := range featureSum {
				p.FeatureVector[i] = v / weightSum
			}
		}
	}

	normalizeWeights(p.CategoryWeights)
	normalizeWeights(p.CuisineWeights)
	normalizeWeights(p.DietaryTagWeights)
	p.UniqueCategories = len(p.CategoryWeights)
	p.TextCorpus = strings.TrimSpace(corpus.String())

	return p
}

// normalizeWeights scales a weight map so its values sum to 1 (or less, when
// empty). Profiles keep each dimension on a comparable scale this way.
func normalizeWeights(weights map[string]float64) {
	var sum float64
	for _, v := range weights {
		sum += v
	}
	if sum <= 0 {
		return
	}
	for k, v := range weights {
		weights[k] = v / sum
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
