package hybrid

import (
	"context"
	"sort"
	"time"

	"mealmind/domain"
)

// RequestContext carries the per-call situational signals the contextual
// adjustment multiplies into scores.
type RequestContext struct {
	Now       time.Time
	BudgetMin float64
	BudgetMax float64
}

// categorySuitability maps meal-period-typical categories to a boost. The
// table is a starting point, not a claim about food culture.
var categorySuitability = map[string]map[string]float64{
	"breakfast": {"bakery": 1.2, "breakfast": 1.3, "coffee": 1.25, "juice": 1.15},
	"lunch":     {"salad": 1.15, "sandwich": 1.2, "bowl": 1.15, "pizza": 1.1},
	"dinner":    {"pizza": 1.15, "sushi": 1.2, "curry": 1.15, "grill": 1.2},
	"snack":     {"dessert": 1.25, "bakery": 1.1, "snack": 1.3},
}

func mealPeriodOf(t time.Time) string {
	h := t.Hour()
	switch {
	case h >= 6 && h < 11:
		return "breakfast"
	case h >= 11 && h < 15:
		return "lunch"
	case h >= 17 && h < 22:
		return "dinner"
	default:
		return "snack"
	}
}

// PostProcess applies the uniform pipeline every strategy's output goes
// through: diversification, contextual adjustment, the availability business
// filter, and a final stable sort.
func (c *Combiner) PostProcess(
	ctx context.Context,
	recs []domain.Recommendation,
	items map[uint64]domain.Item,
	reqCtx RequestContext,
	weather WeatherProvider,
	demand DemandProvider,
	diversityFactor float64,
) []domain.Recommendation {
	if diversityFactor < 0 {
		diversityFactor = c.cfg.DefaultDiversityFactor
	}

	out := Diversify(recs, items, diversityFactor)

	now := reqCtx.Now
	if now.IsZero() {
		now = time.Now()
	}
	period := mealPeriodOf(now)

	adjusted := make([]domain.Recommendation, 0, len(out))
	for _, r := range out {
		it, ok := items[r.ItemID]
		if !ok {
			continue
		}

		// business filter: weakly available items never surface
		if it.AvailabilityScore <= c.cfg.AvailabilityFloor {
			continue
		}

		score := r.Score

		if boost, ok := categorySuitability[period][it.Category]; ok {
			score *= boost
		}

		if weather != nil {
			score *= weather.CategoryBoost(ctx, it.Category)
		}
		if demand != nil {
			score *= demand.CategoryDemand(ctx, it.Category)
		}

		if reqCtx.BudgetMax > 0 {
			if it.Price >= reqCtx.BudgetMin && it.Price <= reqCtx.BudgetMax {
				score *= 1.1
			} else {
				score *= 0.9
			}
		}

		if it.IsPromoted {
			score *= 1.15
		}

		r.Score = score
		adjusted = append(adjusted, r)
	}

	sort.SliceStable(adjusted, func(i, j int) bool { return adjusted[i].Score > adjusted[j].Score })

	return adjusted
}
