package hybrid

import (
	"fmt"
	"math"
	"sort"

	"mealmind/domain"
)

// Sources carries each scorer's ranked output into the combiner. A nil slice
// means the source produced nothing (cold start, failure fallback).
type Sources struct {
	Collaborative []domain.Recommendation
	Content       []domain.Recommendation
	Popularity    []domain.Recommendation
}

// UserStats is the small slice of profile state the strategies switch on.
type UserStats struct {
	TotalInteractions  int
	RecentInteractions int
	UniqueItems        int
	UniqueCategories   int
}

// ExplorationScore = uniqueCategories / uniqueItems.
func (s UserStats) ExplorationScore() float64 {
	if s.UniqueItems == 0 {
		return 0
	}
	return float64(s.UniqueCategories) / float64(s.UniqueItems)
}

// EngagementScore = recentInteractions / totalInteractions.
func (s UserStats) EngagementScore() float64 {
	if s.TotalInteractions == 0 {
		return 0
	}
	return float64(s.RecentInteractions) / float64(s.TotalInteractions)
}

// Combiner merges scorer outputs under a selected strategy.
type Combiner struct {
	cfg Config
}

func NewCombiner(cfg Config) *Combiner {
	return &Combiner{cfg: cfg}
}

// Combine merges the sources per the strategy and returns a ranked list.
// Post-processing (diversification, contextual adjustment, availability
// filter) is applied separately by PostProcess.
func (c *Combiner) Combine(strategy Strategy, sources Sources, stats UserStats, limit int) []domain.Recommendation {
	if limit <= 0 {
		limit = 10
	}

	var merged []domain.Recommendation
	switch strategy {
	case StrategySwitching:
		merged = c.switching(sources, stats)
	case StrategyCascade:
		merged = c.cascade(sources, limit)
	case StrategyAdaptive:
		merged = c.adaptive(sources, stats)
	case StrategyWeighted:
		fallthrough
	default:
		merged = c.weighted(sources)
	}

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Score > merged[j].Score })
	if len(merged) > limit {
		merged = merged[:limit]
	}

	return merged
}

// weighted: score = collab·wc + content·wcb for items in both sources; items
// found by only one source keep that source's score times its own weight. A
// missing source contributes 0, never a penalty.
func (c *Combiner) weighted(sources Sources) []domain.Recommendation {
	type entry struct {
		rec   domain.Recommendation
		score float64
	}
	byItem := make(map[uint64]*entry)

	accumulate := func(recs []domain.Recommendation, weight float64) {
		for _, r := range recs {
			e, ok := byItem[r.ItemID]
			if !ok {
				e = &entry{rec: domain.Recommendation{
					ItemID:     r.ItemID,
					Confidence: r.Confidence,
					Algorithm:  domain.AlgorithmHybrid,
				}}
				byItem[r.ItemID] = e
			}
			e.score += r.Score * weight
			e.rec.Sources = append(e.rec.Sources, r.Sources...)
			if r.Confidence > e.rec.Confidence {
				e.rec.Confidence = r.Confidence
			}
			if e.rec.Explanation == "" {
				e.rec.Explanation = r.Explanation
			}
		}
	}

	accumulate(sources.Collaborative, c.cfg.WeightCollaborative)
	accumulate(sources.Content, c.cfg.WeightContent)

	out := make([]domain.Recommendation, 0, len(byItem))
	for _, e := range byItem {
		e.rec.Score = e.score
		out = append(out, e.rec)
	}

	return out
}

// switching: no collaborative data means content-only, too little history
// means popularity-only, otherwise collaborative-only.
func (c *Combiner) switching(sources Sources, stats UserStats) []domain.Recommendation {
	switch {
	case len(sources.Collaborative) == 0 && len(sources.Content) > 0:
		return relabel(sources.Content, domain.AlgorithmContentBased)
	case stats.TotalInteractions < c.cfg.SwitchingMinInteractions:
		return relabel(sources.Popularity, domain.AlgorithmPopularity)
	case len(sources.Collaborative) > 0:
		return relabel(sources.Collaborative, domain.AlgorithmCollaborative)
	default:
		return relabel(sources.Popularity, domain.AlgorithmPopularity)
	}
}

// cascade: primary fills ceil(limit·share) slots, secondary fills the
// remainder deduplicated by item id, popularity fills any leftover.
func (c *Combiner) cascade(sources Sources, limit int) []domain.Recommendation {
	primarySlots := int(math.Ceil(float64(limit) * c.cfg.CascadePrimaryShare))

	seen := make(map[uint64]bool)
	out := make([]domain.Recommendation, 0, limit)

	take := func(recs []domain.Recommendation, max int) {
		for _, r := range recs {
			if len(out) >= max {
				return
			}
			if seen[r.ItemID] {
				continue
			}
			seen[r.ItemID] = true
			out = append(out, r)
		}
	}

	take(sources.Collaborative, primarySlots)
	take(sources.Content, limit)
	take(sources.Popularity, limit)

	// cascade order is the ranking; give downstream sorting a strictly
	// decreasing score sequence to preserve it
	for i := range out {
		out[i].Score = float64(len(out)-i) / float64(len(out))
		out[i].Algorithm = domain.AlgorithmHybrid
	}

	return out
}

// adaptive: classify the user, then run a weighted merge of all three
// sources under the class's weight triple, retaining per-source components
// in the explanation.
func (c *Combiner) adaptive(sources Sources, stats UserStats) []domain.Recommendation {
	class := c.Classify(stats)
	weights := c.cfg.AdaptiveWeights[class]

	type entry struct {
		rec        domain.Recommendation
		components map[string]float64
	}
	byItem := make(map[uint64]*entry)

	accumulate := func(recs []domain.Recommendation, weight float64, source string) {
		if weight == 0 {
			return
		}
		for _, r := range recs {
			e, ok := byItem[r.ItemID]
			if !ok {
				e = &entry{
					rec: domain.Recommendation{
						ItemID:     r.ItemID,
						Confidence: r.Confidence,
						Algorithm:  domain.AlgorithmHybrid,
					},
					components: make(map[string]float64),
				}
				byItem[r.ItemID] = e
			}
			e.rec.Score += r.Score * weight
			e.components[source] = r.Score * weight
			e.rec.Sources = append(e.rec.Sources, source)
			if r.Confidence > e.rec.Confidence {
				e.rec.Confidence = r.Confidence
			}
		}
	}

	accumulate(sources.Collaborative, weights.Collaborative, domain.AlgorithmCollaborative)
	accumulate(sources.Content, weights.Content, domain.AlgorithmContentBased)
	accumulate(sources.Popularity, weights.Popularity, domain.AlgorithmPopularity)

	out := make([]domain.Recommendation, 0, len(byItem))
	for _, e := range byItem {
		e.rec.Explanation = fmt.Sprintf("%s user blend: %s", class, formatComponents(e.components))
		out = append(out, e.rec)
	}

	return out
}

// Classify maps the user's exploration and engagement scores to a class.
func (c *Combiner) Classify(stats UserStats) UserClass {
	if stats.UniqueItems <= c.cfg.NewUserMaxItems {
		return ClassNew
	}

	exploration := stats.ExplorationScore()
	engagement := stats.EngagementScore()

	switch {
	case exploration >= c.cfg.ExplorationHigh:
		return ClassExplorer
	case engagement >= c.cfg.EngagementHigh && exploration < c.cfg.ExplorationHigh:
		return ClassActive
	case engagement < c.cfg.EngagementHigh && exploration < 0.3:
		return ClassFocused
	default:
		return ClassCasual
	}
}

func relabel(recs []domain.Recommendation, algorithm string) []domain.Recommendation {
	out := make([]domain.Recommendation, len(recs))
	copy(out, recs)
	for i := range out {
		out[i].Algorithm = algorithm
	}
	return out
}

func formatComponents(components map[string]float64) string {
	keys := make([]string, 0, len(components))
	for k := range components {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := ""
	for i, k := range keys {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s=%.3f", k, components[k])
	}
	return s
}
