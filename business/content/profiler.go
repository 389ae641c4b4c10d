package content

import (
	"context"
	"fmt"
	"math"
	"sort"

	"mealmind/domain"
)

// Profiler scores catalog items against a user's content profile.
type Profiler struct {
	cfg Config
}

func NewProfiler(cfg Config) *Profiler {
	return &Profiler{cfg: cfg}
}

// ScoreItem computes the profile match as a weighted blend of independent
// sub-scores. Each sub-score contributes numerator weight·value and
// denominator weight; the result is Σnum/Σden, bounded to [0,1]. Text
// similarity is blended separately by ScoreItems.
func (p *Profiler) ScoreItem(item domain.Item, profile *domain.UserProfile) float64 {
	var num, den float64

	add := func(weight, sub float64) {
		num += weight * sub
		den += weight
	}

	add(p.cfg.WeightCategory, profile.CategoryWeights[item.Category])
	add(p.cfg.WeightCuisine, profile.CuisineWeights[item.CuisineType])

	if len(profile.FeatureVector) > 0 && len(item.FeatureVector) > 0 {
		add(p.cfg.WeightFeatures, vectorCosine(profile.FeatureVector, item.FeatureVector))
	}

	if profile.AvgPrice > 0 {
		proximity := 1 - math.Abs(item.Price-profile.AvgPrice)/profile.AvgPrice
		add(p.cfg.WeightPrice, clamp01(proximity))
	}

	spiceProximity := 1 - math.Abs(item.SpiceLevel-profile.AvgSpiceLevel)/5.0
	add(p.cfg.WeightSpice, clamp01(spiceProximity))

	if len(profile.DietaryTagWeights) > 0 {
		var overlap float64
		for _, tag := range item.DietaryTags {
			overlap += profile.DietaryTagWeights[tag]
		}
		add(p.cfg.WeightDietary, clamp01(overlap))

		// explicit-preference compatibility: an item carrying none of the
		// user's preferred tags scores low on this axis
		if len(item.DietaryTags) > 0 {
			add(p.cfg.WeightPreference, clamp01(overlap*2))
		}
	}

	popularity := clamp01(item.PopularityScore)
	rating := clamp01(item.RatingAverage / 5.0)
	add(p.cfg.WeightPopularity, (popularity+rating)/2)

	if den == 0 {
		return 0
	}

	return clamp01(num / den)
}

// ScoreItems scores every candidate against the profile, blends in TF-IDF
// text similarity when enabled, drops excluded items and anything under
// MinScore, and returns the ranked list.
func (p *Profiler) ScoreItems(ctx context.Context, profile *domain.UserProfile, items []domain.Item, excludeIDs map[uint64]bool) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var textSims []float64
	if p.cfg.TextEnabled && profile.TextCorpus != "" {
		docs := make([]string, 0, len(items)+1)
		docs = append(docs, profile.TextCorpus)
		for _, it := range items {
			docs = append(docs, it.Text())
		}

		vectors := tfidfVectors(docs)
		textSims = make([]float64, len(items))
		for i := range items {
			textSims[i] = cosineSparse(vectors[0], vectors[i+1])
		}
	}

	recs := make([]domain.Recommendation, 0, len(items))
	for i, it := range items {
		if !it.Available() {
			continue
		}
		if excludeIDs[it.ID] {
			continue
		}

		score := p.ScoreItem(it, profile)
		if textSims != nil {
			score = (1-p.cfg.TextMixRatio)*score + p.cfg.TextMixRatio*textSims[i]
		}

		if score < p.cfg.MinScore {
			continue
		}

		recs = append(recs, domain.Recommendation{
			ItemID:      it.ID,
			Score:       score,
			Confidence:  profileConfidence(profile),
			Algorithm:   domain.AlgorithmContentBased,
			Sources:     []string{domain.AlgorithmContentBased},
			Explanation: fmt.Sprintf("matches your taste in %s", it.Category),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })

	return recs, nil
}

// profileConfidence grows with the amount of history behind the profile.
func profileConfidence(profile *domain.UserProfile) float64 {
	c := float64(profile.TotalInteractions) / 20.0
	return clamp01(c)
}

func vectorCosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
