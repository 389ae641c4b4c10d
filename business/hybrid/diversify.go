package hybrid

import (
	"sort"

	"mealmind/domain"
)

// Diversify walks the ranked list once, rewarding items that introduce a
// category or cuisine not yet seen (×(1+factor)) and penalizing repeats
// (×(1−factor)), then re-sorts. The top item keeps its rank: its category is
// novel by definition and everything below it can only gain the same bonus.
func Diversify(recs []domain.Recommendation, items map[uint64]domain.Item, factor float64) []domain.Recommendation {
	if factor <= 0 || len(recs) < 2 {
		return recs
	}

	out := make([]domain.Recommendation, len(recs))
	copy(out, recs)

	seenCategories := make(map[string]bool)
	seenCuisines := make(map[string]bool)

	for i := range out {
		it, ok := items[out[i].ItemID]
		if !ok {
			continue
		}

		novel := false
		if it.Category != "" && !seenCategories[it.Category] {
			novel = true
			seenCategories[it.Category] = true
		}
		if it.CuisineType != "" && !seenCuisines[it.CuisineType] {
			novel = true
			seenCuisines[it.CuisineType] = true
		}

		if novel {
			out[i].Score *= 1 + factor
		} else {
			out[i].Score *= 1 - factor
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	return out
}
