package similarity

import "math"

// Similarity computes the pairwise similarity of two rating maps, restricted
// to the intersection of items both sides have interacted with. Returns 0
// when fewer than minCommon items overlap. All methods are symmetric; cosine
// and pearson land in [-1,1], jaccard in [0,1].
func Similarity(a, b map[uint64]float64, method string, minCommon int) float64 {
	switch method {
	case MethodJaccard:
		return jaccard(a, b, minCommon)
	case MethodPearson:
		return pearson(a, b, minCommon)
	case MethodCosine:
		fallthrough
	default:
		return cosine(a, b, minCommon)
	}
}

const (
	MethodCosine  = "cosine"
	MethodPearson = "pearson"
	MethodJaccard = "jaccard"
)

func commonItems(a, b map[uint64]float64) []uint64 {
	// iterate the smaller map
	if len(b) < len(a) {
		a, b = b, a
	}
	common := make([]uint64, 0)
	for id := range a {
		if _, ok := b[id]; ok {
			common = append(common, id)
		}
	}
	return common
}

// cosine = dot / (||a|| * ||b||) over the common items.
func cosine(a, b map[uint64]float64, minCommon int) float64 {
	common := commonItems(a, b)
	if len(common) < minCommon {
		return 0
	}

	var dot, normA, normB float64
	for _, id := range common {
		dot += a[id] * b[id]
		normA += a[id] * a[id]
		normB += b[id] * b[id]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// pearson = covariance / sqrt(varA * varB) on mean-centered common ratings.
func pearson(a, b map[uint64]float64, minCommon int) float64 {
	common := commonItems(a, b)
	if len(common) < minCommon {
		return 0
	}

	n := float64(len(common))
	var meanA, meanB float64
	for _, id := range common {
		meanA += a[id]
		meanB += b[id]
	}
	meanA /= n
	meanB /= n

	var cov, varA, varB float64
	for _, id := range common {
		da := a[id] - meanA
		db := b[id] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}

	return cov / math.Sqrt(varA*varB)
}

// jaccard = |A ∩ B| / |A ∪ B| on binary item presence.
func jaccard(a, b map[uint64]float64, minCommon int) float64 {
	common := commonItems(a, b)
	if len(common) < minCommon {
		return 0
	}

	union := len(a) + len(b) - len(common)
	if union == 0 {
		return 0
	}

	return float64(len(common)) / float64(union)
}
