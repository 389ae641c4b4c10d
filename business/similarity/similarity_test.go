package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity_SymmetricAcrossMethods(t *testing.T) {
	a := map[uint64]float64{1: 5, 2: 3, 3: 4, 4: 1}
	b := map[uint64]float64{1: 4, 2: 2, 3: 5, 9: 3}

	for _, method := range []string{MethodCosine, MethodPearson, MethodJaccard} {
		ab := Similarity(a, b, method, 2)
		ba := Similarity(b, a, method, 2)
		assert.InDelta(t, ab, ba, 1e-12, "method %s must be symmetric", method)
	}
}

func TestSimilarity_BelowMinCommonIsZero(t *testing.T) {
	a := map[uint64]float64{1: 5, 2: 3}
	b := map[uint64]float64{2: 4, 9: 1}

	// only item 2 overlaps
	assert.Zero(t, Similarity(a, b, MethodCosine, 2))
	assert.Zero(t, Similarity(a, b, MethodPearson, 2))
	assert.Zero(t, Similarity(a, b, MethodJaccard, 2))
}

func TestCosine_IdenticalUsers(t *testing.T) {
	a := map[uint64]float64{1: 5, 2: 3, 3: 4}

	assert.InDelta(t, 1.0, Similarity(a, a, MethodCosine, 2), 1e-12)
}

func TestCosine_KnownValue(t *testing.T) {
	a := map[uint64]float64{1: 1, 2: 0, 3: 7}
	b := map[uint64]float64{1: 0, 2: 1, 3: 9}

	// common items are 1, 2, 3: dot=63, ||a||=sqrt(50), ||b||=sqrt(82)
	want := 63 / (math.Sqrt(50) * math.Sqrt(82))
	assert.InDelta(t, want, Similarity(a, b, MethodCosine, 2), 1e-12)
}

func TestPearson_PerfectAntiCorrelation(t *testing.T) {
	a := map[uint64]float64{1: 1, 2: 2, 3: 3}
	b := map[uint64]float64{1: 3, 2: 2, 3: 1}

	assert.InDelta(t, -1.0, Similarity(a, b, MethodPearson, 2), 1e-12)
}

func TestPearson_ZeroVarianceIsZero(t *testing.T) {
	a := map[uint64]float64{1: 3, 2: 3, 3: 3}
	b := map[uint64]float64{1: 1, 2: 4, 3: 5}

	assert.Zero(t, Similarity(a, b, MethodPearson, 2))
}

func TestJaccard_KnownValue(t *testing.T) {
	a := map[uint64]float64{1: 5, 2: 1, 3: 2}
	b := map[uint64]float64{2: 4, 3: 3, 4: 1, 5: 2}

	// intersection 2, union 5
	assert.InDelta(t, 0.4, Similarity(a, b, MethodJaccard, 2), 1e-12)
}

func TestSimilarity_RangeBounds(t *testing.T) {
	a := map[uint64]float64{1: 2, 2: 5, 3: 1, 4: 4}
	b := map[uint64]float64{1: 5, 2: 1, 3: 4, 4: 2}

	cos := Similarity(a, b, MethodCosine, 2)
	assert.GreaterOrEqual(t, cos, -1.0)
	assert.LessOrEqual(t, cos, 1.0)

	p := Similarity(a, b, MethodPearson, 2)
	assert.GreaterOrEqual(t, p, -1.0)
	assert.LessOrEqual(t, p, 1.0)

	j := Similarity(a, b, MethodJaccard, 2)
	assert.GreaterOrEqual(t, j, 0.0)
	assert.LessOrEqual(t, j, 1.0)
}
