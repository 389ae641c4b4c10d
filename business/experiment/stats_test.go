package experiment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTwoProportionZTest_ClearDifference(t *testing.T) {
	// 10% vs 20% on large samples is unambiguous
	result := twoProportionZTest(MetricCTR, 0.10, 5000, 0.20, 5000)

	assert.False(t, result.Insufficient)
	assert.True(t, result.Significant)
	assert.True(t, result.Improved)
	assert.Less(t, result.PValue, 0.001)
	assert.Greater(t, result.CILower, 0.0, "CI on the difference excludes zero")
}

func TestTwoProportionZTest_NoDifference(t *testing.T) {
	result := twoProportionZTest(MetricCTR, 0.15, 1000, 0.15, 1000)

	assert.False(t, result.Significant)
	assert.InDelta(t, 1.0, result.PValue, 1e-9)
	assert.Zero(t, result.ZScore)
}

func TestTwoProportionZTest_InsufficientSample(t *testing.T) {
	result := twoProportionZTest(MetricCTR, 0.0, 10, 1.0, 10)

	assert.True(t, result.Insufficient)
	assert.False(t, result.Significant)
	assert.InDelta(t, 1.0, result.PValue, 1e-9, "no p-value is pretended on tiny samples")
}

func TestTwoProportionZTest_DegenerateRates(t *testing.T) {
	// both arms at 0%: pooled variance collapses
	zero := twoProportionZTest(MetricConversion, 0, 100, 0, 100)
	assert.InDelta(t, 1.0, zero.PValue, 1e-9)
	assert.False(t, zero.Significant)

	// both arms at 100%
	one := twoProportionZTest(MetricConversion, 1, 100, 1, 100)
	assert.InDelta(t, 1.0, one.PValue, 1e-9)
}

func TestTwoProportionZTest_ControlWinsDirection(t *testing.T) {
	result := twoProportionZTest(MetricCTR, 0.25, 4000, 0.15, 4000)

	assert.True(t, result.Significant)
	assert.False(t, result.Improved)
	assert.Less(t, result.CIUpper, 0.0)
}

func TestNormalCDF_KnownValues(t *testing.T) {
	assert.InDelta(t, 0.5, normalCDF(0), 1e-9)
	assert.InDelta(t, 0.975, normalCDF(1.96), 1e-3)
	assert.InDelta(t, 0.0228, normalCDF(-2), 1e-3)
	assert.InDelta(t, 1.0, normalCDF(8), 1e-9)
}

func TestTwoProportionZTest_PValueBounds(t *testing.T) {
	for _, tc := range []struct{ p1, p2 float64 }{
		{0.1, 0.1}, {0.1, 0.9}, {0.5, 0.55}, {0.01, 0.02},
	} {
		result := twoProportionZTest(MetricCTR, tc.p1, 500, tc.p2, 500)
		assert.GreaterOrEqual(t, result.PValue, 0.0)
		assert.LessOrEqual(t, result.PValue, 1.0)
		assert.False(t, math.IsNaN(result.PValue))
	}
}

func TestDecide_StrictMajority(t *testing.T) {
	sig := func(improved bool) ProportionTest {
		return ProportionTest{Significant: true, Improved: improved}
	}

	assert.Equal(t, DecisionInconclusive, decide(nil))
	assert.Equal(t, DecisionInconclusive, decide([]ProportionTest{{Insufficient: true}}))
	assert.Equal(t, DecisionTreatmentWins, decide([]ProportionTest{sig(true)}))
	assert.Equal(t, DecisionControlWins, decide([]ProportionTest{sig(false)}))
	assert.Equal(t, DecisionControlWins, decide([]ProportionTest{sig(true), sig(false)}), "a tie is not a strict majority")
	assert.Equal(t, DecisionTreatmentWins, decide([]ProportionTest{sig(true), sig(true), sig(false)}))
}
