package hybrid

import (
	"context"
	"testing"
	"time"

	"mealmind/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id uint64, score float64, algorithm string) domain.Recommendation {
	return domain.Recommendation{
		ItemID:    id,
		Score:     score,
		Algorithm: algorithm,
		Sources:   []string{algorithm},
	}
}

func TestWeighted_CombinesOverlappingItems(t *testing.T) {
	c := NewCombiner(DefaultConfig())

	sources := Sources{
		Collaborative: []domain.Recommendation{rec(1, 0.8, domain.AlgorithmCollaborative)},
		Content:       []domain.Recommendation{rec(1, 0.5, domain.AlgorithmContentBased)},
	}

	out := c.Combine(StrategyWeighted, sources, UserStats{}, 10)
	require.Len(t, out, 1)

	// 0.8*0.6 + 0.5*0.4
	assert.InDelta(t, 0.68, out[0].Score, 1e-9)
	assert.Equal(t, domain.AlgorithmHybrid, out[0].Algorithm)
	assert.ElementsMatch(t, []string{domain.AlgorithmCollaborative, domain.AlgorithmContentBased}, out[0].Sources)
}

func TestWeighted_SingleSourceItemKeepsOwnWeight(t *testing.T) {
	c := NewCombiner(DefaultConfig())

	sources := Sources{
		Collaborative: []domain.Recommendation{rec(1, 1.0, domain.AlgorithmCollaborative)},
		Content:       []domain.Recommendation{rec(2, 1.0, domain.AlgorithmContentBased)},
	}

	out := c.Combine(StrategyWeighted, sources, UserStats{}, 10)
	require.Len(t, out, 2)

	assert.Equal(t, uint64(1), out[0].ItemID, "collaborative weight is the larger")
	assert.InDelta(t, 0.6, out[0].Score, 1e-9)
	assert.InDelta(t, 0.4, out[1].Score, 1e-9)
}

func TestSwitching_NoCollaborativeFallsToContent(t *testing.T) {
	c := NewCombiner(DefaultConfig())

	sources := Sources{
		Content:    []domain.Recommendation{rec(2, 0.7, domain.AlgorithmContentBased)},
		Popularity: []domain.Recommendation{rec(3, 0.5, domain.AlgorithmPopularity)},
	}

	out := c.Combine(StrategySwitching, sources, UserStats{TotalInteractions: 50}, 10)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(2), out[0].ItemID)
	assert.Equal(t, domain.AlgorithmContentBased, out[0].Algorithm)
}

func TestSwitching_SparseHistoryFallsToPopularity(t *testing.T) {
	c := NewCombiner(DefaultConfig())

	sources := Sources{
		Collaborative: []domain.Recommendation{rec(1, 0.9, domain.AlgorithmCollaborative)},
		Popularity:    []domain.Recommendation{rec(3, 0.5, domain.AlgorithmPopularity)},
	}

	out := c.Combine(StrategySwitching, sources, UserStats{TotalInteractions: 2}, 10)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(3), out[0].ItemID)
}

func TestSwitching_EnoughHistoryUsesCollaborative(t *testing.T) {
	c := NewCombiner(DefaultConfig())

	sources := Sources{
		Collaborative: []domain.Recommendation{rec(1, 0.9, domain.AlgorithmCollaborative)},
		Popularity:    []domain.Recommendation{rec(3, 0.5, domain.AlgorithmPopularity)},
	}

	out := c.Combine(StrategySwitching, sources, UserStats{TotalInteractions: 20}, 10)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(1), out[0].ItemID)
}

func TestCascade_PrimaryShareAndDeduplication(t *testing.T) {
	c := NewCombiner(DefaultConfig())

	sources := Sources{
		Collaborative: []domain.Recommendation{
			rec(1, 0.9, domain.AlgorithmCollaborative),
			rec(2, 0.8, domain.AlgorithmCollaborative),
			rec(3, 0.7, domain.AlgorithmCollaborative),
			rec(4, 0.6, domain.AlgorithmCollaborative),
			rec(5, 0.5, domain.AlgorithmCollaborative),
			rec(6, 0.4, domain.AlgorithmCollaborative),
			rec(7, 0.3, domain.AlgorithmCollaborative),
		},
		Content: []domain.Recommendation{
			rec(1, 0.95, domain.AlgorithmContentBased), // duplicate of primary
			rec(8, 0.9, domain.AlgorithmContentBased),
			rec(9, 0.85, domain.AlgorithmContentBased),
		},
		Popularity: []domain.Recommendation{
			rec(10, 0.2, domain.AlgorithmPopularity),
			rec(11, 0.1, domain.AlgorithmPopularity),
		},
	}

	out := c.Combine(StrategyCascade, sources, UserStats{}, 10)
	require.Len(t, out, 10)

	// primary fills ceil(10*0.6)=6 slots, then content, then popularity
	for i, want := range []uint64{1, 2, 3, 4, 5, 6, 8, 9, 10, 11} {
		assert.Equal(t, want, out[i].ItemID, "position %d", i)
	}

	// the synthetic score sequence preserves cascade order downstream
	for i := 1; i < len(out); i++ {
		assert.Less(t, out[i].Score, out[i-1].Score)
	}
}

func TestAdaptive_NewUserIgnoresCollaborative(t *testing.T) {
	c := NewCombiner(DefaultConfig())

	sources := Sources{
		Collaborative: []domain.Recommendation{rec(1, 1.0, domain.AlgorithmCollaborative)},
		Popularity:    []domain.Recommendation{rec(2, 0.5, domain.AlgorithmPopularity)},
	}

	out := c.Combine(StrategyAdaptive, sources, UserStats{UniqueItems: 1}, 10)
	require.Len(t, out, 1, "new user class gives collaborative weight 0")
	assert.Equal(t, uint64(2), out[0].ItemID)
	assert.Contains(t, out[0].Explanation, "new user blend")
}

func TestClassify(t *testing.T) {
	c := NewCombiner(DefaultConfig())

	assert.Equal(t, ClassNew, c.Classify(UserStats{UniqueItems: 2}))
	assert.Equal(t, ClassExplorer, c.Classify(UserStats{TotalInteractions: 40, RecentInteractions: 4, UniqueItems: 20, UniqueCategories: 15}))
	assert.Equal(t, ClassActive, c.Classify(UserStats{TotalInteractions: 40, RecentInteractions: 30, UniqueItems: 20, UniqueCategories: 5}))
	assert.Equal(t, ClassFocused, c.Classify(UserStats{TotalInteractions: 40, RecentInteractions: 4, UniqueItems: 20, UniqueCategories: 2}))
	assert.Equal(t, ClassCasual, c.Classify(UserStats{TotalInteractions: 40, RecentInteractions: 4, UniqueItems: 20, UniqueCategories: 8}))
}

func TestDiversify_SpecScenario(t *testing.T) {
	items := map[uint64]domain.Item{
		1: {ID: 1, Category: "pizza"},
		2: {ID: 2, Category: "pizza"},
		3: {ID: 3, Category: "sushi"},
	}
	recs := []domain.Recommendation{
		{ItemID: 1, Score: 0.9},
		{ItemID: 2, Score: 0.85},
		{ItemID: 3, Score: 0.8},
	}

	out := Diversify(recs, items, 0.2)
	require.Len(t, out, 3)

	assert.Equal(t, uint64(1), out[0].ItemID)
	assert.InDelta(t, 1.08, out[0].Score, 1e-9)
	assert.Equal(t, uint64(3), out[1].ItemID, "novel category overtakes the pizza repeat")
	assert.InDelta(t, 0.96, out[1].Score, 1e-9)
	assert.Equal(t, uint64(2), out[2].ItemID)
	assert.InDelta(t, 0.68, out[2].Score, 1e-9)
}

func TestDiversify_ZeroFactorIsIdentity(t *testing.T) {
	recs := []domain.Recommendation{{ItemID: 1, Score: 0.9}, {ItemID: 2, Score: 0.8}}

	out := Diversify(recs, nil, 0)
	assert.Equal(t, recs, out)
}

func TestPostProcess_AvailabilityFloorAndBudget(t *testing.T) {
	c := NewCombiner(DefaultConfig())

	items := map[uint64]domain.Item{
		1: {ID: 1, Category: "pizza", Price: 12, AvailabilityScore: 1},
		2: {ID: 2, Category: "sushi", Price: 45, AvailabilityScore: 1},
		3: {ID: 3, Category: "grill", Price: 12, AvailabilityScore: 0.4},
	}
	recs := []domain.Recommendation{
		{ItemID: 1, Score: 0.5},
		{ItemID: 2, Score: 0.5},
		{ItemID: 3, Score: 0.9},
	}

	reqCtx := RequestContext{
		Now:       time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC), // lunch
		BudgetMin: 5,
		BudgetMax: 20,
	}

	out := c.PostProcess(context.Background(), recs, items, reqCtx, StaticWeatherProvider{}, StaticDemandProvider{}, 0)
	require.Len(t, out, 2, "weakly available item is filtered")

	assert.Equal(t, uint64(1), out[0].ItemID, "in-budget lunch pizza gets boosted")
	for _, r := range out {
		assert.NotEqual(t, uint64(3), r.ItemID)
	}
}

func TestPostProcess_PromotedItemGetsBoost(t *testing.T) {
	c := NewCombiner(DefaultConfig())

	items := map[uint64]domain.Item{
		1: {ID: 1, Category: "curry", AvailabilityScore: 1},
		2: {ID: 2, Category: "bowl", AvailabilityScore: 1, IsPromoted: true},
	}
	recs := []domain.Recommendation{
		{ItemID: 1, Score: 0.5},
		{ItemID: 2, Score: 0.5},
	}

	reqCtx := RequestContext{Now: time.Date(2026, time.March, 3, 4, 0, 0, 0, time.UTC)} // snack period, no category boost

	out := c.PostProcess(context.Background(), recs, items, reqCtx, nil, nil, 0)
	require.Len(t, out, 2)
	assert.Equal(t, uint64(2), out[0].ItemID)
	assert.InDelta(t, 0.5*1.15, out[0].Score, 1e-9)
}
