package profile

import (
	"context"
	"testing"
	"time"

	"mealmind/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInteractionRepo struct {
	rows []domain.Interaction
}

func (r *fakeInteractionRepo) FindByUser(ctx context.Context, userID uint) ([]domain.Interaction, error) {
	return r.rows, nil
}

type fakeItemRepo struct {
	items []domain.Item
}

func (r *fakeItemRepo) FindByIDs(ctx context.Context, ids []uint64) ([]domain.Item, error) {
	return r.items, nil
}

func newTestBuilder(rows []domain.Interaction, items []domain.Item) *Builder {
	return NewBuilder(&fakeInteractionRepo{rows: rows}, &fakeItemRepo{items: items}, nil, DefaultConfig())
}

func TestImplicitRating_OrderBeatsView(t *testing.T) {
	b := newTestBuilder(nil, nil)

	view := b.ImplicitRating(domain.Interaction{EventType: domain.InteractionView})
	order := b.ImplicitRating(domain.Interaction{EventType: domain.InteractionOrder})

	assert.InDelta(t, 0.3, view, 1e-9)
	assert.InDelta(t, 2.5, order, 1e-9)
	assert.Greater(t, order, view)
}

func TestImplicitRating_DurationBonusIsCapped(t *testing.T) {
	b := newTestBuilder(nil, nil)

	short := b.ImplicitRating(domain.Interaction{EventType: domain.InteractionView, Duration: 60})
	long := b.ImplicitRating(domain.Interaction{EventType: domain.InteractionView, Duration: 3600})

	assert.InDelta(t, 0.3+0.25, short, 1e-9)
	assert.InDelta(t, 0.3+1.0, long, 1e-9, "one hour of dwell still only earns the cap")
}

func TestImplicitRating_ExplicitRatingPassesThrough(t *testing.T) {
	b := newTestBuilder(nil, nil)

	assert.InDelta(t, 4.5, b.ImplicitRating(domain.Interaction{EventType: domain.InteractionRate, Value: 4.5}), 1e-9)
	assert.InDelta(t, 5.0, b.ImplicitRating(domain.Interaction{EventType: domain.InteractionRate, Value: 11}), 1e-9)
	assert.Zero(t, b.ImplicitRating(domain.Interaction{EventType: domain.InteractionRate, Value: -2}))
}

func TestImplicitRating_UnknownEventIsZero(t *testing.T) {
	b := newTestBuilder(nil, nil)

	assert.Zero(t, b.ImplicitRating(domain.Interaction{EventType: "teleport"}))
}

func TestRatings_StrongestSignalPerItemWins(t *testing.T) {
	rows := []domain.Interaction{
		{ItemID: 10, EventType: domain.InteractionView},
		{ItemID: 10, EventType: domain.InteractionOrder},
		{ItemID: 10, EventType: domain.InteractionClick},
	}
	b := newTestBuilder(rows, nil)

	ratings, err := b.Ratings(context.Background(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, ratings[10], 1e-9)
}

func TestBuild_NormalizesWeightMaps(t *testing.T) {
	now := time.Now()
	rows := []domain.Interaction{
		{ItemID: 1, EventType: domain.InteractionOrder, CreatedAt: now},
		{ItemID: 2, EventType: domain.InteractionOrder, CreatedAt: now},
		{ItemID: 3, EventType: domain.InteractionClick, CreatedAt: now.Add(-30 * 24 * time.Hour)},
	}
	items := []domain.Item{
		{ID: 1, Category: "pizza", CuisineType: "italian", Price: 10, DietaryTags: []string{"vegetarian"}},
		{ID: 2, Category: "pizza", CuisineType: "italian", Price: 14},
		{ID: 3, Category: "sushi", CuisineType: "japanese", Price: 30},
	}
	b := newTestBuilder(rows, items)

	p, err := b.Build(context.Background(), 1)
	require.NoError(t, err)

	var catSum float64
	for _, w := range p.CategoryWeights {
		catSum += w
	}
	assert.InDelta(t, 1.0, catSum, 1e-9)
	assert.Greater(t, p.CategoryWeights["pizza"], p.CategoryWeights["sushi"])

	assert.Equal(t, 3, p.TotalInteractions)
	assert.Equal(t, 2, p.RecentInteractions, "month-old click falls outside the recency window")
	assert.Equal(t, 3, p.UniqueItems)
	assert.Equal(t, 2, p.UniqueCategories)
}

func TestBuild_WeightedAveragePrice(t *testing.T) {
	rows := []domain.Interaction{
		{ItemID: 1, EventType: domain.InteractionOrder}, // weight 2.5
		{ItemID: 2, EventType: domain.InteractionView},  // weight 0.3
	}
	items := []domain.Item{
		{ID: 1, Category: "pizza", Price: 10},
		{ID: 2, Category: "sushi", Price: 38},
	}
	b := newTestBuilder(rows, items)

	p, err := b.Build(context.Background(), 1)
	require.NoError(t, err)

	want := (10*2.5 + 38*0.3) / (2.5 + 0.3)
	assert.InDelta(t, want, p.AvgPrice, 1e-9)
}

func TestBuild_ColdStartProfileIsEmptyButUsable(t *testing.T) {
	b := newTestBuilder(nil, nil)

	p, err := b.Build(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, uint(42), p.UserID)
	assert.Zero(t, p.TotalInteractions)
	assert.Empty(t, p.Ratings)
	assert.Empty(t, p.CategoryWeights)
}
