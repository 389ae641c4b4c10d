package recommend

import (
	"context"
	"errors"
	"testing"

	"mealmind/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogItems() []domain.Item {
	return []domain.Item{
		{ID: 1, Name: "Tonkotsu Ramen", Category: "ramen", Price: 12, PopularityScore: 80, AvailabilityScore: 1},
		{ID: 2, Name: "Beef Taco", Category: "taco", Price: 8, PopularityScore: 40, AvailabilityScore: 0.9},
		{ID: 3, Name: "Minestrone", Category: "soup", Price: 9, PopularityScore: 20, AvailabilityScore: 0.8},
		{ID: 4, Name: "Sold Out Bowl", Category: "bowl", Price: 10, PopularityScore: 100, AvailabilityScore: 0},
	}
}

func TestPopularityScorer_NormalizesAndFilters(t *testing.T) {
	s := NewPopularityScorer()

	recs, err := s.Score(context.Background(), &domain.UserProfile{UserID: 1}, catalogItems(), map[uint64]bool{2: true}, 10)
	require.NoError(t, err)

	// item 4 is unavailable, item 2 excluded
	require.Len(t, recs, 2)
	assert.Equal(t, uint64(1), recs[0].ItemID)
	assert.InDelta(t, 0.8, recs[0].Score, 1e-9, "normalized against the catalog max of 100")
	assert.Equal(t, uint64(3), recs[1].ItemID)
	assert.InDelta(t, 0.2, recs[1].Score, 1e-9)

	for _, r := range recs {
		assert.Equal(t, domain.AlgorithmPopularity, r.Algorithm)
		assert.InDelta(t, 0.4, r.Confidence, 1e-9)
	}
}

func TestPopularityScorer_Limit(t *testing.T) {
	s := NewPopularityScorer()

	recs, err := s.Score(context.Background(), &domain.UserProfile{}, catalogItems(), nil, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, uint64(1), recs[0].ItemID)
}

func TestPopularityScorer_ZeroPopularityCatalog(t *testing.T) {
	s := NewPopularityScorer()
	items := []domain.Item{
		{ID: 1, AvailabilityScore: 1},
		{ID: 2, AvailabilityScore: 1},
	}

	recs, err := s.Score(context.Background(), &domain.UserProfile{}, items, nil, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Zero(t, r.Score)
	}
}

func TestCollaborativeScorer_ColdStart(t *testing.T) {
	// a user with no history has no collaborative signal; the scorer must
	// bail out before touching the engine
	s := NewCollaborativeScorer(nil, nil, "")

	recs, err := s.Score(context.Background(), &domain.UserProfile{UserID: 9}, catalogItems(), nil, 10)
	require.NoError(t, err)
	assert.Nil(t, recs)
}

type fakeNeuralModel struct {
	preds map[uint64]float64
	err   error

	seenItems []uint64
}

func (m *fakeNeuralModel) Predict(ctx context.Context, userID uint, itemIDs []uint64) (map[uint64]float64, error) {
	m.seenItems = itemIDs
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[uint64]float64, len(itemIDs))
	for _, id := range itemIDs {
		if p, ok := m.preds[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func TestNeuralScorer_NoModel(t *testing.T) {
	s := NewNeuralScorer(nil)

	_, err := s.Score(context.Background(), &domain.UserProfile{}, catalogItems(), nil, 10)
	assert.Error(t, err)
}

func TestNeuralScorer_RanksByPrediction(t *testing.T) {
	model := &fakeNeuralModel{preds: map[uint64]float64{1: 0.3, 2: 0.9, 3: 0.5}}
	s := NewNeuralScorer(model)

	recs, err := s.Score(context.Background(), &domain.UserProfile{UserID: 1}, catalogItems(), map[uint64]bool{3: true}, 10)
	require.NoError(t, err)

	// unavailable item 4 and excluded item 3 never reach the model
	assert.ElementsMatch(t, []uint64{1, 2}, model.seenItems)

	require.NotEmpty(t, recs)
	assert.Equal(t, uint64(2), recs[0].ItemID)
	for _, r := range recs {
		assert.Equal(t, domain.AlgorithmNeural, r.Algorithm)
	}
}

func TestNeuralScorer_ModelError(t *testing.T) {
	s := NewNeuralScorer(&fakeNeuralModel{err: errors.New("model offline")})

	_, err := s.Score(context.Background(), &domain.UserProfile{}, catalogItems(), nil, 10)
	assert.Error(t, err)
}
