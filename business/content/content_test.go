package content

import (
	"context"
	"testing"

	"mealmind/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() *domain.UserProfile {
	return &domain.UserProfile{
		UserID:            1,
		CategoryWeights:   map[string]float64{"pizza": 0.7, "sushi": 0.3},
		CuisineWeights:    map[string]float64{"italian": 0.7, "japanese": 0.3},
		DietaryTagWeights: map[string]float64{"vegetarian": 1.0},
		AvgPrice:          12,
		AvgSpiceLevel:     1,
		TextCorpus:        "margherita pizza tomato mozzarella basil",
		TotalInteractions: 10,
	}
}

func item(id uint64, category, cuisine string, price float64) domain.Item {
	return domain.Item{
		ID:                id,
		Name:              category,
		Category:          category,
		CuisineType:       cuisine,
		Price:             price,
		AvailabilityScore: 1,
	}
}

func TestScoreItem_BoundedToUnitInterval(t *testing.T) {
	p := NewProfiler(DefaultConfig())
	profile := testProfile()

	items := []domain.Item{
		item(1, "pizza", "italian", 12),
		item(2, "sushi", "japanese", 40),
		item(3, "burger", "american", 8),
		{ID: 4, Category: "pizza", Price: 12, SpiceLevel: 5, PopularityScore: 3, RatingAverage: 9},
	}

	for _, it := range items {
		score := p.ScoreItem(it, profile)
		assert.GreaterOrEqual(t, score, 0.0, "item %d", it.ID)
		assert.LessOrEqual(t, score, 1.0, "item %d", it.ID)
	}
}

func TestScoreItem_PrefersProfileMatch(t *testing.T) {
	p := NewProfiler(DefaultConfig())
	profile := testProfile()

	match := p.ScoreItem(item(1, "pizza", "italian", 12), profile)
	mismatch := p.ScoreItem(item(2, "burger", "american", 45), profile)

	assert.Greater(t, match, mismatch)
}

func TestScoreItem_EmptyProfileScoresZeroForBlankItem(t *testing.T) {
	p := NewProfiler(DefaultConfig())
	profile := &domain.UserProfile{UserID: 2}

	assert.Zero(t, p.ScoreItem(domain.Item{ID: 1, SpiceLevel: 5}, profile))
}

func TestScoreItems_DropsUnavailableExcludedAndWeak(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TextEnabled = false
	p := NewProfiler(cfg)
	profile := testProfile()

	items := []domain.Item{
		item(1, "pizza", "italian", 12),
		{ID: 2, Category: "pizza", CuisineType: "italian", Price: 12}, // availability 0
		item(3, "pizza", "italian", 12),                               // excluded below
	}

	recs, err := p.ScoreItems(context.Background(), profile, items, map[uint64]bool{3: true})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, uint64(1), recs[0].ItemID)
	assert.Equal(t, domain.AlgorithmContentBased, recs[0].Algorithm)
	assert.InDelta(t, 0.5, recs[0].Confidence, 1e-9, "10 of 20 interactions")
}

func TestScoreItems_TextSimilarityBoostsMatchingDescription(t *testing.T) {
	p := NewProfiler(DefaultConfig())
	profile := testProfile()

	matching := item(1, "pizza", "italian", 12)
	matching.Description = "wood fired margherita with tomato mozzarella basil"
	unrelated := item(2, "pizza", "italian", 12)
	unrelated.Description = "crispy pepperoni double cheese"

	recs, err := p.ScoreItems(context.Background(), profile, []domain.Item{matching, unrelated}, nil)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, uint64(1), recs[0].ItemID, "text overlap must rank the matching item first")
}

func TestTokenize_StripsStopwordsAndShortTokens(t *testing.T) {
	tokens := tokenize("The spicy, wood-fired pizza is served with a side of basil!")

	assert.Contains(t, tokens, "spicy")
	assert.Contains(t, tokens, "pizza")
	assert.Contains(t, tokens, "basil")
	assert.NotContains(t, tokens, "the")
	assert.NotContains(t, tokens, "is")
	assert.NotContains(t, tokens, "of")
	assert.NotContains(t, tokens, "served")
}

func TestTfidfVectors_CommonTermWeighsLessThanRareTerm(t *testing.T) {
	docs := []string{
		"chicken curry rice",
		"chicken noodle soup",
		"chicken tikka masala",
	}

	vectors := tfidfVectors(docs)
	require.Len(t, vectors, 3)

	// "chicken" appears in every doc, "curry" only in the first
	assert.Less(t, vectors[0]["chicken"], vectors[0]["curry"])
}

func TestCosineSparse_DisjointVocabularyIsZero(t *testing.T) {
	vectors := tfidfVectors([]string{"sushi salmon rice", "burger cheese bacon"})

	assert.Zero(t, cosineSparse(vectors[0], vectors[1]))
}

func TestVectorCosine_HandlesLengthMismatch(t *testing.T) {
	sim := vectorCosine([]float64{1, 0, 0.5}, []float64{1, 0})

	assert.GreaterOrEqual(t, sim, 0.0)
	assert.LessOrEqual(t, sim, 1.0)
}
