package recommend

import (
	"context"
	"fmt"
	"math"

	"mealmind/business/similarity"
)

// FactorNeuralModel serves the offline-trained factorization model behind
// the NeuralModel contract. Raw dot products are squashed to (0, 1) so they
// rank alongside the other scorers' outputs.
type FactorNeuralModel struct {
	store similarity.ModelStore
}

func NewFactorNeuralModel(store similarity.ModelStore) *FactorNeuralModel {
	return &FactorNeuralModel{store: store}
}

func (m *FactorNeuralModel) Predict(ctx context.Context, userID uint, itemIDs []uint64) (map[uint64]float64, error) {
	model, err := m.store.GetModel(ctx, similarity.FactorModelName)
	if err != nil {
		return nil, fmt.Errorf("load factor model: %w", err)
	}
	if model == nil {
		return nil, fmt.Errorf("no factor model has been trained yet")
	}

	preds := make(map[uint64]float64, len(itemIDs))
	for _, itemID := range itemIDs {
		raw := model.Predict(userID, itemID)
		if raw == 0 {
			continue // unknown user or item
		}
		preds[itemID] = 1 / (1 + math.Exp(-raw))
	}

	return preds, nil
}
