package similarity

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"mealmind/domain"
	"mealmind/pkg/logger"
)

// FactorModel holds latent factors of fixed dimension per user and item.
// Trained offline, scored online as a plain dot product.
type FactorModel struct {
	Dim         int                  `json:"dim"`
	UserFactors map[uint][]float64   `json:"user_factors"`
	ItemFactors map[uint64][]float64 `json:"item_factors"`
	TrainedAt   time.Time            `json:"trained_at"`
}

// Rating is one (user, item, value) training triplet.
type Rating struct {
	UserID uint
	ItemID uint64
	Value  float64
}

// Predict returns the model's estimated rating, or 0 when either side is
// unknown to the model (cold start).
func (m *FactorModel) Predict(userID uint, itemID uint64) float64 {
	uf, ok := m.UserFactors[userID]
	if !ok {
		return 0
	}
	vf, ok := m.ItemFactors[itemID]
	if !ok {
		return 0
	}

	var dot float64
	for i := 0; i < m.Dim && i < len(uf) && i < len(vf); i++ {
		dot += uf[i] * vf[i]
	}
	return dot
}

// TrainFactorModel fits latent factors by stochastic gradient descent with L2
// regularization over a fixed epoch count. There is no adaptive convergence
// check; the iteration budget is the whole stopping rule.
func TrainFactorModel(ratings []Rating, cfg Config, seed int64) *FactorModel {
	rng := rand.New(rand.NewSource(seed))

	model := &FactorModel{
		Dim:         cfg.FactorDim,
		UserFactors: make(map[uint][]float64),
		ItemFactors: make(map[uint64][]float64),
		TrainedAt:   time.Now(),
	}

	initVector := func() []float64 {
		v := make([]float64, cfg.FactorDim)
		for i := range v {
			v[i] = rng.Float64() * 0.1
		}
		return v
	}

	for _, r := range ratings {
		if _, ok := model.UserFactors[r.UserID]; !ok {
			model.UserFactors[r.UserID] = initVector()
		}
		if _, ok := model.ItemFactors[r.ItemID]; !ok {
			model.ItemFactors[r.ItemID] = initVector()
		}
	}

	lr := cfg.LearningRate
	reg := cfg.Regularization

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for _, r := range ratings {
			uf := model.UserFactors[r.UserID]
			vf := model.ItemFactors[r.ItemID]

			var pred float64
			for i := 0; i < cfg.FactorDim; i++ {
				pred += uf[i] * vf[i]
			}
			errTerm := r.Value - pred

			for i := 0; i < cfg.FactorDim; i++ {
				u := uf[i]
				v := vf[i]
				uf[i] = u + lr*(errTerm*v-reg*u)
				vf[i] = v + lr*(errTerm*u-reg*v)
			}
		}
	}

	return model
}

// ---- Offline training job ----

type ModelStore interface {
	GetModel(ctx context.Context, name string) (*FactorModel, error)
	SaveModel(ctx context.Context, name string, model *FactorModel) error
}

type TripletSource interface {
	AllUserIDs(ctx context.Context) ([]uint, error)
	Ratings(ctx context.Context, userID uint) (map[uint64]float64, error)
}

const FactorModelName = "mf"

// Trainer retrains the factor model from the full interaction history and
// publishes it in a single upsert, so readers never see a partial model.
type Trainer struct {
	source TripletSource
	store  ModelStore
	cfg    Config

	training atomic.Bool
}

func NewTrainer(source TripletSource, store ModelStore, cfg Config) *Trainer {
	return &Trainer{source: source, store: store, cfg: cfg}
}

// Train is self-mutually-exclusive: a trigger while a run is in progress is a
// silent no-op.
func (t *Trainer) Train(ctx context.Context) error {
	if !t.training.CompareAndSwap(false, true) {
		logger.Debug("factor model training already in progress, skipping")
		return nil
	}
	defer t.training.Store(false)

	userIDs, err := t.source.AllUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	var triplets []Rating
	for _, uid := range userIDs {
		ratings, err := t.source.Ratings(ctx, uid)
		if err != nil {
			logger.Warn("skipping user in training set", "user_id", uid, "error", err)
			continue
		}
		for itemID, v := range ratings {
			triplets = append(triplets, Rating{UserID: uid, ItemID: itemID, Value: v})
		}
	}

	if len(triplets) == 0 {
		logger.Info("no training data, factor model left untouched")
		return nil
	}

	started := time.Now()
	model := TrainFactorModel(triplets, t.cfg, time.Now().UnixNano())

	if err := t.store.SaveModel(ctx, FactorModelName, model); err != nil {
		return fmt.Errorf("save model: %w", err)
	}

	logger.Info("factor model trained",
		"triplets", len(triplets),
		"users", len(model.UserFactors),
		"items", len(model.ItemFactors),
		"took", time.Since(started).String(),
	)

	return nil
}

// RecommendFromModel scores candidate items for a user with the latest
// persisted model.
func (t *Trainer) RecommendFromModel(ctx context.Context, userID uint, candidates []uint64, excludeIDs map[uint64]bool, limit int) ([]domain.Recommendation, error) {
	model, err := t.store.GetModel(ctx, FactorModelName)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if model == nil {
		return nil, nil
	}

	recs := make([]domain.Recommendation, 0, len(candidates))
	for _, itemID := range candidates {
		if excludeIDs[itemID] {
			continue
		}
		score := model.Predict(userID, itemID)
		if score <= 0 {
			continue
		}
		recs = append(recs, domain.Recommendation{
			ItemID:      itemID,
			Score:       score,
			Confidence:  0.5,
			Algorithm:   domain.AlgorithmCollaborative,
			Sources:     []string{"matrix_factorization"},
			Explanation: "latent factor match",
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > limit {
		recs = recs[:limit]
	}

	return recs, nil
}
