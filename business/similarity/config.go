package similarity

import "time"

type Config struct {
	// MinCommonItems is the floor below which two users are treated as
	// having no measurable similarity.
	MinCommonItems int

	MinSimilarity float64
	MaxNeighbors  int

	// Matrix factorization hyperparameters. Training runs a fixed number of
	// SGD epochs; there is deliberately no adaptive convergence check.
	FactorDim      int
	LearningRate   float64
	Regularization float64
	Epochs         int

	MatrixTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinCommonItems: 2,
		MinSimilarity:  0.1,
		MaxNeighbors:   20,

		FactorDim:      16,
		LearningRate:   0.01,
		Regularization: 0.02,
		Epochs:         30,

		MatrixTTL: 6 * time.Hour,
	}
}
