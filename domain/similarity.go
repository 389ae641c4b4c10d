package domain

// Similarity methods.
const (
	SimilarityCosine  = "cosine"
	SimilarityPearson = "pearson"
	SimilarityJaccard = "jaccard"
)

// SimilarityScore is a precomputed pairwise relation. It is symmetric:
// score(A,B) == score(B,A) for every method.
type SimilarityScore struct {
	IDA    uint    `json:"id_a"`
	IDB    uint    `json:"id_b"`
	Method string  `json:"method"`
	Score  float64 `json:"score"`
}

// Neighbor is one ranked entry from a neighbor search.
type Neighbor struct {
	UserID     uint    `json:"user_id"`
	Similarity float64 `json:"similarity"`
}
