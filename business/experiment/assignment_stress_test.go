//go:build !integration

package experiment

import (
	"fmt"
	"math"
	"testing"

	"mealmind/domain"
)

// scenario params
const (
	stressNumUsers       = 50000
	stressNumExperiments = 8
)

var stressSplits = []float64{0.05, 0.1, 0.25, 0.5}

func TestAssignmentHash_BucketSkewAcrossExperiments(t *testing.T) {

	// --- 1) per-split bucket proportions ---

	worstSkew := 0.0

	for _, split := range stressSplits {
		for e := 0; e < stressNumExperiments; e++ {
			expID := fmt.Sprintf("stress-exp-%d", e)

			counts := map[string]int{}
			for u := 1; u <= stressNumUsers; u++ {
				counts[VariantFor(uint(u), expID, split)]++
			}

			treatment := float64(counts[domain.VariantTreatment]) / stressNumUsers
			control := float64(counts[domain.VariantControl]) / stressNumUsers

			skew := math.Max(math.Abs(treatment-split), math.Abs(control-split))
			if skew > worstSkew {
				worstSkew = skew
			}

			if skew > 0.02 {
				t.Errorf("split=%.2f exp=%s treatment=%.4f control=%.4f skew=%.4f",
					split, expID, treatment, control, skew)
			}
		}
	}

	t.Logf("[BUCKETS] users=%d experiments=%d worstSkew=%.4f",
		stressNumUsers, len(stressSplits)*stressNumExperiments, worstSkew)

	// --- 2) cross-experiment independence ---

	// at split 0.5 every user lands in treatment or control; if the hash
	// ignored the experiment id the overlap between two experiments would
	// be 100% instead of ~50%

	same := 0
	for u := 1; u <= stressNumUsers; u++ {
		a := VariantFor(uint(u), "stress-exp-a", 0.5)
		b := VariantFor(uint(u), "stress-exp-b", 0.5)
		if a == b {
			same++
		}
	}

	overlap := float64(same) / stressNumUsers
	t.Logf("[INDEPENDENCE] overlap=%.4f", overlap)

	if overlap > 0.55 || overlap < 0.45 {
		t.Errorf("cross-experiment overlap %.4f, want ~0.5", overlap)
	}
}
