package experiment

import "math"

// minSampleSize is the floor below which no p-value is reported. A test on
// fewer observations returns "insufficient sample" instead of a number that
// looks meaningful.
const minSampleSize = 30

const zCritical95 = 1.96

// ProportionTest is the outcome of one two-proportion z-test.
type ProportionTest struct {
	Metric        string  `json:"metric"`
	ControlRate   float64 `json:"control_rate"`
	TreatmentRate float64 `json:"treatment_rate"`
	ZScore        float64 `json:"z_score"`
	PValue        float64 `json:"p_value"`
	CILower       float64 `json:"ci_lower"`
	CIUpper       float64 `json:"ci_upper"`
	Significant   bool    `json:"significant"`
	Improved      bool    `json:"improved"` // treatment beats control
	Insufficient  bool    `json:"insufficient_sample"`
}

// twoProportionZTest compares success rates p1 (control) and p2 (treatment)
// with sample sizes n1, n2: pooled proportion, standard error, two-tailed
// p-value from Φ, and a 95% CI on the difference.
func twoProportionZTest(metric string, p1 float64, n1 int, p2 float64, n2 int) ProportionTest {
	result := ProportionTest{
		Metric:        metric,
		ControlRate:   p1,
		TreatmentRate: p2,
	}

	if n1 < minSampleSize || n2 < minSampleSize {
		result.Insufficient = true
		result.PValue = 1
		return result
	}

	fn1 := float64(n1)
	fn2 := float64(n2)

	pooled := (p1*fn1 + p2*fn2) / (fn1 + fn2)
	se := math.Sqrt(pooled * (1 - pooled) * (1/fn1 + 1/fn2))

	if se == 0 {
		// identical constant rates; nothing to detect
		result.PValue = 1
		result.CILower = 0
		result.CIUpper = 0
		return result
	}

	z := math.Abs(p2-p1) / se
	result.ZScore = z
	result.PValue = 2 * (1 - normalCDF(z))

	// CI on the difference uses the unpooled standard error
	seDiff := math.Sqrt(p1*(1-p1)/fn1 + p2*(1-p2)/fn2)
	diff := p2 - p1
	result.CILower = diff - zCritical95*seDiff
	result.CIUpper = diff + zCritical95*seDiff

	result.Significant = result.PValue < 0.05
	result.Improved = diff > 0

	return result
}

// normalCDF is Φ, the standard normal cumulative distribution function.
func normalCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}
