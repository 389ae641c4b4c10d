package experiment

import (
	"context"
	"fmt"

	"mealmind/domain"
)

// Target metrics an experiment can be judged on.
const (
	MetricCTR        = "ctr"
	MetricConversion = "conversion_rate"
	MetricEngagement = "engagement_rate"
)

// Decisions.
const (
	DecisionInconclusive  = "inconclusive"
	DecisionTreatmentWins = "treatment_wins"
	DecisionControlWins   = "control_wins"
)

// VariantStats summarizes one arm of the experiment.
type VariantStats struct {
	SampleSize     int     `json:"sample_size"` // distinct users
	Impressions    int     `json:"impressions"`
	Clicks         int     `json:"clicks"`
	Purchases      int     `json:"purchases"`
	ActiveUsers    int     `json:"active_users"` // users with a click or purchase
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate"`
	EngagementRate float64 `json:"engagement_rate"`
}

// Analysis is the statistical readout of an experiment.
type Analysis struct {
	ExperimentID string           `json:"experiment_id"`
	Control      VariantStats     `json:"control"`
	Treatment    VariantStats     `json:"treatment"`
	Tests        []ProportionTest `json:"significance"`
	Decision     string           `json:"decision"`
}

// Analyze computes per-variant rates from the experiment's tagged
// interaction log and runs the two-proportion z-test for each target
// metric. Undersized samples produce "insufficient sample" entries instead
// of p-values; the decision follows the strict-majority rule over the
// significant metrics.
func (m *Manager) Analyze(ctx context.Context, experimentID string) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	exp, err := m.experiments.FindByID(ctx, experimentID)
	if err != nil {
		return nil, err
	}

	rows, err := m.interactions.FindByExperiment(ctx, experimentID)
	if err != nil {
		return nil, fmt.Errorf("load experiment interactions: %w", err)
	}

	control := summarize(rows, domain.VariantControl)
	treatment := summarize(rows, domain.VariantTreatment)

	analysis := &Analysis{
		ExperimentID: experimentID,
		Control:      control,
		Treatment:    treatment,
	}

	for _, metric := range exp.TargetMetrics {
		var test ProportionTest
		switch metric {
		case MetricCTR:
			test = twoProportionZTest(metric,
				control.CTR, control.Impressions,
				treatment.CTR, treatment.Impressions)
		case MetricConversion:
			test = twoProportionZTest(metric,
				control.ConversionRate, control.Clicks,
				treatment.ConversionRate, treatment.Clicks)
		case MetricEngagement:
			test = twoProportionZTest(metric,
				control.EngagementRate, control.SampleSize,
				treatment.EngagementRate, treatment.SampleSize)
		default:
			continue
		}
		analysis.Tests = append(analysis.Tests, test)
	}

	analysis.Decision = decide(analysis.Tests)

	return analysis, nil
}

func summarize(rows []domain.Interaction, variant string) VariantStats {
	var s VariantStats

	users := make(map[uint]bool)
	activeUsers := make(map[uint]bool)

	for _, in := range rows {
		if in.Variant != variant {
			continue
		}

		users[in.UserID] = true

		switch in.EventType {
		case domain.InteractionView:
			s.Impressions++
		case domain.InteractionClick:
			s.Clicks++
			activeUsers[in.UserID] = true
		case domain.InteractionOrder:
			s.Purchases++
			activeUsers[in.UserID] = true
		default:
			activeUsers[in.UserID] = true
		}
	}

	s.SampleSize = len(users)
	s.ActiveUsers = len(activeUsers)

	if s.Impressions > 0 {
		s.CTR = float64(s.Clicks) / float64(s.Impressions)
	}
	if s.Clicks > 0 {
		s.ConversionRate = float64(s.Purchases) / float64(s.Clicks)
	}
	if s.SampleSize > 0 {
		s.EngagementRate = float64(s.ActiveUsers) / float64(s.SampleSize)
	}

	return s
}

// decide applies the rollout rule: no significant metric → inconclusive;
// otherwise treatment wins iff a strict majority of the significant metrics
// moved in its favor.
func decide(tests []ProportionTest) string {
	var significant, improved int
	for _, t := range tests {
		if t.Insufficient || !t.Significant {
			continue
		}
		significant++
		if t.Improved {
			improved++
		}
	}

	if significant == 0 {
		return DecisionInconclusive
	}
	if improved*2 > significant {
		return DecisionTreatmentWins
	}
	return DecisionControlWins
}
