package trend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"mealmind/domain"
	"mealmind/pkg/logger"
)

// ---- Repository interfaces ----

type InteractionStore interface {
	FindBetween(ctx context.Context, from, to time.Time) ([]domain.Interaction, error)
}

type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
}

// ---- Usecase / Service ----

// Analyzer computes trending and seasonal item scores independent of any
// single user. All outputs are TTL-cached; the batch recompute is serialized
// so readers never observe a half-written result set.
type Analyzer struct {
	interactions InteractionStore
	cache        Cache
	cfg          Config

	recomputing atomic.Bool
}

func NewAnalyzer(interactions InteractionStore, cache Cache, cfg Config) *Analyzer {
	return &Analyzer{
		interactions: interactions,
		cache:        cache,
		cfg:          cfg,
	}
}

const (
	dailyTrendKey  = "trend:daily"
	seasonalKeyFmt = "trend:seasonal:%s" // season name
)

// Recompute rebuilds the daily trend batch. Mutually exclusive with itself:
// a concurrent trigger while one run is in progress is a silent no-op. The
// result set is published in a single cache write.
func (a *Analyzer) Recompute(ctx context.Context) error {
	if !a.recomputing.CompareAndSwap(false, true) {
		logger.Debug("trend recompute already in progress, skipping")
		return nil
	}
	defer a.recomputing.Store(false)

	now := time.Now()
	rows, err := a.interactions.FindBetween(ctx, now.Add(-a.cfg.TrendingWindow), now)
	if err != nil {
		return fmt.Errorf("load interactions: %w", err)
	}

	scores := a.scoreBatch(rows, now)

	if err := a.cache.SetJSON(ctx, dailyTrendKey, scores, a.cfg.TrendTTL); err != nil {
		return fmt.Errorf("publish trend batch: %w", err)
	}

	logger.Info("trend batch recomputed", "items", len(scores), "interactions", len(rows))

	return nil
}

// scoreBatch aggregates per-item counters into one linear blend and
// normalizes by the batch maximum.
func (a *Analyzer) scoreBatch(rows []domain.Interaction, now time.Time) []domain.TrendScore {
	type agg struct {
		interactions int
		users        map[uint]bool
		momentum     float64
		purchases    int
		ratingSum    float64
		ratingCount  int
	}

	byItem := make(map[uint64]*agg)
	for _, in := range rows {
		st, ok := byItem[in.ItemID]
		if !ok {
			st = &agg{users: make(map[uint]bool)}
			byItem[in.ItemID] = st
		}

		st.interactions++
		st.users[in.UserID] = true

		// recent days weigh higher: decay^ageDays
		ageDays := now.Sub(in.CreatedAt).Hours() / 24.0
		if ageDays < 0 {
			ageDays = 0
		}
		st.momentum += math.Pow(a.cfg.MomentumDecay, ageDays)

		if in.IsPurchase() {
			st.purchases++
		}
		if in.EventType == domain.InteractionRate && in.Value > 0 {
			st.ratingSum += in.Value
			st.ratingCount++
		}
	}

	scores := make([]domain.TrendScore, 0, len(byItem))
	var maxScore float64
	for itemID, st := range byItem {
		avgRating := 0.0
		if st.ratingCount > 0 {
			avgRating = st.ratingSum / float64(st.ratingCount)
		}

		raw := a.cfg.WeightInteractions*float64(st.interactions) +
			a.cfg.WeightUniqueUsers*float64(len(st.users)) +
			a.cfg.WeightMomentum*st.momentum +
			a.cfg.WeightPurchases*float64(st.purchases) +
			a.cfg.WeightRating*avgRating

		if raw > maxScore {
			maxScore = raw
		}

		scores = append(scores, domain.TrendScore{
			ItemID:           itemID,
			Score:            raw,
			InteractionCount: st.interactions,
			UniqueUsers:      len(st.users),
			Momentum:         st.momentum,
			PurchaseCount:    st.purchases,
			AvgRating:        avgRating,
		})
	}

	if maxScore > 0 {
		for i := range scores {
			scores[i].Score /= maxScore
		}
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })

	return scores
}

// DailyScores serves the cached trend batch, recomputing on a cold cache.
func (a *Analyzer) DailyScores(ctx context.Context) ([]domain.TrendScore, error) {
	var cached []domain.TrendScore
	if ok, err := a.cache.GetJSON(ctx, dailyTrendKey, &cached); err == nil && ok {
		return cached, nil
	}

	if err := a.Recompute(ctx); err != nil {
		return nil, err
	}

	if ok, err := a.cache.GetJSON(ctx, dailyTrendKey, &cached); err == nil && ok {
		return cached, nil
	}

	// a concurrent recompute owned the run; serve empty rather than error
	return nil, nil
}

// MealPeriod maps an hour of day to breakfast/lunch/dinner/snack.
func MealPeriod(hour int) string {
	switch {
	case hour >= 6 && hour < 11:
		return domain.MealBreakfast
	case hour >= 11 && hour < 15:
		return domain.MealLunch
	case hour >= 17 && hour < 22:
		return domain.MealDinner
	default:
		return domain.MealSnack
	}
}

// seasonOf buckets a month into its season.
func seasonOf(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}

func seasonMonths(season string) map[time.Month]bool {
	switch season {
	case "winter":
		return map[time.Month]bool{time.December: true, time.January: true, time.February: true}
	case "spring":
		return map[time.Month]bool{time.March: true, time.April: true, time.May: true}
	case "summer":
		return map[time.Month]bool{time.June: true, time.July: true, time.August: true}
	default:
		return map[time.Month]bool{time.September: true, time.October: true, time.November: true}
	}
}

// Seasonal ranks items within each meal period using history from months
// belonging to the current season. Ranking metric: interactions × rating
// factor.
func (a *Analyzer) Seasonal(ctx context.Context, now time.Time, historyYears int) ([]domain.SeasonalEntry, error) {
	season := seasonOf(now.Month())
	key := fmt.Sprintf(seasonalKeyFmt, season)

	var cached []domain.SeasonalEntry
	if ok, err := a.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	if historyYears <= 0 {
		historyYears = 1
	}
	rows, err := a.interactions.FindBetween(ctx, now.AddDate(-historyYears, 0, 0), now)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}

	months := seasonMonths(season)

	type agg struct {
		interactions int
		ratingSum    float64
		ratingCount  int
	}
	byKey := make(map[string]map[uint64]*agg) // meal period -> item -> agg

	for _, in := range rows {
		if !months[in.CreatedAt.Month()] {
			continue
		}
		period := MealPeriod(in.CreatedAt.Hour())

		items, ok := byKey[period]
		if !ok {
			items = make(map[uint64]*agg)
			byKey[period] = items
		}
		st, ok := items[in.ItemID]
		if !ok {
			st = &agg{}
			items[in.ItemID] = st
		}

		st.interactions++
		if in.EventType == domain.InteractionRate && in.Value > 0 {
			st.ratingSum += in.Value
			st.ratingCount++
		}
	}

	var entries []domain.SeasonalEntry
	for period, items := range byKey {
		for itemID, st := range items {
			ratingFactor := 1.0
			if st.ratingCount > 0 {
				ratingFactor = st.ratingSum / float64(st.ratingCount) / 5.0
			}
			entries = append(entries, domain.SeasonalEntry{
				ItemID:     itemID,
				MealPeriod: period,
				Score:      float64(st.interactions) * ratingFactor,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].MealPeriod != entries[j].MealPeriod {
			return entries[i].MealPeriod < entries[j].MealPeriod
		}
		return entries[i].Score > entries[j].Score
	})

	if err := a.cache.SetJSON(ctx, key, entries, a.cfg.TrendTTL); err != nil {
		logger.Warn("failed to cache seasonal entries", "season", season, "error", err)
	}

	return entries, nil
}

// DetectSpikes flags items whose interaction count in the spike window
// exceeds SpikeMultiplier times their trailing hourly average.
func (a *Analyzer) DetectSpikes(ctx context.Context, now time.Time) ([]domain.SpikeAlert, error) {
	baselineRows, err := a.interactions.FindBetween(ctx, now.Add(-a.cfg.SpikeBaseline), now.Add(-a.cfg.SpikeWindow))
	if err != nil {
		return nil, fmt.Errorf("load baseline interactions: %w", err)
	}
	recentRows, err := a.interactions.FindBetween(ctx, now.Add(-a.cfg.SpikeWindow), now)
	if err != nil {
		return nil, fmt.Errorf("load recent interactions: %w", err)
	}

	baselineHours := (a.cfg.SpikeBaseline - a.cfg.SpikeWindow).Hours()
	if baselineHours <= 0 {
		baselineHours = 1
	}

	baselineCounts := make(map[uint64]int)
	for _, in := range baselineRows {
		baselineCounts[in.ItemID]++
	}

	recentCounts := make(map[uint64]int)
	for _, in := range recentRows {
		recentCounts[in.ItemID]++
	}

	spikeHours := a.cfg.SpikeWindow.Hours()

	var alerts []domain.SpikeAlert
	for itemID, recent := range recentCounts {
		hourlyAvg := float64(baselineCounts[itemID]) / baselineHours
		if hourlyAvg == 0 {
			// no history: require a nontrivial burst before flagging
			hourlyAvg = 1.0 / baselineHours
		}

		currentRate := float64(recent) / spikeHours
		if currentRate > a.cfg.SpikeMultiplier*hourlyAvg {
			alerts = append(alerts, domain.SpikeAlert{
				ItemID:      itemID,
				RecentCount: recent,
				HourlyAvg:   hourlyAvg,
				DetectedAt:  now,
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool { return alerts[i].RecentCount > alerts[j].RecentCount })

	return alerts, nil
}

// Recommendations adapts the daily trend batch into scored recommendations.
func (a *Analyzer) Recommendations(ctx context.Context, excludeIDs map[uint64]bool, limit int) ([]domain.Recommendation, error) {
	scores, err := a.DailyScores(ctx)
	if err != nil {
		return nil, err
	}

	recs := make([]domain.Recommendation, 0, limit)
	for _, s := range scores {
		if excludeIDs[s.ItemID] {
			continue
		}
		recs = append(recs, domain.Recommendation{
			ItemID:      s.ItemID,
			Score:       s.Score,
			Confidence:  0.6,
			Algorithm:   domain.AlgorithmTrending,
			Sources:     []string{domain.AlgorithmTrending},
			Explanation: fmt.Sprintf("trending with %d recent interactions", s.InteractionCount),
		})
		if len(recs) >= limit {
			break
		}
	}

	return recs, nil
}
