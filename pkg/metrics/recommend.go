package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommendation HTTP handler
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reco_recommend_latency_seconds",
		Help:    "Latency of the recommendations handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of recommendation requests served
	RecommendRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reco_recommend_requests_total",
		Help: "Total number of recommend requests",
	})

	// Scorer failures that fell back to popularity
	ScorerFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reco_scorer_fallbacks_total",
			Help: "Count of scorer failures substituted with the popularity fallback",
		},
		[]string{"algorithm"},
	)
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendRequests,
		ScorerFallbacks,
	)
}
