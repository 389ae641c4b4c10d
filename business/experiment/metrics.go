package experiment

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TrackedEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "experiment_tracked_events_total",
			Help: "Count of tracked interactions by experiment, variant, and event type.",
		},
		[]string{"experiment_id", "variant", "event_type"},
	)

	ExposuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "experiment_exposures_total",
			Help: "Count of recommendation responses served by experiment and variant.",
		},
		[]string{"experiment_id", "variant"},
	)
)

func init() {
	prometheus.MustRegister(TrackedEventsTotal, ExposuresTotal)
}
