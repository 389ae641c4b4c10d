package hybrid

import "context"

// WeatherProvider reports how suitable a category is for the current
// weather. Real integrations are supplied by the integrator; the static
// implementation below is the default.
type WeatherProvider interface {
	CategoryBoost(ctx context.Context, category string) float64
}

// DemandProvider reports demand pressure per category for surge-style
// adjustments.
type DemandProvider interface {
	CategoryDemand(ctx context.Context, category string) float64
}

// StaticWeatherProvider applies no weather adjustment.
type StaticWeatherProvider struct{}

func (StaticWeatherProvider) CategoryBoost(ctx context.Context, category string) float64 {
	return 1.0
}

// StaticDemandProvider reports neutral demand everywhere.
type StaticDemandProvider struct{}

func (StaticDemandProvider) CategoryDemand(ctx context.Context, category string) float64 {
	return 1.0
}
