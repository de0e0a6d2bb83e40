package weather

import (
	"context"
)

// ForecastProvider abstracts a forecast source (e.g. WeatherAPI.com).
type ForecastProvider interface {
	Name() string
	FetchForecast(ctx context.Context, lat, lon float64, days int) (RawForecast, error)
}

// LocationSearcher resolves coordinates to a named place.
type LocationSearcher interface {
	SearchLocation(ctx context.Context, lat, lon float64) (Location, error)
}
