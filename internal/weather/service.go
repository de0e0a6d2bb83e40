package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/patrickmn/go-cache"
)

// ErrNoProvider is returned when the service has no forecast provider.
var ErrNoProvider = errors.New("no forecast provider configured")

// Service fetches forecasts, normalizes them and caches the result per location.
type Service struct {
	provider   ForecastProvider
	normalizer *Normalizer
	cache      *cache.Cache
	days       int
}

// NewService creates a new Service. A ttl <= 0 disables expiry.
func NewService(provider ForecastProvider, normalizer *Normalizer, days int, ttl time.Duration) *Service {
	if normalizer == nil {
		normalizer = NewNormalizer()
	}
	if days <= 0 || days > MaxForecastDays {
		days = MaxForecastDays
	}
	exp := ttl
	if exp <= 0 {
		exp = cache.NoExpiration
	}
	return &Service{
		provider:   provider,
		normalizer: normalizer,
		cache:      cache.New(exp, 2*time.Minute),
		days:       days,
	}
}

// Forecast returns the cached forecast for loc or fetches a fresh one. A
// cached forecast whose first hour of today has ended is refetched so the
// "Now" slot is always the hour in progress.
func (s *Service) Forecast(ctx context.Context, loc Location) (*Forecast, error) {
	if cached, found := s.cache.Get(loc.Key()); found {
		fc := cached.(*Forecast)
		if !hourEnded(fc, s.now()) {
			return fc, nil
		}
		log.Printf("DEBUG: cached forecast for %s has an ended hour, refetching", loc.Key())
	}
	return s.Refresh(ctx, loc)
}

func (s *Service) now() time.Time {
	if s.normalizer != nil && s.normalizer.Now != nil {
		return s.normalizer.Now()
	}
	return time.Now()
}

func hourEnded(fc *Forecast, now time.Time) bool {
	if len(fc.Days) == 0 || len(fc.Days[0].Hours) == 0 {
		return false
	}
	return fc.Days[0].Hours[0].EpochTime+3600 <= now.Unix()
}

// Refresh always fetches from the provider and replaces the cached entry.
func (s *Service) Refresh(ctx context.Context, loc Location) (*Forecast, error) {
	if s.provider == nil {
		return nil, ErrNoProvider
	}

	log.Printf("DEBUG: fetching %d-day forecast for %s from %s", s.days, loc.Key(), s.provider.Name())

	raw, err := s.provider.FetchForecast(ctx, loc.Latitude, loc.Longitude, s.days)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast for %s: %w", loc.Key(), err)
	}

	forecast, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize forecast for %s: %w", loc.Key(), err)
	}

	// The resolved location is what the user sees; the payload only fills gaps.
	if loc.Name != "" {
		forecast.Location.Name = loc.Name
		forecast.Location.Region = loc.Region
	}
	forecast.Location.Latitude = loc.Latitude
	forecast.Location.Longitude = loc.Longitude
	if loc.Country != "" {
		forecast.Location.Country = loc.Country
	}
	if loc.TimeZone != "" {
		forecast.Location.TimeZone = loc.TimeZone
	}

	s.cache.Set(loc.Key(), &forecast, cache.DefaultExpiration)
	return &forecast, nil
}
