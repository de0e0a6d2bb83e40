package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/session"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

type kvStore interface {
	location.KVStore
	Close() error
}

// components is everything the commands share.
type components struct {
	kv       kvStore
	resolver *location.Resolver
	service  *weather.Service
	sessions *session.Manager
}

func buildComponents(cfg *config.AppConfig) (*components, error) {
	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	var kv kvStore
	if cfg.CacheDBPath != "" {
		sqlite, err := store.NewSQLite(cfg.CacheDBPath)
		if err != nil {
			return nil, fmt.Errorf("open location cache: %w", err)
		}
		kv = sqlite
	} else {
		kv = store.NewMemoryStore()
	}

	provider := providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey,
		providers.WithBaseURL(cfg.WeatherAPIBaseURL),
		providers.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	geo := newGeolocator(cfg, httpClient)
	resolver := location.NewResolver(kv, geo, provider)
	service := weather.NewService(provider, weather.NewNormalizer(), cfg.ForecastDays, cfg.ForecastCacheTTL)

	return &components{
		kv:       kv,
		resolver: resolver,
		service:  service,
		sessions: session.NewManager(resolver, service),
	}, nil
}

func newGeolocator(cfg *config.AppConfig, client *http.Client) location.Geolocator {
	switch cfg.GeolocationMode {
	case config.GeolocationStatic:
		log.Printf("INFO: using static geolocation %f,%f", cfg.DefaultLatitude, cfg.DefaultLongitude)
		return location.StaticGeolocator{Coordinates: location.Coordinates{
			Latitude:  cfg.DefaultLatitude,
			Longitude: cfg.DefaultLongitude,
		}}
	case config.GeolocationAddress:
		log.Printf("INFO: using address geolocation for %s", cfg.GeocodeCity)
		return location.NewAddressGeolocator(cfg.GeocoderAPIKey, cfg.GeocodeCity, cfg.GeocodeState, cfg.GeocodeCountry)
	default:
		return location.NewIPGeolocator(client, cfg.IPGeolocationURL)
	}
}
