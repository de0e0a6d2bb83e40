package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

// Geolocation modes.
const (
	GeolocationStatic  = "static"
	GeolocationIP      = "ip"
	GeolocationAddress = "address"
)

type AppConfig struct {
	WeatherAPIKey     string `validate:"required"`
	WeatherAPIBaseURL string `validate:"required,url"`

	// ForecastDays is passed to forecast.json; the dashboard keeps at most 10.
	ForecastDays int `validate:"min=1,max=14"`

	HTTPTimeout      time.Duration `validate:"gt=0"`
	ForecastCacheTTL time.Duration
	RefreshInterval  time.Duration `validate:"gte=1m"`
	SessionTTL       time.Duration

	// CacheDBPath is the SQLite file for the location cache ("" = in memory).
	CacheDBPath string

	GeolocationMode  string  `validate:"oneof=static ip address"`
	DefaultLatitude  float64 `validate:"latitude"`
	DefaultLongitude float64 `validate:"longitude"`
	IPGeolocationURL string  `validate:"omitempty,url"`
	GeocoderAPIKey   string  `validate:"required_if=GeolocationMode address"`
	GeocodeCity      string  `validate:"required_if=GeolocationMode address"`
	GeocodeState     string
	GeocodeCountry   string

	RateLimitRPS   float64 `validate:"gte=0"`
	RateLimitBurst int     `validate:"gte=1"`

	Port string `validate:"required,numeric"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.WeatherAPIBaseURL = getenvDefault("WEATHERAPI_BASE_URL", providers.DefaultWeatherAPIBaseURL)
	cfg.ForecastDays = getenvInt("FORECAST_DAYS", 10)

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.ForecastCacheTTL, err = getenvDuration("FORECAST_CACHE_TTL", "10m"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getenvDuration("SESSION_TTL", "24h"); err != nil {
		return nil, err
	}

	cfg.CacheDBPath = os.Getenv("CACHE_DB_PATH")

	cfg.GeolocationMode = strings.ToLower(getenvDefault("GEOLOCATION_MODE", GeolocationIP))
	if cfg.DefaultLatitude, err = getenvFloat("DEFAULT_LATITUDE", 0); err != nil {
		return nil, err
	}
	if cfg.DefaultLongitude, err = getenvFloat("DEFAULT_LONGITUDE", 0); err != nil {
		return nil, err
	}
	cfg.IPGeolocationURL = os.Getenv("IP_GEOLOCATION_URL")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.GeocodeCity = os.Getenv("GEOCODE_CITY")
	cfg.GeocodeState = os.Getenv("GEOCODE_STATE")
	cfg.GeocodeCountry = os.Getenv("GEOCODE_COUNTRY")

	if cfg.RateLimitRPS, err = getenvFloat("RATE_LIMIT_RPS", 2); err != nil {
		return nil, err
	}
	cfg.RateLimitBurst = getenvInt("RATE_LIMIT_BURST", 4)

	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
