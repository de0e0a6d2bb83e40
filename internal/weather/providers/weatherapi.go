package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// DefaultWeatherAPIBaseURL is the WeatherAPI.com v1 root.
const DefaultWeatherAPIBaseURL = "https://api.weatherapi.com/v1"

// ErrNoSearchResults is returned when search.json yields an empty list.
var ErrNoSearchResults = errors.New("location search returned no results")

// WeatherAPIProvider implements weather.ForecastProvider and
// weather.LocationSearcher for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

var (
	_ weather.ForecastProvider = (*WeatherAPIProvider)(nil)
	_ weather.LocationSearcher = (*WeatherAPIProvider)(nil)
)

// WeatherAPIOption configures a WeatherAPIProvider.
type WeatherAPIOption func(*WeatherAPIProvider)

// WithBaseURL points the provider at another host, e.g. a test server.
func WithBaseURL(baseURL string) WeatherAPIOption {
	return func(p *WeatherAPIProvider) {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64, burst int) WeatherAPIOption {
	return func(p *WeatherAPIProvider) {
		if rps > 0 {
			if burst < 1 {
				burst = 1
			}
			p.httpCfg.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithBackoff overrides the retry policy.
func WithBackoff(b BackoffConfig) WeatherAPIOption {
	return func(p *WeatherAPIProvider) {
		p.httpCfg.Backoff = b
	}
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, opts ...WeatherAPIOption) *WeatherAPIProvider {
	p := &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: DefaultWeatherAPIBaseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newCircuitBreaker("weatherapi"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// FetchForecast calls forecast.json for the given coordinates.
func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, lat, lon float64, days int) (weather.RawForecast, error) {
	if p.apiKey == "" {
		return weather.RawForecast{}, fmt.Errorf("weatherapi api key is not configured")
	}

	values := p.query(lat, lon)
	values.Set("days", fmt.Sprintf("%d", days))
	values.Set("aqi", "no")
	values.Set("alerts", "no")

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.requestBuilder("forecast.json", values))
	if err != nil {
		return weather.RawForecast{}, err
	}
	defer resp.Body.Close()

	return weather.DecodeForecast(resp.Body)
}

// SearchLocation calls search.json and returns its first match.
func (p *WeatherAPIProvider) SearchLocation(ctx context.Context, lat, lon float64) (weather.Location, error) {
	if p.apiKey == "" {
		return weather.Location{}, fmt.Errorf("weatherapi api key is not configured")
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.requestBuilder("search.json", p.query(lat, lon)))
	if err != nil {
		return weather.Location{}, err
	}
	defer resp.Body.Close()

	var payload []struct {
		Name    string  `json:"name"`
		Region  string  `json:"region"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Location{}, fmt.Errorf("decode search response: %w", err)
	}
	if len(payload) == 0 {
		return weather.Location{}, ErrNoSearchResults
	}

	first := payload[0]
	return weather.Location{
		Latitude:  first.Lat,
		Longitude: first.Lon,
		Name:      first.Name,
		Region:    first.Region,
		Country:   first.Country,
	}, nil
}

// WeatherAPI accepts "lat lon" in q.
func (p *WeatherAPIProvider) query(lat, lon float64) url.Values {
	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", fmt.Sprintf("%f %f", lat, lon))
	return values
}

func (p *WeatherAPIProvider) requestBuilder(endpoint string, values url.Values) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		u := fmt.Sprintf("%s/%s?%s", p.baseURL, endpoint, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}
}
