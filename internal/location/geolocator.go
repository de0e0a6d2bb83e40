package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kelvins/geocoder"
)

// DefaultIPGeolocationURL returns the caller's approximate position as JSON.
const DefaultIPGeolocationURL = "http://ip-api.com/json/?fields=status,message,lat,lon"

var validate = validator.New()

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// Validate rejects out-of-range coordinates.
func (c Coordinates) Validate() error {
	return validate.Struct(c)
}

// Options tunes a geolocation request.
type Options struct {
	HighAccuracy bool
}

// Geolocator yields the device's current position.
type Geolocator interface {
	Locate(ctx context.Context, opts Options) (Coordinates, error)
}

// StaticGeolocator always reports the same configured position.
type StaticGeolocator struct {
	Coordinates Coordinates
}

func (g StaticGeolocator) Locate(ctx context.Context, _ Options) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	return g.Coordinates, nil
}

// IPGeolocator estimates position from the public IP address. Accuracy is
// city-level regardless of Options.
type IPGeolocator struct {
	client *http.Client
	url    string
}

func NewIPGeolocator(client *http.Client, url string) *IPGeolocator {
	if url == "" {
		url = DefaultIPGeolocationURL
	}
	return &IPGeolocator{client: client, url: url}
}

func (g *IPGeolocator) Locate(ctx context.Context, _ Options) (Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url, nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("ip geolocation returned non-200 status: %d", resp.StatusCode)
	}

	var payload struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Coordinates{}, fmt.Errorf("failed to parse ip geolocation response: %w", err)
	}
	if payload.Status != "" && payload.Status != "success" {
		return Coordinates{}, fmt.Errorf("ip geolocation failed: %s", payload.Message)
	}

	return Coordinates{Latitude: payload.Lat, Longitude: payload.Lon}, nil
}

// AddressGeolocator geocodes a fixed postal address through the Google
// Geocoding API.
type AddressGeolocator struct {
	address geocoder.Address
	lookup  func(geocoder.Address) (geocoder.Location, error)
}

// NewAddressGeolocator sets the package-level geocoder API key.
func NewAddressGeolocator(apiKey, city, state, country string) *AddressGeolocator {
	geocoder.ApiKey = apiKey
	return &AddressGeolocator{
		address: geocoder.Address{
			City:    city,
			State:   state,
			Country: country,
		},
		lookup: geocoder.Geocoding,
	}
}

func (g *AddressGeolocator) Locate(ctx context.Context, _ Options) (Coordinates, error) {
	if g.address.City == "" && g.address.Country == "" {
		return Coordinates{}, errors.New("no address configured for geocoding")
	}

	type result struct {
		loc geocoder.Location
		err error
	}
	ch := make(chan result, 1)
	go func() {
		loc, err := g.lookup(g.address)
		ch <- result{loc, err}
	}()

	select {
	case <-ctx.Done():
		return Coordinates{}, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return Coordinates{}, fmt.Errorf("geocode %s, %s: %w", g.address.City, g.address.Country, r.err)
		}
		return Coordinates{Latitude: r.loc.Latitude, Longitude: r.loc.Longitude}, nil
	}
}
