package location

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinatesValidate(t *testing.T) {
	assert.NoError(t, Coordinates{Latitude: 12.9, Longitude: 77.6}.Validate())
	assert.NoError(t, Coordinates{Latitude: -90, Longitude: 180}.Validate())
	assert.Error(t, Coordinates{Latitude: 90.1, Longitude: 0}.Validate())
	assert.Error(t, Coordinates{Latitude: 0, Longitude: -180.5}.Validate())
}

func TestStaticGeolocator(t *testing.T) {
	g := StaticGeolocator{Coordinates: Coordinates{Latitude: 12.9, Longitude: 77.6}}

	got, err := g.Locate(context.Background(), Options{HighAccuracy: true})
	require.NoError(t, err)
	assert.Equal(t, g.Coordinates, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Locate(ctx, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIPGeolocator(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"success","lat":12.9716,"lon":77.5946}`))
		}))
		defer srv.Close()

		got, err := NewIPGeolocator(srv.Client(), srv.URL).Locate(context.Background(), Options{})
		require.NoError(t, err)
		assert.Equal(t, Coordinates{Latitude: 12.9716, Longitude: 77.5946}, got)
	})

	t.Run("lookup failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
		}))
		defer srv.Close()

		_, err := NewIPGeolocator(srv.Client(), srv.URL).Locate(context.Background(), Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "private range")
	})

	t.Run("non-200", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewIPGeolocator(srv.Client(), srv.URL).Locate(context.Background(), Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})
}

func TestAddressGeolocator(t *testing.T) {
	g := NewAddressGeolocator("test-key", "Bangalore", "Karnataka", "India")
	assert.Equal(t, "test-key", geocoder.ApiKey)

	var seen geocoder.Address
	g.lookup = func(a geocoder.Address) (geocoder.Location, error) {
		seen = a
		return geocoder.Location{Latitude: 12.97, Longitude: 77.59}, nil
	}

	got, err := g.Locate(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, Coordinates{Latitude: 12.97, Longitude: 77.59}, got)
	assert.Equal(t, "Bangalore", seen.City)
	assert.Equal(t, "India", seen.Country)

	g.lookup = func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{}, errors.New("ZERO_RESULTS")
	}
	_, err = g.Locate(context.Background(), Options{})
	assert.ErrorContains(t, err, "ZERO_RESULTS")
}

func TestAddressGeolocator_HonoursContext(t *testing.T) {
	g := NewAddressGeolocator("", "Bangalore", "", "India")
	release := make(chan struct{})
	defer close(release)
	g.lookup = func(geocoder.Address) (geocoder.Location, error) {
		<-release
		return geocoder.Location{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := g.Locate(ctx, Options{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAddressGeolocator_NoAddress(t *testing.T) {
	g := NewAddressGeolocator("", "", "", "")
	_, err := g.Locate(context.Background(), Options{})
	assert.Error(t, err)
}
