package location

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Cache keys for the resolved location.
const (
	KeyLatitude  = "lat"
	KeyLongitude = "lon"
	KeyName      = "name"
	KeyRegion    = "region"
)

// ErrLocationUnavailable means no location could be resolved. Callers should
// skip forecast content rather than treat it as fatal.
var ErrLocationUnavailable = errors.New("location unavailable")

// KVStore is the small persistent cache holding the last resolved location.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Resolver produces the user's Location from cache or a live lookup.
type Resolver struct {
	store    KVStore
	geo      Geolocator
	searcher weather.LocationSearcher
}

// NewResolver creates a Resolver. geo may be nil when only caller-supplied
// coordinates are used.
func NewResolver(kv KVStore, geo Geolocator, searcher weather.LocationSearcher) *Resolver {
	return &Resolver{
		store:    kv,
		geo:      geo,
		searcher: searcher,
	}
}

// Resolve returns the cached location when all four entries are present,
// otherwise it resolves live and caches the result.
func (r *Resolver) Resolve(ctx context.Context) (*weather.Location, error) {
	if loc, ok := r.cached(ctx); ok {
		log.Printf("DEBUG: using cached location %s (%s)", loc.Name, loc.Key())
		return loc, nil
	}
	return r.Refresh(ctx)
}

// Refresh ignores the cache, asks the geolocator and overwrites the cache.
func (r *Resolver) Refresh(ctx context.Context) (*weather.Location, error) {
	if r.geo == nil {
		return nil, fmt.Errorf("%w: no geolocator configured", ErrLocationUnavailable)
	}

	coords, err := r.geo.Locate(ctx, Options{HighAccuracy: true})
	if err != nil {
		log.Printf("ERROR: geolocation failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrLocationUnavailable, err)
	}
	return r.ResolveAt(ctx, coords)
}

// ResolveAt names the given coordinates and overwrites the cache.
func (r *Resolver) ResolveAt(ctx context.Context, coords Coordinates) (*weather.Location, error) {
	if err := coords.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLocationUnavailable, err)
	}
	if r.searcher == nil {
		return nil, fmt.Errorf("%w: no location searcher configured", ErrLocationUnavailable)
	}

	found, err := r.searcher.SearchLocation(ctx, coords.Latitude, coords.Longitude)
	if err != nil {
		log.Printf("ERROR: location search failed for %f,%f: %v", coords.Latitude, coords.Longitude, err)
		return nil, fmt.Errorf("%w: %w", ErrLocationUnavailable, err)
	}

	loc := &weather.Location{
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		Name:      found.Name,
		Region:    found.Region,
		Country:   found.Country,
	}
	r.persist(ctx, loc)

	log.Printf("INFO: resolved location %s, %s (%s)", loc.Name, loc.Region, loc.Key())
	return loc, nil
}

func (r *Resolver) cached(ctx context.Context) (*weather.Location, bool) {
	if r.store == nil {
		return nil, false
	}

	values := make(map[string]string, 4)
	for _, key := range []string{KeyLatitude, KeyLongitude, KeyName, KeyRegion} {
		v, err := r.store.Get(ctx, key)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				log.Printf("ERROR: reading cached %s: %v", key, err)
			}
			return nil, false
		}
		values[key] = v
	}

	lat, err := strconv.ParseFloat(values[KeyLatitude], 64)
	if err != nil {
		return nil, false
	}
	lon, err := strconv.ParseFloat(values[KeyLongitude], 64)
	if err != nil {
		return nil, false
	}

	return &weather.Location{
		Latitude:  lat,
		Longitude: lon,
		Name:      values[KeyName],
		Region:    values[KeyRegion],
	}, true
}

// Cache write failures are logged only; the resolved location is still usable.
func (r *Resolver) persist(ctx context.Context, loc *weather.Location) {
	if r.store == nil {
		return
	}
	entries := []struct{ key, value string }{
		{KeyLatitude, strconv.FormatFloat(loc.Latitude, 'f', -1, 64)},
		{KeyLongitude, strconv.FormatFloat(loc.Longitude, 'f', -1, 64)},
		{KeyName, loc.Name},
		{KeyRegion, loc.Region},
	}
	for _, e := range entries {
		if err := r.store.Set(ctx, e.key, e.value); err != nil {
			log.Printf("ERROR: caching %s: %v", e.key, err)
		}
	}
}
