package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/selection"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned for unknown or evicted session IDs.
	ErrNotFound = errors.New("session not found")
	// ErrForecastUnavailable wraps provider and normalization failures.
	ErrForecastUnavailable = errors.New("forecast unavailable")
	// ErrNoForecast is returned when selecting on a session without a forecast.
	ErrNoForecast = errors.New("session has no forecast loaded")
)

// LocationResolver is satisfied by *location.Resolver.
type LocationResolver interface {
	Resolve(ctx context.Context) (*weather.Location, error)
	Refresh(ctx context.Context) (*weather.Location, error)
	ResolveAt(ctx context.Context, coords location.Coordinates) (*weather.Location, error)
}

// ForecastSource is satisfied by *weather.Service.
type ForecastSource interface {
	Forecast(ctx context.Context, loc weather.Location) (*weather.Forecast, error)
	Refresh(ctx context.Context, loc weather.Location) (*weather.Forecast, error)
}

// Session is one client's dashboard: its location, forecast and selection.
type Session struct {
	ID        uuid.UUID
	Location  *weather.Location
	Forecast  *weather.Forecast
	Selection *selection.State
	CreatedAt time.Time
	UpdatedAt time.Time
}

// View is a rendered session.
type View struct {
	ID        uuid.UUID           `json:"id"`
	Dashboard dashboard.Dashboard `json:"dashboard"`
}

// Manager holds sessions in memory. Network calls run outside the lock;
// state changes are serialized by it.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	resolver  LocationResolver
	forecasts ForecastSource
	now       func() time.Time
}

func NewManager(resolver LocationResolver, forecasts ForecastSource) *Manager {
	return &Manager{
		sessions:  make(map[uuid.UUID]*Session),
		resolver:  resolver,
		forecasts: forecasts,
		now:       time.Now,
	}
}

// Create resolves a location (coords when given, cache or geolocation
// otherwise) and loads its forecast. An unresolved location still yields a
// session, just without forecast panels.
func (m *Manager) Create(ctx context.Context, coords *location.Coordinates) (View, error) {
	var (
		loc *weather.Location
		err error
	)
	if coords != nil {
		loc, err = m.resolver.ResolveAt(ctx, *coords)
	} else {
		loc, err = m.resolver.Resolve(ctx)
	}
	if err != nil {
		log.Printf("INFO: creating session without location: %v", err)
		loc = nil
	}

	s := &Session{ID: uuid.New(), Location: loc}
	if loc != nil {
		if err := m.load(ctx, s, false); err != nil {
			return View{}, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s.CreatedAt = m.now()
	s.UpdatedAt = s.CreatedAt
	m.sessions[s.ID] = s
	return m.view(s), nil
}

// Get renders an existing session. Reads count as activity for EvictIdle.
func (m *Manager) Get(id uuid.UUID) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return View{}, ErrNotFound
	}
	s.UpdatedAt = m.now()
	return m.view(s), nil
}

// SelectDay selects a forecast day.
func (m *Manager) SelectDay(id uuid.UUID, day int) (View, error) {
	return m.mutate(id, func(st *selection.State) error { return st.SelectDay(day) })
}

// SelectHour selects an index of the visible hour strip.
func (m *Manager) SelectHour(id uuid.UUID, hour int) (View, error) {
	return m.mutate(id, func(st *selection.State) error { return st.SelectHour(hour) })
}

// ToggleUnit flips the session between Celsius and Fahrenheit.
func (m *Manager) ToggleUnit(id uuid.UUID) (View, error) {
	return m.mutate(id, func(st *selection.State) error {
		st.ToggleUnit()
		return nil
	})
}

// UseCurrentLocation re-resolves the location, bypassing and overwriting the
// cache, and reloads the forecast. A failed resolution clears the session's
// location.
func (m *Manager) UseCurrentLocation(ctx context.Context, id uuid.UUID, coords *location.Coordinates) (View, error) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return View{}, ErrNotFound
	}

	var (
		loc *weather.Location
		err error
	)
	if coords != nil {
		loc, err = m.resolver.ResolveAt(ctx, *coords)
	} else {
		loc, err = m.resolver.Refresh(ctx)
	}
	if err != nil {
		log.Printf("INFO: session %s lost its location: %v", id, err)
		loc = nil
	}

	next := &Session{ID: id, Location: loc}
	var loadErr error
	if loc != nil {
		loadErr = m.load(ctx, next, true)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return View{}, ErrNotFound
	}
	unit := selection.Celsius
	if s.Selection != nil {
		unit = s.Selection.Unit
	}
	s.Location = next.Location
	s.Forecast = next.Forecast
	s.Selection = next.Selection
	if s.Selection != nil {
		s.Selection.Unit = unit
	}
	s.UpdatedAt = m.now()

	if loadErr != nil {
		return m.view(s), loadErr
	}
	return m.view(s), nil
}

// Locations returns the distinct locations of all sessions.
func (m *Manager) Locations() []weather.Location {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	var locs []weather.Location
	for _, s := range m.sessions {
		if s.Location == nil || seen[s.Location.Key()] {
			continue
		}
		seen[s.Location.Key()] = true
		locs = append(locs, *s.Location)
	}
	return locs
}

// RefreshLocation fetches a fresh forecast for loc and rebinds every session
// showing it.
func (m *Manager) RefreshLocation(ctx context.Context, loc weather.Location) error {
	fc, err := m.forecasts.Refresh(ctx, loc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrForecastUnavailable, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if s.Location == nil || s.Location.Key() != loc.Key() {
			continue
		}
		if s.Selection == nil {
			st, err := selection.New(fc.Days)
			if err != nil {
				continue
			}
			s.Selection = st
		} else if err := s.Selection.Rebind(fc.Days); err != nil {
			continue
		}
		s.Forecast = fc
	}
	return nil
}

// EvictIdle removes sessions not touched within maxAge and returns how many
// were removed.
func (m *Manager) EvictIdle(maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}
	cutoff := m.now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) load(ctx context.Context, s *Session, fresh bool) error {
	var (
		fc  *weather.Forecast
		err error
	)
	if fresh {
		fc, err = m.forecasts.Refresh(ctx, *s.Location)
	} else {
		fc, err = m.forecasts.Forecast(ctx, *s.Location)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrForecastUnavailable, err)
	}

	st, err := selection.New(fc.Days)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrForecastUnavailable, err)
	}
	s.Forecast = fc
	s.Selection = st
	return nil
}

func (m *Manager) mutate(id uuid.UUID, fn func(st *selection.State) error) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return View{}, ErrNotFound
	}
	if s.Selection == nil {
		return View{}, ErrNoForecast
	}
	if err := fn(s.Selection); err != nil {
		return View{}, err
	}
	s.UpdatedAt = m.now()
	return m.view(s), nil
}

func (m *Manager) view(s *Session) View {
	return View{
		ID:        s.ID,
		Dashboard: dashboard.Build(s.Location, s.Forecast, s.Selection),
	}
}
