// Package selection tracks which forecast day and hour are on screen and the
// temperature unit they are shown in.
//
// The hourly strip for today is continuous across midnight: it shows the
// remaining hours of day 0 followed by the first hours of day 1, 24 entries
// in total. Selecting past today's remaining hours rolls the selection over
// to day 1.
package selection

import (
	"errors"
	"fmt"
	"slices"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// HoursPerStrip is the length of the rolling hourly view.
const HoursPerStrip = 24

var (
	ErrNoForecast     = errors.New("forecast has no days")
	ErrDayOutOfRange  = errors.New("day index out of range")
	ErrHourOutOfRange = errors.New("hour index out of range")
)

// State is the selection over one ForecastSet. The zero value is not usable;
// call New.
type State struct {
	DayIndex  int  `json:"selectedDay"`
	HourIndex int  `json:"selectedHour"`
	Unit      Unit `json:"unit"`

	days weather.ForecastSet
}

// New starts at day 0, hour 0, in Celsius.
func New(days weather.ForecastSet) (*State, error) {
	if len(days) == 0 {
		return nil, ErrNoForecast
	}
	return &State{Unit: Celsius, days: days}, nil
}

// Rebind points the state at a new forecast, e.g. after a scheduled refresh.
// The selection follows the selected hour by its epoch, so it survives today
// losing an hour that has ended or days shifting at midnight; it resets to
// day 0, hour 0 when that hour is no longer in the forecast. The unit
// preference always survives.
func (s *State) Rebind(days weather.ForecastSet) error {
	if len(days) == 0 {
		return ErrNoForecast
	}
	prev, had := s.SelectedHour()
	day := s.DayIndex

	s.days = days
	s.DayIndex, s.HourIndex = 0, 0
	if !had {
		if day < len(days) {
			s.DayIndex = day
		}
		return nil
	}

	for d := range days {
		for h, hour := range days[d].Hours {
			if hour.EpochTime == prev.EpochTime {
				s.DayIndex, s.HourIndex = d, h
				return nil
			}
		}
	}
	return nil
}

// Days returns the forecast the state selects over.
func (s *State) Days() weather.ForecastSet {
	return s.days
}

// SelectDay selects day d and resets the hour to the first visible one.
func (s *State) SelectDay(d int) error {
	if d < 0 || d >= len(s.days) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrDayOutOfRange, d, len(s.days)-1)
	}
	s.DayIndex = d
	s.HourIndex = 0
	return nil
}

// SelectHour selects index h of the visible strip. On day 0 an index at or
// past the remaining hours of today selects the matching hour of day 1.
func (s *State) SelectHour(h int) error {
	visible := len(s.VisibleHours())
	if h < 0 || h >= visible {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrHourOutOfRange, h, visible)
	}

	if s.DayIndex == 0 {
		remaining := s.RemainingToday()
		if h >= remaining {
			s.DayIndex = 1
			s.HourIndex = h - remaining
			return nil
		}
	}
	s.HourIndex = h
	return nil
}

// ToggleUnit flips between Celsius and Fahrenheit.
func (s *State) ToggleUnit() Unit {
	s.Unit = s.Unit.Toggle()
	return s.Unit
}

// VisibleHours is the hour strip for the selected day. For day 0 it is
// today's remaining hours padded with day 1's leading hours up to 24. The
// returned slice is a copy; the forecast behind it is shared between sessions.
func (s *State) VisibleHours() []weather.HourRecord {
	if len(s.days) == 0 {
		return nil
	}
	if s.DayIndex != 0 {
		return slices.Clone(s.days[s.DayIndex].Hours)
	}

	today := s.days[0].Hours
	if len(s.days) < 2 || len(today) >= HoursPerStrip {
		return slices.Clone(today)
	}

	need := HoursPerStrip - len(today)
	next := s.days[1].Hours
	if need > len(next) {
		need = len(next)
	}

	out := make([]weather.HourRecord, 0, len(today)+need)
	out = append(out, today...)
	return append(out, next[:need]...)
}

// SelectedDay returns the selected DayRecord.
func (s *State) SelectedDay() weather.DayRecord {
	return s.days[s.DayIndex]
}

// SelectedHour returns the selected hour, or false when the selected day has
// no hours (a stale payload can leave today empty).
func (s *State) SelectedHour() (weather.HourRecord, bool) {
	hours := s.VisibleHours()
	if s.HourIndex < 0 || s.HourIndex >= len(hours) {
		return weather.HourRecord{}, false
	}
	return hours[s.HourIndex], true
}

// IsNow reports whether the selection is the hour in progress.
func (s *State) IsNow() bool {
	return s.DayIndex == 0 && s.HourIndex == 0 && s.RemainingToday() > 0
}

// RemainingToday is the number of hours left in day 0, including the current one.
func (s *State) RemainingToday() int {
	return len(s.days[0].Hours)
}
