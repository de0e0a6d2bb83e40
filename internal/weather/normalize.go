package weather

import (
	"math"
	"time"

	"github.com/i474232898/weather-dashboard/internal/common"
)

// Normalizer turns provider payloads into Forecast view-models.
type Normalizer struct {
	// Now decides which of today's hours are already over.
	Now func() time.Time
}

// NewNormalizer returns a Normalizer that uses the wall clock.
func NewNormalizer() *Normalizer {
	return &Normalizer{Now: time.Now}
}

// Normalize validates raw and reshapes it. Day 0 keeps only the hour that
// contains "now" and the hours after it.
func (n *Normalizer) Normalize(raw RawForecast) (Forecast, error) {
	if err := raw.Validate(); err != nil {
		return Forecast{}, err
	}

	now := time.Now()
	if n != nil && n.Now != nil {
		now = n.Now()
	}

	rawDays := raw.Forecast.ForecastDay
	if len(rawDays) > MaxForecastDays {
		rawDays = rawDays[:MaxForecastDays]
	}

	days := make(ForecastSet, 0, len(rawDays))
	for i, rd := range rawDays {
		hours := rd.Hour
		if i == 0 {
			hours = remainingHours(hours, now)
		}
		days = append(days, normalizeDay(rd, hours))
	}

	loc := Location{
		Latitude:  raw.Location.Lat,
		Longitude: raw.Location.Lon,
		Name:      raw.Location.Name,
		Region:    raw.Location.Region,
		Country:   raw.Location.Country,
		TimeZone:  raw.Location.TzID,
	}

	return Forecast{
		Location:  loc,
		Current:   normalizeCurrent(raw.Current, days[0]),
		Days:      days,
		FetchedAt: now.UTC(),
	}, nil
}

// RoundDegrees rounds half up, so 20.5 becomes 21 and -0.5 becomes 0.
func RoundDegrees(v float64) int {
	return int(math.Floor(v + 0.5))
}

// ClassifyCondition maps WeatherAPI condition text to a ConditionKind.
func ClassifyCondition(text string) ConditionKind {
	switch {
	case text == "":
		return ConditionUnknown
	case common.HasAny(text, "thunder", "storm"):
		return ConditionStorm
	case common.HasAny(text, "snow", "sleet", "blizzard", "ice pellets"):
		return ConditionSnow
	case common.HasAny(text, "rain", "shower", "drizzle"):
		return ConditionRain
	case common.HasAny(text, "mist", "fog"):
		return ConditionMist
	case common.HasAny(text, "cloud", "overcast"):
		return ConditionCloudy
	case common.HasAny(text, "sunny", "clear"):
		return ConditionClear
	default:
		return ConditionUnknown
	}
}

func remainingHours(hours []RawHour, now time.Time) []RawHour {
	cutoff := now.Unix()
	for i, h := range hours {
		if h.TimeEpoch+int64(time.Hour/time.Second) > cutoff {
			return hours[i:]
		}
	}
	return nil
}

func normalizeDay(rd RawForecastDay, hours []RawHour) DayRecord {
	day := DayRecord{
		Date:                rd.Date,
		DateEpoch:           rd.DateEpoch,
		AverageTemperatureC: RoundDegrees(*rd.Day.AvgtempC),
		MaxTemperatureC:     RoundDegrees(*rd.Day.MaxtempC),
		MinTemperatureC:     RoundDegrees(*rd.Day.MintempC),
		Condition:           normalizeCondition(rd.Day.Condition),
		PrecipitationChance: rd.Day.DailyChanceOfRain,
		MaxWindKph:          rd.Day.MaxwindKph,
		AverageHumidity:     RoundDegrees(rd.Day.Avghumidity),
		Sunrise:             rd.Astro.Sunrise,
		Sunset:              rd.Astro.Sunset,
		Hours:               make([]HourRecord, 0, len(hours)),
	}
	for _, h := range hours {
		day.Hours = append(day.Hours, normalizeHour(h))
	}
	return day
}

func normalizeHour(h RawHour) HourRecord {
	return HourRecord{
		TemperatureC:        RoundDegrees(*h.TempC),
		FeelsLikeC:          RoundDegrees(*h.FeelslikeC),
		Condition:           normalizeCondition(h.Condition),
		Humidity:            h.Humidity,
		PrecipitationChance: h.ChanceOfRain,
		VisibilityKm:        h.VisKm,
		WindSpeedKph:        h.WindKph,
		IsDaytime:           h.IsDay == 1,
		EpochTime:           h.TimeEpoch,
		Time:                h.Time,
	}
}

// The current block carries no rain chance, so it is borrowed from the
// hour in progress, falling back to today's aggregate.
func normalizeCurrent(c RawCurrent, today DayRecord) CurrentConditions {
	precip := today.PrecipitationChance
	if len(today.Hours) > 0 {
		precip = today.Hours[0].PrecipitationChance
	}
	return CurrentConditions{
		TemperatureC:        RoundDegrees(*c.TempC),
		FeelsLikeC:          RoundDegrees(*c.FeelslikeC),
		Condition:           normalizeCondition(c.Condition),
		Humidity:            c.Humidity,
		PrecipitationChance: precip,
		VisibilityKm:        c.VisKm,
		WindSpeedKph:        c.WindKph,
		IsDaytime:           c.IsDay == 1,
		LastUpdatedEpoch:    c.LastUpdatedEpoch,
	}
}

func normalizeCondition(c RawCondition) Condition {
	return Condition{
		Text: c.Text,
		Icon: c.Icon,
		Code: c.Code,
		Kind: ClassifyCondition(c.Text),
	}
}
