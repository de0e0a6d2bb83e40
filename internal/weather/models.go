package weather

import (
	"fmt"
	"time"
)

// MaxForecastDays is the largest number of days kept in a ForecastSet.
const MaxForecastDays = 10

// ConditionKind is a normalized high-level weather category derived from
// the provider's free-text condition.
type ConditionKind string

const (
	ConditionUnknown ConditionKind = "unknown"
	ConditionClear   ConditionKind = "clear"
	ConditionCloudy  ConditionKind = "cloudy"
	ConditionRain    ConditionKind = "rain"
	ConditionSnow    ConditionKind = "snow"
	ConditionStorm   ConditionKind = "storm"
	ConditionMist    ConditionKind = "mist"
)

// Location is a resolved place. It does not change until a new resolution
// replaces it.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country,omitempty"`
	TimeZone  string  `json:"timeZone,omitempty"`
}

// Key returns a canonical string key for indexing this location in caches.
func (l Location) Key() string {
	return fmt.Sprintf("%.4f,%.4f", l.Latitude, l.Longitude)
}

// Condition is the provider's condition label plus our normalized kind.
type Condition struct {
	Text string        `json:"text"`
	Icon string        `json:"icon"`
	Code int           `json:"code"`
	Kind ConditionKind `json:"kind"`
}

// HourRecord is one hour of forecast. Temperatures are whole degrees Celsius.
type HourRecord struct {
	TemperatureC        int       `json:"temperatureC"`
	FeelsLikeC          int       `json:"feelsLikeC"`
	Condition           Condition `json:"condition"`
	Humidity            int       `json:"humidity"`
	PrecipitationChance int       `json:"precipitationChance"`
	VisibilityKm        float64   `json:"visibilityKm"`
	WindSpeedKph        float64   `json:"windSpeedKph"`
	IsDaytime           bool      `json:"isDaytime"`
	EpochTime           int64     `json:"epochTime"`
	Time                string    `json:"time"` // provider local time, "2006-01-02 15:04"
}

// DayRecord is one forecast day. Sunrise and Sunset are the provider's
// strings, e.g. "06:02 AM".
type DayRecord struct {
	Date                string       `json:"date"`
	DateEpoch           int64        `json:"dateEpoch"`
	AverageTemperatureC int          `json:"averageTemperatureC"`
	MaxTemperatureC     int          `json:"maxTemperatureC"`
	MinTemperatureC     int          `json:"minTemperatureC"`
	Condition           Condition    `json:"condition"`
	PrecipitationChance int          `json:"precipitationChance"`
	MaxWindKph          float64      `json:"maxWindKph"`
	AverageHumidity     int          `json:"averageHumidity"`
	Sunrise             string       `json:"sunrise"`
	Sunset              string       `json:"sunset"`
	Hours               []HourRecord `json:"hours"`
}

// ForecastSet is ordered by date; index 0 is today and its hour list may be partial.
type ForecastSet []DayRecord

// CurrentConditions mirrors the provider's "current" block.
type CurrentConditions struct {
	TemperatureC        int       `json:"temperatureC"`
	FeelsLikeC          int       `json:"feelsLikeC"`
	Condition           Condition `json:"condition"`
	Humidity            int       `json:"humidity"`
	PrecipitationChance int       `json:"precipitationChance"`
	VisibilityKm        float64   `json:"visibilityKm"`
	WindSpeedKph        float64   `json:"windSpeedKph"`
	IsDaytime           bool      `json:"isDaytime"`
	LastUpdatedEpoch    int64     `json:"lastUpdatedEpoch"`
}

// Forecast is the normalized view-model for one location.
type Forecast struct {
	Location  Location          `json:"location"`
	Current   CurrentConditions `json:"current"`
	Days      ForecastSet       `json:"days"`
	FetchedAt time.Time         `json:"fetchedAt"`
}
