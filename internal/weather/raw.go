package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidPayload marks provider responses that cannot be normalized.
var ErrInvalidPayload = errors.New("invalid forecast payload")

var validate = validator.New()

// ValidationError describes the first field of a provider payload that failed
// schema validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidPayload, e.Reason)
	}
	return fmt.Sprintf("%s: field %s failed %q", ErrInvalidPayload, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidPayload
}

// RawForecast is the WeatherAPI.com forecast.json response. Pointer fields are
// ones whose zero value is meaningful, so absence must be detected explicitly.
type RawForecast struct {
	Location RawLocation `json:"location"`
	Current  RawCurrent  `json:"current"`
	Forecast struct {
		ForecastDay []RawForecastDay `json:"forecastday" validate:"required,min=1,dive"`
	} `json:"forecast"`
}

type RawLocation struct {
	Name           string  `json:"name"`
	Region         string  `json:"region"`
	Country        string  `json:"country"`
	Lat            float64 `json:"lat" validate:"latitude"`
	Lon            float64 `json:"lon" validate:"longitude"`
	TzID           string  `json:"tz_id"`
	LocaltimeEpoch int64   `json:"localtime_epoch"`
}

type RawCondition struct {
	Text string `json:"text" validate:"required"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

type RawCurrent struct {
	LastUpdatedEpoch int64        `json:"last_updated_epoch"`
	TempC            *float64     `json:"temp_c" validate:"required"`
	FeelslikeC       *float64     `json:"feelslike_c" validate:"required"`
	IsDay            int          `json:"is_day" validate:"oneof=0 1"`
	Condition        RawCondition `json:"condition"`
	WindKph          float64      `json:"wind_kph" validate:"min=0"`
	Humidity         int          `json:"humidity" validate:"min=0,max=100"`
	VisKm            float64      `json:"vis_km" validate:"min=0"`
}

type RawForecastDay struct {
	Date      string    `json:"date" validate:"required"`
	DateEpoch int64     `json:"date_epoch" validate:"required"`
	Day       RawDay    `json:"day"`
	Astro     RawAstro  `json:"astro"`
	Hour      []RawHour `json:"hour" validate:"dive"`
}

type RawDay struct {
	MaxtempC          *float64     `json:"maxtemp_c" validate:"required"`
	MintempC          *float64     `json:"mintemp_c" validate:"required"`
	AvgtempC          *float64     `json:"avgtemp_c" validate:"required"`
	MaxwindKph        float64      `json:"maxwind_kph" validate:"min=0"`
	Avghumidity       float64      `json:"avghumidity" validate:"min=0,max=100"`
	DailyChanceOfRain int          `json:"daily_chance_of_rain" validate:"min=0,max=100"`
	Condition         RawCondition `json:"condition"`
}

type RawAstro struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

type RawHour struct {
	TimeEpoch    int64        `json:"time_epoch" validate:"required"`
	Time         string       `json:"time" validate:"required"`
	TempC        *float64     `json:"temp_c" validate:"required"`
	FeelslikeC   *float64     `json:"feelslike_c" validate:"required"`
	IsDay        int          `json:"is_day" validate:"oneof=0 1"`
	Condition    RawCondition `json:"condition"`
	WindKph      float64      `json:"wind_kph" validate:"min=0"`
	Humidity     int          `json:"humidity" validate:"min=0,max=100"`
	ChanceOfRain int          `json:"chance_of_rain" validate:"min=0,max=100"`
	VisKm        float64      `json:"vis_km" validate:"min=0"`
}

// DecodeForecast reads a forecast.json body. It only decodes; Normalize validates.
func DecodeForecast(r io.Reader) (RawForecast, error) {
	var raw RawForecast
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return RawForecast{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return raw, nil
}

// Validate checks the payload against its schema and returns a *ValidationError
// for the first failing field.
func (r RawForecast) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		reason := fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		return &ValidationError{Field: fe.Namespace(), Reason: reason}
	}
	return &ValidationError{Reason: err.Error()}
}
