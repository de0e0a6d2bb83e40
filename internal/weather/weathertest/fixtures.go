// Package weathertest builds forecast fixtures for tests.
package weathertest

import (
	"fmt"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Day0 is the first forecast day used by the fixtures: 2024-07-25 (a Thursday), UTC.
var Day0 = time.Date(2024, time.July, 25, 0, 0, 0, 0, time.UTC)

func f(v float64) *float64 { return &v }

// RawForecast returns a provider payload with n full days of 24 hours each,
// starting at Day0. Hour h of day d has temperature 10+h+0.4 °C and rain
// chance h*4 %.
func RawForecast(n int) weather.RawForecast {
	var raw weather.RawForecast
	raw.Location = weather.RawLocation{
		Name:           "Bangalore",
		Region:         "Karnataka",
		Country:        "India",
		Lat:            12.98,
		Lon:            77.58,
		TzID:           "UTC",
		LocaltimeEpoch: Day0.Add(12 * time.Hour).Unix(),
	}
	raw.Current = weather.RawCurrent{
		LastUpdatedEpoch: Day0.Add(12 * time.Hour).Unix(),
		TempC:            f(24.6),
		FeelslikeC:       f(26.2),
		IsDay:            1,
		Condition: weather.RawCondition{
			Text: "Partly cloudy",
			Icon: "//cdn.weatherapi.com/weather/64x64/day/116.png",
			Code: 1003,
		},
		WindKph:  11.2,
		Humidity: 70,
		VisKm:    6,
	}

	for d := 0; d < n; d++ {
		date := Day0.AddDate(0, 0, d)
		day := weather.RawForecastDay{
			Date:      date.Format("2006-01-02"),
			DateEpoch: date.Unix(),
			Day: weather.RawDay{
				MaxtempC:          f(28.5),
				MintempC:          f(19.4),
				AvgtempC:          f(22.5 + float64(d)),
				MaxwindKph:        18.7,
				Avghumidity:       72,
				DailyChanceOfRain: 80,
				Condition: weather.RawCondition{
					Text: "Patchy rain nearby",
					Icon: "//cdn.weatherapi.com/weather/64x64/day/176.png",
					Code: 1063,
				},
			},
			Astro: weather.RawAstro{Sunrise: "06:02 AM", Sunset: "06:49 PM"},
		}
		for h := 0; h < 24; h++ {
			at := date.Add(time.Duration(h) * time.Hour)
			isDay := 0
			if h >= 6 && h < 19 {
				isDay = 1
			}
			day.Hour = append(day.Hour, weather.RawHour{
				TimeEpoch:  at.Unix(),
				Time:       at.Format("2006-01-02 15:04"),
				TempC:      f(10 + float64(h) + 0.4),
				FeelslikeC: f(11 + float64(h)),
				IsDay:      isDay,
				Condition: weather.RawCondition{
					Text: "Light rain shower",
					Icon: "//cdn.weatherapi.com/weather/64x64/day/353.png",
					Code: 1240,
				},
				WindKph:      float64(h),
				Humidity:     60,
				ChanceOfRain: h * 4,
				VisKm:        10,
			})
		}
		raw.Forecast.ForecastDay = append(raw.Forecast.ForecastDay, day)
	}
	return raw
}

// ForecastSet returns n normalized days; day 0 keeps only its last
// todayHours hours, as if it were (24-todayHours):00 now.
func ForecastSet(n, todayHours int) weather.ForecastSet {
	days := make(weather.ForecastSet, 0, n)
	for d := 0; d < n; d++ {
		date := Day0.AddDate(0, 0, d)
		day := weather.DayRecord{
			Date:                date.Format("2006-01-02"),
			DateEpoch:           date.Unix(),
			AverageTemperatureC: 20 + d,
			MaxTemperatureC:     25 + d,
			MinTemperatureC:     15 + d,
			Condition:           weather.Condition{Text: "Sunny", Icon: "//cdn.weatherapi.com/weather/64x64/day/113.png", Kind: weather.ConditionClear},
			PrecipitationChance: 10 * d,
			MaxWindKph:          20,
			Sunrise:             fmt.Sprintf("06:0%d AM", d%10),
			Sunset:              "06:49 PM",
		}
		first := 0
		if d == 0 {
			first = 24 - todayHours
		}
		for h := first; h < 24; h++ {
			at := date.Add(time.Duration(h) * time.Hour)
			day.Hours = append(day.Hours, weather.HourRecord{
				TemperatureC:        h,
				FeelsLikeC:          h + 1,
				Condition:           weather.Condition{Text: "Clear", Icon: "//cdn.weatherapi.com/weather/64x64/night/113.png", Kind: weather.ConditionClear},
				Humidity:            50,
				PrecipitationChance: h,
				VisibilityKm:        10,
				WindSpeedKph:        float64(h) + 0.5,
				IsDaytime:           h >= 6 && h < 19,
				EpochTime:           at.Unix(),
				Time:                at.Format("2006-01-02 15:04"),
			})
		}
		days = append(days, day)
	}
	return days
}
