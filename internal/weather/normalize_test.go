package weather_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/weathertest"
)

func normalizerAt(t time.Time) *weather.Normalizer {
	return &weather.Normalizer{Now: func() time.Time { return t }}
}

func TestNormalize_TruncatesFirstDayToRemainingHours(t *testing.T) {
	now := weathertest.Day0.Add(12*time.Hour + 30*time.Minute)

	fc, err := normalizerAt(now).Normalize(weathertest.RawForecast(3))
	require.NoError(t, err)

	require.Len(t, fc.Days, 3)
	require.Len(t, fc.Days[0].Hours, 12)
	assert.Equal(t, "2024-07-25 12:00", fc.Days[0].Hours[0].Time)
	assert.Equal(t, "2024-07-25 23:00", fc.Days[0].Hours[11].Time)
	assert.Len(t, fc.Days[1].Hours, 24)
	assert.Len(t, fc.Days[2].Hours, 24)
}

func TestNormalize_KeepsWholeDayAtMidnight(t *testing.T) {
	fc, err := normalizerAt(weathertest.Day0).Normalize(weathertest.RawForecast(2))
	require.NoError(t, err)
	assert.Len(t, fc.Days[0].Hours, 24)
}

func TestNormalize_StalePayloadLeavesTodayEmpty(t *testing.T) {
	now := weathertest.Day0.Add(25 * time.Hour)

	fc, err := normalizerAt(now).Normalize(weathertest.RawForecast(2))
	require.NoError(t, err)

	assert.Empty(t, fc.Days[0].Hours)
	// Without an hour in progress the daily chance is used.
	assert.Equal(t, 80, fc.Current.PrecipitationChance)
}

func TestNormalize_RoundsAndCopiesFields(t *testing.T) {
	now := weathertest.Day0.Add(12 * time.Hour)

	fc, err := normalizerAt(now).Normalize(weathertest.RawForecast(2))
	require.NoError(t, err)

	day := fc.Days[0]
	assert.Equal(t, 23, day.AverageTemperatureC, "22.5 rounds half up")
	assert.Equal(t, 24, fc.Days[1].AverageTemperatureC, "23.5 rounds half up")
	assert.Equal(t, 29, day.MaxTemperatureC)
	assert.Equal(t, 19, day.MinTemperatureC)
	assert.Equal(t, "06:02 AM", day.Sunrise)
	assert.Equal(t, "06:49 PM", day.Sunset)
	assert.Equal(t, "Patchy rain nearby", day.Condition.Text)
	assert.Equal(t, "//cdn.weatherapi.com/weather/64x64/day/176.png", day.Condition.Icon)
	assert.Equal(t, weather.ConditionRain, day.Condition.Kind)
	assert.Equal(t, 80, day.PrecipitationChance)

	hour := day.Hours[0]
	assert.Equal(t, 22, hour.TemperatureC)
	assert.Equal(t, 23, hour.FeelsLikeC)
	assert.Equal(t, 48, hour.PrecipitationChance)
	assert.True(t, hour.IsDaytime)
	assert.Equal(t, weathertest.Day0.Add(12*time.Hour).Unix(), hour.EpochTime)

	assert.Equal(t, 25, fc.Current.TemperatureC)
	assert.Equal(t, 26, fc.Current.FeelsLikeC)
	assert.Equal(t, 48, fc.Current.PrecipitationChance, "current rain chance comes from the hour in progress")
	assert.Equal(t, weather.ConditionCloudy, fc.Current.Condition.Kind)

	assert.Equal(t, "Bangalore", fc.Location.Name)
	assert.Equal(t, "Karnataka", fc.Location.Region)
	assert.Equal(t, now.UTC(), fc.FetchedAt)
}

func TestNormalize_OneDayRecordPerInputDayUpToTen(t *testing.T) {
	for _, n := range []int{1, 3, 10, 14} {
		fc, err := normalizerAt(weathertest.Day0).Normalize(weathertest.RawForecast(n))
		require.NoError(t, err)

		want := n
		if want > weather.MaxForecastDays {
			want = weather.MaxForecastDays
		}
		assert.Len(t, fc.Days, want, "input days %d", n)
	}
}

func TestNormalize_RejectsMalformedPayloads(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(raw *weather.RawForecast)
		field  string
	}{
		{
			name:   "no forecast days",
			mutate: func(raw *weather.RawForecast) { raw.Forecast.ForecastDay = nil },
			field:  "ForecastDay",
		},
		{
			name:   "missing hourly temperature",
			mutate: func(raw *weather.RawForecast) { raw.Forecast.ForecastDay[1].Hour[3].TempC = nil },
			field:  "ForecastDay[1].Hour[3].TempC",
		},
		{
			name:   "missing daily average",
			mutate: func(raw *weather.RawForecast) { raw.Forecast.ForecastDay[0].Day.AvgtempC = nil },
			field:  "AvgtempC",
		},
		{
			name:   "humidity out of range",
			mutate: func(raw *weather.RawForecast) { raw.Forecast.ForecastDay[0].Hour[0].Humidity = 120 },
			field:  "Humidity",
		},
		{
			name:   "missing current temperature",
			mutate: func(raw *weather.RawForecast) { raw.Current.TempC = nil },
			field:  "Current.TempC",
		},
		{
			name:   "missing condition text",
			mutate: func(raw *weather.RawForecast) { raw.Forecast.ForecastDay[0].Day.Condition.Text = "" },
			field:  "Condition.Text",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw := weathertest.RawForecast(2)
			tc.mutate(&raw)

			_, err := normalizerAt(weathertest.Day0).Normalize(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, weather.ErrInvalidPayload))

			var verr *weather.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Field, tc.field)
		})
	}
}

func TestDecodeForecast(t *testing.T) {
	body := `{
	  "location": {"name": "Bangalore", "region": "Karnataka", "country": "India",
	               "lat": 12.98, "lon": 77.58, "tz_id": "Asia/Kolkata", "localtime_epoch": 1721908800},
	  "current": {"last_updated_epoch": 1721908800, "temp_c": 24.1, "feelslike_c": 25.9, "is_day": 1,
	              "condition": {"text": "Mist", "icon": "//cdn.weatherapi.com/weather/64x64/day/143.png", "code": 1030},
	              "wind_kph": 14.4, "humidity": 83, "vis_km": 5.0},
	  "forecast": {"forecastday": [{
	    "date": "2024-07-25", "date_epoch": 1721865600,
	    "day": {"maxtemp_c": 27.3, "mintemp_c": 20.6, "avgtemp_c": 23.1, "maxwind_kph": 20.9,
	            "avghumidity": 78, "daily_chance_of_rain": 86,
	            "condition": {"text": "Patchy rain nearby", "icon": "//cdn.weatherapi.com/weather/64x64/day/176.png", "code": 1063}},
	    "astro": {"sunrise": "06:02 AM", "sunset": "06:49 PM"},
	    "hour": [{"time_epoch": 1721908800, "time": "2024-07-25 17:30", "temp_c": 24.0, "feelslike_c": 25.9,
	              "is_day": 1, "condition": {"text": "Patchy rain nearby", "icon": "//cdn.weatherapi.com/weather/64x64/day/176.png", "code": 1063},
	              "wind_kph": 14.4, "humidity": 83, "chance_of_rain": 73, "vis_km": 10.0}]
	  }]}
	}`

	raw, err := weather.DecodeForecast(strings.NewReader(body))
	require.NoError(t, err)

	fc, err := normalizerAt(time.Unix(1721908800, 0)).Normalize(raw)
	require.NoError(t, err)

	require.Len(t, fc.Days, 1)
	require.Len(t, fc.Days[0].Hours, 1)
	assert.Equal(t, 73, fc.Current.PrecipitationChance)
	assert.Equal(t, weather.ConditionMist, fc.Current.Condition.Kind)
	assert.Equal(t, "Asia/Kolkata", fc.Location.TimeZone)
	assert.Equal(t, 23, fc.Days[0].AverageTemperatureC)
}

func TestDecodeForecast_InvalidJSON(t *testing.T) {
	_, err := weather.DecodeForecast(strings.NewReader(`{"forecast": [`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, weather.ErrInvalidPayload))
}

func TestRoundDegrees(t *testing.T) {
	assert.Equal(t, 21, weather.RoundDegrees(20.5))
	assert.Equal(t, 20, weather.RoundDegrees(20.49))
	assert.Equal(t, 0, weather.RoundDegrees(-0.5))
	assert.Equal(t, -1, weather.RoundDegrees(-0.51))
}

func TestClassifyCondition(t *testing.T) {
	testCases := []struct {
		text string
		want weather.ConditionKind
	}{
		{"Sunny", weather.ConditionClear},
		{"Clear ", weather.ConditionClear},
		{"Partly Cloudy ", weather.ConditionCloudy},
		{"Overcast", weather.ConditionCloudy},
		{"Mist", weather.ConditionMist},
		{"Freezing fog", weather.ConditionMist},
		{"Patchy light drizzle", weather.ConditionRain},
		{"Moderate or heavy rain shower", weather.ConditionRain},
		{"Light sleet", weather.ConditionSnow},
		{"Blizzard", weather.ConditionSnow},
		{"Thundery outbreaks possible", weather.ConditionStorm},
		{"Patchy light snow with thunder", weather.ConditionStorm},
		{"", weather.ConditionUnknown},
		{"Volcanic ash", weather.ConditionUnknown},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, weather.ClassifyCondition(tc.text), tc.text)
	}
}
