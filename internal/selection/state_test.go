package selection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/selection"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/weathertest"
)

func newState(t *testing.T, days weather.ForecastSet) *selection.State {
	t.Helper()
	st, err := selection.New(days)
	require.NoError(t, err)
	return st
}

func TestNew(t *testing.T) {
	st := newState(t, weathertest.ForecastSet(10, 12))
	assert.Equal(t, 0, st.DayIndex)
	assert.Equal(t, 0, st.HourIndex)
	assert.Equal(t, selection.Celsius, st.Unit)
	assert.True(t, st.IsNow())

	_, err := selection.New(nil)
	assert.ErrorIs(t, err, selection.ErrNoForecast)
}

func TestVisibleHours_TodaySpansMidnight(t *testing.T) {
	st := newState(t, weathertest.ForecastSet(10, 12))

	hours := st.VisibleHours()
	require.Len(t, hours, selection.HoursPerStrip)
	assert.Equal(t, "2024-07-25 12:00", hours[0].Time)
	assert.Equal(t, "2024-07-25 23:00", hours[11].Time)
	assert.Equal(t, "2024-07-26 00:00", hours[12].Time)
	assert.Equal(t, "2024-07-26 11:00", hours[23].Time)
}

func TestVisibleHours_OtherDaysAreTheirOwn(t *testing.T) {
	st := newState(t, weathertest.ForecastSet(10, 12))
	require.NoError(t, st.SelectDay(3))

	hours := st.VisibleHours()
	require.Len(t, hours, 24)
	assert.Equal(t, "2024-07-28 00:00", hours[0].Time)
}

func TestVisibleHours_ReturnsACopy(t *testing.T) {
	days := weathertest.ForecastSet(10, 24)
	st := newState(t, days)

	st.VisibleHours()[0].Time = "changed"
	require.NoError(t, st.SelectDay(3))
	st.VisibleHours()[0].Time = "changed"

	assert.Equal(t, "2024-07-25 00:00", days[0].Hours[0].Time)
	assert.Equal(t, "2024-07-28 00:00", days[3].Hours[0].Time)
}

func TestVisibleHours_SingleDay(t *testing.T) {
	st := newState(t, weathertest.ForecastSet(1, 5))
	assert.Len(t, st.VisibleHours(), 5)
}

func TestSelectHour_RollsOverToTomorrow(t *testing.T) {
	testCases := []struct {
		name      string
		hour      int
		wantDay   int
		wantHour  int
		wantLabel string
	}{
		{name: "first hour of today", hour: 0, wantDay: 0, wantHour: 0, wantLabel: "2024-07-25 12:00"},
		{name: "last hour of today", hour: 11, wantDay: 0, wantHour: 11, wantLabel: "2024-07-25 23:00"},
		{name: "first hour of tomorrow", hour: 12, wantDay: 1, wantHour: 0, wantLabel: "2024-07-26 00:00"},
		{name: "last hour of the strip", hour: 23, wantDay: 1, wantHour: 11, wantLabel: "2024-07-26 11:00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st := newState(t, weathertest.ForecastSet(10, 12))
			require.NoError(t, st.SelectHour(tc.hour))

			assert.Equal(t, tc.wantDay, st.DayIndex)
			assert.Equal(t, tc.wantHour, st.HourIndex)

			hour, ok := st.SelectedHour()
			require.True(t, ok)
			assert.Equal(t, tc.wantLabel, hour.Time)
		})
	}
}

func TestSelectHour_NoRolloverAwayFromToday(t *testing.T) {
	st := newState(t, weathertest.ForecastSet(10, 12))
	require.NoError(t, st.SelectDay(2))
	require.NoError(t, st.SelectHour(20))

	assert.Equal(t, 2, st.DayIndex)
	assert.Equal(t, 20, st.HourIndex)
	assert.False(t, st.IsNow())
}

func TestSelectHour_OutOfRange(t *testing.T) {
	st := newState(t, weathertest.ForecastSet(10, 12))

	assert.ErrorIs(t, st.SelectHour(-1), selection.ErrHourOutOfRange)
	assert.ErrorIs(t, st.SelectHour(24), selection.ErrHourOutOfRange)
	assert.Equal(t, 0, st.DayIndex)
	assert.Equal(t, 0, st.HourIndex)
}

func TestSelectHour_EmptyTodayRollsStraightOver(t *testing.T) {
	st := newState(t, weathertest.ForecastSet(3, 0))
	assert.False(t, st.IsNow())

	require.NoError(t, st.SelectHour(0))
	assert.Equal(t, 1, st.DayIndex)
	assert.Equal(t, 0, st.HourIndex)
}

func TestSelectDay(t *testing.T) {
	st := newState(t, weathertest.ForecastSet(10, 12))
	require.NoError(t, st.SelectHour(5))

	require.NoError(t, st.SelectDay(4))
	assert.Equal(t, 4, st.DayIndex)
	assert.Equal(t, 0, st.HourIndex, "changing day resets the hour")
	assert.Equal(t, "2024-07-29", st.SelectedDay().Date)

	require.NoError(t, st.SelectHour(7))
	require.NoError(t, st.SelectDay(4))
	assert.Equal(t, 0, st.HourIndex, "reselecting the same day resets too")

	assert.ErrorIs(t, st.SelectDay(10), selection.ErrDayOutOfRange)
	assert.ErrorIs(t, st.SelectDay(-1), selection.ErrDayOutOfRange)
	assert.Equal(t, 4, st.DayIndex)
}

func TestToggleUnit(t *testing.T) {
	st := newState(t, weathertest.ForecastSet(2, 24))

	assert.Equal(t, selection.Fahrenheit, st.ToggleUnit())
	assert.Equal(t, selection.Celsius, st.ToggleUnit())
}

func TestRebind(t *testing.T) {
	t.Run("keeps a selection that still fits", func(t *testing.T) {
		st := newState(t, weathertest.ForecastSet(10, 12))
		require.NoError(t, st.SelectDay(2))
		require.NoError(t, st.SelectHour(6))
		st.ToggleUnit()

		require.NoError(t, st.Rebind(weathertest.ForecastSet(10, 11)))
		assert.Equal(t, 2, st.DayIndex)
		assert.Equal(t, 6, st.HourIndex)
		assert.Equal(t, selection.Fahrenheit, st.Unit)
	})

	t.Run("follows the selected hour when today loses an hour", func(t *testing.T) {
		st := newState(t, weathertest.ForecastSet(10, 12))
		require.NoError(t, st.SelectHour(3))
		before, ok := st.SelectedHour()
		require.True(t, ok)
		require.Equal(t, "2024-07-25 15:00", before.Time)

		require.NoError(t, st.Rebind(weathertest.ForecastSet(10, 11)))
		after, ok := st.SelectedHour()
		require.True(t, ok)
		assert.Equal(t, before.Time, after.Time)
		assert.Equal(t, 0, st.DayIndex)
		assert.Equal(t, 2, st.HourIndex)
	})

	t.Run("follows the selected hour across midnight", func(t *testing.T) {
		days := weathertest.ForecastSet(10, 12)
		st := newState(t, days)
		require.NoError(t, st.SelectDay(2))
		require.NoError(t, st.SelectHour(5))

		require.NoError(t, st.Rebind(days[1:]))
		assert.Equal(t, 1, st.DayIndex)
		assert.Equal(t, 5, st.HourIndex)
		hour, ok := st.SelectedHour()
		require.True(t, ok)
		assert.Equal(t, "2024-07-27 05:00", hour.Time)
	})

	t.Run("resets when the selected hour has ended", func(t *testing.T) {
		st := newState(t, weathertest.ForecastSet(10, 12))
		require.NoError(t, st.SelectHour(0))

		require.NoError(t, st.Rebind(weathertest.ForecastSet(10, 11)))
		assert.Equal(t, 0, st.DayIndex)
		assert.Equal(t, 0, st.HourIndex)
		assert.True(t, st.IsNow())
	})

	t.Run("resets a selection that no longer fits", func(t *testing.T) {
		st := newState(t, weathertest.ForecastSet(10, 12))
		require.NoError(t, st.SelectDay(9))

		require.NoError(t, st.Rebind(weathertest.ForecastSet(3, 12)))
		assert.Equal(t, 0, st.DayIndex)
		assert.Equal(t, 0, st.HourIndex)
		assert.Len(t, st.Days(), 3)
	})

	t.Run("rejects an empty forecast", func(t *testing.T) {
		st := newState(t, weathertest.ForecastSet(2, 12))
		assert.ErrorIs(t, st.Rebind(nil), selection.ErrNoForecast)
		assert.Len(t, st.Days(), 2)
	})
}
