// Package dashboard builds the presentation models for the four dashboard
// panels from a forecast and a selection. Builders are pure: the same input
// always yields the same view.
package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/selection"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	providerTimeLayout = "2006-01-02 15:04"
	providerDateLayout = "2006-01-02"
)

type LocationView struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CurrentConditionView struct {
	Label         string                `json:"label"`
	Temperature   string                `json:"temperature"`
	Condition     string                `json:"condition"`
	Theme         weather.ConditionKind `json:"theme"`
	IconURL       string                `json:"iconUrl"`
	FeelsLike     string                `json:"feelsLike"`
	Precipitation string                `json:"precipitation"`
	Humidity      string                `json:"humidity"`
	Visibility    string                `json:"visibility"`
	IsDaytime     bool                  `json:"isDaytime"`
}

type HourView struct {
	Index       int    `json:"index"`
	Label       string `json:"label"`
	Temperature string `json:"temperature"`
	IconURL     string `json:"iconUrl"`
	Selected    bool   `json:"selected"`
}

type HourlyForecastView struct {
	Title string     `json:"title"`
	Hours []HourView `json:"hours"`
}

type DayView struct {
	Index       int    `json:"index"`
	Label       string `json:"label"`
	Date        string `json:"date"`
	Temperature string `json:"temperature"`
	High        string `json:"high"`
	Low         string `json:"low"`
	IconURL     string `json:"iconUrl"`
	Selected    bool   `json:"selected"`
}

type DailyForecastView struct {
	Title string    `json:"title"`
	Days  []DayView `json:"days"`
}

type AstroWindView struct {
	Sunrise   string `json:"sunrise"`
	Sunset    string `json:"sunset"`
	WindSpeed string `json:"windSpeed"`
}

// Dashboard is everything one screen shows. Forecast panels are nil when no
// location could be resolved or no forecast is loaded.
type Dashboard struct {
	Location     *LocationView         `json:"location"`
	Unit         selection.Unit        `json:"unit"`
	SelectedDay  int                   `json:"selectedDay"`
	SelectedHour int                   `json:"selectedHour"`
	Current      *CurrentConditionView `json:"current,omitempty"`
	Hourly       *HourlyForecastView   `json:"hourly,omitempty"`
	Daily        *DailyForecastView    `json:"daily,omitempty"`
	AstroWind    *AstroWindView        `json:"astroWind,omitempty"`
}

// Build assembles all panels. loc, fc and st may each be nil.
func Build(loc *weather.Location, fc *weather.Forecast, st *selection.State) Dashboard {
	d := Dashboard{Unit: selection.Celsius}
	if loc != nil {
		d.Location = &LocationView{
			Name:      loc.Name,
			Region:    loc.Region,
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
		}
	}
	if fc == nil || st == nil {
		return d
	}

	d.Unit = st.Unit
	d.SelectedDay = st.DayIndex
	d.SelectedHour = st.HourIndex

	current := BuildCurrentCondition(fc, st)
	hourly := BuildHourlyForecast(st)
	daily := BuildDailyForecast(st)
	astro := BuildAstroWind(st)

	d.Current = &current
	d.Hourly = &hourly
	d.Daily = &daily
	d.AstroWind = &astro
	return d
}

// BuildCurrentCondition shows the provider's current block while the hour in
// progress is selected, and the selected hour's forecast otherwise.
func BuildCurrentCondition(fc *weather.Forecast, st *selection.State) CurrentConditionView {
	hour, ok := st.SelectedHour()
	if st.IsNow() || !ok {
		c := fc.Current
		return CurrentConditionView{
			Label:         "Now",
			Temperature:   selection.FormatTemperature(&c.TemperatureC, st.Unit),
			Condition:     c.Condition.Text,
			Theme:         c.Condition.Kind,
			IconURL:       IconURL(c.Condition.Icon),
			FeelsLike:     selection.FormatTemperature(&c.FeelsLikeC, st.Unit),
			Precipitation: percent(c.PrecipitationChance),
			Humidity:      percent(c.Humidity),
			Visibility:    kilometres(c.VisibilityKm),
			IsDaytime:     c.IsDaytime,
		}
	}

	return CurrentConditionView{
		Label:         HourLabel(hour),
		Temperature:   selection.FormatTemperature(&hour.TemperatureC, st.Unit),
		Condition:     hour.Condition.Text,
		Theme:         hour.Condition.Kind,
		IconURL:       IconURL(hour.Condition.Icon),
		FeelsLike:     selection.FormatTemperature(&hour.FeelsLikeC, st.Unit),
		Precipitation: percent(hour.PrecipitationChance),
		Humidity:      percent(hour.Humidity),
		Visibility:    kilometres(hour.VisibilityKm),
		IsDaytime:     hour.IsDaytime,
	}
}

// BuildHourlyForecast renders the visible hour strip.
func BuildHourlyForecast(st *selection.State) HourlyForecastView {
	hours := st.VisibleHours()
	view := HourlyForecastView{
		Title: "HOURLY FORECAST",
		Hours: make([]HourView, 0, len(hours)),
	}
	for i, h := range hours {
		label := HourLabel(h)
		if i == 0 && st.DayIndex == 0 && st.RemainingToday() > 0 {
			label = "Now"
		}
		view.Hours = append(view.Hours, HourView{
			Index:       i,
			Label:       label,
			Temperature: selection.FormatTemperature(&h.TemperatureC, st.Unit),
			IconURL:     IconURL(h.Condition.Icon),
			Selected:    i == st.HourIndex,
		})
	}
	return view
}

// BuildDailyForecast renders one tile per forecast day.
func BuildDailyForecast(st *selection.State) DailyForecastView {
	days := st.Days()
	view := DailyForecastView{
		Title: fmt.Sprintf("%d-DAY FORECAST", len(days)),
		Days:  make([]DayView, 0, len(days)),
	}
	for i, d := range days {
		label, date := DayLabel(i, d.Date)
		view.Days = append(view.Days, DayView{
			Index:       i,
			Label:       label,
			Date:        date,
			Temperature: selection.FormatTemperature(&d.AverageTemperatureC, st.Unit),
			High:        selection.FormatTemperature(&d.MaxTemperatureC, st.Unit),
			Low:         selection.FormatTemperature(&d.MinTemperatureC, st.Unit),
			IconURL:     IconURL(d.Condition.Icon),
			Selected:    i == st.DayIndex,
		})
	}
	return view
}

// BuildAstroWind shows the selected day's sun times and the selected hour's
// wind, falling back to the day's maximum wind.
func BuildAstroWind(st *selection.State) AstroWindView {
	day := st.SelectedDay()
	wind := day.MaxWindKph
	if hour, ok := st.SelectedHour(); ok {
		wind = hour.WindSpeedKph
	}
	return AstroWindView{
		Sunrise:   day.Sunrise,
		Sunset:    day.Sunset,
		WindSpeed: strconv.FormatFloat(wind, 'f', -1, 64) + " km/hr",
	}
}

// HourLabel is "HH:00" in the location's local time.
func HourLabel(h weather.HourRecord) string {
	if t, err := time.Parse(providerTimeLayout, h.Time); err == nil {
		return t.Format("15:00")
	}
	return time.Unix(h.EpochTime, 0).UTC().Format("15:00")
}

// DayLabel returns "Today" or the weekday, and the date as day/month.
func DayLabel(index int, date string) (string, string) {
	t, err := time.Parse(providerDateLayout, date)
	if err != nil {
		if index == 0 {
			return "Today", date
		}
		return date, date
	}
	label := t.Weekday().String()[:3]
	if index == 0 {
		label = "Today"
	}
	return label, t.Format("02/1")
}

// IconURL turns the provider's protocol-relative CDN path into a full URL.
func IconURL(icon string) string {
	switch {
	case icon == "":
		return ""
	case strings.HasPrefix(icon, "//"):
		return "https:" + icon
	case strings.Contains(icon, "://"):
		return icon
	default:
		return "https://" + icon
	}
}

func percent(v int) string {
	return strconv.Itoa(v) + "%"
}

func kilometres(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "km"
}
