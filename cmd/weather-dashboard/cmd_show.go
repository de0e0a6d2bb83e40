package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/selection"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the dashboard",
	Long: `Resolve the location (cached unless --refresh or --lat/--lon are given),
fetch the forecast and print the dashboard for the selected day and hour.`,
	RunE: runShow,
}

var showFlags struct {
	lat, lon float64
	refresh  bool
	day      int
	hour     int
	unit     string
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Float64Var(&showFlags.lat, "lat", 0, "latitude to use instead of geolocation")
	showCmd.Flags().Float64Var(&showFlags.lon, "lon", 0, "longitude to use instead of geolocation")
	showCmd.Flags().BoolVar(&showFlags.refresh, "refresh", false, "ignore the cached location")
	showCmd.Flags().IntVar(&showFlags.day, "day", 0, "forecast day to select (0 = today)")
	showCmd.Flags().IntVar(&showFlags.hour, "hour", 0, "index in the hourly strip to select")
	showCmd.Flags().StringVar(&showFlags.unit, "unit", "C", "temperature unit (C or F)")
	showCmd.MarkFlagsRequiredTogether("lat", "lon")
}

func runShow(cmd *cobra.Command, args []string) error {
	unit, err := selection.ParseUnit(showFlags.unit)
	if err != nil {
		return err
	}

	comps, err := buildComponents(cfg)
	if err != nil {
		return err
	}
	defer comps.kv.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.HTTPTimeout)
	defer cancel()

	var loc *weather.Location
	switch {
	case cmd.Flags().Changed("lat"):
		loc, err = comps.resolver.ResolveAt(ctx, location.Coordinates{Latitude: showFlags.lat, Longitude: showFlags.lon})
	case showFlags.refresh:
		loc, err = comps.resolver.Refresh(ctx)
	default:
		loc, err = comps.resolver.Resolve(ctx)
	}
	if err != nil {
		if !errors.Is(err, location.ErrLocationUnavailable) {
			return err
		}
		return dashboard.Render(os.Stdout, dashboard.Build(nil, nil, nil))
	}

	fc, err := comps.service.Forecast(ctx, *loc)
	if err != nil {
		return fmt.Errorf("failed to fetch forecast: %w", err)
	}

	st, err := selection.New(fc.Days)
	if err != nil {
		return err
	}
	if err := st.SelectDay(showFlags.day); err != nil {
		return err
	}
	if err := st.SelectHour(showFlags.hour); err != nil {
		return err
	}
	st.Unit = unit

	return dashboard.Render(os.Stdout, dashboard.Build(loc, fc, st))
}
