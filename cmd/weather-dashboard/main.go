package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-dashboard/internal/config"
)

var cfg *config.AppConfig

var rootCmd = &cobra.Command{
	Use:   "weather-dashboard",
	Short: "Weather dashboard backend",
	Long: `weather-dashboard resolves your location, fetches a WeatherAPI.com forecast
and serves it as dashboard panels over HTTP or prints it to the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
