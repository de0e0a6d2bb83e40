package dashboard

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Render writes a plain-text version of d for terminals.
func Render(w io.Writer, d Dashboard) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if d.Location == nil {
		fmt.Fprintln(tw, "Location unavailable. Use --refresh or pass --lat/--lon to try again.")
		return tw.Flush()
	}
	fmt.Fprintf(tw, "%s, %s\n", d.Location.Name, d.Location.Region)

	if d.Current == nil {
		fmt.Fprintln(tw, "No forecast loaded.")
		return tw.Flush()
	}

	c := d.Current
	fmt.Fprintln(tw, strings.Repeat("=", 48))
	fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Label, c.Temperature, c.Condition)
	fmt.Fprintf(tw, "Feels like\t%s\n", c.FeelsLike)
	fmt.Fprintf(tw, "Precipitation\t%s\n", c.Precipitation)
	fmt.Fprintf(tw, "Humidity\t%s\n", c.Humidity)
	fmt.Fprintf(tw, "Visibility\t%s\n", c.Visibility)

	if d.AstroWind != nil {
		fmt.Fprintln(tw, strings.Repeat("-", 48))
		fmt.Fprintf(tw, "Sunrise\t%s\n", d.AstroWind.Sunrise)
		fmt.Fprintf(tw, "Sunset\t%s\n", d.AstroWind.Sunset)
		fmt.Fprintf(tw, "Wind speed\t%s\n", d.AstroWind.WindSpeed)
	}

	if d.Hourly != nil {
		fmt.Fprintln(tw, strings.Repeat("-", 48))
		fmt.Fprintln(tw, d.Hourly.Title)
		for _, h := range d.Hourly.Hours {
			fmt.Fprintf(tw, "%s%s\t%s\n", marker(h.Selected), h.Label, h.Temperature)
		}
	}

	if d.Daily != nil {
		fmt.Fprintln(tw, strings.Repeat("-", 48))
		fmt.Fprintln(tw, d.Daily.Title)
		for _, day := range d.Daily.Days {
			fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s / %s\n",
				marker(day.Selected), day.Label, day.Date, day.Temperature, day.High, day.Low)
		}
	}

	return tw.Flush()
}

func marker(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}
