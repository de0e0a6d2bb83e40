package selection

import (
	"fmt"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Unit is a temperature unit.
type Unit string

const (
	Celsius    Unit = "C"
	Fahrenheit Unit = "F"
)

// ParseUnit accepts "C"/"F" and their spelled-out names, case-insensitively.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "celsius":
		return Celsius, nil
	case "f", "fahrenheit":
		return Fahrenheit, nil
	default:
		return "", fmt.Errorf("unknown temperature unit %q", s)
	}
}

// Toggle returns the other unit.
func (u Unit) Toggle() Unit {
	if u == Fahrenheit {
		return Celsius
	}
	return Fahrenheit
}

// ToFahrenheit converts whole degrees Celsius, rounding half up.
func ToFahrenheit(c int) int {
	return weather.RoundDegrees(float64(c)*9/5 + 32)
}

// ToCelsius converts whole degrees Fahrenheit, rounding half up.
//
// Both directions round, so round trips through Celsius are lossy: 38°F
// becomes 3°C and then 37°F. Whole-degree Celsius survives C->F->C because
// the Fahrenheit rounding error is at most 5/18 of a Celsius degree.
func ToCelsius(f int) int {
	return weather.RoundDegrees(float64(f-32) * 5 / 9)
}

// Convert expresses a Celsius value in unit u.
func Convert(celsius int, u Unit) int {
	if u == Fahrenheit {
		return ToFahrenheit(celsius)
	}
	return celsius
}

// FormatTemperature renders "21°C", or "--°" when the value is missing.
func FormatTemperature(celsius *int, u Unit) string {
	if celsius == nil {
		return "--°"
	}
	return fmt.Sprintf("%d°%s", Convert(*celsius, u), u)
}
