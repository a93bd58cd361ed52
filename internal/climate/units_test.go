package climate_test

import (
	"testing"

	"github.com/i474232898/weather-history-aggregation/internal/climate"
)

func TestFahrenheitDisplay(t *testing.T) {
	tests := []struct {
		celsius float64
		want    int
	}{
		{celsius: 0, want: 32},
		{celsius: 100, want: 212},
		{celsius: 37, want: 99},   // 98.6
		{celsius: -40, want: -40}, // scales cross
		{celsius: 20, want: 68},
		{celsius: -27.5, want: -17}, // -17.5 rounds toward +Inf
		{celsius: 2.5, want: 37},    // 36.5 rounds up
	}
	for _, tt := range tests {
		got := climate.RoundHalfUp(climate.CelsiusToFahrenheit(tt.celsius))
		if got != tt.want {
			t.Errorf("%.1f°C: got %d°F, want %d°F", tt.celsius, got, tt.want)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := map[float64]int{
		0.5:  1,
		1.49: 1,
		-0.5: 0,
		-1.5: -1,
		-1.6: -2,
	}
	for in, want := range tests {
		if got := climate.RoundHalfUp(in); got != want {
			t.Errorf("RoundHalfUp(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestConditionsTemperatureF(t *testing.T) {
	c := climate.Conditions{TemperatureC: 21}
	if got := c.TemperatureF(); got != 70 { // 69.8
		t.Errorf("TemperatureF() = %d, want 70", got)
	}
}
