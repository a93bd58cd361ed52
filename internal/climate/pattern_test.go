package climate_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/i474232898/weather-history-aggregation/internal/climate"
)

func TestResolvePattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Snowfall", want: "SNOW"},
		{in: "snowfall", want: "SNOW"},
		{in: "SNOW", want: "SNOW"},
		{in: "snow", want: "SNOW"},
		{in: " Max Temperature ", want: "TMAX"},
		{in: "min temperature", want: "TMIN"},
		{in: "Average Temperature", want: "TAVG"},
		{in: "Observed Temperature", want: "TOBS"},
		{in: "Precipitation", want: "PRCP"},
		{in: "prcp", want: "PRCP"},
		{in: "Snow Water Equivalent", want: "WESD"},
		{in: "Average Wind Speed", want: "AWND"},
		{in: "Fastest 5-Second Wind", want: "WSF5"},
		{in: "Fastest 5-Second Wind Direction", want: "WDF5"},
	}
	for _, tt := range tests {
		got, err := climate.ResolvePattern(tt.in)
		if err != nil {
			t.Errorf("ResolvePattern(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolvePattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolvePatternUnsupported(t *testing.T) {
	_, err := climate.ResolvePattern("Hurricane")
	if !errors.Is(err, climate.ErrUnsupportedPattern) {
		t.Fatalf("expected ErrUnsupportedPattern, got %v", err)
	}
	var pe *climate.PatternError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PatternError, got %T", err)
	}
	if diff := cmp.Diff(climate.Labels(), pe.Supported); diff != "" {
		t.Errorf("supported labels mismatch (-want +got):\n%s", diff)
	}
	if climate.Kind(err) != "unsupported_pattern" {
		t.Errorf("Kind() = %q, want unsupported_pattern", climate.Kind(err))
	}
}

func TestPatternTable(t *testing.T) {
	codes := climate.Codes()
	if len(codes) != len(climate.Labels()) || len(codes) != len(climate.Patterns()) {
		t.Fatalf("labels, codes and patterns disagree in length")
	}
	if codes[0] != "TMAX" || codes[1] != "TMIN" {
		t.Errorf("display order changed: %v", codes)
	}

	for _, code := range []string{"TMAX", "TMIN", "TAVG", "TOBS"} {
		if !climate.IsTemperature(code) {
			t.Errorf("%s should be a temperature", code)
		}
	}
	for _, code := range []string{"PRCP", "SNOW", "AWND", "WDF5", "NOPE"} {
		if climate.IsTemperature(code) {
			t.Errorf("%s should not be a temperature", code)
		}
	}

	p, ok := climate.PatternFor("PRCP")
	if !ok || p.Unit != "mm" || p.Label != "Precipitation" {
		t.Errorf("PatternFor(PRCP) = %+v, %v", p, ok)
	}
}

func TestAvailableMetrics(t *testing.T) {
	obs := climate.ObservationSet{
		{Metric: "TMIN"}, {Metric: "PRCP"}, {Metric: "TMIN"}, {Metric: "SNOW"},
	}
	got := climate.AvailableMetrics(obs)
	if diff := cmp.Diff([]string{"PRCP", "SNOW", "TMIN"}, got); diff != "" {
		t.Errorf("AvailableMetrics mismatch (-want +got):\n%s", diff)
	}
	if got := climate.AvailableMetrics(nil); len(got) != 0 {
		t.Errorf("expected no metrics for empty set, got %v", got)
	}
}
