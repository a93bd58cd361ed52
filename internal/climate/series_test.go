package climate_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/i474232898/weather-history-aggregation/internal/climate"
)

func TestBuildSeries(t *testing.T) {
	obs := climate.ObservationSet{
		obsOn(2016, "TMAX", 30),
		obsOn(2014, "TMAX", 10),
		obsOn(2014, "TMAX", 20),
		obsOn(2015, "PRCP", 3),
		obsOn(2014, "PRCP", 1),
	}

	got, err := climate.BuildSeries(obs, "TMAX")
	if err != nil {
		t.Fatalf("BuildSeries(TMAX) unexpected error: %v", err)
	}
	// Averaged in Celsius per year, then converted; 2015 has no TMAX.
	want := climate.YearSeries{
		{Year: 2014, Value: 59},
		{Year: 2016, Value: 86},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TMAX series mismatch (-want +got):\n%s", diff)
	}

	got, err = climate.BuildSeries(obs, "PRCP")
	if err != nil {
		t.Fatalf("BuildSeries(PRCP) unexpected error: %v", err)
	}
	want = climate.YearSeries{{Year: 2014, Value: 1}, {Year: 2015, Value: 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PRCP series mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSeriesNoMatchingRecords(t *testing.T) {
	obs := climate.ObservationSet{obsOn(2014, "TMIN", 1), obsOn(2014, "PRCP", 2)}

	_, err := climate.BuildSeries(obs, "TAVG")
	if !errors.Is(err, climate.ErrNoMatchingRecords) {
		t.Fatalf("expected ErrNoMatchingRecords, got %v", err)
	}
	var nm *climate.NoMatchingRecordsError
	if !errors.As(err, &nm) {
		t.Fatalf("expected *NoMatchingRecordsError, got %T", err)
	}
	if diff := cmp.Diff([]string{"PRCP", "TMIN"}, nm.Available); diff != "" {
		t.Errorf("available metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSeriesEmpty(t *testing.T) {
	_, err := climate.BuildSeries(nil, "SNOW")
	if !errors.Is(err, climate.ErrNoMatchingRecords) {
		t.Fatalf("expected ErrNoMatchingRecords for empty set, got %v", err)
	}
}
