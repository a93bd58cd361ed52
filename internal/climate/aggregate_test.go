package climate_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/i474232898/weather-history-aggregation/internal/climate"
)

func obsOn(year int, metric string, v float64) climate.Observation {
	return climate.Observation{
		Metric: metric,
		Value:  v,
		Date:   time.Date(year, 7, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestSummarize(t *testing.T) {
	obs := climate.ObservationSet{
		obsOn(2014, "TMAX", 20), obsOn(2015, "TMAX", 30),
		obsOn(2014, "TMIN", 10), obsOn(2015, "TMIN", 12),
		obsOn(2014, "PRCP", 2), obsOn(2015, "PRCP", 0), obsOn(2016, "PRCP", 4),
		obsOn(2014, "SNOW", 0), obsOn(2015, "SNOW", 5), obsOn(2016, "SNOW", 0), obsOn(2017, "SNOW", 1),
	}

	got := climate.Summarize(obs)
	want := climate.MetricSummary{
		MeanMaxTemperature:   climate.TemperatureMean{Celsius: 25, Fahrenheit: 77, Samples: 2},
		MeanMinTemperature:   climate.TemperatureMean{Celsius: 11, Fahrenheit: 52, Samples: 2}, // 51.8
		MeanPrecipitationMM:  2,
		PrecipitationSamples: 3,
		SnowProbabilityPct:   50,
		SnowSamples:          4,
		SnowDays:             2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeIsIdempotent(t *testing.T) {
	obs := climate.ObservationSet{obsOn(2014, "TMAX", 20), obsOn(2014, "SNOW", 3)}
	if diff := cmp.Diff(climate.Summarize(obs), climate.Summarize(obs)); diff != "" {
		t.Errorf("two runs differ:\n%s", diff)
	}
}

func TestSummarizeAbsentMetrics(t *testing.T) {
	got := climate.Summarize(nil)

	if got.MeanMaxTemperature.Present() || got.MeanMinTemperature.Present() {
		t.Error("temperatures should be absent with no observations")
	}
	if got.MeanPrecipitationMM != 0 || got.PrecipitationSamples != 0 {
		t.Errorf("precipitation = %v over %d samples, want 0 over 0", got.MeanPrecipitationMM, got.PrecipitationSamples)
	}
	if got.SnowProbabilityPct != 0 {
		t.Errorf("snow probability = %v, want 0", got.SnowProbabilityPct)
	}

	text := got.Text("Nowhere", climate.MonthDay{Month: 1, Day: 1})
	if !strings.Contains(text, "Average Maximum Temperature: no data") {
		t.Errorf("absent max temperature should print as no data:\n%s", text)
	}
	if strings.Contains(text, "°F") {
		t.Errorf("absent temperatures must not print a number:\n%s", text)
	}
}

func TestSummarizeSnowOnlyWhenPositive(t *testing.T) {
	obs := climate.ObservationSet{obsOn(2014, "SNOW", 0), obsOn(2015, "SNOW", 0)}
	got := climate.Summarize(obs)
	if got.SnowProbabilityPct != 0 || got.SnowDays != 0 || got.SnowSamples != 2 {
		t.Errorf("unexpected snow summary: %+v", got)
	}
}

func TestSummaryText(t *testing.T) {
	s := climate.MetricSummary{
		MeanMaxTemperature:  climate.TemperatureMean{Celsius: 20, Fahrenheit: 68, Samples: 8},
		MeanMinTemperature:  climate.TemperatureMean{Celsius: 10, Fahrenheit: 50, Samples: 8},
		MeanPrecipitationMM: 1.234,
		SnowProbabilityPct:  12.5,
	}
	want := "Historical Weather Prediction for Paris on 07-04:\n" +
		"Average Maximum Temperature: 68°F\n" +
		"Average Minimum Temperature: 50°F\n" +
		"Average Precipitation: 1.23 mm\n" +
		"Probability of Snow: 12.50%"
	if diff := cmp.Diff(want, s.Text("Paris", climate.MonthDay{Month: 7, Day: 4})); diff != "" {
		t.Errorf("Text mismatch (-want +got):\n%s", diff)
	}
}

func TestTemperatureMeanJSON(t *testing.T) {
	b, err := json.Marshal(climate.TemperatureMean{})
	if err != nil {
		t.Fatalf("marshal absent: %v", err)
	}
	if string(b) != "null" {
		t.Errorf("absent mean = %s, want null", b)
	}

	b, err = json.Marshal(climate.TemperatureMean{Celsius: 20, Fahrenheit: 68, Samples: 3})
	if err != nil {
		t.Fatalf("marshal present: %v", err)
	}
	if string(b) != `{"celsius":20,"fahrenheit":68,"samples":3}` {
		t.Errorf("present mean = %s", b)
	}
}
