package climate_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/i474232898/weather-history-aggregation/internal/climate"
)

func TestParseRecord(t *testing.T) {
	md := climate.MonthDay{Month: 7, Day: 4}
	wanted := map[string]struct{}{"TMAX": {}, "PRCP": {}}

	got, err := climate.ParseRecord(climate.RawRecord{
		Metric:  "tmax",
		Value:   ptr(21.5),
		Date:    "2018-07-04T00:00:00",
		Station: "GHCND:USW00094728",
	}, md, wanted)
	if err != nil {
		t.Fatalf("ParseRecord unexpected error: %v", err)
	}
	want := climate.Observation{
		Metric:  "TMAX",
		Value:   21.5,
		Date:    time.Date(2018, 7, 4, 0, 0, 0, 0, time.UTC),
		Station: "GHCND:USW00094728",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseRecord mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecordDateLayouts(t *testing.T) {
	md := climate.MonthDay{Month: 7, Day: 4}
	wanted := map[string]struct{}{"PRCP": {}}
	for _, d := range []string{"2018-07-04", "2018-07-04T00:00:00", "2018-07-04T00:00:00Z"} {
		if _, err := climate.ParseRecord(climate.RawRecord{Metric: "PRCP", Value: ptr(0), Date: d}, md, wanted); err != nil {
			t.Errorf("date %q rejected: %v", d, err)
		}
	}
}

func TestParseRecordRejects(t *testing.T) {
	md := climate.MonthDay{Month: 7, Day: 4}
	wanted := map[string]struct{}{"TMAX": {}}

	tests := []struct {
		name string
		raw  climate.RawRecord
	}{
		{name: "missing value", raw: climate.RawRecord{Metric: "TMAX", Date: "2018-07-04"}},
		{name: "NaN", raw: climate.RawRecord{Metric: "TMAX", Value: ptr(math.NaN()), Date: "2018-07-04"}},
		{name: "Inf", raw: climate.RawRecord{Metric: "TMAX", Value: ptr(math.Inf(1)), Date: "2018-07-04"}},
		{name: "bad date", raw: climate.RawRecord{Metric: "TMAX", Value: ptr(1), Date: "04/07/2018"}},
		{name: "other day", raw: climate.RawRecord{Metric: "TMAX", Value: ptr(1), Date: "2018-07-05"}},
		{name: "unrequested metric", raw: climate.RawRecord{Metric: "SNOW", Value: ptr(1), Date: "2018-07-04"}},
		{name: "no metric", raw: climate.RawRecord{Value: ptr(1), Date: "2018-07-04"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := climate.ParseRecord(tt.raw, md, wanted); err == nil {
				t.Errorf("expected %s to be rejected", tt.name)
			}
		})
	}
}
