package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesCollectors(t *testing.T) {
	RecordProviderRequest("noaa", "ok", 0.12)
	RecordYearFetch(true)
	RecordYearFetch(false)
	RecordDropped(3)
	RecordReport("summary", nil)
	RecordReport("series", errors.New("boom"))
	RecordHTTPRequest("/api/v1/climate/summary", http.MethodGet, "200")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	out := string(body)

	for _, want := range []string{
		`weather_history_provider_requests_total{outcome="ok",provider="noaa"}`,
		`weather_history_provider_request_duration_seconds_count{provider="noaa"}`,
		`weather_history_fetcher_years_total{outcome="failed"}`,
		`weather_history_fetcher_records_dropped_total`,
		`weather_history_service_reports_total{kind="series",outcome="error"}`,
		`weather_history_http_requests_total{method="GET",route="/api/v1/climate/summary",status_code="200"}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
