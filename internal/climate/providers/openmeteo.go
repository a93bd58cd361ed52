package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/i474232898/weather-history-aggregation/internal/climate"
)

// openMeteoDaily maps GHCND codes onto Open-Meteo daily variables.
var openMeteoDaily = map[string]struct {
	variable string
	scale    float64
}{
	climate.MetricMaxTemperature:     {"temperature_2m_max", 1},
	climate.MetricMinTemperature:     {"temperature_2m_min", 1},
	climate.MetricAverageTemperature: {"temperature_2m_mean", 1},
	climate.MetricPrecipitation:      {"precipitation_sum", 1},
	climate.MetricSnowfall:           {"snowfall_sum", 10}, // cm -> mm
}

// OpenMeteoArchiveProvider reads reanalysis daily values from the keyless
// Open-Meteo historical archive and presents them as GHCND-style records.
// Codes without an Open-Meteo equivalent are ignored.
type OpenMeteoArchiveProvider struct {
	endpoint
}

// NewOpenMeteoArchiveProvider creates the provider.
func NewOpenMeteoArchiveProvider(client *http.Client, opts ...Option) *OpenMeteoArchiveProvider {
	return &OpenMeteoArchiveProvider{
		endpoint: newEndpoint("openmeteo", "https://archive-api.open-meteo.com/v1/archive", client, opts),
	}
}

// Records returns one record per requested, supported metric and day.
func (p *OpenMeteoArchiveProvider) Records(ctx context.Context, q climate.RecordsQuery) ([]climate.RawRecord, error) {
	var codes, variables []string
	for _, m := range q.Metrics {
		if d, ok := openMeteoDaily[m]; ok {
			codes = append(codes, m)
			variables = append(variables, d.variable)
		}
	}
	if len(variables) == 0 {
		return nil, nil
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", q.Coordinate.Lat))
		values.Set("longitude", fmt.Sprintf("%f", q.Coordinate.Lon))
		values.Set("start_date", q.StartDate)
		values.Set("end_date", q.EndDate)
		values.Set("daily", strings.Join(variables, ","))
		values.Set("timezone", "UTC")
		return http.NewRequest(http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
	}

	resp, err := doRequestWithResilience(ctx, p.name, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Daily map[string]json.RawMessage `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode openmeteo response: %v", climate.ErrServiceUnavailable, err)
	}

	var days []string
	if raw, ok := payload.Daily["time"]; ok {
		if err := json.Unmarshal(raw, &days); err != nil {
			return nil, fmt.Errorf("%w: decode openmeteo time axis: %v", climate.ErrServiceUnavailable, err)
		}
	}

	var out []climate.RawRecord
	for _, code := range codes {
		d := openMeteoDaily[code]
		raw, ok := payload.Daily[d.variable]
		if !ok {
			continue
		}
		var values []*float64
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, fmt.Errorf("%w: decode openmeteo %s: %v", climate.ErrServiceUnavailable, d.variable, err)
		}
		for i, v := range values {
			if i >= len(days) {
				break
			}
			if v != nil {
				scaled := *v * d.scale
				v = &scaled
			}
			out = append(out, climate.RawRecord{
				Metric:  code,
				Value:   v,
				Date:    days[i],
				Station: p.name,
			})
		}
	}
	return out, nil
}
