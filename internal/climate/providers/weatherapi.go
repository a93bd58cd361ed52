package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/i474232898/weather-history-aggregation/internal/climate"
)

// weatherAPINoLocation is WeatherAPI's error code for "No matching location found".
const weatherAPINoLocation = "1006"

// WeatherAPIProvider looks up current conditions on WeatherAPI.com. It is the
// geocoding fallback when OpenWeatherMap is unavailable.
type WeatherAPIProvider struct {
	endpoint
	apiKey string
}

// NewWeatherAPIProvider creates the provider.
func NewWeatherAPIProvider(client *http.Client, apiKey string, opts ...Option) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		endpoint: newEndpoint("weatherapi", "https://api.weatherapi.com/v1/current.json", client, opts),
		apiKey:   apiKey,
	}
}

// Current queries by place name; WeatherAPI accepts "city" or "city,country".
func (p *WeatherAPIProvider) Current(ctx context.Context, place string) (climate.Conditions, error) {
	if p.apiKey == "" {
		return climate.Conditions{}, fmt.Errorf("%w: weatherapi api key is not configured", climate.ErrServiceUnavailable)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", place)
		return http.NewRequest(http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
	}

	resp, err := doRequestWithResilience(ctx, p.name, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && strings.Contains(statusErr.Body, weatherAPINoLocation) {
			return climate.Conditions{}, fmt.Errorf("%w: %v", climate.ErrNotFound, err)
		}
		return climate.Conditions{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Location struct {
			Name string  `json:"name"`
			Lat  float64 `json:"lat"`
			Lon  float64 `json:"lon"`
		} `json:"location"`
		Current struct {
			TempC     float64 `json:"temp_c"`
			Humidity  float64 `json:"humidity"`
			Condition struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return climate.Conditions{}, fmt.Errorf("%w: decode weatherapi response: %v", climate.ErrServiceUnavailable, err)
	}

	return climate.Conditions{
		Provider:     p.name,
		Name:         payload.Location.Name,
		Coordinate:   climate.Coordinate{Lat: payload.Location.Lat, Lon: payload.Location.Lon},
		TemperatureC: payload.Current.TempC,
		Description:  payload.Current.Condition.Text,
		HumidityPct:  payload.Current.Humidity,
	}, nil
}
