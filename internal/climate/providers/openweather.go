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

// OpenWeatherProvider looks up current conditions (and coordinates) on OpenWeatherMap.
type OpenWeatherProvider struct {
	endpoint
	apiKey string
}

// NewOpenWeatherProvider creates the provider. The API key is injected here
// and never read from the environment.
func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...Option) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		endpoint: newEndpoint("openweathermap", "https://api.openweathermap.org/data/2.5/weather", client, opts),
		apiKey:   apiKey,
	}
}

// Current queries by place name ("Paris" or "Paris,FR").
func (p *OpenWeatherProvider) Current(ctx context.Context, place string) (climate.Conditions, error) {
	if p.apiKey == "" {
		return climate.Conditions{}, fmt.Errorf("%w: openweather api key is not configured", climate.ErrServiceUnavailable)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		values.Set("q", place)
		return http.NewRequest(http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
	}

	resp, err := doRequestWithResilience(ctx, p.name, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return climate.Conditions{}, fmt.Errorf("%w: %v", climate.ErrNotFound, err)
		}
		return climate.Conditions{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Name  string `json:"name"`
		Coord *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return climate.Conditions{}, fmt.Errorf("%w: decode openweather response: %v", climate.ErrServiceUnavailable, err)
	}
	if payload.Coord == nil {
		return climate.Conditions{}, fmt.Errorf("%w: openweather response has no coordinates", climate.ErrNotFound)
	}

	c := climate.Conditions{
		Provider:     p.name,
		Name:         payload.Name,
		Coordinate:   climate.Coordinate{Lat: payload.Coord.Lat, Lon: payload.Coord.Lon},
		TemperatureC: payload.Main.Temp,
		HumidityPct:  payload.Main.Humidity,
	}
	if len(payload.Weather) > 0 {
		c.Description = capitalize(payload.Weather[0].Description)
	}
	return c, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
