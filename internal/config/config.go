package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/i474232898/weather-history-aggregation/internal/logger"
)

// Records providers.
const (
	RecordsNOAA      = "noaa"
	RecordsOpenMeteo = "openmeteo"
)

// AppConfig is the process configuration.
type AppConfig struct {
	// Credentials, injected into provider constructors.
	OpenWeatherAPIKey string `koanf:"openweather_api_key"`
	WeatherAPIKey     string `koanf:"weatherapi_api_key"`
	NOAAToken         string `koanf:"noaa_api_token"`

	// RecordsProvider selects the historical source: noaa or openmeteo.
	RecordsProvider string `koanf:"records_provider" validate:"oneof=noaa openmeteo"`

	// HTTPTimeout bounds every outbound call.
	HTTPTimeout time.Duration `koanf:"http_timeout" validate:"gt=0"`

	// HistoryYears is the default window: the N most recent complete years.
	HistoryYears int `koanf:"history_years" validate:"min=1,max=100"`

	// FetchConcurrency bounds parallel per-year queries (1 = sequential).
	FetchConcurrency int `koanf:"fetch_concurrency" validate:"min=1,max=16"`

	// FetchInterval controls how often tracked places are refreshed.
	FetchInterval time.Duration `koanf:"fetch_interval" validate:"gt=0"`

	// Places to track, "City,Country" each.
	Locations []string `koanf:"-"`
	City      string   `koanf:"weather_location_city"`
	Country   string   `koanf:"weather_location_country"`

	// In-memory store retention.
	StoreMaxHistory int           `koanf:"store_max_history" validate:"min=0"` // max reports per place (0 = unlimited)
	StoreMaxAge     time.Duration `koanf:"store_max_age" validate:"min=0"`     // max age of reports (0 = unlimited)

	// DatabaseURL switches report storage to PostgreSQL when set.
	DatabaseURL string `koanf:"database_url"`

	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	Port     string `koanf:"port" validate:"required,numeric"`
}

// Default returns the configuration used when nothing is set.
func Default() *AppConfig {
	return &AppConfig{
		RecordsProvider:  RecordsNOAA,
		HTTPTimeout:      15 * time.Second,
		HistoryYears:     10,
		FetchConcurrency: 1,
		FetchInterval:    6 * time.Hour,
		StoreMaxHistory:  30,
		StoreMaxAge:      30 * 24 * time.Hour,
		LogLevel:         "info",
		Port:             "8080",
	}
}

var validate = validator.New()

// Load layers configuration, lowest precedence first:
//  1. defaults
//  2. YAML file named by CONFIG_FILE, if set
//  3. .env (via godotenv) and the process environment
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Named("config").Debug(context.Background(), "no .env file loaded", logger.Error(err))
	}

	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// OPENWEATHER_API_KEY -> openweather_api_key, and so on.
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.RecordsProvider = strings.ToLower(strings.TrimSpace(cfg.RecordsProvider))

	locs, err := parseLocations(cfg.City, cfg.Country)
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// parseLocations pairs comma-separated city and country lists.
// An empty city list means no tracked places.
func parseLocations(city, country string) ([]string, error) {
	if strings.TrimSpace(city) == "" {
		return nil, nil
	}
	cities := strings.Split(city, ",")
	countries := strings.Split(country, ",")
	if len(cities) != len(countries) {
		return nil, fmt.Errorf("number of cities and countries must be the same")
	}
	locs := make([]string, 0, len(cities))
	for i := range cities {
		c := strings.TrimSpace(cities[i])
		if c == "" {
			continue
		}
		if cc := strings.TrimSpace(countries[i]); cc != "" {
			c += "," + cc
		}
		locs = append(locs, c)
	}
	return locs, nil
}
