package climate

import (
	"context"
	"time"
)

// ConditionsProvider abstracts a current-conditions source (OpenWeatherMap,
// WeatherAPI). It doubles as the geocoder.
type ConditionsProvider interface {
	Name() string
	Current(ctx context.Context, place string) (Conditions, error)
}

// RecordsQuery is one request to a historical-records source.
type RecordsQuery struct {
	Coordinate Coordinate
	StartDate  string // YYYY-MM-DD
	EndDate    string // YYYY-MM-DD
	Metrics    []string
	Limit      int
}

// RawRecord is a record as the remote service returned it, before validation.
type RawRecord struct {
	Metric  string
	Value   *float64
	Date    string
	Station string
}

// RecordsProvider abstracts a historical daily-records source (NOAA CDO, Open-Meteo archive).
type RecordsProvider interface {
	Name() string
	Records(ctx context.Context, q RecordsQuery) ([]RawRecord, error)
}

// ReportStore persists computed summary reports.
type ReportStore interface {
	SaveReport(ctx context.Context, r SummaryReport) error
	LatestReport(ctx context.Context, place string) (SummaryReport, error)
	Reports(ctx context.Context, place string, from, to time.Time) ([]SummaryReport, error)
}
