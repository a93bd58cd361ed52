package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/i474232898/weather-history-aggregation/internal/climate"
)

// Schema creates the reports table. Applied by EnsureSchema.
const Schema = `
CREATE TABLE IF NOT EXISTS climate_reports (
	id           UUID PRIMARY KEY,
	place_key    TEXT        NOT NULL,
	place        TEXT        NOT NULL,
	latitude     DOUBLE PRECISION NOT NULL,
	longitude    DOUBLE PRECISION NOT NULL,
	month        SMALLINT    NOT NULL,
	day          SMALLINT    NOT NULL,
	start_year   INTEGER     NOT NULL,
	end_year     INTEGER     NOT NULL,
	summary      JSONB       NOT NULL,
	failed_years JSONB       NOT NULL DEFAULT '[]',
	dropped      INTEGER     NOT NULL DEFAULT 0,
	generated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS climate_reports_place_generated
	ON climate_reports (place_key, generated_at DESC);
`

// PostgresStore persists reports in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store on an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the table and index if missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("postgres: failed to apply schema: %w", err)
	}
	return nil
}

// storedSummary is the JSONB shape of climate.MetricSummary. Absent
// temperatures keep their sample count of zero so they load back as absent.
type storedSummary struct {
	MaxC       float64 `json:"max_c"`
	MaxF       int     `json:"max_f"`
	MaxSamples int     `json:"max_samples"`
	MinC       float64 `json:"min_c"`
	MinF       int     `json:"min_f"`
	MinSamples int     `json:"min_samples"`
	PrecipMM   float64 `json:"precip_mm"`
	PrecipN    int     `json:"precip_samples"`
	SnowPct    float64 `json:"snow_pct"`
	SnowN      int     `json:"snow_samples"`
	SnowDays   int     `json:"snow_days"`
}

func toStored(m climate.MetricSummary) storedSummary {
	return storedSummary{
		MaxC: m.MeanMaxTemperature.Celsius, MaxF: m.MeanMaxTemperature.Fahrenheit, MaxSamples: m.MeanMaxTemperature.Samples,
		MinC: m.MeanMinTemperature.Celsius, MinF: m.MeanMinTemperature.Fahrenheit, MinSamples: m.MeanMinTemperature.Samples,
		PrecipMM: m.MeanPrecipitationMM, PrecipN: m.PrecipitationSamples,
		SnowPct: m.SnowProbabilityPct, SnowN: m.SnowSamples, SnowDays: m.SnowDays,
	}
}

func (s storedSummary) summary() climate.MetricSummary {
	return climate.MetricSummary{
		MeanMaxTemperature:   climate.TemperatureMean{Celsius: s.MaxC, Fahrenheit: s.MaxF, Samples: s.MaxSamples},
		MeanMinTemperature:   climate.TemperatureMean{Celsius: s.MinC, Fahrenheit: s.MinF, Samples: s.MinSamples},
		MeanPrecipitationMM:  s.PrecipMM,
		PrecipitationSamples: s.PrecipN,
		SnowProbabilityPct:   s.SnowPct,
		SnowSamples:          s.SnowN,
		SnowDays:             s.SnowDays,
	}
}

// SaveReport inserts a report.
func (s *PostgresStore) SaveReport(ctx context.Context, r climate.SummaryReport) error {
	summary, err := json.Marshal(toStored(r.Summary))
	if err != nil {
		return fmt.Errorf("postgres: failed to encode summary: %w", err)
	}
	failed := r.FailedYears
	if failed == nil {
		failed = []climate.YearFailure{}
	}
	failedJSON, err := json.Marshal(failed)
	if err != nil {
		return fmt.Errorf("postgres: failed to encode failed years: %w", err)
	}

	query := `
		INSERT INTO climate_reports (
			id, place_key, place, latitude, longitude, month, day,
			start_year, end_year, summary, failed_years, dropped, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = s.pool.Exec(ctx, query,
		r.ID, Key(r.Place), r.Place, r.Coordinate.Lat, r.Coordinate.Lon, r.Day.Month, r.Day.Day,
		r.Years.Start, r.Years.End, summary, failedJSON, r.Dropped, r.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save report: %w", err)
	}
	return nil
}

const selectReport = `
	SELECT id::text, place, latitude, longitude, month, day,
	       start_year, end_year, summary, failed_years, dropped, generated_at
	FROM climate_reports
`

// LatestReport returns the newest report for place.
func (s *PostgresStore) LatestReport(ctx context.Context, place string) (climate.SummaryReport, error) {
	row := s.pool.QueryRow(ctx, selectReport+`WHERE place_key = $1 ORDER BY generated_at DESC LIMIT 1`, Key(place))
	r, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return climate.SummaryReport{}, ErrNotFound
	}
	if err != nil {
		return climate.SummaryReport{}, fmt.Errorf("postgres: failed to query latest report: %w", err)
	}
	return r, nil
}

// Reports returns reports for place generated within [from, to], oldest first.
func (s *PostgresStore) Reports(ctx context.Context, place string, from, to time.Time) ([]climate.SummaryReport, error) {
	rows, err := s.pool.Query(ctx,
		selectReport+`WHERE place_key = $1 AND generated_at BETWEEN $2 AND $3 ORDER BY generated_at ASC LIMIT 500`,
		Key(place), from, to)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query reports: %w", err)
	}
	defer rows.Close()

	var results []climate.SummaryReport
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan report row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate reports: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results, nil
}

// Health checks database connectivity.
func (s *PostgresStore) Health(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}

func scanReport(row pgx.Row) (climate.SummaryReport, error) {
	var (
		r           climate.SummaryReport
		month, day  int16
		summaryJSON []byte
		failedJSON  []byte
		stored      storedSummary
	)
	err := row.Scan(
		&r.ID, &r.Place, &r.Coordinate.Lat, &r.Coordinate.Lon, &month, &day,
		&r.Years.Start, &r.Years.End, &summaryJSON, &failedJSON, &r.Dropped, &r.GeneratedAt,
	)
	if err != nil {
		return climate.SummaryReport{}, err
	}
	if err := json.Unmarshal(summaryJSON, &stored); err != nil {
		return climate.SummaryReport{}, fmt.Errorf("decode summary: %w", err)
	}
	if err := json.Unmarshal(failedJSON, &r.FailedYears); err != nil {
		return climate.SummaryReport{}, fmt.Errorf("decode failed years: %w", err)
	}
	r.Day = climate.MonthDay{Month: int(month), Day: int(day)}
	r.Summary = stored.summary()
	r.GeneratedAt = r.GeneratedAt.UTC()
	return r, nil
}
