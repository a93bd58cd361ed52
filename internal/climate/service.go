package climate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-history-aggregation/internal/logger"
	"github.com/i474232898/weather-history-aggregation/internal/metrics"
)

// SummaryRequest asks for the climatology of one place on one calendar day.
// A zero Years uses the service's default historical window.
type SummaryRequest struct {
	Place string
	Day   MonthDay
	Years YearRange
}

// SummaryReport is a computed MetricSummary plus the context it came from.
type SummaryReport struct {
	ID          string        `json:"id"`
	Place       string        `json:"place"`
	Coordinate  Coordinate    `json:"coordinate"`
	Day         MonthDay      `json:"day"`
	Years       YearRange     `json:"years"`
	Summary     MetricSummary `json:"summary"`
	FailedYears []YearFailure `json:"failedYears,omitempty"`
	Dropped     int           `json:"droppedRecords"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// Text renders the report as the human-readable summary block.
func (r SummaryReport) Text() string {
	return r.Summary.Text(r.Place, r.Day)
}

// SeriesRequest asks for a per-year series of one pattern.
type SeriesRequest struct {
	Place   string
	Day     MonthDay
	Pattern string
	Years   YearRange
}

// SeriesReport is a plottable series plus its context.
type SeriesReport struct {
	ID          string        `json:"id"`
	Place       string        `json:"place"`
	Coordinate  Coordinate    `json:"coordinate"`
	Day         MonthDay      `json:"day"`
	Years       YearRange     `json:"years"`
	Pattern     Pattern       `json:"pattern"`
	Series      YearSeries    `json:"series"`
	Available   []string      `json:"availableMetrics"`
	FailedYears []YearFailure `json:"failedYears,omitempty"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithStore attaches a report store used by Refresh and the report queries.
func WithStore(s ReportStore) ServiceOption {
	return func(svc *Service) { svc.store = s }
}

// WithHistoryYears sets the default window length.
func WithHistoryYears(n int) ServiceOption {
	return func(svc *Service) {
		if n > 0 {
			svc.historyYears = n
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(svc *Service) { svc.now = now }
}

// Service composes validation, geocoding, fetching and aggregation.
// It is synchronous; callers decide where it runs.
type Service struct {
	geocoder     *Geocoder
	fetcher      *Fetcher
	store        ReportStore
	historyYears int
	now          func() time.Time
	log          logger.Logger
}

// NewService creates a Service.
func NewService(geocoder *Geocoder, fetcher *Fetcher, opts ...ServiceOption) *Service {
	s := &Service{
		geocoder:     geocoder,
		fetcher:      fetcher,
		historyYears: 10,
		now:          time.Now,
		log:          logger.Named("climate"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultYears is the window used when a request leaves Years zero.
func (s *Service) DefaultYears() YearRange {
	return DefaultYearRange(s.now().UTC(), s.historyYears)
}

func (s *Service) years(r YearRange) YearRange {
	if r == (YearRange{}) {
		return s.DefaultYears()
	}
	return r
}

// Current returns current conditions for a place.
func (s *Service) Current(ctx context.Context, place string) (Conditions, error) {
	return s.geocoder.Current(ctx, place)
}

// Summary geocodes the place, fetches the window and summarizes it.
// Validation errors are returned before any remote call.
func (s *Service) Summary(ctx context.Context, req SummaryRequest) (report SummaryReport, err error) {
	defer func() { metrics.RecordReport("summary", err) }()

	years := s.years(req.Years)
	if err := validateRequest(req.Place, req.Day, years); err != nil {
		return SummaryReport{}, err
	}

	coord, err := s.geocoder.Resolve(ctx, req.Place)
	if err != nil {
		return SummaryReport{}, err
	}

	res, err := s.fetcher.Fetch(ctx, FetchRequest{
		Coordinate:     coord,
		Day:            req.Day,
		Metrics:        SummaryMetrics,
		Years:          years,
		RequireSuccess: true,
	})
	if err != nil {
		return SummaryReport{}, err
	}

	return SummaryReport{
		ID:          uuid.NewString(),
		Place:       strings.TrimSpace(req.Place),
		Coordinate:  coord,
		Day:         req.Day,
		Years:       years,
		Summary:     Summarize(res.Observations),
		FailedYears: res.FailedYears,
		Dropped:     res.Dropped,
		GeneratedAt: s.now().UTC(),
	}, nil
}

// Series resolves the pattern, fetches every supported metric for the window
// and builds the per-year series for the selected one.
func (s *Service) Series(ctx context.Context, req SeriesRequest) (report SeriesReport, err error) {
	defer func() { metrics.RecordReport("series", err) }()

	code, err := ResolvePattern(req.Pattern)
	if err != nil {
		return SeriesReport{}, err
	}
	years := s.years(req.Years)
	if err := validateRequest(req.Place, req.Day, years); err != nil {
		return SeriesReport{}, err
	}

	coord, err := s.geocoder.Resolve(ctx, req.Place)
	if err != nil {
		return SeriesReport{}, err
	}

	res, err := s.fetcher.Fetch(ctx, FetchRequest{
		Coordinate:     coord,
		Day:            req.Day,
		Metrics:        Codes(),
		Years:          years,
		RequireSuccess: true,
	})
	if err != nil {
		return SeriesReport{}, err
	}

	series, err := BuildSeries(res.Observations, code)
	if err != nil {
		return SeriesReport{}, err
	}

	pattern, _ := PatternFor(code)
	return SeriesReport{
		ID:          uuid.NewString(),
		Place:       strings.TrimSpace(req.Place),
		Coordinate:  coord,
		Day:         req.Day,
		Years:       years,
		Pattern:     pattern,
		Series:      series,
		Available:   AvailableMetrics(res.Observations),
		FailedYears: res.FailedYears,
		GeneratedAt: s.now().UTC(),
	}, nil
}

// Refresh computes today's summary for place over the default window and stores it.
func (s *Service) Refresh(ctx context.Context, place string) (err error) {
	defer func() { metrics.RecordReport("refresh", err) }()

	if s.store == nil {
		return fmt.Errorf("no report store configured")
	}
	today := s.now().UTC()
	report, err := s.Summary(ctx, SummaryRequest{
		Place: place,
		Day:   MonthDay{Month: int(today.Month()), Day: today.Day()},
	})
	if err != nil {
		return err
	}
	if err := s.store.SaveReport(ctx, report); err != nil {
		return fmt.Errorf("save report for %s: %w", place, err)
	}
	s.log.Info(ctx, "stored climatology report",
		logger.String("place", report.Place),
		logger.String("day", report.Day.String()),
		logger.String("id", report.ID),
	)
	return nil
}

// LatestReport returns the newest stored report for place.
func (s *Service) LatestReport(ctx context.Context, place string) (SummaryReport, error) {
	if s.store == nil {
		return SummaryReport{}, fmt.Errorf("no report store configured")
	}
	return s.store.LatestReport(ctx, strings.TrimSpace(place))
}

// Reports returns stored reports for place generated within [from, to].
func (s *Service) Reports(ctx context.Context, place string, from, to time.Time) ([]SummaryReport, error) {
	if s.store == nil {
		return nil, fmt.Errorf("no report store configured")
	}
	return s.store.Reports(ctx, strings.TrimSpace(place), from, to)
}

func validateRequest(place string, day MonthDay, years YearRange) error {
	if err := day.Validate(); err != nil {
		return err
	}
	if err := years.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(place) == "" {
		return fmt.Errorf("%w: empty place name", ErrNotFound)
	}
	return nil
}
