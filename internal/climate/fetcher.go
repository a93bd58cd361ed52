package climate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/i474232898/weather-history-aggregation/internal/logger"
	"github.com/i474232898/weather-history-aggregation/internal/metrics"
)

const (
	defaultRecordLimit = 1000
	defaultCallTimeout = 30 * time.Second
)

// FetchRequest describes one multi-year historical query.
type FetchRequest struct {
	Coordinate Coordinate
	Day        MonthDay
	Metrics    []string
	Years      YearRange

	// RequireSuccess turns "every year failed" into ErrServiceUnavailable
	// instead of an empty result.
	RequireSuccess bool
}

// YearFailure records a year that was skipped.
type YearFailure struct {
	Year  int    `json:"year"`
	Error string `json:"error"`
}

// FetchResult is the merged outcome of a fetch.
type FetchResult struct {
	Observations ObservationSet `json:"-"`
	Years        YearRange      `json:"years"`
	FailedYears  []YearFailure  `json:"failedYears,omitempty"`
	Dropped      int            `json:"droppedRecords"`
}

// Succeeded is the number of years whose query returned.
func (r FetchResult) Succeeded() int {
	return r.Years.Len() - len(r.FailedYears)
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithConcurrency bounds how many years are queried at once. 1 is sequential.
func WithConcurrency(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithCallTimeout bounds each per-year call. A timed-out year is skipped like any failure.
func WithCallTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.callTimeout = d
		}
	}
}

// WithRecordLimit sets the per-call record limit sent to the provider.
func WithRecordLimit(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.limit = n
		}
	}
}

// WithFetcherLogger overrides the logger.
func WithFetcherLogger(l logger.Logger) FetcherOption {
	return func(f *Fetcher) { f.log = l }
}

// Fetcher issues one records query per year and merges the results.
type Fetcher struct {
	provider    RecordsProvider
	concurrency int
	callTimeout time.Duration
	limit       int
	log         logger.Logger
}

// NewFetcher creates a Fetcher over provider.
func NewFetcher(provider RecordsProvider, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		provider:    provider,
		concurrency: 1,
		callTimeout: defaultCallTimeout,
		limit:       defaultRecordLimit,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.log == nil {
		f.log = logger.Named("fetcher")
	}
	return f
}

type yearOutcome struct {
	obs     ObservationSet
	dropped int
	err     error
}

// Fetch queries every year of req.Years for req.Day. A failing year is logged,
// recorded in FailedYears and skipped; it never aborts the other years.
func (f *Fetcher) Fetch(ctx context.Context, req FetchRequest) (FetchResult, error) {
	if err := req.Day.Validate(); err != nil {
		return FetchResult{}, err
	}
	if err := req.Years.Validate(); err != nil {
		return FetchResult{}, err
	}
	if len(req.Metrics) == 0 {
		return FetchResult{}, fmt.Errorf("%w: no metric codes requested", ErrUnsupportedPattern)
	}

	wanted := make(map[string]struct{}, len(req.Metrics))
	for _, m := range req.Metrics {
		wanted[strings.ToUpper(m)] = struct{}{}
	}

	years := req.Years.Years()
	outcomes := make([]yearOutcome, len(years))

	// Each year owns its slot; the join below concatenates in year order.
	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for i, year := range years {
		i, year := i, year
		g.Go(func() error {
			outcomes[i] = f.fetchYear(ctx, req, year, wanted)
			return nil
		})
	}
	_ = g.Wait()

	res := FetchResult{Years: req.Years}
	for i, out := range outcomes {
		metrics.RecordYearFetch(out.err == nil)
		if out.err != nil {
			res.FailedYears = append(res.FailedYears, YearFailure{Year: years[i], Error: out.err.Error()})
			continue
		}
		res.Observations = append(res.Observations, out.obs...)
		res.Dropped += out.dropped
	}
	metrics.RecordDropped(res.Dropped)

	f.log.Info(ctx, "historical fetch complete",
		logger.String("provider", f.provider.Name()),
		logger.String("coordinate", req.Coordinate.String()),
		logger.String("day", req.Day.String()),
		logger.Int("years", len(years)),
		logger.Int("failed", len(res.FailedYears)),
		logger.Int("observations", len(res.Observations)),
		logger.Int("dropped", res.Dropped),
	)

	if req.RequireSuccess && res.Succeeded() == 0 {
		return res, fmt.Errorf("%w: all %d yearly queries failed (last: %s)",
			ErrServiceUnavailable, len(years), res.FailedYears[len(res.FailedYears)-1].Error)
	}
	return res, nil
}

func (f *Fetcher) fetchYear(ctx context.Context, req FetchRequest, year int, wanted map[string]struct{}) yearOutcome {
	callCtx, cancel := context.WithTimeout(ctx, f.callTimeout)
	defer cancel()

	date := req.Day.In(year)
	raws, err := f.provider.Records(callCtx, RecordsQuery{
		Coordinate: req.Coordinate,
		StartDate:  date,
		EndDate:    date,
		Metrics:    req.Metrics,
		Limit:      f.limit,
	})
	if err != nil {
		f.log.Warn(ctx, "skipping year after failed query",
			logger.String("provider", f.provider.Name()),
			logger.Int("year", year),
			logger.Error(err),
		)
		return yearOutcome{err: err}
	}

	out := yearOutcome{obs: make(ObservationSet, 0, len(raws))}
	for _, raw := range raws {
		o, err := ParseRecord(raw, req.Day, wanted)
		if err != nil {
			out.dropped++
			f.log.Debug(ctx, "dropping record",
				logger.Int("year", year),
				logger.String("metric", raw.Metric),
				logger.String("date", raw.Date),
				logger.Error(err),
			)
			continue
		}
		out.obs = append(out.obs, o)
	}
	return out
}
