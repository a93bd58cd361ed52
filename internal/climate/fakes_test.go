package climate_test

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/i474232898/weather-history-aggregation/internal/climate"
)

func ptr(v float64) *float64 { return &v }

// fakeRecords answers per-year queries from a function and can fail chosen years.
type fakeRecords struct {
	records func(year int, q climate.RecordsQuery) []climate.RawRecord
	fail    map[int]error
	delay   time.Duration

	mu       sync.Mutex
	queries  []climate.RecordsQuery
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeRecords) Name() string { return "fake-records" }

func (f *fakeRecords) Records(ctx context.Context, q climate.RecordsQuery) ([]climate.RawRecord, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	year, err := strconv.Atoi(q.StartDate[:4])
	if err != nil {
		return nil, err
	}
	if err := f.fail[year]; err != nil {
		return nil, err
	}
	if f.records == nil {
		return nil, nil
	}
	return f.records(year, q), nil
}

func (f *fakeRecords) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// sameEveryYear returns one record per metric per year with a fixed value.
func sameEveryYear(values map[string]float64) func(int, climate.RecordsQuery) []climate.RawRecord {
	return func(year int, q climate.RecordsQuery) []climate.RawRecord {
		var out []climate.RawRecord
		for _, m := range q.Metrics {
			v, ok := values[m]
			if !ok {
				continue
			}
			out = append(out, climate.RawRecord{
				Metric:  m,
				Value:   ptr(v),
				Date:    q.StartDate + "T00:00:00",
				Station: "GHCND:TEST0001",
			})
		}
		return out
	}
}

// fakeConditions resolves a fixed set of places.
type fakeConditions struct {
	name   string
	places map[string]climate.Conditions
	err    error

	mu    sync.Mutex
	calls int
}

func (f *fakeConditions) Name() string { return f.name }

func (f *fakeConditions) Current(_ context.Context, place string) (climate.Conditions, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return climate.Conditions{}, f.err
	}
	c, ok := f.places[place]
	if !ok {
		return climate.Conditions{}, fmt.Errorf("%w: %s", climate.ErrNotFound, place)
	}
	return c, nil
}

func (f *fakeConditions) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var paris = climate.Conditions{
	Provider:     "fake",
	Name:         "Paris",
	Coordinate:   climate.Coordinate{Lat: 48.8566, Lon: 2.3522},
	TemperatureC: 21,
	Description:  "Clear sky",
	HumidityPct:  40,
}
