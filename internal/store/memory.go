package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/i474232898/weather-history-aggregation/internal/climate"
)

var (
	// ErrNotFound is returned when no report is available for a place.
	ErrNotFound = errors.New("no climatology report for place")
)

// Key normalises a place name for indexing.
func Key(place string) string {
	return strings.ToLower(strings.TrimSpace(place))
}

// reportHistory holds a time-ordered list of reports for a place.
type reportHistory struct {
	reports []climate.SummaryReport
}

// MemoryStore is a concurrency-safe in-memory report store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: place key, value: history
	data map[string]*reportHistory

	maxHistory int           // max number of reports per place
	maxAge     time.Duration // optional max age for reports
	now        func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*reportHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveReport appends a report for its place and enforces retention.
func (s *MemoryStore) SaveReport(_ context.Context, r climate.SummaryReport) error {
	key := Key(r.Place)

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &reportHistory{}
		s.data[key] = history
	}

	history.reports = append(history.reports, r)

	if s.maxHistory > 0 && len(history.reports) > s.maxHistory {
		over := len(history.reports) - s.maxHistory
		history.reports = history.reports[over:]
	}

	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.reports); i++ {
			if !history.reports[i].GeneratedAt.Before(cutoff) {
				break
			}
		}
		history.reports = history.reports[i:]
	}
	return nil
}

// LatestReport returns the most recent report for a place.
func (s *MemoryStore) LatestReport(_ context.Context, place string) (climate.SummaryReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[Key(place)]
	if !ok || len(history.reports) == 0 {
		return climate.SummaryReport{}, ErrNotFound
	}
	return history.reports[len(history.reports)-1], nil
}

// Reports returns all reports for a place generated between from and to (inclusive).
func (s *MemoryStore) Reports(_ context.Context, place string, from, to time.Time) ([]climate.SummaryReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[Key(place)]
	if !ok || len(history.reports) == 0 {
		return nil, ErrNotFound
	}

	var result []climate.SummaryReport
	for _, r := range history.reports {
		if !r.GeneratedAt.Before(from) && !r.GeneratedAt.After(to) {
			result = append(result, r)
		}
	}
	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
