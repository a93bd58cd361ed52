package climate

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced to callers. Match with errors.Is.
var (
	ErrNotFound           = errors.New("place not found")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrUnsupportedPattern = errors.New("unsupported pattern")
	ErrNoMatchingRecords  = errors.New("no matching records")
	ErrInvalidDate        = errors.New("invalid date")
)

// PatternError reports a label or code the resolver does not know.
type PatternError struct {
	Pattern   string
	Supported []string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern %q is not supported; choose one of: %s",
		e.Pattern, strings.Join(e.Supported, ", "))
}

func (e *PatternError) Unwrap() error { return ErrUnsupportedPattern }

// NoMatchingRecordsError reports that a fetch succeeded but carried nothing
// for the requested metric. Available lists the codes that were present.
type NoMatchingRecordsError struct {
	Metric    string
	Available []string
}

func (e *NoMatchingRecordsError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no records found for %s", e.Metric)
	}
	return fmt.Sprintf("no records found for %s; available: %s",
		e.Metric, strings.Join(e.Available, ", "))
}

func (e *NoMatchingRecordsError) Unwrap() error { return ErrNoMatchingRecords }

// Kind names the error kind of err, or "internal" for anything outside the taxonomy.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrUnsupportedPattern):
		return "unsupported_pattern"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNoMatchingRecords):
		return "no_matching_records"
	case errors.Is(err, ErrServiceUnavailable):
		return "service_unavailable"
	default:
		return "internal"
	}
}
