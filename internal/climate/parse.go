package climate

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Layouts accepted for RawRecord.Date.
var recordDateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

var (
	errMissingValue   = errors.New("missing value")
	errBadValue       = errors.New("non-finite value")
	errBadDate        = errors.New("unparseable date")
	errUnexpectedDay  = errors.New("date outside requested day")
	errUnexpectedCode = errors.New("metric not requested")
	errMissingMetric  = errors.New("missing metric code")
)

// ParseRecord validates a raw record against the request it answers.
func ParseRecord(raw RawRecord, md MonthDay, metrics map[string]struct{}) (Observation, error) {
	code := strings.ToUpper(strings.TrimSpace(raw.Metric))
	if code == "" {
		return Observation{}, errMissingMetric
	}
	if _, ok := metrics[code]; !ok {
		return Observation{}, fmt.Errorf("%w: %s", errUnexpectedCode, code)
	}
	if raw.Value == nil {
		return Observation{}, errMissingValue
	}
	if math.IsNaN(*raw.Value) || math.IsInf(*raw.Value, 0) {
		return Observation{}, errBadValue
	}
	date, err := parseRecordDate(raw.Date)
	if err != nil {
		return Observation{}, err
	}
	if !md.Matches(date) {
		return Observation{}, fmt.Errorf("%w: %s", errUnexpectedDay, raw.Date)
	}
	return Observation{
		Metric:  code,
		Value:   *raw.Value,
		Date:    date,
		Station: raw.Station,
	}, nil
}

func parseRecordDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range recordDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", errBadDate, s)
}
