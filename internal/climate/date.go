package climate

import (
	"fmt"
	"time"
)

const maxYearSpan = 100

// MonthDay is a calendar day without a year.
//
// Validation is shallow: month 1-12 and day 1-31 with no
// per-month check, so 02-30 and 04-31 are accepted. Years in which such a
// date does not exist simply fail at the records service and are skipped.
type MonthDay struct {
	Month int `json:"month"`
	Day   int `json:"day"`
}

// ParseMonthDay parses the strict zero-padded MM-DD form ("07-04", not "7-4").
func ParseMonthDay(s string) (MonthDay, error) {
	if len(s) != 5 || s[2] != '-' {
		return MonthDay{}, fmt.Errorf("%w: %q must be in MM-DD format", ErrInvalidDate, s)
	}
	month, ok1 := twoDigits(s[0:2])
	day, ok2 := twoDigits(s[3:5])
	if !ok1 || !ok2 {
		return MonthDay{}, fmt.Errorf("%w: %q must be in MM-DD format", ErrInvalidDate, s)
	}
	md := MonthDay{Month: month, Day: day}
	if err := md.Validate(); err != nil {
		return MonthDay{}, err
	}
	return md, nil
}

func twoDigits(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// Validate checks month 1-12 and day 1-31.
func (md MonthDay) Validate() error {
	if md.Month < 1 || md.Month > 12 {
		return fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidDate, md.Month)
	}
	if md.Day < 1 || md.Day > 31 {
		return fmt.Errorf("%w: day %d out of range 1-31", ErrInvalidDate, md.Day)
	}
	return nil
}

func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", md.Month, md.Day)
}

// In formats the day for a given year as YYYY-MM-DD, without normalising
// impossible dates.
func (md MonthDay) In(year int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, md.Month, md.Day)
}

// Matches reports whether t falls on this month/day.
func (md MonthDay) Matches(t time.Time) bool {
	return int(t.Month()) == md.Month && t.Day() == md.Day
}

// YearRange is an inclusive span of years.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// DefaultYearRange returns the span most recent complete years before now.
func DefaultYearRange(now time.Time, span int) YearRange {
	if span <= 0 {
		span = 10
	}
	end := now.Year() - 1
	return YearRange{Start: end - span + 1, End: end}
}

// Validate rejects inverted or oversized ranges.
func (r YearRange) Validate() error {
	if r.Start <= 0 || r.End <= 0 {
		return fmt.Errorf("%w: years must be positive", ErrInvalidDate)
	}
	if r.Start > r.End {
		return fmt.Errorf("%w: start year %d after end year %d", ErrInvalidDate, r.Start, r.End)
	}
	if r.Len() > maxYearSpan {
		return fmt.Errorf("%w: range spans %d years, max %d", ErrInvalidDate, r.Len(), maxYearSpan)
	}
	return nil
}

// Len is the number of years in the range.
func (r YearRange) Len() int {
	return r.End - r.Start + 1
}

// Years lists the range ascending.
func (r YearRange) Years() []int {
	years := make([]int, 0, r.Len())
	for y := r.Start; y <= r.End; y++ {
		years = append(years, y)
	}
	return years
}
