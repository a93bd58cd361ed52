package climate

import (
	"sort"
	"strings"
)

// Pattern pairs a user-facing label with its GHCND metric code.
type Pattern struct {
	Label       string `json:"label"`
	Code        string `json:"code"`
	Unit        string `json:"unit"`
	Temperature bool   `json:"temperature"`
}

// patterns is in display order.
var patterns = []Pattern{
	{Label: "Max Temperature", Code: MetricMaxTemperature, Unit: "°F", Temperature: true},
	{Label: "Min Temperature", Code: MetricMinTemperature, Unit: "°F", Temperature: true},
	{Label: "Average Temperature", Code: MetricAverageTemperature, Unit: "°F", Temperature: true},
	{Label: "Observed Temperature", Code: MetricObservedTemp, Unit: "°F", Temperature: true},
	{Label: "Precipitation", Code: MetricPrecipitation, Unit: "mm"},
	{Label: "Snowfall", Code: MetricSnowfall, Unit: "mm"},
	{Label: "Snow Water Equivalent", Code: MetricSnowWaterEquiv, Unit: "mm"},
	{Label: "Average Wind Speed", Code: MetricAverageWind, Unit: "m/s"},
	{Label: "Fastest 5-Second Wind", Code: MetricFastestWind, Unit: "m/s"},
	{Label: "Fastest 5-Second Wind Direction", Code: MetricFastestWindDir, Unit: "°"},
}

// Resolver maps labels and codes to metric codes. Matching is
// case-insensitive and ignores surrounding whitespace, so "snowfall",
// "SNOW" and "snow" all resolve to SNOW.
type Resolver struct {
	byKey map[string]Pattern
}

// NewResolver builds a resolver over the given patterns.
func NewResolver(ps []Pattern) *Resolver {
	r := &Resolver{byKey: make(map[string]Pattern, len(ps)*2)}
	for _, p := range ps {
		r.byKey[strings.ToLower(p.Label)] = p
		r.byKey[strings.ToLower(p.Code)] = p
	}
	return r
}

var defaultResolver = NewResolver(patterns)

// Resolve returns the metric code for a label or code.
func (r *Resolver) Resolve(labelOrCode string) (string, error) {
	p, ok := r.byKey[strings.ToLower(strings.TrimSpace(labelOrCode))]
	if !ok {
		return "", &PatternError{Pattern: labelOrCode, Supported: Labels()}
	}
	return p.Code, nil
}

// ResolvePattern resolves against the built-in pattern table.
func ResolvePattern(labelOrCode string) (string, error) {
	return defaultResolver.Resolve(labelOrCode)
}

// Patterns returns the built-in patterns in display order.
func Patterns() []Pattern {
	out := make([]Pattern, len(patterns))
	copy(out, patterns)
	return out
}

// Labels returns the user-facing labels in display order.
func Labels() []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = p.Label
	}
	return out
}

// Codes returns every supported metric code in display order.
func Codes() []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = p.Code
	}
	return out
}

// PatternFor looks up a pattern by code.
func PatternFor(code string) (Pattern, bool) {
	for _, p := range patterns {
		if p.Code == code {
			return p, true
		}
	}
	return Pattern{}, false
}

// IsTemperature reports whether code is converted to Fahrenheit for display.
func IsTemperature(code string) bool {
	p, ok := PatternFor(code)
	return ok && p.Temperature
}

// AvailableMetrics lists the distinct codes present in obs, sorted.
func AvailableMetrics(obs ObservationSet) []string {
	seen := make(map[string]struct{})
	for _, o := range obs {
		seen[o.Metric] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
