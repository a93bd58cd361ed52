package climate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TemperatureMean is an averaged temperature that may be absent.
// Samples == 0 means no observation contributed; Celsius and Fahrenheit are
// then meaningless and must not be displayed.
type TemperatureMean struct {
	Celsius    float64
	Fahrenheit int
	Samples    int
}

// Present reports whether at least one observation contributed.
func (t TemperatureMean) Present() bool { return t.Samples > 0 }

// MarshalJSON renders an absent mean as null.
func (t TemperatureMean) MarshalJSON() ([]byte, error) {
	if !t.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Celsius    float64 `json:"celsius"`
		Fahrenheit int     `json:"fahrenheit"`
		Samples    int     `json:"samples"`
	}{t.Celsius, t.Fahrenheit, t.Samples})
}

// MetricSummary is the per-metric reduction of an ObservationSet.
//
// Precipitation with no samples is reported as 0.0 mm: missing
// precipitation is read as "no rain measured". Snow probability with no snow
// samples is 0.
type MetricSummary struct {
	MeanMaxTemperature   TemperatureMean `json:"meanMaxTemperature"`
	MeanMinTemperature   TemperatureMean `json:"meanMinTemperature"`
	MeanPrecipitationMM  float64         `json:"meanPrecipitationMm"`
	PrecipitationSamples int             `json:"precipitationSamples"`
	SnowProbabilityPct   float64         `json:"snowProbabilityPercent"`
	SnowSamples          int             `json:"snowSamples"`
	SnowDays             int             `json:"snowDays"`
}

// Summarize reduces obs into a MetricSummary. It is pure.
// Temperatures are averaged in Celsius and converted afterwards.
func Summarize(obs ObservationSet) MetricSummary {
	var (
		maxTemps []float64
		minTemps []float64
		precip   []float64
		snowSeen int
		snowDays int
	)

	for _, o := range obs {
		switch o.Metric {
		case MetricMaxTemperature:
			maxTemps = append(maxTemps, o.Value)
		case MetricMinTemperature:
			minTemps = append(minTemps, o.Value)
		case MetricPrecipitation:
			precip = append(precip, o.Value)
		case MetricSnowfall:
			snowSeen++
			if o.Value > 0 {
				snowDays++
			}
		}
	}

	s := MetricSummary{
		MeanMaxTemperature:   temperatureMean(maxTemps),
		MeanMinTemperature:   temperatureMean(minTemps),
		MeanPrecipitationMM:  mean(precip),
		PrecipitationSamples: len(precip),
		SnowSamples:          snowSeen,
		SnowDays:             snowDays,
	}
	if snowSeen > 0 {
		s.SnowProbabilityPct = float64(snowDays) / float64(snowSeen) * 100
	}
	return s
}

func temperatureMean(values []float64) TemperatureMean {
	if len(values) == 0 {
		return TemperatureMean{}
	}
	c := mean(values)
	return TemperatureMean{
		Celsius:    c,
		Fahrenheit: RoundHalfUp(CelsiusToFahrenheit(c)),
		Samples:    len(values),
	}
}

// Text renders the summary the way the desktop app printed it.
func (s MetricSummary) Text(place string, md MonthDay) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Historical Weather Prediction for %s on %s:\n", place, md)
	fmt.Fprintf(&b, "Average Maximum Temperature: %s\n", formatTemperature(s.MeanMaxTemperature))
	fmt.Fprintf(&b, "Average Minimum Temperature: %s\n", formatTemperature(s.MeanMinTemperature))
	fmt.Fprintf(&b, "Average Precipitation: %.2f mm\n", s.MeanPrecipitationMM)
	fmt.Fprintf(&b, "Probability of Snow: %.2f%%", s.SnowProbabilityPct)
	return b.String()
}

func formatTemperature(t TemperatureMean) string {
	if !t.Present() {
		return "no data"
	}
	return fmt.Sprintf("%d°F", t.Fahrenheit)
}
