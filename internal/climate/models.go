package climate

import (
	"fmt"
	"time"
)

// GHCND metric codes understood by the service.
const (
	MetricMaxTemperature     = "TMAX"
	MetricMinTemperature     = "TMIN"
	MetricAverageTemperature = "TAVG"
	MetricObservedTemp       = "TOBS"
	MetricPrecipitation      = "PRCP"
	MetricSnowfall           = "SNOW"
	MetricAverageWind        = "AWND"
	MetricFastestWind        = "WSF5"
	MetricFastestWindDir     = "WDF5"
	MetricSnowWaterEquiv     = "WESD"
)

// SummaryMetrics are the codes the aggregator consumes.
var SummaryMetrics = []string{
	MetricMaxTemperature,
	MetricMinTemperature,
	MetricPrecipitation,
	MetricSnowfall,
}

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

// Observation is one validated (station, date, metric) record.
// Temperatures are in degrees Celsius, precipitation and snowfall in millimetres.
type Observation struct {
	Metric  string    `json:"metric"`
	Value   float64   `json:"value"`
	Date    time.Time `json:"date"`
	Station string    `json:"station,omitempty"`
}

// ObservationSet is the merged result of one multi-year fetch.
// Order across years carries no meaning.
type ObservationSet []Observation

// Filter returns the observations for one metric code.
func (s ObservationSet) Filter(metric string) ObservationSet {
	var out ObservationSet
	for _, o := range s {
		if o.Metric == metric {
			out = append(out, o)
		}
	}
	return out
}

// YearPoint is one plotted value.
type YearPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// YearSeries is ordered by strictly increasing Year.
type YearSeries []YearPoint

// Conditions is a current-conditions reading for a place.
type Conditions struct {
	Provider     string     `json:"provider"`
	Name         string     `json:"name"`
	Coordinate   Coordinate `json:"coordinate"`
	TemperatureC float64    `json:"temperatureC"`
	Description  string     `json:"description"`
	HumidityPct  float64    `json:"humidityPercent"`
}

// TemperatureF returns the reading in display Fahrenheit.
func (c Conditions) TemperatureF() int {
	return RoundHalfUp(CelsiusToFahrenheit(c.TemperatureC))
}
