package climate

import "sort"

// BuildSeries averages the observations for metric per year and returns one
// point per year, ascending. Temperature metrics are converted to Fahrenheit
// after averaging; other metrics keep their native unit.
//
// Years without data produce no point. If nothing matches metric the result is
// a *NoMatchingRecordsError listing the codes that were present.
func BuildSeries(obs ObservationSet, metric string) (YearSeries, error) {
	matching := obs.Filter(metric)
	if len(matching) == 0 {
		return nil, &NoMatchingRecordsError{Metric: metric, Available: AvailableMetrics(obs)}
	}

	byYear := make(map[int][]float64)
	for _, o := range matching {
		y := o.Date.Year()
		byYear[y] = append(byYear[y], o.Value)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	convert := IsTemperature(metric)
	series := make(YearSeries, 0, len(years))
	for _, y := range years {
		v := mean(byYear[y])
		if convert {
			v = CelsiusToFahrenheit(v)
		}
		series = append(series, YearPoint{Year: y, Value: v})
	}
	return series, nil
}
