package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/i474232898/weather-history-aggregation/internal/climate"
	"github.com/i474232898/weather-history-aggregation/internal/logger"
)

const (
	noaaDataset       = "GHCND" // Global Historical Climatology Network Daily
	noaaDefaultRadius = 0.25    // degrees around the coordinate searched for stations
	noaaMaxStations   = 10
)

// NOAAProvider reads daily records from the NCEI Climate Data Online v2 API.
//
// CDO's /data endpoint filters by station, not by coordinate, so each query
// first lists GHCND stations inside a small box around the coordinate that
// were active on the requested dates, then asks /data for those stations.
type NOAAProvider struct {
	endpoint
	token  string
	radius float64
	log    logger.Logger
}

// NewNOAAProvider creates the provider. token is the CDO web-services token.
func NewNOAAProvider(client *http.Client, token string, opts ...Option) *NOAAProvider {
	return &NOAAProvider{
		endpoint: newEndpoint("noaa", "https://www.ncei.noaa.gov/cdo-web/api/v2", client, opts),
		token:    token,
		radius:   noaaDefaultRadius,
		log:      logger.Named("noaa"),
	}
}

type noaaEnvelope[T any] struct {
	Metadata struct {
		ResultSet struct {
			Offset int `json:"offset"`
			Count  int `json:"count"`
			Limit  int `json:"limit"`
		} `json:"resultset"`
	} `json:"metadata"`
	Results []T `json:"results"`
}

type noaaStation struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	DataCoverage float64 `json:"datacoverage"`
}

type noaaRecord struct {
	Date     string   `json:"date"`
	DataType string   `json:"datatype"`
	Station  string   `json:"station"`
	Value    *float64 `json:"value"`
}

// Records returns the raw GHCND records for q. An area without stations
// yields no records and no error.
func (p *NOAAProvider) Records(ctx context.Context, q climate.RecordsQuery) ([]climate.RawRecord, error) {
	if p.token == "" {
		return nil, fmt.Errorf("%w: noaa token is not configured", climate.ErrServiceUnavailable)
	}

	stations, err := p.stations(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(stations) == 0 {
		p.log.Debug(ctx, "no stations near coordinate",
			logger.String("coordinate", q.Coordinate.String()),
			logger.String("date", q.StartDate),
		)
		return nil, nil
	}

	values := url.Values{}
	values.Set("datasetid", noaaDataset)
	for _, m := range q.Metrics {
		values.Add("datatypeid", m)
	}
	for _, s := range stations {
		values.Add("stationid", s.ID)
	}
	values.Set("startdate", q.StartDate)
	values.Set("enddate", q.EndDate)
	values.Set("units", "metric")
	values.Set("limit", strconv.Itoa(q.Limit))

	var env noaaEnvelope[noaaRecord]
	if err := p.get(ctx, "/data", values, &env); err != nil {
		return nil, err
	}
	if rs := env.Metadata.ResultSet; rs.Count > len(env.Results) {
		p.log.Warn(ctx, "noaa result set truncated",
			logger.Int("count", rs.Count),
			logger.Int("returned", len(env.Results)),
			logger.String("date", q.StartDate),
		)
	}

	out := make([]climate.RawRecord, 0, len(env.Results))
	for _, r := range env.Results {
		out = append(out, climate.RawRecord{
			Metric:  r.DataType,
			Value:   r.Value,
			Date:    r.Date,
			Station: r.Station,
		})
	}
	return out, nil
}

func (p *NOAAProvider) stations(ctx context.Context, q climate.RecordsQuery) ([]noaaStation, error) {
	c := q.Coordinate
	values := url.Values{}
	values.Set("datasetid", noaaDataset)
	values.Set("extent", fmt.Sprintf("%.4f,%.4f,%.4f,%.4f",
		c.Lat-p.radius, c.Lon-p.radius, c.Lat+p.radius, c.Lon+p.radius))
	values.Set("startdate", q.StartDate)
	values.Set("enddate", q.EndDate)
	values.Set("sortfield", "datacoverage")
	values.Set("sortorder", "desc")
	values.Set("limit", strconv.Itoa(noaaMaxStations))

	var env noaaEnvelope[noaaStation]
	if err := p.get(ctx, "/stations", values, &env); err != nil {
		return nil, err
	}
	return env.Results, nil
}

func (p *NOAAProvider) get(ctx context.Context, path string, values url.Values, into any) error {
	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, p.baseURL+path+"?"+values.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("token", p.token)
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.name, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// CDO answers an empty result set with "{}".
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("%w: decode noaa %s response: %v", climate.ErrServiceUnavailable, path, err)
	}
	return nil
}
