package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-history-aggregation/internal/climate"
	"github.com/i474232898/weather-history-aggregation/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *climate.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		q, err := parsePlaceQuery(c)
		if err != nil {
			return badRequest(err)
		}
		cond, err := service.Current(c.UserContext(), q.Place)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"conditions":   cond,
			"temperatureF": cond.TemperatureF(),
		})
	})

	v1.Get("/climate/patterns", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"patterns": climate.Patterns()})
	})

	v1.Get("/climate/summary", func(c *fiber.Ctx) error {
		var q summaryQuery
		if err := q.bind(c); err != nil {
			return err
		}
		report, err := service.Summary(c.UserContext(), climate.SummaryRequest{
			Place: q.Place,
			Day:   q.day,
			Years: q.years,
		})
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"report": report,
			"text":   report.Text(),
		})
	})

	v1.Get("/climate/series", func(c *fiber.Ctx) error {
		var q summaryQuery
		if err := q.bind(c); err != nil {
			return err
		}
		pattern := c.Query("pattern")
		if pattern == "" {
			return badRequest(errors.New("pattern query parameter is required"))
		}
		report, err := service.Series(c.UserContext(), climate.SeriesRequest{
			Place:   q.Place,
			Day:     q.day,
			Pattern: pattern,
			Years:   q.years,
		})
		if err != nil {
			return err
		}
		return c.JSON(report)
	})

	v1.Get("/climate/reports/latest", func(c *fiber.Ctx) error {
		q, err := parsePlaceQuery(c)
		if err != nil {
			return badRequest(err)
		}
		report, err := service.LatestReport(c.UserContext(), q.Place)
		if err != nil {
			return storeError(err, "no stored report for requested place")
		}
		return c.JSON(report)
	})

	v1.Get("/climate/reports", func(c *fiber.Ctx) error {
		var q historyQuery
		if err := q.bind(c); err != nil {
			return badRequest(err)
		}
		if err := validate.Struct(q); err != nil {
			return badRequest(err)
		}
		reports, err := service.Reports(c.UserContext(), q.Location.Place, q.From, q.To)
		if err != nil {
			return storeError(err, "no stored reports for requested range")
		}
		return c.JSON(fiber.Map{
			"place":   q.Location.Place,
			"from":    q.From,
			"to":      q.To,
			"reports": reports,
		})
	})
}

func storeError(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, msg)
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to read stored reports")
}

func badRequest(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}

// placeQuery identifies a place by name ("Paris" or "Paris,FR").
type placeQuery struct {
	Place string `validate:"required"`
}

func parsePlaceQuery(c *fiber.Ctx) (placeQuery, error) {
	q := placeQuery{Place: c.Query("place")}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// summaryQuery holds query parameters shared by summary and series.
// from/to are optional years; both or neither must be given.
type summaryQuery struct {
	Place string `validate:"required"`
	Date  string `validate:"required"`
	From  int    `validate:"omitempty,min=1800,max=2200"`
	To    int    `validate:"omitempty,min=1800,max=2200"`

	day   climate.MonthDay
	years climate.YearRange
}

// bind parses and validates the query. Malformed dates surface as
// climate.ErrInvalidDate so the error handler reports them by kind.
func (q *summaryQuery) bind(c *fiber.Ctx) error {
	q.Place = c.Query("place")
	q.Date = c.Query("date")

	var err error
	if q.From, err = optionalYear(c.Query("from")); err != nil {
		return err
	}
	if q.To, err = optionalYear(c.Query("to")); err != nil {
		return err
	}
	if err := validate.Struct(q); err != nil {
		return badRequest(err)
	}
	if (q.From == 0) != (q.To == 0) {
		return badRequest(errors.New("from and to must be given together"))
	}

	if q.day, err = climate.ParseMonthDay(q.Date); err != nil {
		return err
	}
	if q.From != 0 {
		q.years = climate.YearRange{Start: q.From, End: q.To}
		if err := q.years.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func optionalYear(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, badRequest(errors.New("from and to must be years, e.g. 2014"))
	}
	return y, nil
}

// historyQuery holds query parameters for the stored-reports endpoint.
type historyQuery struct {
	Location placeQuery
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	loc, err := parsePlaceQuery(c)
	if err != nil {
		return err
	}
	h.Location = loc

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
