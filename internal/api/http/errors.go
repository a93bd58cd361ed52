package httpapi

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-history-aggregation/internal/climate"
	"github.com/i474232898/weather-history-aggregation/internal/logger"
	"github.com/i474232898/weather-history-aggregation/internal/metrics"
)

// errorResponse is the JSON body of every failed request. Kind is one of
// invalid_date, unsupported_pattern, not_found, no_matching_records,
// service_unavailable, bad_request or internal.
type errorResponse struct {
	Error     bool     `json:"error"`
	Kind      string   `json:"kind"`
	Message   string   `json:"message"`
	Supported []string `json:"supported,omitempty"`
	Available []string `json:"available,omitempty"`
}

// ErrorHandler is the centralized Fiber error handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, kind := classify(err)
	resp := errorResponse{Error: true, Kind: kind, Message: err.Error()}

	var pe *climate.PatternError
	if errors.As(err, &pe) {
		resp.Supported = pe.Supported
	}
	var ne *climate.NoMatchingRecordsError
	if errors.As(err, &ne) {
		resp.Available = ne.Available
	}

	if code >= fiber.StatusInternalServerError {
		logger.Named("http").Error(c.UserContext(), "request failed",
			logger.String("path", c.Path()),
			logger.String("kind", resp.Kind),
			logger.Error(err),
		)
	}
	return c.Status(code).JSON(resp)
}

// classify maps an error to its HTTP status and kind.
func classify(err error) (int, string) {
	kind := climate.Kind(err)
	switch kind {
	case "invalid_date", "unsupported_pattern":
		return fiber.StatusBadRequest, kind
	case "not_found", "no_matching_records":
		return fiber.StatusNotFound, kind
	case "service_unavailable":
		return fiber.StatusServiceUnavailable, kind
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, kindForStatus(fe.Code)
	}
	return fiber.StatusInternalServerError, kind
}

func kindForStatus(code int) string {
	switch {
	case code == fiber.StatusNotFound:
		return "not_found"
	case code >= 400 && code < 500:
		return "bad_request"
	default:
		return "internal"
	}
}

// Metrics counts every request by route, method and final status.
func Metrics(c *fiber.Ctx) error {
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		// The error handler runs after the chain returns.
		status, _ = classify(err)
	}
	route := c.Route().Path
	metrics.RecordHTTPRequest(route, c.Method(), strconv.Itoa(status))
	return err
}
