package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-history-aggregation/internal/climate"
	"github.com/i474232898/weather-history-aggregation/internal/metrics"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

// DefaultBackoff is used by every provider unless overridden.
var DefaultBackoff = BackoffConfig{
	MaxRetries:      3,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

var (
	errRateLimited   = errors.New("rate limited")
	errServerError   = errors.New("server error")
	errClientError   = errors.New("client error")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// StatusError is a non-2xx answer from a provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
	kind       error
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: %d %s", e.Provider, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Unwrap() []error {
	return []error{e.kind, climate.ErrServiceUnavailable}
}

func newStatusError(provider string, resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	kind := errClientError
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		kind = errRateLimited
	case resp.StatusCode >= 500:
		kind = errServerError
	}
	return &StatusError{Provider: provider, StatusCode: resp.StatusCode, Body: string(body), kind: kind}
}

// retryable reports whether another attempt can help.
func retryable(err error) bool {
	return !errors.Is(err, errClientError)
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		// A 4xx says the request was bad, not that the provider is down.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errClientError)
		},
	})
}

// doRequestWithResilience executes the HTTP request with retries, exponential
// backoff and a circuit breaker. Non-2xx answers come back as *StatusError;
// transport failures are wrapped with climate.ErrServiceUnavailable.
func doRequestWithResilience(
	ctx context.Context,
	provider string,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	var attempt int
	for {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", climate.ErrServiceUnavailable, ctx.Err())
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		start := time.Now()
		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				defer resp.Body.Close()
				return nil, newStatusError(provider, resp)
			}
			return resp, nil
		})
		metrics.RecordProviderRequest(provider, outcome(err), time.Since(start).Seconds())

		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w: %v", climate.ErrServiceUnavailable, errCircuitOpen, err)
		}

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			err = fmt.Errorf("%w: %s: %v", climate.ErrServiceUnavailable, provider, err)
		}
		if !retryable(err) || attempt >= cfg.Backoff.MaxRetries {
			return nil, err
		}

		delay := cfg.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > cfg.Backoff.MaxInterval && cfg.Backoff.MaxInterval > 0 {
			delay = cfg.Backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %v", climate.ErrServiceUnavailable, ctx.Err())
		case <-timer.C:
		}

		attempt++
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errRateLimited):
		return "rate_limited"
	case errors.Is(err, errServerError):
		return "server_error"
	case errors.Is(err, errClientError):
		return "client_error"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	default:
		return "transport_error"
	}
}
