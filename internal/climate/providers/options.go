package providers

import (
	"net/http"

	"github.com/sony/gobreaker"
)

// endpoint is the state every provider shares.
type endpoint struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func newEndpoint(name, baseURL string, client *http.Client, opts []Option) endpoint {
	e := endpoint{
		name:    name,
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{Client: client, Backoff: DefaultBackoff},
	}
	for _, opt := range opts {
		opt(&e)
	}
	e.circuit = newBreaker(e.name)
	return e
}

// Name returns the provider name used in logs and metrics.
func (e *endpoint) Name() string {
	return e.name
}

// Option configures a provider.
type Option func(*endpoint)

// WithBaseURL points the provider at another host, e.g. an httptest server.
func WithBaseURL(u string) Option {
	return func(e *endpoint) {
		if u != "" {
			e.baseURL = u
		}
	}
}

// WithBackoff overrides the retry policy.
func WithBackoff(b BackoffConfig) Option {
	return func(e *endpoint) { e.httpCfg.Backoff = b }
}
