package climate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/i474232898/weather-history-aggregation/internal/logger"
)

// Geocoder resolves a place name to coordinates through current-conditions
// lookups. Providers are tried in order; results are not cached.
type Geocoder struct {
	providers []ConditionsProvider
	log       logger.Logger
}

// NewGeocoder creates a Geocoder over the given providers.
func NewGeocoder(providers []ConditionsProvider, log logger.Logger) *Geocoder {
	if log == nil {
		log = logger.Named("geocoder")
	}
	return &Geocoder{providers: providers, log: log}
}

// Resolve returns the coordinates of place. Any failure, including blank
// input or an unreachable service, is reported as ErrNotFound.
func (g *Geocoder) Resolve(ctx context.Context, place string) (Coordinate, error) {
	c, err := g.lookup(ctx, place)
	if errors.Is(err, ErrNotFound) {
		return Coordinate{}, err
	}
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: %q: %v", ErrNotFound, place, err)
	}
	return c.Coordinate, nil
}

// Current returns the current conditions for place from the first provider
// that answers. If every provider fails, ErrNotFound wins over
// ErrServiceUnavailable when any provider reported an unknown place.
func (g *Geocoder) Current(ctx context.Context, place string) (Conditions, error) {
	return g.lookup(ctx, place)
}

func (g *Geocoder) lookup(ctx context.Context, place string) (Conditions, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return Conditions{}, fmt.Errorf("%w: empty place name", ErrNotFound)
	}
	if len(g.providers) == 0 {
		return Conditions{}, fmt.Errorf("%w: no conditions providers configured", ErrServiceUnavailable)
	}

	var errs []error
	for _, p := range g.providers {
		c, err := p.Current(ctx, place)
		if err != nil {
			g.log.Warn(ctx, "conditions lookup failed",
				logger.String("provider", p.Name()),
				logger.String("place", place),
				logger.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		return c, nil
	}

	joined := errors.Join(errs...)
	for _, err := range errs {
		if errors.Is(err, ErrNotFound) {
			return Conditions{}, fmt.Errorf("%w: %q (%v)", ErrNotFound, place, joined)
		}
	}
	return Conditions{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, joined)
}
