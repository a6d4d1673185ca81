package geo

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedGeocoder wraps a Geocoder with a token-bucket limiter. The
// public Nominatim instance allows at most one request per second.
type RateLimitedGeocoder struct {
	geocoder Geocoder
	limiter  *rate.Limiter
}

// NewRateLimitedGeocoder allows rps requests per second (fractional values
// permitted) with the given burst.
func NewRateLimitedGeocoder(geocoder Geocoder, rps float64, burst int) *RateLimitedGeocoder {
	return &RateLimitedGeocoder{
		geocoder: geocoder,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimitedGeocoder) Geocode(ctx context.Context, query string) (Coordinates, bool, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Coordinates{}, false, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.geocoder.Geocode(ctx, query)
}

var _ Geocoder = (*RateLimitedGeocoder)(nil)
