package geo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/lensbot/internal/domain"
)

// Resolver maps a place name to coordinates: gazetteer first, then the
// geocode cache, then the geocoder.
type Resolver struct {
	geocoder Geocoder
	cache    Cache
	logger   *slog.Logger
}

// NewResolver builds a Resolver. cache may be nil.
func NewResolver(geocoder Geocoder, cache Cache, logger *slog.Logger) *Resolver {
	return &Resolver{geocoder: geocoder, cache: cache, logger: logger}
}

func (r *Resolver) Resolve(ctx context.Context, place string) (domain.ResolvedLocation, error) {
	key := strings.ToLower(strings.TrimSpace(place))

	if c, ok := lookupGazetteer(key, place); ok {
		return located(place, c, domain.SourceGazetteer), nil
	}

	if key == "" {
		return domain.ResolvedLocation{}, &domain.LocationNotFoundError{Query: place}
	}

	if r.cache != nil {
		c, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			r.logger.Warn("geocode cache read failed", "place", place, "error", err)
		} else if ok {
			return located(place, c, domain.SourceCache), nil
		}
	}

	c, found, err := r.geocoder.Geocode(ctx, place)
	if err != nil {
		return domain.ResolvedLocation{}, fmt.Errorf("failed to geocode %q: %w", place, err)
	}
	if !found {
		return domain.ResolvedLocation{}, &domain.LocationNotFoundError{Query: place}
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, c); err != nil {
			r.logger.Warn("geocode cache write failed", "place", place, "error", err)
		}
	}
	r.logger.Info("place geocoded", "place", place, "latitude", c.Latitude, "longitude", c.Longitude)
	return located(place, c, domain.SourceGeocoder), nil
}

// lookupGazetteer tries the normalized key, then the raw input. The second
// lookup only matters for keys that normalization would alter.
func lookupGazetteer(key, raw string) (Coordinates, bool) {
	if c, ok := gazetteer[key]; ok {
		return c, true
	}
	c, ok := gazetteer[raw]
	return c, ok
}

func located(place string, c Coordinates, src domain.LocationSource) domain.ResolvedLocation {
	return domain.ResolvedLocation{
		Name:      place,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Source:    src,
	}
}
