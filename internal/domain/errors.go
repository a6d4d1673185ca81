package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced local file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrLocationNotFound is matched by *LocationNotFoundError.
	ErrLocationNotFound = errors.New("location not found")

	// ErrUpstreamUnavailable wraps transport failures talking to the chat,
	// geocoding or forecast services.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// LocationNotFoundError carries the query that neither the gazetteer nor the
// geocoder could resolve.
type LocationNotFoundError struct {
	Query string
}

func (e *LocationNotFoundError) Error() string {
	return fmt.Sprintf("location not found: %s", e.Query)
}

func (e *LocationNotFoundError) Is(target error) bool {
	return target == ErrLocationNotFound
}
