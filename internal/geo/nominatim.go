package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/lensbot/internal/domain"
)

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	countryHint         = "Thailand"
)

// Geocoder looks up the best match for a free-text place. found is false
// when the service has no candidate.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (c Coordinates, found bool, err error)
}

// NominatimClient queries OpenStreetMap's Nominatim search API, scoped to
// Thailand and limited to one candidate.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewNominatimClient(baseURL, userAgent string, timeout time.Duration) *NominatimClient {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &NominatimClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *NominatimClient) Geocode(ctx context.Context, query string) (Coordinates, bool, error) {
	params := url.Values{}
	params.Add("q", fmt.Sprintf("%s, %s", query, countryHint))
	params.Add("format", "jsonv2")
	params.Add("addressdetails", "0")
	params.Add("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("failed to call nominatim: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Coordinates{}, false, fmt.Errorf("nominatim returned status %d: %s: %w", resp.StatusCode, body, domain.ErrUpstreamUnavailable)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coordinates{}, false, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return Coordinates{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}
	return Coordinates{Latitude: lat, Longitude: lon}, true, nil
}
