package weather

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
	DefaultBaseURL  = "https://api.open-meteo.com"
	DefaultTimezone = "Asia/Bangkok"
)

var (
	currentFields = []string{"temperature_2m", "relative_humidity_2m", "rain", "weather_code", "wind_speed_10m"}
	dailyFields   = []string{"temperature_2m_max", "temperature_2m_min", "rain_sum"}
	hourlyFields  = []string{"temperature_2m", "relative_humidity_2m", "rain"}
)

// Forecaster fetches a shaped weather report for resolved coordinates.
type Forecaster interface {
	Fetch(ctx context.Context, loc domain.ResolvedLocation, includeHourly bool) (domain.WeatherReport, error)
}

// Client talks to the Open-Meteo forecast API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type forecastResponse struct {
	Timezone string       `json:"timezone"`
	Current  currentBlock `json:"current"`
	Daily    dailyBlock   `json:"daily"`
	Hourly   *hourlyBlock `json:"hourly"`
}

type currentBlock struct {
	Time               *string  `json:"time"`
	Temperature2m      *float64 `json:"temperature_2m"`
	RelativeHumidity2m *float64 `json:"relative_humidity_2m"`
	Rain               *float64 `json:"rain"`
	WeatherCode        *float64 `json:"weather_code"`
	WindSpeed10m       *float64 `json:"wind_speed_10m"`
}

type dailyBlock struct {
	Temperature2mMax []*float64 `json:"temperature_2m_max"`
	Temperature2mMin []*float64 `json:"temperature_2m_min"`
	RainSum          []*float64 `json:"rain_sum"`
}

type hourlyBlock struct {
	Time               []string   `json:"time"`
	Temperature2m      []*float64 `json:"temperature_2m"`
	RelativeHumidity2m []*float64 `json:"relative_humidity_2m"`
	Rain               []*float64 `json:"rain"`
}

// Fetch requests current conditions and today's aggregates, plus the
// hourly series for today when includeHourly is set. Failures are not
// retried.
func (c *Client) Fetch(ctx context.Context, loc domain.ResolvedLocation, includeHourly bool) (domain.WeatherReport, error) {
	params := url.Values{}
	params.Add("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	params.Add("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	params.Add("timezone", DefaultTimezone)
	params.Add("current", strings.Join(currentFields, ","))
	params.Add("daily", strings.Join(dailyFields, ","))
	if includeHourly {
		params.Add("hourly", strings.Join(hourlyFields, ","))
		params.Add("past_days", "0")
		params.Add("forecast_days", "1")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+params.Encode(), nil)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("failed to call open-meteo: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("failed to read response body: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return domain.WeatherReport{}, fmt.Errorf("open-meteo returned status %d: %s: %w", resp.StatusCode, truncate(body, 512), domain.ErrUpstreamUnavailable)
	}

	var fr forecastResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return domain.WeatherReport{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return shape(loc, fr, includeHourly), nil
}

func shape(loc domain.ResolvedLocation, fr forecastResponse, includeHourly bool) domain.WeatherReport {
	tz := fr.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}

	report := domain.WeatherReport{
		Place:     loc.Name,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Timezone:  tz,
		Current: domain.CurrentWeather{
			Time:         fr.Current.Time,
			WeatherText:  CodeText(wmoCode(fr.Current.WeatherCode)),
			TemperatureC: fr.Current.Temperature2m,
			HumidityPct:  fr.Current.RelativeHumidity2m,
			WindSpeedKmh: fr.Current.WindSpeed10m,
			RainMm:       fr.Current.Rain,
		},
		Today: domain.DailyWeather{
			TminC:  at(fr.Daily.Temperature2mMin, 0),
			TmaxC:  at(fr.Daily.Temperature2mMax, 0),
			RainMm: at(fr.Daily.RainSum, 0),
		},
	}

	if includeHourly && fr.Hourly != nil {
		h := fr.Hourly
		n := min(len(h.Time), len(h.Temperature2m))
		report.Hourly = make([]domain.HourlyPoint, 0, n)
		for i := 0; i < n; i++ {
			report.Hourly = append(report.Hourly, domain.HourlyPoint{
				Time:         h.Time[i],
				TemperatureC: h.Temperature2m[i],
				HumidityPct:  at(h.RelativeHumidity2m, i),
				RainMm:       at(h.Rain, i),
			})
		}
	}

	return report
}

// at returns series[i], or nil when the series is too short.
func at(series []*float64, i int) *float64 {
	if i < len(series) {
		return series[i]
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}

var _ Forecaster = (*Client)(nil)

// wmoCode accepts codes sent as either 3 or 3.0.
func wmoCode(v *float64) *int {
	if v == nil {
		return nil
	}
	code := int(*v)
	return &code
}
