package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/lensbot/internal/domain"
)

var bangkok = domain.ResolvedLocation{Name: "Bangkok", Latitude: 13.7563, Longitude: 100.5018, Source: domain.SourceGazetteer}

const forecastBody = `{
  "timezone": "Asia/Bangkok",
  "current": {
    "time": "2025-06-01T14:00",
    "temperature_2m": 33.1,
    "relative_humidity_2m": 62,
    "rain": 0.4,
    "weather_code": 61,
    "wind_speed_10m": 11.5
  },
  "daily": {
    "temperature_2m_max": [35.2],
    "temperature_2m_min": [27.0],
    "rain_sum": [3.1]
  },
  "hourly": {
    "time": ["2025-06-01T00:00", "2025-06-01T01:00", "2025-06-01T02:00"],
    "temperature_2m": [28.0, 27.6, 27.3],
    "relative_humidity_2m": [80, 82],
    "rain": [0.0, null, 0.2]
  }
}`

func TestFetchShapesReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "13.7563", q.Get("latitude"))
		assert.Equal(t, "100.5018", q.Get("longitude"))
		assert.Equal(t, "Asia/Bangkok", q.Get("timezone"))
		assert.Equal(t, "temperature_2m,relative_humidity_2m,rain,weather_code,wind_speed_10m", q.Get("current"))
		assert.Equal(t, "temperature_2m_max,temperature_2m_min,rain_sum", q.Get("daily"))
		assert.Equal(t, "temperature_2m,relative_humidity_2m,rain", q.Get("hourly"))
		assert.Equal(t, "0", q.Get("past_days"))
		assert.Equal(t, "1", q.Get("forecast_days"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer server.Close()

	report, err := NewClient(server.URL, 5*time.Second).Fetch(context.Background(), bangkok, true)
	require.NoError(t, err)

	assert.Equal(t, "Bangkok", report.Place)
	assert.Equal(t, "Asia/Bangkok", report.Timezone)
	require.NotNil(t, report.Current.Time)
	assert.Equal(t, "2025-06-01T14:00", *report.Current.Time)
	assert.Equal(t, "ฝนเบา", report.Current.WeatherText)
	assert.Equal(t, 33.1, *report.Current.TemperatureC)
	assert.Equal(t, 62.0, *report.Current.HumidityPct)
	assert.Equal(t, 11.5, *report.Current.WindSpeedKmh)
	assert.Equal(t, 0.4, *report.Current.RainMm)
	assert.Equal(t, 27.0, *report.Today.TminC)
	assert.Equal(t, 35.2, *report.Today.TmaxC)
	assert.Equal(t, 3.1, *report.Today.RainMm)

	require.Len(t, report.Hourly, 3)
	assert.Equal(t, "2025-06-01T02:00", report.Hourly[2].Time)
	assert.Equal(t, 27.3, *report.Hourly[2].TemperatureC)
	assert.Nil(t, report.Hourly[2].HumidityPct)
	assert.Nil(t, report.Hourly[1].RainMm)
	assert.Equal(t, 0.2, *report.Hourly[2].RainMm)
}

func TestFetchWithoutHourly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("hourly"))
		assert.Empty(t, r.URL.Query().Get("forecast_days"))
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer server.Close()

	report, err := NewClient(server.URL, 5*time.Second).Fetch(context.Background(), bangkok, false)
	require.NoError(t, err)
	assert.Nil(t, report.Hourly)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"hourly"`)
}

func TestFetchMissingFieldsAreUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current": {"weather_code": 42}, "daily": {}}`))
	}))
	defer server.Close()

	report, err := NewClient(server.URL, 5*time.Second).Fetch(context.Background(), bangkok, false)
	require.NoError(t, err)

	assert.Equal(t, DefaultTimezone, report.Timezone)
	assert.Equal(t, "weather code 42", report.Current.WeatherText)
	assert.Nil(t, report.Current.Time)
	assert.Nil(t, report.Current.TemperatureC)
	assert.Nil(t, report.Today.TminC)
	assert.Nil(t, report.Today.TmaxC)
	assert.Nil(t, report.Today.RainMm)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tmin_c":null`)
}

func TestFetchAcceptsFloatWeatherCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current": {"weather_code": 3.0, "temperature_2m": 31.5}, "daily": {}}`))
	}))
	defer server.Close()

	report, err := NewClient(server.URL, 5*time.Second).Fetch(context.Background(), bangkok, false)
	require.NoError(t, err)

	assert.Equal(t, "เมฆมาก", report.Current.WeatherText)
	require.NotNil(t, report.Current.TemperatureC)
	assert.InDelta(t, 31.5, *report.Current.TemperatureC, 1e-9)
}

func TestFetchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":true,"reason":"bad latitude"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, 5*time.Second).Fetch(context.Background(), bangkok, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Contains(t, err.Error(), "400")
}

func TestFetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, time.Second).Fetch(context.Background(), bangkok, false)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestCodeText(t *testing.T) {
	code := func(n int) *int { return &n }

	assert.Equal(t, "ท้องฟ้าแจ่มใส", CodeText(code(0)))
	assert.Equal(t, "พายุฝนฟ้าคะนอง พร้อมลูกเห็บใหญ่", CodeText(code(99)))
	assert.Equal(t, "weather code 4", CodeText(code(4)))
	assert.Equal(t, "weather code unknown", CodeText(nil))
}
