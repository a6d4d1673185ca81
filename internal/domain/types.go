package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the on-disk format of ProcessingRecord.Timestamp: UTC,
// second precision, no zone suffix.
const TimestampLayout = "2006-01-02T15:04:05"

// ProcessingRecord is one line of the summary log.
type ProcessingRecord struct {
	Timestamp  time.Time
	InputPath  string
	OutputPath string
	Summary    string
}

type processingRecordJSON struct {
	Timestamp  string `json:"timestamp_utc"`
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`
	Summary    string `json:"summary"`
}

// MarshalJSON writes the log schema with HTML escaping off, so summaries
// keep their literal <, > and & characters.
func (r ProcessingRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(processingRecordJSON{
		Timestamp:  r.Timestamp.UTC().Format(TimestampLayout),
		InputPath:  r.InputPath,
		OutputPath: r.OutputPath,
		Summary:    r.Summary,
	}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (r *ProcessingRecord) UnmarshalJSON(data []byte) error {
	var raw processingRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ts, err := time.ParseInLocation(TimestampLayout, raw.Timestamp, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid timestamp_utc %q: %w", raw.Timestamp, err)
	}
	*r = ProcessingRecord{
		Timestamp:  ts,
		InputPath:  raw.InputPath,
		OutputPath: raw.OutputPath,
		Summary:    raw.Summary,
	}
	return nil
}

// LocationSource tells where a ResolvedLocation's coordinates came from.
type LocationSource string

const (
	SourceGazetteer LocationSource = "gazetteer"
	SourceGeocoder  LocationSource = "geocoder"
	SourceCache     LocationSource = "cache"
)

type ResolvedLocation struct {
	Name      string         `json:"name"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Source    LocationSource `json:"source"`
}

// WeatherReport is the shaped forecast returned to callers. Pointer fields
// marshal as null when the upstream payload did not carry a value, so the
// keys are always present.
type WeatherReport struct {
	Place     string         `json:"place"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Timezone  string         `json:"timezone"`
	Current   CurrentWeather `json:"current"`
	Today     DailyWeather   `json:"today"`
	Hourly    []HourlyPoint  `json:"hourly,omitempty"`
}

type CurrentWeather struct {
	Time         *string  `json:"time"`
	WeatherText  string   `json:"weather_text"`
	TemperatureC *float64 `json:"temperature_c"`
	HumidityPct  *float64 `json:"humidity_pct"`
	WindSpeedKmh *float64 `json:"wind_speed_kmh"`
	RainMm       *float64 `json:"rain_mm"`
}

type DailyWeather struct {
	TminC  *float64 `json:"tmin_c"`
	TmaxC  *float64 `json:"tmax_c"`
	RainMm *float64 `json:"rain_mm"`
}

type HourlyPoint struct {
	Time         string   `json:"time"`
	TemperatureC *float64 `json:"temperature_c"`
	HumidityPct  *float64 `json:"humidity_pct"`
	RainMm       *float64 `json:"rain_mm"`
}
