package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vbonduro/lensbot/internal/domain"
)

const (
	DefaultPlace = "Bangkok"

	weatherPreamble = "คุณคือผู้ช่วยที่สรุปข้อมูลอากาศ ให้ผลลัพธ์สั้น กระชับ เชิงปฏิบัติ นี่คือข้อมูลอากาศ:\n\n%s\n\n"
	weatherPrompt   = "คิดว่าสภาพอากาศจะเป็นอย่างไร ฝนจะตกไหม ลมแรงไหม"
)

type locationResolver interface {
	Resolve(ctx context.Context, place string) (domain.ResolvedLocation, error)
}

type forecaster interface {
	Fetch(ctx context.Context, loc domain.ResolvedLocation, includeHourly bool) (domain.WeatherReport, error)
}

type WeatherService struct {
	resolver   locationResolver
	forecaster forecaster
	narrator   analyzer
	logger     *slog.Logger
}

func NewWeatherService(resolver locationResolver, forecaster forecaster, narrator analyzer, logger *slog.Logger) *WeatherService {
	return &WeatherService{
		resolver:   resolver,
		forecaster: forecaster,
		narrator:   narrator,
		logger:     logger,
	}
}

// Report resolves place and fetches its forecast. A blank place means
// DefaultPlace.
func (s *WeatherService) Report(ctx context.Context, place string, hourly bool) (domain.WeatherReport, error) {
	if place == "" {
		place = DefaultPlace
	}

	loc, err := s.resolver.Resolve(ctx, place)
	if err != nil {
		return domain.WeatherReport{}, err
	}
	s.logger.Debug("place resolved", "place", place, "source", loc.Source, "latitude", loc.Latitude, "longitude", loc.Longitude)

	report, err := s.forecaster.Fetch(ctx, loc, hourly)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("failed to fetch forecast for %q: %w", place, err)
	}
	return report, nil
}

// Narrate turns today's report for place into a short natural-language
// outlook. An empty string means the chat backend failed.
func (s *WeatherService) Narrate(ctx context.Context, place string) (string, error) {
	report, err := s.Report(ctx, place, false)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode weather report: %w", err)
	}

	return s.narrator.Narrate(ctx, fmt.Sprintf(weatherPreamble, data), weatherPrompt), nil
}
