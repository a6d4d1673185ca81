package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/vbonduro/lensbot/internal/bot"
	"github.com/vbonduro/lensbot/internal/bot/telegram"
	"github.com/vbonduro/lensbot/internal/config"
	"github.com/vbonduro/lensbot/internal/geo"
	"github.com/vbonduro/lensbot/internal/logging"
	"github.com/vbonduro/lensbot/internal/photostore/local"
	"github.com/vbonduro/lensbot/internal/service"
	"github.com/vbonduro/lensbot/internal/store"
	"github.com/vbonduro/lensbot/internal/vision"
	claudevision "github.com/vbonduro/lensbot/internal/vision/claude"
	ollamavision "github.com/vbonduro/lensbot/internal/vision/ollama"
	"github.com/vbonduro/lensbot/internal/vision/openrouter"
	"github.com/vbonduro/lensbot/internal/weather"
	"github.com/vbonduro/lensbot/internal/web"
)

func main() {
	cfg := config.Load()

	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("failed to create directories: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal error", "error", err)
		cleanup()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TelegramToken == "" && cfg.ListenAddr == "" {
		return errors.New("nothing to run: set TELEGRAM_BOT_TOKEN and/or LISTEN_ADDR")
	}

	chat, err := newChatCompleter(cfg, logger)
	if err != nil {
		return err
	}
	analyzer := vision.NewAnalyzer(chat, cfg.ChatTimeout, logger)

	uploads, err := local.NewLocalPhotoStore(cfg.UploadDir)
	if err != nil {
		return err
	}
	processed, err := local.NewLocalPhotoStore(cfg.ProcessedDir)
	if err != nil {
		return err
	}
	summaries, err := store.NewSummaryStore(cfg.SummaryLog, logger)
	if err != nil {
		return err
	}
	pipeline := service.NewPipelineService(analyzer, summaries, uploads, processed, logger)

	cache, closeCache, err := newGeocodeCache(cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	geocoder := geo.NewRateLimitedGeocoder(
		geo.NewNominatimClient(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.GeocodeTimeout),
		cfg.NominatimRPS, 1,
	)
	resolver := geo.NewResolver(geocoder, cache, logger)
	forecaster := weather.NewClient(cfg.OpenMeteoURL, cfg.ForecastTimeout)
	weatherSvc := service.NewWeatherService(resolver, forecaster, analyzer, logger)

	var (
		wg   sync.WaitGroup
		errs = make(chan error, 2)
	)

	if cfg.TelegramToken != "" {
		tg, err := telegram.New(cfg.TelegramToken, bot.NewRouter(pipeline, weatherSvc, logger), logger)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- tg.Run(ctx)
		}()
	}

	if cfg.ListenAddr != "" {
		server := web.NewServer(pipeline, weatherSvc, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- server.ListenAndServe(ctx, cfg.ListenAddr)
		}()
	}

	// The first front-end to exit brings the other one down.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errs:
		stop()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

func newChatCompleter(cfg *config.Config, logger *slog.Logger) (vision.ChatCompleter, error) {
	switch cfg.ChatBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			return nil, errors.New("CLAUDE_API_KEY is required when CHAT_BACKEND=claude")
		}
		logger.Info("using Claude chat backend", "model", cfg.ClaudeModel)
		return claudevision.NewClient(cfg.ClaudeAPIKey, cfg.ClaudeModel, cfg.ChatTemperature), nil
	case "ollama":
		logger.Info("using Ollama chat backend", "model", cfg.OllamaModel)
		return ollamavision.NewClient(cfg.OllamaHost, cfg.OllamaModel, cfg.ChatTemperature), nil
	case "openrouter", "":
		if cfg.OpenRouterKey == "" {
			return nil, errors.New("OPENROUTER_API_KEY is required when CHAT_BACKEND=openrouter")
		}
		logger.Info("using OpenRouter chat backend", "model", cfg.ChatModel)
		return openrouter.NewClient(cfg.OpenRouterKey, cfg.OpenRouterURL, cfg.ChatModel, cfg.ChatTemperature), nil
	default:
		return nil, errors.New("unknown CHAT_BACKEND " + cfg.ChatBackend)
	}
}

// newGeocodeCache picks Redis when REDIS_URL is set and an in-process cache
// otherwise.
func newGeocodeCache(cfg *config.Config, logger *slog.Logger) (geo.Cache, func(), error) {
	if cfg.RedisURL == "" {
		return geo.NewMemoryCache(cfg.GeocodeCacheTTL), func() {}, nil
	}
	cache, err := geo.NewRedisCache(cfg.RedisURL, geo.RedisPrefix, cfg.GeocodeCacheTTL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using redis geocode cache")
	return cache, func() {
		if err := cache.Close(); err != nil {
			logger.Error("failed to close redis", "error", err)
		}
	}, nil
}
