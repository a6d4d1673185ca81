package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr    string
	TelegramToken string

	ChatBackend     string
	ChatModel       string
	ChatTemperature float64
	ChatTimeout     time.Duration
	OpenRouterKey   string
	OpenRouterURL   string
	ClaudeAPIKey    string
	ClaudeModel     string
	OllamaHost      string
	OllamaModel     string

	UploadDir    string
	ProcessedDir string
	SummaryLog   string

	NominatimURL       string
	NominatimUserAgent string
	NominatimRPS       float64
	GeocodeTimeout     time.Duration
	GeocodeCacheTTL    time.Duration
	RedisURL           string

	OpenMeteoURL    string
	ForecastTimeout time.Duration

	LogLevel string
	LogFile  string
}

// Load reads an optional .env file and then the process environment. Values
// already present in the environment win over the file.
func Load() *Config {
	_ = godotenv.Load(getEnv("ENV_FILE", ".env"))

	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ""),
		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),

		ChatBackend:     getEnv("CHAT_BACKEND", "openrouter"),
		ChatModel:       getEnv("CHAT_MODEL", "google/gemini-2.0-flash-001"),
		ChatTemperature: getFloat("CHAT_TEMPERATURE", 0.3),
		ChatTimeout:     getDuration("CHAT_TIMEOUT", 60*time.Second),
		OpenRouterKey:   getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterURL:   getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		ClaudeAPIKey:    getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:     getEnv("CLAUDE_MODEL", "claude-sonnet-4-5"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:     getEnv("OLLAMA_MODEL", "llava"),

		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		ProcessedDir: getEnv("PROCESSED_DIR", "processed"),
		SummaryLog:   getEnv("SUMMARY_LOG", "summaries.jsonl"),

		NominatimURL:       getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: getEnv("NOMINATIM_USER_AGENT", "thai-weather-bot/1.0"),
		NominatimRPS:       getFloat("NOMINATIM_RPS", 1),
		GeocodeTimeout:     getDuration("GEOCODE_TIMEOUT", 15*time.Second),
		GeocodeCacheTTL:    getDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
		RedisURL:           getEnv("REDIS_URL", ""),

		OpenMeteoURL:    getEnv("OPEN_METEO_URL", "https://api.open-meteo.com"),
		ForecastTimeout: getDuration("FORECAST_TIMEOUT", 15*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", filepath.Join("logs", "bot.log")),
	}
}

// EnsureDirs creates the artifact directories, the log directory and the
// summary log's parent directory.
func (c *Config) EnsureDirs() error {
	dirs := []string{c.UploadDir, c.ProcessedDir}
	if c.LogFile != "" {
		dirs = append(dirs, filepath.Dir(c.LogFile))
	}
	if dir := filepath.Dir(c.SummaryLog); dir != "." {
		dirs = append(dirs, dir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
