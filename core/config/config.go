package config

import (
	"strings"
	"sync"

	"schedule-assistant/core/constants"
	"schedule-assistant/core/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string
	Port int
}

type LogConfig struct {
	Level string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type RecommendationConfig struct {
	DurationMinutes         int
	WindowDays              int
	Strategy                string
	PromptsDir              string
	ModelCallTimeoutSeconds int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SnapshotConfig struct {
	Store string
}

type Config struct {
	Server         ServerConfig
	Log            LogConfig
	Gemini         GeminiConfig
	Recommendation RecommendationConfig
	Redis          RedisConfig
	Snapshot       SnapshotConfig
}

var (
	instance *Config
	mu       sync.RWMutex
)

// apiKeyEnvKeys are checked in order; the first non-empty value wins.
var apiKeyEnvKeys = []string{"GEMINI_API_KEY", "GENAI_API_KEY", "GOOGLE_API_KEY"}

// Load reads .env (when present) and environment variables into the config
// singleton. Call once at startup before Get.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("Config:Load:NoDotEnv", "error", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", constants.DefaultServerPort)
	v.SetDefault("LOG_LEVEL", constants.DefaultLogLevel)
	v.SetDefault("GEMINI_MODEL", constants.DefaultGeminiModel)
	v.SetDefault("MEETING_DURATION_MINUTES", constants.DefaultMeetingDurationMinutes)
	v.SetDefault("RECOMMENDATION_WINDOW_DAYS", constants.DefaultRecommendationWindowDays)
	v.SetDefault("RECOMMENDATION_STRATEGY", "dual_call")
	v.SetDefault("PROMPTS_DIR", constants.DefaultPromptsDir)
	v.SetDefault("MODEL_CALL_TIMEOUT_SECONDS", constants.DefaultModelCallTimeoutSeconds)
	v.SetDefault("SNAPSHOT_STORE", constants.SnapshotStoreMemory)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Gemini: GeminiConfig{
			APIKey: resolveAPIKey(v),
			Model:  v.GetString("GEMINI_MODEL"),
		},
		Recommendation: RecommendationConfig{
			DurationMinutes:         positiveOrDefault(v.GetInt("MEETING_DURATION_MINUTES"), constants.DefaultMeetingDurationMinutes, "MEETING_DURATION_MINUTES"),
			WindowDays:              positiveOrDefault(v.GetInt("RECOMMENDATION_WINDOW_DAYS"), constants.DefaultRecommendationWindowDays, "RECOMMENDATION_WINDOW_DAYS"),
			Strategy:                strings.ToLower(v.GetString("RECOMMENDATION_STRATEGY")),
			PromptsDir:              v.GetString("PROMPTS_DIR"),
			ModelCallTimeoutSeconds: positiveOrDefault(v.GetInt("MODEL_CALL_TIMEOUT_SECONDS"), constants.DefaultModelCallTimeoutSeconds, "MODEL_CALL_TIMEOUT_SECONDS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Snapshot: SnapshotConfig{
			Store: strings.ToLower(v.GetString("SNAPSHOT_STORE")),
		},
	}

	if cfg.Gemini.APIKey == "" {
		logger.Warn("Config:Load:GeminiKeyMissing",
			"hint", "set one of "+strings.Join(apiKeyEnvKeys, ", ")+" to enable recommendations")
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()

	return cfg, nil
}

func resolveAPIKey(v *viper.Viper) string {
	for _, key := range apiKeyEnvKeys {
		if value := v.GetString(key); value != "" {
			return value
		}
	}
	return ""
}

func positiveOrDefault(value, fallback int, name string) int {
	if value <= 0 {
		logger.Warn("Config:Load:InvalidValue", "name", name, "fallback", fallback)
		return fallback
	}
	return value
}

// Get returns the loaded config. Panics when Load has not run.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("config: Get called before Load")
	}
	return instance
}

// GetSafe returns the loaded config and whether Load has run.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
