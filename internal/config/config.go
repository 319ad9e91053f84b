package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/omerhaim/origindaily/internal/constants"
)

type Config struct {
	Server    ServerConfig
	Wikipedia WikipediaConfig
	Game      GameConfig
	History   HistoryConfig
	Daily     DailyConfig
	GuessLog  GuessLogConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port      int
	PublicDir string
}

type WikipediaConfig struct {
	APIURL        string
	UserAgent     string
	ThumbnailSize int
}

type GameConfig struct {
	ImagesPerCategory int
	MinBirthYear      int
	FilterByBirthYear bool
}

type HistoryConfig struct {
	FilePath string
	MaxSize  int
}

type DailyConfig struct {
	FilePath string
	CronSpec string
}

type GuessLogConfig struct {
	FilePath string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Enabled reports whether guess counters should be kept in Redis.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Enabled reports whether guesses should also be written to Postgres.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:      getEnvInt("PORT", 3000),
			PublicDir: getEnv("PUBLIC_DIR", "public"),
		},
		Wikipedia: WikipediaConfig{
			APIURL:        getEnv("WIKIPEDIA_API_URL", constants.APIConfig.WikipediaBaseURL),
			UserAgent:     getEnv("WIKIPEDIA_USER_AGENT", constants.APIConfig.UserAgent),
			ThumbnailSize: getEnvInt("WIKIPEDIA_THUMBNAIL_SIZE", constants.APIConfig.ThumbnailSize),
		},
		Game: GameConfig{
			ImagesPerCategory: getEnvInt("IMAGES_PER_CATEGORY", constants.CuratorConfig.ImagesPerCategory),
			MinBirthYear:      getEnvInt("MIN_BIRTH_YEAR", constants.CuratorConfig.MinBirthYear),
			FilterByBirthYear: getEnvBool("FILTER_BY_BIRTH_YEAR", false),
		},
		History: HistoryConfig{
			FilePath: getEnv("HISTORY_FILE", "data/historical-images.json"),
			MaxSize:  getEnvInt("MAX_HISTORY_SIZE", constants.HistoryConfig.MaxSize),
		},
		Daily: DailyConfig{
			FilePath: getEnv("DAILY_IMAGES_FILE", "public/daily-images.json"),
			CronSpec: getEnv("DAILY_CRON", "0 0 * * *"),
		},
		GuessLog: GuessLogConfig{
			FilePath: getEnv("GUESS_LOG_FILE", "logs/guesses.log"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", ""),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "origindaily"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "origindaily"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port")
	}
	if c.Wikipedia.APIURL == "" {
		return fmt.Errorf("WIKIPEDIA_API_URL is required")
	}
	if c.Game.ImagesPerCategory <= 0 {
		return fmt.Errorf("IMAGES_PER_CATEGORY must be positive")
	}
	if c.History.MaxSize <= 0 {
		return fmt.Errorf("MAX_HISTORY_SIZE must be positive")
	}
	if c.Daily.CronSpec == "" {
		return fmt.Errorf("DAILY_CRON is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
