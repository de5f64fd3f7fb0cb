package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string
	LogLevel   string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	GroqAPIKey string
	GroqModel  string

	GoogleAPIKey string
	GoogleCSEID  string

	DailySearchLimit int
	ResultCount      int
	MaxChunkTokens   int
	BodyTextLimit    int
	PageLoadTimeout  time.Duration
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "user"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresDB:       getEnv("POSTGRES_DB", "scrapeflow"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		GroqAPIKey:       getEnv("GROQ_API_KEY", ""),
		GroqModel:        getEnv("GROQ_MODEL", "meta-llama/llama-4-maverick-17b-128e-instruct"),
		GoogleAPIKey:     getEnv("GOOGLE_API_KEY", ""),
		GoogleCSEID:      getEnv("GOOGLE_CSE_ID", ""),
		DailySearchLimit: getEnvAsInt("DAILY_SEARCH_LIMIT", 90),
		ResultCount:      getEnvAsInt("RESULT_COUNT", 10),
		MaxChunkTokens:   getEnvAsInt("MAX_CHUNK_TOKENS", 6000),
		BodyTextLimit:    getEnvAsInt("BODY_TEXT_LIMIT", 20000),
		PageLoadTimeout:  getEnvAsDuration("PAGE_LOAD_TIMEOUT_SECONDS", 45) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback))
}
