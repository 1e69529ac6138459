// Package config loads application settings from the environment, with an
// optional .env file for local development.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	Port int

	OpenAIAPIKey  string
	OpenAIBaseURL string

	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURI  string

	JWTSecret string

	// StorageDriver selects the mood repository backend: "sqlite" or "postgres".
	StorageDriver string
	SQLitePath    string
	DatabaseURL   string

	// RedisAddr, when set, moves the export handoff store out of process.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	HistoryLimit int

	LogLevel string
	LogFile  string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load will not override variables already set in the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	return &Config{
		Port: getEnvInt("PORT", 3001),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		SpotifyRedirectURI:  getEnv("SPOTIFY_REDIRECT_URI", "http://localhost:3001/api/spotify/callback"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		StorageDriver: getEnv("STORAGE_DRIVER", "sqlite"),
		SQLitePath:    getEnv("SQLITE_PATH", "moodtune.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		HistoryLimit: getEnvInt("HISTORY_LIMIT", 50),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_PATH", ""),
	}
}
