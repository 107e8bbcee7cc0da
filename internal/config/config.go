package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	GoogleAPIKey        string
	FirebaseCredentials string
	FirebaseDatabaseURL string
	GeminiModel         string
	HTTPPort            string
	LogLevel            string
	MaxUploadBytes      int64
}

// Load reads .env (when present) and the environment. The returned value is
// passed into constructors explicitly so tests can build their own.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GoogleAPIKey:        getEnv("GOOGLE_API_KEY", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS_FILE", "firebase-credentials.json"),
		FirebaseDatabaseURL: getEnv("FIREBASE_DATABASE_URL", ""),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		HTTPPort:            getEnv("HTTP_PORT", "8000"),
		LogLevel:            getEnv("LOG_LEVEL", "INFO"),
		MaxUploadBytes:      getEnvAsInt64("MAX_UPLOAD_BYTES", 20<<20),
	}

	if cfg.GoogleAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY environment variable is required")
	}
	if cfg.FirebaseDatabaseURL == "" {
		return nil, fmt.Errorf("FIREBASE_DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}
