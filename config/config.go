package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	LinkPreview LinkPreviewConfig
}

type AppConfig struct {
	Port        string
	Environment string
	LogFilePath string
	ExportDir   string
}

type DatabaseConfig struct {
	Path string
}

// AuthConfig - защита локального API. Пустой Password отключает проверку токена.
type AuthConfig struct {
	Password  string
	JWTSecret string
	TokenTTL  time.Duration
}

type LinkPreviewConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Load читает .env (если есть) и переменные окружения.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:        getEnv("JOTPAD_PORT", "8080"),
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("JOTPAD_LOG_FILE", "jotpad.log"),
			ExportDir:   getEnv("JOTPAD_EXPORT_DIR", "exports"),
		},
		Database: DatabaseConfig{
			Path: getEnv("JOTPAD_DB_PATH", "jotpad.db"),
		},
		Auth: AuthConfig{
			Password:  getEnv("JOTPAD_API_PASSWORD", ""),
			JWTSecret: getEnv("JOTPAD_JWT_SECRET", ""),
			TokenTTL:  getEnvAsDuration("JOTPAD_TOKEN_TTL", 24*time.Hour),
		},
		LinkPreview: LinkPreviewConfig{
			BaseURL:  getEnv("JOTPAD_LINK_PREVIEW_URL", "https://api.microlink.io"),
			Timeout:  getEnvAsDuration("JOTPAD_LINK_PREVIEW_TIMEOUT", 5*time.Second),
			CacheTTL: time.Duration(getEnvAsInt("JOTPAD_LINK_PREVIEW_CACHE_MINUTES", 60)) * time.Minute,
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
