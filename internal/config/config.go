package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port            string
	CatalogAPIBase  string
	AssetOrigin     string
	ServiceToken    string
	JWTSecret       string
	HTTPTimeout     time.Duration
	DefaultPageSize int
	RedisAddr       string
	RedisPassword   string
	CacheTTL        time.Duration
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		CatalogAPIBase:  getEnvOrDefault("CATALOG_API_URL", "http://localhost:9000/api"),
		AssetOrigin:     getEnvOrDefault("ASSET_ORIGIN", "http://localhost:9000"),
		ServiceToken:    getEnvOrDefault("CATALOG_API_TOKEN", ""),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		HTTPTimeout:     getDurationEnv("HTTP_TIMEOUT_SECONDS", 15, time.Second),
		DefaultPageSize: getIntEnv("DEFAULT_PAGE_SIZE", 10),
		RedisAddr:       getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword:   getEnvOrDefault("REDIS_PASSWORD", ""),
		CacheTTL:        getDurationEnv("CACHE_TTL_MINUTES", 5, time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
