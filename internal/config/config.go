package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Render   RenderConfig
	Export   ExportConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	ExportLogFilePath  string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
	Verbose    bool
}

type RenderConfig struct {
	MaxDepth     int
	CacheTTL     time.Duration
	CacheEnabled bool
	RedisCache   bool
}

type ExportConfig struct {
	Root           string
	Workers        int
	Minify         bool
	SiteConfigPath string
	Topic          string
	AutoExport     bool
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	SampleRatio float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			ExportLogFilePath:  getEnv("EXPORT_LOG_FILE_PATH", "logs/export.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Verbose:    getEnvAsBool("DB_VERBOSE", false),
		},
		Render: RenderConfig{
			MaxDepth:     getEnvAsInt("RENDER_MAX_DEPTH", 128),
			CacheTTL:     time.Duration(getEnvAsInt("RENDER_CACHE_TTL_SECONDS", 600)) * time.Second,
			CacheEnabled: getEnvAsBool("RENDER_CACHE_ENABLED", true),
			RedisCache:   getEnvAsBool("RENDER_CACHE_REDIS", true),
		},
		Export: ExportConfig{
			Root:           getEnv("EXPORT_ROOT", "public"),
			Workers:        getEnvAsInt("EXPORT_WORKERS", 4),
			Minify:         getEnvAsBool("EXPORT_MINIFY", false),
			SiteConfigPath: getEnv("SITE_CONFIG_PATH", ""),
			Topic:          getEnv("EXPORT_TOPIC_NAME", "EXPORT_DOCUMENT"),
			AutoExport:     getEnvAsBool("EXPORT_ON_SAVE", true),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			SampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
