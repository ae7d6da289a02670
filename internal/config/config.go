package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"techzeon/internal/auth"
	"techzeon/internal/cache"
	"techzeon/internal/database"
	"techzeon/internal/messaging"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию приложения
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration
	MetricsEnabled bool

	Database      database.Config
	Auth          auth.Config
	Admin         AdminConfig
	Ticket        TicketConfig
	Cache         cache.Config
	NATS          messaging.Config
	Elasticsearch ElasticsearchConfig
	Jobs          JobsConfig
}

// AdminConfig describes the administrator account seeded on startup.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

type TicketConfig struct {
	Prefix      string
	MaxAttempts int
}

type JobsConfig struct {
	TicketBackfillInterval time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	// .env is optional; real environment variables take precedence
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	return &Config{
		Port:           getEnv("PORT", "5000"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,
		MetricsEnabled: getEnv("METRICS_ENABLED", "true") == "true",

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "techzeon"),
			Password:           getEnv("DB_PASSWORD", "techzeon"),
			DBName:             getEnv("DB_NAME", "techzeon_events"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		Auth: auth.Config{
			Secret:   getEnv("JWT_SECRET", "change-me-in-production"),
			TokenTTL: time.Duration(getEnvInt("TOKEN_TTL_MIN", 24*60)) * time.Minute,
			Issuer:   getEnv("JWT_ISSUER", "techzeon-api"),
		},

		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@techzeon.com"),
			Password: getEnv("ADMIN_PASSWORD", "admin123"),
			Name:     getEnv("ADMIN_NAME", "Administrator"),
		},

		Ticket: TicketConfig{
			Prefix:      getEnv("TICKET_PREFIX", "TZ"),
			MaxAttempts: getEnvInt("TICKET_MAX_ATTEMPTS", 5),
		},

		Cache: cache.Config{
			Addr:     os.Getenv("VALKEY_ADDR"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			TTL:      time.Duration(getEnvInt("CACHE_TTL_SEC", 60)) * time.Second,
		},

		NATS: messaging.Config{
			URL:       os.Getenv("NATS_URL"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "techzeon"),
			ClientID:  getEnv("NATS_CLIENT_ID", "techzeon-api"),
		},

		Elasticsearch: LoadElasticsearchConfig(),

		Jobs: JobsConfig{
			TicketBackfillInterval: time.Duration(getEnvInt("TICKET_BACKFILL_INTERVAL_SEC", 300)) * time.Second,
		},
	}
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает целочисленное значение переменной окружения
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
