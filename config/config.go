package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL      string
	JWTSecret        string
	JWTExpiration    time.Duration
	ServerPort       string
	AuditLogFile     string
	AllowFutureDates bool
	Timezone         *time.Location
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment")
	}

	tzName := getEnv("TIMEZONE", "Europe/Prague")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.WithError(err).Warnf("unknown timezone %q, falling back to UTC", tzName)
		loc = time.UTC
	}

	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", "postgresql://postgres@localhost:5432/otledger"),
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret-key-change-in-production"),
		JWTExpiration:    24 * time.Hour,
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		AuditLogFile:     getEnv("AUDIT_LOG_FILE", "logs/audit.log"),
		AllowFutureDates: getBoolEnv("ALLOW_FUTURE_DATES", false),
		Timezone:         loc,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Warnf("invalid boolean for %s: %q", key, value)
		return defaultValue
	}
	return parsed
}
