package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	NewRelic     NewRelicConfig
	Store        StoreConfig
	Firestore    FirestoreConfig
	Mongo        MongoConfig
	Booking      BookingConfig
	Notification NotificationConfig
	SMTP         SMTPConfig
	Log          LogConfig
	RateLimit    RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// Store backends for booking records.
const (
	StorePostgres  = "postgres"
	StoreFirestore = "firestore"
	StoreMongo     = "mongo"
)

// StoreConfig selects where booking records are written.
type StoreConfig struct {
	Backend string
}

// FirestoreConfig holds Firebase project settings.
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
	Collection      string
}

// MongoConfig holds MongoDB settings.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// BookingConfig holds the booking core knobs.
type BookingConfig struct {
	CatalogPath          string
	ReferencePrefix      string
	ReferenceLength      int
	ChildDiscountPolicy  string
	MaxGuestsPerCategory int
	SessionTTL           time.Duration
	LockTTL              time.Duration
	Timezone             string
	CompanyName          string
}

// NotificationConfig controls post-booking notifications.
type NotificationConfig struct {
	WebhookURL     string
	WebhookTimeout time.Duration
	Async          bool
	MaxRetry       int
}

// SMTPConfig holds the confirmation email settings. Email is disabled when Host is empty.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Env        string
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// RateLimitConfig bounds booking submissions per client IP.
type RateLimitConfig struct {
	PerMinute float64
	Burst     int
}

// Load loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "atlas_bookings"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "atlas-booking-service"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", StorePostgres),
		},
		Firestore: FirestoreConfig{
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			Collection:      getEnv("FIRESTORE_BOOKINGS_COLLECTION", "bookings"),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:   getEnv("MONGO_DATABASE", "atlas"),
			Collection: getEnv("MONGO_BOOKINGS_COLLECTION", "bookings"),
		},
		Booking: BookingConfig{
			CatalogPath:          getEnv("CATALOG_PATH", ""),
			ReferencePrefix:      getEnv("BOOKING_REFERENCE_PREFIX", "ATL-"),
			ReferenceLength:      getIntEnv("BOOKING_REFERENCE_LENGTH", 6),
			ChildDiscountPolicy:  getEnv("CHILD_DISCOUNT_POLICY", "half"),
			MaxGuestsPerCategory: getIntEnv("MAX_GUESTS_PER_CATEGORY", 0),
			SessionTTL:           getDurationEnv("WIZARD_SESSION_TTL", 2*time.Hour),
			LockTTL:              getDurationEnv("WIZARD_LOCK_TTL", 30*time.Second),
			Timezone:             getEnv("BOOKING_TIMEZONE", "Africa/Casablanca"),
			CompanyName:          getEnv("COMPANY_NAME", "Atlas Excursions"),
		},
		Notification: NotificationConfig{
			WebhookURL:     getEnv("NOTIFICATION_WEBHOOK_URL", ""),
			WebhookTimeout: getDurationEnv("NOTIFICATION_WEBHOOK_TIMEOUT", 5*time.Second),
			Async:          getBoolEnv("NOTIFICATION_ASYNC", false),
			MaxRetry:       getIntEnv("NOTIFICATION_MAX_RETRY", 5),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getIntEnv("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("FROM_EMAIL", "bookings@atlas-excursions.ma"),
		},
		Log: LogConfig{
			Env:        getEnv("LOG_ENV", "production"),
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getIntEnv("LOG_MAX_SIZE_MB", 50),
			MaxBackups: getIntEnv("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getIntEnv("LOG_MAX_AGE_DAYS", 28),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getFloatEnv("SUBMIT_RATE_PER_MINUTE", 10),
			Burst:     getIntEnv("SUBMIT_RATE_BURST", 5),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
