// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"farewatch/internal/domain/entity"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Metrics / health server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Search criteria
	Search entity.SearchCriteria

	// Scheduling
	RunTime string // daily run time, "15:04"

	// Storage
	DataDir     string
	PostgresDSN string // empty disables the offer archive

	// Grok analysis API
	GrokAPIKey     string
	GrokAPIBase    string
	GrokModel      string
	GrokTimeout    time.Duration
	GrokTemp       float64
	CollectTimeout time.Duration

	// Notification
	Notifier        string // "smtp" or "gmail"
	NotifyOnFailure bool

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailTo      string

	// Gmail
	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string
}

// LoadConfig loads configuration from environment variables. The Grok API key
// is the only required setting; everything else has a documented default.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion: getEnv("APP_VERSION", "1.0.0"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		Search: entity.SearchCriteria{
			DepartureAirport:   getEnv("DEPARTURE_AIRPORT", "IAD"),
			DestinationAirport: getEnv("DESTINATION_AIRPORT", "IDR"),
			DepartureDateStart: getEnv("DEPARTURE_DATE_START", "2026-06-13"),
			DepartureDateEnd:   getEnv("DEPARTURE_DATE_END", "2026-06-17"),
			ReturnDateStart:    getEnv("RETURN_DATE_START", "2026-06-30"),
			ReturnDateEnd:      getEnv("RETURN_DATE_END", "2026-07-05"),
			Passengers:         getEnvAsInt("PASSENGERS", 1),
			TravelClass:        entity.NormalizeTravelClass(getEnv("TRAVEL_CLASS", "economy")),
		},

		RunTime: getEnv("RUN_TIME", "09:00"),

		DataDir:     getEnv("DATA_DIR", "./data"),
		PostgresDSN: getEnv("POSTGRES_DSN", ""),

		GrokAPIKey:     os.Getenv("GROK_API_KEY"),
		GrokAPIBase:    getEnv("GROK_API_BASE", "https://api.x.ai/v1"),
		GrokModel:      getEnv("GROK_MODEL", "grok-3"),
		GrokTimeout:    time.Duration(getEnvAsInt("GROK_TIMEOUT", 120)) * time.Second,
		GrokTemp:       0.7,
		CollectTimeout: time.Duration(getEnvAsInt("COLLECT_TIMEOUT", 90)) * time.Second,

		Notifier:        getEnv("NOTIFIER", "smtp"),
		NotifyOnFailure: getEnvAsBool("NOTIFY_ON_FAILURE", false),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.zoho.com"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 465),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		EmailTo:      getEnv("EMAIL_TO", ""),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
	}

	if config.GrokAPIKey == "" {
		return nil, fmt.Errorf("GROK_API_KEY environment variable not set")
	}
	if config.Search.Passengers < 1 {
		config.Search.Passengers = 1
	}

	return config, nil
}

// SMTPConfigured reports whether the SMTP notifier has enough settings to
// deliver mail. Missing settings disable notifications without failing
// startup.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPUser != "" && c.SMTPPassword != "" && c.EmailTo != ""
}

// GmailConfigured reports whether the Gmail notifier can authenticate.
func (c *Config) GmailConfigured() bool {
	return c.GmailClientID != "" && c.GmailClientSecret != "" && c.GmailRefreshToken != "" && c.EmailTo != ""
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
