package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Telegram  TelegramConfig
	Inference InferenceConfig
	Sheets    SheetsConfig
	Reminder  ReminderConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// RedisConfig holds settings for the OTP store. An empty Addr disables the
// password-reset flow.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig holds token signing and OTP lifetime settings.
type AuthConfig struct {
	JWTSecret      string
	TokenTTL       time.Duration
	OTPTTL         time.Duration
	ResetTicketTTL time.Duration
}

// StorageConfig contains MinIO object storage credentials. An empty Endpoint
// disables image upload endpoints.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// TelegramConfig contains Telegram Bot API credentials. An empty BotToken
// disables notifications.
type TelegramConfig struct {
	BotToken string
	BaseURL  string
}

// InferenceConfig points at the remote plant detection endpoint. An empty
// BaseURL disables the detection flow.
type InferenceConfig struct {
	BaseURL string
	APIKey  string
}

// SheetsConfig contains configuration for the Google Sheets history export.
// An empty SpreadsheetID disables the export.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	HistoryRange    string
}

// ReminderConfig holds harvest-due reminder scheduler settings.
type ReminderConfig struct {
	CronSchedule  string
	LookaheadDays int
	Timezone      string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "kaset"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getenvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:      os.Getenv("JWT_SECRET"),
			TokenTTL:       getenvDuration("JWT_TOKEN_TTL", 24*time.Hour),
			OTPTTL:         getenvDuration("OTP_TTL", 10*time.Minute),
			ResetTicketTTL: getenvDuration("OTP_RESET_TICKET_TTL", 15*time.Minute),
		},
		Storage: StorageConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getenvWithDefault("MINIO_BUCKET", "kaset-images"),
			UseSSL:    getenvBool("MINIO_USE_SSL", false),
		},
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
			BaseURL:  getenvWithDefault("TELEGRAM_BASE_URL", "https://api.telegram.org"),
		},
		Inference: InferenceConfig{
			BaseURL: os.Getenv("INFERENCE_BASE_URL"),
			APIKey:  os.Getenv("INFERENCE_API_KEY"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
			HistoryRange:    getenvWithDefault("GOOGLE_SHEET_HISTORY_RANGE", "History!A:H"),
		},
		Reminder: ReminderConfig{
			CronSchedule:  getenvWithDefault("REMINDER_CRON_SCHEDULE", "0 7 * * *"),
			LookaheadDays: getenvInt("REMINDER_LOOKAHEAD_DAYS", 3),
			Timezone:      getenvWithDefault("TIMEZONE", "Asia/Bangkok"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated. The
// integrations (Redis, MinIO, Telegram, inference, Sheets) stay optional and
// are gated at wiring time.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("JWT_TOKEN_TTL must be positive")
	}

	if c.Storage.Endpoint != "" {
		switch {
		case c.Storage.AccessKey == "":
			return errors.New("MINIO_ACCESS_KEY must be provided when MINIO_ENDPOINT is set")
		case c.Storage.SecretKey == "":
			return errors.New("MINIO_SECRET_KEY must be provided when MINIO_ENDPOINT is set")
		case c.Storage.Bucket == "":
			return errors.New("MINIO_BUCKET must not be empty")
		}
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_EXPORT_ID is set")
	}

	if c.Reminder.CronSchedule == "" {
		return errors.New("REMINDER_CRON_SCHEDULE must be provided")
	}
	if c.Reminder.LookaheadDays < 0 {
		return errors.New("REMINDER_LOOKAHEAD_DAYS must not be negative")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
