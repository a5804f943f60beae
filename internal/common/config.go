package common

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Legacy   LegacyConfig
	LLM      LLMConfig
	Export   ExportConfig
}

// DatabaseConfig holds the primary (Postgres) store configuration.
// Credentials are supplied as parts and assembled into a DSN.
type DatabaseConfig struct {
	Host             string
	User             string
	Password         string
	Database         string
	Port             int
	SSLMode          string
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// LegacyConfig points at the local single-file SQLite store used by the
// statement-builder path.
type LegacyConfig struct {
	Path string
}

// LLMConfig holds field-extraction model configuration
type LLMConfig struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
}

// ExportConfig holds XLSX export configuration
type ExportConfig struct {
	OutputPath string
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is applied first when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			Host:             getEnv("HOST", "localhost"),
			User:             getEnv("USER", ""),
			Password:         getEnv("PASS", ""),
			Database:         getEnv("DATABASE", ""),
			Port:             getEnvAsInt("DB_PORT", 5432),
			SSLMode:          getEnv("DB_SSLMODE", "disable"),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 30*time.Second),
		},
		Legacy: LegacyConfig{
			Path: getEnv("LEGACY_DB_PATH", "data.db"),
		},
		LLM: LLMConfig{
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Export: ExportConfig{
			OutputPath: getEnv("EXPORT_PATH", "invoices.xlsx"),
		},
	}
}

// DSN renders the database parts as a postgres URL.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User), url.QueryEscape(d.Password),
		d.Host, d.Port, d.Database, d.SSLMode)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.Database == "" {
		return NewAppError("CONFIG_ERROR", "HOST and DATABASE are required", ErrConnection)
	}
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	return nil
}
