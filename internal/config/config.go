package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv   string
	Port      string
	JWTSecret string
	Database  DatabaseConfig
	Importer  ImporterConfig
	Connector ConnectorConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// ImporterConfig holds the tunable parameters of the import engine.
// The relative ordering (exact > partial > unmatched) is the invariant;
// the exact values are policy and can be overridden per deployment.
type ImporterConfig struct {
	ExactScore     float64 // score for an exact header/synonym match
	PartialScore   float64 // max score for substring containment
	MinScore       float64 // threshold below which a header is not claimed
	OverlapMinutes int     // appointment time-overlap window
}

// ConnectorConfig holds back-office pull connector settings
type ConnectorConfig struct {
	URL          string
	Database     string
	Username     string
	Password     string
	Company      string
	OperatorID   string // account the pulled records belong to
	PullInterval int    // in minutes
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "3110"),
		JWTSecret: jwtSecret,
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "inspectflow"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Importer: ImporterConfig{
			ExactScore:     getEnvFloat("IMPORT_EXACT_SCORE", 100),
			PartialScore:   getEnvFloat("IMPORT_PARTIAL_SCORE", 80),
			MinScore:       getEnvFloat("IMPORT_MIN_SCORE", 30),
			OverlapMinutes: getEnvInt("IMPORT_OVERLAP_MINUTES", 60),
		},
		Connector: ConnectorConfig{
			URL:          os.Getenv("CONNECTOR_URL"),
			Database:     os.Getenv("CONNECTOR_DATABASE"),
			Username:     os.Getenv("CONNECTOR_USERNAME"),
			Password:     os.Getenv("CONNECTOR_PASSWORD"),
			Company:      os.Getenv("CONNECTOR_COMPANY"),
			OperatorID:   os.Getenv("CONNECTOR_OPERATOR_ID"),
			PullInterval: getEnvInt("CONNECTOR_PULL_INTERVAL", 60),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
