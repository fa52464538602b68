// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"spendtrack/pkg/db" // Import db package for its Config struct
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	JWTSecret  string
	TokenTTL   time.Duration
	DB         db.Config
}

// LoadConfig loads configuration from environment variables.
// It returns an AppConfig instance or an error if any required variable is missing or invalid.
func LoadConfig() (*AppConfig, error) {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080" // Default port
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "spendtrack-dev-secret" // Default for local development only
	}

	tokenTTLStr := os.Getenv("TOKEN_TTL_MINUTES")
	if tokenTTLStr == "" {
		tokenTTLStr = "30"
	}
	tokenTTLMinutes, err := strconv.Atoi(tokenTTLStr)
	if err != nil || tokenTTLMinutes <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL_MINUTES: %q", tokenTTLStr)
	}

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost" // Default to localhost for local development
	}
	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		dbPortStr = "5432" // Default PostgreSQL port
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		dbUser = "user"
	}
	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		dbPassword = "password"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "spendtrackdb"
	}
	dbSSLMode := os.Getenv("DB_SSLMODE")
	if dbSSLMode == "" {
		dbSSLMode = "disable"
	}

	return &AppConfig{
		ServerPort: serverPort,
		JWTSecret:  jwtSecret,
		TokenTTL:   time.Duration(tokenTTLMinutes) * time.Minute,
		DB: db.Config{
			Host:     dbHost,
			Port:     dbPort,
			User:     dbUser,
			Password: dbPassword,
			DBName:   dbName,
			SSLMode:  dbSSLMode,
		},
	}, nil
}
