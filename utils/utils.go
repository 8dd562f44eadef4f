package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment utilities
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// GetEnvDate parses a YYYY-MM-DD env var, falling back to the default on
// missing or malformed values.
func GetEnvDate(key string, defaultValue time.Time) time.Time {
	if value := os.Getenv(key); value != "" {
		if t, err := time.Parse("2006-01-02", value); err == nil {
			return t
		}
		LogError("Invalid date in %s: %q, using default", key, value)
	}
	return defaultValue
}

// Answer checking utilities
func NormalizeOption(option string) string {
	return strings.ToUpper(strings.TrimSpace(option))
}

// Validation utilities
func ValidateUserRequest(username, email, password string, isUpdate bool) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required")
	}

	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}

	// Password required for creation, optional for updates
	if !isUpdate && strings.TrimSpace(password) == "" {
		return fmt.Errorf("password is required")
	}

	if password != "" && len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	return nil
}
