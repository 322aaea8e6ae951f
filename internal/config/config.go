package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"libfine/internal/core"
	"libfine/internal/log"
)

type Config struct {
	// Fine rules, kept raw so Validate can report bad values
	AllowedDays string
	FinePerDay  string
	Currency    string

	// Ledger
	DataBackend string
	SQLiteDSN   string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	LogLevel string
}

// DefaultSQLiteDSN keeps the SQLite ledger in memory for the life of the process.
const DefaultSQLiteDSN = "file:libfine?mode=memory&cache=shared"

func Load() *Config {
	return &Config{
		AllowedDays: getEnv("ALLOWED_DAYS", strconv.Itoa(core.DefaultAllowedDays)),
		FinePerDay:  getEnv("FINE_PER_DAY", "2.00"),
		Currency:    getEnv("CURRENCY", "RM"),

		DataBackend: getEnv("DATA_BACKEND", "memory"),
		SQLiteDSN:   getEnv("SQLITE_DSN", DefaultSQLiteDSN),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "libfine"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "fine_assessed"),

		LogLevel: getEnv("LOG_LEVEL", "warn"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if days, err := strconv.Atoi(strings.TrimSpace(c.AllowedDays)); err != nil || days < 0 {
		errors = append(errors, fmt.Sprintf("invalid allowed days '%s': must be a whole number of days, not negative", c.AllowedDays))
	}
	if _, err := core.ParseDecimalToCents(c.FinePerDay); err != nil {
		errors = append(errors, fmt.Sprintf("invalid fine per day '%s': must be a positive amount", c.FinePerDay))
	}
	if strings.TrimSpace(c.Currency) == "" {
		errors = append(errors, "currency label cannot be empty")
	}

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if c.DataBackend == "sqlite" && c.SQLiteDSN == "" {
		errors = append(errors, "SQLite DSN cannot be empty when using sqlite backend")
	}

	// AMQP is optional; an empty URL disables fine events
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// FinePolicy returns the fine rules; call Validate first.
func (c *Config) FinePolicy() (core.FinePolicy, error) {
	days, err := strconv.Atoi(strings.TrimSpace(c.AllowedDays))
	if err != nil || days < 0 {
		return core.FinePolicy{}, fmt.Errorf("parse allowed days %q: must be a non-negative integer", c.AllowedDays)
	}
	cents, err := core.ParseDecimalToCents(c.FinePerDay)
	if err != nil {
		return core.FinePolicy{}, fmt.Errorf("parse fine per day: %w", err)
	}
	return core.FinePolicy{
		AllowedDays: days,
		FinePerDay:  core.Money{Cents: cents},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
