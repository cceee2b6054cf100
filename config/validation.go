package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requiredValues lists the settings each environment must provide, either
// through the environment or a docker secret.
var requiredValues = map[Environment][]string{
	Development: {},
	Test:        {},
	CI: {
		"DB_PASSWORD",
		"JWT_SECRET",
	},
	Production: {
		"DB_PASSWORD",
		"JWT_SECRET",
		"REDIS_PASSWORD",
	},
}

func (c *Config) value(key string) string {
	switch key {
	case "DB_PASSWORD":
		return c.DBPassword
	case "JWT_SECRET":
		return c.JWTSecret
	case "REDIS_PASSWORD":
		return c.RedisPassword
	default:
		return ""
	}
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs []string

	for _, key := range requiredValues[GetEnvironment()] {
		if cfg.value(key) == "" {
			errs = append(errs, ValidationError{Field: key, Message: "is required"}.Error())
		}
	}

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: "must be a number"}.Error())
	}
	if cfg.ExtractRateLimit <= 0 {
		errs = append(errs, ValidationError{Field: "EXTRACT_RATE_LIMIT", Message: "must be positive"}.Error())
	}
	if cfg.ResolveConcurrency <= 0 {
		errs = append(errs, ValidationError{Field: "RESOLVE_CONCURRENCY", Message: "must be positive"}.Error())
	}
	if cfg.MatchThreshold <= 0 || cfg.MatchThreshold > 1 {
		errs = append(errs, ValidationError{Field: "MATCH_THRESHOLD", Message: "must be in (0, 1]"}.Error())
	}
	if cfg.SchemaRetries < 0 {
		errs = append(errs, ValidationError{Field: "SCHEMA_RETRIES", Message: "must not be negative"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
