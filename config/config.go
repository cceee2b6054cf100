package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort         string
	ServerHost         string
	CORSAllowedOrigins []string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// Image storage
	S3BucketName string
	AWSRegion    string
	// S3PublicRead applies a public-read policy to recipe-images/* at startup.
	S3PublicRead bool

	// Extraction tuning
	ExtractRateLimit   int
	ResolveConcurrency int
	MatchThreshold     float64
	SchemaRetries      int
}

// secretKeys are read from SECRETS_DIR when the environment leaves them empty.
var secretKeys = []string{
	"db_user",
	"db_password",
	"jwt_secret",
	"redis_password",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "recet")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("S3_BUCKET_NAME", "recet-recipe-images")
	v.SetDefault("AWS_REGION", "eu-central-1")
	v.SetDefault("S3_PUBLIC_READ", false)
	v.SetDefault("EXTRACT_RATE_LIMIT", 10)
	v.SetDefault("RESOLVE_CONCURRENCY", 4)
	v.SetDefault("MATCH_THRESHOLD", 0.3)
	v.SetDefault("SCHEMA_RETRIES", 0)
	return v
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	v := newViper()

	// Docker secrets only fill values the environment left empty.
	if env != CI {
		for _, name := range secretKeys {
			key := strings.ToUpper(name)
			if v.GetString(key) != "" {
				continue
			}
			if secret := readSecret(name); secret != "" {
				v.Set(key, secret)
			}
		}
	}

	cfg := &Config{
		ServerPort:         v.GetString("SERVER_PORT"),
		ServerHost:         v.GetString("SERVER_HOST"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             v.GetString("DB_NAME"),
		DBSSLMode:          v.GetString("DB_SSL_MODE"),
		RedisURL:           v.GetString("REDIS_URL"),
		RedisHost:          v.GetString("REDIS_HOST"),
		RedisPort:          v.GetString("REDIS_PORT"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		S3BucketName:       v.GetString("S3_BUCKET_NAME"),
		AWSRegion:          v.GetString("AWS_REGION"),
		S3PublicRead:       v.GetBool("S3_PUBLIC_READ"),
		ExtractRateLimit:   v.GetInt("EXTRACT_RATE_LIMIT"),
		ResolveConcurrency: v.GetInt("RESOLVE_CONCURRENCY"),
		MatchThreshold:     v.GetFloat64("MATCH_THRESHOLD"),
		SchemaRetries:      v.GetInt("SCHEMA_RETRIES"),
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the lib/pq connection string for the configured database.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisAddr returns host:port for the Redis server.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
