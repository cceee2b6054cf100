package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "recet")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "recet_test")
	t.Setenv("DB_SSL_MODE", "require")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RESOLVE_CONCURRENCY", "8")
	t.Setenv("MATCH_THRESHOLD", "0.45")
	t.Setenv("SCHEMA_RETRIES", "1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	// Test database configuration
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "recet", cfg.DBUser)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "recet_test", cfg.DBName)
	assert.Equal(t, "require", cfg.DBSSLMode)
	assert.Contains(t, cfg.DSN(), "dbname=recet_test")

	// Test JWT and Redis configuration
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)

	// Test extraction tuning
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 8, cfg.ResolveConcurrency)
	assert.InDelta(t, 0.45, cfg.MatchThreshold, 1e-9)
	assert.Equal(t, 1, cfg.SchemaRetries)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, 10, cfg.ExtractRateLimit)
	assert.Equal(t, 4, cfg.ResolveConcurrency)
	assert.InDelta(t, 0.3, cfg.MatchThreshold, 1e-9)
	assert.Equal(t, 0, cfg.SchemaRetries)
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret\n"), 0o600))
	t.Setenv("ENV", "development")
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
}

func TestLoadConfigProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("REDIS_PASSWORD", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfigRejectsBadTuning(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("MATCH_THRESHOLD", "1.5")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MATCH_THRESHOLD")
}

func TestCompletionSourceMissingKeys(t *testing.T) {
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv(KeyCompletionBaseURL, "https://llm.example/")
	t.Setenv(KeyCompletionToken, "")
	t.Setenv(KeyCompletionModel, "")

	_, err := NewCompletionSource().Load()
	require.Error(t, err)

	var missing *MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{KeyCompletionToken, KeyCompletionModel}, missing.Keys)
}

func TestCompletionSourceReadsAtInvocationTime(t *testing.T) {
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv(KeyCompletionBaseURL, "https://llm.example/")
	t.Setenv(KeyCompletionToken, "tok-1")
	t.Setenv(KeyCompletionModel, "model-a")

	source := NewCompletionSource()
	cfg, err := source.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://llm.example", cfg.BaseURL)
	assert.Equal(t, "model-a", cfg.Model)

	t.Setenv(KeyCompletionModel, "model-b")
	cfg, err = source.Load()
	require.NoError(t, err)
	assert.Equal(t, "model-b", cfg.Model)
}

func TestCompletionSourceSecretFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openai_token"), []byte("secret-token"), 0o600))
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv(KeyCompletionBaseURL, "https://llm.example")
	t.Setenv(KeyCompletionToken, "")
	t.Setenv(KeyCompletionModel, "m")

	cfg, err := NewCompletionSource().Load()
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.Token)
}

func TestStaticCompletionSource(t *testing.T) {
	_, err := StaticCompletionSource{BaseURL: "x", Model: "m"}.Load()
	var missing *MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{KeyCompletionToken}, missing.Keys)
}
