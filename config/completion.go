package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Completion configuration keys.
const (
	KeyCompletionBaseURL = "OPENAI_BASE_URL"
	KeyCompletionToken   = "OPENAI_TOKEN"
	KeyCompletionModel   = "OPENAI_MODEL"
)

// CompletionConfig is the per-invocation completion endpoint configuration.
type CompletionConfig struct {
	BaseURL string
	Token   string
	Model   string
}

func (c CompletionConfig) validate() (CompletionConfig, error) {
	var missing []string
	if c.BaseURL == "" {
		missing = append(missing, KeyCompletionBaseURL)
	}
	if c.Token == "" {
		missing = append(missing, KeyCompletionToken)
	}
	if c.Model == "" {
		missing = append(missing, KeyCompletionModel)
	}
	if len(missing) > 0 {
		return CompletionConfig{}, &MissingError{Keys: missing}
	}
	return c, nil
}

// MissingError lists required configuration keys that had no value.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Keys, ", "))
}

// CompletionSource reads completion settings from the environment, falling back
// to docker secrets, every time Load is called.
type CompletionSource struct {
	v *viper.Viper
}

// NewCompletionSource creates a source bound to the process environment.
func NewCompletionSource() *CompletionSource {
	v := viper.New()
	v.AutomaticEnv()
	return &CompletionSource{v: v}
}

// Load returns the current completion settings or a *MissingError.
func (s *CompletionSource) Load() (CompletionConfig, error) {
	get := func(key string) string {
		if value := strings.TrimSpace(s.v.GetString(key)); value != "" {
			return value
		}
		return readSecret(strings.ToLower(key))
	}

	cfg := CompletionConfig{
		BaseURL: strings.TrimRight(get(KeyCompletionBaseURL), "/"),
		Token:   get(KeyCompletionToken),
		Model:   get(KeyCompletionModel),
	}

	return cfg.validate()
}

// StaticCompletionSource always returns the same settings. Empty fields are
// still reported as missing.
type StaticCompletionSource CompletionConfig

// Load implements the same contract as CompletionSource.Load.
func (s StaticCompletionSource) Load() (CompletionConfig, error) {
	return CompletionConfig(s).validate()
}
