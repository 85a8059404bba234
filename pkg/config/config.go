// Package config provides configuration structures for slidegen providers
package config

import (
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTimeout       = 60 * time.Second
	DefaultImageTimeout  = 120 * time.Second
	DefaultHealthTimeout = 5 * time.Second
)

// Config provides explicit configuration for a single provider backend.
// It is assembled once by the factory and passed by value to the backend
// constructor; backends never read the environment themselves.
type Config struct {
	// API credentials
	APIKey string

	// Service configuration
	BaseURL string

	// Model is the text model used for prompt generation
	Model string

	// ImageModel is the model used for image generation
	ImageModel string

	// Timeout applies to each prompt generation call
	Timeout time.Duration

	// ImageTimeout applies to each image generation call
	ImageTimeout time.Duration

	// HealthTimeout applies to lightweight liveness probes
	HealthTimeout time.Duration
}

// ProviderOption allows optional configuration updates
type ProviderOption func(*Config)

// WithAPIKey sets the API key
func WithAPIKey(apiKey string) ProviderOption {
	return func(c *Config) {
		c.APIKey = apiKey
	}
}

// WithBaseURL sets the API base URL
func WithBaseURL(baseURL string) ProviderOption {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithModel sets the prompt model name
func WithModel(model string) ProviderOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithImageModel sets the image model name
func WithImageModel(model string) ProviderOption {
	return func(c *Config) {
		c.ImageModel = model
	}
}

// WithTimeout sets the prompt request timeout
func WithTimeout(timeout time.Duration) ProviderOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithImageTimeout sets the image request timeout
func WithImageTimeout(timeout time.Duration) ProviderOption {
	return func(c *Config) {
		c.ImageTimeout = timeout
	}
}

// WithHealthTimeout sets the health probe timeout
func WithHealthTimeout(timeout time.Duration) ProviderOption {
	return func(c *Config) {
		c.HealthTimeout = timeout
	}
}

// NewConfig creates a new configuration with defaults
func NewConfig(options ...ProviderOption) Config {
	config := Config{
		Timeout:       DefaultTimeout,
		ImageTimeout:  DefaultImageTimeout,
		HealthTimeout: DefaultHealthTimeout,
	}

	for _, option := range options {
		option(&config)
	}

	return config
}

// Env is a read-only source of configuration values keyed by environment
// variable name. *viper.Viper satisfies it.
type Env interface {
	GetString(key string) string
}

// MapEnv is an Env backed by a plain map
type MapEnv map[string]string

// GetString returns the value stored under key
func (m MapEnv) GetString(key string) string {
	return m[key]
}

// FromEnvironment loads configuration from prefixed environment variables
// (<PREFIX>_API_KEY, _BASE_URL, _MODEL, _IMAGE_MODEL, _TIMEOUT, _IMAGE_TIMEOUT,
// _HEALTH_TIMEOUT) on top of the defaults from NewConfig
func FromEnvironment(prefix string, env Env) Config {
	if prefix != "" && prefix[len(prefix)-1] != '_' {
		prefix = prefix + "_"
	}

	return NewConfig(
		WithAPIKey(env.GetString(prefix+"API_KEY")),
		WithBaseURL(env.GetString(prefix+"BASE_URL")),
		WithModel(env.GetString(prefix+"MODEL")),
		WithImageModel(env.GetString(prefix+"IMAGE_MODEL")),
		WithTimeout(parseEnvDuration(env, prefix+"TIMEOUT", DefaultTimeout)),
		WithImageTimeout(parseEnvDuration(env, prefix+"IMAGE_TIMEOUT", DefaultImageTimeout)),
		WithHealthTimeout(parseEnvDuration(env, prefix+"HEALTH_TIMEOUT", DefaultHealthTimeout)),
	)
}

// Merge combines this configuration with another, with the other taking precedence
func (c Config) Merge(other Config) Config {
	result := c

	if other.APIKey != "" {
		result.APIKey = other.APIKey
	}

	if other.BaseURL != "" {
		result.BaseURL = other.BaseURL
	}

	if other.Model != "" {
		result.Model = other.Model
	}

	if other.ImageModel != "" {
		result.ImageModel = other.ImageModel
	}

	if other.Timeout != 0 {
		result.Timeout = other.Timeout
	}

	if other.ImageTimeout != 0 {
		result.ImageTimeout = other.ImageTimeout
	}

	if other.HealthTimeout != 0 {
		result.HealthTimeout = other.HealthTimeout
	}

	return result
}

// FirstNonEmpty returns the first non-blank value
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// parseEnvDuration accepts Go durations ("90s") and bare integers as seconds
func parseEnvDuration(env Env, key string, defaultValue time.Duration) time.Duration {
	valueStr := strings.TrimSpace(env.GetString(key))
	if valueStr == "" {
		return defaultValue
	}

	if seconds, err := strconv.Atoi(valueStr); err == nil {
		if seconds <= 0 {
			return defaultValue
		}
		return time.Duration(seconds) * time.Second
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}

	return value
}
