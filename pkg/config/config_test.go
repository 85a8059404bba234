package config

import (
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	config := NewConfig()

	if config.Timeout != 60*time.Second {
		t.Errorf("Expected default Timeout 60s, got %v", config.Timeout)
	}

	if config.ImageTimeout != 120*time.Second {
		t.Errorf("Expected default ImageTimeout 120s, got %v", config.ImageTimeout)
	}

	if config.HealthTimeout != 5*time.Second {
		t.Errorf("Expected default HealthTimeout 5s, got %v", config.HealthTimeout)
	}
}

func TestConfigOptions(t *testing.T) {
	config := NewConfig(
		WithAPIKey("test-api-key"),
		WithModel("test-model"),
		WithImageModel("test-image-model"),
		WithBaseURL("https://test.example.com"),
		WithTimeout(10*time.Second),
		WithImageTimeout(20*time.Second),
		WithHealthTimeout(time.Second),
	)

	if config.APIKey != "test-api-key" {
		t.Errorf("Expected APIKey 'test-api-key', got %q", config.APIKey)
	}

	if config.Model != "test-model" {
		t.Errorf("Expected Model 'test-model', got %q", config.Model)
	}

	if config.ImageModel != "test-image-model" {
		t.Errorf("Expected ImageModel 'test-image-model', got %q", config.ImageModel)
	}

	if config.BaseURL != "https://test.example.com" {
		t.Errorf("Expected BaseURL 'https://test.example.com', got %q", config.BaseURL)
	}

	if config.Timeout != 10*time.Second {
		t.Errorf("Expected Timeout 10s, got %v", config.Timeout)
	}

	if config.ImageTimeout != 20*time.Second {
		t.Errorf("Expected ImageTimeout 20s, got %v", config.ImageTimeout)
	}

	if config.HealthTimeout != time.Second {
		t.Errorf("Expected HealthTimeout 1s, got %v", config.HealthTimeout)
	}
}

func TestFromEnvironment(t *testing.T) {
	env := MapEnv{
		"TEST_API_KEY":        "env-api-key",
		"TEST_MODEL":          "env-model",
		"TEST_IMAGE_MODEL":    "env-image-model",
		"TEST_BASE_URL":       "https://env.example.com",
		"TEST_TIMEOUT":        "20s",
		"TEST_HEALTH_TIMEOUT": "2",
	}

	config := FromEnvironment("TEST", env)

	if config.APIKey != "env-api-key" {
		t.Errorf("Expected APIKey 'env-api-key', got %q", config.APIKey)
	}
	if config.Model != "env-model" {
		t.Errorf("Expected Model 'env-model', got %q", config.Model)
	}
	if config.ImageModel != "env-image-model" {
		t.Errorf("Expected ImageModel 'env-image-model', got %q", config.ImageModel)
	}
	if config.BaseURL != "https://env.example.com" {
		t.Errorf("Expected BaseURL 'https://env.example.com', got %q", config.BaseURL)
	}
	if config.Timeout != 20*time.Second {
		t.Errorf("Expected Timeout 20s, got %v", config.Timeout)
	}
	if config.ImageTimeout != DefaultImageTimeout {
		t.Errorf("Expected default ImageTimeout, got %v", config.ImageTimeout)
	}
	if config.HealthTimeout != 2*time.Second {
		t.Errorf("Expected HealthTimeout 2s, got %v", config.HealthTimeout)
	}
}

func TestFromEnvironmentTimeoutParsing(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", DefaultTimeout},
		{"45", 45 * time.Second},
		{"1m30s", 90 * time.Second},
		{"soon", DefaultTimeout},
		{"-5", DefaultTimeout},
		{"0s", DefaultTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			config := FromEnvironment("X_", MapEnv{"X_TIMEOUT": tt.value})
			if config.Timeout != tt.want {
				t.Errorf("timeout %q: expected %v, got %v", tt.value, tt.want, config.Timeout)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := NewConfig(
		WithAPIKey("base-key"),
		WithModel("base-model"),
		WithBaseURL("https://base.example.com"),
	)

	override := Config{
		APIKey:     "override-key",
		ImageModel: "override-image",
		Timeout:    5 * time.Second,
	}

	merged := base.Merge(override)

	if merged.APIKey != "override-key" {
		t.Errorf("Expected APIKey 'override-key', got %q", merged.APIKey)
	}
	if merged.Model != "base-model" {
		t.Errorf("Expected Model 'base-model', got %q", merged.Model)
	}
	if merged.ImageModel != "override-image" {
		t.Errorf("Expected ImageModel 'override-image', got %q", merged.ImageModel)
	}
	if merged.BaseURL != "https://base.example.com" {
		t.Errorf("Expected BaseURL to be kept, got %q", merged.BaseURL)
	}
	if merged.Timeout != 5*time.Second {
		t.Errorf("Expected Timeout 5s, got %v", merged.Timeout)
	}
	if merged.ImageTimeout != DefaultImageTimeout {
		t.Errorf("Expected ImageTimeout to be kept, got %v", merged.ImageTimeout)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", "x", "y"); got != "x" {
		t.Errorf("Expected 'x', got %q", got)
	}
	if got := FirstNonEmpty("", ""); got != "" {
		t.Errorf("Expected empty, got %q", got)
	}
}
