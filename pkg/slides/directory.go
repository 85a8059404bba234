package slides

import (
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	ConfigFileName = "config.yaml"
	SlidesFileName = "slides.md"
)

// DirectoryConfig is the optional config.yaml of a slide directory
type DirectoryConfig struct {
	Theme          string `mapstructure:"theme" validate:"required"`
	Style          string `mapstructure:"style" validate:"required"`
	PromptProvider string `mapstructure:"prompt_provider" validate:"required,oneof=openai gemini ollama lmstudio"`
	ImageProvider  string `mapstructure:"image_provider" validate:"required,oneof=openai gemini"`
}

// DefaultDirectoryConfig returns the configuration used when config.yaml is
// absent or leaves a key unset
func DefaultDirectoryConfig() DirectoryConfig {
	return DirectoryConfig{
		Theme:          "professional, modern",
		Style:          "landscape photography, natural lighting",
		PromptProvider: "ollama",
		ImageProvider:  "openai",
	}
}

var validate = validator.New()

// LoadConfig reads dir/config.yaml on top of the defaults
func LoadConfig(dir string) (DirectoryConfig, error) {
	defaults := DefaultDirectoryConfig()

	v := viper.New()
	v.SetDefault("theme", defaults.Theme)
	v.SetDefault("style", defaults.Style)
	v.SetDefault("prompt_provider", defaults.PromptProvider)
	v.SetDefault("image_provider", defaults.ImageProvider)

	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return DirectoryConfig{}, errors.Wrapf(err, "error reading %s", path)
		}
	} else if !os.IsNotExist(err) {
		return DirectoryConfig{}, errors.Wrapf(err, "error reading %s", path)
	}

	var cfg DirectoryConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return DirectoryConfig{}, errors.Wrapf(err, "error decoding %s", path)
	}

	if err := validate.Struct(cfg); err != nil {
		return DirectoryConfig{}, errors.Wrapf(err, "invalid %s", path)
	}

	return cfg, nil
}

// FromDirectory loads dir/config.yaml and the slides in dir/slides.md. A
// missing slides.md is an error; a missing config.yaml is not.
func FromDirectory(dir string) (DirectoryConfig, []SlideInfo, error) {
	cfg, err := LoadConfig(dir)
	if err != nil {
		return DirectoryConfig{}, nil, err
	}

	path := filepath.Join(dir, SlidesFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DirectoryConfig{}, nil, errors.Wrapf(err, "%s not found in %s", SlidesFileName, dir)
		}
		return DirectoryConfig{}, nil, errors.Wrapf(err, "error reading %s", path)
	}

	return cfg, FromTitles(ExtractHeaders(string(data))), nil
}
