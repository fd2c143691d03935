// Package config handles configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Common errors
var (
	Err = errors.New("config error")
)

// Config represents the application configuration
type Config struct {
	Tesuto       TesutoConfig       `mapstructure:"tesuto"`
	Docker       DockerConfig       `mapstructure:"docker"`
	Harness      HarnessConfig      `mapstructure:"harness"`
	Notification NotificationConfig `mapstructure:"notification"`

	// ConfigFilePath stores the path to the loaded config file (not marshaled from YAML)
	ConfigFilePath string `mapstructure:"-"`
}

// TesutoConfig contains settings for the Tesuto REST API
type TesutoConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	APIToken string `mapstructure:"api_token"`
}

// DockerConfig contains Docker daemon connection settings
type DockerConfig struct {
	SocketPath string `mapstructure:"socket_path"`
}

// HarnessConfig identifies the image and container managed by the lifecycle
// commands. The names are configuration rather than hard-coded constants so
// multiple named instances can coexist if ever needed.
type HarnessConfig struct {
	ImageName     string `mapstructure:"image_name"`
	ImageTag      string `mapstructure:"image_tag"`
	ContainerName string `mapstructure:"container_name"`
	BuildContext  string `mapstructure:"build_context"`
	Dockerfile    string `mapstructure:"dockerfile"`
	StopTimeout   int    `mapstructure:"stop_timeout"` // seconds
}

// ImageRef returns the image reference in name:tag form.
func (h HarnessConfig) ImageRef() string {
	return h.ImageName + ":" + h.ImageTag
}

// NotificationConfig contains notification settings
type NotificationConfig struct {
	ShoutrrURL string `mapstructure:"shoutrrr_url"` // Shoutrrr URL format
	Enabled    bool   `mapstructure:"enabled"`
}

// autoDetectDockerSocket determines the Docker socket path based on environment and platform.
func autoDetectDockerSocket() string {
	if os.Getenv("DOCKER_HOST") != "" {
		return os.Getenv("DOCKER_HOST")
	}
	// Check for Unix socket
	if _, err := os.Stat("/var/run/docker.sock"); err == nil {
		return "unix:///var/run/docker.sock"
	}
	// Default to Windows named pipe if Unix socket not found
	return "npipe:////./pipe/docker_engine"
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	// Set config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/ntc-tesuto")
		v.AddConfigPath("/etc/ntc-tesuto")
	}

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			configFile := v.ConfigFileUsed()
			if configFile == "" {
				configFile = configPath
			}
			return nil, fmt.Errorf("error reading config file from %s: %w", configFile, err)
		}
		// Config file not found; using defaults and env vars
	}

	// Environment variable support
	v.SetEnvPrefix("NTC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// TESUTO_API_TOKEN is the variable the container harness injects and the
	// one operators already know from the original tooling, so it is honored
	// in addition to the NTC_ prefixed form.
	_ = v.BindEnv("tesuto.api_token", "TESUTO_API_TOKEN", "NTC_TESUTO_API_TOKEN") // nolint:errcheck // BindEnv only errors on empty key

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		configFile := v.ConfigFileUsed()
		if configFile == "" {
			configFile = "(using defaults and environment variables)"
		}
		return nil, fmt.Errorf("error unmarshaling config from %s: %w", configFile, err)
	}

	// Store the config file path in the struct (DI approach, no global state)
	cfg.ConfigFilePath = v.ConfigFileUsed()

	// Auto-detect Docker socket if not specified
	if cfg.Docker.SocketPath == "" {
		cfg.Docker.SocketPath = autoDetectDockerSocket()
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		configFile := v.ConfigFileUsed()
		if configFile == "" {
			configFile = "(using defaults and environment variables)"
		}
		return nil, fmt.Errorf("config validation failed for %s: %w", configFile, err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Tesuto API defaults
	v.SetDefault("tesuto.base_url", "https://app.tesuto.com/api/v1")
	v.SetDefault("tesuto.api_token", "") // Required for AutomaticEnv to work

	// Docker defaults
	if os.Getenv("DOCKER_HOST") != "" {
		v.SetDefault("docker.socket_path", os.Getenv("DOCKER_HOST"))
	} else {
		// Default Docker socket paths by platform
		if _, err := os.Stat("/var/run/docker.sock"); err == nil {
			v.SetDefault("docker.socket_path", "unix:///var/run/docker.sock")
		} else {
			v.SetDefault("docker.socket_path", "npipe:////./pipe/docker_engine")
		}
	}

	// Harness defaults mirror the names the original Makefile used
	v.SetDefault("harness.image_name", "ntc-tesuto")
	v.SetDefault("harness.image_tag", "latest")
	v.SetDefault("harness.container_name", "ntc-tesuto-container")
	v.SetDefault("harness.build_context", ".")
	v.SetDefault("harness.dockerfile", "Dockerfile")
	v.SetDefault("harness.stop_timeout", 10)

	// Notification defaults
	v.SetDefault("notification.shoutrrr_url", "") // Required for AutomaticEnv to work
	v.SetDefault("notification.enabled", false)
}

// Validate ensures all required fields are set and values are within valid ranges.
func (c *Config) Validate() error {
	configSource := c.ConfigFilePath
	if configSource == "" {
		configSource = "(defaults/environment)"
	}

	if err := c.validateRequiredFields(configSource); err != nil {
		return err
	}

	return c.validateRanges(configSource)
}

func (c *Config) validateRequiredFields(configSource string) error {
	requiredFields := []struct {
		value   string
		message string
	}{
		{c.Tesuto.BaseURL, "tesuto.base_url is required in config %s"},
		{c.Docker.SocketPath, "docker.socket_path is required in config %s"},
		{c.Harness.ImageName, "harness.image_name is required in config %s"},
		{c.Harness.ImageTag, "harness.image_tag is required in config %s"},
		{c.Harness.ContainerName, "harness.container_name is required in config %s"},
		{c.Harness.BuildContext, "harness.build_context is required in config %s"},
		{c.Harness.Dockerfile, "harness.dockerfile is required in config %s"},
	}

	for _, field := range requiredFields {
		if field.value == "" {
			return fmt.Errorf(field.message, configSource)
		}
	}
	return nil
}

func (c *Config) validateRanges(configSource string) error {
	if c.Harness.StopTimeout < 1 || c.Harness.StopTimeout > 600 {
		return fmt.Errorf("harness.stop_timeout must be between 1 and 600 seconds, got %d in config %s",
			c.Harness.StopTimeout, configSource)
	}
	return nil
}
