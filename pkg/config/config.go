// Package config loads and validates the CLI configuration from
// ~/.config/<binary>/config.yaml, creating a commented default on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL  = "http://localhost:4000/api/v1"
	DefaultMode     = "quick"
	DefaultPersona  = "sage"
	DefaultMinCards = 3
)

// HealthSettings controls the realtime health monitor.
type HealthSettings struct {
	SocketURL            string `yaml:"socketUrl,omitempty"`
	MaxReconnectAttempts int    `yaml:"maxReconnectAttempts,omitempty" validate:"min=0,max=20"`
	PollIntervalSeconds  int    `yaml:"pollIntervalSeconds,omitempty" validate:"min=0"`
}

// Config is the full CLI configuration.
type Config struct {
	BaseURL string `yaml:"baseURL,omitempty" validate:"omitempty,url"`
	Token   string `yaml:"token,omitempty"`

	Mode     string `yaml:"mode,omitempty" validate:"omitempty,oneof=quick creative deep"`
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	Persona  string `yaml:"persona,omitempty"`

	ThemeIntensity float64 `yaml:"themeIntensity,omitempty" validate:"min=0,max=1"`

	StreamIdleTimeoutSeconds int `yaml:"streamIdleTimeoutSeconds,omitempty" validate:"min=0"`

	ThoughtLogBound int    `yaml:"thoughtLogBound,omitempty" validate:"min=0,max=64"`
	MinCards        int    `yaml:"minCards,omitempty" validate:"min=0,max=12"`
	Classifier      string `yaml:"classifier,omitempty"`

	Health HealthSettings `yaml:"health,omitempty"`
}

func defaultConfig() *Config {
	return &Config{
		BaseURL:                  DefaultBaseURL,
		Mode:                     DefaultMode,
		Persona:                  DefaultPersona,
		ThemeIntensity:           0.6,
		StreamIdleTimeoutSeconds: 120,
		ThoughtLogBound:          12,
		MinCards:                 DefaultMinCards,
		Classifier:               "keyword",
		Health: HealthSettings{
			SocketURL:            "ws://localhost:4000/api/v1/system/health/stream",
			MaxReconnectAttempts: 5,
			PollIntervalSeconds:  30,
		},
	}
}

// LoadOrCreateConfig reads the config file, writing the defaults first when
// it does not exist yet.
func LoadOrCreateConfig() (*Config, error) {
	exePath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to determine executable path: %w", err)
	}
	binaryName := filepath.Base(exePath)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine user home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, ".config", binaryName)
	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := defaultConfig()
		if err := saveConfig(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	return loadConfig(configPath)
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func saveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks field constraints via struct tags.
func (cfg *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// ResolveToken picks the API token from flag, environment, then config, in
// that order. An empty result is fine: a local backend needs no token.
func ResolveToken(flagVal, envVar, configVal string) string {
	if strings.TrimSpace(flagVal) != "" {
		return strings.TrimSpace(flagVal)
	}
	if envVal := os.Getenv(envVar); strings.TrimSpace(envVal) != "" {
		return strings.TrimSpace(envVal)
	}
	return strings.TrimSpace(configVal)
}
