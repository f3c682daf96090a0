package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_FillsDefaultsForMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("mode: creative\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Mode != "creative" {
		t.Errorf("Mode = %q, want creative", cfg.Mode)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.BaseURL)
	}
	if cfg.ThoughtLogBound != 12 || cfg.MinCards != DefaultMinCards {
		t.Errorf("bounds = %d/%d, want defaults", cfg.ThoughtLogBound, cfg.MinCards)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"bad mode", func(c *Config) { c.Mode = "turbo" }, true},
		{"bad base url", func(c *Config) { c.BaseURL = "not a url" }, true},
		{"theme intensity above one", func(c *Config) { c.ThemeIntensity = 1.5 }, true},
		{"negative idle timeout", func(c *Config) { c.StreamIdleTimeoutSeconds = -1 }, true},
		{"oversized thought log", func(c *Config) { c.ThoughtLogBound = 100 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveToken(t *testing.T) {
	t.Setenv("TOOLOO_TOKEN_TEST", "from-env")

	if got := ResolveToken("from-flag", "TOOLOO_TOKEN_TEST", "from-config"); got != "from-flag" {
		t.Errorf("flag should win, got %q", got)
	}
	if got := ResolveToken("", "TOOLOO_TOKEN_TEST", "from-config"); got != "from-env" {
		t.Errorf("env should win over config, got %q", got)
	}
	if got := ResolveToken("", "TOOLOO_TOKEN_UNSET", "from-config"); got != "from-config" {
		t.Errorf("config fallback, got %q", got)
	}
	if got := ResolveToken("", "TOOLOO_TOKEN_UNSET", ""); got != "" {
		t.Errorf("empty token is allowed, got %q", got)
	}
}
