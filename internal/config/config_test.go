// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("expected model gpt-4o, got %s", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.Temperature != 0.9 {
		t.Errorf("expected temperature 0.9, got %f", cfg.OpenAI.Temperature)
	}
	if cfg.Defaults.Width != 1024 || cfg.Defaults.Height != 512 {
		t.Errorf("expected 1024x512, got %dx%d", cfg.Defaults.Width, cfg.Defaults.Height)
	}
	if cfg.Defaults.Mode != "origami" {
		t.Errorf("expected mode origami, got %s", cfg.Defaults.Mode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("BANNERGEN_HOME", tmpDir)

	if dir := Dir(); dir != tmpDir {
		t.Errorf("expected %s, got %s", tmpDir, dir)
	}
	if got := DBPath(); got != filepath.Join(tmpDir, "bannergen.db") {
		t.Errorf("unexpected db path %s", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("BANNERGEN_HOME", tmpDir)

	t.Setenv("OPENAI_MODEL", "")

	cfg := Default()
	cfg.Defaults.PromptCount = 5
	cfg.OpenAI.Model = "gpt-4o-mini"

	if err := Save(cfg); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Defaults.PromptCount != 5 {
		t.Errorf("expected prompt count 5, got %d", loaded.Defaults.PromptCount)
	}
	if loaded.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini, got %s", loaded.OpenAI.Model)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("BANNERGEN_HOME", t.TempDir())
	t.Setenv("DEEPAI_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.DeepAI.TimeoutSeconds != 60 {
		t.Errorf("expected timeout 60, got %d", cfg.DeepAI.TimeoutSeconds)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BANNERGEN_HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "sk-test"+strings.Repeat("x", 40))
	t.Setenv("DEEPAI_API_KEY", "test-deepai"+strings.Repeat("x", 20))
	t.Setenv("OPENAI_TEMPERATURE", "0.5")
	t.Setenv("DEFAULT_WIDTH", "1536")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !strings.HasPrefix(cfg.OpenAI.APIKey, "sk-test") {
		t.Errorf("expected openai key from env, got %q", cfg.OpenAI.APIKey)
	}
	if !strings.HasPrefix(cfg.DeepAI.APIKey, "test-deepai") {
		t.Errorf("expected deepai key from env, got %q", cfg.DeepAI.APIKey)
	}
	if cfg.OpenAI.Temperature != 0.5 {
		t.Errorf("expected temperature 0.5, got %f", cfg.OpenAI.Temperature)
	}
	if cfg.Defaults.Width != 1536 {
		t.Errorf("expected width 1536, got %d", cfg.Defaults.Width)
	}
	if err := cfg.RequireOpenAIKey(); err != nil {
		t.Errorf("unexpected key error: %v", err)
	}
	if err := cfg.RequireDeepAIKey(); err != nil {
		t.Errorf("unexpected key error: %v", err)
	}
}

func TestLoadRejectsMalformedEnv(t *testing.T) {
	t.Setenv("BANNERGEN_HOME", t.TempDir())
	t.Setenv("DEFAULT_HEIGHT", "tall")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric DEFAULT_HEIGHT")
	}
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("BANNERGEN_HOME", tmpDir)
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("openai: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRequireKeyLength(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.APIKey = "short"

	if err := cfg.RequireOpenAIKey(); err == nil {
		t.Error("expected error for short key")
	}
	if err := cfg.RequireDeepAIKey(); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"width not multiple of 32", func(c *Config) { c.Defaults.Width = 1000 }, "must be multiple of 32"},
		{"width too large", func(c *Config) { c.Defaults.Width = 2080 }, "between 128 and 2048"},
		{"height too small", func(c *Config) { c.Defaults.Height = 96 }, "between 128 and 2048"},
		{"temperature too high", func(c *Config) { c.OpenAI.Temperature = 3.0 }, "temperature"},
		{"max tokens zero", func(c *Config) { c.OpenAI.MaxTokens = 0 }, "max_tokens"},
		{"timeout too short", func(c *Config) { c.DeepAI.TimeoutSeconds = 5 }, "timeout"},
		{"unknown mode", func(c *Config) { c.Defaults.Mode = "fancy" }, "mode must be one of"},
		{"unknown version", func(c *Config) { c.Defaults.Version = "ultra" }, "version must be one of"},
		{"too many prompts", func(c *Config) { c.Defaults.PromptCount = 50 }, "prompt_count"},
		{"parallel zero", func(c *Config) { c.Defaults.Parallel = 0 }, "parallel"},
	}

	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
		if !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: error %q does not contain %q", tt.name, err.Error(), tt.wantErr)
		}
	}
}
