package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const minKeyLength = 20

type Config struct {
	OpenAI   OpenAIConfig   `yaml:"openai"`
	DeepAI   DeepAIConfig   `yaml:"deepai"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Log      LogConfig      `yaml:"log"`
}

type OpenAIConfig struct {
	APIKey      string  `yaml:"api_key,omitempty"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type DeepAIConfig struct {
	APIKey         string `yaml:"api_key,omitempty"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
	MinIntervalMS  int    `yaml:"min_interval_ms"`
}

type DefaultsConfig struct {
	InputDir    string `yaml:"input_dir"`
	OutputDir   string `yaml:"output_dir"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Mode        string `yaml:"mode"`
	Version     string `yaml:"version"`
	DeepAIStyle string `yaml:"deepai_style"`
	PromptCount int    `yaml:"prompt_count"`
	Parallel    int    `yaml:"parallel"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

var (
	Modes    = []string{"simple", "origami"}
	Versions = []string{"standard", "hd", "genius"}
)

func Default() *Config {
	return &Config{
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o",
			Temperature: 0.9,
			MaxTokens:   1000,
		},
		DeepAI: DeepAIConfig{
			BaseURL:        "https://api.deepai.org/api",
			TimeoutSeconds: 60,
			MaxRetries:     3,
		},
		Defaults: DefaultsConfig{
			InputDir:    "./posts",
			OutputDir:   "./banners",
			Width:       1024,
			Height:      512,
			Mode:        "origami",
			Version:     "standard",
			DeepAIStyle: "origami-3d-generator",
			PromptCount: 10,
			Parallel:    1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func Dir() string {
	if dir := os.Getenv("BANNERGEN_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".bannergen")
}

func DBPath() string {
	return filepath.Join(Dir(), "bannergen.db")
}

func LogPath() string {
	return filepath.Join(Dir(), "logs", "bannergen.log")
}

func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads config.yaml, then .env from the working directory, then the
// process environment. Later sources win.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", Path(), err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	// godotenv never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(Path(), data, 0600)
}

func (c *Config) applyEnv() error {
	setString(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&c.OpenAI.Model, "OPENAI_MODEL")
	setString(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&c.DeepAI.BaseURL, "DEEPAI_BASE_URL")
	setString(&c.DeepAI.APIKey, "DEEPAI_API_KEY")
	setString(&c.Defaults.InputDir, "DEFAULT_INPUT_DIR")
	setString(&c.Defaults.OutputDir, "DEFAULT_OUTPUT_DIR")
	setString(&c.Defaults.Mode, "DEFAULT_STYLE")
	setString(&c.Defaults.Version, "DEFAULT_VERSION")
	setString(&c.Defaults.DeepAIStyle, "DEFAULT_DEEPAI_STYLE")
	setString(&c.Log.Level, "LOG_LEVEL")

	if v, ok := lookup("OPENAI_TEMPERATURE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("OPENAI_TEMPERATURE: invalid number %q", v)
		}
		c.OpenAI.Temperature = f
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"OPENAI_MAX_TOKENS", &c.OpenAI.MaxTokens},
		{"DEEPAI_TIMEOUT", &c.DeepAI.TimeoutSeconds},
		{"DEFAULT_WIDTH", &c.Defaults.Width},
		{"DEFAULT_HEIGHT", &c.Defaults.Height},
	}
	for _, e := range ints {
		v, ok := lookup(e.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", e.key, v)
		}
		*e.dst = n
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

// Validate checks ranges of every tunable. API keys are checked separately
// because not every command needs both.
func (c *Config) Validate() error {
	var errs []error

	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		errs = append(errs, fmt.Errorf("openai temperature must be between 0 and 2, got %g", c.OpenAI.Temperature))
	}
	if c.OpenAI.MaxTokens < 1 || c.OpenAI.MaxTokens > 4000 {
		errs = append(errs, fmt.Errorf("openai max_tokens must be between 1 and 4000, got %d", c.OpenAI.MaxTokens))
	}
	if c.DeepAI.TimeoutSeconds < 10 || c.DeepAI.TimeoutSeconds > 300 {
		errs = append(errs, fmt.Errorf("deepai timeout must be between 10 and 300 seconds, got %d", c.DeepAI.TimeoutSeconds))
	}
	if c.DeepAI.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("deepai max_retries must not be negative, got %d", c.DeepAI.MaxRetries))
	}
	if err := ValidateDimension("width", c.Defaults.Width); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateDimension("height", c.Defaults.Height); err != nil {
		errs = append(errs, err)
	}
	if !contains(Modes, c.Defaults.Mode) {
		errs = append(errs, fmt.Errorf("mode must be one of [%s], got %q", strings.Join(Modes, ", "), c.Defaults.Mode))
	}
	if !contains(Versions, c.Defaults.Version) {
		errs = append(errs, fmt.Errorf("version must be one of [%s], got %q", strings.Join(Versions, ", "), c.Defaults.Version))
	}
	if c.Defaults.PromptCount < 1 || c.Defaults.PromptCount > 20 {
		errs = append(errs, fmt.Errorf("prompt_count must be between 1 and 20, got %d", c.Defaults.PromptCount))
	}
	if c.Defaults.Parallel < 1 || c.Defaults.Parallel > 8 {
		errs = append(errs, fmt.Errorf("parallel must be between 1 and 8, got %d", c.Defaults.Parallel))
	}

	return errors.Join(errs...)
}

// ValidateDimension checks a banner width or height.
func ValidateDimension(name string, v int) error {
	if v < 128 || v > 2048 {
		return fmt.Errorf("%s must be between 128 and 2048, got %d", name, v)
	}
	if v%32 != 0 {
		return fmt.Errorf("%s must be multiple of 32, got %d", name, v)
	}
	return nil
}

func (c *Config) RequireOpenAIKey() error {
	return requireKey("OPENAI_API_KEY", c.OpenAI.APIKey)
}

func (c *Config) RequireDeepAIKey() error {
	return requireKey("DEEPAI_API_KEY", c.DeepAI.APIKey)
}

func requireKey(name, key string) error {
	if key == "" {
		return fmt.Errorf("%s is not set (export it, add it to .env, or pass it as a flag)", name)
	}
	if len(key) < minKeyLength {
		return fmt.Errorf("%s looks invalid: expected at least %d characters", name, minKeyLength)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
