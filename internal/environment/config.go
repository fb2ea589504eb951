// Package environment assembles client configuration from defaults, an
// optional TOML file and environment variables, in that order of
// precedence (later wins).
package environment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/Avadhutgiri/judge-cli/internal/xdg"
)

// Config is everything the CLI needs to reach the judge.
type Config struct {
	BaseURL string `toml:"base_url"`
	NatsURL string `toml:"nats_url"`

	Delivery DeliveryConfig `toml:"delivery"`
	Reveal   RevealConfig   `toml:"reveal"`
	Defaults DefaultsConfig `toml:"defaults"`
}

// DeliveryConfig holds the dual-channel timers and budgets.
type DeliveryConfig struct {
	RunFallbackMs    int `toml:"run_fallback_ms"`
	SubmitFallbackMs int `toml:"submit_fallback_ms"`
	PollIntervalMs   int `toml:"poll_interval_ms"`
	PollAttempts     int `toml:"poll_attempts"`
}

// RevealConfig holds the test-case animation timing.
type RevealConfig struct {
	DelayMs int `toml:"delay_ms"`
}

// DefaultsConfig holds per-user conveniences.
type DefaultsConfig struct {
	Language string `toml:"language"`

	// TestCaseCount is the placeholder estimate used until a problem
	// discloses its own count.
	TestCaseCount int `toml:"test_case_count"`
}

func defaults() Config {
	return Config{
		BaseURL: "http://localhost:8080",
		NatsURL: "nats://localhost:4222",
		Delivery: DeliveryConfig{
			RunFallbackMs:    30000,
			SubmitFallbackMs: 10000,
			PollIntervalMs:   2000,
			PollAttempts:     5,
		},
		Reveal:   RevealConfig{DelayMs: 800},
		Defaults: DefaultsConfig{Language: "python", TestCaseCount: 5},
	}
}

// ConfigFilePath is where Read looks for the TOML file.
func ConfigFilePath() string {
	return filepath.Join(xdg.ConfigHome(), "config.toml")
}

// Read loads the configuration. A missing config file or .env file is fine;
// a malformed config file is not.
func Read() (Config, error) {
	return read(ConfigFilePath())
}

func read(configPath string) (Config, error) {
	// .env is a developer convenience, absence is the normal case
	_ = godotenv.Load()

	cfg := defaults()

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", configPath, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", configPath, err)
	}

	if v := os.Getenv("JUDGE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("JUDGE_NATS_URL"); v != "" {
		cfg.NatsURL = v
	}
	if v := os.Getenv("JUDGE_LANGUAGE"); v != "" {
		cfg.Defaults.Language = v
	}
	if v := os.Getenv("JUDGE_POLL_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("JUDGE_POLL_ATTEMPTS: %w", err)
		}
		cfg.Delivery.PollAttempts = n
	}

	return cfg, nil
}
