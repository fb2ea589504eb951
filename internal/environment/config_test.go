package environment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultsWhenNoFile(t *testing.T) {
	cfg, err := read(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, 30000, cfg.Delivery.RunFallbackMs)
	require.Equal(t, 10000, cfg.Delivery.SubmitFallbackMs)
	require.Equal(t, 2000, cfg.Delivery.PollIntervalMs)
	require.Equal(t, 5, cfg.Delivery.PollAttempts)
	require.Equal(t, 800, cfg.Reveal.DelayMs)
	require.Equal(t, 5, cfg.Defaults.TestCaseCount)
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url = "https://judge.example.com"

[delivery]
poll_attempts = 3
`), 0o644))

	cfg, err := read(path)
	require.NoError(t, err)
	require.Equal(t, "https://judge.example.com", cfg.BaseURL)
	require.Equal(t, 3, cfg.Delivery.PollAttempts)
	// untouched sections keep their defaults
	require.Equal(t, 800, cfg.Reveal.DelayMs)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`base_url = "https://from-file"`), 0o644))
	t.Setenv("JUDGE_BASE_URL", "https://from-env")

	cfg, err := read(path)
	require.NoError(t, err)
	require.Equal(t, "https://from-env", cfg.BaseURL)
}

func TestMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o644))

	_, err := read(path)
	require.Error(t, err)
}
